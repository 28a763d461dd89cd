// Package workflow implements the review pipeline: a fixed-schema state
// shared by declared-IO steps, a dependency graph derived from those
// declarations, and a concurrent scheduler that drives a review from PDF
// path to backend write-back.
package workflow

import (
	"fmt"
	"slices"

	"github.com/mwhitfield/bursar/internal/backend"
	"github.com/mwhitfield/bursar/internal/expense"
)

// Field names a slot in the shared review state. The string values are the
// wire names of the original pipeline records.
type Field string

// State fields.
const (
	FieldPDFPath       Field = "pdf_path"
	FieldSections      Field = "pdf_sections"
	FieldHeader        Field = "header_extraction"
	FieldInvoices      Field = "invoices_extraction"
	FieldSummary       Field = "summary_extraction"
	FieldAllowances    Field = "allowances"
	FieldTotalOK       Field = "total_ok"
	FieldTicketExists  Field = "ticket_exists"
	FieldTicketData    Field = "ticket_data"
	FieldRateSelection Field = "rate_selection"
	// FieldDateComparison keeps the misspelled wire name of the original
	// record for compatibility.
	FieldDateComparison Field = "date_comparsion"
	FieldAllowanceCalc  Field = "allowance_calculation"
	FieldDecision       Field = "approval_decision"
)

var knownFields = []Field{
	FieldPDFPath,
	FieldSections,
	FieldHeader,
	FieldInvoices,
	FieldSummary,
	FieldAllowances,
	FieldTotalOK,
	FieldTicketExists,
	FieldTicketData,
	FieldRateSelection,
	FieldDateComparison,
	FieldAllowanceCalc,
	FieldDecision,
}

// KnownField reports whether f names a defined state field.
func KnownField(f Field) bool {
	return slices.Contains(knownFields, f)
}

// State is the shared review state. Every field is optional; a field is
// present once the step that owns it has produced a value. Steps receive
// copies and must treat referenced data as read-only; only the scheduler
// writes to the canonical state, one atomic merge per step.
type State struct {
	PDFPath      string
	Sections     *expense.Sections
	Header       *expense.HeaderExtraction
	Invoices     *expense.InvoicesExtraction
	Summary      *expense.SummaryExtraction
	Allowances   map[string]float64
	TotalOK      *bool
	TicketExists *bool
	TicketData   backend.Ticket
	Rate         *expense.RateSelection
	Dates        *expense.DateComparison
	Allowance    *expense.AllowanceCalculation
	Decision     *expense.ApprovalDecision
}

// Has reports whether a field holds a value. Presence follows the value:
// a step that produced nil for its field (an unfound ticket's data) leaves
// the field absent, and downstream guards treat it as missing.
func (s State) Has(f Field) bool {
	switch f {
	case FieldPDFPath:
		return s.PDFPath != ""
	case FieldSections:
		return s.Sections != nil
	case FieldHeader:
		return s.Header != nil
	case FieldInvoices:
		return s.Invoices != nil
	case FieldSummary:
		return s.Summary != nil
	case FieldAllowances:
		return s.Allowances != nil
	case FieldTotalOK:
		return s.TotalOK != nil
	case FieldTicketExists:
		return s.TicketExists != nil
	case FieldTicketData:
		return s.TicketData != nil
	case FieldRateSelection:
		return s.Rate != nil
	case FieldDateComparison:
		return s.Dates != nil
	case FieldAllowanceCalc:
		return s.Allowance != nil
	case FieldDecision:
		return s.Decision != nil
	default:
		return false
	}
}

// HasAll reports whether every listed field holds a value.
func (s State) HasAll(fields []Field) bool {
	for _, f := range fields {
		if !s.Has(f) {
			return false
		}
	}
	return true
}

// Update is the partial state a step produces. Absent fields are nil.
// The seed field pdf_path is deliberately not representable: only the
// initial state carries it.
type Update struct {
	Sections     *expense.Sections
	Header       *expense.HeaderExtraction
	Invoices     *expense.InvoicesExtraction
	Summary      *expense.SummaryExtraction
	Allowances   map[string]float64
	TotalOK      *bool
	TicketExists *bool
	TicketData   backend.Ticket
	Rate         *expense.RateSelection
	Dates        *expense.DateComparison
	Allowance    *expense.AllowanceCalculation
	Decision     *expense.ApprovalDecision
}

// fields lists the state fields this update carries.
func (u Update) fields() []Field {
	var fs []Field
	if u.Sections != nil {
		fs = append(fs, FieldSections)
	}
	if u.Header != nil {
		fs = append(fs, FieldHeader)
	}
	if u.Invoices != nil {
		fs = append(fs, FieldInvoices)
	}
	if u.Summary != nil {
		fs = append(fs, FieldSummary)
	}
	if u.Allowances != nil {
		fs = append(fs, FieldAllowances)
	}
	if u.TotalOK != nil {
		fs = append(fs, FieldTotalOK)
	}
	if u.TicketExists != nil {
		fs = append(fs, FieldTicketExists)
	}
	if u.TicketData != nil {
		fs = append(fs, FieldTicketData)
	}
	if u.Rate != nil {
		fs = append(fs, FieldRateSelection)
	}
	if u.Dates != nil {
		fs = append(fs, FieldDateComparison)
	}
	if u.Allowance != nil {
		fs = append(fs, FieldAllowanceCalc)
	}
	if u.Decision != nil {
		fs = append(fs, FieldDecision)
	}
	return fs
}

// merge writes the update's fields into the state. A field that already
// holds a value is a collision: the graph validation guarantees a single
// writer per field, so a collision means engine misuse.
func (s *State) merge(u Update) error {
	for _, f := range u.fields() {
		if s.Has(f) {
			return fmt.Errorf("%w: %s", ErrFieldCollision, f)
		}
	}

	if u.Sections != nil {
		s.Sections = u.Sections
	}
	if u.Header != nil {
		s.Header = u.Header
	}
	if u.Invoices != nil {
		s.Invoices = u.Invoices
	}
	if u.Summary != nil {
		s.Summary = u.Summary
	}
	if u.Allowances != nil {
		s.Allowances = u.Allowances
	}
	if u.TotalOK != nil {
		s.TotalOK = u.TotalOK
	}
	if u.TicketExists != nil {
		s.TicketExists = u.TicketExists
	}
	if u.TicketData != nil {
		s.TicketData = u.TicketData
	}
	if u.Rate != nil {
		s.Rate = u.Rate
	}
	if u.Dates != nil {
		s.Dates = u.Dates
	}
	if u.Allowance != nil {
		s.Allowance = u.Allowance
	}
	if u.Decision != nil {
		s.Decision = u.Decision
	}
	return nil
}
