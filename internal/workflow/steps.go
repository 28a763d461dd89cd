package workflow

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mwhitfield/bursar/internal/expense"
)

// Step names, as reported in a run's Report.
const (
	StepExtractPDF         = "extract_pdf"
	StepExtractData        = "extract_data"
	StepGetAllowances      = "get_allowances"
	StepCheckTicketExists  = "check_ticket_exists"
	StepCheckTotal         = "check_total"
	StepSelectDailyRate    = "select_daily_rate"
	StepCompareDates       = "compare_dates"
	StepAllowanceCheck     = "allowance_check"
	StepApprovalDecision   = "approval_decision"
	StepUpdateTicketStatus = "update_ticket_status"
)

// ExtractPDFStep loads the report PDF and splits its text into the header,
// invoices, and summary sections. An unreadable file degrades to an absent
// pdf_sections field, which skips the extraction branch downstream.
func ExtractPDFStep(rt *Runtime) Step {
	return NewStep(
		StepExtractPDF,
		[]Field{FieldPDFPath},
		[]Field{FieldSections},
		func(ctx context.Context, state State) (Update, error) {
			secs, err := rt.Sections.Extract(ctx, state.PDFPath)
			if err != nil {
				if ctx.Err() != nil {
					return Update{}, ctx.Err()
				}
				rt.Logger.WarnContext(ctx, "section extraction failed",
					"path", state.PDFPath,
					"error", err)
				return Update{}, nil
			}
			return Update{Sections: secs}, nil
		},
	)
}

// ExtractDataStep runs the three structured extractions over the section
// texts concurrently and publishes their records as one update.
func ExtractDataStep(rt *Runtime) Step {
	return NewStep(
		StepExtractData,
		[]Field{FieldSections},
		[]Field{FieldHeader, FieldInvoices, FieldSummary},
		func(ctx context.Context, state State) (Update, error) {
			var (
				header   expense.HeaderExtraction
				invoices expense.InvoicesExtraction
				summary  expense.SummaryExtraction
			)

			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(workerCount(3))

			g.Go(func() error {
				var err error
				header, err = rt.Extraction.Header(gctx, state.Sections.Header)
				return err
			})
			g.Go(func() error {
				var err error
				invoices, err = rt.Extraction.Invoices(gctx, state.Sections.Invoices)
				return err
			})
			g.Go(func() error {
				var err error
				summary, err = rt.Extraction.Summary(gctx, state.Sections.Summary)
				return err
			})

			if err := g.Wait(); err != nil {
				return Update{}, err
			}

			rt.Logger.InfoContext(ctx, "report data extracted",
				"destination", deref(header.Destination),
				"ticket_id", deref(header.TicketID),
				"invoices", len(invoices.Invoices),
				"total", summary.Total)

			return Update{
				Header:   &header,
				Invoices: &invoices,
				Summary:  &summary,
			}, nil
		},
	)
}

// GetAllowancesStep loads the city-to-daily-rate table from the backend.
// It has no reads, so it runs alongside the PDF branch.
func GetAllowancesStep(rt *Runtime) Step {
	return NewStep(
		StepGetAllowances,
		nil,
		[]Field{FieldAllowances},
		func(ctx context.Context, _ State) (Update, error) {
			return Update{Allowances: rt.Backend.Allowances(ctx)}, nil
		},
	)
}

// CheckTicketExistsStep looks up the extracted ticket ID in the backend.
// A missing ticket ID resolves to a fixed negative result without a call.
func CheckTicketExistsStep(rt *Runtime) Step {
	return NewStep(
		StepCheckTicketExists,
		[]Field{FieldHeader},
		[]Field{FieldTicketExists, FieldTicketData},
		func(ctx context.Context, state State) (Update, error) {
			ticketID := deref(state.Header.TicketID)
			if ticketID == "" {
				exists := false
				return Update{TicketExists: &exists}, nil
			}

			exists, ticket := rt.Backend.FindTicket(ctx, ticketID)
			rt.Logger.InfoContext(ctx, "ticket checked",
				"ticket_id", ticketID,
				"exists", exists)

			return Update{TicketExists: &exists, TicketData: ticket}, nil
		},
	)
}

// CheckTotalStep verifies the invoice sum against the summary total.
func CheckTotalStep(rt *Runtime) Step {
	return NewStep(
		StepCheckTotal,
		[]Field{FieldInvoices, FieldSummary},
		[]Field{FieldTotalOK},
		func(ctx context.Context, state State) (Update, error) {
			ok := expense.CheckTotal(*state.Invoices, *state.Summary)
			rt.Logger.InfoContext(ctx, "invoice total checked",
				"total", state.Summary.Total,
				"ok", ok)

			return Update{TotalOK: &ok}, nil
		},
	)
}

// SelectDailyRateStep matches the destination against the allowance rate
// table. No match writes a selection with both fields absent, which later
// degrades the allowance check to a non-matching result.
func SelectDailyRateStep(rt *Runtime) Step {
	return NewStep(
		StepSelectDailyRate,
		[]Field{FieldHeader, FieldAllowances},
		[]Field{FieldRateSelection},
		func(ctx context.Context, state State) (Update, error) {
			rate, err := rt.Extraction.DailyRate(ctx, state.Header.Destination, state.Allowances)
			if err != nil {
				return Update{}, err
			}

			rt.Logger.InfoContext(ctx, "daily rate selected",
				"destination", deref(state.Header.Destination),
				"matched_city", deref(rate.MatchedCity))

			return Update{Rate: &rate}, nil
		},
	)
}

// CompareDatesStep compares the header and summary travel periods.
func CompareDatesStep(rt *Runtime) Step {
	return NewStep(
		StepCompareDates,
		[]Field{FieldHeader, FieldSummary},
		[]Field{FieldDateComparison},
		func(ctx context.Context, state State) (Update, error) {
			cmp := expense.CompareTimePeriods(state.Header.TimePeriod, state.Summary.TimePeriod)

			days := 0
			if cmp.TripDays != nil {
				days = *cmp.TripDays
			}
			rt.Logger.InfoContext(ctx, "travel periods compared",
				"match", cmp.PeriodsMatch,
				"trip_days", days)

			return Update{Dates: &cmp}, nil
		},
	)
}

// AllowanceCheckStep computes the expected allowance for the trip and
// verifies the summary's claim against it.
func AllowanceCheckStep(rt *Runtime) Step {
	return NewStep(
		StepAllowanceCheck,
		[]Field{FieldDateComparison, FieldRateSelection, FieldSummary},
		[]Field{FieldAllowanceCalc},
		func(ctx context.Context, state State) (Update, error) {
			calc := expense.CalculateAllowance(*state.Dates, state.Rate.DailyRate, &state.Summary.Allowance)
			rt.Logger.InfoContext(ctx, "allowance checked",
				"days", calc.Days,
				"expected", calc.ExpectedAllowance,
				"claimed", state.Summary.Allowance,
				"matches", calc.MatchesSummary)

			return Update{Allowance: &calc}, nil
		},
	)
}

// ApprovalDecisionStep combines the four check results into the verdict.
func ApprovalDecisionStep(rt *Runtime) Step {
	return NewStep(
		StepApprovalDecision,
		[]Field{FieldTotalOK, FieldTicketExists, FieldAllowanceCalc, FieldDateComparison},
		[]Field{FieldDecision},
		func(ctx context.Context, state State) (Update, error) {
			decision := expense.Decide(
				*state.TotalOK,
				*state.TicketExists,
				state.Allowance.MatchesSummary,
				state.Dates.PeriodsMatch,
			)

			rt.Logger.InfoContext(ctx, "approval decided",
				"approve", decision.Approve,
				"comment", decision.Comment)

			return Update{Decision: &decision}, nil
		},
	)
}

// UpdateTicketStatusStep writes the decision back to the backend ticket.
// It is the only step with an external effect; its reads include the ticket
// data, so the scheduler skips it entirely when no ticket was found and no
// write-back ever fires for an unresolved review. A rejected write-back is
// logged, not raised: the review outcome stands even when the backend does
// not accept it.
func UpdateTicketStatusStep(rt *Runtime) Step {
	return NewStep(
		StepUpdateTicketStatus,
		[]Field{FieldHeader, FieldDecision, FieldTicketData},
		nil,
		func(ctx context.Context, state State) (Update, error) {
			ticketID := deref(state.Header.TicketID)
			if ticketID == "" {
				rt.Logger.WarnContext(ctx, "skipping ticket update", "missing", "ticket_id")
				return Update{}, nil
			}

			if err := rt.Backend.UpdateTicket(ctx, ticketID, *state.Decision, state.TicketData); err != nil {
				if ctx.Err() != nil {
					return Update{}, ctx.Err()
				}
				rt.Logger.WarnContext(ctx, "ticket update failed",
					"ticket_id", ticketID,
					"error", err)
			}
			return Update{}, nil
		},
	)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
