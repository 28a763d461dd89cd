package sections

import (
	"strings"

	"github.com/mwhitfield/bursar/internal/expense"
)

// SplitText divides a report's full text at its "invoices" and "summary"
// markers (case-insensitive, first occurrence). When either marker is absent
// the whole text becomes the header and the other sections stay empty, so a
// structurally unusual report still flows through extraction.
func SplitText(full string) expense.Sections {
	lower := strings.ToLower(full)
	invoicesIdx := strings.Index(lower, "invoices")
	summaryIdx := strings.Index(lower, "summary")

	if invoicesIdx == -1 || summaryIdx == -1 {
		return expense.Sections{Header: strings.TrimSpace(full)}
	}

	// Markers out of order produce an empty invoices section rather than a
	// negative slice.
	invoicesEnd := summaryIdx
	if invoicesEnd < invoicesIdx {
		invoicesEnd = invoicesIdx
	}

	return expense.Sections{
		Header:   strings.TrimSpace(full[:invoicesIdx]),
		Invoices: strings.TrimSpace(full[invoicesIdx:invoicesEnd]),
		Summary:  strings.TrimSpace(full[summaryIdx:]),
	}
}
