package sections_test

import (
	"testing"

	"github.com/mwhitfield/bursar/internal/sections"
)

func TestSplitText(t *testing.T) {
	t.Run("splits at both markers", func(t *testing.T) {
		full := "Travel Report\nDestination: Berlin\nInvoices\n2024-05-02 Taxi 42.50\nSummary\nTOTAL 547.70"
		got := sections.SplitText(full)

		if got.Header != "Travel Report\nDestination: Berlin" {
			t.Errorf("Header = %q", got.Header)
		}
		if got.Invoices != "Invoices\n2024-05-02 Taxi 42.50" {
			t.Errorf("Invoices = %q", got.Invoices)
		}
		if got.Summary != "Summary\nTOTAL 547.70" {
			t.Errorf("Summary = %q", got.Summary)
		}
	})

	t.Run("markers are case-insensitive", func(t *testing.T) {
		got := sections.SplitText("Header text INVOICES items SUMMARY totals")
		if got.Invoices != "INVOICES items" {
			t.Errorf("Invoices = %q", got.Invoices)
		}
		if got.Summary != "SUMMARY totals" {
			t.Errorf("Summary = %q", got.Summary)
		}
	})

	t.Run("missing invoices marker falls back to header only", func(t *testing.T) {
		got := sections.SplitText("Just a header with a Summary word missing its sibling? No: summary alone is not enough either")
		if got.Invoices != "" || got.Summary != "" {
			t.Errorf("expected empty sections, got invoices=%q summary=%q", got.Invoices, got.Summary)
		}
		if got.Header == "" {
			t.Error("Header should carry the full text")
		}
	})

	t.Run("missing summary marker falls back to header only", func(t *testing.T) {
		got := sections.SplitText("Header text invoices 42.50 and nothing more")
		if got.Invoices != "" || got.Summary != "" {
			t.Errorf("expected empty sections, got invoices=%q summary=%q", got.Invoices, got.Summary)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		got := sections.SplitText("")
		if got.Header != "" || got.Invoices != "" || got.Summary != "" {
			t.Errorf("expected all empty, got %+v", got)
		}
	})

	t.Run("summary before invoices yields empty invoices", func(t *testing.T) {
		got := sections.SplitText("Header Summary totals here invoices later")
		if got.Invoices != "" {
			t.Errorf("Invoices = %q, want empty", got.Invoices)
		}
		if got.Summary == "" {
			t.Error("Summary should not be empty")
		}
	})
}
