package expense_test

import (
	"strings"
	"testing"

	"github.com/mwhitfield/bursar/internal/expense"
)

func strptr(s string) *string { return &s }

func f64ptr(f float64) *float64 { return &f }

func intptr(i int) *int { return &i }

func invoices(amounts ...float64) expense.InvoicesExtraction {
	var result expense.InvoicesExtraction
	for _, a := range amounts {
		result.Invoices = append(result.Invoices, expense.Invoice{Amount: a})
	}
	return result
}

func TestCheckTotal(t *testing.T) {
	tests := []struct {
		name     string
		invoices expense.InvoicesExtraction
		total    float64
		want     bool
	}{
		{"exact match", invoices(42.50, 18.20, 420.00, 67.00), 547.70, true},
		{"mismatch beyond tolerance", invoices(42.50, 18.20, 420.00, 67.00), 548.00, false},
		{"within tolerance", invoices(100.00), 100.005, true},
		{"just beyond tolerance", invoices(100.00), 100.02, false},
		{"no invoices against zero total", invoices(), 0, true},
		{"no invoices against nonzero total", invoices(), 120.00, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := expense.SummaryExtraction{Total: tt.total}
			if got := expense.CheckTotal(tt.invoices, summary); got != tt.want {
				t.Errorf("CheckTotal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompareTimePeriods(t *testing.T) {
	tests := []struct {
		name      string
		header    *string
		summary   *string
		wantMatch bool
		wantDays  *int
	}{
		{
			"identical periods",
			strptr("2024-05-02 – 2024-05-05"),
			strptr("2024-05-02 – 2024-05-05"),
			true, intptr(4),
		},
		{
			"summary runs longer",
			strptr("2024-05-02 – 2024-05-05"),
			strptr("2024-05-02 – 2024-05-07"),
			false, intptr(6),
		},
		{
			"reversed header dates self-heal",
			strptr("2024-03-20 – 2024-03-10"),
			strptr("2024-03-10 – 2024-03-20"),
			true, intptr(11),
		},
		{
			"header embedded in prose",
			strptr("Time Period: 2024-04-01 – 2024-04-03"),
			strptr("2024-04-01 – 2024-04-03"),
			true, intptr(3),
		},
		{
			"header missing",
			nil,
			strptr("2024-05-02 – 2024-05-05"),
			false, intptr(4),
		},
		{
			"summary has a single date",
			strptr("2024-05-02 – 2024-05-05"),
			strptr("2024-05-02"),
			false, intptr(4),
		},
		{
			"both sides unusable",
			strptr("no dates here"),
			nil,
			false, nil,
		},
		{
			"garbage date rejected",
			strptr("2024-13-40 – 2024-13-45"),
			strptr("2024-13-40 – 2024-13-45"),
			false, nil,
		},
		{
			"single day trip",
			strptr("2024-06-01 – 2024-06-01"),
			strptr("2024-06-01 – 2024-06-01"),
			true, intptr(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expense.CompareTimePeriods(tt.header, tt.summary)
			if got.PeriodsMatch != tt.wantMatch {
				t.Errorf("PeriodsMatch = %v, want %v", got.PeriodsMatch, tt.wantMatch)
			}
			switch {
			case tt.wantDays == nil:
				if got.TripDays != nil {
					t.Errorf("TripDays = %d, want nil", *got.TripDays)
				}
			case got.TripDays == nil:
				t.Errorf("TripDays = nil, want %d", *tt.wantDays)
			case *got.TripDays != *tt.wantDays:
				t.Errorf("TripDays = %d, want %d", *got.TripDays, *tt.wantDays)
			}
		})
	}
}

func TestCalculateAllowance(t *testing.T) {
	tests := []struct {
		name         string
		cmp          expense.DateComparison
		rate         *float64
		claimed      *float64
		wantDays     int
		wantExpected float64
		wantMatches  bool
	}{
		{
			"four days at fifty claimed exactly",
			expense.DateComparison{PeriodsMatch: true, TripDays: intptr(4)},
			f64ptr(50), f64ptr(200),
			4, 200, true,
		},
		{
			"four days at fifty claimed short",
			expense.DateComparison{PeriodsMatch: true, TripDays: intptr(4)},
			f64ptr(50), f64ptr(199),
			4, 200, false,
		},
		{
			"missing trip days",
			expense.DateComparison{PeriodsMatch: false, TripDays: nil},
			f64ptr(50), f64ptr(200),
			0, 0, false,
		},
		{
			"missing daily rate",
			expense.DateComparison{PeriodsMatch: true, TripDays: intptr(3)},
			nil, f64ptr(150),
			3, 0, false,
		},
		{
			"missing claimed allowance",
			expense.DateComparison{PeriodsMatch: true, TripDays: intptr(3)},
			f64ptr(50), nil,
			3, 0, false,
		},
		{
			"claim within tolerance",
			expense.DateComparison{PeriodsMatch: true, TripDays: intptr(4)},
			f64ptr(50), f64ptr(199.995),
			4, 200, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expense.CalculateAllowance(tt.cmp, tt.rate, tt.claimed)
			if got.Days != tt.wantDays {
				t.Errorf("Days = %d, want %d", got.Days, tt.wantDays)
			}
			if got.ExpectedAllowance != tt.wantExpected {
				t.Errorf("ExpectedAllowance = %v, want %v", got.ExpectedAllowance, tt.wantExpected)
			}
			if got.MatchesSummary != tt.wantMatches {
				t.Errorf("MatchesSummary = %v, want %v", got.MatchesSummary, tt.wantMatches)
			}
		})
	}
}

func TestDecide(t *testing.T) {
	t.Run("all checks passed approves", func(t *testing.T) {
		got := expense.Decide(true, true, true, true)
		if !got.Approve {
			t.Error("Approve = false, want true")
		}
		if got.Comment == "" {
			t.Error("Comment is empty")
		}
	})

	tests := []struct {
		name        string
		totalOK     bool
		ticket      bool
		allowanceOK bool
		datesOK     bool
		wantMention string
	}{
		{"failed total", false, true, true, true, "summary total"},
		{"missing ticket", true, false, true, true, "travel ticket"},
		{"failed allowance", true, true, false, true, "allowance"},
		{"failed dates", true, true, true, false, "travel periods"},
		{"everything failed", false, false, false, false, "travel ticket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expense.Decide(tt.totalOK, tt.ticket, tt.allowanceOK, tt.datesOK)
			if got.Approve {
				t.Error("Approve = true, want false")
			}
			if !strings.Contains(got.Comment, tt.wantMention) {
				t.Errorf("Comment = %q, want mention of %q", got.Comment, tt.wantMention)
			}
		})
	}
}
