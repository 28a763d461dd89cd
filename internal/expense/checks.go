package expense

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// MoneyTolerance is the maximum absolute difference at which two monetary
// amounts are considered equal.
const MoneyTolerance = 0.01

var datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// CheckTotal reports whether the sum of invoice amounts matches the summary
// total within MoneyTolerance.
func CheckTotal(invoices InvoicesExtraction, summary SummaryExtraction) bool {
	var sum float64
	for _, inv := range invoices.Invoices {
		sum += inv.Amount
	}
	return math.Abs(sum-summary.Total) <= MoneyTolerance
}

// extractDates pulls the first two ISO dates out of a period string. A side
// with fewer than two parseable dates yields no range. Reversed ranges are
// swapped into chronological order.
func extractDates(period *string) (start, end time.Time, ok bool) {
	if period == nil || *period == "" {
		return time.Time{}, time.Time{}, false
	}

	matches := datePattern.FindAllString(*period, 2)
	if len(matches) < 2 {
		return time.Time{}, time.Time{}, false
	}

	start, err := time.Parse(time.DateOnly, matches[0])
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err = time.Parse(time.DateOnly, matches[1])
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	if end.Before(start) {
		start, end = end, start
	}
	return start, end, true
}

// lengthInDays is the inclusive day count of a date range.
func lengthInDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

// CompareTimePeriods compares the header and summary travel periods. Periods
// match only when both sides contain a valid range and the ranges are equal
// after normalization. TripDays is the inclusive length of the strictly
// longer side; on a tie the header wins. Both sides invalid yields a nil
// TripDays.
func CompareTimePeriods(headerPeriod, summaryPeriod *string) DateComparison {
	hStart, hEnd, hOK := extractDates(headerPeriod)
	sStart, sEnd, sOK := extractDates(summaryPeriod)

	match := hOK && sOK && hStart.Equal(sStart) && hEnd.Equal(sEnd)

	if !hOK && !sOK {
		return DateComparison{PeriodsMatch: false, TripDays: nil}
	}

	var hDays, sDays int
	if hOK {
		hDays = lengthInDays(hStart, hEnd)
	}
	if sOK {
		sDays = lengthInDays(sStart, sEnd)
	}

	days := hDays
	if sDays > hDays {
		days = sDays
	}
	return DateComparison{PeriodsMatch: match, TripDays: &days}
}

// CalculateAllowance computes the expected allowance from the trip length and
// daily rate and checks it against the allowance claimed in the summary. Any
// missing input produces a zero expectation that does not match.
func CalculateAllowance(cmp DateComparison, dailyRate, claimed *float64) AllowanceCalculation {
	if cmp.TripDays == nil || dailyRate == nil || claimed == nil {
		days := 0
		if cmp.TripDays != nil {
			days = *cmp.TripDays
		}
		return AllowanceCalculation{Days: days, ExpectedAllowance: 0, MatchesSummary: false}
	}

	expected := *dailyRate * float64(*cmp.TripDays)
	matches := math.Abs(expected-*claimed) <= MoneyTolerance

	return AllowanceCalculation{
		Days:              *cmp.TripDays,
		ExpectedAllowance: expected,
		MatchesSummary:    matches,
	}
}

// Decide produces the final verdict: approve only when every check passed.
// The comment names each failed check so a reviewer can see what to fix.
func Decide(totalOK, ticketExists, allowanceOK, datesOK bool) ApprovalDecision {
	var failed []string
	if !totalOK {
		failed = append(failed, "invoice sum does not match the summary total")
	}
	if !ticketExists {
		failed = append(failed, "no matching travel ticket was found")
	}
	if !allowanceOK {
		failed = append(failed, "claimed allowance does not match the expected amount")
	}
	if !datesOK {
		failed = append(failed, "header and summary travel periods disagree")
	}

	if len(failed) == 0 {
		return ApprovalDecision{
			Approve: true,
			Comment: "Approved: all checks passed.",
		}
	}
	return ApprovalDecision{
		Approve: false,
		Comment: fmt.Sprintf("Rejected: %s.", strings.Join(failed, "; ")),
	}
}
