// Package expense defines the travel expense report records exchanged between
// extraction, validation, and decision stages, along with the deterministic
// checks applied to them.
package expense

// Sections holds the raw text of a report split at its section markers.
type Sections struct {
	Header   string `json:"header"`
	Invoices string `json:"invoices"`
	Summary  string `json:"summary"`
}

// HeaderExtraction is the structured result of reading the report header.
// Fields the model could not locate are nil.
type HeaderExtraction struct {
	Destination *string `json:"destination"`
	TimePeriod  *string `json:"time_period_header"`
	TicketID    *string `json:"ticket_id"`
}

// Invoice is a single expense line item.
type Invoice struct {
	Amount float64 `json:"amount"`
	Date   *string `json:"date"`
}

// InvoicesExtraction is the structured result of reading the invoices section.
type InvoicesExtraction struct {
	Invoices []Invoice `json:"invoices"`
}

// SummaryExtraction is the structured result of reading the summary section.
// Missing numeric values extract as zero; a missing time period is nil.
type SummaryExtraction struct {
	Total               float64 `json:"total"`
	Allowance           float64 `json:"allowance"`
	TransportationTotal float64 `json:"transportation_total"`
	AccommodationTotal  float64 `json:"accommodation_total"`
	TimePeriod          *string `json:"time_period_summary"`
}

// RateSelection is the daily allowance rate matched to a destination.
// Both fields are nil when no city in the rate table fits.
type RateSelection struct {
	MatchedCity *string  `json:"matched_city"`
	DailyRate   *float64 `json:"daily_rate"`
}

// DateComparison reports whether the header and summary travel periods agree
// and the effective trip length. TripDays is nil when neither side contained
// a usable date range. The JSON key preserves the original record name.
type DateComparison struct {
	PeriodsMatch bool `json:"periods_match"`
	TripDays     *int `json:"trip_days"`
}

// AllowanceCalculation reports the expected allowance for the trip and
// whether the summary's claimed allowance agrees with it.
type AllowanceCalculation struct {
	Days              int     `json:"days"`
	ExpectedAllowance float64 `json:"expected_allowance"`
	MatchesSummary    bool    `json:"matches_summary"`
}

// ApprovalDecision is the final verdict on a report.
type ApprovalDecision struct {
	Approve bool   `json:"approve"`
	Comment string `json:"comment"`
}
