package prompts

const headerInstructions = `You are reading the header section of a travel expense report.

Extract exactly these fields:
- destination: the travel destination, address, or company visited.
- ticket_id: the ticket or booking ID.
- time_period_header: the date or date range stated in the header.

Copy values exactly as they appear in the text. Do not reformat dates or
invent values. When a field is not present in the text, report it as null.`

const invoicesInstructions = `You are reading the invoices section of a travel expense report and extracting its line items.

For each entry:
- date: the first date in YYYY-MM-DD form appearing before the amount. Date
  ranges belong to a single entry and are copied verbatim.
- amount: the monetary amount (e.g. 420.00) belonging to that entry.

Every amount in the text produces exactly one entry. Do not merge, split, or
total entries.`

const summaryInstructions = `You are reading the summary section of a travel expense report.

Extract exactly these fields:
- allowance: the value following the word "Allowances".
- transportation_total: the value following "Transportation".
- accommodation_total: the value following "Accommodation".
- total: the value following "TOTAL".
- time_period_summary: the time period text with its date range.

Normalize amounts: "1,121.00 USD" becomes 1121.00. A missing numeric value
is 0.0; a missing text value is null.`

const rateInstructions = `You are matching a travel destination to a city in a daily allowance rate table.

Given a destination string and a mapping of city names to daily rates, find
the city that best fits the destination. The destination may name a company,
an address, or a district; match it to the city it belongs to. When no city
in the table plausibly fits, report both fields as null.`

var instructions = map[Stage]string{
	StageHeader:   headerInstructions,
	StageInvoices: invoicesInstructions,
	StageSummary:  summaryInstructions,
	StageRate:     rateInstructions,
}

// Instructions returns the instruction text for an extraction stage.
// Returns ErrInvalidStage if the stage is not recognized.
func Instructions(stage Stage) (string, error) {
	text, ok := instructions[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
