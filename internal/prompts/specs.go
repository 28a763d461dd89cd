package prompts

const headerSpec = `Respond with a JSON object matching this exact structure:

{
  "destination": "<string or null>",
  "time_period_header": "<string or null>",
  "ticket_id": "<string or null>"
}

Example input:
"2024-03-12 Maria Henderson (Employee 7721) Department: 445200 Destination: Microsoft HQ, One Microsoft Way, Redmond, WA Time Period: 2024-03-01 – 2024-03-05 Ticket ID: 992211"

Example response:
{
  "destination": "Microsoft HQ, One Microsoft Way, Redmond, WA",
  "time_period_header": "2024-03-01 – 2024-03-05",
  "ticket_id": "992211"
}

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- ticket_id is a string even when it looks numeric
- Use null for any field not present in the text`

const invoicesSpec = `Respond with a JSON object matching this exact structure:

{
  "invoices": [
    {
      "date": "<string or null>",
      "amount": 0.00
    }
  ]
}

Example input:
"Invoices Date Type Details Amount (USD) 2024-05-02 Transport Taxi 42.50 2024-05-03 Other Lunch 18.20 2024-05-05 – 2024-05-07 Accommodation Hotel 420.00 2024-05-08 Transport Train 67.00"

Example response:
{
  "invoices": [
    { "date": "2024-05-02", "amount": 42.50 },
    { "date": "2024-05-03", "amount": 18.20 },
    { "date": "2024-05-05 – 2024-05-07", "amount": 420.00 },
    { "date": "2024-05-08", "amount": 67.00 }
  ]
}

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- One array entry per amount, in document order
- An empty section produces an empty invoices array`

const summarySpec = `Respond with a JSON object matching this exact structure:

{
  "allowance": 0.00,
  "transportation_total": 0.00,
  "accommodation_total": 0.00,
  "time_period_summary": "<string or null>",
  "total": 0.00
}

Example input:
"Summary Time Period 2024-04-01 – 2024-04-03 Allowances 15.00 USD Transportation Details 300.00 USD Accommodation 450.00 USD TOTAL 765.00 USD"

Example response:
{
  "allowance": 15.00,
  "transportation_total": 300.00,
  "accommodation_total": 450.00,
  "time_period_summary": "2024-04-01 – 2024-04-03",
  "total": 765.00
}

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Amounts are plain numbers without currency symbols or thousands separators
- Missing amounts are 0.0, a missing time period is null`

const rateSpec = `Respond with a JSON object matching this exact structure:

{
  "matched_city": "<string or null>",
  "daily_rate": 0.0
}

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- matched_city must be one of the city names from the provided rate table,
  spelled exactly as it appears there
- daily_rate is the rate of the matched city, copied from the table
- When no city fits the destination, both fields are null`

var specs = map[Stage]string{
	StageHeader:   headerSpec,
	StageInvoices: invoicesSpec,
	StageSummary:  summarySpec,
	StageRate:     rateSpec,
}

// Spec returns the response specification for an extraction stage.
// Specifications define the expected output format and behavioral constraints.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
