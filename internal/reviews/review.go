// Package reviews implements the review audit domain: one Postgres row per
// finished expense review, with the source PDF archived to blob storage when
// an archive is configured. Nullable columns record what a degraded run
// never produced.
package reviews

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mwhitfield/bursar/internal/workflow"
)

// Review is the audit record of one expense review run. Approved is nil when
// the pipeline degraded short of a decision; the check columns are nil when
// their step never ran.
type Review struct {
	ID                uuid.UUID `json:"id"`
	Filename          string    `json:"filename"`
	TicketID          *string   `json:"ticket_id"`
	Approved          *bool     `json:"approved"`
	Comment           *string   `json:"comment"`
	TotalOK           *bool     `json:"total_ok"`
	TicketFound       *bool     `json:"ticket_found"`
	DatesMatch        *bool     `json:"dates_match"`
	AllowanceMatch    *bool     `json:"allowance_match"`
	TripDays          *int      `json:"trip_days"`
	ExpectedAllowance *float64  `json:"expected_allowance"`
	StorageKey        *string   `json:"storage_key"`
	DurationMS        int64     `json:"duration_ms"`
	CreatedAt         time.Time `json:"created_at"`
}

// RecordCommand carries the data needed to record a finished review. Data
// holds the raw PDF bytes for the archive; nil skips the upload.
type RecordCommand struct {
	Filename          string
	TicketID          *string
	Approved          *bool
	Comment           *string
	TotalOK           *bool
	TicketFound       *bool
	DatesMatch        *bool
	AllowanceMatch    *bool
	TripDays          *int
	ExpectedAllowance *float64
	Duration          time.Duration
	Data              []byte
}

// NewRecordCommand flattens a finished run into its audit row. Fields a
// degraded run never produced stay nil.
func NewRecordCommand(res *workflow.Result, data []byte) RecordCommand {
	cmd := RecordCommand{
		Filename: filepath.Base(res.PDFPath),
		TotalOK:  res.State.TotalOK,
		Duration: res.Duration,
		Data:     data,
	}

	if res.State.Header != nil {
		cmd.TicketID = res.State.Header.TicketID
	}
	if res.State.Decision != nil {
		cmd.Approved = &res.State.Decision.Approve
		cmd.Comment = &res.State.Decision.Comment
	}
	if res.State.TicketExists != nil {
		cmd.TicketFound = res.State.TicketExists
	}
	if res.State.Dates != nil {
		cmd.DatesMatch = &res.State.Dates.PeriodsMatch
		cmd.TripDays = res.State.Dates.TripDays
	}
	if res.State.Allowance != nil {
		cmd.AllowanceMatch = &res.State.Allowance.MatchesSummary
		cmd.ExpectedAllowance = &res.State.Allowance.ExpectedAllowance
	}

	return cmd
}
