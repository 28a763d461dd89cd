package reviews

import (
	"github.com/mwhitfield/bursar/pkg/query"
	"github.com/mwhitfield/bursar/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "reviews", "r").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("ticket_id", "TicketID").
	Project("approved", "Approved").
	Project("comment", "Comment").
	Project("total_ok", "TotalOK").
	Project("ticket_found", "TicketFound").
	Project("dates_match", "DatesMatch").
	Project("allowance_match", "AllowanceMatch").
	Project("trip_days", "TripDays").
	Project("expected_allowance", "ExpectedAllowance").
	Project("storage_key", "StorageKey").
	Project("duration_ms", "DurationMS").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for review queries. Nil
// fields are ignored. Undecided selects rows where no decision was reached
// and overrides Approved.
type Filters struct {
	TicketID  *string
	Approved  *bool
	Undecided bool
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereEquals("TicketID", f.TicketID)
	if f.Undecided {
		return b.WhereNullable("Approved", nil)
	}
	return b.WhereEquals("Approved", f.Approved)
}

func scanReview(s repository.Scanner) (Review, error) {
	var r Review
	err := s.Scan(
		&r.ID,
		&r.Filename,
		&r.TicketID,
		&r.Approved,
		&r.Comment,
		&r.TotalOK,
		&r.TicketFound,
		&r.DatesMatch,
		&r.AllowanceMatch,
		&r.TripDays,
		&r.ExpectedAllowance,
		&r.StorageKey,
		&r.DurationMS,
		&r.CreatedAt,
	)
	return r, err
}
