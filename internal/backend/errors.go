package backend

import "errors"

// Ticket update errors.
var (
	ErrMissingTicket = errors.New("ticket id and ticket data are required")
	ErrUpdateFailed  = errors.New("ticket update failed")
)
