package prompts

import "errors"

// ErrInvalidStage is returned for stage values outside header, invoices,
// summary, or rate.
var ErrInvalidStage = errors.New("stage must be header, invoices, summary, or rate")
