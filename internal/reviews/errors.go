package reviews

import "errors"

// Domain errors for review audit operations.
var (
	ErrNotFound  = errors.New("review not found")
	ErrDuplicate = errors.New("review already exists")
)
