package sections

import "errors"

// Section extraction errors.
var (
	ErrNotFound   = errors.New("report file not found")
	ErrTooLarge   = errors.New("report file exceeds maximum size")
	ErrInvalidPDF = errors.New("file is not a readable PDF")
)
