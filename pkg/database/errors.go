package database

import "errors"

// ErrNotConfigured indicates no database target is configured.
var ErrNotConfigured = errors.New("database not configured")
