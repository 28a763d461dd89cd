package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres integrity violation class 23, duplicate key.
const uniqueViolation = "23505"

// MapError folds driver-level failures into the caller's domain sentinels:
// sql.ErrNoRows becomes notFound, a unique violation becomes duplicate, and
// anything else passes through untouched.
func MapError(err, notFound, duplicate error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return duplicate
	}
	return err
}
