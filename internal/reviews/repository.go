package reviews

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mwhitfield/bursar/pkg/pagination"
	"github.com/mwhitfield/bursar/pkg/query"
	"github.com/mwhitfield/bursar/pkg/repository"
	"github.com/mwhitfield/bursar/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a review repository implementing the System interface. store
// may be nil; reviews are then recorded without the PDF archive.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "reviews"),
		pagination: pagination,
	}
}

func (r *repo) Record(ctx context.Context, cmd RecordCommand) (*Review, error) {
	id := uuid.New()

	var key *string
	if len(cmd.Data) > 0 && r.storage != nil {
		k := buildStorageKey(id, sanitizeFilename(cmd.Filename))
		if err := r.storage.Upload(ctx, k, bytes.NewReader(cmd.Data), "application/pdf"); err != nil {
			return nil, fmt.Errorf("archive report blob: %w", err)
		}
		key = &k
	}

	q := `
		INSERT INTO reviews(id, filename, ticket_id, approved, comment, total_ok, ticket_found, dates_match, allowance_match, trip_days, expected_allowance, storage_key, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, filename, ticket_id, approved, comment, total_ok, ticket_found, dates_match, allowance_match, trip_days, expected_allowance, storage_key, duration_ms, created_at`

	insertArgs := []any{
		id,
		cmd.Filename,
		cmd.TicketID,
		cmd.Approved,
		cmd.Comment,
		cmd.TotalOK,
		cmd.TicketFound,
		cmd.DatesMatch,
		cmd.AllowanceMatch,
		cmd.TripDays,
		cmd.ExpectedAllowance,
		key,
		cmd.Duration.Milliseconds(),
	}

	rev, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Review, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanReview)
	})

	if err != nil {
		if key != nil {
			if delErr := r.storage.Delete(ctx, *key); delErr != nil {
				r.logger.Warn("compensating blob delete failed", "key", *key, "error", delErr)
			}
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("review recorded",
		"id", rev.ID,
		"filename", rev.Filename,
		"archived", rev.StorageKey != nil)
	return &rev, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Review], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename", "TicketID", "Comment")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	revs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanReview)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}

	result := pagination.NewPageResult(revs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Review, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	rev, err := repository.QueryOne(ctx, r.db, q, args, scanReview)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rev, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	rev, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM reviews WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if rev.StorageKey != nil && r.storage != nil {
		if delErr := r.storage.Delete(ctx, *rev.StorageKey); delErr != nil && !errors.Is(delErr, storage.ErrNotFound) {
			r.logger.Warn(
				"blob delete failed after DB delete",
				"key", *rev.StorageKey,
				"error", delErr,
			)
		}
	}

	r.logger.Info("review deleted", "id", id)
	return nil
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("reviews/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "report.pdf"
	}
	return url.PathEscape(name)
}
