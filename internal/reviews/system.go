package reviews

import (
	"context"

	"github.com/google/uuid"

	"github.com/mwhitfield/bursar/pkg/pagination"
)

// System defines the public contract for review audit operations.
type System interface {
	Record(ctx context.Context, cmd RecordCommand) (*Review, error)

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Review], error)

	Find(ctx context.Context, id uuid.UUID) (*Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
