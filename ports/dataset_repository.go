package ports

import (
	"context"

	"equipstats/domain/core"
	"equipstats/domain/equipment"
)

// DatasetRepository defines the interface for dataset storage operations
type DatasetRepository interface {
	// CreateWithSummary persists a dataset together with its summary and
	// per-column details in one transaction, then prunes datasets beyond
	// keep (oldest first). A keep of 0 disables pruning. Running the prune
	// inside the same transaction keeps concurrent uploads from leaving
	// more than keep datasets behind.
	CreateWithSummary(ctx context.Context, ds *equipment.Dataset, summary equipment.Summary, columns []equipment.ColumnDetail, keep int) error

	GetByID(ctx context.Context, id core.ID) (*equipment.Dataset, error)
	List(ctx context.Context, limit, offset int) ([]*equipment.Dataset, error)
	Delete(ctx context.Context, id core.ID) error
	Count(ctx context.Context) (int, error)

	// Summary access
	GetSummary(ctx context.Context, id core.ID) (*equipment.StoredSummary, error)
	GetLatestSummary(ctx context.Context) (*equipment.StoredSummary, error)
	ListSummaries(ctx context.Context) ([]equipment.StoredSummary, error)

	// Column profiles
	ListColumnDetails(ctx context.Context, id core.ID) ([]equipment.ColumnDetail, error)

	// ListOldest returns the datasets that pruning to keep would remove,
	// oldest first, without deleting anything.
	ListOldest(ctx context.Context, keep int) ([]*equipment.Dataset, error)

	// DeleteOldest prunes datasets beyond keep and reports how many rows
	// were removed.
	DeleteOldest(ctx context.Context, keep int) (int, error)
}
