package repository

import (
	"context"

	"storeit/internal/model"
)

// Viewer identifies who a listing is resolved for. Visibility is owned-by OR
// shared-with; both pieces of identity are needed because the share list holds
// emails, not user ids.
type Viewer struct {
	UserID string
	Email  string
}

// FileFilter narrows and orders a file listing.
type FileFilter struct {
	// Search matches file names by case-insensitive substring when non-empty.
	Search string
	// Types restricts to the given categories when non-empty.
	Types []model.FileType
	// Sort must come from model.ParseSort so the field is whitelisted.
	Sort model.Sort
	Page PageQuery
}

// UsageRow aggregates owned files per category.
type UsageRow struct {
	Type       model.FileType
	Count      int
	TotalBytes int64
	LatestAt   string
}

// FileRepository defines data access for file metadata using SQL queries only.
// No business logic here — strictly persistence operations.
type FileRepository interface {
	// Create inserts a new file record and returns the stored row.
	Create(ctx context.Context, f *model.File) (*model.File, error)

	// FindByID returns a file by its ID. sql.ErrNoRows when absent.
	FindByID(ctx context.Context, id string) (*model.File, error)

	// UpdateName sets only the name (and updated_at) of an existing row.
	// sql.ErrNoRows when the row does not exist.
	UpdateName(ctx context.Context, id, name string) (*model.File, error)

	// UpdateSharedWith replaces the share-email list entirely (overwrite,
	// not union). sql.ErrNoRows when the row does not exist.
	UpdateSharedWith(ctx context.Context, id string, emails []string) (*model.File, error)

	// Delete removes a file row by ID. Returns nil if the row was deleted or
	// did not exist.
	Delete(ctx context.Context, id string) error

	// List returns files visible to the viewer (owned or shared-with),
	// filtered and paged, plus the total matching count.
	List(ctx context.Context, v Viewer, f FileFilter) (*PageResult[model.File], error)

	// ExistsByBucketKey reports whether any row references the given object
	// key. Used by the orphan reconciliation sweep.
	ExistsByBucketKey(ctx context.Context, key string) (bool, error)

	// UsageByType aggregates the owner's files per category.
	UsageByType(ctx context.Context, ownerID string) ([]UsageRow, error)
}
