package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"storeit/internal/model"
	"storeit/internal/repository"
	"storeit/internal/storage"
)

var (
	ErrIDRequired   = errors.New("id is required")
	ErrNameRequired = errors.New("name is required")
	ErrNotFound     = errors.New("file not found")
	ErrReaderNil    = errors.New("reader is nil")
	ErrUserRequired = errors.New("user is required")
	ErrForbidden    = errors.New("action not permitted")
	ErrTooLarge     = errors.New("file exceeds size limit")
)

const downloadURLExpiry = 15 * time.Minute

// ListQuery carries the raw listing parameters from the HTTP layer.
type ListQuery struct {
	Search string
	Type   string
	Sort   string
	Limit  int
	Offset int
}

// FileListResult is the service-level DTO for paginated files.
type FileListResult struct {
	Items []model.File `json:"data"`
	Total int          `json:"total"`
}

// UsageBucket aggregates a user's owned files for one category.
type UsageBucket struct {
	Type       model.FileType `json:"type"`
	Count      int            `json:"count"`
	TotalBytes int64          `json:"total_bytes"`
	TotalHuman string         `json:"total_human"`
	LatestAt   string         `json:"latest_update"`
}

// UsageSummary is the dashboard storage-usage view.
type UsageSummary struct {
	UsedBytes  int64         `json:"used_bytes"`
	UsedHuman  string        `json:"used_human"`
	TotalFiles int           `json:"total_files"`
	Buckets    []UsageBucket `json:"buckets"`
}

// FileService defines the use cases for handling files. Mutating operations
// take the acting user so ownership can be enforced; reads take the viewer so
// visibility (owned or shared-with) can be enforced.
type FileService interface {
	// Upload stores the content in the object store, saves the metadata row,
	// and rolls the object back if the row cannot be saved. The size limit is
	// checked before any remote call is made.
	Upload(ctx context.Context, owner *model.User, r io.Reader, originalFilename, contentType string, size int64) (*model.File, error)

	// Get returns a single file visible to the viewer.
	Get(ctx context.Context, viewer *model.User, id string) (*model.File, error)

	// List returns files visible to the viewer, searched/filtered/sorted per
	// the query, with a total count.
	List(ctx context.Context, viewer *model.User, q ListQuery) (*FileListResult, error)

	// Rename updates only the file's name. Owner only.
	Rename(ctx context.Context, user *model.User, id, name string) (*model.File, error)

	// Share merges the submitted comma-separated emails into the current
	// share list and overwrites the stored list with the result. Owner only.
	Share(ctx context.Context, user *model.User, id, emails string) (*model.File, error)

	// Unshare removes one email from the share list via the same overwrite.
	// Owner only.
	Unshare(ctx context.Context, user *model.User, id, email string) (*model.File, error)

	// Delete removes the metadata row first, then the backing object. Owner
	// only. A storage failure after the row is gone still propagates.
	Delete(ctx context.Context, user *model.User, id string) error

	// DownloadURL returns a time-limited URL for the file's content.
	DownloadURL(ctx context.Context, viewer *model.User, id string) (string, error)

	// Usage aggregates the user's owned files per category.
	Usage(ctx context.Context, user *model.User) (*UsageSummary, error)
}

// fileService is a concrete implementation of FileService.
type fileService struct {
	store    storage.Storage
	repo     repository.FileRepository
	maxBytes int64
}

// NewFileService constructs a new FileService. maxBytes caps upload sizes.
func NewFileService(store storage.Storage, repo repository.FileRepository, maxBytes int64) FileService {
	return &fileService{store: store, repo: repo, maxBytes: maxBytes}
}

func (s *fileService) Upload(ctx context.Context, owner *model.User, r io.Reader, originalFilename, contentType string, size int64) (*model.File, error) {
	if owner == nil {
		return nil, ErrUserRequired
	}
	if r == nil {
		return nil, ErrReaderNil
	}
	// Reject oversized payloads before any remote call.
	if s.maxBytes > 0 && size > s.maxBytes {
		return nil, fmt.Errorf("%w: %s is over the %s limit", ErrTooLarge,
			model.FormatSize(size), model.FormatSize(s.maxBytes))
	}

	typ, ext := model.FileTypeFor(originalFilename)
	key := "files/" + uuid.New().String()
	if ext != "" {
		key += "." + ext
	}

	// Upload to object storage
	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	now := time.Now().UTC()
	id := uuid.New().String()
	f := &model.File{
		ID:         id,
		Name:       originalFilename,
		Extension:  ext,
		Type:       typ,
		Size:       objInfo.Size,
		URL:        "/files/" + id + "/download",
		OwnerID:    owner.ID,
		SharedWith: []string{},
		BucketKey:  objInfo.Key,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	stored, err := s.repo.Create(ctx, f)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

// visible loads the file and checks the viewer can see it at all. Files the
// viewer neither owns nor is shared on read as not found, never as forbidden.
func (s *fileService) visible(ctx context.Context, viewer *model.User, id string) (*model.File, error) {
	if viewer == nil {
		return nil, ErrUserRequired
	}
	if id == "" {
		return nil, ErrIDRequired
	}
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if f.OwnerID != viewer.ID && !f.SharedWithContains(viewer.Email) {
		return nil, ErrNotFound
	}
	return f, nil
}

func (s *fileService) Get(ctx context.Context, viewer *model.User, id string) (*model.File, error) {
	return s.visible(ctx, viewer, id)
}

func (s *fileService) List(ctx context.Context, viewer *model.User, q ListQuery) (*FileListResult, error) {
	if viewer == nil {
		return nil, ErrUserRequired
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	filter := repository.FileFilter{
		Search: q.Search,
		Sort:   model.ParseSort(q.Sort),
		Page:   repository.PageQuery{Limit: q.Limit, Offset: q.Offset},
	}
	if t, ok := model.ParseFileType(q.Type); ok {
		filter.Types = []model.FileType{t}
	}

	res, err := s.repo.List(ctx, repository.Viewer{UserID: viewer.ID, Email: viewer.Email}, filter)
	if err != nil {
		return nil, err
	}
	return &FileListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *fileService) Rename(ctx context.Context, user *model.User, id, name string) (*model.File, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	f, err := s.visible(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !CanPerform(ActionRename, user, f) {
		return nil, ErrForbidden
	}
	updated, err := s.repo.UpdateName(ctx, id, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *fileService) Share(ctx context.Context, user *model.User, id, emails string) (*model.File, error) {
	f, err := s.visible(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !CanPerform(ActionShare, user, f) {
		return nil, ErrForbidden
	}
	merged := MergeShareEmails(f.SharedWith, emails)
	updated, err := s.repo.UpdateSharedWith(ctx, id, merged)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *fileService) Unshare(ctx context.Context, user *model.User, id, email string) (*model.File, error) {
	f, err := s.visible(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !CanPerform(ActionShare, user, f) {
		return nil, ErrForbidden
	}
	remaining := RemoveShareEmail(f.SharedWith, email)
	updated, err := s.repo.UpdateSharedWith(ctx, id, remaining)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes the metadata row first so no record half-references a file
// that is going away; if the storage delete then fails the object is leaked
// (no retry path) but listings are already clean.
func (s *fileService) Delete(ctx context.Context, user *model.User, id string) error {
	f, err := s.visible(ctx, user, id)
	if err != nil {
		return err
	}
	if !CanPerform(ActionDelete, user, f) {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, f.BucketKey); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return nil
}

func (s *fileService) DownloadURL(ctx context.Context, viewer *model.User, id string) (string, error) {
	f, err := s.visible(ctx, viewer, id)
	if err != nil {
		return "", err
	}
	url, err := s.store.PresignGet(ctx, f.BucketKey, downloadURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return url, nil
}

func (s *fileService) Usage(ctx context.Context, user *model.User) (*UsageSummary, error) {
	if user == nil {
		return nil, ErrUserRequired
	}
	rows, err := s.repo.UsageByType(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	sum := &UsageSummary{Buckets: make([]UsageBucket, 0, len(rows))}
	for _, r := range rows {
		sum.UsedBytes += r.TotalBytes
		sum.TotalFiles += r.Count
		sum.Buckets = append(sum.Buckets, UsageBucket{
			Type:       r.Type,
			Count:      r.Count,
			TotalBytes: r.TotalBytes,
			TotalHuman: model.FormatSize(r.TotalBytes),
			LatestAt:   r.LatestAt,
		})
	}
	sum.UsedHuman = model.FormatSize(sum.UsedBytes)
	return sum, nil
}
