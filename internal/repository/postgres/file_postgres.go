package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"storeit/internal/model"
	"storeit/internal/repository"
)

// FilePostgres is a PostgreSQL implementation of repository.FileRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type FilePostgres struct {
	db *sql.DB
}

// NewFilePostgres creates a new FilePostgres repository.
func NewFilePostgres(db *sql.DB) *FilePostgres {
	return &FilePostgres{db: db}
}

var _ repository.FileRepository = (*FilePostgres)(nil)

const fileColumns = "id, name, extension, type, size, url, owner_id, shared_with, bucket_key, created_at, updated_at"

func scanFile(row interface{ Scan(...any) error }) (*model.File, error) {
	var f model.File
	var typ string
	var shared []byte
	if err := row.Scan(
		&f.ID,
		&f.Name,
		&f.Extension,
		&typ,
		&f.Size,
		&f.URL,
		&f.OwnerID,
		&shared,
		&f.BucketKey,
		&f.CreatedAt,
		&f.UpdatedAt,
	); err != nil {
		return nil, err
	}
	f.Type = model.FileType(typ)
	if len(shared) > 0 {
		if err := json.Unmarshal(shared, &f.SharedWith); err != nil {
			return nil, fmt.Errorf("decode shared_with: %w", err)
		}
	}
	if f.SharedWith == nil {
		f.SharedWith = []string{}
	}
	return &f, nil
}

// Create inserts a new file row and returns the stored record.
func (r *FilePostgres) Create(ctx context.Context, f *model.File) (*model.File, error) {
	const q = `
		INSERT INTO files (id, name, extension, type, size, url, owner_id, shared_with, bucket_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + fileColumns

	shared, err := json.Marshal(f.SharedWith)
	if err != nil {
		return nil, fmt.Errorf("encode shared_with: %w", err)
	}

	row := r.db.QueryRowContext(ctx, q,
		f.ID,
		f.Name,
		f.Extension,
		string(f.Type),
		f.Size,
		f.URL,
		f.OwnerID,
		shared,
		f.BucketKey,
		f.CreatedAt,
		f.UpdatedAt,
	)
	return scanFile(row)
}

// FindByID fetches a single file by its ID.
func (r *FilePostgres) FindByID(ctx context.Context, id string) (*model.File, error) {
	const q = `SELECT ` + fileColumns + ` FROM files WHERE id = $1`
	return scanFile(r.db.QueryRowContext(ctx, q, id))
}

// UpdateName sets the name and touches updated_at.
func (r *FilePostgres) UpdateName(ctx context.Context, id, name string) (*model.File, error) {
	const q = `
		UPDATE files SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + fileColumns
	return scanFile(r.db.QueryRowContext(ctx, q, id, name))
}

// UpdateSharedWith replaces the share-email list entirely.
func (r *FilePostgres) UpdateSharedWith(ctx context.Context, id string, emails []string) (*model.File, error) {
	if emails == nil {
		emails = []string{}
	}
	shared, err := json.Marshal(emails)
	if err != nil {
		return nil, fmt.Errorf("encode shared_with: %w", err)
	}
	const q = `
		UPDATE files SET shared_with = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + fileColumns
	return scanFile(r.db.QueryRowContext(ctx, q, id, shared))
}

// Delete removes a file by ID. It does not return an error if the row does not exist.
func (r *FilePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM files WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// List returns files visible to the viewer with optional search/type filters,
// a whitelisted sort, LIMIT/OFFSET paging, and a total count.
func (r *FilePostgres) List(ctx context.Context, v repository.Viewer, f repository.FileFilter) (*repository.PageResult[model.File], error) {
	where := []string{"(owner_id = $1 OR shared_with @> jsonb_build_array($2::text))"}
	args := []any{v.UserID, v.Email}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if len(f.Types) > 0 {
		ph := make([]string, 0, len(f.Types))
		for _, t := range f.Types {
			args = append(args, string(t))
			ph = append(ph, fmt.Sprintf("$%d", len(args)))
		}
		where = append(where, fmt.Sprintf("type IN (%s)", strings.Join(ph, ", ")))
	}
	cond := strings.Join(where, " AND ")

	qCount := `SELECT COUNT(*) FROM files WHERE ` + cond
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	sort := f.Sort
	if sort.Field == "" {
		sort = model.DefaultSort()
	}
	dir := "DESC"
	if sort.Ascending {
		dir = "ASC"
	}

	args = append(args, f.Page.Limit)
	limitPos := len(args)
	args = append(args, f.Page.Offset)
	offsetPos := len(args)

	// Sort.Field is whitelisted by model.ParseSort; safe to interpolate.
	qList := fmt.Sprintf(`SELECT %s FROM files WHERE %s ORDER BY %s %s, id DESC LIMIT $%d OFFSET $%d`,
		fileColumns, cond, sort.Field, dir, limitPos, offsetPos)

	rows, err := r.db.QueryContext(ctx, qList, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.File, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.File]{Items: items, Total: total}, nil
}

// ExistsByBucketKey reports whether a row references the given object key.
func (r *FilePostgres) ExistsByBucketKey(ctx context.Context, key string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM files WHERE bucket_key = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, key).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// UsageByType aggregates owned files per category.
func (r *FilePostgres) UsageByType(ctx context.Context, ownerID string) ([]repository.UsageRow, error) {
	const q = `
		SELECT type, COUNT(*), COALESCE(SUM(size), 0), COALESCE(to_char(MAX(updated_at), 'YYYY-MM-DD"T"HH24:MI:SSOF'), '')
		FROM files
		WHERE owner_id = $1
		GROUP BY type
		ORDER BY type
	`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]repository.UsageRow, 0)
	for rows.Next() {
		var u repository.UsageRow
		var typ string
		if err := rows.Scan(&typ, &u.Count, &u.TotalBytes, &u.LatestAt); err != nil {
			return nil, err
		}
		u.Type = model.FileType(typ)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
