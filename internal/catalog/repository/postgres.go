package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/toyfactory/toyfactory/backend/go-services/internal/catalog"
)

// Schema is the relational layout of the catalog. The id sequence never
// rewinds, so deleted ids are not reused.
const Schema = `
create table if not exists projects (
  id           bigserial primary key,
  title        text not null,
  description  text not null,
  category     text not null,
  tag          text,
  thumbnail    text not null,
  url          text not null,
  video_length text,
  created_at   timestamptz not null default now(),
  updated_at   timestamptz
);
create index if not exists projects_category_idx on projects (category, id);
`

const projectColumns = "id, title, description, category, tag, thumbnail, url, video_length, created_at, updated_at"

var columnByField = map[string]string{
	"title":       "title",
	"description": "description",
	"category":    "category",
	"tag":         "tag",
	"thumbnail":   "thumbnail",
	"url":         "url",
	"videoLength": "video_length",
}

// PostgresRepo implements Repository over database/sql.
type PostgresRepo struct {
	db *sql.DB
}

var _ Repository = (*PostgresRepo)(nil)

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

// EnsureSchema creates the projects table and its index if missing.
func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*catalog.Project, error) {
	var (
		p           catalog.Project
		tag         sql.NullString
		videoLength sql.NullString
		updatedAt   sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Category, &tag, &p.Thumbnail, &p.URL, &videoLength, &p.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}
	if tag.Valid {
		p.Tag = &tag.String
	}
	if videoLength.Valid {
		p.VideoLength = &videoLength.String
	}
	if updatedAt.Valid {
		p.UpdatedAt = &updatedAt.Time
	}
	return &p, nil
}

func (r *PostgresRepo) query(ctx context.Context, q string, args ...any) ([]*catalog.Project, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()
	out := []*catalog.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return out, nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]*catalog.Project, error) {
	return r.query(ctx, `select `+projectColumns+` from projects order by id`)
}

func (r *PostgresRepo) ListByCategory(ctx context.Context, category string) ([]*catalog.Project, error) {
	return r.query(ctx, `select `+projectColumns+` from projects where category = $1 order by id`, category)
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (*catalog.Project, error) {
	row := r.db.QueryRowContext(ctx, `select `+projectColumns+` from projects where id = $1`, id)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project %d: %w", id, err)
	}
	return p, nil
}

func (r *PostgresRepo) Create(ctx context.Context, in catalog.Input) (*catalog.Project, error) {
	row := r.db.QueryRowContext(ctx, `
insert into projects (title, description, category, tag, thumbnail, url, video_length)
values ($1, $2, $3, $4, $5, $6, $7)
returning `+projectColumns,
		in.Title, in.Description, in.Category, nullString(in.Tag), in.Thumbnail, in.URL, nullString(in.VideoLength),
	)
	p, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, patch catalog.Patch) (*catalog.Project, error) {
	fields := patch.Fields()
	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)
	for _, f := range fields {
		args = append(args, f.Value)
		sets = append(sets, fmt.Sprintf("%s = $%d", columnByField[f.Name], len(args)))
	}
	sets = append(sets, "updated_at = greatest(now(), created_at)")
	args = append(args, id)

	q := fmt.Sprintf(`update projects set %s where id = $%d returning %s`, strings.Join(sets, ", "), len(args), projectColumns)
	p, err := scanProject(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update project %d: %w", id, err)
	}
	return p, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `delete from projects where id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete project %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
