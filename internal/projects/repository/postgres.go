package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/cahier-app/cahier-backend/internal/logger"
	"github.com/cahier-app/cahier-backend/internal/projects/domain"
)

const projectColumns = `id, title, description, objective, structure, features, constraints, testing, success_criteria, created_at, updated_at`

// PostgresStore persists projects as rows of the projects table.
// It works with either the lib/pq ("postgres") or pgx ("pgx") driver.
type PostgresStore struct {
	db    *sql.DB
	now   Clock
	newID IDFunc
}

// NewPostgresStore creates a store over an open database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now, newID: NewID}
}

// WithClock returns a copy of the store using the given time source.
func (r *PostgresStore) WithClock(c Clock) *PostgresStore {
	cp := *r
	cp.now = c
	return &cp
}

// WithIDs returns a copy of the store using the given id generator.
func (r *PostgresStore) WithIDs(f IDFunc) *PostgresStore {
	cp := *r
	cp.newID = f
	return &cp
}

// EnsureSchema creates the projects table when it does not exist yet.
func (r *PostgresStore) EnsureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS projects (
	id               text PRIMARY KEY,
	title            text NOT NULL,
	description      text NOT NULL DEFAULT '',
	objective        text NOT NULL DEFAULT '',
	structure        text NOT NULL DEFAULT '',
	features         text NOT NULL DEFAULT '',
	constraints      text NOT NULL DEFAULT '',
	testing          text NOT NULL DEFAULT '',
	success_criteria text NOT NULL DEFAULT '',
	created_at       timestamptz NOT NULL,
	updated_at       timestamptz NOT NULL
);
`
	if _, err := r.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("%w: create projects table: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *PostgresStore) List(ctx context.Context) ([]domain.Project, error) {
	const q = `
SELECT ` + projectColumns + `
FROM projects
ORDER BY updated_at DESC, created_at DESC, id ASC;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return []domain.Project{}, r.fail(ctx, "projects.remote.list", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return []domain.Project{}, r.fail(ctx, "projects.remote.list", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return []domain.Project{}, r.fail(ctx, "projects.remote.list", err)
	}
	return out, nil
}

func (r *PostgresStore) Create(ctx context.Context, fields domain.Fields) (*domain.Project, error) {
	const q = `
INSERT INTO projects (` + projectColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + projectColumns + `;
`
	for i := 0; i < 5; i++ {
		p := domain.NewProject(r.newID(), fields, r.now())

		row := r.db.QueryRowContext(ctx, q,
			p.ID, p.Title, p.Description, p.Objective, p.Structure, p.Features,
			p.Constraints, p.Testing, p.SuccessCriteria, p.CreatedAt, p.UpdatedAt)
		created, err := scanProject(row)
		if err == nil {
			return created, nil
		}

		// id collision, try a fresh one
		if isUniqueViolation(err) {
			continue
		}
		return nil, r.fail(ctx, "projects.remote.create", err)
	}

	return nil, r.fail(ctx, "projects.remote.create", fmt.Errorf("failed to generate unique project id"))
}

func (r *PostgresStore) Update(ctx context.Context, id string, patch domain.Patch) (*domain.Project, error) {
	const q = `
UPDATE projects
SET title            = COALESCE($2, title),
    description      = COALESCE($3, description),
    objective        = COALESCE($4, objective),
    structure        = COALESCE($5, structure),
    features         = COALESCE($6, features),
    constraints      = COALESCE($7, constraints),
    testing          = COALESCE($8, testing),
    success_criteria = COALESCE($9, success_criteria),
    updated_at       = GREATEST($10::timestamptz, updated_at + interval '1 microsecond')
WHERE id = $1
RETURNING ` + projectColumns + `;
`
	row := r.db.QueryRowContext(ctx, q, id,
		nullable(patch.Title), nullable(patch.Description), nullable(patch.Objective),
		nullable(patch.Structure), nullable(patch.Features), nullable(patch.Constraints),
		nullable(patch.Testing), nullable(patch.SuccessCriteria), domain.Stamp(r.now()))

	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, r.fail(ctx, "projects.remote.update", err)
	}
	return p, nil
}

func (r *PostgresStore) Delete(ctx context.Context, id string) (bool, error) {
	const q = `DELETE FROM projects WHERE id = $1;`

	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, r.fail(ctx, "projects.remote.delete", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, r.fail(ctx, "projects.remote.delete", err)
	}
	return rowsAffected > 0, nil
}

func (r *PostgresStore) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	const q = `
SELECT ` + projectColumns + `
FROM projects
WHERE id = $1;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, r.fail(ctx, "projects.remote.get", err)
	}
	return p, nil
}

func (r *PostgresStore) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *PostgresStore) fail(ctx context.Context, operation string, err error) error {
	logger.New(ctx).LogError(operation, err)
	return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Objective, &p.Structure, &p.Features,
		&p.Constraints, &p.Testing, &p.SuccessCriteria, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

func nullable(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
