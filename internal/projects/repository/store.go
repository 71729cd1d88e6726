package repository

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cahier-app/cahier-backend/internal/projects/domain"
)

// Store is the persistence contract shared by every project backend.
//
// Not-found conditions return domain.ErrNotFound; faults of the backing medium
// wrap domain.ErrStorageUnavailable. Delete of an unknown id is not an error.
type Store interface {
	// List returns every project, most recently updated first.
	List(ctx context.Context) ([]domain.Project, error)
	// Create assigns id and timestamps and persists the project.
	Create(ctx context.Context, fields domain.Fields) (*domain.Project, error)
	// Update merges patch over the stored project and refreshes updated_at.
	Update(ctx context.Context, id string, patch domain.Patch) (*domain.Project, error)
	// Delete removes the project and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// Ping checks that the backing medium is reachable.
	Ping(ctx context.Context) error
}

// Clock returns the current time. Stores take one so tests can pin time.
type Clock func() time.Time

// IDFunc generates a new project id.
type IDFunc func() string

// NewID returns a random UUID string.
func NewID() string {
	return uuid.NewString()
}

// SortByRecency orders projects by updated_at desc, then created_at desc, then id.
func SortByRecency(items []domain.Project) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
