package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cahier-app/cahier-backend/internal/logger"
	"github.com/cahier-app/cahier-backend/internal/projects/domain"
	"github.com/cahier-app/cahier-backend/internal/storage/kv"
)

// DefaultStorageKey is the key the whole project collection is stored under.
const DefaultStorageKey = "projects"

// LocalStore keeps all projects as one JSON array under a single key of a
// kv.Storage. Every mutation rewrites the whole array.
type LocalStore struct {
	storage kv.Storage
	key     string
	now     Clock
	newID   IDFunc

	// serializes read-modify-write cycles within this process
	mu sync.Mutex
}

// LocalOption configures a LocalStore.
type LocalOption func(*LocalStore)

// WithLocalKey overrides the storage key.
func WithLocalKey(key string) LocalOption {
	return func(s *LocalStore) {
		if strings.TrimSpace(key) != "" {
			s.key = key
		}
	}
}

// WithLocalClock overrides the time source.
func WithLocalClock(c Clock) LocalOption {
	return func(s *LocalStore) { s.now = c }
}

// WithLocalIDs overrides id generation.
func WithLocalIDs(f IDFunc) LocalOption {
	return func(s *LocalStore) { s.newID = f }
}

// NewLocalStore creates a store over the given substrate.
func NewLocalStore(storage kv.Storage, opts ...LocalOption) *LocalStore {
	s := &LocalStore{
		storage: storage,
		key:     DefaultStorageKey,
		now:     time.Now,
		newID:   NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LocalStore) List(ctx context.Context) ([]domain.Project, error) {
	s.mu.Lock()
	items, err := s.load(ctx)
	s.mu.Unlock()
	if err != nil {
		logger.New(ctx).LogError("projects.local.list", err)
		return []domain.Project{}, err
	}
	SortByRecency(items)
	return items, nil
}

func (s *LocalStore) Create(ctx context.Context, fields domain.Fields) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		logger.New(ctx).LogError("projects.local.create", err)
		return nil, err
	}

	p := domain.NewProject(s.newID(), fields, s.now())
	items = append(items, p)
	if err := s.save(ctx, items); err != nil {
		logger.New(ctx).LogError("projects.local.create", err)
		return nil, err
	}
	return &p, nil
}

func (s *LocalStore) Update(ctx context.Context, id string, patch domain.Patch) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		logger.New(ctx).LogError("projects.local.update", err)
		return nil, err
	}

	idx := indexOf(items, id)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}

	p := items[idx]
	p.Apply(patch)
	p.UpdatedAt = domain.Touch(p.UpdatedAt, s.now())
	items[idx] = p

	if err := s.save(ctx, items); err != nil {
		logger.New(ctx).LogError("projects.local.update", err)
		return nil, err
	}
	return &p, nil
}

func (s *LocalStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		logger.New(ctx).LogError("projects.local.delete", err)
		return false, err
	}

	idx := indexOf(items, id)
	if idx < 0 {
		return false, nil
	}
	items = append(items[:idx], items[idx+1:]...)

	if err := s.save(ctx, items); err != nil {
		logger.New(ctx).LogError("projects.local.delete", err)
		return false, err
	}
	return true, nil
}

func (s *LocalStore) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	s.mu.Lock()
	items, err := s.load(ctx)
	s.mu.Unlock()
	if err != nil {
		logger.New(ctx).LogError("projects.local.get", err)
		return nil, err
	}

	idx := indexOf(items, id)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	p := items[idx]
	return &p, nil
}

func (s *LocalStore) Ping(ctx context.Context) error {
	return s.storage.Ping(ctx)
}

// load decodes the stored array. A missing or blank value is an empty collection.
func (s *LocalStore) load(ctx context.Context) ([]domain.Project, error) {
	raw, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []domain.Project{}, nil
	}

	var items []domain.Project
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptPayload, err)
	}
	if items == nil {
		items = []domain.Project{}
	}
	return items, nil
}

func (s *LocalStore) save(ctx context.Context, items []domain.Project) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal projects: %w", err)
	}
	if err := s.storage.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	logger.New(ctx).LogDebugf("projects.local.save", "key=%s count=%d bytes=%d", s.key, len(items), len(data))
	return nil
}

func indexOf(items []domain.Project, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
