package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/cahier-app/cahier-backend/internal/logger"
	"github.com/cahier-app/cahier-backend/internal/markdown"
	"github.com/cahier-app/cahier-backend/internal/projects/domain"
	"github.com/cahier-app/cahier-backend/internal/projects/repository"
)

// MaxTitleLength is the longest accepted title, in runes.
const MaxTitleLength = 200

// ProjectService is the boundary between callers and the project store.
// It trims and validates titles before they reach the store.
type ProjectService struct {
	store    repository.Store
	renderer *markdown.Renderer
}

// NewProjectService creates a new project service
func NewProjectService(store repository.Store, renderer *markdown.Renderer) *ProjectService {
	if renderer == nil {
		renderer = markdown.NewRenderer()
	}
	return &ProjectService{
		store:    store,
		renderer: renderer,
	}
}

// List returns all projects, most recently updated first
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.store.List(ctx)
}

// Get returns a single project
func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.store.GetByID(ctx, id)
}

// Create validates fields and creates a new project
func (s *ProjectService) Create(ctx context.Context, fields domain.Fields) (*domain.Project, error) {
	fields.Title = strings.TrimSpace(fields.Title)
	if err := ValidateTitle(fields.Title); err != nil {
		return nil, err
	}

	p, err := s.store.Create(ctx, fields)
	if err != nil {
		return nil, err
	}
	logger.New(ctx).LogInfof("projects.create", "id=%s", p.ID)
	return p, nil
}

// Update validates the patch and merges it into an existing project
func (s *ProjectService) Update(ctx context.Context, id string, patch domain.Patch) (*domain.Project, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if err := ValidateTitle(title); err != nil {
			return nil, err
		}
		patch.Title = &title
	}

	p, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	logger.New(ctx).LogInfof("projects.update", "id=%s", p.ID)
	return p, nil
}

// Delete removes a project. Confirmation is the caller's job.
func (s *ProjectService) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		logger.New(ctx).LogInfof("projects.delete", "id=%s", id)
	}
	return ok, nil
}

// Ping checks the backing store
func (s *ProjectService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// ValidateTitle reports domain.ErrInvalidTitle for empty or overlong titles.
func ValidateTitle(title string) error {
	err := validation.Validate(title,
		validation.Required.Error("title is required"),
		validation.By(func(value any) error {
			if utf8.RuneCountInString(value.(string)) > MaxTitleLength {
				return validation.NewError("projects.title.too_long",
					fmt.Sprintf("title must be at most %d characters", MaxTitleLength))
			}
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidTitle, err)
	}
	return nil
}
