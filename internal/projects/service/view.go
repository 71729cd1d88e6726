package service

import (
	"context"
	"strings"
	"time"

	"github.com/cahier-app/cahier-backend/internal/projects/domain"
)

// RenderedSection is one non-blank body section with its HTML.
type RenderedSection struct {
	domain.Section
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

// ProjectView is a project ready for display.
type ProjectView struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Sections    []RenderedSection `json:"sections"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// View loads a project and renders its sections.
func (s *ProjectService) View(ctx context.Context, id string) (*ProjectView, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.BuildView(*p)
	return &v, nil
}

// BuildView renders every non-blank section of p in display order.
func (s *ProjectService) BuildView(p domain.Project) ProjectView {
	sections := make([]RenderedSection, 0, len(domain.Sections))
	for _, sec := range domain.Sections {
		text := p.SectionText(sec.Key)
		if strings.TrimSpace(text) == "" {
			continue
		}
		sections = append(sections, RenderedSection{
			Section:  sec,
			Markdown: text,
			HTML:     s.renderer.Render(text),
		})
	}

	return ProjectView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Sections:    sections,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// RenderMarkdown exposes the sanitizing renderer to callers.
func (s *ProjectService) RenderMarkdown(text string) string {
	return s.renderer.Render(text)
}
