package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cahier-app/cahier-backend/internal/projects/domain"
)

// Export formats.
const (
	FormatMarkdown = "md"
	FormatYAML     = "yaml"
	FormatJSON     = "json"
)

// ErrUnknownFormat is returned for an unsupported export format.
var ErrUnknownFormat = errors.New("unknown export format")

// Export loads a project and encodes it in the given format.
// It returns the document and its content type.
func (s *ProjectService) Export(ctx context.Context, id, format string) ([]byte, string, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return Encode(*p, format)
}

// Encode renders p as a Markdown document, YAML or JSON.
func Encode(p domain.Project, format string) ([]byte, string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatMarkdown, "markdown":
		return []byte(MarkdownDocument(p)), "text/markdown; charset=utf-8", nil
	case FormatYAML, "yml":
		data, err := yaml.Marshal(p)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal yaml: %w", err)
		}
		return data, "application/yaml", nil
	case FormatJSON:
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal json: %w", err)
		}
		return data, "application/json", nil
	}
	return nil, "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// MarkdownDocument assembles the project into one Markdown document:
// title, description, then one heading per non-blank section.
func MarkdownDocument(p domain.Project) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Title)
	if d := strings.TrimSpace(p.Description); d != "" {
		fmt.Fprintf(&b, "> %s\n\n", strings.ReplaceAll(d, "\n", "\n> "))
	}
	for _, sec := range domain.Sections {
		text := strings.TrimSpace(p.SectionText(sec.Key))
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "## %s %s\n\n%s\n\n", sec.Emoji, sec.Title, text)
	}
	if !p.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "---\n\nModifié le %s\n", p.UpdatedAt.Format("02/01/2006"))
	}
	return b.String()
}
