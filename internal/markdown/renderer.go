// Package markdown converts Markdown section text into HTML that is safe to
// inject into a live document.
package markdown

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/cahier-app/cahier-backend/internal/logger"
)

// Renderer parses Markdown with GitHub-flavoured extensions and hard line
// breaks, then sanitizes the generated HTML. A Renderer is stateless after
// construction and safe for concurrent use.
type Renderer struct {
	engine goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRenderer builds a renderer with the default engine and sanitizer policy.
func NewRenderer() *Renderer {
	return &Renderer{
		engine: newEngine(),
		policy: newPolicy(),
	}
}

var defaultRenderer = NewRenderer()

// Render converts markdown to sanitized HTML using the shared renderer.
func Render(markdown string) string {
	return defaultRenderer.Render(markdown)
}

// Render converts markdown to sanitized HTML. Blank input yields "".
// Parser output is never returned without passing through the sanitizer.
func (r *Renderer) Render(markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(markdown), &buf); err != nil {
		logger.New(context.Background()).LogError("markdown.render", err)
		return ""
	}
	return r.policy.Sanitize(buf.String())
}

// newEngine passes raw HTML through; the sanitizer decides what survives.
func newEngine() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(),
		),
	)
}

var checkboxType = regexp.MustCompile(`^checkbox$`)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnFullyQualifiedLinks(true)
	// task list checkboxes rendered by the TaskList extension
	p.AllowAttrs("type").Matching(checkboxType).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")
	return p
}
