package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_EmptyInput(t *testing.T) {
	assert.Equal(t, "", Render(""))
	assert.Equal(t, "", Render("   \n\t"))
}

func TestRender_StripsScript(t *testing.T) {
	out := Render("<script>alert(1)</script>**bold**")

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "alert(1)")
	assert.Contains(t, out, "bold")

	out = Render("<script>alert(1)</script>\n\n**bold**")
	assert.NotContains(t, out, "<script")
	assert.Contains(t, out, "<strong>bold</strong>")
}

func TestRender_StripsUnsafeAttributesAndURLs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		absent  []string
		present []string
	}{
		{
			name:    "inline event handler",
			input:   `<img src="https://example.com/a.png" onerror="alert(1)">`,
			absent:  []string{"onerror", "alert"},
			present: []string{"<img"},
		},
		{
			name:   "javascript link",
			input:  "[click](javascript:alert(1))",
			absent: []string{"javascript:", "href"},
		},
		{
			name:   "iframe",
			input:  `<iframe src="https://evil.example"></iframe>`,
			absent: []string{"<iframe"},
		},
		{
			name:   "style tag",
			input:  "<style>body{display:none}</style>\n\ntext",
			absent: []string{"<style", "display:none"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Render(tt.input)
			for _, s := range tt.absent {
				assert.NotContains(t, out, s)
			}
			for _, s := range tt.present {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestRender_HardLineBreaks(t *testing.T) {
	out := Render("line one\nline two")

	assert.Contains(t, out, "<p>line one<br")
	assert.Contains(t, out, "line two</p>")
}

func TestRender_GitHubFlavoured(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		out := Render("| a | b |\n|---|---|\n| 1 | 2 |")
		assert.Contains(t, out, "<table>")
		assert.Contains(t, out, "<td>1</td>")
	})

	t.Run("fenced code", func(t *testing.T) {
		out := Render("```go\nfmt.Println(1)\n```")
		assert.Contains(t, out, "<pre><code")
		assert.Contains(t, out, "fmt.Println(1)")
	})

	t.Run("autolink", func(t *testing.T) {
		out := Render("see https://example.com for details")
		assert.Contains(t, out, `href="https://example.com"`)
		assert.Contains(t, out, "nofollow")
	})

	t.Run("strikethrough", func(t *testing.T) {
		assert.Contains(t, Render("~~old~~"), "<del>old</del>")
	})
}

func TestRender_Deterministic(t *testing.T) {
	src := "# Titre\n\n- a\n- b\n\n<b onclick=\"x()\">gras</b>"
	first := Render(src)

	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Render(src))
	}
	assert.False(t, strings.Contains(first, "onclick"))
}

func TestRenderer_Instance(t *testing.T) {
	r := NewRenderer()
	assert.Equal(t, Render("*x*"), r.Render("*x*"))
	assert.Contains(t, r.Render("*x*"), "<em>x</em>")
}
