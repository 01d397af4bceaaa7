package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTML(t *testing.T) {
	m := NewMarkdown()

	tests := []struct {
		name     string
		src      string
		contains []string
		excludes []string
	}{
		{name: "empty", src: ""},
		{
			name:     "heading and emphasis",
			src:      "# Groceries\n\n*milk* and **eggs**",
			contains: []string{"<h1", "Groceries", "<em>milk</em>", "<strong>eggs</strong>"},
		},
		{
			name:     "gfm task list",
			src:      "- [x] done\n- [ ] todo",
			contains: []string{"<li>", "done", "todo"},
		},
		{
			name:     "script is stripped",
			src:      "hello <script>alert(1)</script>",
			contains: []string{"hello"},
			excludes: []string{"<script", "alert(1)"},
		},
		{
			name:     "javascript links are neutralized",
			src:      "[click](javascript:alert(1))",
			excludes: []string{"javascript:"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := m.HTML(tt.src)
			if tt.src == "" {
				assert.Empty(t, out)
			}
			for _, c := range tt.contains {
				assert.Contains(t, out, c)
			}
			for _, e := range tt.excludes {
				assert.NotContains(t, out, e)
			}
		})
	}
}
