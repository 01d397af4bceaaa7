// Package render turns note bodies written in markdown into HTML that is
// safe to embed in a page.
package render

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

type Markdown struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
}

func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// HTML converts src to sanitized HTML. Empty input renders as "".
func (m *Markdown) HTML(src string) string {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return m.sanitizer.Sanitize(src)
	}
	return m.sanitizer.Sanitize(buf.String())
}
