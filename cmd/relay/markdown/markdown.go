// Package markdown renders issue bodies to the HTML submitted as draft content.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Converter is stateless and safe for concurrent use.
//
// Fenced code blocks and lists that directly follow a paragraph line
// ("cuddled" lists) are part of CommonMark; tables come from the GFM table
// extension. Raw HTML in the body is passed through.
type Converter struct {
	engine goldmark.Markdown
}

func NewConverter() *Converter {
	return &Converter{
		engine: goldmark.New(
			goldmark.WithExtensions(extension.Table),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// ToHTML never fails: malformed markdown renders as best-effort HTML.
// goldmark only returns errors from the writer, and bytes.Buffer does not fail.
func (c *Converter) ToHTML(md string) string {
	var buf bytes.Buffer
	_ = c.engine.Convert([]byte(md), &buf)
	return buf.String()
}
