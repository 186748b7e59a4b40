package site

import (
	"bytes"
	"fmt"
	"html/template"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// The goldmark instance is configured once and shared; Convert keeps its
// state per call.
var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func markdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
			),
		)
	})
	return markdownInstance
}

// RenderMarkdown converts problem details to HTML. Raw HTML in the
// source is omitted.
func RenderMarkdown(source string) (template.HTML, error) {
	if source == "" {
		return "", nil
	}
	var buffer bytes.Buffer
	if err := markdown().Convert([]byte(source), &buffer); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(buffer.String()), nil
}
