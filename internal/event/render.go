package event

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// sanitizer is the embedding allow-list: common formatting tags and safe
// attributes, no scripts, no event handlers. Sanitization is idempotent.
var sanitizer = bluemonday.UGCPolicy()

// RenderDescription converts an event description from markdown into HTML
// safe to embed in the host page. Sanitization is always the final step;
// markdown output is never trusted directly. If the markdown transform
// fails the raw text is sanitized as-is instead, trading fidelity for
// availability.
func RenderDescription(description string) string {
	if description == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(description), &buf); err != nil {
		return Sanitize(description)
	}
	return Sanitize(buf.String())
}

// Sanitize strips disallowed tags and attributes from HTML.
func Sanitize(html string) string {
	return sanitizer.Sanitize(html)
}
