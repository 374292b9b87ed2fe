package event

import (
	"strings"
	"testing"
)

func TestRenderDescriptionEmpty(t *testing.T) {
	if got := RenderDescription(""); got != "" {
		t.Errorf("empty description should render empty, got %q", got)
	}
}

func TestRenderDescriptionMarkdown(t *testing.T) {
	got := RenderDescription("A **bold** plan.")
	if !strings.Contains(got, "<strong>bold</strong>") {
		t.Errorf("markdown not transformed: %q", got)
	}
}

func TestRenderDescriptionTables(t *testing.T) {
	src := "| a | b |\n| - | - |\n| 1 | 2 |"
	got := RenderDescription(src)
	if !strings.Contains(got, "<table>") {
		t.Errorf("extended markdown tables not enabled: %q", got)
	}
}

func TestRenderDescriptionStripsScripts(t *testing.T) {
	got := RenderDescription("hello <script>alert(1)</script> world")
	if strings.Contains(got, "<script") || strings.Contains(got, "alert(1)") {
		t.Errorf("script survived sanitization: %q", got)
	}
}

func TestRenderDescriptionStripsEventHandlers(t *testing.T) {
	got := RenderDescription(`<p onclick="evil()">click</p>`)
	if strings.Contains(got, "onclick") {
		t.Errorf("inline handler survived sanitization: %q", got)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	for _, h := range []string{
		"<p>plain</p>",
		`<a href="https://example.com/" onclick="x()">link</a><script>boom()</script>`,
		"<em>nested <strong>tags</strong></em>",
		"& ampersands < angles >",
	} {
		once := Sanitize(h)
		if twice := Sanitize(once); twice != once {
			t.Errorf("Sanitize not idempotent for %q: %q != %q", h, twice, once)
		}
	}
}
