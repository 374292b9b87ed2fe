package event

import (
	"regexp"
	"strings"
)

var permalinkRe = regexp.MustCompile(`/([0-9]{4})/([0-9]{2})/(?:[0-9a-zA-Z-]*-)?([0-9a-zA-Z]+)$`)

// SlugFromName converts an event name into its URL slug: lower-cased, every
// run of characters outside [a-z0-9] collapsed to a single "-". The function
// is idempotent, so a stored slug can be re-fed through it safely.
func SlugFromName(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastDash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// ParseEventKey extracts the event key from a request path of the shape
// /{YYYY}/{MM}/{slug}-{key} (or /{YYYY}/{MM}/{key} for slugless events).
// The key is the trailing alphanumeric run after the final "-". It returns
// "" when the path does not match; a miss is a normal outcome for the
// caller to turn into a 404, not an error.
func ParseEventKey(path string) string {
	m := permalinkRe.FindStringSubmatch(path)
	if m == nil {
		return ""
	}
	return m[3]
}
