package event

import "testing"

func TestSlugFromName(t *testing.T) {
	for _, tc := range []struct {
		name string
		want string
	}{
		{"IndieWebCamp Berlin", "indiewebcamp-berlin"},
		{"Foo & Bar -- Baz!!", "foo-bar-baz"},
		{"Homebrew Website Club", "homebrew-website-club"},
		{"  spaces  everywhere  ", "spaces-everywhere"},
		{"2024 Summit", "2024-summit"},
		{"///", ""},
		{"", ""},
	} {
		if got := SlugFromName(tc.name); got != tc.want {
			t.Errorf("SlugFromName(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestSlugFromNameIdempotent(t *testing.T) {
	for _, s := range []string{"Foo & Bar -- Baz!!", "already-a-slug", "Mixed CASE 123", "émoji 🎉 name"} {
		once := SlugFromName(s)
		if twice := SlugFromName(once); twice != once {
			t.Errorf("SlugFromName not idempotent for %q: %q != %q", s, twice, once)
		}
	}
}

func TestParseEventKey(t *testing.T) {
	for _, tc := range []struct {
		path string
		want string
	}{
		{"/2024/06/indiewebcamp-berlin-aB3xK9", "aB3xK9"},
		{"/2024/06/foo-bar-baz123", "baz123"},
		{"/2024/06/aB3xK9", "aB3xK9"},
		{"/2024/6/slug-key1", ""},
		{"/not/numeric/slug-key1", ""},
		{"/2024/06/", ""},
		{"/2024/06/slug-key1/extra", ""},
		{"/about", ""},
		{"", ""},
	} {
		if got := ParseEventKey(tc.path); got != tc.want {
			t.Errorf("ParseEventKey(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
