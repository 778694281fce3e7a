package linkutil

import "testing"

func TestNormalizeHref(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"https://example.com/x", "https://example.com/x"},
		{"http://example.com/x", "http://example.com/x"},
		{"#source-1", "#source-1"},
		{"/magazine/foo", "/magazine/foo"},
		{"/blog/foo", "/magazine/foo"},
		{"/foo", "/magazine/foo"},
		{"foo", "/magazine/foo"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeHref(c.in); got != c.want {
			t.Errorf("NormalizeHref(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIsInternal(t *testing.T) {
	if IsInternal("https://example.com") {
		t.Error("external URL should not be internal")
	}
	if IsInternal("#anchor") {
		t.Error("anchor should not be internal")
	}
	if !IsInternal("/foo") {
		t.Error("/foo should normalize to internal")
	}
}

func TestSlug(t *testing.T) {
	if got := Slug("/blog/ai-tools"); got != "ai-tools" {
		t.Errorf("Slug = %q, want ai-tools", got)
	}
	if got := Slug("https://example.com/x"); got != "" {
		t.Errorf("Slug of external URL = %q, want empty", got)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Widgets Explained", "widgets-explained"},
		{"  What's AEO, Anyway?!  ", "what-s-aeo-anyway"},
		{"already-a-slug", "already-a-slug"},
		{"---", ""},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
