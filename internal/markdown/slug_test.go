package markdown

import (
	"regexp"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input  string
		output string
	}{
		{"Hello World", "hello-world"},
		{"Test! @# Content", "test-content"},
		{"Multiple   Spaces", "multiple-spaces"},
		{"-Start-and-End-", "start-and-end"},
		{"中文标题", "中文标题"},
		{"API v2.0 — Overview!", "api-v20-overview"},
		{"snake_case name", "snake_case-name"},
		{"a - b", "a-b"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		got := Slugify(tt.input)
		if got != tt.output {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.output)
		}
	}
}

func TestSlugifyShape(t *testing.T) {
	shape := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	for _, in := range []string{"API v2.0 — Overview!", "  Leading and trailing  ", "Q&A: What's new?"} {
		got := Slugify(in)
		if !shape.MatchString(got) {
			t.Errorf("Slugify(%q) = %q has invalid shape", in, got)
		}
	}
}

func TestSluggerDeduplicates(t *testing.T) {
	s := NewSlugger()

	got := []string{
		s.Slug("Intro"),
		s.Slug("Intro"),
		s.Slug("intro!"),
		s.Slug("Intro 1"),
		s.Slug("???"),
		s.Slug("???"),
	}
	want := []string{"intro", "intro-1", "intro-2", "intro-1-1", "", ""}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("slug %d = %q, want %q", i, got[i], want[i])
		}
	}
}
