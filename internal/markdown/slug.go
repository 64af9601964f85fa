package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	slugStripRe  = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	slugSpaceRe  = regexp.MustCompile(`\s+`)
	slugHyphenRe = regexp.MustCompile(`-+`)
)

// Slugify creates a URL-safe anchor from heading text. The result may be empty
// for text made only of punctuation.
func Slugify(text string) string {
	anchor := strings.ToLower(text)
	anchor = slugStripRe.ReplaceAllString(anchor, "")
	anchor = slugSpaceRe.ReplaceAllString(anchor, "-")
	anchor = slugHyphenRe.ReplaceAllString(anchor, "-")
	return strings.Trim(anchor, "-")
}

// Slugger hands out anchors that are unique within one document.
type Slugger struct {
	seen map[string]int
}

// NewSlugger creates an empty Slugger.
func NewSlugger() *Slugger {
	return &Slugger{seen: make(map[string]int)}
}

// Slug returns Slugify(text), suffixed with -1, -2, ... when the anchor was
// already handed out. Empty anchors are returned as-is.
func (s *Slugger) Slug(text string) string {
	base := Slugify(text)
	if base == "" {
		return base
	}

	n, dup := s.seen[base]
	if !dup {
		s.seen[base] = 0
		return base
	}
	for {
		n++
		candidate := base + "-" + strconv.Itoa(n)
		if _, taken := s.seen[candidate]; !taken {
			s.seen[base] = n
			s.seen[candidate] = 0
			return candidate
		}
	}
}
