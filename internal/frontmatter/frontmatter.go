// Package frontmatter splits a leading key/value metadata block from a markdown document.
package frontmatter

import (
	"regexp"
	"strings"
)

// blockRe matches a delimiter line, the metadata lines, a closing delimiter line and the body.
var blockRe = regexp.MustCompile(`(?s)\A---\n(?:(.*?)\n)?---\n(.*)\z`)

// Document is the result of extracting frontmatter from raw text
type Document struct {
	Raw  string
	Meta map[string]string
	Body string
}

// Extract parses the leading metadata block of raw. When the block is missing
// or malformed the whole input is returned as the body with empty metadata.
func Extract(raw string) Document {
	doc := Document{
		Raw:  raw,
		Meta: make(map[string]string),
		Body: raw,
	}

	m := blockRe.FindStringSubmatch(raw)
	if m == nil {
		return doc
	}

	for _, line := range strings.Split(m[1], "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		// First occurrence wins
		if _, seen := doc.Meta[key]; seen {
			continue
		}
		doc.Meta[key] = unquote(strings.TrimSpace(value))
	}
	doc.Body = m[2]

	return doc
}

// unquote removes one pair of matching surrounding quotes
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// Title returns the title metadata value.
func (d Document) Title() string {
	return d.Meta["title"]
}

// Subtitle returns the subtitle, falling back to the description.
func (d Document) Subtitle() string {
	if s := d.Meta["subtitle"]; s != "" {
		return s
	}
	return d.Meta["description"]
}

// Author returns the author metadata value.
func (d Document) Author() string {
	return d.Meta["author"]
}

// Date returns the date metadata value.
func (d Document) Date() string {
	return d.Meta["date"]
}
