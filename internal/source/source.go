// Package source provides the places documents are read from: a directory on
// local disk or a ref in a git repository.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrInvalidPath is returned for names that escape the source root.
var ErrInvalidPath = errors.New("invalid path")

// Source abstracts document access so callers can work with either the local
// filesystem or a git object database.
type Source interface {
	// Read returns the raw bytes of the named document.
	Read(name string) ([]byte, error)
	// ModTime returns the last modification time of the named document.
	ModTime(name string) (time.Time, error)
	// List returns the slash-separated relative paths of every markdown
	// document, sorted.
	List() ([]string, error)
}

// DefaultExtensions is used when a Filter names no extensions.
var DefaultExtensions = []string{".md", ".markdown"}

// Filter selects markdown documents by extension and exclude patterns.
type Filter struct {
	Extensions []string
	Exclude    []string
}

// New returns a Git source when ref is set and a Local one otherwise.
func New(root, ref string, filter Filter) Source {
	if ref != "" {
		return NewGit(root, ref, filter)
	}
	return NewLocal(root, filter)
}

// Match reports whether the relative path is a markdown document that is not
// excluded.
func (f Filter) Match(name string) bool {
	return f.hasExtension(name) && !f.Excluded(name)
}

// Excluded reports whether the path, its base name or any of its directories
// matches an exclude pattern.
func (f Filter) Excluded(name string) bool {
	name = strings.TrimPrefix(name, "./")
	for _, pattern := range f.Exclude {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
		for _, part := range strings.Split(name, "/") {
			if ok, _ := doublestar.Match(pattern, part); ok {
				return true
			}
		}
	}
	return false
}

func (f Filter) extensions() []string {
	if len(f.Extensions) == 0 {
		return DefaultExtensions
	}
	return f.Extensions
}

func (f Filter) hasExtension(name string) bool {
	for _, ext := range f.extensions() {
		if strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// pattern builds the doublestar glob covering every configured extension.
func (f Filter) pattern() string {
	var exts []string
	for _, ext := range f.extensions() {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	switch len(exts) {
	case 1:
		return "**/*." + exts[0]
	default:
		return "**/*.{" + strings.Join(exts, ",") + "}"
	}
}

// clean validates a document name and returns it in slash form relative to
// the root.
func clean(name string) (string, error) {
	n := strings.TrimPrefix(strings.ReplaceAll(name, "\\", "/"), "/")
	if n == "" || n == "." || !fs.ValidPath(n) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	return n, nil
}

func sorted(names []string) []string {
	if names == nil {
		names = []string{}
	}
	sort.Strings(names)
	return names
}
