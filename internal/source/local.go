package source

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Local implements Source using a directory on disk.
type Local struct {
	root   string
	filter Filter
}

// NewLocal creates a Local source rooted at the given directory.
func NewLocal(root string, filter Filter) *Local {
	return &Local{root: root, filter: filter}
}

func (l *Local) abs(name string) (string, error) {
	n, err := clean(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.root, filepath.FromSlash(n)), nil
}

// Read reads the named document relative to the root.
func (l *Local) Read(name string) ([]byte, error) {
	p, err := l.abs(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

// ModTime returns the modification time of the named document.
func (l *Local) ModTime(name string) (time.Time, error) {
	p, err := l.abs(name)
	if err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(p)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// List globs the root for documents matching the filter.
func (l *Local) List() ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(l.root), l.filter.pattern(), doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", l.root, err)
	}

	var names []string
	for _, m := range matches {
		if l.filter.Match(m) {
			names = append(names, m)
		}
	}
	return sorted(names), nil
}
