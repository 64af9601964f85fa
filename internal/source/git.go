package source

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Git implements Source by reading from a git ref (branch, tag, or commit).
type Git struct {
	repoPath string
	ref      string
	filter   Filter
}

// NewGit creates a Git source that reads documents from the given ref in the
// repository at repoPath.
func NewGit(repoPath, ref string, filter Filter) *Git {
	return &Git{repoPath: repoPath, ref: ref, filter: filter}
}

func (g *Git) git(args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", g.repoPath}, args...)...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}

// Read returns the named document's contents at the ref.
func (g *Git) Read(name string) ([]byte, error) {
	n, err := clean(name)
	if err != nil {
		return nil, err
	}
	out, err := g.git("show", g.ref+":"+n)
	if err != nil {
		msg := err.Error()
		if strings.Contains(msg, "does not exist") || strings.Contains(msg, "not in") {
			return nil, fmt.Errorf("%s@%s: %w", n, g.ref, os.ErrNotExist)
		}
		return nil, err
	}
	return []byte(out), nil
}

// ModTime returns the commit time of the last change to the document.
func (g *Git) ModTime(name string) (time.Time, error) {
	n, err := clean(name)
	if err != nil {
		return time.Time{}, err
	}
	out, err := g.git("log", "-1", "--format=%ct", g.ref, "--", n)
	if err != nil {
		return time.Time{}, err
	}
	ts := strings.TrimSpace(out)
	if ts == "" {
		return time.Time{}, fmt.Errorf("%s@%s: %w", n, g.ref, os.ErrNotExist)
	}
	sec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse commit time %q: %w", ts, err)
	}
	return time.Unix(sec, 0), nil
}

// List returns every document in the ref's tree matching the filter.
func (g *Git) List() ([]string, error) {
	out, err := g.git("ls-tree", "-r", "-z", "--name-only", g.ref)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, name := range strings.Split(out, "\x00") {
		if name != "" && g.filter.Match(name) {
			names = append(names, name)
		}
	}
	return sorted(names), nil
}
