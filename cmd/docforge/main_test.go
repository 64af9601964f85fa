package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CageChen/docforge/internal/config"
)

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("docs", "guide.html"), outputPath("", filepath.Join("docs", "guide.md"), "guide.md"))
	assert.Equal(t, filepath.Join("out", "a", "b.html"), outputPath("out", "/src/b.markdown", filepath.Join("a", "b.markdown")))
}

func TestFileJobs(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "note.md")
	require.NoError(t, os.WriteFile(input, []byte("# Note"), 0o644))

	jobs, err := fileJobs([]string{input}, "", "")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "note.md", jobs[0].name)
	assert.Equal(t, filepath.Join(dir, "note.html"), jobs[0].out)

	_, err = fileJobs([]string{filepath.Join(dir, "missing.md")}, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input not found")

	_, err = fileJobs([]string{dir}, "", "")
	assert.Error(t, err)
}

func TestFolderJobs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.md"), []byte("b"), 0o644))

	cfg = config.DefaultConfig()
	cfg.Folders = []config.Folder{{Path: dir, Alias: "docs"}}

	jobs, err := folderJobs("")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, filepath.Join(dir, "sub", "b.html"), jobs[1].out)

	out := t.TempDir()
	jobs, err = folderJobs(out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "docs", "a.html"), jobs[0].out)

	cfg.Folders = nil
	_, err = folderJobs("")
	assert.Error(t, err)
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "post.md")
	require.NoError(t, os.WriteFile(input, []byte("---\ntitle: Post\n---\nHello **there**."), 0o644))
	cfgFile := filepath.Join(dir, "docforge.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("style: minimal\n"), 0o644))

	rootCmd.SetArgs([]string{"build", "--config", cfgFile, "--style", "warm", input})
	require.NoError(t, rootCmd.Execute())

	html, err := os.ReadFile(filepath.Join(dir, "post.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<title>Post</title>")
	assert.Contains(t, string(html), "<strong>there</strong>")
	assert.Contains(t, string(html), "--bg: #fdf8f2;")
}

func TestBuildUnknownStyle(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "post.md")
	require.NoError(t, os.WriteFile(input, []byte("text"), 0o644))
	cfgFile := filepath.Join(dir, "docforge.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("style: minimal\n"), 0o644))

	rootCmd.SetArgs([]string{"build", "--config", cfgFile, "--style", "baroque", input})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "style not found"))

	_, statErr := os.Stat(filepath.Join(dir, "post.html"))
	assert.True(t, os.IsNotExist(statErr))
}
