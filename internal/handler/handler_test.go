package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CageChen/docforge/internal/config"
	"github.com/CageChen/docforge/internal/watcher"
)

const guide = `---
title: User Guide
author: Ada
---
# User Guide

## Install
## Configure
## Run
`

func setupServer(t *testing.T) (*gin.Engine, *config.Config, *WSHandler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	files := map[string]string{
		"guide.md":     guide,
		"sub/intro.md": "Intro text.",
		"skip.txt":     "not markdown",
	}
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}

	cfg := config.DefaultConfig()
	cfg.Folders = []config.Folder{{Path: dir, Alias: "test"}}

	ws := NewWSHandler(cfg)
	r := gin.New()
	Register(r, cfg, ws)
	return r, cfg, ws
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestGetTree(t *testing.T) {
	r, _, _ := setupServer(t)

	w := get(r, "/api/tree")
	require.Equal(t, http.StatusOK, w.Code)

	var root TreeNode
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &root))
	assert.Equal(t, "test", root.Name)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "sub", root.Children[0].Name, "directories sort first")
	assert.Equal(t, "directory", root.Children[0].Type)
	assert.Equal(t, "test/sub/intro.md", root.Children[0].Children[0].Path)
	assert.Equal(t, "test/guide.md", root.Children[1].Path)
}

func TestGetTreeMultipleFolders(t *testing.T) {
	r, cfg, _ := setupServer(t)
	cfg.Folders = append(cfg.Folders, config.Folder{Path: t.TempDir(), Alias: "empty"})

	w := get(r, "/api/tree")
	require.Equal(t, http.StatusOK, w.Code)

	var root TreeNode
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &root))
	assert.Equal(t, "root", root.Type)
	assert.Len(t, root.Children, 2)
}

func TestBuildTree(t *testing.T) {
	root := buildTree([]string{"b.md", "a/z.md", "a/b/c.md", "A.md"}, 3, "docs")

	require.Len(t, root.Children, 3)
	assert.Equal(t, "a", root.Children[0].Name)
	assert.Equal(t, "A.md", root.Children[1].Name)
	assert.Equal(t, "b", root.Children[0].Children[0].Name)
	assert.Equal(t, "docs/a/b/c.md", root.Children[0].Children[0].Children[0].Path)
	assert.Equal(t, 3, root.Children[2].FolderID)
}

func TestGetDoc(t *testing.T) {
	r, _, _ := setupServer(t)

	w := get(r, "/api/docs/test/guide.md")
	require.Equal(t, http.StatusOK, w.Code)

	var resp DocResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "test/guide.md", resp.Path)
	assert.Equal(t, "User Guide", resp.Meta.Title)
	assert.Equal(t, "Ada", resp.Meta.Author)
	assert.Len(t, resp.Meta.Outline, 3)
	assert.False(t, resp.ModTime.IsZero())
	assert.Contains(t, resp.HTML, `class="doc-toc"`)
	assert.NotContains(t, resp.HTML, "WebSocket")
}

func TestGetDocFallbackTitle(t *testing.T) {
	r, _, _ := setupServer(t)

	w := get(r, "/api/docs/test/sub/intro.md")
	require.Equal(t, http.StatusOK, w.Code)

	var resp DocResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "intro", resp.Meta.Title)
}

func TestView(t *testing.T) {
	r, _, _ := setupServer(t)

	w := get(r, "/view/test/guide.md")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "<!DOCTYPE html>"))
	assert.Contains(t, w.Body.String(), `"/api/ws?path=test%2Fguide.md"`)

	dark := get(r, "/view/test/guide.md?style=midnight")
	require.Equal(t, http.StatusOK, dark.Code)
	assert.Contains(t, dark.Body.String(), "--bg: #0d1117;")

	accent := get(r, "/view/test/guide.md?accent=%23123456")
	require.Equal(t, http.StatusOK, accent.Code)
	assert.Contains(t, accent.Body.String(), "--link: #123456;")
}

func TestViewErrors(t *testing.T) {
	r, _, _ := setupServer(t)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"unknown style", "/view/test/guide.md?style=baroque", http.StatusBadRequest},
		{"bad accent", "/view/test/guide.md?accent=red", http.StatusBadRequest},
		{"missing document", "/view/test/missing.md", http.StatusNotFound},
		{"unknown folder", "/view/nope/guide.md", http.StatusNotFound},
		{"folder only", "/view/test", http.StatusNotFound},
		{"traversal", "/view/test/../secret.md", http.StatusForbidden},
		{"json traversal", "/api/docs/test/sub/../../x.md", http.StatusForbidden},
		{"raw missing", "/api/raw/test/missing.md", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.target)
			assert.Equal(t, tt.status, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestGetRaw(t *testing.T) {
	r, _, _ := setupServer(t)

	w := get(r, "/api/raw/test/guide.md")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, guide, w.Body.String())
}

func TestServesOnlyListedDocuments(t *testing.T) {
	r, cfg, _ := setupServer(t)
	cfg.Folders[0].Exclude = []string{"sub"}

	for _, target := range []string{
		"/api/raw/test/skip.txt",
		"/view/test/skip.txt",
		"/api/docs/test/skip.txt",
		"/api/raw/test/sub/intro.md",
		"/view/test/sub/intro.md",
	} {
		t.Run(target, func(t *testing.T) {
			w := get(r, target)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.NotContains(t, w.Body.String(), "not markdown")
			assert.NotContains(t, w.Body.String(), "Intro text.")
		})
	}

	assert.Equal(t, http.StatusOK, get(r, "/api/raw/test/guide.md").Code)
}

func TestGlobalExcludesApplyToDocuments(t *testing.T) {
	r, cfg, _ := setupServer(t)
	cfg.Exclude = append(cfg.Exclude, "guide.md")

	assert.Equal(t, http.StatusNotFound, get(r, "/view/test/guide.md").Code)
	assert.Equal(t, http.StatusOK, get(r, "/view/test/sub/intro.md").Code)
}

func TestGetStyles(t *testing.T) {
	r, _, _ := setupServer(t)

	w := get(r, "/api/styles")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Default string      `json:"default"`
		Styles  []StyleInfo `json:"styles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "editorial", resp.Default)
	require.Len(t, resp.Styles, 5)
	assert.Equal(t, "midnight", resp.Styles[4].Name)
}

func TestRegisterWithoutLiveReload(t *testing.T) {
	_, cfg, _ := setupServer(t)
	r := gin.New()
	Register(r, cfg, nil)

	assert.Equal(t, http.StatusNotFound, get(r, "/api/ws").Code)
	assert.NotContains(t, get(r, "/view/test/guide.md").Body.String(), "WebSocket")
}

func TestWebSocketFileChange(t *testing.T) {
	r, _, ws := setupServer(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws?path=test/guide.md"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return ws.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	// Changes to other documents are not delivered to this subscriber.
	ws.OnFileChange(watcher.Event{Type: watcher.EventWrite, FolderID: 0, Rel: "sub/intro.md"})
	ws.OnFileChange(watcher.Event{Type: watcher.EventWrite, FolderID: 0, Rel: "guide.md"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg struct {
		Type    string     `json:"type"`
		Payload FileChange `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "fileChange", msg.Type)
	assert.Equal(t, FileChange{Event: "update", Path: "test/guide.md", FolderID: 0}, msg.Payload)
}
