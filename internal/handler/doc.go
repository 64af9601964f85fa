package handler

import (
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CageChen/docforge/internal/compiler"
	"github.com/CageChen/docforge/internal/config"
	"github.com/CageChen/docforge/internal/style"
)

// DocResponse is the JSON form of a compiled document
type DocResponse struct {
	Path     string            `json:"path"`
	ModTime  time.Time         `json:"modTime"`
	FolderID int               `json:"folderId"`
	Meta     compiler.Metadata `json:"meta"`
	HTML     string            `json:"html"`
}

// StyleInfo describes a preset for the styles endpoint
type StyleInfo struct {
	Name       string `json:"name"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
	CodeTheme  string `json:"codeTheme"`
}

// DocHandler compiles documents on request
type DocHandler struct {
	cfg *config.Config
	// wsPath enables live reload in viewed documents when set.
	wsPath string
}

// NewDocHandler creates a new document handler. wsPath is the websocket
// route injected into viewed documents for live reload, or "" to disable it.
func NewDocHandler(cfg *config.Config, wsPath string) *DocHandler {
	return &DocHandler{cfg: cfg, wsPath: wsPath}
}

// compile reads and compiles the document named by the request path, honoring
// ?style= and ?accent= overrides.
func (h *DocHandler) compile(c *gin.Context, liveReload bool) (docRef, time.Time, *compiler.Result, error) {
	ref, err := resolvePath(h.cfg, c.Param("path"))
	if err != nil {
		return docRef{}, time.Time{}, nil, err
	}

	s, err := style.Lookup(c.DefaultQuery("style", h.cfg.Style), c.DefaultQuery("accent", h.cfg.Accent))
	if err != nil {
		return docRef{}, time.Time{}, nil, err
	}

	content, err := ref.src.Read(ref.rel)
	if err != nil {
		return docRef{}, time.Time{}, nil, err
	}
	modTime, err := ref.src.ModTime(ref.rel)
	if err != nil {
		return docRef{}, time.Time{}, nil, err
	}

	opts := compiler.Options{
		Style:           s,
		FallbackTitle:   strings.TrimSuffix(path.Base(ref.rel), path.Ext(ref.rel)),
		ServerHighlight: h.cfg.ServerHighlight,
	}
	if liveReload && h.wsPath != "" {
		opts.LiveReload = h.wsPath + "?path=" + url.QueryEscape(ref.Path())
	}
	return ref, modTime, compiler.Compile(string(content), opts), nil
}

// GetDoc returns the compiled document and its metadata as JSON
func (h *DocHandler) GetDoc(c *gin.Context) {
	ref, modTime, res, err := h.compile(c, false)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, DocResponse{
		Path:     ref.Path(),
		ModTime:  modTime,
		FolderID: ref.folderID,
		Meta:     res.Meta,
		HTML:     res.HTML,
	})
}

// View serves the compiled standalone page
func (h *DocHandler) View(c *gin.Context) {
	_, _, res, err := h.compile(c, true)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(res.HTML))
}

// GetRaw returns the raw markdown content
func (h *DocHandler) GetRaw(c *gin.Context) {
	ref, err := resolvePath(h.cfg, c.Param("path"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	content, err := ref.src.Read(ref.rel)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/markdown; charset=utf-8", content)
}

// GetStyles lists the style presets
func (h *DocHandler) GetStyles(c *gin.Context) {
	presets := style.Presets()
	styles := make([]StyleInfo, 0, len(presets))
	for _, p := range presets {
		s := p.Style()
		styles = append(styles, StyleInfo{
			Name:       s.Name,
			Accent:     s.Accent,
			Background: s.Background,
			Text:       s.Text,
			CodeTheme:  s.CodeTheme,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"default": h.cfg.Style,
		"styles":  styles,
	})
}
