// Package handler provides the HTTP handlers behind docforge serve.
package handler

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/CageChen/docforge/internal/config"
	"github.com/CageChen/docforge/internal/source"
	"github.com/CageChen/docforge/internal/style"
)

// docRef locates a document inside one of the configured folders.
type docRef struct {
	src      source.Source
	folderID int
	alias    string
	rel      string
}

// Path returns the alias-prefixed path used in URLs.
func (d docRef) Path() string {
	return d.alias + "/" + d.rel
}

// resolvePath resolves "{alias}/{relativePath}" to its folder source.
func resolvePath(cfg *config.Config, p string) (docRef, error) {
	p = strings.TrimPrefix(p, "/")
	for _, part := range strings.Split(p, "/") {
		if part == ".." {
			return docRef{}, source.ErrInvalidPath
		}
	}

	alias, rel, _ := strings.Cut(p, "/")
	if alias == "" || rel == "" {
		return docRef{}, os.ErrNotExist
	}

	for i, f := range cfg.Folders {
		if f.Alias != alias {
			continue
		}
		// Only documents the tree would list are served.
		if !cfg.Filter(f).Match(rel) {
			return docRef{}, os.ErrNotExist
		}
		return docRef{src: cfg.Source(f), folderID: i, alias: alias, rel: rel}, nil
	}
	return docRef{}, os.ErrNotExist
}

// abortWithError maps errors to status codes and writes a JSON error body.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := err.Error()
	switch {
	case errors.Is(err, source.ErrInvalidPath), errors.Is(err, os.ErrPermission):
		status, msg = http.StatusForbidden, "invalid path"
	case errors.Is(err, os.ErrNotExist):
		status, msg = http.StatusNotFound, "file not found"
	case errors.Is(err, style.ErrStyleNotFound), errors.Is(err, style.ErrInvalidAccent):
		status = http.StatusBadRequest
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
