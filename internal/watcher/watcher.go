// Package watcher monitors document folders and reports markdown changes via callbacks.
package watcher

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/CageChen/docforge/internal/config"
)

// EventType represents the type of file system event
type EventType int

// File system event types.
const (
	EventCreate EventType = iota
	EventWrite
	EventRemove
	EventRename
)

var eventNames = [...]string{"create", "write", "remove", "rename"}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// MarshalText encodes the event type by name.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Event represents a change to a markdown document
type Event struct {
	Type     EventType `json:"type"`
	Path     string    `json:"-"`
	FolderID int       `json:"folderId"`
	// Rel is the slash-separated path relative to the folder root.
	Rel string `json:"path"`
}

// Callback is a function called when file changes occur
type Callback func(Event)

// Watcher monitors file system changes in the configured folders
type Watcher struct {
	watcher   *fsnotify.Watcher
	cfg       *config.Config
	callbacks []Callback
	mu        sync.RWMutex
	done      chan struct{}
	stopOnce  sync.Once
}

// New creates a new file system watcher
func New(cfg *config.Config) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher: w,
		cfg:     cfg,
		done:    make(chan struct{}),
	}, nil
}

// OnChange registers a callback for file change events
func (w *Watcher) OnChange(cb Callback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Start begins watching all local folders. Folders backed by a git ref are
// skipped since they read from the object database.
func (w *Watcher) Start() error {
	for i, folder := range w.cfg.Folders {
		if folder.GitRef != "" {
			continue
		}
		filter := w.cfg.Filter(folder)
		err := filepath.WalkDir(folder.Path, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if rel := w.rel(i, path); rel != "." && filter.Excluded(rel) {
				return filepath.SkipDir
			}
			if err := w.watcher.Add(path); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("cannot watch directory")
			}
			return nil
		})
		if err != nil {
			log.Warn().Err(err).Str("folder", folder.Path).Msg("failed to walk folder")
		}
	}

	go w.eventLoop()
	return nil
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	folderID := w.folderFor(event.Name)
	if folderID < 0 {
		return
	}
	rel := w.rel(folderID, event.Name)
	filter := w.cfg.Filter(w.cfg.Folders[folderID])
	if filter.Excluded(rel) {
		return
	}

	dir := isDir(event.Name)
	if dir && event.Op.Has(fsnotify.Create) {
		// New directories are watched but not reported.
		if err := w.watcher.Add(event.Name); err != nil {
			log.Warn().Err(err).Str("path", event.Name).Msg("cannot watch directory")
		}
		return
	}
	if dir || !w.cfg.IsMarkdownFile(event.Name) {
		return
	}

	var eventType EventType
	switch {
	case event.Op.Has(fsnotify.Create):
		eventType = EventCreate
	case event.Op.Has(fsnotify.Write):
		eventType = EventWrite
	case event.Op.Has(fsnotify.Remove):
		eventType = EventRemove
	case event.Op.Has(fsnotify.Rename):
		eventType = EventRename
	default:
		return
	}

	e := Event{
		Type:     eventType,
		Path:     event.Name,
		FolderID: folderID,
		Rel:      rel,
	}
	log.Debug().Stringer("type", e.Type).Str("path", e.Path).Msg("document changed")

	w.mu.RLock()
	callbacks := make([]Callback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, cb := range callbacks {
		cb(e)
	}
}

// folderFor returns the index of the local folder containing path, or -1.
func (w *Watcher) folderFor(path string) int {
	best, bestLen := -1, 0
	for i, f := range w.cfg.Folders {
		if f.GitRef != "" {
			continue
		}
		rel, err := filepath.Rel(f.Path, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if len(f.Path) > bestLen {
			best, bestLen = i, len(f.Path)
		}
	}
	return best
}

func (w *Watcher) rel(folderID int, path string) string {
	rel, err := filepath.Rel(w.cfg.Folders[folderID].Path, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
