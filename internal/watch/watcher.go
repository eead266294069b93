// Package watch observes the workspace directory for external edits.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// EventCallback is called for each observed workspace change. kind is one
// of "memory.updated", "note.created", "note.updated", "note.deleted".
type EventCallback func(kind string, path string)

// Run starts an fsnotify watcher on the workspace root and reports file
// change events until ctx is cancelled. The server itself re-reads files
// on every operation, so the watcher is a pure observer feeding the SSE
// stream; it never mutates state.
//
// memoryFile and notesDir are relative to root. New directories created
// at runtime are added to the watch list.
func Run(ctx context.Context, root, memoryFile, notesDir string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	if err := addDirsRecursive(w, absRoot); err != nil {
		return err
	}

	absMemory := filepath.Join(absRoot, memoryFile)
	absNotes := filepath.Join(absRoot, notesDir)

	logger.Info("watcher: started", slog.String("root", absRoot))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					continue
				}
			}

			kind := classify(ev, absMemory, absNotes)
			if kind == "" {
				continue
			}
			rel, relErr := filepath.Rel(absRoot, ev.Name)
			if relErr != nil {
				continue
			}
			logger.Debug("watcher: change", slog.String("kind", kind), slog.String("path", rel))
			if cb != nil {
				cb(kind, rel)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// classify maps an fsnotify event to a workspace event kind, or "" when
// the path is neither the memory file nor a note document.
func classify(ev fsnotify.Event, absMemory, absNotes string) string {
	if ev.Name == absMemory {
		if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
			return "memory.updated"
		}
		return ""
	}
	if filepath.Dir(ev.Name) != absNotes || filepath.Ext(ev.Name) != ".md" {
		return ""
	}
	switch {
	case ev.Op&fsnotify.Create != 0:
		return "note.created"
	case ev.Op&fsnotify.Write != 0:
		return "note.updated"
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		return "note.deleted"
	}
	return ""
}

// addDirsRecursive adds dir and all subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
}
