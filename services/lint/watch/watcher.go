// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/AleutianAI/langcheck/pkg/logging"
)

// DefaultDebounce is the quiet period after the last event for a file
// before it is rechecked.
const DefaultDebounce = 300 * time.Millisecond

// Change is a coalesced file event.
type Change struct {
	Path string
	Op   fsnotify.Op
	Time time.Time
}

// ChangeHandler receives debounced batches, one entry per path, in the
// order each path was first seen.
type ChangeHandler func(ctx context.Context, changes []Change)

// skippedDirs are never descended into.
var skippedDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	"__pycache__":  true,
}

// Watcher recursively watches a directory tree and delivers debounced
// Write and Create events for regular files.
//
// Thread Safety: The handler runs on a single goroutine, so batches are
// never delivered concurrently.
type Watcher struct {
	root     string
	fs       *fsnotify.Watcher
	handler  ChangeHandler
	debounce time.Duration
	logger   *logging.Logger

	changes  chan Change
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once

	mu       sync.Mutex
	watching bool
}

// NewWatcher creates a watcher for root. Start begins delivery.
func NewWatcher(root string, debounce time.Duration, handler ChangeHandler, logger *logging.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Watcher{
		root:     root,
		fs:       fw,
		handler:  handler,
		debounce: debounce,
		logger:   logger,
		changes:  make(chan Change, 1024),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// Start registers the tree and spawns the event and debounce loops.
// Both exit when ctx is canceled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return nil
	}
	w.watching = true
	w.mu.Unlock()

	if err := w.addRecursive(w.root); err != nil {
		return err
	}

	go w.processEvents(ctx)
	go w.debounceLoop(ctx)
	return nil
}

// Stop closes the underlying watcher. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fs.Close()

		w.mu.Lock()
		w.watching = false
		w.mu.Unlock()
	})
}

// Done is closed once the debounce loop has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.stopped
}

// WatchedDirs returns the directories currently registered.
func (w *Watcher) WatchedDirs() []string {
	return w.fs.WatchList()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || skippedDirs[name]
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) && !skipDir(info.Name()) {
			if err := w.addRecursive(event.Name); err != nil {
				w.logger.Debug("watch add failed", "dir", event.Name, "error", err)
			}
		}
		return
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}

	select {
	case w.changes <- Change{Path: event.Name, Op: event.Op, Time: time.Now()}:
	default:
		w.logger.Warn("watch buffer full, dropping event", "path", event.Name)
	}
}

// debounceLoop collects changes until the window passes with no new
// event, then hands the batch to the handler. Pending changes are
// dropped on shutdown.
func (w *Watcher) debounceLoop(ctx context.Context) {
	defer close(w.stopped)

	var batch []Change
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-w.done:
			timer.Stop()
			return
		case change := <-w.changes:
			batch = append(batch, change)
			timer.Reset(w.debounce)
		case <-timer.C:
			if len(batch) == 0 {
				continue
			}
			deduped := coalesce(batch)
			batch = batch[:0]
			if w.handler != nil {
				w.handler(ctx, deduped)
			}
		}
	}
}

// coalesce keeps one change per path: the latest, at the position the
// path first appeared.
func coalesce(changes []Change) []Change {
	seen := make(map[string]int, len(changes))
	out := make([]Change, 0, len(changes))
	for _, c := range changes {
		if idx, ok := seen[c.Path]; ok {
			out[idx] = c
			continue
		}
		seen[c.Path] = len(out)
		out = append(out, c)
	}
	return out
}
