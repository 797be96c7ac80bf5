// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package watch rechecks files as they change and publishes the results.
//
// A Watcher turns fsnotify events into debounced batches. Service runs
// one check per changed, supported file, prints it in plain mode, keeps
// the latest result per file, and broadcasts it to any /events
// subscribers. A change that arrives too soon after the previous check of
// the same file is checked once the interval has passed, so the final
// state of every file is always reported. NewRouter exposes those
// results over HTTP.
package watch

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/AleutianAI/langcheck/pkg/logging"
	"github.com/AleutianAI/langcheck/pkg/ux"
	"github.com/AleutianAI/langcheck/services/lint/engine"
	"github.com/AleutianAI/langcheck/services/lint/registry"
	"github.com/AleutianAI/langcheck/services/lint/report"
)

// DefaultRecheckInterval is the minimum spacing between two checks of
// the same file.
const DefaultRecheckInterval = time.Second

// Checker runs one check. *engine.Engine satisfies it.
type Checker interface {
	Check(ctx context.Context, file, projectRoot string, settings engine.Settings) *engine.CheckResult
	Registry() *registry.Registry
}

// Publisher receives every completed result.
type Publisher interface {
	Publish(res *engine.CheckResult)
}

// ServiceOptions configures a Service. Zero values take defaults.
type ServiceOptions struct {
	// Root is the project root passed to every check.
	Root string

	// Settings is consulted before each batch so toggles apply without
	// a restart. Nil means everything is enabled.
	Settings func() engine.Settings

	// Output receives plain reports. Nil disables printing.
	Output io.Writer

	// Renderer formats Output. Nil uses an uncolored renderer.
	Renderer *report.Plain

	// RecheckInterval is the minimum spacing between two checks of one
	// file. Changes inside it are coalesced into one trailing check.
	RecheckInterval time.Duration

	Publisher Publisher
	Logger    *logging.Logger
}

// Service owns the latest result per file.
//
// Thread Safety: all methods are safe for concurrent use. Checks are
// serialized, whether they come from HandleChanges or a trailing timer.
type Service struct {
	checker  Checker
	opts     ServiceOptions
	logger   *logging.Logger
	renderer *report.Plain

	checkMu sync.Mutex

	schedMu  sync.Mutex
	limiters map[string]*rate.Limiter
	pending  map[string]*time.Timer
	closed   bool
	inflight sync.WaitGroup

	mu      sync.RWMutex
	results map[string]*engine.CheckResult
}

// NewService creates a Service around checker.
func NewService(checker Checker, opts ServiceOptions) *Service {
	if opts.RecheckInterval <= 0 {
		opts.RecheckInterval = DefaultRecheckInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = report.NewPlain(ux.NewTheme(false))
	}
	return &Service{
		checker:  checker,
		opts:     opts,
		logger:   logger,
		renderer: renderer,
		limiters: make(map[string]*rate.Limiter),
		pending:  make(map[string]*time.Timer),
		results:  make(map[string]*engine.CheckResult),
	}
}

// HandleChanges checks each supported file in the batch, in order.
// It is the Watcher's ChangeHandler.
func (s *Service) HandleChanges(ctx context.Context, changes []Change) {
	settings := s.settings()

	for _, change := range changes {
		if ctx.Err() != nil {
			return
		}
		if _, ok := s.checker.Registry().Resolve(change.Path); !ok {
			continue
		}
		delay, ok := s.reserve(change.Path)
		if !ok {
			s.logger.Debug("recheck already scheduled", "file", change.Path)
			continue
		}
		if delay > 0 {
			s.scheduleCheck(ctx, change.Path, delay)
			continue
		}
		s.CheckFile(ctx, change.Path, settings)
	}
}

// Close cancels scheduled rechecks and waits for any that already started.
func (s *Service) Close() {
	s.schedMu.Lock()
	s.closed = true
	for path, t := range s.pending {
		if t.Stop() {
			s.inflight.Done()
		}
		delete(s.pending, path)
	}
	s.schedMu.Unlock()
	s.inflight.Wait()
}

// Pending reports how many files have a trailing recheck scheduled.
func (s *Service) Pending() int {
	s.schedMu.Lock()
	defer s.schedMu.Unlock()
	return len(s.pending)
}

func (s *Service) settings() engine.Settings {
	if s.opts.Settings == nil {
		return engine.Settings{}
	}
	return s.opts.Settings()
}

// reserve takes the next check slot for path and returns how long to wait
// for it. ok is false when a trailing check is already scheduled or the
// service is closed.
func (s *Service) reserve(path string) (time.Duration, bool) {
	s.schedMu.Lock()
	defer s.schedMu.Unlock()

	if s.closed {
		return 0, false
	}
	if _, ok := s.pending[path]; ok {
		return 0, false
	}
	lim, ok := s.limiters[path]
	if !ok {
		lim = rate.NewLimiter(rate.Every(s.opts.RecheckInterval), 1)
		s.limiters[path] = lim
	}
	return lim.Reserve().Delay(), true
}

// scheduleCheck runs a check of path after delay. Settings are read when
// the timer fires.
func (s *Service) scheduleCheck(ctx context.Context, path string, delay time.Duration) {
	s.schedMu.Lock()
	defer s.schedMu.Unlock()
	if s.closed {
		return
	}

	s.inflight.Add(1)
	s.pending[path] = time.AfterFunc(delay, func() {
		defer s.inflight.Done()

		s.schedMu.Lock()
		delete(s.pending, path)
		closed := s.closed
		s.schedMu.Unlock()

		if closed || ctx.Err() != nil {
			return
		}
		s.CheckFile(ctx, path, s.settings())
	})
	s.logger.Debug("recheck deferred", "file", path, "delay", delay)
}

// CheckFile runs one check and records, prints and publishes it.
func (s *Service) CheckFile(ctx context.Context, path string, settings engine.Settings) *engine.CheckResult {
	s.checkMu.Lock()
	defer s.checkMu.Unlock()

	res := s.checker.Check(ctx, path, s.opts.Root, settings)
	if res.Status == engine.StatusUnsupported {
		return res
	}

	s.mu.Lock()
	s.results[path] = res
	s.mu.Unlock()

	if s.opts.Output != nil {
		if _, err := s.renderer.Write(s.opts.Output, res); err != nil {
			s.logger.Warn("write report failed", "error", err)
		}
	}
	if s.opts.Publisher != nil {
		s.opts.Publisher.Publish(res)
	}

	s.logger.Debug("rechecked",
		"file", path,
		"status", string(res.Status),
		"diagnostics", len(res.Diagnostics),
	)
	return res
}

// Latest returns the most recent result for path.
func (s *Service) Latest(path string) (*engine.CheckResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.results[path]
	return res, ok
}

// Results returns the latest result per file, sorted by path.
func (s *Service) Results() []*engine.CheckResult {
	s.mu.RLock()
	out := make([]*engine.CheckResult, 0, len(s.results))
	for _, res := range s.results {
		out = append(out, res)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].File < out[j].File })
	return out
}
