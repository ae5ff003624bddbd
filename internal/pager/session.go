// Package pager keeps a document, the page cursor, and the rendered
// artifact cache consistent with each other while the file underneath
// is edited, rebuilt, or replaced.
package pager

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNoPages is returned by CurrentArtifact when the document is empty.
var ErrNoPages = errors.New("document has no pages")

// Source is the document a session pages through. *document.Handle
// implements it.
type Source interface {
	Path() string
	Generation() uint64
	PageCount() int
	Page(index int) (string, error)
	Reopen() error
}

// Renderer prepares raw page text for display.
type Renderer interface {
	Render(index int, raw string) Artifact
}

// Artifact is a display-ready page. Text is normalized but not wrapped
// to any width, so artifacts survive terminal resizes and only reloads
// invalidate them.
type Artifact struct {
	Index int
	Text  string
}

// Session binds a source, its cursor, and the artifact cache behind one
// lock so navigation and reloads never interleave.
type Session struct {
	mu     sync.Mutex
	src    Source
	render Renderer
	cursor Cursor
	cache  *Cache
}

// NewSession starts a session on the first page of src.
func NewSession(src Source, render Renderer) *Session {
	return &Session{
		src:    src,
		render: render,
		cursor: NewCursor(src.PageCount()),
		cache:  NewCache(src.Generation()),
	}
}

// Status describes the session after an operation, ready for display.
type Status struct {
	Current    int
	Total      int
	IsFirst    bool
	IsLast     bool
	Label      string
	Path       string
	Generation uint64
}

// Next advances one page.
func (s *Session) Next() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = s.cursor.Next()
	return s.status()
}

// Previous steps back one page.
func (s *Session) Previous() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = s.cursor.Previous()
	return s.status()
}

// Start jumps to the first page.
func (s *Session) Start() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = s.cursor.Start()
	return s.status()
}

// End jumps to the final page.
func (s *Session) End() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = s.cursor.End()
	return s.status()
}

// Goto selects page index. An out-of-range index leaves the session on
// its current page.
func (s *Session) Goto(index int) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = s.cursor.Goto(index)
	return s.status()
}

// Status reports the current position without moving it.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status()
}

// CurrentArtifact returns the rendered current page, extracting and
// caching it on first use. Extraction failures are returned and not
// cached, so a later call retries.
func (s *Session) CurrentArtifact() (Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor.Total == 0 {
		return Artifact{}, ErrNoPages
	}
	gen := s.src.Generation()
	if a, ok := s.cache.Get(gen, s.cursor.Current); ok {
		return a, nil
	}
	raw, err := s.src.Page(s.cursor.Current)
	if err != nil {
		return Artifact{}, fmt.Errorf("extract page %d: %w", s.cursor.Current+1, err)
	}
	a := s.render.Render(s.cursor.Current, raw)
	s.cache.Put(gen, a)
	return a, nil
}

// ReloadResult reports a completed reload: where the cursor was, where
// clamping put it, and the generation now live.
type ReloadResult struct {
	Previous   Cursor
	Cursor     Cursor
	Generation uint64
}

// Reload reopens the source and reconciles cursor and cache with the
// new incarnation. On failure the session is left exactly as it was.
func (s *Session) Reload() (ReloadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.cursor
	if err := s.src.Reopen(); err != nil {
		return ReloadResult{Previous: prev, Cursor: prev, Generation: s.src.Generation()}, err
	}

	// The cache adopts the new generation before the cursor resizes; a
	// clamped cursor must never see artifacts from the prior incarnation.
	gen := s.src.Generation()
	s.cache.Reset(gen)
	s.cursor = s.cursor.Resize(s.src.PageCount())

	return ReloadResult{Previous: prev, Cursor: s.cursor, Generation: gen}, nil
}

// CacheStats snapshots the artifact cache counters.
func (s *Session) CacheStats() CacheStats {
	return s.cache.Stats()
}

func (s *Session) status() Status {
	label := "no pages"
	if s.cursor.Total > 0 {
		label = fmt.Sprintf("page %d / %d", s.cursor.Current+1, s.cursor.Total)
	}
	return Status{
		Current:    s.cursor.Current,
		Total:      s.cursor.Total,
		IsFirst:    s.cursor.IsFirst(),
		IsLast:     s.cursor.IsLast(),
		Label:      label,
		Path:       s.src.Path(),
		Generation: s.src.Generation(),
	}
}
