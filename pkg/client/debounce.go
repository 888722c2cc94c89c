package client

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultDebounce quiet period before a search runs.
const DefaultDebounce = 500 * time.Millisecond

// Debouncer runs the most recently triggered func once no new trigger has
// arrived for the configured delay.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a Debouncer; delay <= 0 means DefaultDebounce.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, replacing anything pending.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Cancel drops the pending func, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// SearchResult outcome of one debounced search.
type SearchResult struct {
	Term string
	Page *Page
	Err  error
}

// SearchSession turns a stream of keystrokes into debounced searches.
// Results of searches superseded by newer input are discarded.
type SearchSession struct {
	client    *Client
	debouncer *Debouncer
	onResult  func(SearchResult)

	mu  sync.Mutex
	seq uint64
}

// NewSearchSession creates a session that reports through onResult.
func NewSearchSession(c *Client, delay time.Duration, onResult func(SearchResult)) *SearchSession {
	return &SearchSession{
		client:    c,
		debouncer: NewDebouncer(delay),
		onResult:  onResult,
	}
}

// Input records the current search box text. Blank input clears the results
// immediately and cancels any pending search.
func (s *SearchSession) Input(ctx context.Context, term string) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	if strings.TrimSpace(term) == "" {
		s.debouncer.Cancel()
		s.onResult(SearchResult{Term: term, Page: &Page{Data: []Agremiado{}, Page: 1, Limit: SearchLimit}})
		return
	}

	s.debouncer.Trigger(func() {
		p, err := s.client.Search(ctx, term, 1)

		s.mu.Lock()
		stale := seq != s.seq
		s.mu.Unlock()
		if stale {
			return
		}
		s.onResult(SearchResult{Term: term, Page: p, Err: err})
	})
}

// Close cancels any pending search.
func (s *SearchSession) Close() {
	s.mu.Lock()
	s.seq++
	s.mu.Unlock()
	s.debouncer.Cancel()
}
