package search

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultDebounce is how long a session waits before running the content pass
const DefaultDebounce = 300 * time.Millisecond

// Session runs the two-pass search for a stream of queries from one user.
// Every Run takes a ticket; a content pass is delivered only if no newer Run has started,
// so a slow result for an old query never replaces a newer one.
type Session struct {
	searcher *Searcher
	debounce time.Duration
	latest   atomic.Uint64
}

// NewSession creates a session. A non-positive debounce uses DefaultDebounce.
func NewSession(s *Searcher, debounce time.Duration) *Session {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Session{searcher: s, debounce: debounce}
}

// Run returns the synchronous results for query straight away. After the debounce it runs
// the content pass in the background and calls deliver with its results, unless a newer
// Run was issued or ctx ended first. deliver is called at most once.
func (s *Session) Run(ctx context.Context, query string, opts Options, deliver func([]Result)) []Result {
	ticket := s.latest.Add(1)
	results := s.searcher.Search(query, opts)

	go func() {
		timer := time.NewTimer(s.debounce)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		if !s.current(ticket) {
			return
		}

		refined := s.searcher.SearchContent(ctx, query, opts)
		if ctx.Err() != nil || !s.current(ticket) {
			return
		}
		deliver(refined)
	}()

	return results
}

func (s *Session) current(ticket uint64) bool {
	return s.latest.Load() == ticket
}
