package adminclient

import (
	"context"
	"sync"
	"time"

	"github.com/toshankanwar/bakery-delivery-backend/internal/models"
)

// DefaultDebounce is how long the search text must stay unchanged before a fetch runs.
const DefaultDebounce = 500 * time.Millisecond

// Result is the outcome of one fetch.
type Result struct {
	Search string
	Orders []*models.Order
	Err    error
}

// SearchSession drives the order list the way the admin screen does: an initial load,
// pull-to-refresh, and a debounced fetch whenever the search text changes. Debounced
// fetches only start once the operator has focused or typed in the search field.
//
// A fetch that is already running is never cancelled; when fetches overlap the one that
// completes last determines Orders.
type SearchSession struct {
	ctx      context.Context
	lister   *Lister
	debounce time.Duration
	onResult func(Result)

	mu      sync.Mutex
	text    string
	ready   bool
	timer   *time.Timer
	orders  []*models.Order
	loading int
	closed  bool
}

// NewSearchSession creates a session. onResult, if non-nil, is called after every fetch,
// from the fetching goroutine.
func NewSearchSession(ctx context.Context, lister *Lister, debounce time.Duration, onResult func(Result)) *SearchSession {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &SearchSession{
		ctx:      ctx,
		lister:   lister,
		debounce: debounce,
		onResult: onResult,
	}
}

// Load performs the initial unfiltered fetch.
func (s *SearchSession) Load() {
	s.fetch("")
}

// Refresh re-fetches immediately with the current search text.
func (s *SearchSession) Refresh() {
	s.mu.Lock()
	text := s.text
	s.mu.Unlock()
	s.fetch(text)
}

// Focus marks the search field as used. The first call schedules a debounced fetch.
func (s *SearchSession) Focus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return
	}
	s.ready = true
	s.scheduleLocked()
}

// SetText records new search text and (re)starts the debounce timer.
func (s *SearchSession) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready && text == s.text {
		return
	}
	s.text = text
	s.ready = true
	s.scheduleLocked()
}

// Clear empties the search field.
func (s *SearchSession) Clear() {
	s.SetText("")
}

// Text returns the current search text.
func (s *SearchSession) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Orders returns the most recently completed successful result.
func (s *SearchSession) Orders() []*models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders
}

// Loading reports whether any fetch is in flight.
func (s *SearchSession) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading > 0
}

// Close cancels a pending debounced fetch. Fetches in flight still complete.
func (s *SearchSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *SearchSession) scheduleLocked() {
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	text := s.text
	s.timer = time.AfterFunc(s.debounce, func() {
		s.fetch(text)
	})
}

func (s *SearchSession) fetch(text string) {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()

	orders, err := s.lister.Fetch(s.ctx, text)

	s.mu.Lock()
	s.loading--
	// on failure the previous list stays on screen
	if err == nil {
		s.orders = orders
	}
	s.mu.Unlock()

	if s.onResult != nil {
		s.onResult(Result{Search: text, Orders: orders, Err: err})
	}
}
