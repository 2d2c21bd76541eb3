package adminclient

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/toshankanwar/bakery-delivery-backend/internal/models"
)

type countingSource struct {
	mu     sync.Mutex
	calls  int
	orders []*models.Order
	err    error
}

func (c *countingSource) OrdersByDeliveryDate(context.Context, string) ([]*models.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.orders, c.err
}

func (c *countingSource) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type recorder struct {
	mu      sync.Mutex
	results []Result
}

func (r *recorder) add(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

func (r *recorder) searches() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.results))
	for _, res := range r.results {
		out = append(out, res.Search)
	}
	return out
}

const testDebounce = 30 * time.Millisecond

func newSession(src *countingSource) (*SearchSession, *recorder) {
	rec := &recorder{}
	s := NewSearchSession(context.Background(), NewLister(src), testDebounce, rec.add)
	return s, rec
}

func TestSearchSession_NoFetchBeforeInteraction(t *testing.T) {
	src := &countingSource{}
	s, _ := newSession(src)
	defer s.Close()

	s.Load()
	assert.Equal(t, 1, src.count())

	time.Sleep(3 * testDebounce)
	assert.Equal(t, 1, src.count())
}

func TestSearchSession_DebouncesKeystrokeBurst(t *testing.T) {
	src := &countingSource{orders: sampleOrders()}
	s, rec := newSession(src)
	defer s.Close()

	for _, text := range []string{"c", "ca", "cak", "cake"} {
		s.SetText(text)
		time.Sleep(testDebounce / 3)
	}

	assert.Eventually(t, func() bool { return src.count() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testDebounce)
	assert.Equal(t, 1, src.count())
	assert.Equal(t, []string{"cake"}, rec.searches())
	assert.Equal(t, []string{"b"}, ids(s.Orders()))
}

func TestSearchSession_FocusSchedulesOnce(t *testing.T) {
	src := &countingSource{}
	s, rec := newSession(src)
	defer s.Close()

	s.Focus()
	s.Focus()
	assert.Eventually(t, func() bool { return src.count() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testDebounce)
	assert.Equal(t, 1, src.count())
	assert.Equal(t, []string{""}, rec.searches())
}

func TestSearchSession_RefreshUsesCurrentText(t *testing.T) {
	src := &countingSource{orders: sampleOrders()}
	s, rec := newSession(src)
	defer s.Close()

	s.SetText("asha")
	s.Refresh()
	assert.Equal(t, []string{"asha"}, rec.searches())
	assert.Equal(t, []string{"a"}, ids(s.Orders()))
	assert.False(t, s.Loading())
}

func TestSearchSession_ErrorKeepsPreviousList(t *testing.T) {
	src := &countingSource{orders: sampleOrders()}
	s, rec := newSession(src)
	defer s.Close()

	s.Load()
	assert.Len(t, s.Orders(), 3)

	src.mu.Lock()
	src.err = errors.New("offline")
	src.mu.Unlock()

	s.Refresh()
	assert.Len(t, s.Orders(), 3)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Error(t, rec.results[len(rec.results)-1].Err)
}

func TestSearchSession_CloseCancelsPending(t *testing.T) {
	src := &countingSource{}
	s, _ := newSession(src)

	s.SetText("x")
	s.Close()
	time.Sleep(3 * testDebounce)
	assert.Equal(t, 0, src.count())
}
