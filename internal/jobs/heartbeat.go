package jobs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/toshankanwar/bakery-delivery-backend/internal/metrics"
)

const (
	DefaultHeartbeatDelay    = time.Minute
	DefaultHeartbeatInterval = 12 * time.Minute
	DefaultHeartbeatTimeout  = 10 * time.Second
)

// Heartbeat periodically calls the service's own /ping endpoint so that hosts which
// suspend idle processes keep it warm. Failures are logged and otherwise ignored.
type Heartbeat struct {
	url      string
	delay    time.Duration
	interval time.Duration
	client   *http.Client
	log      *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHeartbeat creates a heartbeat targeting baseURL + "/ping".
func NewHeartbeat(baseURL string, log *zap.Logger) *Heartbeat {
	return &Heartbeat{
		url:      baseURL + "/ping",
		delay:    DefaultHeartbeatDelay,
		interval: DefaultHeartbeatInterval,
		client:   &http.Client{Timeout: DefaultHeartbeatTimeout},
		log:      log,
	}
}

// WithSchedule overrides the initial delay and interval.
func (h *Heartbeat) WithSchedule(delay, interval time.Duration) *Heartbeat {
	h.delay, h.interval = delay, interval
	return h
}

// Running reports whether the heartbeat loop is active.
func (h *Heartbeat) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancel != nil
}

// Start launches the loop. Calling Start on a running heartbeat does nothing, so
// at most one timer exists per Heartbeat.
func (h *Heartbeat) Start(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancel != nil {
		h.log.Info("Self-ping already running")
		return
	}

	ctx, h.cancel = context.WithCancel(ctx)
	h.done = make(chan struct{})

	h.log.Info("🔔 Starting self-ping service",
		zap.String("target", h.url),
		zap.Duration("interval", h.interval))

	go h.run(ctx, h.done)
}

// Stop cancels the loop and waits for it to exit.
func (h *Heartbeat) Stop() {
	h.mu.Lock()
	cancel, done := h.cancel, h.done
	h.cancel, h.done = nil, nil
	h.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	h.log.Info("🛑 Self-ping service stopped")
}

func (h *Heartbeat) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	// both schedules count from start: pings at delay, interval, 2*interval, ...
	first := time.NewTimer(h.delay)
	defer first.Stop()
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	select {
	case <-ctx.Done():
		return
	case <-first.C:
		h.ping(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.ping(ctx)
		}
	}
}

func (h *Heartbeat) ping(ctx context.Context) {
	if err := h.pingOnce(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		metrics.HeartbeatTotal.WithLabelValues("failed").Inc()
		h.log.Warn("❌ Self-ping failed", zap.Error(err))
		return
	}
	metrics.HeartbeatTotal.WithLabelValues("ok").Inc()
	h.log.Info("🏓 Self-ping successful")
}

func (h *Heartbeat) pingOnce(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
