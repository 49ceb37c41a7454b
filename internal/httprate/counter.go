package httprate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

const sweepInterval = 10 * time.Second

// window is the budget of one key inside the current fixed window.
type window struct {
	left  int
	reset time.Time
}

// windows tracks a fixed window per hashed key.
type windows struct {
	mu     sync.Mutex
	limit  int
	length time.Duration
	byKey  map[uint64]*window
}

func newWindows(limit int, length time.Duration) *windows {
	return &windows{
		limit:  limit,
		length: length,
		byKey:  make(map[uint64]*window),
	}
}

// take spends one request of key's budget. It reports whether the request is allowed,
// the requests left in the window and when the window resets.
func (w *windows) take(key string, now time.Time) (bool, int, time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	h := xxhash.Sum64String(key)
	win, ok := w.byKey[h]
	if !ok || now.After(win.reset) {
		win = &window{left: w.limit, reset: now.Add(w.length)}
		w.byKey[h] = win
	}

	if win.left == 0 {
		return false, 0, win.reset
	}
	win.left--
	return true, win.left, win.reset
}

// sweepLoop drops expired windows until ctx is done.
func (w *windows) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			w.sweep(now)
		}
	}
}

func (w *windows) sweep(now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	var expired int
	for h, win := range w.byKey {
		if now.After(win.reset) {
			delete(w.byKey, h)
			expired++
		}
	}
	if expired > 0 {
		slog.Debug("dropped expired rate limit windows", slog.Int("count", expired), slog.Int("active", len(w.byKey)))
	}
	return expired
}
