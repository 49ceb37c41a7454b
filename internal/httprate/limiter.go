package httprate

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/topi314/statusdemo/internal/ezhttp"
)

// KeyFunc maps a request to the bucket it is counted in.
type KeyFunc func(r *http.Request) string

// NewRateLimiter creates a fixed window limiter allowing limit requests per key and window.
// Expired windows are dropped in the background until ctx is done.
func NewRateLimiter(ctx context.Context, limit int, length time.Duration, key KeyFunc, onLimit http.HandlerFunc) *RateLimiter {
	w := newWindows(limit, length)
	go w.sweepLoop(ctx)

	return &RateLimiter{
		windows: w,
		key:     key,
		onLimit: onLimit,
		now:     time.Now,
	}
}

type RateLimiter struct {
	windows *windows
	key     KeyFunc
	onLimit http.HandlerFunc
	now     func() time.Time
}

func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := l.now()
		allowed, left, reset := l.windows.take(l.key(r), now)

		h := w.Header()
		h.Set(ezhttp.HeaderRateLimitLimit, strconv.Itoa(l.windows.limit))
		h.Set(ezhttp.HeaderRateLimitRemaining, strconv.Itoa(left))
		h.Set(ezhttp.HeaderRateLimitReset, strconv.FormatInt(reset.Unix(), 10))
		if allowed {
			next.ServeHTTP(w, r)
			return
		}

		h.Set(ezhttp.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(reset.Sub(now).Seconds()))))
		l.onLimit(w, r)
	})
}

// KeyByIP keys a request by its client address. IPv6 clients share their /64 network.
func KeyByIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return host
	}
	if ip.To4() != nil {
		return ip.String()
	}
	return ip.Mask(net.CIDRMask(64, 128)).String()
}
