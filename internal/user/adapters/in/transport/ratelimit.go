package transport

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"userservice/internal/shared/logger"
)

// DefaultClientIdleTTL — через сколько бездействия клиент забывается
const DefaultClientIdleTTL = 10 * time.Minute

type clientBucket struct {
	tokens   *rate.Limiter
	lastSeen time.Time
}

// ClientRateLimiter держит token bucket на каждого клиента.
// Раз в idleTTL забытые клиенты удаляются, так что память ограничена активными адресами.
type ClientRateLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientBucket
	nextSweep time.Time
}

func NewClientRateLimiter(limit rate.Limit, burst int, idleTTL time.Duration) *ClientRateLimiter {
	if idleTTL <= 0 {
		idleTTL = DefaultClientIdleTTL
	}
	return &ClientRateLimiter{
		limit:   limit,
		burst:   burst,
		idleTTL: idleTTL,
		now:     time.Now,
		clients: make(map[string]*clientBucket),
	}
}

// Allow списывает токен клиента. При отказе возвращает, сколько ждать до следующего токена;
// отказ токен не расходует.
func (l *ClientRateLimiter) Allow(client string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	b, ok := l.clients[client]
	if !ok {
		b = &clientBucket{tokens: rate.NewLimiter(l.limit, l.burst)}
		l.clients[client] = b
	}
	b.lastSeen = now

	res := b.tokens.ReserveN(now, 1)
	if !res.OK() {
		return false, l.idleTTL
	}
	if wait := res.DelayFrom(now); wait > 0 {
		res.CancelAt(now)
		return false, wait
	}
	return true, 0
}

// Len — число отслеживаемых клиентов
func (l *ClientRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *ClientRateLimiter) sweep(now time.Time) {
	if now.Before(l.nextSweep) {
		return
	}
	cutoff := now.Add(-l.idleTTL)
	for k, b := range l.clients {
		if b.lastSeen.Before(cutoff) {
			delete(l.clients, k)
		}
	}
	l.nextSweep = now.Add(l.idleTTL)
}

// RateLimit отвечает 429 с Retry-After, когда клиент исчерпал лимит.
// Клиент определяется по RemoteAddr без порта; middleware.RealIP должен стоять раньше.
func RateLimit(limiter *ClientRateLimiter, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientAddr(r)

			ok, wait := limiter.Allow(client)
			if !ok {
				log.Debug(logger.Entry{
					Action:    "rate_limited",
					Message:   client,
					RequestID: middleware.GetReqID(r.Context()),
					Additional: map[string]any{
						"client":   client,
						"retry_ms": wait.Milliseconds(),
					},
				})
				w.Header().Set("Retry-After", retryAfterSeconds(wait))
				respondJSON(w, log, http.StatusTooManyRequests, Envelope{
					Success: false,
					Message: http.StatusText(http.StatusTooManyRequests),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// retryAfterSeconds округляет вверх, минимум 1 секунда
func retryAfterSeconds(d time.Duration) string {
	secs := int64(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.FormatInt(secs, 10)
}
