package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"userservice/internal/shared/logger"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(limit float64, burst int, ttl time.Duration) (*ClientRateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewClientRateLimiter(rate.Limit(limit), burst, ttl)
	l.now = clock.Now
	return l, clock
}

func TestClientRateLimiter_Allow(t *testing.T) {
	l, clock := newTestLimiter(1, 2, time.Minute)

	ok, _ := l.Allow("10.0.0.1")
	assert.True(t, ok)
	ok, _ = l.Allow("10.0.0.1")
	assert.True(t, ok)

	ok, wait := l.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, time.Second, wait)

	// отказ не съедает токен: через секунду ровно один запрос
	clock.Advance(time.Second)
	ok, _ = l.Allow("10.0.0.1")
	assert.True(t, ok)
	ok, _ = l.Allow("10.0.0.1")
	assert.False(t, ok)

	ok, _ = l.Allow("10.0.0.2")
	assert.True(t, ok, "separate bucket per client")
}

func TestClientRateLimiter_ForgetsIdleClients(t *testing.T) {
	l, clock := newTestLimiter(1, 1, time.Minute)

	l.Allow("a")
	l.Allow("b")
	require.Equal(t, 2, l.Len())

	clock.Advance(30 * time.Second)
	l.Allow("b")
	assert.Equal(t, 2, l.Len(), "sweep waits for the next interval")

	clock.Advance(45 * time.Second)
	l.Allow("c")
	assert.Equal(t, 2, l.Len(), "a idle for 75s is dropped, b and c stay")

	ok, _ := l.Allow("a")
	assert.True(t, ok, "forgotten client starts with a full bucket")
}

func TestNewClientRateLimiter_DefaultTTL(t *testing.T) {
	l := NewClientRateLimiter(1, 1, 0)
	assert.Equal(t, DefaultClientIdleTTL, l.idleTTL)
}

func TestRateLimit(t *testing.T) {
	l, _ := newTestLimiter(0.5, 1, time.Minute)

	r := chi.NewRouter()
	r.Use(RateLimit(l, logger.Discard()))
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, send("10.0.0.1:1234").Code)

	// порт не входит в ключ клиента
	rec := send("10.0.0.1:5678")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.Contains(t, rec.Body.String(), "Too Many Requests")

	assert.Equal(t, http.StatusNoContent, send("10.0.0.2:1234").Code)
	assert.Equal(t, http.StatusNoContent, send("no-port").Code)
}

func TestRetryAfterSeconds(t *testing.T) {
	tests := []struct {
		wait time.Duration
		want string
	}{
		{0, "1"},
		{200 * time.Millisecond, "1"},
		{time.Second, "1"},
		{1500 * time.Millisecond, "2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, retryAfterSeconds(tt.wait), tt.wait.String())
	}
}
