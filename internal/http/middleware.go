package http

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Priyanka-Kadel/Cookbook-backend/internal/auth"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/domain"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/kv"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type ctxKey int

const identityKey ctxKey = iota

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// AuthMiddleware accepts a bearer token only while its session version is the
// user's current one.
func AuthMiddleware(tokens TokenParser, sessions kv.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				respondError(w, http.StatusUnauthorized, "unauthorized", "not authorized, no token")
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(raw))
			if err != nil {
				handleError(w, r, err)
				return
			}

			current, err := sessions.Version(r.Context(), claims.UserID)
			if err != nil {
				zerolog.Ctx(r.Context()).Error().Err(err).Str("user_id", claims.UserID).Msg("session lookup failed")
				respondError(w, http.StatusServiceUnavailable, "service_unavailable", "session store unavailable")
				return
			}
			if claims.Version != current {
				respondError(w, http.StatusUnauthorized, "unauthorized", "session has expired, please log in again")
				return
			}

			l := zerolog.Ctx(r.Context()).With().Str("user_id", claims.UserID).Logger()
			ctx := withIdentity(l.WithContext(r.Context()), claims.Identity())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects callers whose role is not role.
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			who, ok := identityFrom(r.Context())
			if !ok {
				respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
				return
			}
			if who.Role != role {
				respondError(w, http.StatusForbidden, "forbidden", "not authorized as "+string(role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withIdentity(ctx context.Context, who domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, who)
}

func identityFrom(ctx context.Context) (domain.Identity, bool) {
	who, ok := ctx.Value(identityKey).(domain.Identity)
	return who, ok && who.UserID != ""
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client address.
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	idle     time.Duration
	lastScan time.Time
	now      func() time.Time
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		idle:    10 * time.Minute,
		now:     time.Now,
	}
}

func (l *RateLimiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastScan) > l.idle {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) > l.idle {
				delete(l.clients, k)
			}
		}
		l.lastScan = now
	}

	c, ok := l.clients[client]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[client] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientAddr(r)) {
			w.Header().Set("Retry-After", "1")
			respondError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
