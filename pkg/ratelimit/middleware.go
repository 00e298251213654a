package ratelimit

import (
	"net/http"
	"strconv"
)

// KeyFunc derives the limit key from a request, typically the client IP or
// the IP plus the login identifier.
type KeyFunc func(r *http.Request) string

// ByHost keys the limit on the remote address reported by the request.
func ByHost(r *http.Request) string {
	return r.RemoteAddr
}

// Middleware rejects requests over the limit with 429 and standard
// X-RateLimit headers. Store failures fail open so a Redis outage does not
// take the endpoint down with it.
func Middleware(limiter Limiter, keyFn KeyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result, err := limiter.Allow(r.Context(), keyFn(r))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed() {
				if retry := int(result.RetryAfter().Seconds()); retry > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(retry))
				}
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
