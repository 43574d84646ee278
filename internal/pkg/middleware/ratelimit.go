package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	apperror "goship/internal/errors"
	"goship/internal/pkg/cache"
	"goship/internal/pkg/logger"
	"goship/internal/pkg/respond"
)

// RateLimiter limita requisições por IP numa janela fixa, com contadores no cache (Redis).
// Falhas do cache deixam a requisição passar: o limitador não derruba a API.
func RateLimiter(client cache.Client, limit int, window time.Duration, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			key := "rate-limit:" + ip
			ctx := r.Context()

			count, err := client.GetInt(ctx, key)
			if err == cache.ErrCacheMiss {
				if setErr := client.Set(ctx, key, 1, window); setErr != nil {
					log.Warn("Falha ao iniciar contador de rate limit.", map[string]interface{}{"ip": ip, "error": setErr.Error()})
				}
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit-1))
				next.ServeHTTP(w, r)
				return
			} else if err != nil {
				log.Warn("Cache indisponível para rate limit; requisição liberada.", map[string]interface{}{"ip": ip, "error": err.Error()})
				next.ServeHTTP(w, r)
				return
			}

			if count >= limit {
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				respond.Error(w, r, log, apperror.NewTooManyRequestsError("Tente novamente em instantes."))
				return
			}

			n, err := client.Incr(ctx, key)
			if err != nil {
				log.Warn("Falha ao incrementar contador de rate limit.", map[string]interface{}{"ip": ip, "error": err.Error()})
				n = int64(count + 1)
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit-int(n)))
			next.ServeHTTP(w, r)
		})
	}
}
