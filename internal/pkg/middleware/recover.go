package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"goship/internal/domain"
	"goship/internal/pkg/logger"
	"goship/internal/pkg/respond"
)

// Recover converte panics em 500 JSON. Em desenvolvimento inclui o stack trace no corpo.
func Recover(log logger.Logger, exposeStack bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				stack := string(debug.Stack())
				log.Error("Panic recuperado no handler.", fmt.Errorf("%v", rec))
				log.Debug("Stack do panic.", map[string]interface{}{"path": r.URL.Path, "stack": stack})

				body := domain.ErrorResponse{
					Code:     http.StatusInternalServerError,
					Category: "INTERNAL_ERROR",
					Message:  "Ocorreu um erro inesperado. Tente novamente.",
				}
				if exposeStack {
					body.Stack = stack
				}
				respond.JSON(w, log, http.StatusInternalServerError, body)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestLogger registra método, caminho, status e duração de cada requisição.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Info("Requisição concluída", map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
		})
	}
}
