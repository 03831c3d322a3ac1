package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"docbridge/internal/domain"
	"docbridge/internal/httputil"
)

// Recovery middleware recovers from panics and returns a 500 error.
// http.ErrAbortHandler is re-panicked so the server can abort the response.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				if err == http.ErrAbortHandler {
					panic(err)
				}

				logger.Error("panic recovered",
					"error", err,
					"path", r.URL.Path,
					"method", r.Method,
					"stack", string(debug.Stack()),
				)

				httputil.RespondErrorKind(w, http.StatusInternalServerError, domain.KindInternal, "internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
