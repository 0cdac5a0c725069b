package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"attendance/internal/transport/http/api"
)

func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered",
					"err", rec,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
					"requestId", GetRequestID(r.Context()),
				)
				api.Fail(w, http.StatusInternalServerError, "internal_error", "something went wrong", GetRequestID(r.Context()))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
