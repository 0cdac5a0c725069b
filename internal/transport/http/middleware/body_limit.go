package middleware

import (
	"net/http"
	"strings"
)

// BodyLimit caps request bodies on mutating methods. Multipart uploads
// are exempt; the upload handlers enforce their own file size limits.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mutating := r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch
			multipart := strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
			if maxBytes > 0 && mutating && !multipart {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
