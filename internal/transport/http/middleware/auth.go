package middleware

import (
	"context"
	"net/http"
	"strings"

	"attendance/internal/auth"
	"attendance/internal/requestctx"
)

// Auth resolves a bearer token into the request principal. Requests
// without a valid token pass through anonymous; route guards decide what
// that means.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(header, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := requestctx.WithPrincipal(r.Context(), requestctx.Principal{
				AccountID: claims.AccountID,
				Email:     claims.Email,
				Role:      claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetPrincipal(ctx context.Context) (requestctx.Principal, bool) {
	return requestctx.GetPrincipal(ctx)
}
