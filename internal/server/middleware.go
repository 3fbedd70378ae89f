package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/cragmatch/cragmatch/internal/auth"
	"github.com/cragmatch/cragmatch/internal/config"
	svcErr "github.com/cragmatch/cragmatch/internal/errors"
)

type contextKey string

const claimsKey contextKey = "claims"

// requireAuth validates the bearer token and stores its claims on the
// request context.
func requireAuth(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				svcErr.JSON(w, http.StatusUnauthorized, "missing authorization header")
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				svcErr.JSON(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}
			claims, err := auth.ParseToken(cfg, parts[1])
			if err != nil {
				svcErr.JSON(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requestClaims returns the authenticated claims set by requireAuth.
func requestClaims(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(claimsKey).(*auth.Claims)
	return claims
}
