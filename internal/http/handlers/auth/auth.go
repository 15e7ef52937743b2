package auth

import (
	"apptreminder/internal/http/handlers/response"
	"net/http"
	"strings"
)

const (
	AUTH_TOKEN_PREFIX  = "Bearer "
	AUTH_TOKEN_MAX_LEN = 1024
)

type TokenValidator interface {
	ValidateToken(token string) bool
}

func ParseToken(r *http.Request) (token string, ok bool) {
	header := r.Header.Get("authorization")
	if header == "" {
		return token, false
	}
	parts := strings.SplitN(header, AUTH_TOKEN_PREFIX, 2)
	if len(parts) != 2 || parts[1] == "" {
		return token, false
	}
	if len(parts[1]) > AUTH_TOKEN_MAX_LEN {
		return token, false
	}
	return parts[1], true
}

// RequireToken rejects requests without a valid bearer token.
func RequireToken(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			token, ok := ParseToken(r)
			if !ok || !validator.ValidateToken(token) {
				response.RenderUnauthorized(rw)
				return
			}
			next.ServeHTTP(rw, r)
		})
	}
}
