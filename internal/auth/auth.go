// Package auth guards the gateway API with a static bearer key. Deployments
// that leave the key unset run open, which is the norm on crew-internal
// networks.
package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

// ErrMissingAuthorization is returned when no Authorization header is present.
var ErrMissingAuthorization = errors.New("missing Authorization header")

// ErrMalformedAuthorization is returned when the header is not a bearer token.
var ErrMalformedAuthorization = errors.New("invalid Authorization header format, expected 'Bearer <key>'")

// ExtractBearerKey pulls the API key out of the Authorization header.
func ExtractBearerKey(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingAuthorization
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", ErrMalformedAuthorization
	}
	return parts[1], nil
}

// Middleware rejects requests that do not carry the configured API key.
// An empty apiKey disables the check. The health endpoint stays open so
// load balancers can probe without credentials.
func Middleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/health" {
				next.ServeHTTP(w, r)
				return
			}
			key, err := ExtractBearerKey(r)
			if err != nil || subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Unauthorized","code":401}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
