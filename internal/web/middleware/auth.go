package middleware

import "net/http"

// RequireAPIKey returns middleware that rejects requests whose
// x-api-key header does not match key. An empty configured key
// disables authentication, which is intended for local development
// only.
func RequireAPIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key != "" && r.Header.Get("x-api-key") != key {
				http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
