package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const specialistIDKey contextKey = "specialist_id"

// Middleware rejects requests without a valid Bearer token and stores the
// authenticated specialist id on the request context.
func Middleware(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w)
				return
			}

			id, err := VerifyToken(key, token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), specialistIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SpecialistID retrieves the authenticated specialist from the context.
func SpecialistID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(specialistIDKey).(uuid.UUID)
	return id, ok
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
