package middleware

import (
	"encoding/json"
	"net/http"

	"blog-backend/pkg/auth"

	"go.uber.org/zap"
)

// TokenParser turns a bearer token into claims
type TokenParser func(token string) (*auth.Claims, error)

// Authenticate attaches the caller identity when a bearer token is present.
// Anonymous requests pass through; the dispatch router rejects anonymous mutations.
// A present but invalid token is always rejected.
func Authenticate(parse TokenParser, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := parse(header)
			if err != nil {
				logger.Info("Rejected bearer token",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				unauthorized(w, err.Error())
				return
			}

			ctx := auth.WithIdentity(r.Context(), claims.Identity())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ValidatorParser verifies tokens locally
func ValidatorParser(v *auth.JWTValidator) TokenParser {
	return v.ValidateToken
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error": map[string]string{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}
