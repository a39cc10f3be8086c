package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/atelierhq/inventory-service/internal/apperror"
	"github.com/atelierhq/inventory-service/internal/httputil"
)

// Middleware verifies the bearer token and threads the caller's identity
// into the request context. Token issuance and user management live in the
// external identity service; the subject claim is trusted as the user id.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
				httputil.RespondError(w, apperror.New(apperror.KindUnauthorized, "missing bearer token"))
				return
			}

			tokenString := strings.TrimSpace(header[len("Bearer "):])
			token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
				if token.Method != jwt.SigningMethodHS256 {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				httputil.RespondError(w, apperror.New(apperror.KindUnauthorized, "invalid token"))
				return
			}

			claims, ok := token.Claims.(*jwt.RegisteredClaims)
			if !ok || claims.Subject == "" {
				httputil.RespondError(w, apperror.New(apperror.KindUnauthorized, "invalid token claims"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.Subject)))
		})
	}
}
