package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"ram-planner/backend/logging"
	"ram-planner/backend/models"
	"ram-planner/backend/utils"
)

type contextKey string

const userContextKey contextKey = "user"

// UserLoader resolves the authenticated user behind a token subject.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

// Session authenticates every request it wraps. The token is read from
// the "token" cookie first, then from the Authorization header. A missing
// token is answered with 403, an invalid one with 401.
func Session(jwtManager *utils.JWTManager, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				writeMessage(w, http.StatusForbidden, "No token provided")
				return
			}

			claims, err := jwtManager.ValidateToken(token)
			if err != nil {
				logging.Logger.Warnf("Event ID: INVALID_TOKEN, Description: Token rejected: %v", err)
				writeMessage(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			user, err := users.GetByID(r.Context(), claims.ID)
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user placed by Session.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie("token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
