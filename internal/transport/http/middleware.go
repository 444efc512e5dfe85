package http

import (
	"context"
	"net/http"
	"strings"

	"userbase/internal/domain"
	"userbase/internal/dto"
	"userbase/internal/service"
)

type ctxKey string

const ctxKeyUserID ctxKey = "user_id"

// UserIDFromContext returns the authenticated user id placed by Authenticate.
func UserIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(ctxKeyUserID).(int)
	return id, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	// Bare token without a scheme is accepted for older clients.
	return strings.TrimSpace(parts[0])
}

// Authenticate resolves the bearer token to an active user id and stores it
// in the request context. Token errors carry their own messages.
func Authenticate(auth service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, domain.Unauthorized("Provide a valid auth token."))
				return
			}
			userID, err := auth.Authorize(r.Context(), token)
			if err != nil {
				writeError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyUserID, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles rejects authenticated users that hold none of the given
// roles. Must run inside Authenticate.
func RequireRoles(auth service.AuthService, roles domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				writeError(w, domain.ErrUnauthorized)
				return
			}
			if err := auth.HasRoles(r.Context(), userID, roles); err != nil {
				writeError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// deviceFromHeaders reads the opportunistic X-Device-Id / X-Device-Type pair
// that register, login and logout accept. Nil when no device id is supplied.
func deviceFromHeaders(r *http.Request) *dto.DeviceInfo {
	id := strings.TrimSpace(r.Header.Get("X-Device-Id"))
	if id == "" {
		return nil
	}
	return &dto.DeviceInfo{
		DeviceID:   id,
		DeviceType: strings.TrimSpace(r.Header.Get("X-Device-Type")),
	}
}
