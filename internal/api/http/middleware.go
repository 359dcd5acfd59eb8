package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/ekrukov/shortly/pkg/response"
)

type ctxKey int

const userIDKey ctxKey = 0

// userIDFromContext extracts the authenticated user ID placed in the request
// context by the authenticate middleware.
func userIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// authenticate verifies the Authorization bearer token and threads the
// authenticated user ID through the request context. Requests without a
// valid token never reach owner-scoped handlers.
func authenticate(authSvc AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.UnauthorizedResponse)
				return
			}

			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.UnauthorizedResponse)
				return
			}

			userID, err := authSvc.VerifyToken(token)
			if err != nil {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.UnauthorizedResponse)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
