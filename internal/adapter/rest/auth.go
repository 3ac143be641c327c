package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ctxKey is the private context key type for request-scoped values.
type ctxKey int

const userIDKey ctxKey = iota

// TokenAuthenticator is the authentication collaborator: it resolves a
// bearer token into a user identifier. Tokens are provisioned out of band
// and supplied through configuration.
type TokenAuthenticator struct {
	usersByToken map[string]uuid.UUID
}

// NewTokenAuthenticator creates an authenticator over a token-to-user map.
func NewTokenAuthenticator(usersByToken map[string]uuid.UUID) *TokenAuthenticator {
	return &TokenAuthenticator{usersByToken: usersByToken}
}

// UserIDForToken resolves a token; ok is false for unknown tokens.
func (a *TokenAuthenticator) UserIDForToken(token string) (uuid.UUID, bool) {
	id, ok := a.usersByToken[token]
	return id, ok
}

// Middleware validates the Authorization bearer token and injects the
// resolved user ID into the request context. Requests without a valid token
// get 401.
func (a *TokenAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Message: "missing bearer token"})
			return
		}

		userID, ok := a.UserIDForToken(token)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Message: "invalid token"})
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentUserID returns the authenticated user ID from the request context.
// ok is false outside an authenticated request.
func CurrentUserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}
