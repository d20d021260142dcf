package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
	domainerrors "github.com/musaddiq-rafi/boipoka.ai-sub000/internal/errors"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

const (
	identityKey ctxKey = "identity"
	userKey     ctxKey = "user"
)

// authMiddleware verifies Bearer tokens and stores the caller in context.
// If no token is present or it is invalid, continues without a caller;
// handlers decide whether authentication is required.
func authMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok || auth == nil {
				next.ServeHTTP(w, r)
				return
			}

			ident, user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, ident)
			if user != nil {
				ctx = context.WithValue(ctx, userKey, user)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetIdentity returns the verified identity, registered or not.
// Returns 401 if the request carried no valid token.
func GetIdentity(ctx context.Context) (domain.Identity, error) {
	ident, ok := ctx.Value(identityKey).(domain.Identity)
	if !ok || ident.UID == "" {
		return domain.Identity{}, domainerrors.Unauthenticated("authentication required")
	}
	return ident, nil
}

// GetUser returns the registered user behind the request.
// Returns 401 for anonymous callers and for identities that never signed up.
func GetUser(ctx context.Context) (*domain.User, error) {
	if _, err := GetIdentity(ctx); err != nil {
		return nil, err
	}
	user, ok := ctx.Value(userKey).(*domain.User)
	if !ok || user == nil {
		return nil, domainerrors.Unauthenticated("user not registered")
	}
	return user, nil
}

// GetUserID returns the internal id of the registered user.
func GetUserID(ctx context.Context) (string, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}
