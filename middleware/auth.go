package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Ruben10-R/pro-league/models"
	"github.com/Ruben10-R/pro-league/services"
)

type contextKey string

const userContextKey contextKey = "authenticatedUser"

var ErrNoAuthenticatedUser = errors.New("no authenticated user in context")

// Authenticator turns bearer tokens into context users via the auth
// service's token-resolution capability.
type Authenticator struct {
	authService services.AuthService
}

func NewAuthenticator(authService services.AuthService) *Authenticator {
	return &Authenticator{authService: authService}
}

// RequireAuth rejects requests without a resolvable bearer token and
// stores the resolved user (and the raw token, for logout) in the
// request context.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		rawToken, ok := bearerToken(r)
		if !ok {
			writeUnauthorized(w, "auth.errors.unauthorized")
			return
		}

		user, err := a.authService.ResolveToken(r.Context(), rawToken)
		if err != nil {
			key := "auth.errors.tokenInvalid"
			if errors.Is(err, services.ErrAuthTokenExpired) {
				key = "auth.errors.tokenExpired"
			}
			writeUnauthorized(w, key)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, &authenticatedRequest{
			user:     user,
			rawToken: rawToken,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type authenticatedRequest struct {
	user     *models.User
	rawToken string
}

func UserFromContext(ctx context.Context) (*models.User, error) {
	auth, ok := ctx.Value(userContextKey).(*authenticatedRequest)
	if !ok || auth.user == nil {
		return nil, ErrNoAuthenticatedUser
	}
	return auth.user, nil
}

// TokenFromContext returns the raw bearer token the caller presented,
// used by logout to revoke exactly that token.
func TokenFromContext(ctx context.Context) (string, error) {
	auth, ok := ctx.Value(userContextKey).(*authenticatedRequest)
	if !ok || auth.rawToken == "" {
		return "", ErrNoAuthenticatedUser
	}
	return auth.rawToken, nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// writeUnauthorized emits the API envelope directly: the middleware
// cannot depend on the handlers package without a cycle.
func writeUnauthorized(w http.ResponseWriter, key string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": map[string]interface{}{
			"key":    key,
			"params": map[string]interface{}{},
		},
	})
}
