package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/identity"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/model"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/rbac"
)

var bearerRegex = regexp.MustCompile(`^Bearer\s+(\S+)$`)

// TokenVerifier validates an access token and returns its identity.
type TokenVerifier interface {
	Verify(token string) (*identity.Identity, error)
}

// UserLookup finds a user by id.
type UserLookup interface {
	Get(ctx context.Context, id uint) (*model.User, error)
}

// JWTAuthenticator is middleware that validates bearer tokens
type JWTAuthenticator struct {
	Tokens TokenVerifier
	Users  UserLookup
	Logger *logrus.Logger
}

// NewJWTAuthenticator creates a new JWT authenticator middleware
func NewJWTAuthenticator(tokens TokenVerifier, users UserLookup, logger *logrus.Logger) *JWTAuthenticator {
	if logger == nil {
		logger = logrus.New()
	}
	return &JWTAuthenticator{Tokens: tokens, Users: users, Logger: logger}
}

// Middleware returns an HTTP middleware that validates bearer tokens and
// stores the caller's identity in the request context. Tokens of users
// that no longer exist are rejected.
func (j *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if len(authHeader) == 0 {
			respondWithError(w, http.StatusUnauthorized, "Authorization missing")
			return
		}

		tokenMatches := bearerRegex.FindStringSubmatch(authHeader)
		if len(tokenMatches) != 2 {
			respondWithError(w, http.StatusUnauthorized, "Malformed authorization header")
			return
		}

		id, err := j.Tokens.Verify(tokenMatches[1])
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		if _, err := j.Users.Get(r.Context(), id.UserID); err != nil {
			if errors.Is(err, rbac.ErrNotFound) {
				respondWithError(w, http.StatusUnauthorized, "Unknown user")
				return
			}
			j.Logger.WithError(err).Error("failed to look up token subject")
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			id.WithRemoteIP(net.ParseIP(host))
		}

		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}
