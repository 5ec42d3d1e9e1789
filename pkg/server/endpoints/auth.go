package endpoints

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/authenticator"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/authenticator/authn"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/model"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server"
)

// CredentialsRequest is the body of register and login.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the bearer token for the authenticated user.
type LoginResponse struct {
	ID        uint          `json:"id"`
	Username  string        `json:"username"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	Groups    []model.Group `json:"groups"`
}

// RegisterAuthEndpoints registers the public registration and login routes
func RegisterAuthEndpoints(s *server.Server) {
	s.Router.HandleFunc("/auth/register", handleRegister(s.Auth, s.Logger)).Methods("POST")
	s.Router.HandleFunc("/auth/login", handleLogin(s.Auth, s.Tokens, s.Logger)).Methods("POST")
}

func handleRegister(auth PasswordAuth, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CredentialsRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}

		user, err := auth.Register(r.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, authn.ErrRegistrationDisabled) {
				respondWithError(w, http.StatusForbidden, "Registration is disabled")
				return
			}
			respondWithServiceError(w, r, logger, err)
			return
		}

		logger.WithField("username", user.Username).Info("user registered")
		respondWithJSON(w, http.StatusCreated, user)
	}
}

func handleLogin(auth PasswordAuth, tokens TokenIssuer, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CredentialsRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}

		clientIP, _, _ := net.SplitHostPort(r.RemoteAddr)
		user, err := auth.Authenticate(r.Context(), authenticator.AuthenticatorInput{
			Login:       req.Username,
			Credentials: []byte(req.Password),
			ClientIP:    clientIP,
		})
		if err != nil {
			if errors.Is(err, authenticator.ErrInvalidCredentials) {
				respondWithError(w, http.StatusUnauthorized, "Invalid credentials")
				return
			}
			respondWithServiceError(w, r, logger, err)
			return
		}

		token, expiresAt, err := tokens.Issue(user)
		if err != nil {
			respondWithServiceError(w, r, logger, err)
			return
		}

		groups := user.Groups
		if groups == nil {
			groups = []model.Group{}
		}
		respondWithJSON(w, http.StatusOK, LoginResponse{
			ID:        user.ID,
			Username:  user.Username,
			Token:     token,
			ExpiresAt: expiresAt,
			Groups:    groups,
		})
	}
}
