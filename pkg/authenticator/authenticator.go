package authenticator

import (
	"context"
	"errors"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/model"
)

// ErrInvalidCredentials is returned for an unknown login or a wrong secret.
// The two cases are deliberately indistinguishable to callers.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator defines the interface for all authenticators
type Authenticator interface {
	// Name returns the authenticator name (e.g., "authn")
	Name() string

	// Authenticate validates credentials and returns the user on success
	Authenticate(ctx context.Context, input AuthenticatorInput) (*model.User, error)
}

// AuthenticatorInput contains the input for authentication
type AuthenticatorInput struct {
	Login       string
	Credentials []byte
	ClientIP    string
}
