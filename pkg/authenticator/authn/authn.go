package authn

import (
	"context"
	"errors"
	"fmt"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/authenticator"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/model"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/password"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/rbac"
)

// ErrRegistrationDisabled is returned by Register when self-service
// registration is turned off.
var ErrRegistrationDisabled = errors.New("registration is disabled")

// PasswordVerifier checks a password against a stored hash.
type PasswordVerifier interface {
	Verify(hash, password string) error
}

// Authenticator implements username and password authentication
type Authenticator struct {
	users               *rbac.UserService
	verifier            PasswordVerifier
	registrationEnabled bool
}

var _ authenticator.Authenticator = (*Authenticator)(nil)

// New creates a password authenticator backed by users.
func New(users *rbac.UserService, verifier PasswordVerifier, registrationEnabled bool) *Authenticator {
	return &Authenticator{
		users:               users,
		verifier:            verifier,
		registrationEnabled: registrationEnabled,
	}
}

// Name returns the authenticator name
func (a *Authenticator) Name() string {
	return "authn"
}

// Authenticate checks the password of the user named by input.Login.
func (a *Authenticator) Authenticate(ctx context.Context, input authenticator.AuthenticatorInput) (*model.User, error) {
	if input.Login == "" || len(input.Credentials) == 0 {
		return nil, authenticator.ErrInvalidCredentials
	}

	user, err := a.users.GetByUsername(ctx, input.Login)
	if err != nil {
		if errors.Is(err, rbac.ErrNotFound) {
			return nil, authenticator.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	if err := a.verifier.Verify(user.PasswordHash, string(input.Credentials)); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, authenticator.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	return user, nil
}

// Register creates a user. It fails with a conflict when the username is
// taken.
func (a *Authenticator) Register(ctx context.Context, username, password string) (*model.User, error) {
	if !a.registrationEnabled {
		return nil, ErrRegistrationDisabled
	}
	return a.users.Create(ctx, username, password)
}
