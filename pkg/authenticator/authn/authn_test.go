package authn

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/authenticator"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/model"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/password"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/rbac"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server/store/gorm/gormtest"
)

func newTestAuthenticator(t *testing.T, registration bool) *Authenticator {
	t.Helper()
	hasher, err := password.NewBcrypt(bcrypt.MinCost)
	require.NoError(t, err)
	users := rbac.NewUserService(gorm.NewStore(gormtest.Open(t)), hasher)
	return New(users, hasher, registration)
}

func TestAuthenticator_Name(t *testing.T) {
	auth := newTestAuthenticator(t, true)
	assert.Equal(t, "authn", auth.Name())
}

func TestAuthenticator_RegisterAndAuthenticate(t *testing.T) {
	auth := newTestAuthenticator(t, true)
	ctx := context.Background()

	user, err := auth.Register(ctx, " alice ", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	_, err = auth.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, rbac.ErrConflict)

	got, err := auth.Authenticate(ctx, authenticator.AuthenticatorInput{Login: "alice", Credentials: []byte("s3cret")})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestAuthenticator_Authenticate_Failures(t *testing.T) {
	auth := newTestAuthenticator(t, true)
	ctx := context.Background()

	_, err := auth.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)

	tests := []struct {
		name  string
		input authenticator.AuthenticatorInput
	}{
		{name: "wrong password", input: authenticator.AuthenticatorInput{Login: "alice", Credentials: []byte("nope")}},
		{name: "unknown user", input: authenticator.AuthenticatorInput{Login: "bob", Credentials: []byte("s3cret")}},
		{name: "empty login", input: authenticator.AuthenticatorInput{Credentials: []byte("s3cret")}},
		{name: "empty password", input: authenticator.AuthenticatorInput{Login: "alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Authenticate(ctx, tt.input)
			assert.ErrorIs(t, err, authenticator.ErrInvalidCredentials)
		})
	}
}

func TestAuthenticator_RegistrationDisabled(t *testing.T) {
	auth := newTestAuthenticator(t, false)

	_, err := auth.Register(context.Background(), "alice", "s3cret")
	assert.ErrorIs(t, err, ErrRegistrationDisabled)
}

func TestTokens_IssueAndVerify(t *testing.T) {
	tokens, err := NewTokens([]byte("test-secret"), time.Hour)
	require.NoError(t, err)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return now }

	signed, expiresAt, err := tokens.Issue(&model.User{ID: 42, Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expiresAt)

	id, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id.UserID)
	assert.Equal(t, "alice", id.Username)
	assert.True(t, id.ExpiresAt.Equal(expiresAt))

	tokens.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = tokens.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_RejectsForeignTokens(t *testing.T) {
	tokens, err := NewTokens([]byte("test-secret"), time.Hour)
	require.NoError(t, err)

	other, err := NewTokens([]byte("other-secret"), time.Hour)
	require.NoError(t, err)
	signed, _, err := other.Issue(&model.User{ID: 1, Username: "mallory"})
	require.NoError(t, err)

	_, err = tokens.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.Verify(none)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokens_Validation(t *testing.T) {
	_, err := NewTokens(nil, time.Hour)
	assert.Error(t, err)

	_, err = NewTokens([]byte("secret"), 0)
	assert.Error(t, err)
}
