package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/authenticator"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/authenticator/authn"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/model"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/rbac"
)

func TestAuthHandlers(t *testing.T) {
	logger := quietLogger()

	t.Run("register", func(t *testing.T) {
		auth := &MockPasswordAuth{}
		auth.On("Register", "alice", "s3cret").Return(&model.User{ID: 1, Username: "alice", PasswordHash: "hash"}, nil)

		req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(`{"username":"alice","password":"s3cret"}`))
		w := httptest.NewRecorder()
		handleRegister(auth, logger)(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NotContains(t, w.Body.String(), "hash")
	})

	t.Run("register existing user is 409", func(t *testing.T) {
		auth := &MockPasswordAuth{}
		auth.On("Register", "alice", "s3cret").Return(nil, rbac.Conflictf("User already exists"))

		req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(`{"username":"alice","password":"s3cret"}`))
		w := httptest.NewRecorder()
		handleRegister(auth, logger)(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "User already exists", decodeError(t, w))
	})

	t.Run("register when disabled is 403", func(t *testing.T) {
		auth := &MockPasswordAuth{}
		auth.On("Register", "alice", "s3cret").Return(nil, authn.ErrRegistrationDisabled)

		req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(`{"username":"alice","password":"s3cret"}`))
		w := httptest.NewRecorder()
		handleRegister(auth, logger)(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("login issues a token", func(t *testing.T) {
		auth := &MockPasswordAuth{}
		tokens := &MockTokenIssuer{}
		user := &model.User{ID: 1, Username: "alice", Groups: []model.Group{{ID: 2, Name: "Engineering"}}}
		expiresAt := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		auth.On("Authenticate", "alice", "s3cret").Return(user, nil)
		tokens.On("Issue", uint(1)).Return("signed.jwt.token", expiresAt, nil)

		req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"username":"alice","password":"s3cret"}`))
		w := httptest.NewRecorder()
		handleLogin(auth, tokens, logger)(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var got LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "signed.jwt.token", got.Token)
		assert.Equal(t, uint(1), got.ID)
		assert.True(t, expiresAt.Equal(got.ExpiresAt))
		require.Len(t, got.Groups, 1)
		assert.Equal(t, "Engineering", got.Groups[0].Name)
	})

	t.Run("login with bad credentials is 401", func(t *testing.T) {
		auth := &MockPasswordAuth{}
		auth.On("Authenticate", "alice", "wrong").Return(nil, authenticator.ErrInvalidCredentials)

		req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"username":"alice","password":"wrong"}`))
		w := httptest.NewRecorder()
		handleLogin(auth, &MockTokenIssuer{}, logger)(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid credentials", decodeError(t, w))
	})

	t.Run("login requires both fields", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"username":"alice"}`))
		w := httptest.NewRecorder()
		handleLogin(&MockPasswordAuth{}, &MockTokenIssuer{}, logger)(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
