package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/access"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/model"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/rbac"
)

func TestAccessHandlers(t *testing.T) {
	logger := quietLogger()

	t.Run("me returns the caller's permissions", func(t *testing.T) {
		gate := &MockAccessGate{}
		gate.On("Permissions", uint(3)).Return([]model.Permission{{ID: 1, Action: model.ActionRead}}, nil)

		req := withIdentity(httptest.NewRequest("GET", "/access/me", nil), 3)
		w := httptest.NewRecorder()
		handleMyPermissions(gate, logger)(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var got []model.Permission
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Len(t, got, 1)
	})

	t.Run("me without identity is 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		handleMyPermissions(&MockAccessGate{}, logger)(w, httptest.NewRequest("GET", "/access/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("check", func(t *testing.T) {
		gate := &MockAccessGate{}
		gate.On("IsAllowed", uint(3), "Reports", "read").Return(true, nil)

		req := withIdentity(httptest.NewRequest("POST", "/access/check", strings.NewReader(`{"module":"Reports","action":"read"}`)), 3)
		w := httptest.NewRecorder()
		handleCheck(gate, logger)(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var got CheckResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.True(t, got.Allowed)
	})

	t.Run("whitespace module or action is 400", func(t *testing.T) {
		for _, body := range []string{
			`{"module":"   ","action":"read"}`,
			`{"module":" Reports","action":"read"}`,
			`{"module":"Reports","action":"read "}`,
			`{"module":"","action":"read"}`,
		} {
			gate := &MockAccessGate{}
			req := withIdentity(httptest.NewRequest("POST", "/access/check", strings.NewReader(body)), 3)
			w := httptest.NewRecorder()
			handleCheck(gate, logger)(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code, body)
			gate.AssertNotCalled(t, "IsAllowed", mock.Anything, mock.Anything, mock.Anything)
		}
	})

	t.Run("simulate", func(t *testing.T) {
		gate := &MockAccessGate{}
		gate.On("Simulate", uint(7), "Reports", "delete").Return(&access.Decision{
			Allowed:            false,
			User:               access.UserSummary{ID: 7, Username: "alice"},
			RequiredPermission: "delete on Reports",
			UserPermissions:    []model.Permission{},
		}, nil)

		req := httptest.NewRequest("POST", "/access/simulate", strings.NewReader(`{"userId":7,"module":"Reports","action":"delete"}`))
		w := httptest.NewRecorder()
		handleSimulate(gate, logger)(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var got access.Decision
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.False(t, got.Allowed)
		assert.Equal(t, "delete on Reports", got.RequiredPermission)
		assert.Equal(t, "alice", got.User.Username)
	})

	t.Run("simulate unknown user is 404", func(t *testing.T) {
		gate := &MockAccessGate{}
		gate.On("Simulate", uint(99), "Reports", "read").Return(nil, rbac.NotFoundf("user 99 not found"))

		req := httptest.NewRequest("POST", "/access/simulate", strings.NewReader(`{"userId":99,"module":"Reports","action":"read"}`))
		w := httptest.NewRecorder()
		handleSimulate(gate, logger)(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("simulate requires a user id", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/access/simulate", strings.NewReader(`{"module":"Reports","action":"read"}`))
		w := httptest.NewRecorder()
		handleSimulate(&MockAccessGate{}, logger)(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
