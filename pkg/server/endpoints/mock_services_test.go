package endpoints

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/access"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/authenticator"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/identity"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/model"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/rbac"
)

// MockGroupService implements GroupService for testing using testify/mock
type MockGroupService struct {
	mock.Mock
}

var _ GroupService = (*MockGroupService)(nil)

func (m *MockGroupService) group(args mock.Arguments) (*model.Group, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func (m *MockGroupService) Create(ctx context.Context, name string, description *string) (*model.Group, error) {
	return m.group(m.Called(name, description))
}

func (m *MockGroupService) Get(ctx context.Context, id uint) (*model.Group, error) {
	return m.group(m.Called(id))
}

func (m *MockGroupService) List(ctx context.Context) ([]model.Group, error) {
	args := m.Called()
	return args.Get(0).([]model.Group), args.Error(1)
}

func (m *MockGroupService) Update(ctx context.Context, id uint, in rbac.NamedUpdate) (*model.Group, error) {
	return m.group(m.Called(id, in))
}

func (m *MockGroupService) Delete(ctx context.Context, id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockGroupService) AssignUsers(ctx context.Context, id uint, userIDs []uint) (*model.Group, error) {
	return m.group(m.Called(id, userIDs))
}

func (m *MockGroupService) RemoveUsers(ctx context.Context, id uint, userIDs []uint) (*model.Group, error) {
	return m.group(m.Called(id, userIDs))
}

func (m *MockGroupService) AssignRoles(ctx context.Context, id uint, roleIDs []uint) (*model.Group, error) {
	return m.group(m.Called(id, roleIDs))
}

func (m *MockGroupService) RemoveRoles(ctx context.Context, id uint, roleIDs []uint) (*model.Group, error) {
	return m.group(m.Called(id, roleIDs))
}

func (m *MockGroupService) Users(ctx context.Context, id uint) ([]model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockGroupService) Roles(ctx context.Context, id uint) ([]model.Role, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Role), args.Error(1)
}

// MockPermissionService implements PermissionService for testing using testify/mock
type MockPermissionService struct {
	mock.Mock
}

var _ PermissionService = (*MockPermissionService)(nil)

func (m *MockPermissionService) permission(args mock.Arguments) (*model.Permission, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Permission), args.Error(1)
}

func (m *MockPermissionService) Create(ctx context.Context, action string, moduleID uint, description *string) (*model.Permission, error) {
	return m.permission(m.Called(action, moduleID, description))
}

func (m *MockPermissionService) Get(ctx context.Context, id uint) (*model.Permission, error) {
	return m.permission(m.Called(id))
}

func (m *MockPermissionService) List(ctx context.Context) ([]model.Permission, error) {
	args := m.Called()
	return args.Get(0).([]model.Permission), args.Error(1)
}

func (m *MockPermissionService) Update(ctx context.Context, id uint, in rbac.PermissionUpdate) (*model.Permission, error) {
	return m.permission(m.Called(id, in))
}

func (m *MockPermissionService) Delete(ctx context.Context, id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockPermissionService) AssignRoles(ctx context.Context, id uint, roleIDs []uint) (*model.Permission, error) {
	return m.permission(m.Called(id, roleIDs))
}

func (m *MockPermissionService) RemoveRoles(ctx context.Context, id uint, roleIDs []uint) (*model.Permission, error) {
	return m.permission(m.Called(id, roleIDs))
}

func (m *MockPermissionService) Roles(ctx context.Context, id uint) ([]model.Role, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Role), args.Error(1)
}

// MockAccessGate implements AccessGate for testing using testify/mock
type MockAccessGate struct {
	mock.Mock
}

var _ AccessGate = (*MockAccessGate)(nil)

func (m *MockAccessGate) Permissions(ctx context.Context, userID uint) ([]model.Permission, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Permission), args.Error(1)
}

func (m *MockAccessGate) IsAllowed(ctx context.Context, userID uint, module, action string) (bool, error) {
	args := m.Called(userID, module, action)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessGate) Simulate(ctx context.Context, userID uint, module, action string) (*access.Decision, error) {
	args := m.Called(userID, module, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*access.Decision), args.Error(1)
}

// MockPasswordAuth implements PasswordAuth for testing using testify/mock
type MockPasswordAuth struct {
	mock.Mock
}

func (m *MockPasswordAuth) Authenticate(ctx context.Context, input authenticator.AuthenticatorInput) (*model.User, error) {
	args := m.Called(input.Login, string(input.Credentials))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockPasswordAuth) Register(ctx context.Context, username, password string) (*model.User, error) {
	args := m.Called(username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(user *model.User) (string, time.Time, error) {
	args := m.Called(user.ID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity(ctx context.Context) error {
	return m.Called().Error(0)
}

func withMuxVars(req *http.Request, vars map[string]string) *http.Request {
	return mux.SetURLVars(req, vars)
}

func withIdentity(req *http.Request, userID uint) *http.Request {
	return req.WithContext(identity.Set(req.Context(), &identity.Identity{UserID: userID}))
}
