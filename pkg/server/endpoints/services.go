package endpoints

import (
	"context"
	"time"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/access"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/authenticator"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/model"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/rbac"
)

// The interfaces below are the slices of the rbac services that each group
// of handlers depends on.

type UserService interface {
	Get(ctx context.Context, id uint) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id uint, in rbac.UserUpdate) (*model.User, error)
	Delete(ctx context.Context, id uint) error
	AssignGroups(ctx context.Context, id uint, groupIDs []uint) (*model.User, error)
	RemoveGroups(ctx context.Context, id uint, groupIDs []uint) (*model.User, error)
	Groups(ctx context.Context, id uint) ([]model.Group, error)
}

type GroupService interface {
	Create(ctx context.Context, name string, description *string) (*model.Group, error)
	Get(ctx context.Context, id uint) (*model.Group, error)
	List(ctx context.Context) ([]model.Group, error)
	Update(ctx context.Context, id uint, in rbac.NamedUpdate) (*model.Group, error)
	Delete(ctx context.Context, id uint) error
	AssignUsers(ctx context.Context, id uint, userIDs []uint) (*model.Group, error)
	RemoveUsers(ctx context.Context, id uint, userIDs []uint) (*model.Group, error)
	AssignRoles(ctx context.Context, id uint, roleIDs []uint) (*model.Group, error)
	RemoveRoles(ctx context.Context, id uint, roleIDs []uint) (*model.Group, error)
	Users(ctx context.Context, id uint) ([]model.User, error)
	Roles(ctx context.Context, id uint) ([]model.Role, error)
}

type RoleService interface {
	Create(ctx context.Context, name string, description *string) (*model.Role, error)
	Get(ctx context.Context, id uint) (*model.Role, error)
	List(ctx context.Context) ([]model.Role, error)
	Update(ctx context.Context, id uint, in rbac.NamedUpdate) (*model.Role, error)
	Delete(ctx context.Context, id uint) error
	AssignGroups(ctx context.Context, id uint, groupIDs []uint) (*model.Role, error)
	RemoveGroups(ctx context.Context, id uint, groupIDs []uint) (*model.Role, error)
	AssignPermissions(ctx context.Context, id uint, permissionIDs []uint) (*model.Role, error)
	RemovePermissions(ctx context.Context, id uint, permissionIDs []uint) (*model.Role, error)
	Groups(ctx context.Context, id uint) ([]model.Group, error)
	Permissions(ctx context.Context, id uint) ([]model.Permission, error)
}

type ModuleService interface {
	Create(ctx context.Context, name string, description *string) (*model.Module, error)
	Get(ctx context.Context, id uint) (*model.Module, error)
	List(ctx context.Context) ([]model.Module, error)
	Update(ctx context.Context, id uint, in rbac.NamedUpdate) (*model.Module, error)
	Delete(ctx context.Context, id uint) error
	Permissions(ctx context.Context, id uint) ([]model.Permission, error)
}

type PermissionService interface {
	Create(ctx context.Context, action string, moduleID uint, description *string) (*model.Permission, error)
	Get(ctx context.Context, id uint) (*model.Permission, error)
	List(ctx context.Context) ([]model.Permission, error)
	Update(ctx context.Context, id uint, in rbac.PermissionUpdate) (*model.Permission, error)
	Delete(ctx context.Context, id uint) error
	AssignRoles(ctx context.Context, id uint, roleIDs []uint) (*model.Permission, error)
	RemoveRoles(ctx context.Context, id uint, roleIDs []uint) (*model.Permission, error)
	Roles(ctx context.Context, id uint) ([]model.Role, error)
}

// AccessGate answers access questions for the /access routes.
type AccessGate interface {
	Permissions(ctx context.Context, userID uint) ([]model.Permission, error)
	IsAllowed(ctx context.Context, userID uint, module, action string) (bool, error)
	Simulate(ctx context.Context, userID uint, module, action string) (*access.Decision, error)
}

// PasswordAuth authenticates and registers users.
type PasswordAuth interface {
	Authenticate(ctx context.Context, input authenticator.AuthenticatorInput) (*model.User, error)
	Register(ctx context.Context, username, password string) (*model.User, error)
}

type TokenIssuer interface {
	Issue(user *model.User) (string, time.Time, error)
}

var (
	_ UserService       = (*rbac.UserService)(nil)
	_ GroupService      = (*rbac.GroupService)(nil)
	_ RoleService       = (*rbac.RoleService)(nil)
	_ ModuleService     = (*rbac.ModuleService)(nil)
	_ PermissionService = (*rbac.PermissionService)(nil)
	_ AccessGate        = (*access.Gate)(nil)
)
