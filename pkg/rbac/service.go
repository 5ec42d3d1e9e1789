package rbac

import "github.com/doodlesbykumbi/rbac-in-go/pkg/server/store"

// Services groups the per-entity services that share one store.
type Services struct {
	Users       *UserService
	Groups      *GroupService
	Roles       *RoleService
	Modules     *ModuleService
	Permissions *PermissionService
}

func NewServices(s store.Store, hasher PasswordHasher) *Services {
	return &Services{
		Users:       NewUserService(s, hasher),
		Groups:      NewGroupService(s),
		Roles:       NewRoleService(s),
		Modules:     NewModuleService(s),
		Permissions: NewPermissionService(s),
	}
}
