package rbac

import (
	"context"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/model"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server/store"
)

var rolePaths = []string{"Groups", "Permissions.Module"}

// RoleService manages roles and their group and permission edges.
type RoleService struct {
	store store.Store
}

func NewRoleService(s store.Store) *RoleService {
	return &RoleService{store: s}
}

func (s *RoleService) Create(ctx context.Context, name string, description *string) (*model.Role, error) {
	role := &model.Role{Name: name, Description: description}
	if err := createNamed(ctx, s.store, &model.Role{}, role, "role", name); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *RoleService) Get(ctx context.Context, id uint) (*model.Role, error) {
	return s.get(ctx, s.store, id)
}

func (s *RoleService) get(ctx context.Context, st store.Store, id uint) (*model.Role, error) {
	var role model.Role
	if err := st.Find(ctx, &role, id, rolePaths...); err != nil {
		return nil, storeErr(err, "role", id)
	}
	return &role, nil
}

func (s *RoleService) GetByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	if err := s.store.FindBy(ctx, &role, "name", name, rolePaths...); err != nil {
		return nil, storeNameErr(err, "role", name)
	}
	return &role, nil
}

func (s *RoleService) List(ctx context.Context) ([]model.Role, error) {
	roles := []model.Role{}
	if err := s.store.List(ctx, &roles, rolePaths...); err != nil {
		return nil, err
	}
	return roles, nil
}

func (s *RoleService) Update(ctx context.Context, id uint, in NamedUpdate) (*model.Role, error) {
	var out *model.Role
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		current, err := s.get(ctx, tx, id)
		if err != nil {
			return err
		}
		values, err := namedValues(ctx, tx, &model.Role{}, "role", current.Name, in)
		if err != nil {
			return err
		}
		if len(values) > 0 {
			if err := tx.Update(ctx, &model.Role{}, id, values); err != nil {
				return storeErr(err, "role", id)
			}
		}
		out, err = s.get(ctx, tx, id)
		return err
	})
	return out, err
}

// Delete detaches the role from its groups and permissions and removes it.
func (s *RoleService) Delete(ctx context.Context, id uint) error {
	return deleteDetached(ctx, s.store, &model.Role{}, "role", id, store.RoleGroups, store.RolePermissions)
}

var (
	roleGroupsEdge      = edge{rel: store.RoleGroups, owner: &model.Role{}, ownerLabel: "role", member: &model.Group{}, memberLabel: "groups"}
	rolePermissionsEdge = edge{rel: store.RolePermissions, owner: &model.Role{}, ownerLabel: "role", member: &model.Permission{}, memberLabel: "permissions"}
)

func (s *RoleService) AssignGroups(ctx context.Context, id uint, groupIDs []uint) (*model.Role, error) {
	return s.mutate(ctx, assign, roleGroupsEdge, id, groupIDs)
}

func (s *RoleService) RemoveGroups(ctx context.Context, id uint, groupIDs []uint) (*model.Role, error) {
	return s.mutate(ctx, unassign, roleGroupsEdge, id, groupIDs)
}

func (s *RoleService) AssignPermissions(ctx context.Context, id uint, permissionIDs []uint) (*model.Role, error) {
	return s.mutate(ctx, assign, rolePermissionsEdge, id, permissionIDs)
}

func (s *RoleService) RemovePermissions(ctx context.Context, id uint, permissionIDs []uint) (*model.Role, error) {
	return s.mutate(ctx, unassign, rolePermissionsEdge, id, permissionIDs)
}

func (s *RoleService) Groups(ctx context.Context, id uint) ([]model.Group, error) {
	role, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return role.Groups, nil
}

func (s *RoleService) Permissions(ctx context.Context, id uint) ([]model.Permission, error) {
	role, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return role.Permissions, nil
}

func (s *RoleService) mutate(ctx context.Context, op edgeOp, e edge, id uint, ids []uint) (*model.Role, error) {
	var out *model.Role
	err := op(ctx, s.store, e, id, ids, func(tx store.Store) (err error) {
		out, err = s.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
