package rbac

import (
	"context"
	"errors"
	"strings"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/model"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server/store"
)

var permissionPaths = []string{"Module", "Roles"}

// PermissionService manages permissions. A permission's module is fixed at
// creation; only its action and description can change.
type PermissionService struct {
	store store.Store
}

func NewPermissionService(s store.Store) *PermissionService {
	return &PermissionService{store: s}
}

// PermissionUpdate is a partial update of a permission.
type PermissionUpdate struct {
	Action      *string `json:"action"`
	Description *string `json:"description"`
}

// ParseAction accepts any casing of create, read, update or delete.
func ParseAction(action string) (model.Action, error) {
	a, err := model.ActionString(action)
	if err != nil {
		return 0, Validationf("invalid action %q: must be one of %s", action, strings.Join(model.ActionStrings(), ", "))
	}
	return a, nil
}

func (s *PermissionService) Create(ctx context.Context, action string, moduleID uint, description *string) (*model.Permission, error) {
	a, err := ParseAction(action)
	if err != nil {
		return nil, err
	}

	var out *model.Permission
	err = s.store.Transaction(ctx, func(tx store.Store) error {
		if err := requireExists(ctx, tx, &model.Module{}, "module", moduleID); err != nil {
			return err
		}
		if err := checkActionFree(ctx, tx, moduleID, a, 0); err != nil {
			return err
		}
		permission := &model.Permission{Action: a, ModuleID: moduleID, Description: description}
		if err := tx.Insert(ctx, permission); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return Conflictf("permission %q already exists on module %d", a, moduleID)
			}
			return err
		}
		out, err = s.get(ctx, tx, permission.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func checkActionFree(ctx context.Context, tx store.Store, moduleID uint, action model.Action, selfID uint) error {
	var existing []model.Permission
	if err := tx.ListBy(ctx, &existing, "module_id", moduleID); err != nil {
		return err
	}
	for _, p := range existing {
		if p.Action == action && p.ID != selfID {
			return Conflictf("permission %q already exists on module %d", action, moduleID)
		}
	}
	return nil
}

func (s *PermissionService) Get(ctx context.Context, id uint) (*model.Permission, error) {
	return s.get(ctx, s.store, id)
}

func (s *PermissionService) get(ctx context.Context, st store.Store, id uint) (*model.Permission, error) {
	var permission model.Permission
	if err := st.Find(ctx, &permission, id, permissionPaths...); err != nil {
		return nil, storeErr(err, "permission", id)
	}
	return &permission, nil
}

func (s *PermissionService) List(ctx context.Context) ([]model.Permission, error) {
	permissions := []model.Permission{}
	if err := s.store.List(ctx, &permissions, permissionPaths...); err != nil {
		return nil, err
	}
	return permissions, nil
}

// ListByModule lists the permissions of one module.
func (s *PermissionService) ListByModule(ctx context.Context, moduleID uint) ([]model.Permission, error) {
	if err := requireExists(ctx, s.store, &model.Module{}, "module", moduleID); err != nil {
		return nil, err
	}
	permissions := []model.Permission{}
	if err := s.store.ListBy(ctx, &permissions, "module_id", moduleID, permissionPaths...); err != nil {
		return nil, err
	}
	return permissions, nil
}

func (s *PermissionService) Update(ctx context.Context, id uint, in PermissionUpdate) (*model.Permission, error) {
	values := map[string]interface{}{}
	var action *model.Action
	if in.Action != nil {
		a, err := ParseAction(*in.Action)
		if err != nil {
			return nil, err
		}
		action = &a
		values["action"] = a
	}
	if in.Description != nil {
		values["description"] = *in.Description
	}

	var out *model.Permission
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		current, err := s.get(ctx, tx, id)
		if err != nil {
			return err
		}
		if action != nil && *action != current.Action {
			if err := checkActionFree(ctx, tx, current.ModuleID, *action, id); err != nil {
				return err
			}
		}
		if len(values) > 0 {
			if err := tx.Update(ctx, &model.Permission{}, id, values); err != nil {
				return storeErr(err, "permission", id)
			}
		}
		out, err = s.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete detaches the permission from its roles and removes it.
func (s *PermissionService) Delete(ctx context.Context, id uint) error {
	return deleteDetached(ctx, s.store, &model.Permission{}, "permission", id, store.PermissionRoles)
}

var permissionRolesEdge = edge{rel: store.PermissionRoles, owner: &model.Permission{}, ownerLabel: "permission", member: &model.Role{}, memberLabel: "roles"}

func (s *PermissionService) AssignRoles(ctx context.Context, id uint, roleIDs []uint) (*model.Permission, error) {
	return s.mutate(ctx, assign, id, roleIDs)
}

func (s *PermissionService) RemoveRoles(ctx context.Context, id uint, roleIDs []uint) (*model.Permission, error) {
	return s.mutate(ctx, unassign, id, roleIDs)
}

func (s *PermissionService) Roles(ctx context.Context, id uint) ([]model.Role, error) {
	permission, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return permission.Roles, nil
}

func (s *PermissionService) mutate(ctx context.Context, op edgeOp, id uint, ids []uint) (*model.Permission, error) {
	var out *model.Permission
	err := op(ctx, s.store, permissionRolesEdge, id, ids, func(tx store.Store) (err error) {
		out, err = s.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
