package access

import (
	"context"
	"errors"
	"sort"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/model"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/rbac"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server/store"
)

// PermissionPath is the relation path fetched to resolve a user.
const PermissionPath = "Groups.Roles.Permissions.Module"

// Resolver computes effective permission sets.
type Resolver struct {
	store store.Store
}

func NewResolver(s store.Store) *Resolver {
	return &Resolver{store: s}
}

// Resolve returns the permissions reachable from the user through its
// groups and their roles, each permission once, ordered by id.
func (r *Resolver) Resolve(ctx context.Context, userID uint) ([]model.Permission, error) {
	_, permissions, err := r.ResolveUser(ctx, userID)
	return permissions, err
}

// ResolveUser is Resolve that also returns the loaded user.
func (r *Resolver) ResolveUser(ctx context.Context, userID uint) (*model.User, []model.Permission, error) {
	var user model.User
	if err := r.store.Find(ctx, &user, userID, PermissionPath); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, rbac.NotFoundf("user %d not found", userID)
		}
		return nil, nil, err
	}
	return &user, flatten(&user), nil
}

func flatten(user *model.User) []model.Permission {
	seen := map[uint]struct{}{}
	permissions := []model.Permission{}
	for _, group := range user.Groups {
		for _, role := range group.Roles {
			for _, p := range role.Permissions {
				if _, ok := seen[p.ID]; ok {
					continue
				}
				seen[p.ID] = struct{}{}
				permissions = append(permissions, p)
			}
		}
	}
	sort.Slice(permissions, func(i, j int) bool { return permissions[i].ID < permissions[j].ID })
	return permissions
}
