package rbac

import (
	"context"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/model"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server/store"
)

var groupPaths = []string{"Users", "Roles"}

// GroupService manages groups and their user and role edges.
type GroupService struct {
	store store.Store
}

func NewGroupService(s store.Store) *GroupService {
	return &GroupService{store: s}
}

func (s *GroupService) Create(ctx context.Context, name string, description *string) (*model.Group, error) {
	group := &model.Group{Name: name, Description: description}
	if err := createNamed(ctx, s.store, &model.Group{}, group, "group", name); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) Get(ctx context.Context, id uint) (*model.Group, error) {
	return s.get(ctx, s.store, id)
}

func (s *GroupService) get(ctx context.Context, st store.Store, id uint) (*model.Group, error) {
	var group model.Group
	if err := st.Find(ctx, &group, id, groupPaths...); err != nil {
		return nil, storeErr(err, "group", id)
	}
	return &group, nil
}

// GetByName looks a group up by its exact name.
func (s *GroupService) GetByName(ctx context.Context, name string) (*model.Group, error) {
	var group model.Group
	if err := s.store.FindBy(ctx, &group, "name", name, groupPaths...); err != nil {
		return nil, storeNameErr(err, "group", name)
	}
	return &group, nil
}

func (s *GroupService) List(ctx context.Context) ([]model.Group, error) {
	groups := []model.Group{}
	if err := s.store.List(ctx, &groups, groupPaths...); err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *GroupService) Update(ctx context.Context, id uint, in NamedUpdate) (*model.Group, error) {
	var out *model.Group
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		current, err := s.get(ctx, tx, id)
		if err != nil {
			return err
		}
		values, err := namedValues(ctx, tx, &model.Group{}, "group", current.Name, in)
		if err != nil {
			return err
		}
		if len(values) > 0 {
			if err := tx.Update(ctx, &model.Group{}, id, values); err != nil {
				return storeErr(err, "group", id)
			}
		}
		out, err = s.get(ctx, tx, id)
		return err
	})
	return out, err
}

// Delete detaches the group from its users and roles and removes it.
func (s *GroupService) Delete(ctx context.Context, id uint) error {
	return deleteDetached(ctx, s.store, &model.Group{}, "group", id, store.GroupUsers, store.GroupRoles)
}

var (
	groupUsersEdge = edge{rel: store.GroupUsers, owner: &model.Group{}, ownerLabel: "group", member: &model.User{}, memberLabel: "users"}
	groupRolesEdge = edge{rel: store.GroupRoles, owner: &model.Group{}, ownerLabel: "group", member: &model.Role{}, memberLabel: "roles"}
)

func (s *GroupService) AssignUsers(ctx context.Context, id uint, userIDs []uint) (*model.Group, error) {
	return s.mutate(ctx, assign, groupUsersEdge, id, userIDs)
}

func (s *GroupService) RemoveUsers(ctx context.Context, id uint, userIDs []uint) (*model.Group, error) {
	return s.mutate(ctx, unassign, groupUsersEdge, id, userIDs)
}

func (s *GroupService) AssignRoles(ctx context.Context, id uint, roleIDs []uint) (*model.Group, error) {
	return s.mutate(ctx, assign, groupRolesEdge, id, roleIDs)
}

func (s *GroupService) RemoveRoles(ctx context.Context, id uint, roleIDs []uint) (*model.Group, error) {
	return s.mutate(ctx, unassign, groupRolesEdge, id, roleIDs)
}

func (s *GroupService) Users(ctx context.Context, id uint) ([]model.User, error) {
	group, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return group.Users, nil
}

func (s *GroupService) Roles(ctx context.Context, id uint) ([]model.Role, error) {
	group, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return group.Roles, nil
}

type edgeOp func(ctx context.Context, s store.Store, e edge, ownerID uint, ids []uint, reload func(tx store.Store) error) error

func (s *GroupService) mutate(ctx context.Context, op edgeOp, e edge, id uint, ids []uint) (*model.Group, error) {
	var out *model.Group
	err := op(ctx, s.store, e, id, ids, func(tx store.Store) (err error) {
		out, err = s.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
