package rbac

import (
	"context"
	"strings"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/model"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server/store"
)

var userPaths = []string{"Groups"}

// PasswordHasher turns a plain-text password into an opaque hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// UserService manages users and their group memberships. Users are created
// by registration; see pkg/authenticator/authn.
type UserService struct {
	store  store.Store
	hasher PasswordHasher
}

func NewUserService(s store.Store, hasher PasswordHasher) *UserService {
	return &UserService{store: s, hasher: hasher}
}

// UserUpdate is a partial update of a user.
type UserUpdate struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

func normalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", Validationf("username is required")
	}
	return username, nil
}

func (s *UserService) hash(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", Validationf("password is required")
	}
	return s.hasher.Hash(password)
}

// Create stores a new user with a hashed password.
func (s *UserService) Create(ctx context.Context, username, password string) (*model.User, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{Username: username, PasswordHash: hash}
	err = s.store.Transaction(ctx, func(tx store.Store) error {
		n, err := tx.Count(ctx, &model.User{}, "username", username)
		if err != nil {
			return err
		}
		if n > 0 {
			return Conflictf("User already exists")
		}
		if err := tx.Insert(ctx, user); err != nil {
			return storeErr(err, "user", 0)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*model.User, error) {
	return s.get(ctx, s.store, id)
}

func (s *UserService) get(ctx context.Context, st store.Store, id uint) (*model.User, error) {
	var user model.User
	if err := st.Find(ctx, &user, id, userPaths...); err != nil {
		return nil, storeErr(err, "user", id)
	}
	return &user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := s.store.FindBy(ctx, &user, "username", username, userPaths...); err != nil {
		return nil, storeNameErr(err, "user", username)
	}
	return &user, nil
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	if err := s.store.List(ctx, &users, userPaths...); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) Update(ctx context.Context, id uint, in UserUpdate) (*model.User, error) {
	if in.Username == nil && in.Password == nil {
		return nil, Validationf("username or password is required")
	}

	values := map[string]interface{}{}
	var username string
	if in.Username != nil {
		var err error
		if username, err = normalizeUsername(*in.Username); err != nil {
			return nil, err
		}
	}
	if in.Password != nil {
		hash, err := s.hash(*in.Password)
		if err != nil {
			return nil, err
		}
		values["password_hash"] = hash
	}

	var out *model.User
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		current, err := s.get(ctx, tx, id)
		if err != nil {
			return err
		}
		if in.Username != nil && username != current.Username {
			n, err := tx.Count(ctx, &model.User{}, "username", username)
			if err != nil {
				return err
			}
			if n > 0 {
				return Conflictf("username %q already exists", username)
			}
			values["username"] = username
		}
		if len(values) > 0 {
			if err := tx.Update(ctx, &model.User{}, id, values); err != nil {
				return storeErr(err, "user", id)
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

// Delete detaches the user from its groups and removes it.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	return deleteDetached(ctx, s.store, &model.User{}, "user", id, store.UserGroups)
}

var userGroupsEdge = edge{rel: store.UserGroups, owner: &model.User{}, ownerLabel: "user", member: &model.Group{}, memberLabel: "groups"}

func (s *UserService) AssignGroups(ctx context.Context, id uint, groupIDs []uint) (*model.User, error) {
	return s.mutate(ctx, assign, id, groupIDs)
}

func (s *UserService) RemoveGroups(ctx context.Context, id uint, groupIDs []uint) (*model.User, error) {
	return s.mutate(ctx, unassign, id, groupIDs)
}

func (s *UserService) Groups(ctx context.Context, id uint) ([]model.Group, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Groups, nil
}

func (s *UserService) mutate(ctx context.Context, op edgeOp, id uint, ids []uint) (*model.User, error) {
	var out *model.User
	err := op(ctx, s.store, userGroupsEdge, id, ids, func(tx store.Store) (err error) {
		out, err = s.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
