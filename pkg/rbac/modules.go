package rbac

import (
	"context"
	"errors"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/model"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server/store"
)

var modulePaths = []string{"Permissions"}

// ModuleService manages modules. A module owns its permissions and cannot
// be removed while any exist.
type ModuleService struct {
	store store.Store
}

func NewModuleService(s store.Store) *ModuleService {
	return &ModuleService{store: s}
}

func (s *ModuleService) Create(ctx context.Context, name string, description *string) (*model.Module, error) {
	module := &model.Module{Name: name, Description: description}
	if err := createNamed(ctx, s.store, &model.Module{}, module, "module", name); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *ModuleService) Get(ctx context.Context, id uint) (*model.Module, error) {
	return s.get(ctx, s.store, id)
}

func (s *ModuleService) get(ctx context.Context, st store.Store, id uint) (*model.Module, error) {
	var module model.Module
	if err := st.Find(ctx, &module, id, modulePaths...); err != nil {
		return nil, storeErr(err, "module", id)
	}
	return &module, nil
}

func (s *ModuleService) GetByName(ctx context.Context, name string) (*model.Module, error) {
	var module model.Module
	if err := s.store.FindBy(ctx, &module, "name", name, modulePaths...); err != nil {
		return nil, storeNameErr(err, "module", name)
	}
	return &module, nil
}

func (s *ModuleService) List(ctx context.Context) ([]model.Module, error) {
	modules := []model.Module{}
	if err := s.store.List(ctx, &modules, modulePaths...); err != nil {
		return nil, err
	}
	return modules, nil
}

func (s *ModuleService) Update(ctx context.Context, id uint, in NamedUpdate) (*model.Module, error) {
	var out *model.Module
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		current, err := s.get(ctx, tx, id)
		if err != nil {
			return err
		}
		values, err := namedValues(ctx, tx, &model.Module{}, "module", current.Name, in)
		if err != nil {
			return err
		}
		if len(values) > 0 {
			if err := tx.Update(ctx, &model.Module{}, id, values); err != nil {
				return storeErr(err, "module", id)
			}
		}
		out, err = s.get(ctx, tx, id)
		return err
	})
	return out, err
}

// Delete removes a module that no permission references.
func (s *ModuleService) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx store.Store) error {
		if err := requireExists(ctx, tx, &model.Module{}, "module", id); err != nil {
			return err
		}
		n, err := tx.Count(ctx, &model.Permission{}, "module_id", id)
		if err != nil {
			return err
		}
		if n > 0 {
			return hasDependentsf("module %d still has %d permission(s)", id, n)
		}
		err = tx.Delete(ctx, &model.Module{}, id)
		if errors.Is(err, store.ErrReferenced) {
			return hasDependentsf("module %d still has permissions", id)
		}
		return storeErr(err, "module", id)
	})
}

// Permissions lists the permissions defined on the module.
func (s *ModuleService) Permissions(ctx context.Context, id uint) ([]model.Permission, error) {
	if err := requireExists(ctx, s.store, &model.Module{}, "module", id); err != nil {
		return nil, err
	}
	permissions := []model.Permission{}
	if err := s.store.ListBy(ctx, &permissions, "module_id", id, "Module"); err != nil {
		return nil, err
	}
	return permissions, nil
}
