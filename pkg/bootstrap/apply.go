package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/rbac"
)

// Result counts the entities created by one Apply.
type Result struct {
	Modules     int `json:"modules"`
	Permissions int `json:"permissions"`
	Roles       int `json:"roles"`
	Groups      int `json:"groups"`
	Users       int `json:"users"`
}

func (r Result) Total() int {
	return r.Modules + r.Permissions + r.Roles + r.Groups + r.Users
}

func (r Result) String() string {
	return fmt.Sprintf("%d modules, %d permissions, %d roles, %d groups, %d users created",
		r.Modules, r.Permissions, r.Roles, r.Groups, r.Users)
}

// Applier creates the entities of a Document through the RBAC services.
// Applying the same document twice creates nothing the second time.
// Existing users keep their password.
type Applier struct {
	services *rbac.Services
	logger   *logrus.Logger
}

func NewApplier(services *rbac.Services, logger *logrus.Logger) *Applier {
	if logger == nil {
		logger = logrus.New()
	}
	return &Applier{services: services, logger: logger}
}

type applyRun struct {
	*Applier
	result      Result
	modules     map[string]uint
	permissions map[string]uint
	roles       map[string]uint
	groups      map[string]uint
}

func permissionKey(module, action string) string {
	return strings.ToLower(module) + "/" + strings.ToLower(action)
}

func (a *Applier) Apply(ctx context.Context, doc *Document) (Result, error) {
	run := &applyRun{
		Applier:     a,
		modules:     map[string]uint{},
		permissions: map[string]uint{},
		roles:       map[string]uint{},
		groups:      map[string]uint{},
	}

	for _, m := range doc.Modules {
		if err := run.module(ctx, m); err != nil {
			return run.result, fmt.Errorf("module %q: %w", m.Name, err)
		}
	}
	for _, r := range doc.Roles {
		if err := run.role(ctx, r); err != nil {
			return run.result, fmt.Errorf("role %q: %w", r.Name, err)
		}
	}
	for _, g := range doc.Groups {
		if err := run.group(ctx, g); err != nil {
			return run.result, fmt.Errorf("group %q: %w", g.Name, err)
		}
	}
	for _, u := range doc.Users {
		if err := run.user(ctx, u); err != nil {
			return run.result, fmt.Errorf("user %q: %w", u.Username, err)
		}
	}

	a.logger.WithFields(logrus.Fields{
		"modules":     run.result.Modules,
		"permissions": run.result.Permissions,
		"roles":       run.result.Roles,
		"groups":      run.result.Groups,
		"users":       run.result.Users,
	}).Info("bootstrap document applied")
	return run.result, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *applyRun) module(ctx context.Context, spec ModuleSpec) error {
	id, err := r.moduleID(ctx, spec.Name)
	if errors.Is(err, rbac.ErrNotFound) {
		m, cerr := r.services.Modules.Create(ctx, spec.Name, optional(spec.Description))
		if cerr != nil {
			return cerr
		}
		r.result.Modules++
		r.logger.WithField("module", spec.Name).Debug("created module")
		id, err = m.ID, nil
		r.modules[spec.Name] = id
	}
	if err != nil {
		return err
	}

	for _, action := range spec.Actions {
		if _, err := r.permissionID(ctx, spec.Name, action); err == nil {
			continue
		} else if !errors.Is(err, rbac.ErrNotFound) {
			return err
		}
		desc := fmt.Sprintf("%s %s", strings.ToLower(action), strings.ToLower(spec.Name))
		p, err := r.services.Permissions.Create(ctx, action, id, &desc)
		if err != nil {
			return err
		}
		r.permissions[permissionKey(spec.Name, action)] = p.ID
		r.result.Permissions++
	}
	return nil
}

func (r *applyRun) moduleID(ctx context.Context, name string) (uint, error) {
	if id, ok := r.modules[name]; ok {
		return id, nil
	}
	m, err := r.services.Modules.GetByName(ctx, name)
	if err != nil {
		return 0, err
	}
	r.modules[name] = m.ID
	return m.ID, nil
}

func (r *applyRun) permissionID(ctx context.Context, module, action string) (uint, error) {
	key := permissionKey(module, action)
	if id, ok := r.permissions[key]; ok {
		return id, nil
	}
	a, err := rbac.ParseAction(action)
	if err != nil {
		return 0, err
	}
	moduleID, err := r.moduleID(ctx, module)
	if err != nil {
		return 0, err
	}
	existing, err := r.services.Permissions.ListByModule(ctx, moduleID)
	if err != nil {
		return 0, err
	}
	for _, p := range existing {
		if p.Action == a {
			r.permissions[key] = p.ID
			return p.ID, nil
		}
	}
	return 0, rbac.NotFoundf("permission %q on module %q not found", a, module)
}

func (r *applyRun) role(ctx context.Context, spec RoleSpec) error {
	id, err := r.named(ctx, r.roles, spec.Name,
		func(ctx context.Context) (uint, error) {
			role, err := r.services.Roles.GetByName(ctx, spec.Name)
			if err != nil {
				return 0, err
			}
			return role.ID, nil
		},
		func(ctx context.Context) (uint, error) {
			role, err := r.services.Roles.Create(ctx, spec.Name, optional(spec.Description))
			if err != nil {
				return 0, err
			}
			r.result.Roles++
			return role.ID, nil
		})
	if err != nil {
		return err
	}

	var ids []uint
	for _, grant := range spec.Permissions {
		for _, action := range grant.Actions {
			pid, err := r.permissionID(ctx, grant.Module, action)
			if err != nil {
				return err
			}
			ids = append(ids, pid)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	_, err = r.services.Roles.AssignPermissions(ctx, id, ids)
	return err
}

func (r *applyRun) group(ctx context.Context, spec GroupSpec) error {
	id, err := r.named(ctx, r.groups, spec.Name,
		func(ctx context.Context) (uint, error) {
			g, err := r.services.Groups.GetByName(ctx, spec.Name)
			if err != nil {
				return 0, err
			}
			return g.ID, nil
		},
		func(ctx context.Context) (uint, error) {
			g, err := r.services.Groups.Create(ctx, spec.Name, optional(spec.Description))
			if err != nil {
				return 0, err
			}
			r.result.Groups++
			return g.ID, nil
		})
	if err != nil {
		return err
	}

	var ids []uint
	for _, name := range spec.Roles {
		rid, err := r.named(ctx, r.roles, name, func(ctx context.Context) (uint, error) {
			role, err := r.services.Roles.GetByName(ctx, name)
			if err != nil {
				return 0, err
			}
			return role.ID, nil
		}, nil)
		if err != nil {
			return err
		}
		ids = append(ids, rid)
	}
	if len(ids) == 0 {
		return nil
	}
	_, err = r.services.Groups.AssignRoles(ctx, id, ids)
	return err
}

func (r *applyRun) user(ctx context.Context, spec UserSpec) error {
	u, err := r.services.Users.GetByUsername(ctx, spec.Username)
	if errors.Is(err, rbac.ErrNotFound) {
		u, err = r.services.Users.Create(ctx, spec.Username, spec.Password)
		if err == nil {
			r.result.Users++
			r.logger.WithField("username", spec.Username).Info("created user")
		}
	}
	if err != nil {
		return err
	}

	var ids []uint
	for _, name := range spec.Groups {
		gid, err := r.named(ctx, r.groups, name, func(ctx context.Context) (uint, error) {
			g, err := r.services.Groups.GetByName(ctx, name)
			if err != nil {
				return 0, err
			}
			return g.ID, nil
		}, nil)
		if err != nil {
			return err
		}
		ids = append(ids, gid)
	}
	if len(ids) == 0 {
		return nil
	}
	_, err = r.services.Users.AssignGroups(ctx, u.ID, ids)
	return err
}

// named resolves name through cache, then lookup, then create when create
// is non-nil.
func (r *applyRun) named(
	ctx context.Context,
	cache map[string]uint,
	name string,
	lookup func(context.Context) (uint, error),
	create func(context.Context) (uint, error),
) (uint, error) {
	if id, ok := cache[name]; ok {
		return id, nil
	}
	id, err := lookup(ctx)
	if errors.Is(err, rbac.ErrNotFound) && create != nil {
		id, err = create(ctx)
	}
	if err != nil {
		return 0, err
	}
	cache[name] = id
	return id, nil
}
