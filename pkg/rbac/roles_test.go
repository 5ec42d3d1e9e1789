package rbac

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleDeleteDetachesGroupsAndPermissions(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	m := mustModule(t, svc, "Users")
	p, err := svc.Permissions.Create(ctx, "read", m, nil)
	require.NoError(t, err)
	r := mustRole(t, svc, "Viewer")
	g := mustGroup(t, svc, "Staff")

	_, err = svc.Roles.AssignPermissions(ctx, r, []uint{p.ID})
	require.NoError(t, err)
	role, err := svc.Roles.AssignGroups(ctx, r, []uint{g})
	require.NoError(t, err)
	require.Len(t, role.Groups, 1)
	require.Len(t, role.Permissions, 1)
	require.NotNil(t, role.Permissions[0].Module)

	require.NoError(t, svc.Roles.Delete(ctx, r))

	group, err := svc.Groups.Get(ctx, g)
	require.NoError(t, err)
	assert.Empty(t, group.Roles)

	perm, err := svc.Permissions.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, perm.Roles)
}

func TestRoleRemoveGroups(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	r := mustRole(t, svc, "Viewer")
	g1 := mustGroup(t, svc, "One")
	g2 := mustGroup(t, svc, "Two")

	_, err := svc.Roles.AssignGroups(ctx, r, []uint{g1, g2})
	require.NoError(t, err)

	role, err := svc.Roles.RemoveGroups(ctx, r, []uint{g1})
	require.NoError(t, err)
	require.Len(t, role.Groups, 1)
	assert.Equal(t, g2, role.Groups[0].ID)

	groups, err := svc.Roles.Groups(ctx, r)
	require.NoError(t, err)
	assert.Len(t, groups, 1)

	roles, err := svc.Roles.List(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 1)
}

func TestRoleUpdateAndLookup(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	r := mustRole(t, svc, "Viewer")

	role, err := svc.Roles.Update(ctx, r, NamedUpdate{Name: strPtr("Reader")})
	require.NoError(t, err)
	assert.Equal(t, "Reader", role.Name)

	_, err = svc.Roles.Update(ctx, r, NamedUpdate{Name: strPtr(" Reader")})
	assert.ErrorIs(t, err, ErrValidation)

	byName, err := svc.Roles.GetByName(ctx, "Reader")
	require.NoError(t, err)
	assert.Equal(t, r, byName.ID)
}
