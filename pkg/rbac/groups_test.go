package rbac

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/model"
)

func roleIDs(roles []model.Role) []uint {
	ids := make([]uint, 0, len(roles))
	for _, r := range roles {
		ids = append(ids, r.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func TestGroupCreateValidation(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty", input: "", wantErr: ErrValidation},
		{name: "leading whitespace", input: " Staff", wantErr: ErrValidation},
		{name: "trailing whitespace", input: "Staff\t", wantErr: ErrValidation},
		{name: "inner whitespace is fine", input: "Night Staff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group, err := svc.Groups.Create(ctx, tt.input, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, group.ID)
			assert.Equal(t, tt.input, group.Name)
		})
	}
}

func TestGroupCreateDuplicateName(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Groups.Create(ctx, "Staff", strPtr("everyone"))
	require.NoError(t, err)

	_, err = svc.Groups.Create(ctx, "Staff", nil)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestGroupUpdate(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	id := mustGroup(t, svc, "Staff")
	mustGroup(t, svc, "Admins")

	t.Run("description only keeps name", func(t *testing.T) {
		group, err := svc.Groups.Update(ctx, id, NamedUpdate{Description: strPtr("all staff")})
		require.NoError(t, err)
		assert.Equal(t, "Staff", group.Name)
		require.NotNil(t, group.Description)
		assert.Equal(t, "all staff", *group.Description)
	})

	t.Run("empty description is kept as empty", func(t *testing.T) {
		group, err := svc.Groups.Update(ctx, id, NamedUpdate{Description: strPtr("")})
		require.NoError(t, err)
		require.NotNil(t, group.Description)
		assert.Equal(t, "", *group.Description)
	})

	t.Run("same name is not a conflict", func(t *testing.T) {
		_, err := svc.Groups.Update(ctx, id, NamedUpdate{Name: strPtr("Staff")})
		assert.NoError(t, err)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := svc.Groups.Update(ctx, id, NamedUpdate{Name: strPtr("")})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("name taken", func(t *testing.T) {
		_, err := svc.Groups.Update(ctx, id, NamedUpdate{Name: strPtr("Admins")})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("rename", func(t *testing.T) {
		group, err := svc.Groups.Update(ctx, id, NamedUpdate{Name: strPtr("Crew")})
		require.NoError(t, err)
		assert.Equal(t, "Crew", group.Name)
	})

	t.Run("missing group", func(t *testing.T) {
		_, err := svc.Groups.Update(ctx, 999, NamedUpdate{Name: strPtr("Nobody")})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGroupAssignRolesIsUnion(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	g := mustGroup(t, svc, "Staff")
	r1 := mustRole(t, svc, "R1")
	r2 := mustRole(t, svc, "R2")
	r3 := mustRole(t, svc, "R3")

	_, err := svc.Groups.AssignRoles(ctx, g, []uint{r1, r2})
	require.NoError(t, err)

	group, err := svc.Groups.AssignRoles(ctx, g, []uint{r1, r3})
	require.NoError(t, err)

	assert.Equal(t, []uint{r1, r2, r3}, roleIDs(group.Roles))
}

func TestGroupAssignIsAllOrNothing(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	g := mustGroup(t, svc, "Staff")
	r1 := mustRole(t, svc, "R1")

	_, err := svc.Groups.AssignRoles(ctx, g, []uint{r1, 999})
	assert.ErrorIs(t, err, ErrValidation)

	roles, err := svc.Groups.Roles(ctx, g)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestGroupAssignErrors(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	g := mustGroup(t, svc, "Staff")
	u := mustUser(t, svc, "alice")

	_, err := svc.Groups.AssignUsers(ctx, 999, []uint{u})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Groups.AssignUsers(ctx, g, nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Groups.RemoveUsers(ctx, 999, []uint{u})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGroupRemoveIgnoresNonMembers(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	g := mustGroup(t, svc, "Staff")
	alice := mustUser(t, svc, "alice")
	bob := mustUser(t, svc, "bob")

	_, err := svc.Groups.AssignUsers(ctx, g, []uint{alice, bob, alice})
	require.NoError(t, err)

	group, err := svc.Groups.RemoveUsers(ctx, g, []uint{bob, 12345})
	require.NoError(t, err)
	require.Len(t, group.Users, 1)
	assert.Equal(t, alice, group.Users[0].ID)
}

func TestGroupDeleteDetachesEdges(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	g := mustGroup(t, svc, "Staff")
	alice := mustUser(t, svc, "alice")
	r := mustRole(t, svc, "Editor")

	_, err := svc.Groups.AssignUsers(ctx, g, []uint{alice})
	require.NoError(t, err)
	_, err = svc.Groups.AssignRoles(ctx, g, []uint{r})
	require.NoError(t, err)

	require.NoError(t, svc.Groups.Delete(ctx, g))

	_, err = svc.Groups.Get(ctx, g)
	assert.ErrorIs(t, err, ErrNotFound)

	user, err := svc.Users.Get(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, user.Groups)

	role, err := svc.Roles.Get(ctx, r)
	require.NoError(t, err)
	assert.Empty(t, role.Groups)

	assert.ErrorIs(t, svc.Groups.Delete(ctx, g), ErrNotFound)
}

func TestGroupGetByName(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	id := mustGroup(t, svc, "Staff")

	group, err := svc.Groups.GetByName(ctx, "Staff")
	require.NoError(t, err)
	assert.Equal(t, id, group.ID)

	_, err = svc.Groups.GetByName(ctx, "staff")
	assert.ErrorIs(t, err, ErrNotFound)
}
