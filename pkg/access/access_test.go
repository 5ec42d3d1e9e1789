package access

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/rbac"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server/store/gorm/gormtest"
)

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

type fixture struct {
	svc  *rbac.Services
	gate *Gate
	m    *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := gorm.NewStore(gormtest.Open(t))
	m := metrics.New(nil)
	return &fixture{
		svc:  rbac.NewServices(s, plainHasher{}),
		gate: NewGate(NewResolver(s), WithMetrics(m)),
		m:    m,
	}
}

// aliceScenario builds: module Users, permission create on Users, role
// Editor holding it, group Staff holding Editor, alice in Staff.
func aliceScenario(t *testing.T, f *fixture) (userID uint) {
	t.Helper()
	ctx := context.Background()

	module, err := f.svc.Modules.Create(ctx, "Users", nil)
	require.NoError(t, err)
	perm, err := f.svc.Permissions.Create(ctx, "create", module.ID, nil)
	require.NoError(t, err)
	role, err := f.svc.Roles.Create(ctx, "Editor", nil)
	require.NoError(t, err)
	_, err = f.svc.Roles.AssignPermissions(ctx, role.ID, []uint{perm.ID})
	require.NoError(t, err)
	group, err := f.svc.Groups.Create(ctx, "Staff", nil)
	require.NoError(t, err)
	_, err = f.svc.Groups.AssignRoles(ctx, group.ID, []uint{role.ID})
	require.NoError(t, err)
	alice, err := f.svc.Users.Create(ctx, "alice", "pw")
	require.NoError(t, err)
	_, err = f.svc.Groups.AssignUsers(ctx, group.ID, []uint{alice.ID})
	require.NoError(t, err)

	return alice.ID
}

func TestEndToEndAlice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := aliceScenario(t, f)

	allowed, err := f.gate.IsAllowed(ctx, alice, "Users", "create")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = f.gate.IsAllowed(ctx, alice, "Users", "delete")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestIsAllowedIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	alice := aliceScenario(t, f)

	allowed, err := f.gate.IsAllowed(context.Background(), alice, "uSeRs", "CREATE")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestIsAllowedUnknownModuleOrAction(t *testing.T) {
	f := newFixture(t)
	alice := aliceScenario(t, f)

	for _, tc := range [][2]string{{"Nope", "create"}, {"Users", "fly"}, {"", ""}} {
		allowed, err := f.gate.IsAllowed(context.Background(), alice, tc[0], tc[1])
		require.NoError(t, err)
		assert.False(t, allowed, "%v", tc)
	}
}

func TestIsAllowedUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.gate.IsAllowed(context.Background(), 404, "Users", "create")
	assert.ErrorIs(t, err, rbac.ErrNotFound)
}

func TestResolveDeduplicatesAcrossPaths(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := aliceScenario(t, f)

	// A second group and role reach the same permission.
	perms, err := f.svc.Permissions.List(ctx)
	require.NoError(t, err)
	require.Len(t, perms, 1)

	role, err := f.svc.Roles.Create(ctx, "Also Editor", nil)
	require.NoError(t, err)
	_, err = f.svc.Roles.AssignPermissions(ctx, role.ID, []uint{perms[0].ID})
	require.NoError(t, err)
	group, err := f.svc.Groups.Create(ctx, "Night Staff", nil)
	require.NoError(t, err)
	_, err = f.svc.Groups.AssignRoles(ctx, group.ID, []uint{role.ID})
	require.NoError(t, err)
	_, err = f.svc.Users.AssignGroups(ctx, alice, []uint{group.ID})
	require.NoError(t, err)

	resolver := f.gate.resolver
	first, err := resolver.Resolve(ctx, alice)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, perms[0].ID, first[0].ID)
	require.NotNil(t, first[0].Module)
	assert.Equal(t, "Users", first[0].Module.Name)

	second, err := resolver.Resolve(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveUserWithoutGroups(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bob, err := f.svc.Users.Create(ctx, "bob", "pw")
	require.NoError(t, err)

	perms, err := f.gate.resolver.Resolve(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, perms)
}

func TestSimulate(t *testing.T) {
	f := newFixture(t)
	alice := aliceScenario(t, f)

	decision, err := f.gate.Simulate(context.Background(), alice, "Users", "delete")
	require.NoError(t, err)

	assert.False(t, decision.Allowed)
	assert.Equal(t, "delete on Users", decision.RequiredPermission)
	assert.Equal(t, "alice", decision.User.Username)
	require.Len(t, decision.UserPermissions, 1)
	assert.Equal(t, "create on Users", decision.UserPermissions[0].Describe())

	decision, err = f.gate.Simulate(context.Background(), alice, "Ghosts", "read")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
}

func TestAuthorizeAndGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := aliceScenario(t, f)

	ran := false
	op := func(context.Context) error {
		ran = true
		return nil
	}

	require.NoError(t, f.gate.Guard(ctx, alice, "Users", "create", op))
	assert.True(t, ran)

	ran = false
	err := f.gate.Guard(ctx, alice, "Users", "delete", op)
	assert.ErrorIs(t, err, rbac.ErrForbidden)
	assert.False(t, ran)

	err = f.gate.Guard(ctx, 999, "Users", "create", op)
	require.Error(t, err)
	assert.False(t, errors.Is(err, rbac.ErrForbidden))
	assert.False(t, ran)

	assert.Equal(t, float64(1), testutil.ToFloat64(f.m.AccessDecisionsTotal.WithLabelValues("Users", "create", "allowed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.m.AccessDecisionsTotal.WithLabelValues("Users", "delete", "denied")))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.m.AccessDecisionsTotal.WithLabelValues("Users", "create", "error")))
}

func TestDecisionsReflectCurrentStorage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := aliceScenario(t, f)

	groups, err := f.svc.Users.Groups(ctx, alice)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	_, err = f.svc.Users.RemoveGroups(ctx, alice, []uint{groups[0].ID})
	require.NoError(t, err)

	allowed, err := f.gate.IsAllowed(ctx, alice, "Users", "create")
	require.NoError(t, err)
	assert.False(t, allowed)
}
