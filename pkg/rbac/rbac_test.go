package rbac

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server/store/gorm/gormtest"
)

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func newTestServices(t *testing.T) *Services {
	t.Helper()
	return NewServices(gorm.NewStore(gormtest.Open(t)), plainHasher{})
}

func strPtr(s string) *string {
	return &s
}

func mustGroup(t *testing.T, svc *Services, name string) uint {
	t.Helper()
	g, err := svc.Groups.Create(context.Background(), name, nil)
	require.NoError(t, err)
	return g.ID
}

func mustRole(t *testing.T, svc *Services, name string) uint {
	t.Helper()
	r, err := svc.Roles.Create(context.Background(), name, nil)
	require.NoError(t, err)
	return r.ID
}

func mustModule(t *testing.T, svc *Services, name string) uint {
	t.Helper()
	m, err := svc.Modules.Create(context.Background(), name, nil)
	require.NoError(t, err)
	return m.ID
}

func mustUser(t *testing.T, svc *Services, username string) uint {
	t.Helper()
	u, err := svc.Users.Create(context.Background(), username, "pw")
	require.NoError(t, err)
	return u.ID
}
