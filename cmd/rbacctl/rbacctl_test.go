package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsURL(t *testing.T) {
	t.Run("requires DATABASE_URL", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		_, err := migrationsURL()
		assert.Error(t, err)
	})

	t.Run("appends query", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://rbac@localhost/rbac")
		url, err := migrationsURL()
		require.NoError(t, err)
		assert.Equal(t, "postgres://rbac@localhost/rbac?x-migrations-table=rbac_schema_migrations", url)
	})

	t.Run("extends existing query", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://rbac@localhost/rbac?sslmode=disable")
		url, err := migrationsURL()
		require.NoError(t, err)
		assert.Equal(t, "postgres://rbac@localhost/rbac?sslmode=disable&x-migrations-table=rbac_schema_migrations", url)
	})
}

func TestDefaultListenAddress(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BIND_ADDRESS", "")
	assert.Equal(t, "8000", defaultPort())
	assert.Equal(t, 8000, defaultPortInt())
	assert.Equal(t, "0.0.0.0", defaultBindAddress())

	t.Setenv("PORT", "9090")
	t.Setenv("BIND_ADDRESS", "127.0.0.1")
	assert.Equal(t, "9090", defaultPort())
	assert.Equal(t, 9090, defaultPortInt())
	assert.Equal(t, "127.0.0.1", defaultBindAddress())

	t.Setenv("PORT", "not-a-port")
	assert.Equal(t, 8000, defaultPortInt())
}

func TestListMigrationFiles(t *testing.T) {
	t.Setenv("RBAC_MIGRATIONS_PATH", "../../db/migrations")
	files, err := listMigrationFiles()
	require.NoError(t, err)
	assert.Contains(t, files, "000001_create_rbac_tables.up.sql")
	for _, f := range files {
		assert.NotContains(t, f, ".down.")
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, path := range [][]string{
		{"server"},
		{"db", "migrate"},
		{"db", "down"},
		{"db", "status"},
		{"db", "wait"},
		{"seed"},
		{"seed", "watch"},
		{"user", "create"},
		{"check"},
		{"configuration", "show"},
		{"wait"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
