package integration

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/access"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/authenticator/authn"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/bootstrap"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/config"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/db"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/password"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/rbac"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server/endpoints"
	gormstore "github.com/doodlesbykumbi/rbac-in-go/pkg/server/store/gorm"
)

const (
	jwtSecret     = "integration-test-secret"
	adminPassword = "admin123"
)

// seededTables are cleared between scenarios, children first.
var seededTables = []string{
	"role_permissions", "group_roles", "user_groups",
	"permissions", "modules", "roles", "groups", "users",
}

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB            *gorm.DB
	RawDB         *sql.DB
	Container     testcontainers.Container
	ServerURL     string
	DatabaseURL   string
	Services      *rbac.Services
	HTTPClient    *http.Client
	Cancel        context.CancelFunc
	ServerProcess *exec.Cmd
	InlineServer  *server.Server
	logger        *logrus.Logger
}

// NewTestContext creates a new test context with PostgreSQL testcontainer.
// Modes:
//   - Binary mode (default): Set RBAC_BINARY to the path of the rbacctl binary
//   - Inline mode: Set RBAC_INLINE=1 to run the server in-process (no binary needed)
func NewTestContext(ctx context.Context) (*TestContext, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}
	migrationsDir := filepath.Join(projectRoot, "db", "migrations")

	inlineMode := os.Getenv("RBAC_INLINE") == "1"
	binaryPath := os.Getenv("RBAC_BINARY")

	if !inlineMode && binaryPath == "" {
		return nil, fmt.Errorf("Either RBAC_BINARY or RBAC_INLINE=1 is required.\n\nBinary mode:\n  go build -o rbacctl ./cmd/rbacctl\n  INTEGRATION_TEST=1 RBAC_BINARY=$(pwd)/rbacctl go test -v ./test/integration/...\n\nInline mode:\n  INTEGRATION_TEST=1 RBAC_INLINE=1 go test -v ./test/integration/...")
	}

	if !inlineMode {
		if _, err := os.Stat(binaryPath); err != nil {
			return nil, fmt.Errorf("RBAC_BINARY path does not exist: %s", binaryPath)
		}
		log.Printf("Using binary: %s", binaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("rbac_test"),
		tcpostgres.WithUsername("rbac"),
		tcpostgres.WithPassword("rbac"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	database, err := db.Connect(db.Config{URL: connStr})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	rawDB, err := database.DB()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get raw db: %w", err)
	}

	if err := runMigrations(rawDB, migrationsDir); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	hasher, err := password.NewBcrypt(bcrypt.MinCost)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	tc := &TestContext{
		DB:          database,
		RawDB:       rawDB,
		Container:   pgContainer,
		DatabaseURL: connStr,
		Services:    rbac.NewServices(gormstore.NewStore(database), hasher),
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
	}

	serverPort := "18080"
	tc.ServerURL = fmt.Sprintf("http://127.0.0.1:%s", serverPort)

	if inlineMode {
		tc.InlineServer, tc.Cancel, err = startInlineServer(database, hasher, logger, serverPort)
	} else {
		tc.ServerProcess, tc.Cancel, err = startBinary(binaryPath, connStr, serverPort)
	}
	if err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("failed to start server: %w", err)
	}

	if err := waitForServer(tc.ServerURL, 30*time.Second); err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return tc, nil
}

// startInlineServer starts the server in-process (no binary needed)
func startInlineServer(database *gorm.DB, hasher *password.Bcrypt, logger *logrus.Logger, port string) (*server.Server, context.CancelFunc, error) {
	st := gormstore.NewStore(database)
	services := rbac.NewServices(st, hasher)

	tokens, err := authn.NewTokens([]byte(jwtSecret), time.Hour)
	if err != nil {
		return nil, nil, err
	}
	m := metrics.New(prometheus.NewRegistry())

	s := server.NewServer(server.Components{
		Config:      &config.RBACConfig{RegistrationEnabled: true, EnforceWritePermissions: true},
		Logger:      logger,
		Services:    services,
		Gate:        access.NewGate(access.NewResolver(st), access.WithLogger(logger), access.WithMetrics(m)),
		Auth:        authn.New(services.Users, hasher, true),
		Tokens:      tokens,
		Metrics:     m,
		HealthStore: gormstore.NewHealthStore(database),
	}, "127.0.0.1", port)
	endpoints.RegisterAll(s)

	go func() {
		_ = s.Start()
	}()

	cancel := func() {
		ctx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = s.Shutdown(ctx)
	}
	return s, cancel, nil
}

// startBinary starts the rbacctl server binary
func startBinary(binaryPath, dbURL, port string) (*exec.Cmd, context.CancelFunc, error) {
	ctx, cancel := context.WithCancel(context.Background())

	// Migrations already ran in the test setup
	cmd := exec.CommandContext(ctx, binaryPath, "server", "-b", "127.0.0.1", "-p", port)
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+dbURL,
		"RBAC_JWT_SECRET="+jwtSecret,
		"RBAC_BCRYPT_COST=4",
		"RBAC_REGISTRATION_ENABLED=true",
		"RBAC_ENFORCE_WRITE_PERMISSIONS=true",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to start binary: %w", err)
	}

	return cmd, cancel, nil
}

// Reset clears all data and applies the default seed document.
func (tc *TestContext) Reset(ctx context.Context) error {
	for _, table := range seededTables {
		if _, err := tc.RawDB.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}

	doc, err := bootstrap.Default(adminPassword)
	if err != nil {
		return err
	}
	_, err = bootstrap.NewApplier(tc.Services, tc.logger).Apply(ctx, doc)
	return err
}

// waitForServer polls the server until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Cancel != nil {
		tc.Cancel()
	}
	if tc.ServerProcess != nil && tc.ServerProcess.Process != nil {
		_ = tc.ServerProcess.Process.Kill()
		_ = tc.ServerProcess.Wait()
	}
	if tc.RawDB != nil {
		_ = tc.RawDB.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

// findProjectRoot locates the project root directory
func findProjectRoot() (string, error) {
	paths := []string{
		"../..",
		"..",
		".",
	}

	for _, p := range paths {
		goMod := filepath.Join(p, "go.mod")
		if _, err := os.Stat(goMod); err == nil {
			return filepath.Abs(p)
		}
	}

	return "", fmt.Errorf("project root not found (looking for go.mod)")
}

// runMigrations executes the up migrations in version order.
func runMigrations(db *sql.DB, migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("migration %s: %w", filepath.Base(file), err)
		}
	}

	return nil
}
