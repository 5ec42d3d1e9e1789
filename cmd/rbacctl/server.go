package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/access"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/authenticator/authn"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/bootstrap"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server/endpoints"
	gormstore "github.com/doodlesbykumbi/rbac-in-go/pkg/server/store/gorm"
)

const shutdownTimeout = 10 * time.Second

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the RBAC application server",
	Long: `Run the RBAC application server.

To run the server requires the environment variables RBAC_JWT_SECRET and
DATABASE_URL. Pass --migrate to apply pending database migrations before
the server starts.

When bootstrap_file is configured, the document is applied on startup.`,
	Run: func(cmd *cobra.Command, args []string) {
		secret, ok := os.LookupEnv("RBAC_JWT_SECRET")
		if !ok || secret == "" {
			fmt.Fprintln(os.Stderr, "RBAC_JWT_SECRET environment variable is required")
			os.Exit(1)
		}

		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		migrateFirst, _ := cmd.Flags().GetBool("migrate")
		if migrateFirst {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		if err := runServer([]byte(secret), host, port); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("migrate", false, "run database migrations before starting")
}

func runServer(secret []byte, host, port string) error {
	rt, err := loadDeps()
	if err != nil {
		return err
	}
	logger := rt.logger

	tokens, err := authn.NewTokens(secret, rt.cfg.TokenLifetime())
	if err != nil {
		return fmt.Errorf("unable to configure tokens: %w", err)
	}

	m := metrics.New(prometheus.NewRegistry())
	gate := access.NewGate(
		access.NewResolver(rt.store),
		access.WithLogger(logger),
		access.WithMetrics(m),
	)

	if path := rt.cfg.BootstrapFile; path != "" {
		doc, err := bootstrap.Load(path)
		if err != nil {
			return err
		}
		result, err := bootstrap.NewApplier(rt.services, logger).Apply(context.Background(), doc)
		if err != nil {
			return fmt.Errorf("failed to apply %s: %w", path, err)
		}
		logger.WithField("file", path).Infof("Bootstrap applied: %s", result)
	}

	s := server.NewServer(server.Components{
		Config:      rt.cfg,
		Logger:      logger,
		Services:    rt.services,
		Gate:        gate,
		Auth:        authn.New(rt.services.Users, rt.hasher, rt.cfg.RegistrationEnabled),
		Tokens:      tokens,
		Metrics:     m,
		HealthStore: gormstore.NewHealthStore(rt.db),
	}, host, port)
	endpoints.RegisterAll(s)

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Running server at http://%s...", s.Addr())
		errCh <- s.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case sig := <-sigChan:
		logger.Infof("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(ctx)
}
