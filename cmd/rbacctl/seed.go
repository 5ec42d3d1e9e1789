package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/bootstrap"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/rbac"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Apply a bootstrap document to the database",
	Long: `Apply a bootstrap document to the database.

Without --file, the built-in document is applied. It creates the Users,
Groups, Roles, Modules and Permissions modules with all four actions, the
"Super Admin" and "User" roles, the "Administrators" and "Users" groups
and an "admin" user in Administrators.

Applying a document is idempotent: entities that already exist are reused
and existing users keep their password.

Example:
  rbacctl seed
  rbacctl seed --admin-password changeme
  rbacctl seed --file /etc/rbac/bootstrap.yml`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		adminPassword, _ := cmd.Flags().GetString("admin-password")

		if err := runSeed(file, adminPassword); err != nil {
			fmt.Fprintf(os.Stderr, "Seed failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringP("file", "f", "", "bootstrap document to apply instead of the default")
	seedCmd.Flags().String("admin-password", "", "password for the default admin user")
}

func runSeed(file, adminPassword string) error {
	rt, err := loadDeps()
	if err != nil {
		return err
	}

	var doc *bootstrap.Document
	if file != "" {
		doc, err = bootstrap.Load(file)
	} else {
		doc, err = bootstrap.Default(adminPassword)
	}
	if err != nil {
		return err
	}

	result, err := applyDocument(rt.services, rt.logger, doc)
	if err != nil {
		return err
	}
	fmt.Printf("Seed applied: %s\n", result)
	return nil
}

func applyDocument(services *rbac.Services, logger *logrus.Logger, doc *bootstrap.Document) (bootstrap.Result, error) {
	return bootstrap.NewApplier(services, logger).Apply(context.Background(), doc)
}
