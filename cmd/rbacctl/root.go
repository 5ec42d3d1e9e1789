package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rbacctl",
	Short: "Run and administer the RBAC server",
	Long: `rbacctl runs the RBAC administration server and provides commands to
manage its database, seed data, users, and configuration.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
