package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/access"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <userId> <module> <action>",
	Short: "Check whether a user may perform an action on a module",
	Long: `Check whether a user may perform an action on a module.

Prints the decision together with the user's effective permissions and
exits with status 1 when access is denied.

Example:
  rbacctl check 2 Reports read`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		userID, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil || userID == 0 {
			fmt.Fprintf(os.Stderr, "Invalid user id: %s\n", args[0])
			os.Exit(1)
		}

		allowed, err := checkAccess(uint(userID), args[1], args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Check failed: %v\n", err)
			os.Exit(1)
		}
		if !allowed {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func checkAccess(userID uint, module, action string) (bool, error) {
	rt, err := loadDeps()
	if err != nil {
		return false, err
	}

	gate := access.NewGate(access.NewResolver(rt.store), access.WithLogger(rt.logger))
	decision, err := gate.Simulate(context.Background(), userID, module, action)
	if err != nil {
		return false, err
	}

	out, err := json.MarshalIndent(decision, "", "  ")
	if err != nil {
		return false, err
	}
	fmt.Println(string(out))
	return decision.Allowed, nil
}
