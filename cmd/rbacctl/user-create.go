package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// userCreateCmd represents the user create command
var userCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create a user",
	Long: `Create a user, optionally adding it to existing groups by name.

The password is taken from --password, or from RBAC_USER_PASSWORD when the
flag is not given.

Example:
  RBAC_USER_PASSWORD=secret rbacctl user create alice
  rbacctl user create bob --password secret --group Users`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = os.Getenv("RBAC_USER_PASSWORD")
		}
		if password == "" {
			fmt.Fprintln(os.Stderr, "A password is required: use --password or RBAC_USER_PASSWORD")
			os.Exit(1)
		}
		groups, _ := cmd.Flags().GetStringSlice("group")

		if err := createUser(args[0], password, groups); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create user: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
	userCreateCmd.Flags().String("password", "", "password for the new user")
	userCreateCmd.Flags().StringSlice("group", nil, "group to add the user to (repeatable)")
}

func createUser(username, password string, groupNames []string) error {
	rt, err := loadDeps()
	if err != nil {
		return err
	}
	ctx := context.Background()

	groupIDs := make([]uint, 0, len(groupNames))
	for _, name := range groupNames {
		g, err := rt.services.Groups.GetByName(ctx, name)
		if err != nil {
			return err
		}
		groupIDs = append(groupIDs, g.ID)
	}

	user, err := rt.services.Users.Create(ctx, username, password)
	if err != nil {
		return err
	}
	if len(groupIDs) > 0 {
		if _, err := rt.services.Users.AssignGroups(ctx, user.ID, groupIDs); err != nil {
			return err
		}
	}

	fmt.Printf("Created user %s (id %d)\n", user.Username, user.ID)
	return nil
}
