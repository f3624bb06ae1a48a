package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage the shared user directory",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List everyone in the directory",
		RunE:  runUsersList,
	}

	createCmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Register a new username",
		Args:  cobra.ExactArgs(1),
		RunE:  runUsersCreate,
	}

	renameCmd := &cobra.Command{
		Use:   "rename <new-username>",
		Short: "Rename the active user",
		Args:  cobra.ExactArgs(1),
		RunE:  runUsersRename,
	}

	usersCmd.AddCommand(listCmd)
	usersCmd.AddCommand(createCmd)
	usersCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(usersCmd)
}

func runUsersList(cmd *cobra.Command, args []string) error {
	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close(cmd)

	dir, err := env.dir.Fetch(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(dir.Users)
	}

	activeID, _ := env.rec.Current()
	for _, u := range dir.Users {
		marker := " "
		if u.ID == activeID {
			marker = "*"
		}
		fmt.Printf("%s %-20s %s\n", marker, u.Username, u.ID)
	}
	return nil
}

func runUsersCreate(cmd *cobra.Command, args []string) error {
	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close(cmd)
	ctx := cmd.Context()

	created, err := env.client.CreateUser(ctx, args[0])
	if err != nil {
		return err
	}
	env.dir.Invalidate(ctx)

	fmt.Printf("Created %s (%s)\n", created.Username, created.ID)
	return nil
}

func runUsersRename(cmd *cobra.Command, args []string) error {
	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close(cmd)
	ctx := cmd.Context()

	id, err := env.requireLogin()
	if err != nil {
		return err
	}

	renamed, err := env.client.RenameUser(ctx, id, args[0])
	if err != nil {
		return err
	}
	env.dir.Invalidate(ctx)

	// Re-confirm so the stored username catches up with the rename.
	if err := env.rec.SetActiveUser(ctx, string(renamed.ID)); err != nil {
		return err
	}
	if err := env.rec.Settle(ctx); err != nil {
		return err
	}

	fmt.Printf("Renamed to %s (%s)\n", renamed.Username, renamed.ID)
	return nil
}
