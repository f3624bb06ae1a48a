package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/filmclub/screener/internal/awards"
	"github.com/filmclub/screener/pkg/match"
)

func init() {
	loginCmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Select the active user",
		Long: `Selects the user on whose behalf watch status is shown and edited.
The username is resolved against the shared user directory; there are no
passwords. The choice is persisted, so subsequent runs stay logged in.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLogin,
	}
	loginCmd.Flags().String("id", "", "Log in by user id instead of username")
	loginCmd.Flags().Bool("create", false, "Create the username if it does not exist")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Clear the active user",
		RunE:  runLogout,
	}

	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the active user",
		RunE:  runWhoami,
	}
	whoamiCmd.Flags().Bool("remote", false, "Also ask the backend who it thinks you are")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close(cmd)
	ctx := cmd.Context()

	rawID, _ := cmd.Flags().GetString("id")
	create, _ := cmd.Flags().GetBool("create")

	if rawID == "" {
		if len(args) == 0 {
			return fmt.Errorf("username required (or use --id)")
		}
		username := args[0]

		dir, err := env.dir.Fetch(ctx)
		if err != nil {
			return err
		}

		id, found := resolveUsername(username, dir.Users)
		if !found {
			if !create {
				if hint := closestUsername(username, dir.Users); hint != "" {
					return fmt.Errorf("no user %q (did you mean %q? or pass --create)", username, hint)
				}
				return fmt.Errorf("no user %q (pass --create to register it)", username)
			}
			created, err := env.client.CreateUser(ctx, username)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			env.dir.Invalidate(ctx)
			id = created.ID
			fmt.Printf("Created %s (%s)\n", created.Username, created.ID)
		}
		rawID = string(id)
	}

	if err := env.rec.SetActiveUser(ctx, rawID); err != nil {
		return err
	}
	env.client.SetActiveUser(awards.UserID(rawID))

	if err := env.rec.Settle(ctx); err != nil {
		return err
	}

	id, username := env.rec.Current()
	if username == "" {
		fmt.Printf("Logged in as %s (username not yet confirmed)\n", id)
	} else {
		fmt.Printf("Logged in as %s (%s)\n", username, id)
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close(cmd)

	if err := env.rec.SetActiveUser(cmd.Context(), ""); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close(cmd)

	if err := env.rec.Settle(cmd.Context()); err != nil {
		return err
	}

	id, username := env.rec.Current()
	if id == "" {
		fmt.Println("Not logged in.")
		return nil
	}
	if username == "" {
		username = "(unconfirmed)"
	}
	fmt.Printf("%s (%s), identity %s\n", username, id, env.rec.State())

	remote, _ := cmd.Flags().GetBool("remote")
	if remote {
		me, err := env.client.MyData(cmd.Context())
		if err != nil {
			return fmt.Errorf("backend lookup: %w", err)
		}
		fmt.Printf("Backend says: %s (%s)\n", me.Username, me.ID)
	}
	return nil
}

// resolveUsername finds an exact (case-insensitive) directory match.
func resolveUsername(username string, users []awards.User) (awards.UserID, bool) {
	for _, u := range users {
		if strings.EqualFold(u.Username, username) {
			return u.ID, true
		}
	}
	return "", false
}

// closestUsername suggests a likely typo correction, or "".
func closestUsername(username string, users []awards.User) string {
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Username
	}
	best := match.BestMatch(username, names)
	if best.Confidence >= match.Medium {
		return best.Title
	}
	return ""
}
