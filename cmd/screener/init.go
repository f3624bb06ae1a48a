package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/filmclub/screener/internal/config"
)

func init() {
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE:  runInit,
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing config")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.WriteDefault(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("Wrote %s\n", path)
	fmt.Println("Edit server.url to point at your tracker backend, then run 'screener login <username>'.")
	return nil
}
