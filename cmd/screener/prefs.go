package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/filmclub/screener/internal/prefs"
)

func init() {
	prefsCmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show and change display preferences",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show the current preferences",
		RunE:  runPrefsList,
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <true|false>",
		Short: "Change a preference",
		Long: `Changes one preference. Keys:

  shortsAreOneFilm   fold each short-film category into a single row
  highlightAnimated  style animated films distinctly
  lockSeenToggle     refuse un-marking a film that is already seen`,
		Args: cobra.ExactArgs(2),
		RunE: runPrefsSet,
	}

	prefsCmd.AddCommand(listCmd)
	prefsCmd.AddCommand(setCmd)
	rootCmd.AddCommand(prefsCmd)
}

func runPrefsList(cmd *cobra.Command, args []string) error {
	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close(cmd)

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(env.prefs)
	}
	fmt.Printf("shortsAreOneFilm   %t\n", env.prefs.ShortsAreOneFilm)
	fmt.Printf("highlightAnimated  %t\n", env.prefs.HighlightAnimated)
	fmt.Printf("lockSeenToggle     %t\n", env.prefs.LockSeenToggle)
	return nil
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	value, err := strconv.ParseBool(args[1])
	if err != nil {
		return fmt.Errorf("preference value must be true or false, got %q", args[1])
	}

	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close(cmd)

	updated := env.prefs
	switch args[0] {
	case "shortsAreOneFilm":
		updated.ShortsAreOneFilm = value
	case "highlightAnimated":
		updated.HighlightAnimated = value
	case "lockSeenToggle":
		updated.LockSeenToggle = value
	default:
		return fmt.Errorf("unknown preference %q (run 'screener prefs set --help')", args[0])
	}

	if err := prefs.Save(env.prefsPath, updated); err != nil {
		return err
	}
	fmt.Printf("%s = %t\n", args[0], value)
	return nil
}
