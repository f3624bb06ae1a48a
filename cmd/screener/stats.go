package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/filmclub/screener/internal/ui"
)

const barWidth = 24

func init() {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Compare watch progress across the group",
		RunE:  runStats,
	}
	statsCmd.Flags().Bool("by-category", false, "Break your own progress down per category")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close(cmd)
	ctx := cmd.Context()

	if _, err := env.requireLogin(); err != nil {
		return err
	}
	year := env.cfg.Server.Year

	if byCategory, _ := cmd.Flags().GetBool("by-category"); byCategory {
		progress, err := env.client.ByCategory(ctx, year)
		if err != nil {
			return err
		}
		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(progress)
		}
		fmt.Println(ui.Header.Render(fmt.Sprintf("Your %d progress by category", year)))
		for _, p := range progress {
			fmt.Printf("%-34s %s %3d/%d\n", p.Name, ui.Bar(p.Seen, p.Total, barWidth), p.Seen, p.Total)
		}
		return nil
	}

	progress, err := env.client.ByUser(ctx, year)
	if err != nil {
		return err
	}
	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(progress)
	}

	activeID, _ := env.rec.Current()
	fmt.Println(ui.Header.Render(fmt.Sprintf("%d progress", year)))
	for _, p := range progress {
		name := p.Username
		if p.UserID == activeID {
			name += " (you)"
		}
		fmt.Printf("%-20s %s %3d/%d\n", name, ui.Bar(p.Seen, p.Total, barWidth), p.Seen, p.Total)
	}
	return nil
}
