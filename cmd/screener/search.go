package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/filmclub/screener/internal/ui"
	"github.com/filmclub/screener/pkg/match"
)

func init() {
	searchCmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search Letterboxd for a film",
		Long: `Searches Letterboxd through the backend proxy and prints the results
ranked by how closely they match the term, with a link per film.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close(cmd)

	term := strings.Join(args, " ")
	films, err := env.client.LetterboxdSearch(cmd.Context(), term)
	if err != nil {
		return err
	}
	if len(films) == 0 {
		fmt.Println(ui.Muted.Render("No results."))
		return nil
	}

	titles := make([]string, len(films))
	for i, f := range films {
		titles[i] = f.Title
	}
	ranked := match.Rank(term, titles)
	if len(ranked) == 0 {
		// Nothing scored above the floor; keep the backend's order.
		for i := range films {
			ranked = append(ranked, match.Result{Title: films[i].Title, Index: i})
		}
	}

	if jsonOutput {
		ordered := make([]any, 0, len(ranked))
		for _, r := range ranked {
			ordered = append(ordered, films[r.Index])
		}
		return json.NewEncoder(os.Stdout).Encode(ordered)
	}

	for _, r := range ranked {
		f := films[r.Index]
		line := fmt.Sprintf("%-40s", fmt.Sprintf("%s (%d)", f.Title, f.Year))
		if f.Director != "" {
			line += fmt.Sprintf(" %-24s", f.Director)
		}
		fmt.Printf("%s %s\n", line, ui.Muted.Render("https://letterboxd.com/film/"+f.Slug+"/"))
	}
	return nil
}
