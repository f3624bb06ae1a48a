package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/filmclub/screener/internal/awards"
	"github.com/filmclub/screener/internal/ui"
	"github.com/filmclub/screener/pkg/match"
)

func init() {
	markCmd := &cobra.Command{
		Use:   "mark <seen|todo|blank> <title>",
		Short: "Set your watch status for a nominated film",
		Long: `Sets your watch status for one of this year's nominated films.
The title is matched fuzzily against the nomination list, so partial
titles work: 'screener mark seen anatomy' marks "Anatomy of a Fall".`,
		Args: cobra.MinimumNArgs(2),
		RunE: runMark,
	}
	rootCmd.AddCommand(markCmd)
}

func runMark(cmd *cobra.Command, args []string) error {
	status, ok := awards.ParseWatchStatus(args[0])
	if !ok {
		return fmt.Errorf("unknown status %q (want seen, todo or blank)", args[0])
	}
	query := strings.Join(args[1:], " ")

	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close(cmd)
	ctx := cmd.Context()

	userID, err := env.requireLogin()
	if err != nil {
		return err
	}

	year := env.cfg.Server.Year
	movies, err := cachedFetch(ctx, env, false, fmt.Sprintf("catalog/movies/%d", year),
		func() ([]awards.Movie, error) { return env.client.Movies(ctx, year) })
	if err != nil {
		return err
	}
	movie, err := resolveMovie(query, movies)
	if err != nil {
		return err
	}

	if env.prefs.LockSeenToggle {
		current, err := currentStatus(cmd, env, movie.ID)
		if err != nil {
			return err
		}
		if current == awards.StatusSeen && status != awards.StatusSeen {
			return fmt.Errorf("%q is already marked seen and seen marks are locked (screener prefs set lockSeenToggle false)", movie.Title)
		}
	}

	entry := awards.WatchlistEntry{
		UserID:  userID,
		MovieID: movie.ID,
		Year:    year,
		Status:  status,
	}
	if err := env.client.SetWatchlist(ctx, entry); err != nil {
		return err
	}

	fmt.Printf("%s %s (%d) -> %s\n", ui.StatusGlyph(string(status)), movie.Title, movie.Year, status)
	return nil
}

// resolveMovie picks the nominated film the query most likely names.
// Anything below a medium-confidence match is refused rather than guessed.
func resolveMovie(query string, movies []awards.Movie) (awards.Movie, error) {
	titles := make([]string, len(movies))
	for i, m := range movies {
		titles[i] = m.Title
	}
	best := match.BestMatch(query, titles)
	if best.Confidence >= match.Medium {
		return movies[best.Index], nil
	}
	if best.Confidence >= match.Low {
		return awards.Movie{}, fmt.Errorf("no confident match for %q (closest: %q)", query, best.Title)
	}
	return awards.Movie{}, fmt.Errorf("no nominated film matches %q", query)
}

func currentStatus(cmd *cobra.Command, env *appEnv, id awards.MovieID) (awards.WatchStatus, error) {
	entries, err := env.client.Watchlist(cmd.Context(), env.cfg.Server.Year, true)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.MovieID == id {
			return e.Status, nil
		}
	}
	return awards.StatusBlank, nil
}
