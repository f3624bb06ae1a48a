package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/filmclub/screener/internal/awards"
	"github.com/filmclub/screener/internal/filterstate"
	"github.com/filmclub/screener/internal/ui"
)

const catalogTTL = 10 * time.Minute

func init() {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List this year's nominations with your watch status",
		RunE:  runList,
	}
	listCmd.Flags().StringSlice("status", nil, "Filter by watch status (seen, todo, blank); repeatable")
	listCmd.Flags().StringSlice("category", nil, "Filter by category id; repeatable")
	listCmd.Flags().String("from-url", "", "Take filters from a shared web-client URL")
	listCmd.Flags().Bool("share-url", false, "Print the filters as a shareable URL instead of listing")
	listCmd.Flags().Bool("no-cache", false, "Bypass the local catalog cache")
	rootCmd.AddCommand(listCmd)
}

// listRow is one printed line of the nomination table. Grouped short-film
// categories collapse to a single row with a blank title.
type listRow struct {
	Title      string             `json:"title"`
	Year       int                `json:"year,omitempty"`
	Category   string             `json:"category"`
	CategoryID awards.CategoryID  `json:"categoryId"`
	Status     awards.WatchStatus `json:"status"`
	Animated   bool               `json:"animated"`
	Grouped    int                `json:"grouped,omitempty"` // films folded into this row
}

func runList(cmd *cobra.Command, args []string) error {
	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close(cmd)
	ctx := cmd.Context()

	filters, err := listFilters(cmd)
	if err != nil {
		return err
	}

	if share, _ := cmd.Flags().GetBool("share-url"); share {
		fmt.Println(shareURL(env.cfg.Server.URL, filters))
		return nil
	}

	if _, err := env.requireLogin(); err != nil {
		return err
	}

	year := env.cfg.Server.Year
	noCache, _ := cmd.Flags().GetBool("no-cache")

	var (
		movies      []awards.Movie
		nominations []awards.Nomination
		categories  []awards.Category
		watchlist   []awards.WatchlistEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		movies, err = cachedFetch(gctx, env, noCache, fmt.Sprintf("catalog/movies/%d", year),
			func() ([]awards.Movie, error) { return env.client.Movies(gctx, year) })
		return err
	})
	g.Go(func() (err error) {
		nominations, err = cachedFetch(gctx, env, noCache, fmt.Sprintf("catalog/nominations/%d", year),
			func() ([]awards.Nomination, error) { return env.client.Nominations(gctx, year) })
		return err
	})
	g.Go(func() (err error) {
		categories, err = cachedFetch(gctx, env, noCache, "catalog/categories",
			func() ([]awards.Category, error) { return env.client.Categories(gctx) })
		return err
	})
	g.Go(func() (err error) {
		// Marks are never cached; a stale mark is worse than a second request.
		watchlist, err = env.client.Watchlist(gctx, year, true)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	rows := buildRows(movies, nominations, categories, watchlist, filters, env.prefs.ShortsAreOneFilm)

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(rows)
	}
	printRows(rows, env.prefs.HighlightAnimated)
	return nil
}

// listFilters resolves the filter flags, with --from-url taking precedence
// over the repeatable flags.
func listFilters(cmd *cobra.Command) (filterstate.FilterState, error) {
	if raw, _ := cmd.Flags().GetString("from-url"); raw != "" {
		u, err := url.Parse(raw)
		if err != nil {
			return filterstate.FilterState{}, fmt.Errorf("parse --from-url: %w", err)
		}
		return filterstate.Decode(u.Query())
	}

	statuses, _ := cmd.Flags().GetStringSlice("status")
	cats, _ := cmd.Flags().GetStringSlice("category")

	params := url.Values{}
	if len(statuses) > 0 {
		params.Set("watchstatus", strings.Join(statuses, "-"))
	}
	if len(cats) > 0 {
		params.Set("category", strings.Join(cats, "-"))
	}
	// Route the flags through the codec so flag values and shared links
	// obey the same validation.
	state, err := filterstate.Decode(params)
	if err != nil {
		return filterstate.FilterState{}, err
	}
	// Unknown statuses are dropped silently on links, but a mistyped flag
	// deserves an error.
	if len(statuses) > 0 && len(state.Statuses) == 0 {
		return filterstate.FilterState{}, fmt.Errorf("no valid watch status in %v (want seen, todo or blank)", statuses)
	}
	return state, nil
}

func shareURL(base string, state filterstate.FilterState) string {
	u, err := url.Parse(base)
	if err != nil {
		u = &url.URL{}
	}
	u.Path = "/"
	u.RawQuery = filterstate.Encode(state).Encode()
	return u.String()
}

// cachedFetch reads a catalog slice through the response cache.
func cachedFetch[T any](ctx context.Context, env *appEnv, bypass bool, key string, fetch func() ([]T, error)) ([]T, error) {
	if !bypass {
		var cached []T
		if env.store.GetJSON(ctx, key, &cached) {
			return cached, nil
		}
	}
	fresh, err := fetch()
	if err != nil {
		return nil, err
	}
	if err := env.store.SetJSON(ctx, key, fresh, catalogTTL); err != nil {
		env.log.Debug("catalog cache write failed", "key", key, "error", err)
	}
	return fresh, nil
}

func buildRows(movies []awards.Movie, nominations []awards.Nomination, categories []awards.Category,
	watchlist []awards.WatchlistEntry, filters filterstate.FilterState, groupShorts bool) []listRow {

	movieByID := make(map[awards.MovieID]awards.Movie, len(movies))
	for _, m := range movies {
		movieByID[m.ID] = m
	}
	categoryByID := make(map[awards.CategoryID]awards.Category, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c
	}
	statusByMovie := make(map[awards.MovieID]awards.WatchStatus, len(watchlist))
	for _, e := range watchlist {
		statusByMovie[e.MovieID] = e.Status
	}
	status := func(id awards.MovieID) awards.WatchStatus {
		if s, ok := statusByMovie[id]; ok {
			return s
		}
		return awards.StatusBlank
	}

	var rows []listRow
	grouped := make(map[awards.CategoryID]*listRow)

	for _, n := range nominations {
		cat, ok := categoryByID[n.Category]
		if !ok || !filters.MatchesCategory(cat.ID) {
			continue
		}
		movie, ok := movieByID[n.MovieID]
		if !ok {
			continue
		}

		if groupShorts && cat.Shorts {
			row := grouped[cat.ID]
			if row == nil {
				row = &listRow{
					Title:      cat.Name,
					Category:   cat.Name,
					CategoryID: cat.ID,
					Status:     awards.StatusSeen,
				}
				grouped[cat.ID] = row
			}
			row.Grouped++
			// The group counts as seen only when every film is; one blank
			// film holds the whole group at blank.
			switch status(movie.ID) {
			case awards.StatusBlank:
				row.Status = awards.StatusBlank
			case awards.StatusTodo:
				if row.Status == awards.StatusSeen {
					row.Status = awards.StatusTodo
				}
			}
			continue
		}

		rows = append(rows, listRow{
			Title:      movie.Title,
			Year:       movie.Year,
			Category:   cat.Name,
			CategoryID: cat.ID,
			Status:     status(movie.ID),
			Animated:   movie.Animated,
		})
	}
	for _, row := range grouped {
		rows = append(rows, *row)
	}

	rows = filterRows(rows, filters)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CategoryID != rows[j].CategoryID {
			return rows[i].CategoryID < rows[j].CategoryID
		}
		return rows[i].Title < rows[j].Title
	})
	return rows
}

func filterRows(rows []listRow, filters filterstate.FilterState) []listRow {
	out := rows[:0]
	for _, r := range rows {
		if filters.MatchesStatus(r.Status) {
			out = append(out, r)
		}
	}
	return out
}

func printRows(rows []listRow, highlightAnimated bool) {
	if len(rows) == 0 {
		fmt.Println(ui.Muted.Render("No nominations match."))
		return
	}
	fmt.Printf("%s %-44s %-28s\n", " ", ui.Header.Render(fmt.Sprintf("%-44s", "Title")), ui.Header.Render("Category"))
	for _, r := range rows {
		title := r.Title
		if r.Year != 0 {
			title = fmt.Sprintf("%s (%d)", r.Title, r.Year)
		}
		if r.Grouped > 1 {
			title = fmt.Sprintf("%s [%d films]", r.Title, r.Grouped)
		}
		if len(title) > 44 {
			title = title[:41] + "..."
		}
		rendered := fmt.Sprintf("%-44s", title)
		if highlightAnimated && r.Animated {
			rendered = ui.Animated.Render(rendered)
		}
		fmt.Printf("%s %s %-28s\n", ui.StatusGlyph(string(r.Status)), rendered, r.Category)
	}
}
