package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmclub/screener/internal/awards"
	"github.com/filmclub/screener/internal/filterstate"
)

var (
	testMovies = []awards.Movie{
		{ID: "mov_aaaaaa", Title: "Anatomy of a Fall", Year: 2023},
		{ID: "mov_bbbbbb", Title: "The Boy and the Heron", Year: 2023, Animated: true},
		{ID: "mov_cccccc", Title: "War Is Over!", Year: 2023, Animated: true, Short: true},
		{ID: "mov_dddddd", Title: "Ninety-Five Senses", Year: 2023, Animated: true, Short: true},
	}
	testCategories = []awards.Category{
		{ID: "cat_pict", Name: "Best Picture"},
		{ID: "cat_anim", Name: "Animated Feature"},
		{ID: "cat_shrt", Name: "Animated Short", Shorts: true},
	}
	testNominations = []awards.Nomination{
		{ID: "nom_aaaaaa", MovieID: "mov_aaaaaa", Category: "cat_pict", Year: 2024},
		{ID: "nom_bbbbbb", MovieID: "mov_bbbbbb", Category: "cat_anim", Year: 2024},
		{ID: "nom_cccccc", MovieID: "mov_cccccc", Category: "cat_shrt", Year: 2024},
		{ID: "nom_dddddd", MovieID: "mov_dddddd", Category: "cat_shrt", Year: 2024},
	}
	testWatchlist = []awards.WatchlistEntry{
		{UserID: "usr_aaaaaa", MovieID: "mov_aaaaaa", Year: 2024, Status: awards.StatusSeen},
		{UserID: "usr_aaaaaa", MovieID: "mov_cccccc", Year: 2024, Status: awards.StatusSeen},
	}
)

func TestBuildRowsDefaultsToBlank(t *testing.T) {
	rows := buildRows(testMovies, testNominations, testCategories, testWatchlist,
		filterstate.FilterState{}, false)
	require.Len(t, rows, 4)

	byTitle := make(map[string]listRow)
	for _, r := range rows {
		byTitle[r.Title] = r
	}
	assert.Equal(t, awards.StatusSeen, byTitle["Anatomy of a Fall"].Status)
	assert.Equal(t, awards.StatusBlank, byTitle["The Boy and the Heron"].Status)
	assert.True(t, byTitle["The Boy and the Heron"].Animated)
}

func TestBuildRowsGroupsShorts(t *testing.T) {
	rows := buildRows(testMovies, testNominations, testCategories, testWatchlist,
		filterstate.FilterState{}, true)
	require.Len(t, rows, 3)

	var group listRow
	for _, r := range rows {
		if r.Grouped > 0 {
			group = r
		}
	}
	require.Equal(t, 2, group.Grouped)
	assert.Equal(t, "Animated Short", group.Title)
	// One of the two shorts is unmarked, so the group is not seen.
	assert.Equal(t, awards.StatusBlank, group.Status)
}

func TestBuildRowsGroupedShortsAllSeen(t *testing.T) {
	watchlist := append([]awards.WatchlistEntry{}, testWatchlist...)
	watchlist = append(watchlist, awards.WatchlistEntry{
		UserID: "usr_aaaaaa", MovieID: "mov_dddddd", Year: 2024, Status: awards.StatusSeen,
	})

	rows := buildRows(testMovies, testNominations, testCategories, watchlist,
		filterstate.FilterState{}, true)
	for _, r := range rows {
		if r.Grouped > 0 {
			assert.Equal(t, awards.StatusSeen, r.Status)
			return
		}
	}
	t.Fatal("no grouped row produced")
}

func TestBuildRowsCategoryFilter(t *testing.T) {
	rows := buildRows(testMovies, testNominations, testCategories, testWatchlist,
		filterstate.FilterState{Categories: []awards.CategoryID{"cat_pict"}}, false)
	require.Len(t, rows, 1)
	assert.Equal(t, "Anatomy of a Fall", rows[0].Title)
}

func TestBuildRowsStatusFilter(t *testing.T) {
	rows := buildRows(testMovies, testNominations, testCategories, testWatchlist,
		filterstate.FilterState{Statuses: []awards.WatchStatus{awards.StatusBlank}}, false)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, awards.StatusBlank, r.Status)
	}
}

func TestShareURL(t *testing.T) {
	state := filterstate.FilterState{
		Statuses:   []awards.WatchStatus{awards.StatusTodo},
		Categories: []awards.CategoryID{"cat_pict", "cat_anim"},
	}
	assert.Equal(t, "https://awards.example.com/?category=cat_pict-cat_anim&watchstatus=todo",
		shareURL("https://awards.example.com", state))

	assert.Equal(t, "https://awards.example.com/",
		shareURL("https://awards.example.com", filterstate.FilterState{}))
}

func TestResolveMovie(t *testing.T) {
	movie, err := resolveMovie("anatomy of a fall", testMovies)
	require.NoError(t, err)
	assert.Equal(t, awards.MovieID("mov_aaaaaa"), movie.ID)

	movie, err = resolveMovie("the boy and the heron", testMovies)
	require.NoError(t, err)
	assert.Equal(t, awards.MovieID("mov_bbbbbb"), movie.ID)

	_, err = resolveMovie("some entirely different film", testMovies)
	require.Error(t, err)
}
