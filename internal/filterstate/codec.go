// Package filterstate maps nomination-table filters to and from the URL
// query-string form used by the web client, so filters stay shareable
// between the CLI and bookmarked links.
package filterstate

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/filmclub/screener/internal/awards"
)

const (
	categoryParam    = "category"
	watchStatusParam = "watchstatus"
	separator        = "-"
)

// FilterState is the pair of filters applied to the nomination table.
// An empty set means the filter is not applied.
type FilterState struct {
	Statuses   []awards.WatchStatus
	Categories []awards.CategoryID
}

// IsZero reports whether no filter is applied.
func (s FilterState) IsZero() bool {
	return len(s.Statuses) == 0 && len(s.Categories) == 0
}

// MatchesStatus reports whether a mark passes the watch-status filter.
func (s FilterState) MatchesStatus(status awards.WatchStatus) bool {
	if len(s.Statuses) == 0 {
		return true
	}
	for _, want := range s.Statuses {
		if want == status {
			return true
		}
	}
	return false
}

// MatchesCategory reports whether a category passes the category filter.
func (s FilterState) MatchesCategory(id awards.CategoryID) bool {
	if len(s.Categories) == 0 {
		return true
	}
	for _, want := range s.Categories {
		if want == id {
			return true
		}
	}
	return false
}

// Decode reads a FilterState from query parameters.
//
// Category tokens must have the valid id shape; a malformed token is a
// validation error. Watch-status tokens that are not a known status name
// are silently dropped, since they may come from stale bookmarked links.
func Decode(params url.Values) (FilterState, error) {
	var state FilterState

	if raw := params.Get(categoryParam); raw != "" {
		seen := make(map[awards.CategoryID]bool)
		for _, token := range strings.Split(raw, separator) {
			id, err := awards.ParseCategoryID(token)
			if err != nil {
				return FilterState{}, fmt.Errorf("category filter: %w", err)
			}
			if seen[id] {
				continue
			}
			seen[id] = true
			state.Categories = append(state.Categories, id)
		}
	}

	if raw := params.Get(watchStatusParam); raw != "" {
		seen := make(map[awards.WatchStatus]bool)
		for _, token := range strings.Split(raw, separator) {
			status, ok := awards.ParseWatchStatus(token)
			if !ok || seen[status] {
				continue
			}
			seen[status] = true
			state.Statuses = append(state.Statuses, status)
		}
	}

	return state, nil
}

// Encode writes a FilterState as query parameters. A parameter is omitted
// entirely when its set is empty, so "no filter" encodes to no query string.
func Encode(state FilterState) url.Values {
	params := url.Values{}

	if len(state.Categories) > 0 {
		tokens := make([]string, len(state.Categories))
		for i, id := range state.Categories {
			tokens[i] = string(id)
		}
		params.Set(categoryParam, strings.Join(tokens, separator))
	}

	if len(state.Statuses) > 0 {
		tokens := make([]string, len(state.Statuses))
		for i, status := range state.Statuses {
			tokens[i] = string(status)
		}
		params.Set(watchStatusParam, strings.Join(tokens, separator))
	}

	return params
}
