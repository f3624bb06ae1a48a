// Package awards provides the typed client for the shared awards-tracker backend.
package awards

import (
	"fmt"
	"regexp"
)

// WatchStatus is a user's mark on a nominated film.
type WatchStatus string

const (
	StatusSeen  WatchStatus = "seen"
	StatusTodo  WatchStatus = "todo"
	StatusBlank WatchStatus = "blank"
)

// ParseWatchStatus returns the status named by s.
// The boolean is false for names that are not a known status.
func ParseWatchStatus(s string) (WatchStatus, bool) {
	switch WatchStatus(s) {
	case StatusSeen, StatusTodo, StatusBlank:
		return WatchStatus(s), true
	}
	return "", false
}

// Opaque id tokens. The backend mints them; clients only check the shape.
type (
	UserID       string
	MovieID      string
	CategoryID   string
	NominationID string
)

var (
	userIDPattern       = regexp.MustCompile(`^usr_[A-Za-z0-9]{6}$`)
	movieIDPattern      = regexp.MustCompile(`^mov_[A-Za-z0-9]{6}$`)
	categoryIDPattern   = regexp.MustCompile(`^cat_[a-z]{4}$`)
	nominationIDPattern = regexp.MustCompile(`^nom_[A-Za-z0-9]{6}$`)
)

// ValidUserID reports whether s has the usr_XXXXXX shape.
func ValidUserID(s string) bool { return userIDPattern.MatchString(s) }

// ParseUserID validates and converts an id token.
func ParseUserID(s string) (UserID, error) {
	if !ValidUserID(s) {
		return "", fmt.Errorf("invalid user id %q", s)
	}
	return UserID(s), nil
}

// ParseCategoryID validates and converts a category id token.
func ParseCategoryID(s string) (CategoryID, error) {
	if !categoryIDPattern.MatchString(s) {
		return "", fmt.Errorf("invalid category id %q", s)
	}
	return CategoryID(s), nil
}

// User is a directory entry.
type User struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
}

// Validate checks a decoded User against the wire schema.
func (u *User) Validate() error {
	if !userIDPattern.MatchString(string(u.ID)) {
		return fmt.Errorf("user: invalid id %q", u.ID)
	}
	if u.Username == "" {
		return fmt.Errorf("user %s: empty username", u.ID)
	}
	return nil
}

// Movie is a nominated film.
type Movie struct {
	ID       MovieID `json:"id"`
	Title    string  `json:"title"`
	Year     int     `json:"year"`
	Runtime  int     `json:"runtime,omitempty"` // minutes, 0 when unknown
	Animated bool    `json:"animated"`
	Short    bool    `json:"short"`
	Slug     string  `json:"letterboxdSlug,omitempty"`
}

func (m *Movie) Validate() error {
	if !movieIDPattern.MatchString(string(m.ID)) {
		return fmt.Errorf("movie: invalid id %q", m.ID)
	}
	if m.Title == "" {
		return fmt.Errorf("movie %s: empty title", m.ID)
	}
	if m.Year < 1900 || m.Year > 2200 {
		return fmt.Errorf("movie %s: implausible year %d", m.ID, m.Year)
	}
	return nil
}

// Category is an award category.
type Category struct {
	ID     CategoryID `json:"id"`
	Name   string     `json:"name"`
	Shorts bool       `json:"shorts"` // short-film category (may be grouped in views)
}

func (c *Category) Validate() error {
	if !categoryIDPattern.MatchString(string(c.ID)) {
		return fmt.Errorf("category: invalid id %q", c.ID)
	}
	if c.Name == "" {
		return fmt.Errorf("category %s: empty name", c.ID)
	}
	return nil
}

// Nomination ties a movie to a category for a ceremony year.
type Nomination struct {
	ID       NominationID `json:"id"`
	MovieID  MovieID      `json:"movieId"`
	Category CategoryID   `json:"categoryId"`
	Year     int          `json:"year"`
	Nominee  string       `json:"nominee,omitempty"` // person credited, when the category names one
}

func (n *Nomination) Validate() error {
	if !nominationIDPattern.MatchString(string(n.ID)) {
		return fmt.Errorf("nomination: invalid id %q", n.ID)
	}
	if !movieIDPattern.MatchString(string(n.MovieID)) {
		return fmt.Errorf("nomination %s: invalid movie id %q", n.ID, n.MovieID)
	}
	if !categoryIDPattern.MatchString(string(n.Category)) {
		return fmt.Errorf("nomination %s: invalid category id %q", n.ID, n.Category)
	}
	return nil
}

// WatchlistEntry is one user's mark on one movie.
type WatchlistEntry struct {
	UserID  UserID      `json:"userId"`
	MovieID MovieID     `json:"movieId"`
	Year    int         `json:"year"`
	Status  WatchStatus `json:"status"`
}

func (e *WatchlistEntry) Validate() error {
	if !userIDPattern.MatchString(string(e.UserID)) {
		return fmt.Errorf("watchlist entry: invalid user id %q", e.UserID)
	}
	if !movieIDPattern.MatchString(string(e.MovieID)) {
		return fmt.Errorf("watchlist entry: invalid movie id %q", e.MovieID)
	}
	if _, ok := ParseWatchStatus(string(e.Status)); !ok {
		return fmt.Errorf("watchlist entry %s/%s: unknown status %q", e.UserID, e.MovieID, e.Status)
	}
	return nil
}

// UserProgress is the per-user completion aggregate.
type UserProgress struct {
	UserID   UserID `json:"userId"`
	Username string `json:"username"`
	Seen     int    `json:"seen"`
	Total    int    `json:"total"`
}

func (p *UserProgress) Validate() error {
	if !userIDPattern.MatchString(string(p.UserID)) {
		return fmt.Errorf("user progress: invalid user id %q", p.UserID)
	}
	if p.Seen < 0 || p.Total < 0 || p.Seen > p.Total {
		return fmt.Errorf("user progress %s: inconsistent counts %d/%d", p.UserID, p.Seen, p.Total)
	}
	return nil
}

// CategoryProgress is the active user's completion aggregate for one category.
type CategoryProgress struct {
	Category CategoryID `json:"categoryId"`
	Name     string     `json:"name"`
	Seen     int        `json:"seen"`
	Total    int        `json:"total"`
}

func (p *CategoryProgress) Validate() error {
	if !categoryIDPattern.MatchString(string(p.Category)) {
		return fmt.Errorf("category progress: invalid category id %q", p.Category)
	}
	if p.Seen < 0 || p.Total < 0 || p.Seen > p.Total {
		return fmt.Errorf("category progress %s: inconsistent counts %d/%d", p.Category, p.Seen, p.Total)
	}
	return nil
}

// LetterboxdFilm is one result from the backend's Letterboxd search proxy.
type LetterboxdFilm struct {
	Title    string `json:"title"`
	Year     int    `json:"year"`
	Slug     string `json:"slug"`
	Director string `json:"director,omitempty"`
}

func (f *LetterboxdFilm) Validate() error {
	if f.Title == "" {
		return fmt.Errorf("letterboxd film: empty title")
	}
	if f.Slug == "" {
		return fmt.Errorf("letterboxd film %q: empty slug", f.Title)
	}
	return nil
}
