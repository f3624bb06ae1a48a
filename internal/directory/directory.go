// Package directory caches the authoritative user list from the backend.
package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/filmclub/screener/internal/awards"
	"github.com/filmclub/screener/internal/cache"
)

// cacheKey is the fixed key the directory is stored under.
const cacheKey = "directory/users"

// DefaultTTL is the staleness window for the cached directory.
const DefaultTTL = 5 * time.Minute

// ErrDuplicateID is returned when the backend hands out a directory with
// two entries sharing an id.
var ErrDuplicateID = errors.New("duplicate user id in directory")

// UsersLister is the slice of the backend client the accessor needs.
type UsersLister interface {
	Users(ctx context.Context) ([]awards.User, error)
}

// Directory is a point-in-time copy of the backend's user list,
// unique by id.
type Directory struct {
	Users []awards.User
}

// Lookup returns the username for id. ok is false when the id is absent,
// which is a legitimate state for a freshly created account.
func (d Directory) Lookup(id awards.UserID) (username string, ok bool) {
	for _, u := range d.Users {
		if u.ID == id {
			return u.Username, true
		}
	}
	return "", false
}

// Accessor fetches the directory through a two-level cache: an in-process
// copy for repeated lookups within one run, and the persistent response
// cache for the staleness window across runs. Other readers share the
// persistent cache; the accessor never assumes it is the only one.
type Accessor struct {
	client UsersLister
	store  *cache.Cache // optional
	ttl    time.Duration
	log    *slog.Logger

	mu        sync.Mutex
	mem       Directory
	fetchedAt time.Time
}

// Option configures an Accessor.
type Option func(*Accessor)

// WithStore sets the persistent cache backing the staleness window.
func WithStore(store *cache.Cache) Option {
	return func(a *Accessor) { a.store = store }
}

// WithTTL sets the staleness window.
func WithTTL(ttl time.Duration) Option {
	return func(a *Accessor) { a.ttl = ttl }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *Accessor) { a.log = log }
}

// NewAccessor creates a directory accessor over the given backend client.
func NewAccessor(client UsersLister, opts ...Option) *Accessor {
	a := &Accessor{
		client: client,
		ttl:    DefaultTTL,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Fetch returns the directory, from cache when fresh. Retry and backoff on
// failure live in the backend client; exhausted retries surface here as an
// error and callers fall back to treating the username as unknown.
func (a *Accessor) Fetch(ctx context.Context) (Directory, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.mem.Users) > 0 && time.Since(a.fetchedAt) < a.ttl {
		return a.mem, nil
	}

	if a.store != nil {
		var users []awards.User
		if a.store.GetJSON(ctx, cacheKey, &users) {
			dir, err := build(users)
			if err == nil {
				a.mem = dir
				a.fetchedAt = time.Now()
				return dir, nil
			}
			a.log.Warn("dropping corrupt cached directory", "error", err)
		}
	}

	users, err := a.client.Users(ctx)
	if err != nil {
		return Directory{}, fmt.Errorf("fetch user directory: %w", err)
	}
	dir, err := build(users)
	if err != nil {
		return Directory{}, err
	}

	a.mem = dir
	a.fetchedAt = time.Now()
	if a.store != nil {
		if err := a.store.SetJSON(ctx, cacheKey, users, a.ttl); err != nil {
			a.log.Warn("directory cache write failed", "error", err)
		}
	}
	return dir, nil
}

// Invalidate drops both cache levels, forcing the next Fetch to hit the
// backend. Used after user creation or rename.
func (a *Accessor) Invalidate(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mem = Directory{}
	a.fetchedAt = time.Time{}
	if a.store != nil {
		if err := a.store.Delete(ctx, cacheKey); err != nil {
			a.log.Warn("directory cache invalidation failed", "error", err)
		}
	}
}

func build(users []awards.User) (Directory, error) {
	seen := make(map[awards.UserID]bool, len(users))
	for _, u := range users {
		if seen[u.ID] {
			return Directory{}, fmt.Errorf("%w: %s", ErrDuplicateID, u.ID)
		}
		seen[u.ID] = true
	}
	return Directory{Users: users}, nil
}
