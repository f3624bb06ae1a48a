// Package identity maintains the locally selected user: a (id, username)
// pair seeded from persisted cookies, kept convergent with the backend's
// user directory.
//
// Identity changes are optimistic. The id is written to memory and to the
// cookie jar synchronously; the paired username is confirmed against the
// directory asynchronously and corrected when stale. A correction that
// lands after the grace window is surfaced to the user as a warning,
// since past that point it signals a real inconsistency rather than
// ordinary fetch latency.
package identity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/filmclub/screener/internal/awards"
	"github.com/filmclub/screener/internal/directory"
)

// State is the reconciliation state of the active identity.
type State string

const (
	// StateLoggedOut means no id is selected.
	StateLoggedOut State = "logged_out"
	// StatePending means an id is selected and the username is awaiting
	// directory confirmation.
	StatePending State = "pending"
	// StateConfirmed means the username matches the directory's view.
	StateConfirmed State = "confirmed"
	// StateMismatchWarned means the username had to be corrected after
	// the grace window. The corrected value is in place; the state is
	// kept distinct so callers can see that a warning was emitted.
	StateMismatchWarned State = "mismatch_warned"
)

// Settled reports whether the identity has reached a terminal state.
func (s State) Settled() bool {
	return s == StateLoggedOut || s == StateConfirmed || s == StateMismatchWarned
}

// DefaultGrace is the soft budget for directory confirmation. It is a
// tunable, not a load-bearing constant.
const DefaultGrace = 750 * time.Millisecond

// MismatchWarning is the user-facing text for a late username correction.
const MismatchWarning = "username was set incorrectly, reload if it persists"

// DirectorySource is the slice of the directory accessor the reconciler
// needs. The directory is read-only from the reconciler's perspective.
type DirectorySource interface {
	Fetch(ctx context.Context) (directory.Directory, error)
}

// Notifier surfaces a user-visible warning.
type Notifier func(message string)

// Reconciler owns the active identity.
//
// Invariant: a null id implies a null username. A non-null id's username
// is eventually consistent with the directory entry for that id and may
// transiently lag. Overlapping identity switches are resolved by a
// sequence check at confirmation time: a confirmation that arrives for a
// superseded switch is discarded, so the newest switch always wins.
type Reconciler struct {
	jar    *CookieJar
	dir    DirectorySource
	notify Notifier
	log    *slog.Logger
	grace  time.Duration
	now    func() time.Time

	mu       sync.Mutex
	id       awards.UserID // "" when logged out
	username string        // "" represents null
	state    State
	seq      uint64
	done     chan struct{} // join point for the in-flight confirmation
	wg       sync.WaitGroup
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithGrace sets the grace window.
func WithGrace(d time.Duration) ReconcilerOption {
	return func(r *Reconciler) { r.grace = d }
}

// WithNotifier sets the warning sink.
func WithNotifier(n Notifier) ReconcilerOption {
	return func(r *Reconciler) { r.notify = n }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) ReconcilerOption {
	return func(r *Reconciler) { r.log = log }
}

// WithClock sets the time source (for testing).
func WithClock(now func() time.Time) ReconcilerOption {
	return func(r *Reconciler) { r.now = now }
}

// NewReconciler creates a reconciler over the given cookie jar and
// directory source. The default notifier logs at warn level.
func NewReconciler(jar *CookieJar, dir DirectorySource, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		jar:   jar,
		dir:   dir,
		log:   slog.Default(),
		grace: DefaultGrace,
		now:   time.Now,
		state: StateLoggedOut,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.notify == nil {
		r.notify = func(msg string) { r.log.Warn(msg) }
	}
	return r
}

// Initialize seeds the identity from cookies. No network call is needed
// to produce an initial, possibly stale, username; when an id is present
// a background confirmation is started so a stale cookie self-heals.
// Cookies are untrusted state, so a malformed id reads as logged out
// rather than failing.
func (r *Reconciler) Initialize(ctx context.Context) {
	rawID, ok := r.jar.Get(CookieUserID)
	if !ok || rawID == NullValue || !awards.ValidUserID(rawID) {
		r.mu.Lock()
		r.id = ""
		r.username = ""
		r.state = StateLoggedOut
		r.mu.Unlock()
		return
	}

	username, ok := r.jar.Get(CookieUsername)
	if !ok || username == NullValue {
		username = ""
	}

	r.mu.Lock()
	r.id = awards.UserID(rawID)
	r.username = username
	r.startConfirmLocked(ctx)
	r.mu.Unlock()
}

// SetActiveUser switches the active identity. An empty id (or the null
// sentinel) logs out, which is synchronous and needs no confirmation.
//
// For a non-empty id the in-memory id and the id cookie are updated
// before returning; the username converges asynchronously. Use Settle to
// wait for convergence.
func (r *Reconciler) SetActiveUser(ctx context.Context, rawID string) error {
	if rawID == "" || rawID == NullValue {
		r.mu.Lock()
		r.seq++ // discard any in-flight confirmation
		r.id = ""
		r.username = ""
		r.state = StateLoggedOut
		r.done = nil
		r.mu.Unlock()
		r.jar.Set(CookieUserID, NullValue, CookieExpiryDays)
		r.jar.Set(CookieUsername, NullValue, CookieExpiryDays)
		return nil
	}

	id, err := awards.ParseUserID(rawID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.id = id
	r.jar.Set(CookieUserID, rawID, CookieExpiryDays)
	r.startConfirmLocked(ctx)
	r.mu.Unlock()
	return nil
}

// startConfirmLocked begins an asynchronous directory confirmation for
// the current id. Caller holds r.mu.
func (r *Reconciler) startConfirmLocked(ctx context.Context) {
	r.seq++
	seq := r.seq
	id := r.id
	t0 := r.now()
	done := make(chan struct{})
	r.done = done
	r.state = StatePending

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer close(done)
		r.confirm(ctx, id, seq, t0)
	}()
}

func (r *Reconciler) confirm(ctx context.Context, id awards.UserID, seq uint64, t0 time.Time) {
	dir, err := r.dir.Fetch(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	// A newer switch owns the identity now; writing would corrupt it.
	if r.seq != seq {
		return
	}

	if err != nil {
		// Retries are already exhausted inside the client. Fall back to
		// a null username rather than failing the identity switch.
		r.log.Warn("directory unavailable, username unconfirmed", "user_id", id, "error", err)
		r.setUsernameLocked("")
		r.state = StateConfirmed
		return
	}

	// An id missing from the directory is legitimate (a brand-new
	// account not yet replicated); suggested is simply null.
	suggested, _ := dir.Lookup(id)

	elapsed := r.now().Sub(t0)
	if suggested != r.username && elapsed > r.grace {
		r.notify(MismatchWarning)
		r.state = StateMismatchWarned
	} else {
		r.state = StateConfirmed
	}
	r.setUsernameLocked(suggested)
}

// setUsernameLocked converges memory and cookie. Caller holds r.mu.
func (r *Reconciler) setUsernameLocked(username string) {
	r.username = username
	value := username
	if value == "" {
		value = NullValue
	}
	r.jar.Set(CookieUsername, value, CookieExpiryDays)
}

// Settle blocks until the in-flight confirmation (if any) resolves.
func (r *Reconciler) Settle(ctx context.Context) error {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Current returns the active id and username. Empty strings stand for null.
func (r *Reconciler) Current() (id awards.UserID, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id, r.username
}

// State returns the reconciliation state.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// LoggedIn reports whether an id is selected.
func (r *Reconciler) LoggedIn() bool {
	id, _ := r.Current()
	return id != ""
}
