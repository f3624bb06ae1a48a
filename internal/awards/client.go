package awards

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultRateLimit = 4 // requests per second

	// Retry budgets. A 429 means another client briefly holds the
	// watchlist lock, so it gets a much larger budget than a real failure.
	lockedAttempts  = 10
	genericAttempts = 3

	defaultBackoffBase = 250 * time.Millisecond
	backoffCap         = 4 * time.Second
)

// Client talks to the awards-tracker backend.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	limiter     *rate.Limiter
	log         *slog.Logger
	backoffBase time.Duration
	activeUser  UserID
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit sets the client-side request rate in requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithBackoffBase sets the initial retry delay (for testing).
func WithBackoffBase(d time.Duration) Option {
	return func(c *Client) { c.backoffBase = d }
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		limiter:     rate.NewLimiter(rate.Limit(defaultRateLimit), 1),
		log:         slog.Default(),
		backoffBase: defaultBackoffBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetActiveUser sets the identity sent with subsequent requests.
// An empty id clears it. Not safe to call concurrently with requests.
func (c *Client) SetActiveUser(id UserID) { c.activeUser = id }

// Users fetches the full user directory.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.do(ctx, http.MethodGet, "users", nil, nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if err := out[i].Validate(); err != nil {
			return nil, fmt.Errorf("users response: %w", err)
		}
	}
	return out, nil
}

// MyData fetches the backend's view of the active user.
func (c *Client) MyData(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "users/my_data", nil, nil, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("my_data response: %w", err)
	}
	return &out, nil
}

// Movies fetches the nominated films for a ceremony year.
func (c *Client) Movies(ctx context.Context, year int) ([]Movie, error) {
	var out []Movie
	if err := c.do(ctx, http.MethodGet, "movies", yearParam(year), nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if err := out[i].Validate(); err != nil {
			return nil, fmt.Errorf("movies response: %w", err)
		}
	}
	return out, nil
}

// Nominations fetches the nominations for a ceremony year.
func (c *Client) Nominations(ctx context.Context, year int) ([]Nomination, error) {
	var out []Nomination
	if err := c.do(ctx, http.MethodGet, "nominations", yearParam(year), nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if err := out[i].Validate(); err != nil {
			return nil, fmt.Errorf("nominations response: %w", err)
		}
	}
	return out, nil
}

// Categories fetches the award categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.do(ctx, http.MethodGet, "categories", nil, nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if err := out[i].Validate(); err != nil {
			return nil, fmt.Errorf("categories response: %w", err)
		}
	}
	return out, nil
}

// Watchlist fetches watch status marks for a year.
// With justMe set only the active user's marks are returned.
func (c *Client) Watchlist(ctx context.Context, year int, justMe bool) ([]WatchlistEntry, error) {
	params := yearParam(year)
	params.Set("justMe", strconv.FormatBool(justMe))
	var out []WatchlistEntry
	if err := c.do(ctx, http.MethodGet, "watchlist", params, nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if err := out[i].Validate(); err != nil {
			return nil, fmt.Errorf("watchlist response: %w", err)
		}
	}
	return out, nil
}

// ByUser fetches per-user completion aggregates for a year.
func (c *Client) ByUser(ctx context.Context, year int) ([]UserProgress, error) {
	var out []UserProgress
	if err := c.do(ctx, http.MethodGet, "by_user", yearParam(year), nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if err := out[i].Validate(); err != nil {
			return nil, fmt.Errorf("by_user response: %w", err)
		}
	}
	return out, nil
}

// ByCategory fetches the active user's per-category aggregates for a year.
func (c *Client) ByCategory(ctx context.Context, year int) ([]CategoryProgress, error) {
	var out []CategoryProgress
	if err := c.do(ctx, http.MethodGet, "by_category", yearParam(year), nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if err := out[i].Validate(); err != nil {
			return nil, fmt.Errorf("by_category response: %w", err)
		}
	}
	return out, nil
}

// SetWatchlist writes one watch status mark.
func (c *Client) SetWatchlist(ctx context.Context, entry WatchlistEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "watchlist", nil, entry, nil)
}

// CreateUser registers a new username and returns the minted user.
func (c *Client) CreateUser(ctx context.Context, username string) (*User, error) {
	req := map[string]string{"username": username}
	var out User
	if err := c.do(ctx, http.MethodPost, "users", nil, req, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("create user response: %w", err)
	}
	return &out, nil
}

// RenameUser changes an existing user's username.
func (c *Client) RenameUser(ctx context.Context, id UserID, username string) (*User, error) {
	req := map[string]string{"id": string(id), "username": username}
	var out User
	if err := c.do(ctx, http.MethodPut, "users", nil, req, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("rename user response: %w", err)
	}
	return &out, nil
}

// LetterboxdSearch queries the backend's Letterboxd proxy.
func (c *Client) LetterboxdSearch(ctx context.Context, term string) ([]LetterboxdFilm, error) {
	params := url.Values{}
	params.Set("searchTerm", term)
	var out []LetterboxdFilm
	if err := c.do(ctx, http.MethodGet, "letterboxd/search", params, nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if err := out[i].Validate(); err != nil {
			return nil, fmt.Errorf("letterboxd response: %w", err)
		}
	}
	return out, nil
}

func yearParam(year int) url.Values {
	params := url.Values{}
	params.Set("year", strconv.Itoa(year))
	return params
}

// do executes one API call with retries. 429 responses are retried up to
// lockedAttempts times, transport errors and 5xx up to genericAttempts;
// all other non-2xx statuses fail immediately.
func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, body, result any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	urlStr := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		urlStr += "?" + params.Encode()
	}
	requestID := uuid.NewString()

	lockedTries := 0
	genericTries := 0
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, urlStr, reader)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.activeUser != "" {
			req.Header.Set("X-Active-User", string(c.activeUser))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			genericTries++
			if genericTries >= genericAttempts {
				return fmt.Errorf("%s %s: %v: %w", method, endpoint, err, ErrUnavailable)
			}
			c.log.Debug("request failed, retrying",
				"endpoint", endpoint, "attempt", genericTries, "request_id", requestID, "error", err)
			if err := c.sleep(ctx, c.backoff(genericTries)); err != nil {
				return err
			}
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK,
			resp.StatusCode == http.StatusCreated,
			resp.StatusCode == http.StatusNoContent:
			return c.decodeBody(resp, result)

		case resp.StatusCode == http.StatusNotFound:
			drain(resp)
			return fmt.Errorf("%s %s: %w", method, endpoint, ErrNotFound)

		case resp.StatusCode == http.StatusTooManyRequests:
			drain(resp)
			lockedTries++
			if lockedTries >= lockedAttempts {
				return fmt.Errorf("%s %s: %w", method, endpoint, ErrLocked)
			}
			c.log.Debug("resource locked, retrying",
				"endpoint", endpoint, "attempt", lockedTries, "request_id", requestID)
			if err := c.sleep(ctx, c.backoff(lockedTries)); err != nil {
				return err
			}

		case resp.StatusCode >= 500:
			msg := readError(resp)
			genericTries++
			if genericTries >= genericAttempts {
				return fmt.Errorf("%s %s: server error %d: %s: %w",
					method, endpoint, resp.StatusCode, msg, ErrUnavailable)
			}
			c.log.Debug("server error, retrying",
				"endpoint", endpoint, "status", resp.StatusCode, "attempt", genericTries, "request_id", requestID)
			if err := c.sleep(ctx, c.backoff(genericTries)); err != nil {
				return err
			}

		default:
			msg := readError(resp)
			return fmt.Errorf("%s %s: backend returned %d: %s", method, endpoint, resp.StatusCode, msg)
		}
	}
}

func (c *Client) decodeBody(resp *http.Response, result any) error {
	defer func() { _ = resp.Body.Close() }()
	if result == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.backoffBase << (attempt - 1)
	if d > backoffCap {
		d = backoffCap
	}
	return d
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func readError(resp *http.Response) string {
	defer func() { _ = resp.Body.Close() }()
	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
		return errResp.Error
	}
	return resp.Status
}
