package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/filmclub/screener/internal/awards"
	"github.com/filmclub/screener/internal/cache"
	"github.com/filmclub/screener/internal/config"
	"github.com/filmclub/screener/internal/directory"
	"github.com/filmclub/screener/internal/identity"
	"github.com/filmclub/screener/internal/prefs"
	"github.com/filmclub/screener/internal/ui"
)

var version = "dev"

var (
	configPath string
	serverURL  string
	yearFlag   int
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "Shared award-season watch tracker",
	Long: `screener - shared award-season watch tracker

Track which of this year's nominated films you and your friends have
seen, against a common tracker backend. Log in by picking a username
(no passwords), list and filter the nomination table, mark films, and
compare progress.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Backend URL (overrides config)")
	rootCmd.PersistentFlags().IntVar(&yearFlag, "year", 0, "Ceremony year (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("screener {{.Version}}\n")
}

// appEnv wires the client-side stack for one command invocation.
type appEnv struct {
	cfg    *config.Config
	log    *slog.Logger
	client *awards.Client
	store  *cache.Cache
	dir    *directory.Accessor
	rec    *identity.Reconciler
	prefs  prefs.Preferences

	prefsPath string
}

// setupEnv loads config, opens local state and seeds the identity from
// cookies. Callers must Close the returned env.
func setupEnv(cmd *cobra.Command) (*appEnv, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.Discover()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		cfg.Server.URL = serverURL
	}
	if yearFlag != 0 {
		cfg.Server.Year = yearFlag
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &config.ConfigError{Path: path, Errors: errs}
	}

	log := newLogger(cfg.Server.LogLevel)

	client := awards.NewClient(cfg.Server.URL,
		awards.WithRateLimit(cfg.Client.RequestsPerSecond),
		awards.WithLogger(log))

	store, err := cache.Open(filepath.Join(cfg.State.Dir, "cache.db"))
	if err != nil {
		return nil, err
	}

	dir := directory.NewAccessor(client,
		directory.WithStore(store),
		directory.WithTTL(cfg.DirectoryTTL()),
		directory.WithLogger(log))

	jar := identity.OpenJar(filepath.Join(cfg.State.Dir, identity.CookieFileName))
	rec := identity.NewReconciler(jar, dir,
		identity.WithGrace(cfg.Grace()),
		identity.WithNotifier(ui.Toast),
		identity.WithLogger(log))
	rec.Initialize(cmd.Context())

	id, _ := rec.Current()
	client.SetActiveUser(id)

	prefsPath := filepath.Join(cfg.State.Dir, prefs.FileName)

	return &appEnv{
		cfg:       cfg,
		log:       log,
		client:    client,
		store:     store,
		dir:       dir,
		rec:       rec,
		prefs:     prefs.Load(prefsPath, log),
		prefsPath: prefsPath,
	}, nil
}

// Close settles any in-flight identity confirmation and releases state.
func (e *appEnv) Close(cmd *cobra.Command) {
	if err := e.rec.Settle(cmd.Context()); err != nil {
		e.log.Debug("identity confirmation interrupted", "error", err)
	}
	_ = e.store.Close()
}

// requireLogin returns the active user id or an actionable error.
func (e *appEnv) requireLogin() (awards.UserID, error) {
	id, _ := e.rec.Current()
	if id == "" {
		return "", fmt.Errorf("not logged in (run 'screener login <username>')")
	}
	return id, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
