package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/five82/stayfinder/internal/api"
	"github.com/five82/stayfinder/internal/config"
	"github.com/five82/stayfinder/internal/filter"
	"github.com/five82/stayfinder/internal/prefs"
	"github.com/five82/stayfinder/internal/render"
	"github.com/five82/stayfinder/internal/state"
	"github.com/five82/stayfinder/internal/ui"
)

// Options configure the stayfinder application.
type Options struct {
	ConfigPath string
	PrefsPath  string   // empty uses default ~/.config/stayfinder/prefs.toml
	EnvFiles   []string // dotenv files; empty reads ./.env
	PollEvery  int      // seconds; zero uses the config value
	StartPath  string   // first route, "/" when empty

	// List prints one search as a card grid and exits instead of starting
	// the TUI.
	List     bool
	Query    string
	Category string
	Out      io.Writer
}

const listWidthFallback = 100

// Run boots the stayfinder TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	if err := config.LoadDotEnv(opts.EnvFiles...); err != nil {
		return err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("prefs unreadable, using defaults", "error", err)
	}

	client, err := api.NewClient(cfg.APIURL)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}
	token := cfg.Token
	if token == "" {
		token = userPrefs.Token
	}
	client.SetToken(token)
	logger.Info("starting", "api", client.BaseURL(), "signed_in", token != "")

	if opts.List {
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		return runList(ctx, client, out, userPrefs.Theme, opts.Query, opts.Category)
	}

	store := &state.Store{}

	interval := cfg.PollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	if token != "" {
		// Populate the session before the first frame so the header is right.
		if err := refresh(ctx, store, client); err != nil {
			logger.Warn("initial session check failed", "error", err)
		}
		StartPoller(ctx, store, client, interval, logger)
	}

	uiOpts := ui.Options{
		Context:   ctx,
		Client:    client,
		Store:     store,
		Config:    &cfg,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		Logger:    logger,
		StartPath: opts.StartPath,
	}
	return ui.Run(uiOpts)
}

// openLogger appends slog text records to the client log file.
func openLogger(cfg config.Config) (*slog.Logger, func(), error) {
	path := cfg.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	return logger, func() { _ = f.Close() }, nil
}

// runList runs one search and writes the card grid to out.
func runList(ctx context.Context, client api.Service, out io.Writer, themeName, query, category string) error {
	if strings.TrimSpace(category) == "" {
		category = filter.CategoryAll
	}
	res, err := client.SearchListings(ctx, query, category)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	opts := render.Options{
		Width:    writerWidth(out),
		Selected: -1,
		Palette:  ui.GetTheme(themeName).Palette(),
	}
	fmt.Fprintln(out, render.ResultsTitle(query, category, res.Count))
	if note := render.NoResultsNote(query, category, res.Count); note != "" {
		fmt.Fprintln(out, note)
	}
	fmt.Fprintln(out, render.Grid(render.Cards(res.Items, nil), opts))
	return nil
}

func writerWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return listWidthFallback
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return listWidthFallback
	}
	return w
}
