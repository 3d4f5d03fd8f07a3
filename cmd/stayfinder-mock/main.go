package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/five82/stayfinder/internal/mockapi"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "mock server config file, YAML or TOML (optional)")
	addr := flag.String("addr", "", "listen address (overrides config)")
	fixtures := flag.String("fixtures", "", "fixture YAML (overrides config)")
	watch := flag.Bool("watch", false, "reload fixtures when the file changes")
	flag.Parse()

	cfg, err := mockapi.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stayfinder-mock: %v\n", err)
		return 1
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *fixtures != "" {
		cfg.Fixtures = *fixtures
	}
	if *watch {
		cfg.Watch = true
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if level > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv, cleanup, err := mockapi.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return 1
	}
	defer cleanup()

	if err := mockapi.Serve(ctx, cfg.Addr, srv.Router(), logger); err != nil {
		logger.Error("server stopped", "error", err)
		return 1
	}
	return 0
}
