package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/stayfinder/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	prefsPath := flag.String("prefs", "", "override prefs path (optional)")
	envFile := flag.String("env", "", "dotenv file to load (optional, defaults to ./.env)")
	pollSeconds := flag.Int("poll", 0, "session check interval in seconds (optional)")
	open := flag.String("open", "", "route to open first, e.g. /hostel/<id> (optional)")
	list := flag.Bool("list", false, "print search results and exit")
	query := flag.String("q", "", "search text for -list")
	category := flag.String("type", "all", "category for -list: all, hostel or pg")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		StartPath:  *open,
		List:       *list,
		Query:      *query,
		Category:   *category,
		Out:        os.Stdout,
	}
	if *envFile != "" {
		opts.EnvFiles = []string{*envFile}
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "stayfinder: %v\n", err)
		return 1
	}
	return 0
}
