package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/eventz/internal/client/api"
	"github.com/iudanet/eventz/internal/client/cli"
	"github.com/iudanet/eventz/internal/client/iocli"
	"github.com/iudanet/eventz/internal/client/session"
	"github.com/iudanet/eventz/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", envOr("EVENTZ_SERVER", "http://localhost:5000"), "Server URL")
	dbPath := flag.String("db", envOr("EVENTZ_DB", "eventz-client.db"), "Path to local session database")
	flag.Parse()

	if *showVersion {
		printVersion()
		return 0
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close database", slog.Any("error", err))
		}
	}()

	manager := session.NewManager(store)
	if err := manager.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load session: %v\n", err)
		return 1
	}

	stdio := iocli.NewStdio()
	c := cli.New(stdio, api.NewClient(*serverURL, manager), manager)

	if err := c.Run(ctx, flag.Args()); err != nil {
		if !errors.Is(err, cli.ErrUsage) || len(flag.Args()) > 0 {
			fmt.Fprintln(os.Stderr, cli.FormatError(err))
		}
		return 1
	}
	return 0
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printVersion() {
	fmt.Printf("Eventz Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
