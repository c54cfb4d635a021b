package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/duotier/duostore/internal/cmd"
)

// Build-time version metadata, injected via ldflags.
var (
	version   = "dev"
	commit    = "HEAD"
	buildDate = "unknown"
)

func main() {
	// Best effort: a missing .env file is not an error.
	_ = godotenv.Load()

	cmd.SetVersionInfo(version, commit, buildDate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "duostore:", err)
		stop()
		os.Exit(cmd.ExitCode(err))
	}
}
