// Command ranking reads an entry file and a score file and writes the
// leaderboard as CSV to stdout.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/hiscore/internal/adapters/cli"
	"github.com/okian/hiscore/internal/adapters/input"
	"github.com/okian/hiscore/internal/adapters/output"
	service "github.com/okian/hiscore/internal/app"
	"github.com/okian/hiscore/internal/config"
	"github.com/okian/hiscore/pkg/logger"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command and returns the process exit code. Logs and
// error messages go to stderr so stdout carries only CSV.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if err := logger.Init(logger.WithOutput(stderr)); err != nil {
		fmt.Fprintln(stderr, "failed to initialize logging:", err)
		return exitError
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "failed to load config:", err)
		return exitError
	}
	// Load accepts only levels SetLevelString understands.
	_ = logger.SetLevelString(cfg.LogLevel)
	log := logger.Get().Named("ranking")

	paths, err := cli.ParseArgs(args)
	if err != nil {
		report(stderr, err)
		if errors.Is(err, cli.ErrArgCount) {
			fmt.Fprintln(stderr, cli.Usage)
		}
		return exitError
	}

	svc := service.New(
		service.WithLogger(log),
		service.WithCutoff(cfg.RankingCutoff),
		service.WithEncoding(cfg.InputEncoding),
	)
	rows, err := svc.RankFiles(ctx, paths.Entry, paths.Score)
	if err != nil {
		report(stderr, err)
		return exitError
	}
	if err := output.WriteCSV(stdout, rows); err != nil {
		report(stderr, err)
		return exitError
	}
	return exitOK
}

// report prints err for the user. Argument and format errors are shown as
// they are; anything else gets a generic prefix.
func report(w io.Writer, err error) {
	if cli.IsUsageError(err) || errors.Is(err, input.ErrInvalidFormat) {
		fmt.Fprintln(w, err)
		return
	}
	fmt.Fprintln(w, "an error occurred:", err)
}
