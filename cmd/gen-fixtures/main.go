// Command gen-fixtures writes large entry and score files and, when a
// server URL is given, checks the server's ranking of them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/hiscore/internal/fixtures"
	"github.com/okian/hiscore/pkg/logger"
)

func main() {
	def := fixtures.DefaultConfig()
	cfg := *def

	flag.StringVar(&cfg.Dir, "dir", def.Dir, "Directory the CSV files are written to")
	flag.IntVar(&cfg.Players, "players", def.Players, "Registered players in the entry file")
	flag.IntVar(&cfg.Events, "events", def.Events, "Rows in the score file")
	flag.IntVar(&cfg.Ghosts, "ghosts", def.Ghosts, "Unregistered players posting scores")
	flag.IntVar(&cfg.TieGroup, "ties", def.TieGroup, "Players sharing the top score")
	flag.Int64Var(&cfg.MaxScore, "max-score", def.MaxScore, "Exclusive upper bound for random scores")
	flag.Int64Var(&cfg.Seed, "seed", def.Seed, "Random seed")
	flag.IntVar(&cfg.Cutoff, "cutoff", def.Cutoff, "Ranking cutoff for the local computation")
	flag.StringVar(&cfg.BaseURL, "url", "", "Server to verify against, e.g. http://localhost:8080")
	flag.DurationVar(&cfg.Timeout, "timeout", def.Timeout, "HTTP request timeout")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := logger.Init(logger.WithOutput(os.Stderr)); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := fixtures.Run(ctx, &cfg); err != nil {
		logger.Get().Error(ctx, "fixture run failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}
