package fixtures

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/okian/hiscore/internal/adapters/input"
	"github.com/okian/hiscore/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const filePermission = 0o600

// File names written by Generate.
const (
	EntryFileName = "entry.csv"
	ScoreFileName = "score.csv"
)

// validate checks the generator settings.
func (c *Config) validate() error {
	switch {
	case c.Players < 1:
		return fmt.Errorf("%w: players must be at least 1", ErrInvalidConfig)
	case c.Events < 0 || c.Ghosts < 0 || c.TieGroup < 0:
		return fmt.Errorf("%w: counts must not be negative", ErrInvalidConfig)
	case c.TieGroup > c.Players:
		return fmt.Errorf("%w: tie group larger than the roster", ErrInvalidConfig)
	case c.TieGroup > c.Events:
		return fmt.Errorf("%w: tie group larger than the event count", ErrInvalidConfig)
	case c.MaxScore < 1:
		return fmt.Errorf("%w: max score must be positive", ErrInvalidConfig)
	}
	return nil
}

func playerID(i int) string   { return fmt.Sprintf("player%06d", i) }
func handleName(i int) string { return fmt.Sprintf("HANDLE_%06d", i) }

// Generate writes an entry file and a score file to cfg.Dir. Every
// registered player appears in the entry file once; score rows pick players
// at random, ghosts included. The first TieGroup players all post
// MaxScore, so they tie at rank 1.
func Generate(ctx context.Context, cfg *Config) (Fixture, error) {
	if err := cfg.validate(); err != nil {
		return Fixture{}, err
	}
	fx := Fixture{
		EntryPath: filepath.Join(cfg.Dir, EntryFileName),
		ScorePath: filepath.Join(cfg.Dir, ScoreFileName),
		Players:   cfg.Players,
		Events:    cfg.Events,
	}

	ghosts := make([]string, cfg.Ghosts)
	for i := range ghosts {
		ghosts[i] = "ghost-" + uuid.NewString()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return writeEntries(gctx, fx.EntryPath, cfg) })
	g.Go(func() error { return writeScores(gctx, fx.ScorePath, cfg, ghosts) })
	if err := g.Wait(); err != nil {
		return Fixture{}, err
	}

	logger.Get().Info(ctx, "fixtures generated",
		logger.String("entry", fx.EntryPath),
		logger.String("score", fx.ScorePath),
		logger.Int("players", fx.Players),
		logger.Int("events", fx.Events),
		logger.Int("ghosts", cfg.Ghosts),
	)
	return fx, nil
}

func writeEntries(ctx context.Context, path string, cfg *Config) error {
	return writeFile(path, func(w *bufio.Writer) error {
		if _, err := fmt.Fprintf(w, "%s,%s\n", input.EntryHeader[0], input.EntryHeader[1]); err != nil {
			return err
		}
		for i := 1; i <= cfg.Players; i++ {
			if i%10_000 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "%s,%s\n", playerID(i), handleName(i)); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeScores(ctx context.Context, path string, cfg *Config, ghosts []string) error {
	rng := rand.New(rand.NewSource(cfg.Seed))
	ts := cfg.StartTime
	return writeFile(path, func(w *bufio.Writer) error {
		h := input.ScoreHeader
		if _, err := fmt.Fprintf(w, "%s,%s,%s\n", h[0], h[1], h[2]); err != nil {
			return err
		}
		row := func(id string, score int64) error {
			ts = ts.Add(time.Second)
			_, err := fmt.Fprintf(w, "%s,%s,%d\n", ts.Format(input.TimestampLayout), id, score)
			return err
		}
		for i := 1; i <= cfg.TieGroup; i++ {
			if err := row(playerID(i), cfg.MaxScore); err != nil {
				return err
			}
		}
		pool := cfg.Players + len(ghosts)
		for n := cfg.TieGroup; n < cfg.Events; n++ {
			if n%10_000 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			k := rng.Intn(pool)
			var id string
			if k < cfg.Players {
				id = playerID(k + 1)
			} else {
				id = ghosts[k-cfg.Players]
			}
			// Ghost scores may exceed MaxScore; they must never show up.
			score := rng.Int63n(cfg.MaxScore)
			if k >= cfg.Players {
				score += cfg.MaxScore
			}
			if err := row(id, score); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeFile(path string, fill func(w *bufio.Writer) error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := fill(w); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}
