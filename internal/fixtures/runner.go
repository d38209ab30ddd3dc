package fixtures

import (
	"context"
	"fmt"
	"os"
	"time"

	service "github.com/okian/hiscore/internal/app"
	"github.com/okian/hiscore/internal/domain/types"
	"github.com/okian/hiscore/pkg/logger"
)

const directoryPermission = 0o750

// Run generates the fixture files, ranks them locally and, when BaseURL is
// set, uploads them and verifies the server's answer.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("fixtures")

	log.Info(ctx, "starting fixture run",
		logger.String("dir", cfg.Dir),
		logger.Int("players", cfg.Players),
		logger.Int("events", cfg.Events),
		logger.Int("ghosts", cfg.Ghosts),
		logger.String("baseURL", cfg.BaseURL))

	if err := os.MkdirAll(cfg.Dir, directoryPermission); err != nil {
		return stats, fmt.Errorf("create output dir: %w", err)
	}

	// Step 1: check the server before doing any work for it
	var client *Client
	if cfg.BaseURL != "" {
		client = NewClient(cfg.BaseURL, cfg.Timeout)
		if err := client.Health(ctx); err != nil {
			return stats, fmt.Errorf("service health check failed: %w", err)
		}
	}

	// Step 2: generate files
	fx, err := Generate(ctx, cfg)
	if err != nil {
		return stats, fmt.Errorf("fixture generation failed: %w", err)
	}

	// Step 3: local ranking
	local, err := service.New(service.WithCutoff(cfg.Cutoff), service.WithLogger(log)).
		RankFiles(ctx, fx.EntryPath, fx.ScorePath)
	if err != nil {
		return stats, fmt.Errorf("local ranking failed: %w", err)
	}
	stats.Rows = len(local)

	// Step 4: upload and verify
	if client != nil {
		var remote []types.Entry
		remote, err = client.Upload(ctx, fx.EntryPath, fx.ScorePath)
		if err != nil {
			return stats, fmt.Errorf("upload failed: %w", err)
		}
		stats.Uploaded = true
		if err := Compare(local, remote); err != nil {
			return stats, fmt.Errorf("result verification failed: %w", err)
		}
		stats.Verified = true
	}

	stats.Duration = time.Since(stats.StartTime)
	displayFinalStats(ctx, log, cfg, stats)
	return stats, nil
}

func displayFinalStats(ctx context.Context, log logger.Logger, cfg *Config, stats *Stats) {
	var eventsPerSecond float64
	if stats.Duration > 0 {
		eventsPerSecond = float64(cfg.Events) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("rows", stats.Rows),
		logger.Any("uploaded", stats.Uploaded),
		logger.Any("verified", stats.Verified),
		logger.Duration("duration", stats.Duration),
		logger.Float64("eventsPerSecond", eventsPerSecond))
}
