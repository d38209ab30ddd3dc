// Package service runs one ranking pass: load the roster, stream the score
// file into a fresh aggregator, and compute the bounded ranking. It
// implements the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/okian/hiscore/internal/adapters/input"
	"github.com/okian/hiscore/internal/domain/aggregate"
	"github.com/okian/hiscore/internal/domain/model"
	"github.com/okian/hiscore/internal/domain/ranking"
	"github.com/okian/hiscore/internal/domain/types"
	"github.com/okian/hiscore/pkg/logger"
	"github.com/okian/hiscore/pkg/metrics"
)

// File kinds used in error messages and metric labels.
const (
	fileEntry = "entry"
	fileScore = "score"
)

// Service computes rankings. It holds configuration and counters only, so
// a single instance can serve concurrent requests.
type Service struct {
	cutoff   int
	encoding string
	logger   logger.Logger

	startedAt time.Time
	rankings  atomic.Int64
	failures  atomic.Int64
	recorded  atomic.Int64
	ignored   atomic.Int64
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cutoff:    ranking.DefaultCutoff,
		encoding:  input.DefaultEncoding,
		startedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// source reads the roster and streams the score rows of one ranking pass.
type source struct {
	entries func(ctx context.Context, opts ...input.Option) (model.Roster, error)
	scores  func(ctx context.Context, fn input.ScoreFunc, opts ...input.Option) error
}

// Rank reads the entry and score streams and returns the ranking.
// Errors from the entry reader are prefixed "entry file", those from the
// score reader "score file"; both keep their sentinel kinds.
func (s *Service) Rank(ctx context.Context, entries, scores io.Reader) ([]types.Entry, error) {
	return s.run(ctx, source{
		entries: func(ctx context.Context, opts ...input.Option) (model.Roster, error) {
			return input.ReadEntries(ctx, entries, opts...)
		},
		scores: func(ctx context.Context, fn input.ScoreFunc, opts ...input.Option) error {
			return input.ReadScores(ctx, scores, fn, opts...)
		},
	})
}

// RankFiles is Rank for files on disk. Open errors carry the same
// "entry file" and "score file" prefixes as read errors.
func (s *Service) RankFiles(ctx context.Context, entryPath, scorePath string) ([]types.Entry, error) {
	return s.run(ctx, source{
		entries: func(ctx context.Context, opts ...input.Option) (model.Roster, error) {
			return input.ReadEntriesFile(ctx, entryPath, opts...)
		},
		scores: func(ctx context.Context, fn input.ScoreFunc, opts ...input.Option) error {
			return input.ReadScoresFile(ctx, scorePath, fn, opts...)
		},
	})
}

func (s *Service) run(ctx context.Context, src source) ([]types.Entry, error) {
	start := time.Now()
	rows, err := s.rank(ctx, src)
	if err != nil {
		s.failures.Add(1)
		s.logger.Debug(ctx, "ranking failed", logger.Error(err))
		return nil, err
	}

	took := time.Since(start)
	s.rankings.Add(1)
	metrics.RecordRanking(len(rows), float64(took.Microseconds())/1000)
	s.logger.Debug(ctx, "ranking computed",
		logger.Int("rows", len(rows)),
		logger.Duration("took", took),
	)
	return rows, nil
}

func (s *Service) rank(ctx context.Context, src source) ([]types.Entry, error) {
	opts := []input.Option{input.WithEncoding(s.encoding)}

	roster, err := src.entries(ctx, opts...)
	if err != nil {
		return nil, s.readError(fileEntry, err)
	}
	metrics.UpdateRosterSize(roster.Len())

	agg := aggregate.New()
	var recorded, ignored int64
	err = src.scores(ctx, func(obs model.Observation) error {
		if !roster.Has(obs.PlayerID) {
			ignored++
			metrics.RecordObservationIgnored()
			return nil
		}
		agg.Record(obs.PlayerID, obs.Score)
		recorded++
		metrics.RecordObservation()
		return nil
	}, opts...)
	s.recorded.Add(recorded)
	s.ignored.Add(ignored)
	if err != nil {
		return nil, s.readError(fileScore, err)
	}

	s.logger.Debug(ctx, "score stream consumed",
		logger.Int("roster", roster.Len()),
		logger.Int64("recorded", recorded),
		logger.Int64("ignored", ignored),
		logger.Int("players", agg.Len()),
	)

	engine := ranking.New(ranking.WithCutoff(s.cutoff))
	return engine.Compute(roster, agg.Snapshot()), nil
}

func (s *Service) readError(file string, err error) error {
	if errors.Is(err, input.ErrInvalidFormat) {
		metrics.RecordRowRejected(file, input.Reason(err))
	}
	return fmt.Errorf("%s file: %w", file, err)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	return map[string]any{
		"rankingCutoff":        s.cutoff,
		"inputEncoding":        s.encoding,
		"uptimeSeconds":        int64(time.Since(s.startedAt).Seconds()),
		"rankingsComputed":     s.rankings.Load(),
		"rankingsFailed":       s.failures.Load(),
		"observationsRecorded": s.recorded.Load(),
		"observationsIgnored":  s.ignored.Load(),
	}
}

// Cutoff returns the configured ranking cutoff.
func (s *Service) Cutoff() int { return s.cutoff }
