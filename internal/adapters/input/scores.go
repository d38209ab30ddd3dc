package input

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/okian/hiscore/internal/domain/model"
)

// ScoreHeader is the required header of a score file.
var ScoreHeader = []string{"create_timestamp", "player_id", "score"}

// TimestampLayout is the only accepted create_timestamp format.
const TimestampLayout = "2006-01-02 15:04:05"

// ScoreFunc receives each validated score row. Returning an error stops
// the read and the error is passed through.
type ScoreFunc func(obs model.Observation) error

// ReadScores streams a score file, calling fn once per data row in file
// order. Nothing is buffered beyond the current row, so files of any size
// can be processed. Blank lines are skipped; any other invalid row aborts
// the read with a *RowError.
func ReadScores(ctx context.Context, r io.Reader, fn ScoreFunc, opts ...Option) error {
	cr, err := newCSVReader(r, newSettings(opts))
	if err != nil {
		return err
	}
	if err := checkHeader(cr, ScoreHeader); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, line, err := readRecord(cr)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		obs, err := parseScoreRow(rec)
		if err != nil {
			return &RowError{Line: line, Err: err}
		}
		if err := fn(obs); err != nil {
			return err
		}
	}
}

// ReadScoresFile opens path and streams it with ReadScores. An open
// failure is returned as the *fs.PathError, which names path.
func ReadScoresFile(ctx context.Context, path string, fn ScoreFunc, opts ...Option) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return ReadScores(ctx, f, fn, opts...)
}

func parseScoreRow(rec []string) (model.Observation, error) {
	if len(rec) != len(ScoreHeader) {
		return model.Observation{}, ErrColumnCount
	}
	ts, err := ParseTimestamp(rec[0])
	if err != nil {
		return model.Observation{}, err
	}
	if rec[1] == "" {
		return model.Observation{}, ErrEmptyPlayerID
	}
	score, err := ParseScore(rec[2])
	if err != nil {
		return model.Observation{}, err
	}
	return model.Observation{PlayerID: rec[1], Score: score, CreatedAt: ts}, nil
}

// ParseTimestamp accepts "YYYY-MM-DD HH:MM:SS" naming a real calendar time.
func ParseTimestamp(s string) (time.Time, error) {
	ts, err := time.Parse(TimestampLayout, s)
	if err != nil || ts.Format(TimestampLayout) != s {
		return time.Time{}, ErrInvalidTimestamp
	}
	return ts, nil
}

// ParseScore accepts a base-10 integer that is zero or greater and fits
// in an int64.
func ParseScore(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, ErrScoreOutOfRange
	}
	if err != nil {
		return 0, ErrNonNumericScore
	}
	if n < 0 {
		return 0, ErrNegativeScore
	}
	return n, nil
}
