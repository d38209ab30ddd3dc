// Package fixtures generates large entry and score files and checks a
// running server against a local computation of the same files.
package fixtures

import "time"

// Config holds configuration for a fixture run.
type Config struct {
	Dir       string        // directory the CSV files are written to
	Players   int           // registered players in the entry file
	Events    int           // rows in the score file
	Ghosts    int           // unregistered players that also post scores
	TieGroup  int           // players forced to share the top score
	MaxScore  int64         // exclusive upper bound for random scores
	Seed      int64         // random seed; equal seeds give equal files
	BaseURL   string        // server to verify against; empty skips upload
	Timeout   time.Duration // HTTP request timeout
	Cutoff    int           // ranking cutoff used for the local computation
	StartTime time.Time     // create_timestamp of the first score row
}

// Defaults.
const (
	DefaultPlayers  = 1_000
	DefaultEvents   = 100_000
	DefaultGhosts   = 50
	DefaultTieGroup = 3
	DefaultMaxScore = 1_000_000
	DefaultTimeout  = 30 * time.Second
)

// DefaultConfig returns a Config with the package defaults.
func DefaultConfig() *Config {
	return &Config{
		Dir:       ".",
		Players:   DefaultPlayers,
		Events:    DefaultEvents,
		Ghosts:    DefaultGhosts,
		TieGroup:  DefaultTieGroup,
		MaxScore:  DefaultMaxScore,
		Seed:      1,
		Timeout:   DefaultTimeout,
		Cutoff:    10,
		StartTime: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Fixture describes the generated files.
type Fixture struct {
	EntryPath string
	ScorePath string
	Players   int
	Events    int
}

// Stats holds run statistics.
type Stats struct {
	Rows      int
	Uploaded  bool
	Verified  bool
	StartTime time.Time
	Duration  time.Duration
}
