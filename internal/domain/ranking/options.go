// Package ranking turns per-player best scores into a leaderboard.
package ranking

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithCutoff sets how many rows may be emitted before no new rank group
// starts. Values below 1 are ignored.
func WithCutoff(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.cutoff = n
		}
	}
}
