// Package aggregate tracks the best score seen per player in a score stream.
package aggregate

// Aggregator keeps the maximum recorded score per player.
//
// One Aggregator serves exactly one aggregation pass. It is not safe for
// concurrent use; concurrent passes must each own their instance.
type Aggregator struct {
	best map[string]int64
}

// New returns an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{best: make(map[string]int64)}
}

// Record stores score for playerID unless a higher or equal score is
// already stored. Negative scores and empty ids are ignored; readers reject
// them before they get here.
func (a *Aggregator) Record(playerID string, score int64) {
	if playerID == "" || score < 0 {
		return
	}
	if old, ok := a.best[playerID]; ok && score <= old {
		return
	}
	a.best[playerID] = score
}

// Best returns the stored score for playerID.
func (a *Aggregator) Best(playerID string) (int64, bool) {
	s, ok := a.best[playerID]
	return s, ok
}

// Len returns the number of distinct players recorded.
func (a *Aggregator) Len() int { return len(a.best) }

// Snapshot returns a copy of the aggregate state.
func (a *Aggregator) Snapshot() map[string]int64 {
	out := make(map[string]int64, len(a.best))
	for id, s := range a.best {
		out[id] = s
	}
	return out
}
