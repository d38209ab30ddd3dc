// Package ranking turns per-player best scores into a leaderboard.
package ranking

import (
	"sort"

	"github.com/okian/hiscore/internal/domain/model"
	"github.com/okian/hiscore/internal/domain/types"
)

// DefaultCutoff is the number of leaderboard positions shown by default.
const DefaultCutoff = 10

// Engine computes competition-style rankings ("1-2-2-4").
//
// Ordering: score DESC, then player id ASC (deterministic).
// Players with equal scores share a rank; the next group's rank is the
// number of rows emitted before it plus one. A group only starts while fewer
// than cutoff rows have been emitted, and a started group is never split.
type Engine struct {
	cutoff int
}

// New constructs an Engine with the default cutoff.
func New(opts ...Option) *Engine {
	e := &Engine{cutoff: DefaultCutoff}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cutoff returns the configured cutoff.
func (e *Engine) Cutoff() int { return e.cutoff }

// standing is an eligible player's best score.
type standing struct {
	id    string
	score int64
}

// Compute ranks the roster members found in scores. Players missing from the
// roster are dropped regardless of their score. The result is never nil.
func (e *Engine) Compute(roster model.Roster, scores map[string]int64) []types.Entry {
	eligible := make([]standing, 0, min(len(scores), roster.Len()))
	for id, score := range scores {
		if roster.Has(id) {
			eligible = append(eligible, standing{id: id, score: score})
		}
	}
	if len(eligible) == 0 {
		return []types.Entry{}
	}

	sortStandings(eligible)

	out := make([]types.Entry, 0, min(len(eligible), e.cutoff))
	for i := 0; i < len(eligible) && len(out) < e.cutoff; {
		rank := len(out) + 1
		groupScore := eligible[i].score
		for ; i < len(eligible) && eligible[i].score == groupScore; i++ {
			name, _ := roster.Name(eligible[i].id)
			out = append(out, types.Entry{
				Rank:       rank,
				PlayerID:   eligible[i].id,
				HandleName: name,
				Score:      groupScore,
			})
		}
	}
	return out
}

// sortStandings sorts by score (descending) and player id (ascending).
func sortStandings(s []standing) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].score != s[j].score {
			return s[i].score > s[j].score
		}
		return s[i].id < s[j].id
	})
}
