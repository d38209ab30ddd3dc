// Package model contains domain models passed between layers.
package model

import "time"

// Observation is one validated row of the score stream.
// It is consumed by the aggregator and never stored.
type Observation struct {
	PlayerID  string    // case-sensitive player identifier
	Score     int64     // non-negative score
	CreatedAt time.Time // create_timestamp column
}

// Roster maps player ids to handle names. Only roster members are ranked.
type Roster map[string]string

// Has reports whether playerID is a registered player.
func (r Roster) Has(playerID string) bool {
	_, ok := r[playerID]
	return ok
}

// Name returns the handle name registered for playerID.
func (r Roster) Name(playerID string) (string, bool) {
	name, ok := r[playerID]
	return name, ok
}

// Len returns the number of registered players.
func (r Roster) Len() int { return len(r) }
