// Package types contains common types used across the application
package types

// Entry is one ranked leaderboard row.
type Entry struct {
	Rank       int    `json:"rank"`
	PlayerID   string `json:"player_id"`
	HandleName string `json:"handle_name"`
	Score      int64  `json:"score"`
}
