package entity

// Player is the redis-backed record for a connection identity. The live
// room/game association is engine state, not part of this record.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Stats are the per-player win/loss counters, kept across matches.
type Stats struct {
	PlayerID string `json:"playerId"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
}
