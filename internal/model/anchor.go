package model

import "time"

// Anchor is a recently active player's position, used as the centre of a
// generation pass. Owned by the player-tracking side; read-only here.
type Anchor struct {
	PlayerID  string
	Location  Coordinate
	UpdatedAt time.Time
}
