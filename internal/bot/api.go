package bot

import (
	"gametable/internal/domain/race"
	"gametable/internal/domain/sowing"
)

// RaceBrain picks which of the movable tokens to play on the pending die.
// Callers only consult it with a non-empty movable set.
type RaceBrain interface {
	ChooseToken(m *race.MatchState, seat int, movable []int) int
}

// SowingBrain picks a cell and a seat-relative side to sow from. ok is
// false only when the seat has no nonempty cell, which the borrowing rule
// normally prevents.
type SowingBrain interface {
	ChooseMove(m *sowing.MatchState, seat int) (cell int, side sowing.Side, ok bool)
}
