package bot

import (
	"math/rand"

	"gametable/internal/domain/race"
)

// GreedyRaceBrain plays a fixed priority ladder: finish a token, capture an
// opponent, bring a token out of home on a six, otherwise push the token
// that is furthest along. Ties fall to the lowest token ID.
type GreedyRaceBrain struct{}

func (b *GreedyRaceBrain) ChooseToken(m *race.MatchState, seat int, movable []int) int {
	if len(movable) == 0 {
		return -1
	}

	for _, id := range movable {
		dest, ok := race.Destination(m.Players[seat].Tokens[id].Pos, seat, m.Die)
		if ok && dest.Kind == race.Finished {
			return id
		}
	}

	for _, id := range movable {
		dest, ok := race.Destination(m.Players[seat].Tokens[id].Pos, seat, m.Die)
		if ok && dest.Kind == race.OnTrack && wouldCapture(m, seat, dest.Index) {
			return id
		}
	}

	if m.Die == race.MaxDie {
		for _, id := range movable {
			if m.Players[seat].Tokens[id].Pos.Kind == race.AtHome {
				return id
			}
		}
	}

	best := movable[0]
	bestProgress := race.Progress(m.Players[seat].Tokens[best].Pos, seat)
	for _, id := range movable[1:] {
		if p := race.Progress(m.Players[seat].Tokens[id].Pos, seat); p > bestProgress {
			best = id
			bestProgress = p
		}
	}
	return best
}

// wouldCapture reports whether landing on the given ring cell would send an
// opponent token home.
func wouldCapture(m *race.MatchState, seat, cell int) bool {
	if race.IsSafeCell(cell) {
		return false
	}
	for s := range m.Players {
		if s == seat || !m.Players[s].Occupied() {
			continue
		}
		for _, tok := range m.Players[s].Tokens {
			if tok.Pos.Kind == race.OnTrack && tok.Pos.Index == cell {
				return true
			}
		}
	}
	return false
}

// RandomRaceBrain plays a uniformly random movable token.
type RandomRaceBrain struct {
	Rng *rand.Rand
}

func (b *RandomRaceBrain) ChooseToken(m *race.MatchState, seat int, movable []int) int {
	if len(movable) == 0 {
		return -1
	}
	return movable[b.Rng.Intn(len(movable))]
}
