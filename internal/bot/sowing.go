package bot

import (
	"math/rand"

	"gametable/internal/domain/sowing"
)

// sowingOption is one legal (cell, side) pair for a seat.
type sowingOption struct {
	cell int
	side sowing.Side
}

func legalSowingMoves(m *sowing.MatchState, seat int) []sowingOption {
	lo, hi := sowing.FieldRange(seat)
	var opts []sowingOption
	for cell := lo; cell <= hi; cell++ {
		if m.Board[cell] < 1 {
			continue
		}
		opts = append(opts, sowingOption{cell: cell, side: sowing.SideLeft})
		opts = append(opts, sowingOption{cell: cell, side: sowing.SideRight})
	}
	return opts
}

// GreedySowingBrain simulates every legal move and plays the one with the
// largest immediate capture. Sowing is a pure function of the board, so the
// lookahead costs nothing. Ties fall to the lowest cell, left before right.
type GreedySowingBrain struct{}

func (b *GreedySowingBrain) ChooseMove(m *sowing.MatchState, seat int) (int, sowing.Side, bool) {
	opts := legalSowingMoves(m, seat)
	if len(opts) == 0 {
		return 0, "", false
	}

	best := opts[0]
	bestCaptured := -1
	for _, opt := range opts {
		dir, ok := opt.side.Resolve(seat)
		if !ok {
			continue
		}
		_, captured, _ := sowing.Sow(m.Board, opt.cell, dir)
		if captured > bestCaptured {
			best = opt
			bestCaptured = captured
		}
	}
	return best.cell, best.side, true
}

// RandomSowingBrain plays a uniformly random legal move.
type RandomSowingBrain struct {
	Rng *rand.Rand
}

func (b *RandomSowingBrain) ChooseMove(m *sowing.MatchState, seat int) (int, sowing.Side, bool) {
	opts := legalSowingMoves(m, seat)
	if len(opts) == 0 {
		return 0, "", false
	}
	opt := opts[b.Rng.Intn(len(opts))]
	return opt.cell, opt.side, true
}
