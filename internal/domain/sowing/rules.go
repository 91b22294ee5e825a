package sowing

// Populate applies the borrowing rule for the seat about to move: iff its
// entire owned field range is empty, the seat pays BorrowCost from its
// score and reseeds every owned cell with a single stone. Reports whether
// borrowing happened.
func Populate(s *MatchState, seat int) bool {
	if s.Board.FieldSum(seat) != 0 {
		return false
	}
	lo, hi := FieldRange(seat)
	for c := lo; c <= hi; c++ {
		s.Board[c] = 1
	}
	s.Scores[seat] -= BorrowCost
	return true
}

// MandarinsEmpty reports whether both mandarin cells are empty, the
// end-of-game condition.
func MandarinsEmpty(b Board) bool {
	return b[MandarinA] == 0 && b[MandarinB] == 0
}

// Harvest ends the match: each seat collects the stones remaining in its
// own field range, the board is zeroed and the higher score wins. Equal
// scores end in a draw.
func Harvest(s *MatchState) {
	s.Scores[0] += s.Board.FieldSum(0)
	s.Scores[1] += s.Board.FieldSum(1)
	s.Board = Board{}
	switch {
	case s.Scores[0] > s.Scores[1]:
		s.WinnerSeat = 0
	case s.Scores[1] > s.Scores[0]:
		s.WinnerSeat = 1
	default:
		s.Draw = true
	}
	s.Phase = PhaseEnded
}
