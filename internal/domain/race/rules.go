package race

// stepsToLaneEntry measures forward ring distance from cell to the seat's
// lane entry cell. Zero means the token already stands on the entry cell.
func stepsToLaneEntry(seat, cell int) int {
	return (laneEntryCell(seat) - cell + TrackSize) % TrackSize
}

// Destination computes where a token at pos would land for the given seat
// and die face. ok is false when the token has no legal destination.
func Destination(pos Position, seat, die int) (dest Position, ok bool) {
	switch pos.Kind {
	case AtHome:
		if die != MaxDie {
			return Position{}, false
		}
		return Track(EntryCell(seat)), true

	case OnTrack:
		steps := stepsToLaneEntry(seat, pos.Index)
		switch {
		case die < steps:
			return Track((pos.Index + die) % TrackSize), true
		case die == steps:
			return Lane(0), true
		default:
			overshoot := die - steps - 1
			if overshoot >= LaneSize {
				return Position{}, false
			}
			if overshoot == LaneSize-1 {
				return Done(), true
			}
			return Lane(overshoot), true
		}

	case InLane:
		landing := pos.Index + die
		switch {
		case landing < LaneSize-1:
			return Lane(landing), true
		case landing == LaneSize-1:
			return Done(), true
		default:
			return Position{}, false
		}

	default: // Finished
		return Position{}, false
	}
}

// MovableTokens returns the ids of the seat's tokens that have a legal
// destination for the given die face, in token order.
func MovableTokens(s *MatchState, seat, die int) []int {
	if seat < 0 || seat >= SeatCount {
		return nil
	}
	var ids []int
	for _, t := range s.Players[seat].Tokens {
		if _, ok := Destination(t.Pos, seat, die); ok {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// CaptureAt sends every opposing token on the given ring cell back to its
// owner's lowest unused home slot. Safe cells never capture. Returns the
// capture records in seat order.
func CaptureAt(s *MatchState, moverSeat, cell int) []Capture {
	if IsSafeCell(cell) {
		return nil
	}
	var captures []Capture
	for seat := range s.Players {
		if seat == moverSeat || !s.Players[seat].Occupied() {
			continue
		}
		for i := range s.Players[seat].Tokens {
			t := &s.Players[seat].Tokens[i]
			if t.Pos.Kind != OnTrack || t.Pos.Index != cell {
				continue
			}
			slot := s.Players[seat].TokensAtHome()
			t.Pos = Home(slot)
			captures = append(captures, Capture{
				Seat:     seat,
				TokenID:  t.ID,
				FromCell: cell,
				HomeSlot: slot,
			})
		}
	}
	return captures
}

// AdvanceTurn clears the per-turn die state and moves the turn to the next
// occupied seat that has not finished, wrapping in seat order. The caller
// guarantees at least one such seat remains.
func AdvanceTurn(s *MatchState) {
	s.Die = 0
	s.Rolled = false
	s.ExtraRoll = false
	s.SixStreak = 0
	for i := 1; i <= SeatCount; i++ {
		next := (s.TurnSeat + i) % SeatCount
		if s.Players[next].Occupied() && !s.Players[next].HasFinished {
			s.TurnSeat = next
			return
		}
	}
}

// Progress scores how far along its run a token is, for bot tie-breaking:
// home counts 0, ring cells count forward distance from the entry cell,
// lane cells continue past the ring, finished tokens score highest.
func Progress(pos Position, seat int) int {
	switch pos.Kind {
	case AtHome:
		return 0
	case OnTrack:
		return (pos.Index - EntryCell(seat) + TrackSize) % TrackSize
	case InLane:
		return TrackSize + pos.Index
	default:
		return TrackSize + LaneSize + 1
	}
}
