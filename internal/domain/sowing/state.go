package sowing

// Phase represents the lifecycle stage of a match.
type Phase string

const (
	// PhaseWaiting indicates the match is waiting for players.
	PhaseWaiting Phase = "waiting"
	// PhasePlaying indicates the match is actively in progress.
	PhasePlaying Phase = "playing"
	// PhaseEnded indicates the match has finished.
	PhaseEnded Phase = "ended"
)

// Player holds the occupant of one of the two seats.
type Player struct {
	UserID      string
	DisplayName string
	IsBot       bool
}

// Occupied reports whether the seat has a human or bot occupant.
func (p *Player) Occupied() bool { return p.UserID != "" }

// MoveRecord keeps the most recent move, with its resolved absolute
// direction and ordered step log, for observers to replay. Only the last
// move is retained; there is no match history.
type MoveRecord struct {
	Seat      int
	Cell      int
	Direction Direction
	Steps     []Step
	Captured  int
}

// MatchState is the authoritative state of one sowing match. Scores may go
// transiently negative after borrowing.
type MatchState struct {
	Phase      Phase
	Board      Board
	Players    [SeatCount]Player
	Scores     [SeatCount]int
	TurnSeat   int
	WinnerSeat int // -1 = no winner
	Draw       bool
	LastMove   *MoveRecord
}

// NewMatchState returns a fresh waiting-phase match with both seats empty.
func NewMatchState() *MatchState {
	return &MatchState{
		Phase:      PhaseWaiting,
		Board:      NewBoard(),
		WinnerSeat: -1,
	}
}

// OccupiedSeats returns the number of seats with an occupant.
func (s *MatchState) OccupiedSeats() int {
	n := 0
	for i := range s.Players {
		if s.Players[i].Occupied() {
			n++
		}
	}
	return n
}

// SeatOf returns the seat index occupied by the given user, or -1.
func (s *MatchState) SeatOf(userID string) int {
	if userID == "" {
		return -1
	}
	for i := range s.Players {
		if s.Players[i].UserID == userID {
			return i
		}
	}
	return -1
}

// StoneTotal returns board stones plus both scores. It must equal
// TotalStones at every rest point while a match is running.
func (s *MatchState) StoneTotal() int {
	return s.Board.Sum() + s.Scores[0] + s.Scores[1]
}
