package race

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

// Token is a single race piece belonging to one seat.
type Token struct {
	ID  int // 0..3 within its owner
	Pos Position
}

// Player holds the domain state for one seat.
type Player struct {
	UserID      string
	DisplayName string
	IsBot       bool
	Tokens      [TokensPerPlayer]Token
	HasFinished bool
}

// Occupied reports whether the seat has a human or bot occupant.
func (p *Player) Occupied() bool { return p.UserID != "" }

// TokensAtHome returns how many of the player's tokens currently sit at home.
// The count doubles as the next free home slot index for captures.
func (p *Player) TokensAtHome() int {
	n := 0
	for _, t := range p.Tokens {
		if t.Pos.Kind == AtHome {
			n++
		}
	}
	return n
}

// AllTokensHome reports whether no token has left home yet.
func (p *Player) AllTokensHome() bool {
	return p.TokensAtHome() == TokensPerPlayer
}

// AllTokensFinished reports whether every token has reached the finish.
func (p *Player) AllTokensFinished() bool {
	for _, t := range p.Tokens {
		if t.Pos.Kind != Finished {
			return false
		}
	}
	return true
}

// Capture records one opposing token sent home by a move.
type Capture struct {
	Seat     int
	TokenID  int
	FromCell int
	HomeSlot int
}

// MoveRecord keeps the most recent move for observers to replay. Only the
// last move is retained; there is no match history.
type MoveRecord struct {
	Seat     int
	TokenID  int
	Die      int
	From     Position
	To       Position
	Captures []Capture
}

// MatchState is the authoritative state of one race match. It is mutated in
// place by the engine and must only ever be touched by the host process.
type MatchState struct {
	Phase      Phase
	Players    [SeatCount]Player
	TurnSeat   int
	Die        int // 0 = no die value pending
	Rolled     bool
	ExtraRoll  bool
	WinnerSeat int // -1 = no winner
	SixStreak  int // consecutive maximum rolls; tracked, not enforced
	LastMove   *MoveRecord
}

// NewMatchState returns a fresh waiting-phase match with all seats empty.
func NewMatchState() *MatchState {
	s := &MatchState{
		Phase:      PhaseWaiting,
		WinnerSeat: -1,
	}
	s.ResetTokens()
	return s
}

// ResetTokens sends every token back to its home slot.
func (s *MatchState) ResetTokens() {
	for seat := range s.Players {
		for i := range s.Players[seat].Tokens {
			s.Players[seat].Tokens[i] = Token{ID: i, Pos: Home(i)}
		}
		s.Players[seat].HasFinished = false
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

// FirstOccupiedSeat returns the lowest occupied seat index, or -1 if none.
func (s *MatchState) FirstOccupiedSeat() int {
	for i := range s.Players {
		if s.Players[i].Occupied() {
			return i
		}
	}
	return -1
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
