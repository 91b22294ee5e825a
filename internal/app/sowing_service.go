package app

import (
	"gametable/internal/domain/sowing"
)

// SowingService contains the sowing-game use-cases operating on domain
// state. The rules themselves are deterministic; the only randomness in
// this game lives in the bot policy.
type SowingService struct{}

// NewSowingService constructs a SowingService.
func NewSowingService() *SowingService {
	return &SowingService{}
}

// Start begins a match: board reseeded, scores zeroed, seat 0 to move. The
// population check runs for the first mover before control is yielded.
func (s *SowingService) Start(m *sowing.MatchState) ([]Event, error) {
	if m.Phase != sowing.PhaseWaiting {
		return nil, ErrNotWaiting
	}
	if m.OccupiedSeats() != sowing.SeatCount {
		return nil, ErrTooFewPlayers
	}

	m.Board = sowing.NewBoard()
	m.Scores = [sowing.SeatCount]int{}
	m.TurnSeat = 0
	m.WinnerSeat = -1
	m.Draw = false
	m.LastMove = nil
	m.Phase = sowing.PhasePlaying

	events := []Event{{
		Kind:    EventGameStarted,
		Payload: GameStartedPayload{FirstTurnSeat: m.TurnSeat},
	}}
	return append(events, s.populate(m, m.TurnSeat)...), nil
}

// Move sows from the given cell in the actor's chosen relative direction,
// applies the resulting board and score delta, then either harvests the
// ended game or hands the turn to the other seat.
func (s *SowingService) Move(m *sowing.MatchState, seat, cell int, side sowing.Side) ([]Event, error) {
	if m.Phase != sowing.PhasePlaying {
		return nil, ErrNotPlaying
	}
	if seat != m.TurnSeat {
		return nil, ErrNotYourTurn
	}
	if !sowing.OwnsCell(seat, cell) {
		return nil, ErrBadCell
	}
	if m.Board[cell] < 1 {
		return nil, ErrEmptyCell
	}
	dir, ok := side.Resolve(seat)
	if !ok {
		return nil, ErrBadSide
	}

	board, captured, steps := sowing.Sow(m.Board, cell, dir)
	m.Board = board
	m.Scores[seat] += captured
	m.LastMove = &sowing.MoveRecord{
		Seat:      seat,
		Cell:      cell,
		Direction: dir,
		Steps:     steps,
		Captured:  captured,
	}

	if sowing.MandarinsEmpty(m.Board) {
		sowing.Harvest(m)
		return []Event{
			{
				Kind: EventSowed,
				Payload: SowedPayload{
					Seat:      seat,
					Cell:      cell,
					Direction: dir,
					Steps:     steps,
					Captured:  captured,
					NextSeat:  -1,
				},
			},
			{
				Kind: EventGameEnded,
				Payload: SowEndedPayload{
					Scores:     m.Scores,
					WinnerSeat: m.WinnerSeat,
					Draw:       m.Draw,
				},
			},
		}, nil
	}

	m.TurnSeat = 1 - seat
	events := []Event{{
		Kind: EventSowed,
		Payload: SowedPayload{
			Seat:      seat,
			Cell:      cell,
			Direction: dir,
			Steps:     steps,
			Captured:  captured,
			NextSeat:  m.TurnSeat,
		},
	}}
	return append(events, s.populate(m, m.TurnSeat)...), nil
}

// populate applies the borrowing rule for the seat about to move and
// reports it to observers when it fires.
func (s *SowingService) populate(m *sowing.MatchState, seat int) []Event {
	if !sowing.Populate(m, seat) {
		return nil
	}
	return []Event{{
		Kind:    EventBorrowed,
		Payload: BorrowedPayload{Seat: seat, Score: m.Scores[seat]},
	}}
}

// AddBot seats a bot opponent in seat 1 while it is vacant.
func (s *SowingService) AddBot(m *sowing.MatchState, userID, displayName string) ([]Event, error) {
	if m.Phase != sowing.PhaseWaiting {
		return nil, ErrNotWaiting
	}
	if m.Players[1].Occupied() {
		return nil, ErrSeatOccupied
	}

	m.Players[1] = sowing.Player{UserID: userID, DisplayName: displayName, IsBot: true}
	return []Event{{
		Kind:    EventBotAdded,
		Payload: BotSeatPayload{Seat: 1, UserID: userID},
	}}, nil
}

// RemoveBot vacates seat 1 when it is bot-occupied.
func (s *SowingService) RemoveBot(m *sowing.MatchState, seat int) ([]Event, error) {
	if m.Phase != sowing.PhaseWaiting {
		return nil, ErrNotWaiting
	}
	if seat != 1 {
		return nil, ErrBadSeat
	}
	if !m.Players[1].Occupied() || !m.Players[1].IsBot {
		return nil, ErrSeatNotBot
	}

	userID := m.Players[1].UserID
	m.Players[1] = sowing.Player{}
	return []Event{{
		Kind:    EventBotRemoved,
		Payload: BotSeatPayload{Seat: 1, UserID: userID},
	}}, nil
}

// Reset returns the match to the waiting phase with a reseeded board.
// Seats keep their occupants.
func (s *SowingService) Reset(m *sowing.MatchState) ([]Event, error) {
	m.Board = sowing.NewBoard()
	m.Scores = [sowing.SeatCount]int{}
	m.Phase = sowing.PhaseWaiting
	m.TurnSeat = 0
	m.WinnerSeat = -1
	m.Draw = false
	m.LastMove = nil

	return []Event{{Kind: EventGameReset}}, nil
}
