package app

import (
	"math/rand"
	"time"

	"gametable/internal/domain/race"
)

// MinPlayersToStart is the minimum number of occupied seats required to
// start either game. Centralized so tests and local runs can adjust the
// rule in one place.
const MinPlayersToStart = 2

// RaceService contains the token-race use-cases operating on domain state.
// Every method validates its preconditions and either applies the action
// completely or returns an error having mutated nothing.
type RaceService struct {
	rng *rand.Rand
}

// NewRaceService constructs a RaceService with the provided rng or a
// time-seeded default. Injecting the rng makes die rolls reproducible.
func NewRaceService(rng *rand.Rand) *RaceService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RaceService{rng: rng}
}

// Start begins a match: tokens re-home, turn goes to the first occupied
// seat, phase becomes playing.
func (s *RaceService) Start(m *race.MatchState) ([]Event, error) {
	if m.Phase != race.PhaseWaiting {
		return nil, ErrNotWaiting
	}
	if m.OccupiedSeats() < MinPlayersToStart {
		return nil, ErrTooFewPlayers
	}

	m.ResetTokens()
	m.Die = 0
	m.Rolled = false
	m.ExtraRoll = false
	m.SixStreak = 0
	m.WinnerSeat = -1
	m.LastMove = nil
	m.TurnSeat = m.FirstOccupiedSeat()
	m.Phase = race.PhasePlaying

	return []Event{{
		Kind:    EventGameStarted,
		Payload: GameStartedPayload{FirstTurnSeat: m.TurnSeat},
	}}, nil
}

// Roll draws a die face for the acting seat. While all of the actor's
// tokens are still home the draw is biased to a 50% forced six so the
// match does not stall at the start. The returned event carries the set of
// movable tokens; when it is empty the caller is expected to invoke
// FinishTurn (immediately, or after a cosmetic viewing delay).
func (s *RaceService) Roll(m *race.MatchState, seat int) ([]Event, error) {
	if m.Phase != race.PhasePlaying {
		return nil, ErrNotPlaying
	}
	if seat != m.TurnSeat {
		return nil, ErrNotYourTurn
	}
	if m.Rolled {
		return nil, ErrAlreadyRolled
	}

	face := s.rng.Intn(race.MaxDie) + 1
	if m.Players[seat].AllTokensHome() && s.rng.Intn(2) == 0 {
		face = race.MaxDie
	}

	if face == race.MaxDie {
		m.SixStreak++
	} else {
		m.SixStreak = 0
	}
	m.Die = face
	m.Rolled = true
	m.ExtraRoll = false

	return []Event{{
		Kind: EventDiceRolled,
		Payload: DiceRolledPayload{
			Seat:    seat,
			Face:    face,
			Movable: race.MovableTokens(m, seat, face),
		},
	}}, nil
}

// Move applies the pending die to the addressed token: movement, capture,
// finish and win evaluation, then either an extra roll (on a six) or the
// turn advance.
func (s *RaceService) Move(m *race.MatchState, seat, tokenID int) ([]Event, error) {
	if m.Phase != race.PhasePlaying {
		return nil, ErrNotPlaying
	}
	if seat != m.TurnSeat {
		return nil, ErrNotYourTurn
	}
	if m.Die == 0 {
		return nil, ErrNoDiePending
	}
	if tokenID < 0 || tokenID >= race.TokensPerPlayer {
		return nil, ErrTokenImmovable
	}

	tok := &m.Players[seat].Tokens[tokenID]
	dest, ok := race.Destination(tok.Pos, seat, m.Die)
	if !ok {
		return nil, ErrTokenImmovable
	}

	die := m.Die
	from := tok.Pos
	tok.Pos = dest

	var captures []race.Capture
	if dest.Kind == race.OnTrack {
		captures = race.CaptureAt(m, seat, dest.Index)
	}

	m.LastMove = &race.MoveRecord{
		Seat:     seat,
		TokenID:  tokenID,
		Die:      die,
		From:     from,
		To:       dest,
		Captures: captures,
	}

	events := []Event{{
		Kind: EventTokenMoved,
		Payload: TokenMovedPayload{
			Seat:     seat,
			TokenID:  tokenID,
			Die:      die,
			From:     from,
			To:       dest,
			Captures: captures,
		},
	}}

	// The win check pre-empts both the extra roll and the turn advance.
	if m.Players[seat].AllTokensFinished() {
		m.Players[seat].HasFinished = true
		m.WinnerSeat = seat
		m.Phase = race.PhaseEnded
		return append(events, Event{
			Kind:    EventGameEnded,
			Payload: RaceEndedPayload{WinnerSeat: seat},
		}), nil
	}

	if die == race.MaxDie {
		m.Die = 0
		m.Rolled = false
		m.ExtraRoll = true
		return append(events, Event{
			Kind:    EventExtraRoll,
			Payload: ExtraRollPayload{Seat: seat},
		}), nil
	}

	race.AdvanceTurn(m)
	return append(events, Event{
		Kind:    EventTurnAdvanced,
		Payload: TurnAdvancedPayload{NextSeat: m.TurnSeat},
	}), nil
}

// FinishTurn ends a turn on which the rolled die left no legal move. The
// caller controls the timing; the rule itself is immediate.
func (s *RaceService) FinishTurn(m *race.MatchState) ([]Event, error) {
	if m.Phase != race.PhasePlaying {
		return nil, ErrNotPlaying
	}
	if !m.Rolled || m.Die == 0 {
		return nil, ErrNoDiePending
	}
	if len(race.MovableTokens(m, m.TurnSeat, m.Die)) > 0 {
		return nil, ErrMovesRemain
	}

	race.AdvanceTurn(m)
	return []Event{{
		Kind:    EventTurnAdvanced,
		Payload: TurnAdvancedPayload{NextSeat: m.TurnSeat},
	}}, nil
}

// AddBot occupies a vacant seat with a bot identity while waiting.
func (s *RaceService) AddBot(m *race.MatchState, seat int, userID, displayName string) ([]Event, error) {
	if m.Phase != race.PhaseWaiting {
		return nil, ErrNotWaiting
	}
	if seat < 0 || seat >= race.SeatCount {
		return nil, ErrBadSeat
	}
	if m.Players[seat].Occupied() {
		return nil, ErrSeatOccupied
	}

	m.Players[seat] = race.Player{UserID: userID, DisplayName: displayName, IsBot: true}
	for i := range m.Players[seat].Tokens {
		m.Players[seat].Tokens[i] = race.Token{ID: i, Pos: race.Home(i)}
	}

	return []Event{{
		Kind:    EventBotAdded,
		Payload: BotSeatPayload{Seat: seat, UserID: userID},
	}}, nil
}

// RemoveBot vacates a bot-occupied seat while waiting.
func (s *RaceService) RemoveBot(m *race.MatchState, seat int) ([]Event, error) {
	if m.Phase != race.PhaseWaiting {
		return nil, ErrNotWaiting
	}
	if seat < 0 || seat >= race.SeatCount {
		return nil, ErrBadSeat
	}
	if !m.Players[seat].Occupied() || !m.Players[seat].IsBot {
		return nil, ErrSeatNotBot
	}

	userID := m.Players[seat].UserID
	m.Players[seat] = race.Player{}
	for i := range m.Players[seat].Tokens {
		m.Players[seat].Tokens[i] = race.Token{ID: i, Pos: race.Home(i)}
	}

	return []Event{{
		Kind:    EventBotRemoved,
		Payload: BotSeatPayload{Seat: seat, UserID: userID},
	}}, nil
}

// Reset returns the match to the waiting phase with tokens re-homed.
// Seats keep their occupants.
func (s *RaceService) Reset(m *race.MatchState) ([]Event, error) {
	m.ResetTokens()
	m.Phase = race.PhaseWaiting
	m.TurnSeat = 0
	m.Die = 0
	m.Rolled = false
	m.ExtraRoll = false
	m.SixStreak = 0
	m.WinnerSeat = -1
	m.LastMove = nil

	return []Event{{Kind: EventGameReset}}, nil
}
