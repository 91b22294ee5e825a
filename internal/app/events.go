package app

import (
	"gametable/internal/domain/race"
	"gametable/internal/domain/sowing"
)

// EventKind identifies emitted domain events for dispatch to observers.
type EventKind string

const (
	EventGameStarted EventKind = "game_started"
	EventGameReset   EventKind = "game_reset"
	EventGameEnded   EventKind = "game_ended"
	EventBotAdded    EventKind = "bot_added"
	EventBotRemoved  EventKind = "bot_removed"

	// Race events.
	EventDiceRolled   EventKind = "dice_rolled"
	EventTokenMoved   EventKind = "token_moved"
	EventExtraRoll    EventKind = "extra_roll"
	EventTurnAdvanced EventKind = "turn_advanced"

	// Sowing events.
	EventSowed    EventKind = "sowed"
	EventBorrowed EventKind = "borrowed"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type GameStartedPayload struct {
	FirstTurnSeat int
}

type BotSeatPayload struct {
	Seat   int
	UserID string
}

// DiceRolledPayload carries the drawn face and which tokens may move on it.
// An empty Movable set means the turn will end without a move.
type DiceRolledPayload struct {
	Seat    int
	Face    int
	Movable []int
}

type TokenMovedPayload struct {
	Seat     int
	TokenID  int
	Die      int
	From     race.Position
	To       race.Position
	Captures []race.Capture
}

type ExtraRollPayload struct {
	Seat int
}

type TurnAdvancedPayload struct {
	NextSeat int
}

// RaceEndedPayload announces the first player to bring all tokens home.
type RaceEndedPayload struct {
	WinnerSeat int
}

// SowedPayload carries the resolved move and its ordered step log so
// observers can replay the animation.
type SowedPayload struct {
	Seat      int
	Cell      int
	Direction sowing.Direction
	Steps     []sowing.Step
	Captured  int
	NextSeat  int
}

type BorrowedPayload struct {
	Seat  int
	Score int
}

// SowEndedPayload announces the harvest outcome.
type SowEndedPayload struct {
	Scores     [sowing.SeatCount]int
	WinnerSeat int // -1 on a draw
	Draw       bool
}
