package app

import "errors"

// Rule-violation sentinels. Ports log these and discard the action; they
// are never surfaced to the requesting client, which observes a silent
// no-op. Stale or duplicate requests hitting these paths are expected and
// harmless.
var (
	ErrNotWaiting     = errors.New("match not in waiting phase")
	ErrNotPlaying     = errors.New("match not in playing phase")
	ErrTooFewPlayers  = errors.New("not enough players to start")
	ErrNotYourTurn    = errors.New("actor is not the seat to move")
	ErrBadSeat        = errors.New("seat index out of range")
	ErrSeatOccupied   = errors.New("seat already occupied")
	ErrSeatNotBot     = errors.New("seat is not bot-occupied")
	ErrAlreadyRolled  = errors.New("die already rolled this turn")
	ErrNoDiePending   = errors.New("no die value pending")
	ErrTokenImmovable = errors.New("token has no legal destination")
	ErrMovesRemain    = errors.New("legal moves remain for the pending die")
	ErrBadCell        = errors.New("cell outside the actor's field range")
	ErrEmptyCell      = errors.New("cell holds no stones")
	ErrBadSide        = errors.New("malformed sowing side")
)
