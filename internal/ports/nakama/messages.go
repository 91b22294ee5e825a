package nakama

import (
	"gametable/internal/app"
	"gametable/internal/domain/race"
	"gametable/internal/domain/sowing"
)

// Client request payloads. Start, reset and roll carry no body.

type MoveTokenRequest struct {
	Token int `json:"token"`
}

type SowMoveRequest struct {
	Cell int    `json:"cell"`
	Side string `json:"side"` // "left" or "right"
}

type AddBotRequest struct {
	Seat int `json:"seat"`
}

type RemoveBotRequest struct {
	Seat int `json:"seat"`
}

// Server event payloads.

type GameStartedMsg struct {
	FirstTurnSeat int `json:"first_turn_seat"`
}

type BotSeatMsg struct {
	Seat        int    `json:"seat"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
}

type DiceRolledMsg struct {
	Seat    int   `json:"seat"`
	Face    int   `json:"face"`
	Movable []int `json:"movable"`
}

type ExtraRollMsg struct {
	Seat int `json:"seat"`
}

type TurnAdvancedMsg struct {
	NextSeat int `json:"next_seat"`
}

type RaceEndedMsg struct {
	WinnerSeat     int              `json:"winner_seat"`
	BalanceChanges map[string]int64 `json:"balance_changes,omitempty"`
}

type SowedMsg struct {
	Seat      int       `json:"seat"`
	Cell      int       `json:"cell"`
	Direction string    `json:"direction"`
	Steps     []StepDTO `json:"steps"`
	Captured  int       `json:"captured"`
	NextSeat  int       `json:"next_seat"`
}

type BorrowedMsg struct {
	Seat  int `json:"seat"`
	Score int `json:"score"`
}

type SowEndedMsg struct {
	Scores         [sowing.SeatCount]int `json:"scores"`
	WinnerSeat     int                   `json:"winner_seat"` // -1 on a draw
	Draw           bool                  `json:"draw"`
	BalanceChanges map[string]int64      `json:"balance_changes,omitempty"`
}

// Wire representations of the domain state.

type PositionDTO struct {
	Kind  string `json:"kind"` // "home", "track", "lane", "finished"
	Index int    `json:"index"`
}

type TokenDTO struct {
	ID       int         `json:"id"`
	Position PositionDTO `json:"position"`
}

type CaptureDTO struct {
	Seat     int `json:"seat"`
	Token    int `json:"token"`
	FromCell int `json:"from_cell"`
	HomeSlot int `json:"home_slot"`
}

type RaceMoveDTO struct {
	Seat     int          `json:"seat"`
	Token    int          `json:"token"`
	Die      int          `json:"die"`
	From     PositionDTO  `json:"from"`
	To       PositionDTO  `json:"to"`
	Captures []CaptureDTO `json:"captures,omitempty"`
}

type RacePlayerDTO struct {
	Seat        int        `json:"seat"`
	UserID      string     `json:"user_id"`
	DisplayName string     `json:"display_name"`
	IsBot       bool       `json:"is_bot"`
	IsOwner     bool       `json:"is_owner"`
	Finished    bool       `json:"finished"`
	Tokens      []TokenDTO `json:"tokens"`
}

// RaceSnapshot is the full authoritative state broadcast after every
// mutation so clients never depend on deltas alone.
type RaceSnapshot struct {
	Phase      string          `json:"phase"`
	Players    []RacePlayerDTO `json:"players"`
	TurnSeat   int             `json:"turn_seat"`
	Die        int             `json:"die"`
	Rolled     bool            `json:"rolled"`
	ExtraRoll  bool            `json:"extra_roll"`
	WinnerSeat int             `json:"winner_seat"`
	LastMove   *RaceMoveDTO    `json:"last_move,omitempty"`
	OwnerSeat  int             `json:"owner_seat"`
	Tick       int64           `json:"tick"`
}

type StepDTO struct {
	Kind   string `json:"kind"` // "pickup", "deposit", "capture"
	Cell   int    `json:"cell"`
	Stones int    `json:"stones"`
}

type SowingPlayerDTO struct {
	Seat        int    `json:"seat"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	IsBot       bool   `json:"is_bot"`
	IsOwner     bool   `json:"is_owner"`
	Score       int    `json:"score"`
}

type SowingSnapshot struct {
	Phase      string                `json:"phase"`
	Board      [sowing.CellCount]int `json:"board"`
	Players    []SowingPlayerDTO     `json:"players"`
	Scores     [sowing.SeatCount]int `json:"scores"`
	TurnSeat   int                   `json:"turn_seat"`
	WinnerSeat int                   `json:"winner_seat"`
	Draw       bool                  `json:"draw"`
	LastMove   *SowedMsg             `json:"last_move,omitempty"`
	OwnerSeat  int                   `json:"owner_seat"`
	Tick       int64                 `json:"tick"`
}

func toPositionDTO(p race.Position) PositionDTO {
	kind := "home"
	switch p.Kind {
	case race.OnTrack:
		kind = "track"
	case race.InLane:
		kind = "lane"
	case race.Finished:
		kind = "finished"
	}
	return PositionDTO{Kind: kind, Index: p.Index}
}

func toCaptureDTOs(captures []race.Capture) []CaptureDTO {
	if len(captures) == 0 {
		return nil
	}
	out := make([]CaptureDTO, len(captures))
	for i, c := range captures {
		out[i] = CaptureDTO{Seat: c.Seat, Token: c.TokenID, FromCell: c.FromCell, HomeSlot: c.HomeSlot}
	}
	return out
}

func toRaceMoveDTO(mv *race.MoveRecord) *RaceMoveDTO {
	if mv == nil {
		return nil
	}
	return &RaceMoveDTO{
		Seat:     mv.Seat,
		Token:    mv.TokenID,
		Die:      mv.Die,
		From:     toPositionDTO(mv.From),
		To:       toPositionDTO(mv.To),
		Captures: toCaptureDTOs(mv.Captures),
	}
}

func toRaceSnapshot(m *race.MatchState, ownerSeat int, tick int64) RaceSnapshot {
	snap := RaceSnapshot{
		Phase:      string(m.Phase),
		TurnSeat:   m.TurnSeat,
		Die:        m.Die,
		Rolled:     m.Rolled,
		ExtraRoll:  m.ExtraRoll,
		WinnerSeat: m.WinnerSeat,
		LastMove:   toRaceMoveDTO(m.LastMove),
		OwnerSeat:  ownerSeat,
		Tick:       tick,
	}
	for seat := range m.Players {
		p := &m.Players[seat]
		if !p.Occupied() {
			continue
		}
		dto := RacePlayerDTO{
			Seat:        seat,
			UserID:      p.UserID,
			DisplayName: p.DisplayName,
			IsBot:       p.IsBot,
			IsOwner:     seat == ownerSeat,
			Finished:    p.HasFinished,
			Tokens:      make([]TokenDTO, 0, len(p.Tokens)),
		}
		for _, tok := range p.Tokens {
			dto.Tokens = append(dto.Tokens, TokenDTO{ID: tok.ID, Position: toPositionDTO(tok.Pos)})
		}
		snap.Players = append(snap.Players, dto)
	}
	return snap
}

func toStepDTOs(steps []sowing.Step) []StepDTO {
	out := make([]StepDTO, len(steps))
	for i, s := range steps {
		out[i] = StepDTO{Kind: string(s.Kind), Cell: s.Cell, Stones: s.Stones}
	}
	return out
}

func toSowedMsg(p app.SowedPayload) SowedMsg {
	return SowedMsg{
		Seat:      p.Seat,
		Cell:      p.Cell,
		Direction: p.Direction.String(),
		Steps:     toStepDTOs(p.Steps),
		Captured:  p.Captured,
		NextSeat:  p.NextSeat,
	}
}

func toSowingSnapshot(m *sowing.MatchState, ownerSeat int, tick int64) SowingSnapshot {
	snap := SowingSnapshot{
		Phase:      string(m.Phase),
		Board:      m.Board,
		Scores:     m.Scores,
		TurnSeat:   m.TurnSeat,
		WinnerSeat: m.WinnerSeat,
		Draw:       m.Draw,
		OwnerSeat:  ownerSeat,
		Tick:       tick,
	}
	if m.LastMove != nil {
		snap.LastMove = &SowedMsg{
			Seat:      m.LastMove.Seat,
			Cell:      m.LastMove.Cell,
			Direction: m.LastMove.Direction.String(),
			Steps:     toStepDTOs(m.LastMove.Steps),
			Captured:  m.LastMove.Captured,
			NextSeat:  m.TurnSeat,
		}
	}
	for seat := range m.Players {
		p := &m.Players[seat]
		if !p.Occupied() {
			continue
		}
		snap.Players = append(snap.Players, SowingPlayerDTO{
			Seat:        seat,
			UserID:      p.UserID,
			DisplayName: p.DisplayName,
			IsBot:       p.IsBot,
			IsOwner:     seat == ownerSeat,
			Score:       m.Scores[seat],
		})
	}
	return snap
}
