package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"time"

	"gametable/internal/app"
	"gametable/internal/bot"
	"gametable/internal/config"
	"gametable/internal/domain/race"
	"gametable/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// pendingKind discriminates the host-scheduled cosmetic action for a
// human seat.
type pendingKind int

const (
	pendingNone pendingKind = iota
	// pendingFinishTurn ends a turn whose roll left no legal move.
	pendingFinishTurn
	// pendingAutoMove plays the only movable token for the seat.
	pendingAutoMove
)

type pendingAction struct {
	Kind  pendingKind
	Token int
	At    int64
}

// RaceMatchState is the authoritative runtime state of one race table.
type RaceMatchState struct {
	Game      *race.MatchState
	OwnerSeat int
	Tick      int64
	StakeTier string

	Presences map[string]runtime.Presence
	Svc       *app.RaceService
	Economy   ports.EconomyPort

	BotsEnabled    bool
	Pacing         pacing
	Brains         map[string]bot.RaceBrain
	BotWaitUntil   int64
	LoneHumanSince int64
	Pending        pendingAction

	rng *rand.Rand
}

func (s *RaceMatchState) seatIDs() []string {
	ids := make([]string, race.SeatCount)
	for i := range s.Game.Players {
		ids[i] = s.Game.Players[i].UserID
	}
	return ids
}

func (s *RaceMatchState) label() string {
	phase := "lobby"
	if s.Game.Phase == race.PhasePlaying {
		phase = "playing"
	}
	return matchLabel{
		Open:  countOpenSeats(s.seatIDs()),
		Game:  GameRace,
		Phase: phase,
	}.String()
}

func seatRacePlayer(m *race.MatchState, seat int, userID, displayName string, isBot bool) {
	m.Players[seat] = race.Player{UserID: userID, DisplayName: displayName, IsBot: isBot}
	for i := range m.Players[seat].Tokens {
		m.Players[seat].Tokens[i] = race.Token{ID: i, Pos: race.Home(i)}
	}
}

func clearRaceSeat(m *race.MatchState, seat int) {
	seatRacePlayer(m, seat, "", "", false)
}

// NewRaceMatch is the factory registered with Nakama for race tables.
func NewRaceMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &raceHandler{}, nil
}

type raceHandler struct{}

func (h *raceHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: could not load bot identities: %v", err)
	}
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: could not load game config: %v", err)
	}

	state := &RaceMatchState{
		Game:        race.NewMatchState(),
		OwnerSeat:   -1,
		Presences:   make(map[string]runtime.Presence),
		Svc:         app.NewRaceService(nil),
		Economy:     NewNakamaEconomyAdapter(nk),
		BotsEnabled: true,
		Pacing:      defaultPacing(),
		Brains:      make(map[string]bot.RaceBrain),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if tier, ok := params["tier"].(string); ok {
		state.StakeTier = tier
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["gametable_bots_enabled"]; ok {
		state.BotsEnabled = val != "false"
	}
	state.Pacing.applyEnv(env)

	tickRate := 1
	return state, tickRate, state.label()
}

func (h *raceHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	s, ok := state.(*RaceMatchState)
	if !ok {
		return state, false, "state not found"
	}

	seats := s.seatIDs()
	if seatOf(seats, presence.GetUserId()) >= 0 {
		// Reconnect to an already-held seat.
		return s, true, ""
	}
	if countOpenSeats(seats) > 0 {
		return s, true, ""
	}
	if s.Game.Phase == race.PhaseWaiting {
		for _, id := range seats {
			if isBotUserID(id) {
				return s, true, ""
			}
		}
	}
	return s, false, "match full"
}

func (h *raceHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	s, ok := state.(*RaceMatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		s.Presences[p.GetUserId()] = p

		if seat := s.Game.SeatOf(p.GetUserId()); seat >= 0 {
			continue // reconnect
		}

		assigned := false
		for seat := range s.Game.Players {
			if !s.Game.Players[seat].Occupied() {
				seatRacePlayer(s.Game, seat, p.GetUserId(), p.GetUsername(), false)
				assigned = true
				break
			}
		}
		if !assigned && s.Game.Phase == race.PhaseWaiting {
			for seat := range s.Game.Players {
				if s.Game.Players[seat].IsBot {
					logger.Info("MatchJoin: human %s replaces bot %s in seat %d", p.GetUserId(), s.Game.Players[seat].UserID, seat)
					delete(s.Brains, s.Game.Players[seat].UserID)
					seatRacePlayer(s.Game, seat, p.GetUserId(), p.GetUsername(), false)
					assigned = true
					break
				}
			}
		}
		if !assigned {
			logger.Warn("MatchJoin: no seat for user %s", p.GetUserId())
		}
	}

	if owner := findFirstHumanSeat(s.seatIDs()); owner != s.OwnerSeat {
		s.OwnerSeat = owner
	}

	h.updateLabel(s, dispatcher, logger)
	h.broadcastSnapshot(s, dispatcher)
	return s
}

func (h *raceHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	s, ok := state.(*RaceMatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(s.Presences, p.GetUserId())
		seat := s.Game.SeatOf(p.GetUserId())
		if seat < 0 {
			continue
		}
		clearRaceSeat(s.Game, seat)

		// A vacated turn seat would stall the match.
		if s.Game.Phase == race.PhasePlaying && s.Game.TurnSeat == seat {
			s.Pending = pendingAction{}
			race.AdvanceTurn(s.Game)
			h.broadcastEvents(ctx, s, dispatcher, logger, []app.Event{{
				Kind:    app.EventTurnAdvanced,
				Payload: app.TurnAdvancedPayload{NextSeat: s.Game.TurnSeat},
			}})
		}
	}

	s.OwnerSeat = findFirstHumanSeat(s.seatIDs())
	if shouldTerminateNoHumans(s.seatIDs()) {
		logger.Info("MatchLeave: no humans remain, terminating")
		return nil
	}

	h.updateLabel(s, dispatcher, logger)
	h.broadcastSnapshot(s, dispatcher)
	return s
}

func (h *raceHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	s, ok := state.(*RaceMatchState)
	if !ok {
		return state
	}
	s.Tick = tick

	for _, msg := range messages {
		seat := s.Game.SeatOf(msg.GetUserId())
		switch msg.GetOpCode() {
		case OpStartGame:
			h.handleStart(ctx, s, dispatcher, logger, seat)
		case OpResetGame:
			h.handleReset(ctx, s, dispatcher, logger, seat)
		case OpAddBot:
			h.handleAddBot(ctx, s, dispatcher, logger, seat, msg.GetData())
		case OpRemoveBot:
			h.handleRemoveBot(ctx, s, dispatcher, logger, seat, msg.GetData())
		case OpRollDie:
			h.handleRoll(ctx, s, dispatcher, logger, seat)
		case OpMoveToken:
			h.handleMove(ctx, s, dispatcher, logger, seat, msg.GetData())
		default:
			logger.Warn("MatchLoop: unknown opcode %d", msg.GetOpCode())
		}
	}

	h.processPending(ctx, s, dispatcher, logger)
	if s.BotsEnabled {
		h.processBots(ctx, s, dispatcher, logger)
	}
	return s
}

func (h *raceHandler) handleStart(ctx context.Context, s *RaceMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seat int) {
	if seat != s.OwnerSeat {
		logger.Debug("start: seat %d is not the owner (%d)", seat, s.OwnerSeat)
		return
	}
	events, err := s.Svc.Start(s.Game)
	if err != nil {
		logger.Debug("start rejected: %v", err)
		return
	}
	s.Pending = pendingAction{}
	h.updateLabel(s, dispatcher, logger)
	h.broadcastEvents(ctx, s, dispatcher, logger, events)
}

func (h *raceHandler) handleReset(ctx context.Context, s *RaceMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seat int) {
	if seat != s.OwnerSeat {
		logger.Debug("reset: seat %d is not the owner (%d)", seat, s.OwnerSeat)
		return
	}
	events, err := s.Svc.Reset(s.Game)
	if err != nil {
		logger.Debug("reset rejected: %v", err)
		return
	}
	s.Pending = pendingAction{}
	h.updateLabel(s, dispatcher, logger)
	h.broadcastEvents(ctx, s, dispatcher, logger, events)
}

func (h *raceHandler) handleAddBot(ctx context.Context, s *RaceMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seat int, data []byte) {
	if seat != s.OwnerSeat {
		logger.Debug("add bot: seat %d is not the owner (%d)", seat, s.OwnerSeat)
		return
	}
	var req AddBotRequest
	if err := json.Unmarshal(data, &req); err != nil {
		logger.Debug("add bot: bad payload: %v", err)
		return
	}
	h.addBot(ctx, s, dispatcher, logger, req.Seat)
}

func (h *raceHandler) addBot(ctx context.Context, s *RaceMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seat int) bool {
	identity := h.pickBotIdentity(s, seat)
	events, err := s.Svc.AddBot(s.Game, seat, identity.UserID, identity.DisplayName)
	if err != nil {
		logger.Debug("add bot rejected: %v", err)
		return false
	}
	s.Brains[identity.UserID] = bot.NewRaceBrain(identity.Difficulty)
	h.updateLabel(s, dispatcher, logger)
	h.broadcastEvents(ctx, s, dispatcher, logger, events)
	return true
}

// pickBotIdentity walks the pool from the seat index until it finds an
// identity not already at the table.
func (h *raceHandler) pickBotIdentity(s *RaceMatchState, seat int) bot.BotIdentity {
	seats := s.seatIDs()
	for offset := 0; offset < race.SeatCount; offset++ {
		identity := bot.GetBotIdentity(seat + offset)
		if seatOf(seats, identity.UserID) < 0 {
			return identity
		}
	}
	return bot.GetBotIdentity(seat)
}

func (h *raceHandler) handleRemoveBot(ctx context.Context, s *RaceMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seat int, data []byte) {
	if seat != s.OwnerSeat {
		logger.Debug("remove bot: seat %d is not the owner (%d)", seat, s.OwnerSeat)
		return
	}
	var req RemoveBotRequest
	if err := json.Unmarshal(data, &req); err != nil {
		logger.Debug("remove bot: bad payload: %v", err)
		return
	}
	if req.Seat < 0 || req.Seat >= race.SeatCount {
		return
	}
	userID := s.Game.Players[req.Seat].UserID
	events, err := s.Svc.RemoveBot(s.Game, req.Seat)
	if err != nil {
		logger.Debug("remove bot rejected: %v", err)
		return
	}
	delete(s.Brains, userID)
	h.updateLabel(s, dispatcher, logger)
	h.broadcastEvents(ctx, s, dispatcher, logger, events)
}

func (h *raceHandler) handleRoll(ctx context.Context, s *RaceMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seat int) {
	if seat < 0 {
		return
	}
	events, err := s.Svc.Roll(s.Game, seat)
	if err != nil {
		logger.Debug("roll rejected for seat %d: %v", seat, err)
		return
	}
	s.Pending = pendingAction{}
	h.broadcastEvents(ctx, s, dispatcher, logger, events)
	h.scheduleAfterRoll(s, events)
}

func (h *raceHandler) handleMove(ctx context.Context, s *RaceMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seat int, data []byte) {
	if seat < 0 {
		return
	}
	var req MoveTokenRequest
	if err := json.Unmarshal(data, &req); err != nil {
		logger.Debug("move: bad payload: %v", err)
		return
	}
	events, err := s.Svc.Move(s.Game, seat, req.Token)
	if err != nil {
		logger.Debug("move rejected for seat %d token %d: %v", seat, req.Token, err)
		return
	}
	s.Pending = pendingAction{}
	h.broadcastEvents(ctx, s, dispatcher, logger, events)
}

// scheduleAfterRoll queues the cosmetic follow-up to a human roll: a
// no-move roll hands the turn on after a viewing pause, a single movable
// token is played automatically. Bot seats drive themselves.
func (h *raceHandler) scheduleAfterRoll(s *RaceMatchState, events []app.Event) {
	for _, ev := range events {
		p, ok := ev.Payload.(app.DiceRolledPayload)
		if !ok {
			continue
		}
		if s.Game.Players[p.Seat].IsBot {
			return
		}
		switch len(p.Movable) {
		case 0:
			s.Pending = pendingAction{Kind: pendingFinishTurn, At: s.Tick + int64(s.Pacing.NoMoveAdvanceDelay)}
		case 1:
			s.Pending = pendingAction{Kind: pendingAutoMove, Token: p.Movable[0], At: s.Tick + int64(s.Pacing.AutoMoveDelay)}
		}
	}
}

func (h *raceHandler) processPending(ctx context.Context, s *RaceMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if s.Pending.Kind == pendingNone || s.Tick < s.Pending.At {
		return
	}
	pend := s.Pending
	s.Pending = pendingAction{}

	switch pend.Kind {
	case pendingFinishTurn:
		events, err := s.Svc.FinishTurn(s.Game)
		if err != nil {
			logger.Debug("scheduled finish turn rejected: %v", err)
			return
		}
		h.broadcastEvents(ctx, s, dispatcher, logger, events)
	case pendingAutoMove:
		events, err := s.Svc.Move(s.Game, s.Game.TurnSeat, pend.Token)
		if err != nil {
			logger.Debug("scheduled auto move rejected: %v", err)
			return
		}
		h.broadcastEvents(ctx, s, dispatcher, logger, events)
	}
}

func (h *raceHandler) processBots(ctx context.Context, s *RaceMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// Lobby auto-fill for a lone human.
	if s.Game.Phase == race.PhaseWaiting {
		if countHumans(s.seatIDs()) == 1 {
			if s.LoneHumanSince == 0 {
				s.LoneHumanSince = s.Tick
			}
			if s.Tick-s.LoneHumanSince >= int64(s.Pacing.BotAutoFillDelay) {
				for seat := range s.Game.Players {
					if !s.Game.Players[seat].Occupied() {
						h.addBot(ctx, s, dispatcher, logger, seat)
					}
				}
				s.LoneHumanSince = 0
			}
		} else {
			s.LoneHumanSince = 0
		}
		return
	}

	if s.Game.Phase != race.PhasePlaying {
		return
	}
	turn := s.Game.TurnSeat
	if !s.Game.Players[turn].IsBot {
		s.BotWaitUntil = 0
		return
	}

	if s.BotWaitUntil == 0 {
		delay := s.rng.Intn(s.Pacing.BotMaxDelay-s.Pacing.BotMinDelay+1) + s.Pacing.BotMinDelay
		s.BotWaitUntil = s.Tick + int64(delay)
		return
	}
	if s.Tick < s.BotWaitUntil {
		return
	}
	s.BotWaitUntil = 0

	if !s.Game.Rolled {
		events, err := s.Svc.Roll(s.Game, turn)
		if err != nil {
			logger.Debug("bot roll rejected for seat %d: %v", turn, err)
			return
		}
		h.broadcastEvents(ctx, s, dispatcher, logger, events)
		return
	}

	movable := race.MovableTokens(s.Game, turn, s.Game.Die)
	if len(movable) == 0 {
		events, err := s.Svc.FinishTurn(s.Game)
		if err != nil {
			logger.Debug("bot finish turn rejected: %v", err)
			return
		}
		h.broadcastEvents(ctx, s, dispatcher, logger, events)
		return
	}

	brain, ok := s.Brains[s.Game.Players[turn].UserID]
	if !ok {
		brain = bot.NewRaceBrain("")
		s.Brains[s.Game.Players[turn].UserID] = brain
	}
	token := brain.ChooseToken(s.Game, turn, movable)
	events, err := s.Svc.Move(s.Game, turn, token)
	if err != nil {
		logger.Debug("bot move rejected for seat %d token %d: %v", turn, token, err)
		return
	}
	h.broadcastEvents(ctx, s, dispatcher, logger, events)
}

// broadcastEvents maps app events to wire messages, runs end-of-game
// settlement, and finishes with a full snapshot.
func (h *raceHandler) broadcastEvents(ctx context.Context, s *RaceMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		var opCode int64
		var payload interface{}

		switch ev.Kind {
		case app.EventGameStarted:
			p := ev.Payload.(app.GameStartedPayload)
			opCode, payload = OpGameStarted, GameStartedMsg{FirstTurnSeat: p.FirstTurnSeat}
		case app.EventGameReset:
			opCode, payload = OpGameReset, struct{}{}
		case app.EventBotAdded:
			p := ev.Payload.(app.BotSeatPayload)
			opCode, payload = OpBotAdded, BotSeatMsg{Seat: p.Seat, UserID: p.UserID, DisplayName: bot.GetBotDisplayName(p.UserID)}
		case app.EventBotRemoved:
			p := ev.Payload.(app.BotSeatPayload)
			opCode, payload = OpBotRemoved, BotSeatMsg{Seat: p.Seat, UserID: p.UserID}
		case app.EventDiceRolled:
			p := ev.Payload.(app.DiceRolledPayload)
			opCode, payload = OpDiceRolled, DiceRolledMsg{Seat: p.Seat, Face: p.Face, Movable: p.Movable}
		case app.EventTokenMoved:
			p := ev.Payload.(app.TokenMovedPayload)
			opCode, payload = OpTokenMoved, RaceMoveDTO{
				Seat:     p.Seat,
				Token:    p.TokenID,
				Die:      p.Die,
				From:     toPositionDTO(p.From),
				To:       toPositionDTO(p.To),
				Captures: toCaptureDTOs(p.Captures),
			}
		case app.EventExtraRoll:
			p := ev.Payload.(app.ExtraRollPayload)
			opCode, payload = OpExtraRoll, ExtraRollMsg{Seat: p.Seat}
		case app.EventTurnAdvanced:
			p := ev.Payload.(app.TurnAdvancedPayload)
			opCode, payload = OpTurnAdvanced, TurnAdvancedMsg{NextSeat: p.NextSeat}
		case app.EventGameEnded:
			p := ev.Payload.(app.RaceEndedPayload)
			changes := raceSettlement(s.seatIDs(), p.WinnerSeat, config.GetStake(s.StakeTier))
			applySettlement(ctx, s.Economy, logger, changes)
			opCode, payload = OpGameEnded, RaceEndedMsg{WinnerSeat: p.WinnerSeat, BalanceChanges: changes}
			h.updateLabel(s, dispatcher, logger)
		default:
			logger.Warn("unknown event kind %q", ev.Kind)
			continue
		}

		data, err := json.Marshal(payload)
		if err != nil {
			logger.Error("marshal event %q: %v", ev.Kind, err)
			continue
		}

		var recipients []runtime.Presence
		if len(ev.Recipients) > 0 {
			for _, uid := range ev.Recipients {
				if p, ok := s.Presences[uid]; ok {
					recipients = append(recipients, p)
				}
			}
			if len(recipients) == 0 {
				continue
			}
		}
		dispatcher.BroadcastMessage(opCode, data, recipients, nil, true)
	}

	h.broadcastSnapshot(s, dispatcher)
}

func (h *raceHandler) broadcastSnapshot(s *RaceMatchState, dispatcher runtime.MatchDispatcher) {
	snap := toRaceSnapshot(s.Game, s.OwnerSeat, s.Tick)
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	dispatcher.BroadcastMessage(OpSnapshot, data, nil, nil, true)
}

func (h *raceHandler) updateLabel(s *RaceMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if err := dispatcher.MatchLabelUpdate(s.label()); err != nil {
		logger.Error("label update: %v", err)
	}
}

func (h *raceHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: reason %d", reason)
	return state
}

func (h *raceHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
