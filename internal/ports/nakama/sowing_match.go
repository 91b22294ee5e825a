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
	"gametable/internal/domain/sowing"
	"gametable/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// SowingMatchState is the authoritative runtime state of one sowing table.
type SowingMatchState struct {
	Game      *sowing.MatchState
	OwnerSeat int
	Tick      int64
	StakeTier string

	Presences map[string]runtime.Presence
	Svc       *app.SowingService
	Economy   ports.EconomyPort

	BotsEnabled    bool
	Pacing         pacing
	Brain          bot.SowingBrain
	BotWaitUntil   int64
	LoneHumanSince int64

	rng *rand.Rand
}

func (s *SowingMatchState) seatIDs() []string {
	ids := make([]string, sowing.SeatCount)
	for i := range s.Game.Players {
		ids[i] = s.Game.Players[i].UserID
	}
	return ids
}

func (s *SowingMatchState) label() string {
	phase := "lobby"
	if s.Game.Phase == sowing.PhasePlaying {
		phase = "playing"
	}
	return matchLabel{
		Open:  countOpenSeats(s.seatIDs()),
		Game:  GameSowing,
		Phase: phase,
	}.String()
}

// NewSowingMatch is the factory registered with Nakama for sowing tables.
func NewSowingMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &sowingHandler{}, nil
}

type sowingHandler struct{}

func (h *sowingHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: could not load bot identities: %v", err)
	}
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: could not load game config: %v", err)
	}

	state := &SowingMatchState{
		Game:        sowing.NewMatchState(),
		OwnerSeat:   -1,
		Presences:   make(map[string]runtime.Presence),
		Svc:         app.NewSowingService(),
		Economy:     NewNakamaEconomyAdapter(nk),
		BotsEnabled: true,
		Pacing:      defaultPacing(),
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

func (h *sowingHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	s, ok := state.(*SowingMatchState)
	if !ok {
		return state, false, "state not found"
	}

	seats := s.seatIDs()
	if seatOf(seats, presence.GetUserId()) >= 0 {
		return s, true, ""
	}
	if countOpenSeats(seats) > 0 {
		return s, true, ""
	}
	if s.Game.Phase == sowing.PhaseWaiting {
		for _, id := range seats {
			if isBotUserID(id) {
				return s, true, ""
			}
		}
	}
	return s, false, "match full"
}

func (h *sowingHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	s, ok := state.(*SowingMatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		s.Presences[p.GetUserId()] = p

		if s.Game.SeatOf(p.GetUserId()) >= 0 {
			continue // reconnect
		}

		assigned := false
		for seat := range s.Game.Players {
			if !s.Game.Players[seat].Occupied() {
				s.Game.Players[seat] = sowing.Player{UserID: p.GetUserId(), DisplayName: p.GetUsername()}
				assigned = true
				break
			}
		}
		if !assigned && s.Game.Phase == sowing.PhaseWaiting && s.Game.Players[1].IsBot {
			logger.Info("MatchJoin: human %s replaces bot %s", p.GetUserId(), s.Game.Players[1].UserID)
			s.Brain = nil
			s.Game.Players[1] = sowing.Player{UserID: p.GetUserId(), DisplayName: p.GetUsername()}
			assigned = true
		}
		if !assigned {
			logger.Warn("MatchJoin: no seat for user %s", p.GetUserId())
		}
	}

	s.OwnerSeat = findFirstHumanSeat(s.seatIDs())
	h.updateLabel(s, dispatcher, logger)
	h.broadcastSnapshot(s, dispatcher)
	return s
}

func (h *sowingHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	s, ok := state.(*SowingMatchState)
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
		s.Game.Players[seat] = sowing.Player{}
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

func (h *sowingHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	s, ok := state.(*SowingMatchState)
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
			h.handleAddBot(ctx, s, dispatcher, logger, seat)
		case OpRemoveBot:
			h.handleRemoveBot(ctx, s, dispatcher, logger, seat)
		case OpSowMove:
			h.handleMove(ctx, s, dispatcher, logger, seat, msg.GetData())
		default:
			logger.Warn("MatchLoop: unknown opcode %d", msg.GetOpCode())
		}
	}

	if s.BotsEnabled {
		h.processBots(ctx, s, dispatcher, logger)
	}
	return s
}

func (h *sowingHandler) handleStart(ctx context.Context, s *SowingMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seat int) {
	if seat != s.OwnerSeat {
		logger.Debug("start: seat %d is not the owner (%d)", seat, s.OwnerSeat)
		return
	}
	events, err := s.Svc.Start(s.Game)
	if err != nil {
		logger.Debug("start rejected: %v", err)
		return
	}
	h.updateLabel(s, dispatcher, logger)
	h.broadcastEvents(ctx, s, dispatcher, logger, events)
}

func (h *sowingHandler) handleReset(ctx context.Context, s *SowingMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seat int) {
	if seat != s.OwnerSeat {
		logger.Debug("reset: seat %d is not the owner (%d)", seat, s.OwnerSeat)
		return
	}
	events, err := s.Svc.Reset(s.Game)
	if err != nil {
		logger.Debug("reset rejected: %v", err)
		return
	}
	h.updateLabel(s, dispatcher, logger)
	h.broadcastEvents(ctx, s, dispatcher, logger, events)
}

func (h *sowingHandler) handleAddBot(ctx context.Context, s *SowingMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seat int) {
	if seat != s.OwnerSeat {
		logger.Debug("add bot: seat %d is not the owner (%d)", seat, s.OwnerSeat)
		return
	}
	h.addBot(ctx, s, dispatcher, logger)
}

func (h *sowingHandler) addBot(ctx context.Context, s *SowingMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	identity := bot.GetBotIdentity(1)
	if seatOf(s.seatIDs(), identity.UserID) >= 0 {
		identity = bot.GetBotIdentity(2)
	}
	events, err := s.Svc.AddBot(s.Game, identity.UserID, identity.DisplayName)
	if err != nil {
		logger.Debug("add bot rejected: %v", err)
		return
	}
	s.Brain = bot.NewSowingBrain(identity.Difficulty)
	h.updateLabel(s, dispatcher, logger)
	h.broadcastEvents(ctx, s, dispatcher, logger, events)
}

func (h *sowingHandler) handleRemoveBot(ctx context.Context, s *SowingMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seat int) {
	if seat != s.OwnerSeat {
		logger.Debug("remove bot: seat %d is not the owner (%d)", seat, s.OwnerSeat)
		return
	}
	events, err := s.Svc.RemoveBot(s.Game, 1)
	if err != nil {
		logger.Debug("remove bot rejected: %v", err)
		return
	}
	s.Brain = nil
	h.updateLabel(s, dispatcher, logger)
	h.broadcastEvents(ctx, s, dispatcher, logger, events)
}

func (h *sowingHandler) handleMove(ctx context.Context, s *SowingMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seat int, data []byte) {
	if seat < 0 {
		return
	}
	var req SowMoveRequest
	if err := json.Unmarshal(data, &req); err != nil {
		logger.Debug("move: bad payload: %v", err)
		return
	}
	events, err := s.Svc.Move(s.Game, seat, req.Cell, sowing.Side(req.Side))
	if err != nil {
		logger.Debug("move rejected for seat %d cell %d: %v", seat, req.Cell, err)
		return
	}
	h.broadcastEvents(ctx, s, dispatcher, logger, events)
}

func (h *sowingHandler) processBots(ctx context.Context, s *SowingMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// Seat the bot opponent for a lone human after the lobby delay.
	if s.Game.Phase == sowing.PhaseWaiting {
		if countHumans(s.seatIDs()) == 1 && countOpenSeats(s.seatIDs()) > 0 {
			if s.LoneHumanSince == 0 {
				s.LoneHumanSince = s.Tick
			}
			if s.Tick-s.LoneHumanSince >= int64(s.Pacing.BotAutoFillDelay) {
				h.addBot(ctx, s, dispatcher, logger)
				s.LoneHumanSince = 0
			}
		} else {
			s.LoneHumanSince = 0
		}
		return
	}

	if s.Game.Phase != sowing.PhasePlaying {
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

	brain := s.Brain
	if brain == nil {
		brain = bot.NewSowingBrain("")
		s.Brain = brain
	}
	cell, side, ok := brain.ChooseMove(s.Game, turn)
	if !ok {
		logger.Warn("bot has no legal move at seat %d", turn)
		return
	}
	events, err := s.Svc.Move(s.Game, turn, cell, side)
	if err != nil {
		logger.Debug("bot move rejected for cell %d: %v", cell, err)
		return
	}
	h.broadcastEvents(ctx, s, dispatcher, logger, events)
}

func (h *sowingHandler) broadcastEvents(ctx context.Context, s *SowingMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
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
		case app.EventSowed:
			opCode, payload = OpSowed, toSowedMsg(ev.Payload.(app.SowedPayload))
		case app.EventBorrowed:
			p := ev.Payload.(app.BorrowedPayload)
			opCode, payload = OpBorrowed, BorrowedMsg{Seat: p.Seat, Score: p.Score}
		case app.EventGameEnded:
			p := ev.Payload.(app.SowEndedPayload)
			changes := sowingSettlement(s.seatIDs(), p.Scores, config.GetStake(s.StakeTier))
			applySettlement(ctx, s.Economy, logger, changes)
			opCode, payload = OpGameEnded, SowEndedMsg{
				Scores:         p.Scores,
				WinnerSeat:     p.WinnerSeat,
				Draw:           p.Draw,
				BalanceChanges: changes,
			}
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

func (h *sowingHandler) broadcastSnapshot(s *SowingMatchState, dispatcher runtime.MatchDispatcher) {
	snap := toSowingSnapshot(s.Game, s.OwnerSeat, s.Tick)
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	dispatcher.BroadcastMessage(OpSnapshot, data, nil, nil, true)
}

func (h *sowingHandler) updateLabel(s *SowingMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if err := dispatcher.MatchLabelUpdate(s.label()); err != nil {
		logger.Error("label update: %v", err)
	}
}

func (h *sowingHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: reason %d", reason)
	return state
}

func (h *sowingHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
