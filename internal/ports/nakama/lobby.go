package nakama

import (
	"encoding/json"
	"strconv"

	"gametable/internal/bot"
	"gametable/internal/config"
)

// matchLabel is the JSON label both handlers publish for match listing.
// Clients filter on game and phase; the quick-match RPC also needs open.
type matchLabel struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"` // "lobby" or "playing"
}

func (l matchLabel) String() string {
	b, _ := json.Marshal(l)
	return string(b)
}

// pacing bundles the cosmetic delays a handler schedules on its tick.
// Values come from the game config file with env overrides on top.
type pacing struct {
	BotMinDelay        int
	BotMaxDelay        int
	BotAutoFillDelay   int
	AutoMoveDelay      int
	NoMoveAdvanceDelay int
}

func defaultPacing() pacing {
	p := pacing{
		BotMinDelay:        1,
		BotMaxDelay:        3,
		BotAutoFillDelay:   5,
		AutoMoveDelay:      2,
		NoMoveAdvanceDelay: 2,
	}
	if cfg := config.GetGameConfig(); cfg != nil {
		if cfg.BotMinDelaySeconds > 0 {
			p.BotMinDelay = cfg.BotMinDelaySeconds
		}
		if cfg.BotMaxDelaySeconds > 0 {
			p.BotMaxDelay = cfg.BotMaxDelaySeconds
		}
		if cfg.BotAutoFillDelaySeconds > 0 {
			p.BotAutoFillDelay = cfg.BotAutoFillDelaySeconds
		}
		if cfg.AutoMoveDelaySeconds > 0 {
			p.AutoMoveDelay = cfg.AutoMoveDelaySeconds
		}
		if cfg.NoMoveAdvanceDelaySeconds > 0 {
			p.NoMoveAdvanceDelay = cfg.NoMoveAdvanceDelaySeconds
		}
	}
	return p
}

// applyEnv layers runtime env overrides onto the pacing. Keys match the
// config file fields with a "gametable_" prefix.
func (p *pacing) applyEnv(env map[string]string) {
	set := func(key string, dst *int) {
		if val, ok := env[key]; ok {
			if i, err := strconv.Atoi(val); err == nil && i > 0 {
				*dst = i
			}
		}
	}
	set("gametable_bot_min_delay_seconds", &p.BotMinDelay)
	set("gametable_bot_max_delay_seconds", &p.BotMaxDelay)
	set("gametable_bot_auto_fill_delay_seconds", &p.BotAutoFillDelay)
	set("gametable_auto_move_delay_seconds", &p.AutoMoveDelay)
	set("gametable_no_move_advance_delay_seconds", &p.NoMoveAdvanceDelay)
}

func isBotUserID(userID string) bool {
	return userID != "" && bot.IsBot(userID)
}

// findFirstHumanSeat returns the first seat index occupied by a human, or
// -1 when none is.
func findFirstHumanSeat(seats []string) int {
	for i, userID := range seats {
		if userID != "" && !isBotUserID(userID) {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans reports whether the match holds no human seats
// and should shut down.
func shouldTerminateNoHumans(seats []string) bool {
	return findFirstHumanSeat(seats) == -1
}

func seatOf(seats []string, userID string) int {
	for i, id := range seats {
		if id != "" && id == userID {
			return i
		}
	}
	return -1
}

func countOpenSeats(seats []string) int {
	n := 0
	for _, id := range seats {
		if id == "" {
			n++
		}
	}
	return n
}

func countHumans(seats []string) int {
	n := 0
	for _, id := range seats {
		if id != "" && !isBotUserID(id) {
			n++
		}
	}
	return n
}
