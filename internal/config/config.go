package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// StakeTier is one named stake level a table can be created with.
type StakeTier struct {
	ID    string `json:"id"`
	Stake int64  `json:"stake"`
}

// GameConfig carries table stakes and the cosmetic pacing knobs shared by
// both match handlers. Values are seconds; the handlers run at one tick
// per second.
type GameConfig struct {
	DefaultTier string      `json:"default_tier"`
	Tiers       []StakeTier `json:"tiers"`

	// BotMinDelaySeconds..BotMaxDelaySeconds bounds the random thinking
	// pause before a bot acts.
	BotMinDelaySeconds int `json:"bot_min_delay_seconds"`
	BotMaxDelaySeconds int `json:"bot_max_delay_seconds"`
	// BotAutoFillDelaySeconds is how long a lone human waits in the lobby
	// before bots fill the remaining seats.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
	// AutoMoveDelaySeconds is the viewing pause before the host plays a
	// human's only movable token for them.
	AutoMoveDelaySeconds int `json:"auto_move_delay_seconds"`
	// NoMoveAdvanceDelaySeconds is the viewing pause before a roll with no
	// legal move hands the turn on.
	NoMoveAdvanceDelaySeconds int `json:"no_move_advance_delay_seconds"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path. Only
// the first call does work.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the loaded configuration, or nil before a
// successful load.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetStake returns the stake for a tier ID, falling back to the default
// tier and finally to a safe constant when no config is loaded.
func GetStake(tierID string) int64 {
	if cfg == nil {
		return 100
	}

	target := tierID
	if target == "" {
		target = cfg.DefaultTier
	}
	for _, tier := range cfg.Tiers {
		if tier.ID == target {
			return tier.Stake
		}
	}
	for _, tier := range cfg.Tiers {
		if tier.ID == cfg.DefaultTier {
			return tier.Stake
		}
	}
	return 100
}
