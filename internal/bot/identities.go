package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"
)

// BotIdentity is one entry of the bot account pool loaded at startup.
type BotIdentity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"` // "easy", "normal", "hard"
	AvatarIndex int    `json:"avatar_index"`
}

var (
	pool          []BotIdentity
	poolByUserID  map[string]BotIdentity
	loadOnce      sync.Once
	provisionOnce sync.Once
	loadErr       error
)

// LoadIdentities reads the bot pool from a JSON file. Safe to call more
// than once; only the first call does work.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("read bot identities: %w", err)
			return
		}
		if err := json.Unmarshal(data, &pool); err != nil {
			loadErr = fmt.Errorf("unmarshal bot identities: %w", err)
			return
		}

		poolByUserID = make(map[string]BotIdentity, len(pool))
		for _, id := range pool {
			if id.UserID != "" {
				poolByUserID[id.UserID] = id
			}
		}
	})
	return loadErr
}

// ProvisionBots authenticates every pooled identity against Nakama so the
// bot accounts exist with is_bot metadata, and fills in the user IDs the
// server assigned.
func ProvisionBots(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) error {
	provisionOnce.Do(func() {
		for i := range pool {
			id := &pool[i]
			if id.DeviceID == "" {
				continue
			}

			userID, username, _, err := nk.AuthenticateDevice(ctx, id.DeviceID, id.Username, true)
			if err != nil {
				logger.Error("provision bot %s: %v", id.Username, err)
				continue
			}
			id.UserID = userID
			id.Username = username

			metadata := map[string]interface{}{
				"is_bot":       true,
				"difficulty":   id.Difficulty,
				"avatar_index": id.AvatarIndex,
			}
			if err := nk.AccountUpdateId(ctx, userID, id.Username, metadata, id.DisplayName, "", "", "", ""); err != nil {
				logger.Warn("update bot account %s: %v", userID, err)
			}

			poolByUserID[userID] = *id
			logger.Info("bot %s (%s) ready, difficulty %s", id.DisplayName, userID, id.Difficulty)
		}
	})
	return loadErr
}

// GetBotIdentity returns a pooled identity by index, wrapping around the
// pool. With no pool loaded it synthesizes a placeholder so matches can
// still seat bots in local runs.
func GetBotIdentity(index int) BotIdentity {
	if len(pool) == 0 {
		return BotIdentity{
			UserID:      fmt.Sprintf("bot-%d", index),
			Username:    fmt.Sprintf("bot_%d", index),
			DisplayName: fmt.Sprintf("Bot %d", index),
		}
	}
	return pool[index%len(pool)]
}

// GetBotConfig returns the pooled identity for a user ID.
func GetBotConfig(userID string) (BotIdentity, bool) {
	id, ok := poolByUserID[userID]
	return id, ok
}

// GetBotDisplayName returns the display name for a pooled bot, falling
// back to its username, or "" for non-bots.
func GetBotDisplayName(userID string) string {
	id, ok := poolByUserID[userID]
	if !ok {
		return ""
	}
	if id.DisplayName != "" {
		return id.DisplayName
	}
	return id.Username
}

// IsBot reports whether the user ID belongs to the bot pool.
func IsBot(userID string) bool {
	_, ok := poolByUserID[userID]
	return ok
}
