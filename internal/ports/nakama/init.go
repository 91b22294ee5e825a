package nakama

import (
	"context"
	"database/sql"

	"gametable/internal/bot"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs, match handlers and hooks into the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcVoiceToken, rpcVoiceToken); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameRace, NewRaceMatch); err != nil {
		return err
	}
	if err := initializer.RegisterMatch(MatchNameSowing, NewSowingMatch); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	// Provision the bot pool up front so lobby auto-fill never races
	// account creation.
	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("InitModule: could not load bot identities: %v", err)
	} else if err := bot.ProvisionBots(ctx, nk, logger); err != nil {
		logger.Warn("InitModule: could not provision bots: %v", err)
	}

	logger.Info("game table module loaded")
	return nil
}
