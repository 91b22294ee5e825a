package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchRequest selects which game to find a table for, and optionally
// the stake tier for a newly created one.
type QuickMatchRequest struct {
	Game string `json:"game"` // "race" or "sowing"
	Tier string `json:"tier,omitempty"`
}

// QuickMatchResponse is returned to clients looking for a table.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	req := QuickMatchRequest{Game: GameRace}
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid payload", 3) // INVALID_ARGUMENT
		}
	}

	var moduleName string
	var maxSize int
	switch req.Game {
	case GameRace:
		moduleName, maxSize = MatchNameRace, 3
	case GameSowing:
		moduleName, maxSize = MatchNameSowing, 1
	default:
		return "", runtime.NewError("unknown game", 3)
	}

	// Look for a lobby-phase table of this game with an open seat.
	query := fmt.Sprintf("+label.game:%s +label.phase:lobby +label.open:>=1", req.Game)
	limit := 10
	authoritative := true
	minSize := 1

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("quick match [user:%s]: list matches: %v", userID, err)
		return "", err
	}
	if len(matches) > 0 {
		resp := QuickMatchResponse{MatchID: matches[0].MatchId}
		b, _ := json.Marshal(resp)
		return string(b), nil
	}

	params := map[string]interface{}{}
	if req.Tier != "" {
		params["tier"] = req.Tier
	}
	matchID, err := nk.MatchCreate(ctx, moduleName, params)
	if err != nil {
		logger.Error("quick match [user:%s]: create match: %v", userID, err)
		return "", err
	}

	resp := QuickMatchResponse{MatchID: matchID, IsNew: true}
	b, _ := json.Marshal(resp)
	return string(b), nil
}
