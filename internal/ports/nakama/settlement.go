package nakama

import (
	"context"

	"gametable/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// settlementCap bounds how many stakes a sowing margin can cost.
const settlementCap = 3

// raceSettlement computes the balance changes for a finished race: every
// occupied losing seat pays one stake to the winner.
func raceSettlement(seats []string, winnerSeat int, stake int64) map[string]int64 {
	changes := make(map[string]int64)
	if winnerSeat < 0 || winnerSeat >= len(seats) || seats[winnerSeat] == "" {
		return changes
	}
	winner := seats[winnerSeat]
	for i, userID := range seats {
		if i == winnerSeat || userID == "" {
			continue
		}
		changes[userID] -= stake
		changes[winner] += stake
	}
	return changes
}

// sowingSettlement computes the balance changes for a harvested sowing
// game: the loser pays stake multiplied by the score margin, capped. A
// draw moves nothing.
func sowingSettlement(seats []string, scores [2]int, stake int64) map[string]int64 {
	changes := make(map[string]int64)
	if len(seats) < 2 || seats[0] == "" || seats[1] == "" {
		return changes
	}
	margin := scores[0] - scores[1]
	if margin == 0 {
		return changes
	}

	winner, loser := seats[0], seats[1]
	if margin < 0 {
		winner, loser = loser, winner
		margin = -margin
	}
	if margin > settlementCap {
		margin = settlementCap
	}
	amount := stake * int64(margin)
	changes[winner] += amount
	changes[loser] -= amount
	return changes
}

// applySettlement pushes the balance changes to the wallet backend. Bot
// seats never touch real wallets.
func applySettlement(ctx context.Context, economy ports.EconomyPort, logger runtime.Logger, changes map[string]int64) {
	if economy == nil || len(changes) == 0 {
		return
	}

	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	updates := make([]ports.WalletUpdate, 0, len(changes))
	for userID, amount := range changes {
		if isBotUserID(userID) {
			continue
		}
		updates = append(updates, ports.WalletUpdate{
			UserID: userID,
			Amount: amount,
			Metadata: map[string]interface{}{
				"match_id": matchID,
				"reason":   "game_settlement",
			},
		})
	}
	if err := economy.UpdateBalances(ctx, updates); err != nil {
		logger.Error("settlement failed: %v", err)
	}
}
