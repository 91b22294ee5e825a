package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"gametable/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

// VoiceTokenRequest asks for a voice room access token. Join requests name
// the game and match the caller sits at.
type VoiceTokenRequest struct {
	Action  string `json:"action"` // "login" or "join"
	Game    string `json:"game,omitempty"`
	MatchID string `json:"match_id,omitempty"`
}

type VoiceTokenResponse struct {
	Token string `json:"token"`
}

func rpcVoiceToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("no user in context", 16) // UNAUTHENTICATED
	}

	var req VoiceTokenRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid payload", 3) // INVALID_ARGUMENT
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	secret := env["voice_secret"]
	issuer := env["voice_issuer"]
	domain := env["voice_domain"]
	if secret == "" || issuer == "" || domain == "" {
		secret, issuer, domain = "test-secret", "test-issuer", "voice.example.com"
		logger.Warn("voice credentials missing from env, using test defaults")
	}

	svc := app.NewVoiceService(secret, issuer, domain)
	token, err := svc.GenerateToken(userID, req.Action, req.Game, req.MatchID)
	if err != nil {
		logger.Debug("voice token rejected for user %s: %v", userID, err)
		return "", runtime.NewError("invalid voice token request", 3)
	}

	b, _ := json.Marshal(VoiceTokenResponse{Token: token})
	return string(b), nil
}
