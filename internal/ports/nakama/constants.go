package nakama

const (
	// RpcQuickMatch finds or creates a lobby-phase match of the requested game.
	RpcQuickMatch = "quick_match"
	// RpcVoiceToken mints a voice room access token for the caller.
	RpcVoiceToken = "voice_token"

	// Authoritative match handler names registered with Nakama.
	MatchNameRace   = "race_match"
	MatchNameSowing = "sowing_match"

	// GameRace / GameSowing are the label values clients filter on.
	GameRace   = "race"
	GameSowing = "sowing"
)

// Op codes for client messages and server events. Payloads are JSON.
const (
	// Client -> Server
	OpStartGame int64 = 1
	OpResetGame int64 = 2
	OpAddBot    int64 = 3
	OpRemoveBot int64 = 4
	OpRollDie   int64 = 5 // race
	OpMoveToken int64 = 6 // race
	OpSowMove   int64 = 7 // sowing

	// Server -> Client
	OpSnapshot     int64 = 101
	OpGameStarted  int64 = 102
	OpGameReset    int64 = 103
	OpGameEnded    int64 = 104
	OpBotAdded     int64 = 105
	OpBotRemoved   int64 = 106
	OpDiceRolled   int64 = 107
	OpTokenMoved   int64 = 108
	OpExtraRoll    int64 = 109
	OpTurnAdvanced int64 = 110
	OpSowed        int64 = 111
	OpBorrowed     int64 = 112
)
