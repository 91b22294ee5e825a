package bot

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadIdentities(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bots.json")
	data := `[
		{"device_id": "dev-1", "user_id": "bot-a", "username": "bot_a", "display_name": "Rook", "difficulty": "hard", "avatar_index": 2},
		{"device_id": "dev-2", "user_id": "bot-b", "username": "bot_b", "difficulty": "easy"}
	]`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := LoadIdentities(path); err != nil {
		t.Fatalf("load error: %v", err)
	}

	if !IsBot("bot-a") || !IsBot("bot-b") {
		t.Fatal("pooled IDs not recognized as bots")
	}
	if IsBot("some-human") {
		t.Fatal("non-pooled ID recognized as bot")
	}

	if got := GetBotDisplayName("bot-a"); got != "Rook" {
		t.Fatalf("display name = %q, want Rook", got)
	}
	// Falls back to the username when no display name is set.
	if got := GetBotDisplayName("bot-b"); got != "bot_b" {
		t.Fatalf("display name = %q, want bot_b", got)
	}

	cfg, ok := GetBotConfig("bot-a")
	if !ok || cfg.Difficulty != "hard" || cfg.AvatarIndex != 2 {
		t.Fatalf("config = %+v ok=%v", cfg, ok)
	}

	// The pool wraps around by index.
	if GetBotIdentity(0).UserID != "bot-a" || GetBotIdentity(2).UserID != "bot-a" {
		t.Fatal("identity indexing does not wrap the pool")
	}
}

func TestBrainFactoriesByDifficulty(t *testing.T) {
	if _, ok := NewRaceBrain("easy").(*RandomRaceBrain); !ok {
		t.Fatal("easy should map to the random race brain")
	}
	if _, ok := NewRaceBrain("hard").(*GreedyRaceBrain); !ok {
		t.Fatal("hard should map to the greedy race brain")
	}
	if _, ok := NewSowingBrain("").(*RandomSowingBrain); !ok {
		t.Fatal("default should map to the random sowing brain")
	}
	if _, ok := NewSowingBrain("hard").(*GreedySowingBrain); !ok {
		t.Fatal("hard should map to the greedy sowing brain")
	}
}
