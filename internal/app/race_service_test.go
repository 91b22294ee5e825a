package app

import (
	"math/rand"
	"testing"

	"gametable/internal/domain/race"
)

func raceWith(seats ...int) *race.MatchState {
	m := race.NewMatchState()
	for _, seat := range seats {
		m.Players[seat].UserID = "u" + string(rune('0'+seat))
	}
	return m
}

func TestRaceStart(t *testing.T) {
	svc := NewRaceService(rand.New(rand.NewSource(1)))

	t.Run("Needs at least two occupied seats", func(t *testing.T) {
		m := raceWith(0)
		if _, err := svc.Start(m); err != ErrTooFewPlayers {
			t.Fatalf("err = %v, want ErrTooFewPlayers", err)
		}
		if m.Phase != race.PhaseWaiting {
			t.Fatalf("phase changed on rejected start: %s", m.Phase)
		}
	})

	t.Run("First occupied seat moves first", func(t *testing.T) {
		m := raceWith(1, 3)
		evs, err := svc.Start(m)
		if err != nil {
			t.Fatalf("start error: %v", err)
		}
		if m.Phase != race.PhasePlaying || m.TurnSeat != 1 {
			t.Fatalf("phase %s turn %d, want playing turn 1", m.Phase, m.TurnSeat)
		}
		if len(evs) != 1 || evs[0].Kind != EventGameStarted {
			t.Fatalf("events = %+v", evs)
		}
	})

	t.Run("Restart while playing is rejected", func(t *testing.T) {
		m := raceWith(0, 1)
		if _, err := svc.Start(m); err != nil {
			t.Fatalf("start error: %v", err)
		}
		if _, err := svc.Start(m); err != ErrNotWaiting {
			t.Fatalf("err = %v, want ErrNotWaiting", err)
		}
	})
}

func TestRaceRollValidation(t *testing.T) {
	svc := NewRaceService(rand.New(rand.NewSource(2)))
	m := raceWith(0, 1)
	if _, err := svc.Start(m); err != nil {
		t.Fatalf("start error: %v", err)
	}

	if _, err := svc.Roll(m, 1); err != ErrNotYourTurn {
		t.Fatalf("err = %v, want ErrNotYourTurn", err)
	}
	if _, err := svc.Roll(m, 0); err != nil {
		t.Fatalf("roll error: %v", err)
	}
	if _, err := svc.Roll(m, 0); err != ErrAlreadyRolled {
		t.Fatalf("err = %v, want ErrAlreadyRolled", err)
	}
}

func TestRaceRollStreakTracking(t *testing.T) {
	svc := NewRaceService(rand.New(rand.NewSource(3)))
	m := raceWith(0, 1)
	if _, err := svc.Start(m); err != nil {
		t.Fatalf("start error: %v", err)
	}
	// Leave one token on the ring so the forced-six bias stays out of play.
	m.Players[0].Tokens[0].Pos = race.Track(5)

	streak := 0
	for i := 0; i < 100; i++ {
		m.Rolled = false
		m.Die = 0
		evs, err := svc.Roll(m, 0)
		if err != nil {
			t.Fatalf("roll %d error: %v", i, err)
		}
		face := evs[0].Payload.(DiceRolledPayload).Face
		if face < 1 || face > race.MaxDie {
			t.Fatalf("face %d out of range", face)
		}
		if face == race.MaxDie {
			streak++
		} else {
			streak = 0
		}
		if m.SixStreak != streak {
			t.Fatalf("six streak = %d, want %d after face %d", m.SixStreak, streak, face)
		}
	}
}

func TestRaceRollBiasWhileAllTokensHome(t *testing.T) {
	svc := NewRaceService(rand.New(rand.NewSource(4)))
	m := raceWith(0, 1)
	if _, err := svc.Start(m); err != nil {
		t.Fatalf("start error: %v", err)
	}

	sixes := 0
	const rolls = 400
	for i := 0; i < rolls; i++ {
		m.Rolled = false
		m.Die = 0
		evs, err := svc.Roll(m, 0)
		if err != nil {
			t.Fatalf("roll error: %v", err)
		}
		if evs[0].Payload.(DiceRolledPayload).Face == race.MaxDie {
			sixes++
		}
	}
	// Expected rate with the 50% forced six is about 58%; a uniform die
	// would sit near 17%.
	if sixes < rolls/3 {
		t.Fatalf("sixes = %d of %d, bias not applied", sixes, rolls)
	}
}

func TestRaceMoveAppliesCapture(t *testing.T) {
	svc := NewRaceService(rand.New(rand.NewSource(5)))
	m := raceWith(0, 1)
	if _, err := svc.Start(m); err != nil {
		t.Fatalf("start error: %v", err)
	}
	m.Players[0].Tokens[0].Pos = race.Track(17)
	m.Players[1].Tokens[2].Pos = race.Track(20)
	m.Die = 3
	m.Rolled = true

	evs, err := svc.Move(m, 0, 0)
	if err != nil {
		t.Fatalf("move error: %v", err)
	}

	if got := m.Players[0].Tokens[0].Pos; got != race.Track(20) {
		t.Fatalf("mover position = %+v, want Track(20)", got)
	}
	if got := m.Players[1].Tokens[2].Pos; got.Kind != race.AtHome {
		t.Fatalf("captured token = %+v, want home", got)
	}
	if m.LastMove == nil || len(m.LastMove.Captures) != 1 {
		t.Fatalf("last move = %+v, want one capture", m.LastMove)
	}
	if m.TurnSeat != 1 || m.Die != 0 || m.Rolled {
		t.Fatalf("turn not advanced: %+v", m)
	}
	if evs[len(evs)-1].Kind != EventTurnAdvanced {
		t.Fatalf("events = %+v, want trailing turn advance", evs)
	}
}

func TestRaceMoveOnSixGrantsExtraRoll(t *testing.T) {
	svc := NewRaceService(rand.New(rand.NewSource(6)))
	m := raceWith(0, 1)
	if _, err := svc.Start(m); err != nil {
		t.Fatalf("start error: %v", err)
	}
	m.Players[0].Tokens[1].Pos = race.Track(10)
	m.Die = 6
	m.Rolled = true

	evs, err := svc.Move(m, 0, 1)
	if err != nil {
		t.Fatalf("move error: %v", err)
	}

	if m.TurnSeat != 0 {
		t.Fatalf("turn advanced despite six: seat %d", m.TurnSeat)
	}
	if !m.ExtraRoll || m.Rolled || m.Die != 0 {
		t.Fatalf("extra roll not granted: %+v", m)
	}
	if evs[len(evs)-1].Kind != EventExtraRoll {
		t.Fatalf("events = %+v, want trailing extra roll", evs)
	}
	if _, err := svc.Roll(m, 0); err != nil {
		t.Fatalf("extra roll rejected: %v", err)
	}
}

func TestRaceWinPreemptsExtraRoll(t *testing.T) {
	svc := NewRaceService(rand.New(rand.NewSource(7)))
	m := raceWith(0, 1)
	if _, err := svc.Start(m); err != nil {
		t.Fatalf("start error: %v", err)
	}
	for i := 1; i < race.TokensPerPlayer; i++ {
		m.Players[0].Tokens[i].Pos = race.Done()
	}
	// Sitting on the lane entry cell, a six runs the whole lane and
	// finishes; the win must land before any extra-roll grant.
	m.Players[0].Tokens[0].Pos = race.Track(51)
	m.Die = 6
	m.Rolled = true

	evs, err := svc.Move(m, 0, 0)
	if err != nil {
		t.Fatalf("move error: %v", err)
	}

	if m.Phase != race.PhaseEnded || m.WinnerSeat != 0 {
		t.Fatalf("phase %s winner %d, want ended winner 0", m.Phase, m.WinnerSeat)
	}
	if !m.Players[0].HasFinished {
		t.Fatal("winner not marked finished")
	}
	if m.ExtraRoll {
		t.Fatal("extra roll granted after the match ended")
	}
	last := evs[len(evs)-1]
	if last.Kind != EventGameEnded || last.Payload.(RaceEndedPayload).WinnerSeat != 0 {
		t.Fatalf("events = %+v, want game ended for seat 0", evs)
	}
}

func TestRaceMoveRejectsImmovableToken(t *testing.T) {
	svc := NewRaceService(rand.New(rand.NewSource(8)))
	m := raceWith(0, 1)
	if _, err := svc.Start(m); err != nil {
		t.Fatalf("start error: %v", err)
	}
	m.Die = 3
	m.Rolled = true

	// All tokens home; a three moves nothing.
	if _, err := svc.Move(m, 0, 0); err != ErrTokenImmovable {
		t.Fatalf("err = %v, want ErrTokenImmovable", err)
	}
	if m.Die != 3 || m.TurnSeat != 0 {
		t.Fatalf("state mutated on rejected move: %+v", m)
	}
}

func TestRaceFinishTurn(t *testing.T) {
	svc := NewRaceService(rand.New(rand.NewSource(9)))
	m := raceWith(0, 1)
	if _, err := svc.Start(m); err != nil {
		t.Fatalf("start error: %v", err)
	}
	m.Die = 3
	m.Rolled = true

	evs, err := svc.FinishTurn(m)
	if err != nil {
		t.Fatalf("finish turn error: %v", err)
	}
	if m.TurnSeat != 1 {
		t.Fatalf("turn seat = %d, want 1", m.TurnSeat)
	}
	if evs[0].Kind != EventTurnAdvanced {
		t.Fatalf("events = %+v", evs)
	}

	// With a six pending every home token can move, so the turn may not be
	// finished early.
	m.Die = 6
	m.Rolled = true
	if _, err := svc.FinishTurn(m); err != ErrMovesRemain {
		t.Fatalf("err = %v, want ErrMovesRemain", err)
	}
}

func TestRaceBots(t *testing.T) {
	svc := NewRaceService(rand.New(rand.NewSource(10)))
	m := raceWith(0)

	if _, err := svc.AddBot(m, 2, "bot-2", "Bot Two"); err != nil {
		t.Fatalf("add bot error: %v", err)
	}
	if !m.Players[2].IsBot || m.Players[2].UserID != "bot-2" {
		t.Fatalf("bot seat = %+v", m.Players[2])
	}
	if _, err := svc.AddBot(m, 2, "bot-x", "Bot X"); err != ErrSeatOccupied {
		t.Fatalf("err = %v, want ErrSeatOccupied", err)
	}
	if _, err := svc.RemoveBot(m, 0); err != ErrSeatNotBot {
		t.Fatalf("err = %v, want ErrSeatNotBot", err)
	}
	if _, err := svc.RemoveBot(m, 2); err != nil {
		t.Fatalf("remove bot error: %v", err)
	}
	if m.Players[2].Occupied() {
		t.Fatalf("seat still occupied: %+v", m.Players[2])
	}

	// Bots are a lobby-only concern.
	if _, err := svc.AddBot(m, 1, "bot-1", "Bot One"); err != nil {
		t.Fatalf("add bot error: %v", err)
	}
	if _, err := svc.Start(m); err != nil {
		t.Fatalf("start error: %v", err)
	}
	if _, err := svc.AddBot(m, 3, "bot-3", "Bot Three"); err != ErrNotWaiting {
		t.Fatalf("err = %v, want ErrNotWaiting", err)
	}
}

func TestRaceReset(t *testing.T) {
	svc := NewRaceService(rand.New(rand.NewSource(11)))
	m := raceWith(0, 1)
	if _, err := svc.Start(m); err != nil {
		t.Fatalf("start error: %v", err)
	}
	m.Players[0].Tokens[0].Pos = race.Track(30)
	m.Die = 4
	m.Rolled = true

	if _, err := svc.Reset(m); err != nil {
		t.Fatalf("reset error: %v", err)
	}
	if m.Phase != race.PhaseWaiting || m.Die != 0 || m.Rolled || m.LastMove != nil {
		t.Fatalf("reset incomplete: %+v", m)
	}
	if m.Players[0].Tokens[0].Pos != race.Home(0) {
		t.Fatalf("token not re-homed: %+v", m.Players[0].Tokens[0].Pos)
	}
}
