package nakama

import "testing"

func TestRaceSettlement(t *testing.T) {
	t.Run("WinnerCollectsFromEachOpponent", func(t *testing.T) {
		seats := []string{"winner", "loser-a", "loser-b", ""}
		changes := raceSettlement(seats, 0, 100)
		if len(changes) != 3 {
			t.Fatalf("expected 3 entries, got %d: %v", len(changes), changes)
		}
		if changes["winner"] != 200 {
			t.Errorf("winner change = %d, want 200", changes["winner"])
		}
		if changes["loser-a"] != -100 || changes["loser-b"] != -100 {
			t.Errorf("loser changes = %d, %d, want -100 each", changes["loser-a"], changes["loser-b"])
		}
	})

	t.Run("BotWinnerStillDebitsHumans", func(t *testing.T) {
		seats := []string{"user-1", "bot-pool-1", "", ""}
		changes := raceSettlement(seats, 1, 50)
		if changes["user-1"] != -50 {
			t.Errorf("user change = %d, want -50", changes["user-1"])
		}
		if changes["bot-pool-1"] != 50 {
			t.Errorf("bot change = %d, want 50", changes["bot-pool-1"])
		}
	})

	t.Run("InvalidWinnerSeat", func(t *testing.T) {
		seats := []string{"user-1", "user-2", "", ""}
		if changes := raceSettlement(seats, 3, 100); len(changes) != 0 {
			t.Errorf("empty winner seat should move nothing, got %v", changes)
		}
		if changes := raceSettlement(seats, -1, 100); len(changes) != 0 {
			t.Errorf("negative winner seat should move nothing, got %v", changes)
		}
	})

	t.Run("SumIsZero", func(t *testing.T) {
		seats := []string{"a", "b", "c", "d"}
		changes := raceSettlement(seats, 2, 100)
		var sum int64
		for _, amount := range changes {
			sum += amount
		}
		if sum != 0 {
			t.Errorf("changes sum to %d, want 0", sum)
		}
	})
}

func TestSowingSettlement(t *testing.T) {
	tests := []struct {
		name       string
		scores     [2]int
		wantFirst  int64
		wantSecond int64
	}{
		{name: "FirstWinsByOne", scores: [2]int{40, 39}, wantFirst: 100, wantSecond: -100},
		{name: "SecondWinsByTwo", scores: [2]int{30, 32}, wantFirst: -200, wantSecond: 200},
		{name: "MarginCapped", scores: [2]int{60, 10}, wantFirst: 300, wantSecond: -300},
		{name: "Draw", scores: [2]int{35, 35}, wantFirst: 0, wantSecond: 0},
	}
	seats := []string{"first", "second"}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			changes := sowingSettlement(seats, test.scores, 100)
			if changes["first"] != test.wantFirst {
				t.Errorf("first change = %d, want %d", changes["first"], test.wantFirst)
			}
			if changes["second"] != test.wantSecond {
				t.Errorf("second change = %d, want %d", changes["second"], test.wantSecond)
			}
		})
	}

	t.Run("EmptySeat", func(t *testing.T) {
		if changes := sowingSettlement([]string{"first", ""}, [2]int{40, 30}, 100); len(changes) != 0 {
			t.Errorf("vacant seat should move nothing, got %v", changes)
		}
	})
}
