package nakama

import "testing"

func TestMatchLabelMarshal(t *testing.T) {
	tests := []struct {
		name  string
		label matchLabel
		want  string
	}{
		{
			name:  "RaceLobby",
			label: matchLabel{Open: 3, Game: GameRace, Phase: "lobby"},
			want:  `{"open":3,"game":"race","phase":"lobby"}`,
		},
		{
			name:  "SowingPlaying",
			label: matchLabel{Open: 0, Game: GameSowing, Phase: "playing"},
			want:  `{"open":0,"game":"sowing","phase":"playing"}`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.label.String(); got != test.want {
				t.Errorf("got %s, want %s", got, test.want)
			}
		})
	}
}

func TestFindFirstHumanSeat(t *testing.T) {
	tests := []struct {
		name  string
		seats []string
		want  int
	}{
		{name: "FirstHumanAfterBot", seats: []string{"bot-pool-1", "user-1", "", ""}, want: 1},
		{name: "AllBots", seats: []string{"bot-pool-1", "bot-pool-2", "", ""}, want: -1},
		{name: "AllEmpty", seats: []string{"", "", "", ""}, want: -1},
		{name: "HumanInSeatZero", seats: []string{"user-1", "bot-pool-1", "user-2", ""}, want: 0},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := findFirstHumanSeat(test.seats); got != test.want {
				t.Fatalf("findFirstHumanSeat() = %d, want %d", got, test.want)
			}
		})
	}
}

func TestShouldTerminateNoHumans(t *testing.T) {
	tests := []struct {
		name  string
		seats []string
		want  bool
	}{
		{name: "BotsOnly", seats: []string{"bot-pool-1", "bot-pool-2", "bot-pool-3", "bot-pool-4"}, want: true},
		{name: "BotsAndEmpty", seats: []string{"bot-pool-1", "", "bot-pool-3", ""}, want: true},
		{name: "HumanPresent", seats: []string{"bot-pool-1", "user-1", "", ""}, want: false},
		{name: "AllEmpty", seats: []string{"", "", "", ""}, want: true},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := shouldTerminateNoHumans(test.seats); got != test.want {
				t.Fatalf("shouldTerminateNoHumans() = %t, want %t", got, test.want)
			}
		})
	}
}

func TestSeatCounters(t *testing.T) {
	seats := []string{"user-1", "bot-pool-1", "", ""}
	if got := countOpenSeats(seats); got != 2 {
		t.Fatalf("countOpenSeats() = %d, want 2", got)
	}
	if got := countHumans(seats); got != 1 {
		t.Fatalf("countHumans() = %d, want 1", got)
	}
	if got := seatOf(seats, "bot-pool-1"); got != 1 {
		t.Fatalf("seatOf() = %d, want 1", got)
	}
	if got := seatOf(seats, "missing"); got != -1 {
		t.Fatalf("seatOf() = %d, want -1", got)
	}
}
