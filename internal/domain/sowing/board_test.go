package sowing

import "testing"

func TestNewBoardSeeding(t *testing.T) {
	b := NewBoard()
	for cell, n := range b {
		want := fieldStones
		if IsMandarin(cell) {
			want = mandarinStones
		}
		if n != want {
			t.Fatalf("cell %d = %d, want %d", cell, n, want)
		}
	}
	if b.Sum() != TotalStones {
		t.Fatalf("board sum = %d, want %d", b.Sum(), TotalStones)
	}
}

func TestSideResolve(t *testing.T) {
	tests := []struct {
		seat int
		side Side
		want Direction
	}{
		{seat: 0, side: SideLeft, want: Clockwise},
		{seat: 0, side: SideRight, want: Counterclockwise},
		{seat: 1, side: SideLeft, want: Counterclockwise},
		{seat: 1, side: SideRight, want: Clockwise},
	}
	for _, tt := range tests {
		got, ok := tt.side.Resolve(tt.seat)
		if !ok || got != tt.want {
			t.Fatalf("seat %d side %s = %v (%v), want %v", tt.seat, tt.side, got, ok, tt.want)
		}
	}
	if _, ok := Side("up").Resolve(0); ok {
		t.Fatal("malformed side must not resolve")
	}
}

func TestOwnsCell(t *testing.T) {
	for cell := 7; cell <= 11; cell++ {
		if !OwnsCell(0, cell) || OwnsCell(1, cell) {
			t.Fatalf("cell %d ownership wrong", cell)
		}
	}
	for cell := 1; cell <= 5; cell++ {
		if !OwnsCell(1, cell) || OwnsCell(0, cell) {
			t.Fatalf("cell %d ownership wrong", cell)
		}
	}
	if OwnsCell(0, MandarinA) || OwnsCell(1, MandarinB) {
		t.Fatal("mandarin cells are owned by nobody")
	}
}

func TestPopulate(t *testing.T) {
	t.Run("Borrows exactly five when range is empty", func(t *testing.T) {
		s := NewMatchState()
		s.Phase = PhasePlaying
		for c := 7; c <= 11; c++ {
			s.Board[c] = 0
		}
		if !Populate(s, 0) {
			t.Fatal("expected borrowing to trigger")
		}
		if s.Scores[0] != -BorrowCost {
			t.Fatalf("score = %d, want %d", s.Scores[0], -BorrowCost)
		}
		for c := 7; c <= 11; c++ {
			if s.Board[c] != 1 {
				t.Fatalf("cell %d = %d, want 1", c, s.Board[c])
			}
		}
	})

	t.Run("Single remaining stone prevents borrowing", func(t *testing.T) {
		s := NewMatchState()
		s.Phase = PhasePlaying
		for c := 7; c <= 11; c++ {
			s.Board[c] = 0
		}
		s.Board[9] = 1
		if Populate(s, 0) {
			t.Fatal("borrowing must not trigger with stones in range")
		}
		if s.Scores[0] != 0 {
			t.Fatalf("score changed: %d", s.Scores[0])
		}
	})
}

func TestHarvest(t *testing.T) {
	t.Run("Fields return to their owners and higher score wins", func(t *testing.T) {
		s := NewMatchState()
		s.Board = Board{0, 1, 1, 0, 0, 0, 0, 3, 3, 0, 0, 0}
		s.Scores = [SeatCount]int{40, 50}

		Harvest(s)

		if s.Scores[0] != 46 || s.Scores[1] != 52 {
			t.Fatalf("scores = %v, want [46 52]", s.Scores)
		}
		if s.Board.Sum() != 0 {
			t.Fatalf("board not zeroed: %v", s.Board)
		}
		if s.WinnerSeat != 1 || s.Draw {
			t.Fatalf("winner = %d draw = %v, want seat 1", s.WinnerSeat, s.Draw)
		}
		if s.Phase != PhaseEnded {
			t.Fatalf("phase = %s, want ended", s.Phase)
		}
	})

	t.Run("Equal scores draw", func(t *testing.T) {
		s := NewMatchState()
		s.Board = Board{}
		s.Scores = [SeatCount]int{60, 60}

		Harvest(s)

		if !s.Draw || s.WinnerSeat != -1 {
			t.Fatalf("want draw, got winner %d draw %v", s.WinnerSeat, s.Draw)
		}
	})
}

func TestMandarinsEmpty(t *testing.T) {
	b := NewBoard()
	if MandarinsEmpty(b) {
		t.Fatal("fresh board must not read as ended")
	}
	b[MandarinA] = 0
	if MandarinsEmpty(b) {
		t.Fatal("one full mandarin keeps the game alive")
	}
	b[MandarinB] = 0
	if !MandarinsEmpty(b) {
		t.Fatal("both mandarins empty must end the game")
	}
}
