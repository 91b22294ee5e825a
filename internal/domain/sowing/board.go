package sowing

// CellCount is the number of cells on the ring.
const CellCount = 12

const (
	// MandarinA and MandarinB are the two special cells whose mutual
	// emptiness ends the match.
	MandarinA = 0
	MandarinB = 6

	// mandarinStones and fieldStones are the initial seedings.
	mandarinStones = 10
	fieldStones    = 5

	// SeatCount is fixed: the sowing game is strictly two-seated.
	SeatCount = 2

	// BorrowCost is deducted from a score when a seat repopulates its
	// empty field range to keep playing.
	BorrowCost = 5

	// TotalStones is the conserved sum of all cells plus both scores.
	TotalStones = 2*mandarinStones + 10*fieldStones
)

// Board holds the stone count of every cell. Counts are never negative at
// rest between turns.
type Board [CellCount]int

// NewBoard returns a board with the initial seeding.
func NewBoard() Board {
	var b Board
	for i := range b {
		b[i] = fieldStones
	}
	b[MandarinA] = mandarinStones
	b[MandarinB] = mandarinStones
	return b
}

// IsMandarin reports whether the cell is one of the two mandarin cells.
func IsMandarin(cell int) bool { return cell == MandarinA || cell == MandarinB }

// FieldRange returns the inclusive bounds of the field cells a seat owns:
// seat 0 owns 7-11, seat 1 owns 1-5.
func FieldRange(seat int) (lo, hi int) {
	if seat == 0 {
		return 7, 11
	}
	return 1, 5
}

// OwnsCell reports whether the cell lies in the seat's owned field range.
func OwnsCell(seat, cell int) bool {
	lo, hi := FieldRange(seat)
	return cell >= lo && cell <= hi
}

// Sum returns the total number of stones on the board.
func (b Board) Sum() int {
	n := 0
	for _, c := range b {
		n += c
	}
	return n
}

// FieldSum returns the stones currently in the seat's owned range.
func (b Board) FieldSum(seat int) int {
	lo, hi := FieldRange(seat)
	n := 0
	for c := lo; c <= hi; c++ {
		n += b[c]
	}
	return n
}

// Direction is an absolute ring direction.
type Direction int

const (
	// Clockwise advances to the next higher cell index, wrapping mod 12.
	Clockwise Direction = 1
	// Counterclockwise advances to the next lower cell index.
	Counterclockwise Direction = -1
)

// String names the direction for labels and replay records.
func (d Direction) String() string {
	if d == Clockwise {
		return "clockwise"
	}
	return "counterclockwise"
}

// Side is a seat-relative sowing direction as issued by a participant.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Resolve maps a seat-relative side to an absolute ring direction. The two
// seats face each other, so their left hands point opposite ways around the
// ring.
func (s Side) Resolve(seat int) (Direction, bool) {
	switch s {
	case SideLeft:
		if seat == 0 {
			return Clockwise, true
		}
		return Counterclockwise, true
	case SideRight:
		if seat == 0 {
			return Counterclockwise, true
		}
		return Clockwise, true
	}
	return 0, false
}

// next returns the neighboring cell in the given direction.
func next(cell int, dir Direction) int {
	return (cell + int(dir) + CellCount) % CellCount
}
