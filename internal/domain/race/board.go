package race

const (
	// TrackSize is the number of cells on the shared ring.
	TrackSize = 52
	// LaneSize is the length of each color's private finish lane.
	LaneSize = 6
	// SeatCount is the fixed number of seats, one per cardinal color.
	SeatCount = 4
	// TokensPerPlayer is the number of tokens each seat controls.
	TokensPerPlayer = 4
	// MaxDie is the highest die face; rolling it grants an extra roll and is
	// the only face that releases a token from home.
	MaxDie = 6
)

// seatSpan is the ring distance between consecutive seats' entry cells.
const seatSpan = TrackSize / SeatCount

// EntryCell returns the ring cell where the given seat's tokens enter from home.
func EntryCell(seat int) int { return seat * seatSpan }

// laneEntryCell is the last ring cell a seat's token crosses before its lane.
func laneEntryCell(seat int) int {
	return (EntryCell(seat) + TrackSize - 1) % TrackSize
}

// safeCells are the eight ring cells on which captures never occur: each
// seat's entry cell and the cell eight ahead of it.
var safeCells = [...]int{0, 8, 13, 21, 26, 34, 39, 47}

// IsSafeCell reports whether the given ring cell is shielded from capture.
func IsSafeCell(cell int) bool {
	for _, c := range safeCells {
		if c == cell {
			return true
		}
	}
	return false
}
