package race

// PositionKind discriminates the variants of a token position.
type PositionKind int

const (
	// AtHome means the token sits in one of its owner's four home slots.
	AtHome PositionKind = iota
	// OnTrack means the token occupies a cell on the shared 52-cell ring.
	OnTrack
	// InLane means the token occupies a cell of its color's private finish lane.
	InLane
	// Finished means the token has completed its run and cannot move again.
	Finished
)

// Position is a tagged variant: Index is the home slot, track cell or lane
// cell depending on Kind, and unused when Kind is Finished.
type Position struct {
	Kind  PositionKind
	Index int
}

// Home returns a position in the given home slot (0-3).
func Home(slot int) Position { return Position{Kind: AtHome, Index: slot} }

// Track returns a position on the given shared ring cell (0-51).
func Track(cell int) Position { return Position{Kind: OnTrack, Index: cell} }

// Lane returns a position on the given finish-lane cell (0-5).
func Lane(cell int) Position { return Position{Kind: InLane, Index: cell} }

// Done returns the terminal finished position.
func Done() Position { return Position{Kind: Finished} }
