package sowing

// StepKind discriminates the entries of a sow step log.
type StepKind string

const (
	// StepPickup records lifting a cell's full contents into the hand.
	StepPickup StepKind = "pickup"
	// StepDeposit records dropping one stone into a cell.
	StepDeposit StepKind = "deposit"
	// StepCapture records harvesting a cell's full contents into the
	// mover's score.
	StepCapture StepKind = "capture"
)

// Step is one entry of the ordered replay log produced by a sow.
type Step struct {
	Kind   StepKind
	Cell   int
	Stones int
}

// Sow runs the full sowing simulation from the given start cell in the
// given absolute direction: repeated one-stone deposits, chain pickups when
// the hand empties onto a nonempty neighbor, and the capture chain when it
// empties onto an empty one. Mandarin cells are never deposit targets; the
// hand passes over them. The input board must hold at least one stone in
// the start cell.
//
// Returns the resulting board, the stones captured into the mover's score
// and the ordered step log. Stones are conserved: board delta plus captured
// always equals zero.
func Sow(b Board, start int, dir Direction) (Board, int, []Step) {
	steps := []Step{{Kind: StepPickup, Cell: start, Stones: b[start]}}
	hand := b[start]
	b[start] = 0
	pos := start
	captured := 0

	for {
		for hand > 0 {
			pos = next(pos, dir)
			if IsMandarin(pos) {
				continue
			}
			b[pos]++
			hand--
			steps = append(steps, Step{Kind: StepDeposit, Cell: pos, Stones: 1})
		}

		ahead := next(pos, dir)
		if IsMandarin(ahead) {
			// Emptying the hand right before a mandarin ends the turn
			// with no pickup and no capture.
			return b, captured, steps
		}
		if b[ahead] > 0 {
			// Chain pickup: keep sowing with the neighbor's contents.
			steps = append(steps, Step{Kind: StepPickup, Cell: ahead, Stones: b[ahead]})
			hand = b[ahead]
			b[ahead] = 0
			pos = ahead
			continue
		}

		// Capture chain: the empty neighbor opens a run of captures that
		// lasts while cells stay nonempty. Mandarins are captured like any
		// other cell here; an empty cell halts the chain.
		cur := next(ahead, dir)
		for b[cur] > 0 {
			steps = append(steps, Step{Kind: StepCapture, Cell: cur, Stones: b[cur]})
			captured += b[cur]
			b[cur] = 0
			cur = next(cur, dir)
		}
		return b, captured, steps
	}
}
