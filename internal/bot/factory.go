package bot

import (
	"math/rand"
	"time"
)

// NewRaceBrain maps a pool difficulty to a race strategy. Unknown values
// get the greedy ladder.
func NewRaceBrain(difficulty string) RaceBrain {
	switch difficulty {
	case "easy":
		return &RandomRaceBrain{Rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
	default:
		return &GreedyRaceBrain{}
	}
}

// NewSowingBrain maps a pool difficulty to a sowing strategy. The
// baseline plays a uniform random legal move; "hard" gets the greedy
// capture lookahead.
func NewSowingBrain(difficulty string) SowingBrain {
	switch difficulty {
	case "hard":
		return &GreedySowingBrain{}
	default:
		return &RandomSowingBrain{Rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
	}
}
