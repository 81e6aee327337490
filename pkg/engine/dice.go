package engine

import (
	"math/rand"
	"time"
)

// Roller produces die rolls in [1,6]. The game takes its randomness from a
// Roller so tests and replays can inject a seeded or scripted source.
type Roller interface {
	Roll() int
}

type randRoller struct {
	rng *rand.Rand
}

func (r *randRoller) Roll() int {
	return r.rng.Intn(6) + 1
}

// NewRoller returns a rand-backed Roller. A seed of 0 seeds from the
// current time.
func NewRoller(seed int64) Roller {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &randRoller{rng: rand.New(rand.NewSource(seed))}
}
