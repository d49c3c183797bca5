package service

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Randomizer serializes access to one *rand.Rand so a seeded run stays reproducible
// while the service handles requests concurrently.
type Randomizer struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandomizer seeds from seed, or from the clock when seed is 0.
func NewRandomizer(seed uint64) *Randomizer {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Randomizer{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (l *Randomizer) with(fn func(r *rand.Rand)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.r)
}
