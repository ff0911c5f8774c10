package engine

import (
	"math/rand"
	"sync"
	"time"
)

type Dice interface {
	Roll() (int, int)
}

type RandomDice struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomDice() *RandomDice {
	return &RandomDice{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (d *RandomDice) Roll() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Intn(6) + 1, d.rng.Intn(6) + 1
}
