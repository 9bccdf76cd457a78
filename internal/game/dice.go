package game

import (
	"math/rand"
	"sync"
	"time"
)

// Dice is the random source of the simulation
type Dice interface {
	// Float64 returns a number in [0,1)
	Float64() float64
}

// DiceRoller handles random rolls for the game
type DiceRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewDiceRoller creates a new dice roller with a seeded random number generator
func NewDiceRoller() *DiceRoller {
	return &DiceRoller{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Float64 returns a number in [0,1)
func (dr *DiceRoller) Float64() float64 {
	dr.mu.Lock()
	defer dr.mu.Unlock()
	return dr.rng.Float64()
}

// chance reports whether a roll lands under probability p
func chance(d Dice, p float64) bool {
	return d.Float64() < p
}

// pick returns a random index below n
func pick(d Dice, n int) int {
	i := int(d.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
