package runtime

import (
	"math/rand/v2"

	"chat-sim/contract"
)

type systemRand struct{}

func (systemRand) Float64() float64 { return rand.Float64() }
func (systemRand) IntN(n int) int   { return rand.IntN(n) }

// SystemRand returns the process-wide random source. Tests inject scripted
// implementations of contract.Rand instead.
func SystemRand() contract.Rand { return systemRand{} }
