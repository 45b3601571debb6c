package board

import "sync/atomic"

// Gate decides exactly once when the observed run is complete. It moves from
// armed to fired and never resets.
type Gate struct {
	fired atomic.Bool
}

// NewGate returns an armed gate.
func NewGate() *Gate {
	return &Gate{}
}

// Fire transitions the gate to fired. It returns true only for the single
// call that performs the transition; later calls are no-ops.
func (g *Gate) Fire() bool {
	return g.fired.CompareAndSwap(false, true)
}

// Fired reports whether the gate has fired.
func (g *Gate) Fired() bool {
	return g.fired.Load()
}
