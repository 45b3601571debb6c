package board

import "sync/atomic"

// Signal is a set-once boolean flag. The worker context sets it, the polling
// context reads it; once set it never clears.
type Signal struct {
	flag atomic.Bool
}

// NewSignal returns an unset signal.
func NewSignal() *Signal {
	return &Signal{}
}

// Set marks the signal. Safe to call from any goroutine, any number of times.
func (s *Signal) Set() {
	s.flag.Store(true)
}

// IsSet reports whether the signal has been set.
func (s *Signal) IsSet() bool {
	return s.flag.Load()
}
