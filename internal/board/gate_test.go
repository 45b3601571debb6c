package board

import (
	"sync"
	"testing"
)

func TestGateFiresExactlyOnce(t *testing.T) {
	gate := NewGate()

	if gate.Fired() {
		t.Error("new gate Fired() = true, want false")
	}
	if !gate.Fire() {
		t.Error("first Fire() = false, want true")
	}
	if gate.Fire() {
		t.Error("second Fire() = true, want false")
	}
	if !gate.Fired() {
		t.Error("Fired() after firing = false, want true")
	}
}

func TestGateFireConcurrent(t *testing.T) {
	gate := NewGate()

	var wg sync.WaitGroup
	fired := make(chan bool, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fired <- gate.Fire()
		}()
	}
	wg.Wait()
	close(fired)

	wins := 0
	for ok := range fired {
		if ok {
			wins++
		}
	}
	if wins != 1 {
		t.Errorf("concurrent Fire() succeeded %d times, want 1", wins)
	}
}

func TestSignalSetIsSticky(t *testing.T) {
	sig := NewSignal()
	if sig.IsSet() {
		t.Error("new signal IsSet() = true, want false")
	}

	sig.Set()
	sig.Set()
	if !sig.IsSet() {
		t.Error("IsSet() after Set() = false, want true")
	}
}
