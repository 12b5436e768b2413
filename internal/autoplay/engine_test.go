package autoplay

import (
	"context"
	"sync"
	"testing"
	"time"
)

// testPlacer simulates spins with a scripted win pattern.
type testPlacer struct {
	callCount int
	winEvery  int
	balance   float64
}

func (p *testPlacer) PlaceBet(ctx context.Context, vars *Variables) (*SpinOutcome, error) {
	p.callCount++
	win := p.winEvery > 0 && p.callCount%p.winEvery == 0
	payout := 0.0
	if win {
		payout = vars.NextBet * 2
	}
	return &SpinOutcome{
		Amount: vars.NextBet,
		Payout: payout,
		Win:    win,
		Pocket: p.callCount % 37,
		Color:  "red",
	}, nil
}

func (p *testPlacer) Balance() float64 { return p.balance }

type noopEmitter struct{}

func (noopEmitter) EmitAutoplayState(EngineSnapshot) {}
func (noopEmitter) EmitAutoplayLog([]LogEntry)       {}

// countingEmitter tallies state emissions from whichever goroutine sends
// them.
type countingEmitter struct {
	mu     sync.Mutex
	states int
}

func (c *countingEmitter) EmitAutoplayState(EngineSnapshot) {
	c.mu.Lock()
	c.states++
	c.mu.Unlock()
}

func (c *countingEmitter) EmitAutoplayLog([]LogEntry) {}

func (c *countingEmitter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states
}

const martingale = `
	basebet = 10
	nextbet = basebet

	dobet = function() {
		if (win) {
			nextbet = basebet
		} else {
			nextbet = previousbet * 2
		}
		if (spins >= 20) {
			stop()
		}
	}
`

func waitForState(t *testing.T, eng *Engine, want State) EngineSnapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap := eng.GetState()
		if snap.State == want {
			return snap
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("engine never reached state %q (last: %q)", want, eng.GetState().State)
	return EngineSnapshot{}
}

func TestEngineRunsMartingale(t *testing.T) {
	placer := &testPlacer{winEvery: 3, balance: 1000}
	eng := NewEngine(placer, noopEmitter{})

	if err := eng.Start(martingale); err != nil {
		t.Fatalf("Start: %v", err)
	}

	snap := waitForState(t, eng, StateStopped)
	if snap.Stats == nil || snap.Stats.Spins < 20 {
		t.Fatalf("stats = %+v, want >= 20 spins", snap.Stats)
	}
	if snap.Stats.Wins == 0 || snap.Stats.Losses == 0 {
		t.Errorf("stats = %+v, want both wins and losses", snap.Stats)
	}
}

func TestEngineRejectsScriptWithoutDobet(t *testing.T) {
	eng := NewEngine(&testPlacer{balance: 100}, noopEmitter{})
	if err := eng.Start(`nextbet = 10`); err == nil {
		t.Fatal("Start succeeded without dobet()")
	}
	if eng.GetState().State != StateError {
		t.Errorf("state = %q, want error", eng.GetState().State)
	}
}

func TestEngineRejectsDoubleStart(t *testing.T) {
	eng := NewEngine(&testPlacer{winEvery: 0, balance: 1000}, noopEmitter{})
	script := `
		nextbet = 10
		dobet = function() { sleep(50) }
	`
	if err := eng.Start(script); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := eng.Start(script); err == nil {
		t.Error("second Start succeeded while running")
	}
	if err := eng.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	waitForState(t, eng, StateStopped)
}

func TestEngineStopOnWin(t *testing.T) {
	placer := &testPlacer{winEvery: 5, balance: 1000}
	eng := NewEngine(placer, noopEmitter{})
	script := `
		nextbet = 10
		stoponwin = true
		dobet = function() {}
	`
	if err := eng.Start(script); err != nil {
		t.Fatalf("Start: %v", err)
	}
	snap := waitForState(t, eng, StateStopped)
	if snap.Stats.Spins != 5 {
		t.Errorf("Spins = %d, want 5 (stop on first win)", snap.Stats.Spins)
	}
	if snap.Stats.Wins != 1 {
		t.Errorf("Wins = %d, want 1", snap.Stats.Wins)
	}
}

func TestEngineErrorsOnNonPositiveBet(t *testing.T) {
	eng := NewEngine(&testPlacer{winEvery: 2, balance: 1000}, noopEmitter{})
	script := `
		nextbet = 10
		dobet = function() { nextbet = 0 }
	`
	if err := eng.Start(script); err != nil {
		t.Fatalf("Start: %v", err)
	}
	snap := waitForState(t, eng, StateError)
	if snap.Error == "" {
		t.Error("expected error message in snapshot")
	}
}

func TestEngineEmitsStateFromBothGoroutines(t *testing.T) {
	// The spin loop emits throttled updates from its own goroutine while
	// Stop emits from the caller's. Run with -race to check the emit
	// bookkeeping.
	placer := &testPlacer{winEvery: 3, balance: 1000}
	em := &countingEmitter{}
	eng := NewEngine(placer, em)
	script := `
		nextbet = 10
		dobet = function() { sleep(120) }
	`
	if err := eng.Start(script); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for em.count() < 3 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if err := eng.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	waitForState(t, eng, StateStopped)

	// At least the start emit, one loop emit and the stop emit.
	if got := em.count(); got < 3 {
		t.Errorf("state emissions = %d, want at least 3", got)
	}
}

func TestEngineResetStats(t *testing.T) {
	placer := &testPlacer{winEvery: 2, balance: 1000}
	eng := NewEngine(placer, noopEmitter{})
	script := `
		nextbet = 10
		dobet = function() {
			if (spins == 5) {
				resetstats()
			}
			if (spins >= 8) {
				stop()
			}
		}
	`
	if err := eng.Start(script); err != nil {
		t.Fatalf("Start: %v", err)
	}
	snap := waitForState(t, eng, StateStopped)
	// 5 spins before the reset plus 8 counted after it.
	if placer.callCount != 13 {
		t.Errorf("placed spins = %d, want 13", placer.callCount)
	}
	if snap.Stats.Spins != 8 {
		t.Errorf("Spins = %d, want 8 after reset", snap.Stats.Spins)
	}
}
