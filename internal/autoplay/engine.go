package autoplay

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// State represents the script engine's lifecycle state.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateStopped State = "stopped"
	StateError   State = "error"
)

// TablePlacer is the interface the engine uses to place wagers.
// Implementations bridge to the table session.
type TablePlacer interface {
	// PlaceBet places a wager per the current variable state, spins, and
	// returns the outcome once the spin has resolved.
	PlaceBet(ctx context.Context, vars *Variables) (*SpinOutcome, error)
	// Balance returns the table's current balance.
	Balance() float64
}

// EventEmitter allows the engine to push state updates to the frontend.
type EventEmitter interface {
	// EmitAutoplayState sends the current engine state to the frontend.
	EmitAutoplayState(state EngineSnapshot)
	// EmitAutoplayLog sends log entries to the frontend.
	EmitAutoplayLog(entries []LogEntry)
}

// EngineSnapshot is a serializable snapshot of the engine state.
type EngineSnapshot struct {
	State          State        `json:"state"`
	Error          string       `json:"error,omitempty"`
	Stats          *RunStats    `json:"stats"`
	Chart          []ChartPoint `json:"chart"`
	SpinsPerSecond float64      `json:"spinsPerSecond"`
}

// Engine orchestrates the scripted bet lifecycle: spin, fold the outcome
// into stats and script globals, call dobet(), repeat.
type Engine struct {
	mu     sync.RWMutex
	state  State
	err    error
	cancel context.CancelFunc

	vm    *VM
	vars  *Variables
	stats *RunStats
	chart *ChartBuffer

	placer  TablePlacer
	emitter EventEmitter

	startTime time.Time
	lastEmit  time.Time
}

// NewEngine creates a new script engine.
func NewEngine(placer TablePlacer, emitter EventEmitter) *Engine {
	return &Engine{
		state:   StateIdle,
		placer:  placer,
		emitter: emitter,
	}
}

// Start begins script execution. The script source is executed once to
// register dobet(), then the spin loop begins.
func (e *Engine) Start(script string) error {
	e.mu.Lock()
	if e.state == StateRunning {
		e.mu.Unlock()
		return fmt.Errorf("engine is already running")
	}

	e.stats = NewRunStats(e.placer.Balance())
	e.chart = NewChartBuffer(500)
	e.vars = NewVariables(e.stats)
	e.vm = NewVM()
	e.state = StateRunning
	e.err = nil
	e.startTime = time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.mu.Unlock()

	e.vm.SetVariables(e.vars)

	if err := e.vm.Execute(script); err != nil {
		e.setError(err)
		cancel()
		return err
	}

	// Sync back any variables the script set during initialization.
	e.vm.SyncVariables(e.vars)

	if !e.vm.HasDobet() {
		err := fmt.Errorf("script must define a dobet() function")
		e.setError(err)
		cancel()
		return err
	}

	e.vars.Running = true
	e.vm.SetVariables(e.vars)
	e.emitState()

	go e.spinLoop(ctx)
	return nil
}

// Stop gracefully stops the engine.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if e.state != StateRunning {
		e.mu.Unlock()
		return fmt.Errorf("engine is not running")
	}
	if e.cancel != nil {
		e.cancel()
	}
	e.state = StateStopped
	e.vars.Running = false
	e.mu.Unlock()

	e.emitState()
	return nil
}

// GetState returns the current engine snapshot.
func (e *Engine) GetState() EngineSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot()
}

// GetLogs returns the script log buffer.
func (e *Engine) GetLogs() []LogEntry {
	if e.vm == nil {
		return nil
	}
	return e.vm.GetLogs()
}

// spinLoop is the main betting loop that runs in a goroutine.
func (e *Engine) spinLoop(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			e.setError(fmt.Errorf("script panic: %v", r))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			e.markStopped()
			return
		default:
		}

		if e.vm.IsStopRequested() {
			e.markStopped()
			return
		}

		e.mu.RLock()
		nextBet := e.vars.NextBet
		vars := e.vars
		e.mu.RUnlock()

		if nextBet <= 0 {
			e.setError(fmt.Errorf("nextbet must be > 0, got %f", nextBet))
			return
		}

		result, err := e.placer.PlaceBet(ctx, vars)
		if err != nil {
			if ctx.Err() != nil {
				e.markStopped()
				return
			}
			e.setError(fmt.Errorf("bet placement failed: %w", err))
			return
		}

		e.mu.Lock()
		e.stats.RecordSpin(*result)

		e.vars.Win = result.Win
		e.vars.PreviousBet = result.Amount
		e.vars.Balance = e.stats.Balance
		e.vars.Pocket = result.Pocket
		e.vars.Color = result.Color

		e.vm.SetVariables(e.vars)

		e.chart.Push(ChartPoint{
			SpinNumber: e.stats.Spins,
			Profit:     e.stats.Profit,
			Win:        result.Win,
		})
		e.mu.Unlock()

		if err := e.vm.CallDobet(); err != nil {
			e.setError(fmt.Errorf("dobet() error: %w", err))
			return
		}

		e.vm.SyncVariables(e.vars)

		if e.vm.IsResetStatsRequested() {
			e.mu.Lock()
			e.stats.Reset()
			e.chart.Reset()
			e.mu.Unlock()
			e.vm.SetVariables(e.vars)
		}

		if e.vm.IsStopRequested() {
			e.markStopped()
			return
		}

		e.mu.RLock()
		stopOnWin := e.vars.StopOnWin
		e.mu.RUnlock()
		if stopOnWin && result.Win {
			e.markStopped()
			return
		}

		// Throttled: every 100ms or every spin if slower.
		e.throttledEmitState()

		sleepMs := e.vm.GetSleepTime()
		e.vm.ResetSleepTime()
		if sleepMs > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(sleepMs) * time.Millisecond):
			}
		}
	}
}

func (e *Engine) markStopped() {
	e.mu.Lock()
	if e.state == StateRunning {
		e.state = StateStopped
	}
	e.vars.Running = false
	e.mu.Unlock()
	e.emitState()
}

func (e *Engine) setError(err error) {
	e.mu.Lock()
	e.state = StateError
	e.err = err
	if e.vars != nil {
		e.vars.Running = false
	}
	e.mu.Unlock()
	e.emitState()
}

func (e *Engine) snapshot() EngineSnapshot {
	snap := EngineSnapshot{
		State: e.state,
	}
	if e.err != nil {
		snap.Error = e.err.Error()
	}
	if e.stats != nil {
		statsCopy := *e.stats
		snap.Stats = &statsCopy
	}
	if e.chart != nil {
		snap.Chart = append([]ChartPoint(nil), e.chart.Points...)
	}
	if e.state == StateRunning && e.stats != nil && e.stats.Spins > 0 {
		elapsed := time.Since(e.startTime).Seconds()
		if elapsed > 0 {
			snap.SpinsPerSecond = float64(e.stats.Spins) / elapsed
		}
	}
	return snap
}

func (e *Engine) emitState() {
	if e.emitter == nil {
		return
	}
	e.mu.Lock()
	snap := e.snapshot()
	e.lastEmit = time.Now()
	e.mu.Unlock()
	e.emitter.EmitAutoplayState(snap)
}

func (e *Engine) throttledEmitState() {
	e.mu.RLock()
	last := e.lastEmit
	e.mu.RUnlock()
	if time.Since(last) < 100*time.Millisecond {
		return
	}
	e.emitState()
}
