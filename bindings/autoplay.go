package bindings

import (
	"context"
	"fmt"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/spinroom/roulette-sim-go/internal/autoplay"
	"github.com/spinroom/roulette-sim-go/internal/session"
)

// Autoplay event names.
const (
	EventAutoplayState = "autoplay:state"
	EventAutoplayLog   = "autoplay:log"
)

// AutoplayModule is the Wails-bound struct for the script engine. Scripts
// run against a dedicated simulated session seeded from the live table's
// balance, so a runaway script can't drain the table.
type AutoplayModule struct {
	ctx     context.Context
	mu      sync.RWMutex
	engine  *autoplay.Engine
	table   *TableModule
	emitter *wailsAutoplayEmitter
}

// wailsAutoplayEmitter bridges engine events to Wails runtime events.
type wailsAutoplayEmitter struct {
	ctx context.Context
}

func (e *wailsAutoplayEmitter) EmitAutoplayState(state autoplay.EngineSnapshot) {
	if e.ctx == nil {
		return
	}
	runtime.EventsEmit(e.ctx, EventAutoplayState, state)
}

func (e *wailsAutoplayEmitter) EmitAutoplayLog(entries []autoplay.LogEntry) {
	if e.ctx == nil {
		return
	}
	runtime.EventsEmit(e.ctx, EventAutoplayLog, entries)
}

// NewAutoplayModule creates an AutoplayModule ready to be bound.
func NewAutoplayModule(table *TableModule) *AutoplayModule {
	return &AutoplayModule{
		table:   table,
		emitter: &wailsAutoplayEmitter{},
	}
}

// Startup is called by Wails on application startup.
func (am *AutoplayModule) Startup(ctx context.Context) {
	am.ctx = ctx
	am.emitter.ctx = ctx
}

// StartScript compiles and runs the given script against a fresh simulated
// session. startBalance <= 0 copies the live table's balance.
func (am *AutoplayModule) StartScript(script string, startBalance float64) error {
	am.mu.Lock()
	defer am.mu.Unlock()

	if am.engine != nil {
		if snap := am.engine.GetState(); snap.State == autoplay.StateRunning {
			if err := am.engine.Stop(); err != nil {
				return fmt.Errorf("bindings: stop running script: %w", err)
			}
		}
	}

	if startBalance <= 0 {
		startBalance = am.table.Table().Balance()
	}
	sim := session.New(session.Config{
		StartBalance: startBalance,
		Scheduler:    session.SyncScheduler{},
	})
	placer := autoplay.NewSessionPlacer(sim)
	am.engine = autoplay.NewEngine(placer, am.emitter)

	return am.engine.Start(script)
}

// StopScript stops the running script.
func (am *AutoplayModule) StopScript() error {
	am.mu.RLock()
	engine := am.engine
	am.mu.RUnlock()
	if engine == nil {
		return fmt.Errorf("bindings: no script has been started")
	}
	return engine.Stop()
}

// GetScriptState returns the current engine snapshot.
func (am *AutoplayModule) GetScriptState() autoplay.EngineSnapshot {
	am.mu.RLock()
	engine := am.engine
	am.mu.RUnlock()
	if engine == nil {
		return autoplay.EngineSnapshot{State: autoplay.StateIdle}
	}
	return engine.GetState()
}

// GetScriptLogs returns the script's log buffer.
func (am *AutoplayModule) GetScriptLogs() []autoplay.LogEntry {
	am.mu.RLock()
	engine := am.engine
	am.mu.RUnlock()
	if engine == nil {
		return nil
	}
	return engine.GetLogs()
}
