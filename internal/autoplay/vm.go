// Package autoplay runs user-authored betting scripts against a table
// session. Scripts are plain JavaScript with a dobet() callback; the engine
// spins, reports the outcome into the script's globals, then asks dobet()
// for the next wager.
package autoplay

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/spinroom/roulette-sim-go/internal/roulette"
)

// LogEntry represents a single log message from the script.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

const (
	scriptInitTimeout = 2 * time.Second
	scriptCallTimeout = 1 * time.Second
)

// VM wraps a goja runtime with sandbox restrictions and global function
// injection.
type VM struct {
	runtime *goja.Runtime
	mu      sync.Mutex

	// Log buffer visible to the frontend.
	logs    []LogEntry
	logsMu  sync.Mutex
	maxLogs int

	// stopRequested is set when the script calls stop().
	stopRequested bool
}

// NewVM creates a sandboxed goja runtime with global functions injected.
func NewVM() *VM {
	vm := &VM{
		runtime: goja.New(),
		maxLogs: 500,
	}
	vm.injectGlobalFunctions()
	vm.injectTableGlobals()
	return vm
}

// injectGlobalFunctions registers log, sleep, stop, resetstats, and console.log.
func (vm *VM) injectGlobalFunctions() {
	// log(...args) — appends to log buffer
	vm.runtime.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		msg := strings.Join(parts, " ")

		vm.logsMu.Lock()
		if len(vm.logs) >= vm.maxLogs {
			vm.logs = vm.logs[1:]
		}
		vm.logs = append(vm.logs, LogEntry{Time: time.Now(), Message: msg})
		vm.logsMu.Unlock()

		return goja.Undefined()
	})

	// console.log — alias for log
	console := vm.runtime.NewObject()
	console.Set("log", vm.runtime.Get("log"))
	vm.runtime.Set("console", console)

	// stop() — signals the engine to stop
	vm.runtime.Set("stop", func(call goja.FunctionCall) goja.Value {
		vm.mu.Lock()
		vm.stopRequested = true
		vm.mu.Unlock()
		vm.runtime.Set("running", false)
		return goja.Undefined()
	})

	// sleep(ms) — sets the sleeptime variable
	vm.runtime.Set("sleep", func(call goja.FunctionCall) goja.Value {
		ms := 0
		if len(call.Arguments) > 0 {
			ms = int(call.Arguments[0].ToInteger())
		}
		vm.runtime.Set("sleeptime", ms)
		return goja.Undefined()
	})

	// resetstats() — the engine checks this flag after dobet() returns.
	vm.runtime.Set("resetstats", func(call goja.FunctionCall) goja.Value {
		vm.runtime.Set("_resetstats", true)
		return goja.Undefined()
	})

	// Math is already available in goja by default.
	// Block dangerous globals.
	vm.runtime.Set("require", goja.Undefined())
	vm.runtime.Set("fetch", goja.Undefined())
	vm.runtime.Set("XMLHttpRequest", goja.Undefined())
	vm.runtime.Set("eval", goja.Undefined())
	vm.runtime.Set("Function", goja.Undefined())
}

// injectTableGlobals exposes the wheel layout to scripts: uppercase bet-kind
// constants (betkind = BLACK) and pocket classification helpers, so a
// strategy can branch on outcomes without hardcoding the red/black partition
// or the 3x12 grid.
func (vm *VM) injectTableGlobals() {
	kinds := map[string]roulette.BetKind{
		"STRAIGHT": roulette.BetStraight,
		"RED":      roulette.BetRed,
		"BLACK":    roulette.BetBlack,
		"ODD":      roulette.BetOdd,
		"EVEN":     roulette.BetEven,
		"DOZEN1":   roulette.BetDozen1,
		"DOZEN2":   roulette.BetDozen2,
		"DOZEN3":   roulette.BetDozen3,
		"COL1":     roulette.BetColumn1,
		"COL2":     roulette.BetColumn2,
		"COL3":     roulette.BetColumn3,
	}
	for name, kind := range kinds {
		vm.runtime.Set(name, string(kind))
	}

	pocketArg := func(call goja.FunctionCall) (roulette.Pocket, bool) {
		if len(call.Arguments) == 0 {
			return 0, false
		}
		p := roulette.Pocket(call.Arguments[0].ToInteger())
		return p, p.Valid()
	}

	vm.runtime.Set("isred", func(call goja.FunctionCall) goja.Value {
		p, ok := pocketArg(call)
		return vm.runtime.ToValue(ok && p.IsRed())
	})
	vm.runtime.Set("isblack", func(call goja.FunctionCall) goja.Value {
		p, ok := pocketArg(call)
		return vm.runtime.ToValue(ok && p.IsBlack())
	})
	// pocketcolor(n) — "green", "red" or "black"; "" for an invalid pocket.
	vm.runtime.Set("pocketcolor", func(call goja.FunctionCall) goja.Value {
		p, ok := pocketArg(call)
		if !ok {
			return vm.runtime.ToValue("")
		}
		return vm.runtime.ToValue(string(p.Color()))
	})
	// dozenof(n) / columnof(n) — 1-3, or 0 for zero and invalid pockets.
	vm.runtime.Set("dozenof", func(call goja.FunctionCall) goja.Value {
		p, ok := pocketArg(call)
		if !ok {
			return vm.runtime.ToValue(0)
		}
		return vm.runtime.ToValue(p.Dozen())
	})
	vm.runtime.Set("columnof", func(call goja.FunctionCall) goja.Value {
		p, ok := pocketArg(call)
		if !ok {
			return vm.runtime.ToValue(0)
		}
		return vm.runtime.ToValue(p.Column())
	})
	// payoutfor(kind) — the catalog multiplier, 0 for an unknown kind.
	vm.runtime.Set("payoutfor", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return vm.runtime.ToValue(0)
		}
		kind := roulette.BetKind(call.Arguments[0].String())
		if !roulette.KnownKind(kind) {
			return vm.runtime.ToValue(0)
		}
		return vm.runtime.ToValue(roulette.Multiplier(kind))
	})
}

// Execute runs user script source code. This should be called once at the
// start of a run to register dobet().
func (vm *VM) Execute(source string) error {
	return vm.runWithTimeout(scriptInitTimeout, func() error {
		vm.mu.Lock()
		defer vm.mu.Unlock()
		_, err := vm.runtime.RunString(source)
		if err != nil {
			return fmt.Errorf("script execution error: %w", err)
		}
		return nil
	})
}

// CallDobet calls the user-defined dobet() function.
func (vm *VM) CallDobet() error {
	return vm.runWithTimeout(scriptCallTimeout, func() error {
		vm.mu.Lock()
		defer vm.mu.Unlock()

		fn := vm.runtime.Get("dobet")
		if fn == nil || goja.IsUndefined(fn) || goja.IsNull(fn) {
			return fmt.Errorf("dobet() function is not defined")
		}

		callable, ok := goja.AssertFunction(fn)
		if !ok {
			return fmt.Errorf("dobet is not a function")
		}

		_, err := callable(goja.Undefined())
		if err != nil {
			return fmt.Errorf("dobet() error: %w", err)
		}
		return nil
	})
}

// HasDobet reports whether the user script defined a dobet() function.
func (vm *VM) HasDobet() bool {
	fn := vm.runtime.Get("dobet")
	if fn == nil || goja.IsUndefined(fn) || goja.IsNull(fn) {
		return false
	}
	_, ok := goja.AssertFunction(fn)
	return ok
}

// IsStopRequested returns true if stop() was called from the script.
func (vm *VM) IsStopRequested() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.stopRequested
}

// IsResetStatsRequested returns true if resetstats() was called, then clears
// the flag.
func (vm *VM) IsResetStatsRequested() bool {
	val := vm.runtime.Get("_resetstats")
	if val != nil && !goja.IsUndefined(val) && val.ToBoolean() {
		vm.runtime.Set("_resetstats", false)
		return true
	}
	return false
}

// SetVariables pushes the current variable state into the JS runtime.
func (vm *VM) SetVariables(vars *Variables) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	injectVariables(vm.runtime, vars)
}

// SyncVariables reads mutable variables back from the JS runtime.
func (vm *VM) SyncVariables(vars *Variables) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	syncFromVM(vm.runtime, vars)
}

// GetSleepTime returns the current sleeptime value from the VM.
func (vm *VM) GetSleepTime() int {
	val := vm.runtime.Get("sleeptime")
	if val == nil || goja.IsUndefined(val) {
		return 0
	}
	return int(val.ToInteger())
}

// ResetSleepTime sets sleeptime back to 0.
func (vm *VM) ResetSleepTime() {
	vm.runtime.Set("sleeptime", 0)
}

// GetLogs returns a copy of the current log buffer.
func (vm *VM) GetLogs() []LogEntry {
	vm.logsMu.Lock()
	defer vm.logsMu.Unlock()
	out := make([]LogEntry, len(vm.logs))
	copy(out, vm.logs)
	return out
}

// ClearLogs clears the log buffer.
func (vm *VM) ClearLogs() {
	vm.logsMu.Lock()
	defer vm.logsMu.Unlock()
	vm.logs = vm.logs[:0]
}

func (vm *VM) runWithTimeout(timeout time.Duration, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		// Interrupt a runaway script execution.
		vm.runtime.Interrupt("script execution timeout")
		select {
		case err := <-done:
			if err != nil {
				return fmt.Errorf("script timed out: %w", err)
			}
			return fmt.Errorf("script timed out")
		case <-time.After(200 * time.Millisecond):
			return fmt.Errorf("script timed out")
		}
	}
}
