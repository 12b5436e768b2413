// Package bindings exposes the game engine to the Wails frontend. Each
// module is a bound struct; methods become JS-callable, and feedback flows
// back through runtime events.
package bindings

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/spinroom/roulette-sim-go/internal/history"
	"github.com/spinroom/roulette-sim-go/internal/roulette"
	"github.com/spinroom/roulette-sim-go/internal/session"
)

// Event names emitted to the frontend.
const (
	EventBetPlaced   = "table:betplaced"
	EventSpinStarted = "table:spinstarted"
	EventSpinResult  = "table:result"
	EventSpinError   = "table:error"
)

// TableModule is the Wails-bound struct for the roulette table.
type TableModule struct {
	ctx       context.Context
	table     *session.Session
	store     *history.Store
	recorder  *history.Recorder
	sessionID string
	notifier  *wailsTableNotifier
}

// wailsTableNotifier bridges session events to Wails runtime events. The
// ctx guard keeps it inert in tests, which construct the module without a
// Wails context.
type wailsTableNotifier struct {
	ctx context.Context
}

func (n *wailsTableNotifier) EmitBetPlaced(bet session.PlacedBet) {
	if n.ctx == nil {
		return
	}
	runtime.EventsEmit(n.ctx, EventBetPlaced, bet)
}

func (n *wailsTableNotifier) EmitSpinStarted(staked float64, betCount int) {
	if n.ctx == nil {
		return
	}
	runtime.EventsEmit(n.ctx, EventSpinStarted, map[string]any{
		"staked":   staked,
		"betCount": betCount,
	})
}

func (n *wailsTableNotifier) EmitSpinResult(res session.SpinResult) {
	if n.ctx == nil {
		return
	}
	runtime.EventsEmit(n.ctx, EventSpinResult, res)
}

func (n *wailsTableNotifier) EmitSpinRejected(reason error, staked, balance float64) {
	if n.ctx == nil {
		return
	}
	runtime.EventsEmit(n.ctx, EventSpinError, map[string]any{
		"reason":  reason.Error(),
		"staked":  staked,
		"balance": balance,
	})
}

// NewTableModule opens the history store at dbPath and constructs the table
// session. A zero startBalance uses the default.
func NewTableModule(dbPath string, startBalance float64) (*TableModule, error) {
	store, err := history.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("bindings: open history store: %w", err)
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		return nil, fmt.Errorf("bindings: migrate history store: %w", err)
	}

	if startBalance <= 0 {
		startBalance = session.DefaultStartBalance
	}
	sessionID, err := store.CreateSession(startBalance)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("bindings: create history session: %w", err)
	}
	recorder := history.NewRecorder(store, sessionID, 0)

	notifier := &wailsTableNotifier{}
	table := session.New(session.Config{
		StartBalance: startBalance,
		Notifier:     notifier,
		Recorder:     recorder,
	})

	return &TableModule{
		table:     table,
		store:     store,
		recorder:  recorder,
		sessionID: sessionID,
		notifier:  notifier,
	}, nil
}

// Startup is called by Wails on application startup.
func (tm *TableModule) Startup(ctx context.Context) {
	tm.ctx = ctx
	tm.notifier.ctx = ctx
}

// Shutdown flushes buffered spins and closes out the history session.
func (tm *TableModule) Shutdown(ctx context.Context) {
	tm.recorder.Flush()

	snap := tm.table.Snapshot()
	err := tm.store.EndSession(tm.sessionID, history.SessionTotals{
		FinalBalance: snap.Balance,
		TotalSpins:   snap.GameStats.Spins,
		TotalBets:    snap.GameStats.TotalBets,
		Wins:         snap.GameStats.Wins,
		Losses:       snap.GameStats.Losses,
		TotalWon:     snap.GameStats.TotalWon,
		TotalLost:    snap.GameStats.TotalLost,
	})
	if err != nil {
		log.Printf("bindings: end session: %v", err)
	}
	if err := tm.store.Close(); err != nil {
		log.Printf("bindings: close history store: %v", err)
	}
}

// Table returns the underlying session, for wiring the companion API.
func (tm *TableModule) Table() *session.Session {
	return tm.table
}

// Store returns the underlying history store.
func (tm *TableModule) Store() *history.Store {
	return tm.store
}

// SelectBet sets the pending selection. number is ignored for bets that
// don't take one.
func (tm *TableModule) SelectBet(kind string, number int) error {
	k := roulette.BetKind(kind)
	if !roulette.KnownKind(k) {
		return fmt.Errorf("bindings: unknown bet kind %q", kind)
	}
	return tm.table.SelectBet(k, roulette.Pocket(number))
}

// PlaceBet commits the pending selection with the active stake.
func (tm *TableModule) PlaceBet() error {
	return tm.table.PlaceBet()
}

// RemoveBet removes one placed bet by ID.
func (tm *TableModule) RemoveBet(id string) error {
	return tm.table.RemoveBet(id)
}

// ResetBets clears the selection and all placed bets.
func (tm *TableModule) ResetBets() error {
	return tm.table.ResetBets()
}

// IncreaseChip steps the chip denomination up.
func (tm *TableModule) IncreaseChip() error {
	return tm.table.IncreaseChip()
}

// DecreaseChip steps the chip denomination down.
func (tm *TableModule) DecreaseChip() error {
	return tm.table.DecreaseChip()
}

// UpdateBetAmount overrides the active stake. The amount arrives as a
// string from the frontend input; it must be a positive number with at most
// two decimal places.
func (tm *TableModule) UpdateBetAmount(amount string) error {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("bindings: invalid amount %q: %w", amount, err)
	}
	if !d.IsPositive() {
		return session.ErrInvalidAmount
	}
	if !d.Equal(d.Round(2)) {
		return fmt.Errorf("bindings: amount %q has more than two decimal places", amount)
	}
	f, _ := d.Float64()
	return tm.table.UpdateBetAmount(f)
}

// Spin starts the wheel.
func (tm *TableModule) Spin() error {
	return tm.table.Spin()
}

// GetTableState returns the full observable table state.
func (tm *TableModule) GetTableState() session.Snapshot {
	return tm.table.Snapshot()
}
