package autoplay

import (
	"context"
	"fmt"

	"github.com/spinroom/roulette-sim-go/internal/roulette"
	"github.com/spinroom/roulette-sim-go/internal/session"
)

// SessionPlacer drives a table session on behalf of the script engine. The
// session must be configured with a SyncScheduler so Spin resolves before
// Spin returns; the wheel-animation delay has no place in a scripted run.
type SessionPlacer struct {
	table *session.Session
}

// NewSessionPlacer wraps a session for scripted play.
func NewSessionPlacer(table *session.Session) *SessionPlacer {
	return &SessionPlacer{table: table}
}

// Balance returns the table's current balance.
func (p *SessionPlacer) Balance() float64 {
	return p.table.Balance()
}

// PlaceBet selects the scripted wager, places it, spins, and returns the
// resolved outcome.
func (p *SessionPlacer) PlaceBet(ctx context.Context, vars *Variables) (*SpinOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kind := roulette.BetKind(vars.BetKind)
	if !roulette.KnownKind(kind) {
		return nil, fmt.Errorf("autoplay: unknown bet kind %q", vars.BetKind)
	}
	number := roulette.Pocket(vars.BetNumber)
	if kind.NeedsNumber() && !number.Valid() {
		return nil, fmt.Errorf("autoplay: betnumber %d out of range", vars.BetNumber)
	}

	if err := p.table.SelectBet(kind, number); err != nil {
		return nil, fmt.Errorf("autoplay: select bet: %w", err)
	}
	if err := p.table.UpdateBetAmount(vars.NextBet); err != nil {
		return nil, fmt.Errorf("autoplay: set amount: %w", err)
	}
	if err := p.table.PlaceBet(); err != nil {
		return nil, fmt.Errorf("autoplay: place bet: %w", err)
	}
	if err := p.table.Spin(); err != nil {
		return nil, fmt.Errorf("autoplay: spin: %w", err)
	}

	snap := p.table.Snapshot()
	res := snap.LastSpinResult
	if res == nil {
		return nil, fmt.Errorf("autoplay: spin did not resolve; session needs a synchronous scheduler")
	}

	return &SpinOutcome{
		Amount: res.Staked,
		Payout: res.Payout,
		Win:    res.Won,
		Pocket: int(res.Pocket),
		Color:  string(res.Color),
	}, nil
}
