// Package session holds the per-table game state machine and the spin
// resolver. One Session instance owns its balance, placed bets and
// statistics outright; nothing is shared between sessions, so independent
// tables (or tests) just construct more of them.
package session

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spinroom/roulette-sim-go/internal/advisor"
	"github.com/spinroom/roulette-sim-go/internal/roulette"
)

const (
	// Chip denomination bounds and the step-size switch point.
	minChip      = 10
	maxChip      = 1000
	chipStepLow  = 10
	chipStepHigh = 50
	chipBoundary = 50

	// recentLimit bounds the previous-results list the advisor reads.
	recentLimit = 5

	// DefaultSpinDelay models the wheel animation.
	DefaultSpinDelay = 3 * time.Second

	// DefaultStartBalance seeds a fresh session.
	DefaultStartBalance = 1000
)

// Draw produces one random pocket. Injectable so tests can script outcomes.
type Draw func() roulette.Pocket

func defaultDraw() roulette.Pocket {
	return roulette.Pocket(rand.Intn(37))
}

// Config wires a session's collaborators. Zero values get sensible defaults.
type Config struct {
	StartBalance float64
	SpinDelay    time.Duration
	Draw         Draw
	Scheduler    Scheduler
	Notifier     Notifier
	Recorder     SpinRecorder
}

// Session is the single-table game state machine. All exported methods are
// safe for concurrent use; resolution applies in one uninterrupted step
// under the lock, so readers never observe a partially applied spin.
type Session struct {
	mu sync.Mutex

	draw      Draw
	scheduler Scheduler
	notifier  Notifier
	recorder  SpinRecorder
	spinDelay time.Duration

	selected  *SelectedBet
	placed    []PlacedBet
	chip      float64
	betAmount float64
	balance   float64
	spinning  bool
	last      *SpinResult
	recent    []roulette.Pocket
	stats     Stats
	advice    *advisor.Recommendation
}

// New constructs a session with the given configuration.
func New(cfg Config) *Session {
	if cfg.StartBalance <= 0 {
		cfg.StartBalance = DefaultStartBalance
	}
	if cfg.SpinDelay <= 0 {
		cfg.SpinDelay = DefaultSpinDelay
	}
	if cfg.Draw == nil {
		cfg.Draw = defaultDraw
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = TimerScheduler{}
	}
	if cfg.Notifier == nil {
		cfg.Notifier = NopNotifier{}
	}
	return &Session{
		draw:      cfg.Draw,
		scheduler: cfg.Scheduler,
		notifier:  cfg.Notifier,
		recorder:  cfg.Recorder,
		spinDelay: cfg.SpinDelay,
		chip:      minChip,
		betAmount: minChip,
		balance:   cfg.StartBalance,
	}
}

// SelectBet sets the transient selection. The active stake defaults to the
// current chip denomination and the advisor hint is recomputed. An unknown
// kind panics via the catalog; it cannot come from the table UI.
func (s *Session) SelectBet(kind roulette.BetKind, number roulette.Pocket) error {
	_ = roulette.Multiplier(kind)
	if kind.NeedsNumber() && !number.Valid() {
		return ErrInvalidNumber
	}
	if !kind.NeedsNumber() {
		number = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.spinning {
		return ErrSpinInProgress
	}
	s.selected = &SelectedBet{Kind: kind, Number: number}
	s.betAmount = s.chip
	s.advice = advisor.Advise(roulette.Bet{Kind: kind, Number: number}, s.recent)
	return nil
}

// PlaceBet commits the current selection with the active stake. The
// selection is consumed; select again to place another bet of the same kind.
func (s *Session) PlaceBet() error {
	s.mu.Lock()
	if s.spinning {
		s.mu.Unlock()
		return ErrSpinInProgress
	}
	if s.selected == nil {
		s.mu.Unlock()
		return ErrNoBetSelected
	}
	if s.betAmount <= 0 {
		s.mu.Unlock()
		return ErrInvalidAmount
	}
	bet := PlacedBet{
		ID:     uuid.NewString(),
		Kind:   s.selected.Kind,
		Number: s.selected.Number,
		Amount: s.betAmount,
	}
	s.placed = append(s.placed, bet)
	s.selected = nil
	s.advice = nil
	s.mu.Unlock()

	s.notifier.EmitBetPlaced(bet)
	return nil
}

// RemoveBet removes one placed bet by ID.
func (s *Session) RemoveBet(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.spinning {
		return ErrSpinInProgress
	}
	for i, b := range s.placed {
		if b.ID == id {
			s.placed = append(s.placed[:i], s.placed[i+1:]...)
			return nil
		}
	}
	return ErrBetNotFound
}

// ResetBets clears the selection and every placed bet.
func (s *Session) ResetBets() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.spinning {
		return ErrSpinInProgress
	}
	s.selected = nil
	s.placed = nil
	s.advice = nil
	return nil
}

// IncreaseChip steps the chip denomination up: +10 below 50, +50 from 50,
// clamped to 1000. The active stake follows while a bet is selected.
func (s *Session) IncreaseChip() error {
	return s.stepChip(true)
}

// DecreaseChip steps the chip denomination down, mirroring IncreaseChip,
// clamped to 10.
func (s *Session) DecreaseChip() error {
	return s.stepChip(false)
}

func (s *Session) stepChip(up bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.spinning {
		return ErrSpinInProgress
	}
	if up {
		if s.chip >= chipBoundary {
			s.chip += chipStepHigh
		} else {
			s.chip += chipStepLow
		}
		if s.chip > maxChip {
			s.chip = maxChip
		}
	} else {
		if s.chip > chipBoundary {
			s.chip -= chipStepHigh
		} else {
			s.chip -= chipStepLow
		}
		if s.chip < minChip {
			s.chip = minChip
		}
	}
	if s.selected != nil {
		s.betAmount = s.chip
	}
	return nil
}

// UpdateBetAmount overrides the active stake for the next placed bet.
func (s *Session) UpdateBetAmount(amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.spinning {
		return ErrSpinInProgress
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	s.betAmount = amount
	return nil
}

// Spin validates the placed bets and locks the table for the duration of
// the wheel animation. Validation failures are reported to the notifier and
// leave every piece of state untouched; once accepted, the spin runs to
// completion and cannot be cancelled.
func (s *Session) Spin() error {
	s.mu.Lock()
	if s.spinning {
		s.mu.Unlock()
		return ErrSpinInProgress
	}
	if len(s.placed) == 0 {
		balance := s.balance
		s.mu.Unlock()
		s.notifier.EmitSpinRejected(ErrNoBetsPlaced, 0, balance)
		return ErrNoBetsPlaced
	}
	staked := totalStaked(s.placed)
	if staked > s.balance {
		balance := s.balance
		s.mu.Unlock()
		s.notifier.EmitSpinRejected(ErrInsufficientFunds, staked, balance)
		return ErrInsufficientFunds
	}
	s.spinning = true
	betCount := len(s.placed)
	s.mu.Unlock()

	s.notifier.EmitSpinStarted(staked, betCount)
	s.scheduler.Schedule(s.spinDelay, s.resolve)
	return nil
}

// resolve draws the outcome and applies the whole resolution — history,
// payouts, balance, statistics, cleanup — in one step under the lock.
func (s *Session) resolve() {
	pocket := s.draw()

	s.mu.Lock()
	s.recent = append([]roulette.Pocket{pocket}, s.recent...)
	if len(s.recent) > recentLimit {
		s.recent = s.recent[:recentLimit]
	}

	var payout, lost float64
	var anyWin, anyLoss bool
	for _, b := range s.placed {
		if roulette.Wins(b.bet(), pocket) {
			payout += b.Amount * float64(roulette.Multiplier(b.Kind))
			anyWin = true
		} else {
			lost += b.Amount
			anyLoss = true
		}
	}

	staked := totalStaked(s.placed)
	// Stakes are consumed when the wheel spins; winners are repaid their
	// full amount*multiplier payout.
	s.balance += payout - staked
	s.stats.recordSpin(len(s.placed), anyWin, anyLoss, payout, lost)

	res := SpinResult{
		Pocket:   pocket,
		Color:    pocket.Color(),
		BetCount: len(s.placed),
		Staked:   staked,
		Payout:   payout,
		Net:      payout - staked,
		Won:      anyWin,
		Lost:     anyLoss,
		Balance:  s.balance,
	}
	s.last = &res
	s.placed = nil
	s.selected = nil
	s.advice = nil
	s.betAmount = s.chip
	s.spinning = false
	s.mu.Unlock()

	s.notifier.EmitSpinResult(res)
	if s.recorder != nil {
		s.recorder.RecordSpin(res)
	}
}

// Snapshot returns a consistent copy of the full observable state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		IsSpinning:     s.spinning,
		ChipAmount:     s.chip,
		BetAmount:      s.betAmount,
		Balance:        s.balance,
		GameStats:      s.stats,
		TotalBetAmount: totalStaked(s.placed),
	}
	if s.selected != nil {
		sel := *s.selected
		snap.SelectedBet = &sel
	}
	snap.PlacedBets = append([]PlacedBet(nil), s.placed...)
	snap.PreviousResults = append([]roulette.Pocket(nil), s.recent...)
	if s.last != nil {
		last := *s.last
		snap.LastSpinResult = &last
	}
	if s.advice != nil {
		adv := *s.advice
		snap.AIRecommendation = &adv
	}
	return snap
}

// Balance returns the current balance.
func (s *Session) Balance() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// IsSpinning reports whether a spin is in flight.
func (s *Session) IsSpinning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spinning
}

func totalStaked(bets []PlacedBet) float64 {
	var t float64
	for _, b := range bets {
		t += b.Amount
	}
	return t
}
