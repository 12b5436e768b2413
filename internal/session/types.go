package session

import (
	"github.com/spinroom/roulette-sim-go/internal/advisor"
	"github.com/spinroom/roulette-sim-go/internal/roulette"
)

// SelectedBet is the transient wager the player is currently composing.
// It exists only between selection and placement.
type SelectedBet struct {
	Kind   roulette.BetKind `json:"kind"`
	Number roulette.Pocket  `json:"number"`
}

// PlacedBet is a committed wager. Immutable once appended; removed only by
// RemoveBet/ResetBets or when a spin resolves.
type PlacedBet struct {
	ID     string           `json:"id"`
	Kind   roulette.BetKind `json:"kind"`
	Number roulette.Pocket  `json:"number"`
	Amount float64          `json:"amount"`
}

// bet converts to the evaluator's view.
func (b PlacedBet) bet() roulette.Bet {
	return roulette.Bet{Kind: b.Kind, Number: b.Number}
}

// SpinResult is the outcome of one resolved spin, with enough detail for
// the frontend to render win/loss feedback without recomputation.
type SpinResult struct {
	Pocket   roulette.Pocket `json:"pocket"`
	Color    roulette.Color  `json:"color"`
	BetCount int             `json:"betCount"`
	Staked   float64         `json:"staked"`
	Payout   float64         `json:"payout"`
	Net      float64         `json:"net"`
	Won      bool            `json:"won"`
	Lost     bool            `json:"lost"`
	Balance  float64         `json:"balance"`
}

// Snapshot is the frontend-facing view of the whole session.
type Snapshot struct {
	SelectedBet      *SelectedBet            `json:"selectedBet"`
	PlacedBets       []PlacedBet             `json:"placedBets"`
	PreviousResults  []roulette.Pocket       `json:"previousResults"`
	IsSpinning       bool                    `json:"isSpinning"`
	ChipAmount       float64                 `json:"chipAmount"`
	BetAmount        float64                 `json:"betAmount"`
	LastSpinResult   *SpinResult             `json:"lastSpinResult"`
	Balance          float64                 `json:"balance"`
	GameStats        Stats                   `json:"gameStats"`
	AIRecommendation *advisor.Recommendation `json:"aiRecommendation"`
	TotalBetAmount   float64                 `json:"totalBetAmount"`
}

// Notifier receives feedback events for the out-of-engine side channel
// (toasts, audio). Implementations must not call back into the session.
type Notifier interface {
	EmitBetPlaced(bet PlacedBet)
	EmitSpinStarted(staked float64, betCount int)
	EmitSpinResult(res SpinResult)
	EmitSpinRejected(reason error, staked, balance float64)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) EmitBetPlaced(PlacedBet)                  {}
func (NopNotifier) EmitSpinStarted(float64, int)             {}
func (NopNotifier) EmitSpinResult(SpinResult)                {}
func (NopNotifier) EmitSpinRejected(error, float64, float64) {}

// SpinRecorder receives resolved spins for external persistence.
// Optional; when nil, nothing is recorded.
type SpinRecorder interface {
	RecordSpin(res SpinResult)
}
