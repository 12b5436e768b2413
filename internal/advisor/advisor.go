// Package advisor produces the non-binding betting hint shown next to the
// currently selected bet. It inspects only the recent outcomes and the
// selection; it never reads or writes balance or statistics, so the payout
// path stays auditable independent of this heuristic.
package advisor

import (
	"fmt"

	"github.com/spinroom/roulette-sim-go/internal/roulette"
)

// Signal is the coarse advice level.
type Signal string

const (
	SignalHot     Signal = "hot"
	SignalDue     Signal = "due"
	SignalNeutral Signal = "neutral"
)

// Recommendation is the hint displayed alongside a selected bet.
type Recommendation struct {
	Signal     Signal  `json:"signal"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Advise rates the selected bet against the recent outcomes (newest first).
// It is a streak heuristic, not a prediction: a bet that kept hitting is
// "hot", one that has not hit at all lately is "due", anything else is
// "neutral". With no history the advice is always neutral.
func Advise(bet roulette.Bet, recent []roulette.Pocket) *Recommendation {
	if len(recent) == 0 {
		return &Recommendation{
			Signal:     SignalNeutral,
			Confidence: 0,
			Reason:     "no spins yet",
		}
	}

	hits := 0
	for _, p := range recent {
		if roulette.Wins(bet, p) {
			hits++
		}
	}

	expected := expectedHits(bet.Kind, len(recent))

	switch {
	case hits == 0 && len(recent) >= 3:
		return &Recommendation{
			Signal:     SignalDue,
			Confidence: clamp(expected / float64(len(recent))),
			Reason:     fmt.Sprintf("no hit in the last %d spins", len(recent)),
		}
	case float64(hits) >= expected+1:
		return &Recommendation{
			Signal:     SignalHot,
			Confidence: clamp(float64(hits) / float64(len(recent))),
			Reason:     fmt.Sprintf("hit %d of the last %d spins", hits, len(recent)),
		}
	default:
		return &Recommendation{
			Signal:     SignalNeutral,
			Confidence: 0.5,
			Reason:     fmt.Sprintf("hit %d of the last %d spins", hits, len(recent)),
		}
	}
}

// expectedHits is the mean number of wins over n fair spins for the kind.
func expectedHits(kind roulette.BetKind, n int) float64 {
	var winning float64
	switch kind {
	case roulette.BetStraight:
		winning = 1
	case roulette.BetRed, roulette.BetBlack, roulette.BetOdd, roulette.BetEven:
		winning = 18
	default:
		winning = 12
	}
	return winning / 37 * float64(n)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
