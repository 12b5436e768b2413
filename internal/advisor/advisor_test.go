package advisor

import (
	"testing"

	"github.com/spinroom/roulette-sim-go/internal/roulette"
)

func TestAdviseNoHistory(t *testing.T) {
	rec := Advise(roulette.Bet{Kind: roulette.BetRed}, nil)
	if rec.Signal != SignalNeutral {
		t.Errorf("Signal = %q, want neutral", rec.Signal)
	}
	if rec.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0", rec.Confidence)
	}
	if rec.Reason != "no spins yet" {
		t.Errorf("Reason = %q", rec.Reason)
	}
}

func TestAdviseDue(t *testing.T) {
	// Red with five straight black outcomes.
	recent := []roulette.Pocket{26, 28, 29, 31, 33}
	rec := Advise(roulette.Bet{Kind: roulette.BetRed}, recent)
	if rec.Signal != SignalDue {
		t.Fatalf("Signal = %q, want due", rec.Signal)
	}
	if rec.Confidence <= 0 || rec.Confidence > 1 {
		t.Errorf("Confidence = %v, want in (0,1]", rec.Confidence)
	}
}

func TestAdviseHot(t *testing.T) {
	// Red hitting 4 of 5 clears the expected-plus-one bar (18/37*5 ≈ 2.43).
	recent := []roulette.Pocket{1, 3, 5, 26, 7}
	rec := Advise(roulette.Bet{Kind: roulette.BetRed}, recent)
	if rec.Signal != SignalHot {
		t.Fatalf("Signal = %q, want hot", rec.Signal)
	}
	if rec.Confidence != 0.8 {
		t.Errorf("Confidence = %v, want 0.8", rec.Confidence)
	}
}

func TestAdviseNeutralMiddleGround(t *testing.T) {
	// Red hitting 2 of 5 is close to expectation.
	recent := []roulette.Pocket{1, 3, 26, 28, 29}
	rec := Advise(roulette.Bet{Kind: roulette.BetRed}, recent)
	if rec.Signal != SignalNeutral {
		t.Fatalf("Signal = %q, want neutral", rec.Signal)
	}
}

func TestAdviseShortHistoryNeverDue(t *testing.T) {
	// Misses with fewer than 3 recorded spins stay neutral.
	recent := []roulette.Pocket{26, 28}
	rec := Advise(roulette.Bet{Kind: roulette.BetRed}, recent)
	if rec.Signal == SignalDue {
		t.Fatalf("Signal = due with only %d spins", len(recent))
	}
}

func TestAdviseStraightRepeatIsHot(t *testing.T) {
	// A straight number repeating twice in 5 spins dwarfs the 5/37
	// expectation; a single hit stays neutral.
	twice := []roulette.Pocket{17, 2, 17, 6, 8}
	rec := Advise(roulette.Bet{Kind: roulette.BetStraight, Number: 17}, twice)
	if rec.Signal != SignalHot {
		t.Fatalf("Signal = %q, want hot", rec.Signal)
	}

	once := []roulette.Pocket{17, 2, 4, 6, 8}
	rec = Advise(roulette.Bet{Kind: roulette.BetStraight, Number: 17}, once)
	if rec.Signal != SignalNeutral {
		t.Fatalf("Signal = %q, want neutral", rec.Signal)
	}
}
