package roulette

import "testing"

func TestPocketValid(t *testing.T) {
	for p := Pocket(0); p <= 36; p++ {
		if !p.Valid() {
			t.Errorf("Pocket(%d).Valid() = false, want true", p)
		}
	}
	for _, p := range []Pocket{-1, 37, 100} {
		if p.Valid() {
			t.Errorf("Pocket(%d).Valid() = true, want false", p)
		}
	}
}

func TestZeroIsGreenAndNeutral(t *testing.T) {
	z := Pocket(0)
	if z.Color() != ColorGreen {
		t.Errorf("Color() = %q, want green", z.Color())
	}
	if z.IsRed() || z.IsBlack() {
		t.Error("zero must be neither red nor black")
	}
	if z.IsOdd() || z.IsEven() {
		t.Error("zero must be neither odd nor even")
	}
	if z.Dozen() != 0 {
		t.Errorf("Dozen() = %d, want 0", z.Dozen())
	}
	if z.Column() != 0 {
		t.Errorf("Column() = %d, want 0", z.Column())
	}
}

// Every non-zero pocket must land in exactly one color, one parity, one
// dozen, and one column.
func TestClassificationPartitions(t *testing.T) {
	var reds, blacks, odds, evens int
	dozens := map[int]int{}
	columns := map[int]int{}

	for p := Pocket(1); p <= 36; p++ {
		switch {
		case p.IsRed() && p.IsBlack():
			t.Errorf("pocket %d is both red and black", p)
		case p.IsRed():
			reds++
		case p.IsBlack():
			blacks++
		default:
			t.Errorf("pocket %d has no color", p)
		}

		if p.IsOdd() == p.IsEven() {
			t.Errorf("pocket %d parity: odd=%v even=%v", p, p.IsOdd(), p.IsEven())
		}
		if p.IsOdd() {
			odds++
		} else {
			evens++
		}

		dozens[p.Dozen()]++
		columns[p.Column()]++
	}

	if reds != 18 || blacks != 18 {
		t.Errorf("reds = %d, blacks = %d, want 18 each", reds, blacks)
	}
	if odds != 18 || evens != 18 {
		t.Errorf("odds = %d, evens = %d, want 18 each", odds, evens)
	}
	for d := 1; d <= 3; d++ {
		if dozens[d] != 12 {
			t.Errorf("dozen %d has %d pockets, want 12", d, dozens[d])
		}
		if columns[d] != 12 {
			t.Errorf("column %d has %d pockets, want 12", d, columns[d])
		}
	}
}

func TestKnownPocketFacts(t *testing.T) {
	cases := []struct {
		pocket Pocket
		color  Color
		dozen  int
		column int
	}{
		{1, ColorRed, 1, 1},
		{2, ColorBlack, 1, 2},
		{3, ColorRed, 1, 3},
		{10, ColorBlack, 1, 1},
		{12, ColorRed, 1, 3},
		{13, ColorBlack, 2, 1},
		{18, ColorRed, 2, 3},
		{19, ColorRed, 2, 1},
		{24, ColorBlack, 2, 3},
		{25, ColorRed, 3, 1},
		{29, ColorBlack, 3, 2},
		{36, ColorRed, 3, 3},
	}
	for _, tc := range cases {
		if got := tc.pocket.Color(); got != tc.color {
			t.Errorf("Pocket(%d).Color() = %q, want %q", tc.pocket, got, tc.color)
		}
		if got := tc.pocket.Dozen(); got != tc.dozen {
			t.Errorf("Pocket(%d).Dozen() = %d, want %d", tc.pocket, got, tc.dozen)
		}
		if got := tc.pocket.Column(); got != tc.column {
			t.Errorf("Pocket(%d).Column() = %d, want %d", tc.pocket, got, tc.column)
		}
	}
}
