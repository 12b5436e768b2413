// Package roulette implements the European single-zero wheel: pocket
// classification, the supported bet catalog, and the pure win evaluator.
package roulette

// Pocket is a single pocket on a European wheel (0-36).
type Pocket int

const (
	// MinPocket and MaxPocket bound the European wheel.
	MinPocket Pocket = 0
	MaxPocket Pocket = 36
)

// Color is the pocket color. Zero is green; 1-36 follow the standard
// red/black partition.
type Color string

const (
	ColorGreen Color = "green"
	ColorRed   Color = "red"
	ColorBlack Color = "black"
)

// Red pockets: 1,3,5,7,9,12,14,16,18,19,21,23,25,27,30,32,34,36
var redPockets = map[Pocket]struct{}{
	1: {}, 3: {}, 5: {}, 7: {}, 9: {},
	12: {}, 14: {}, 16: {}, 18: {}, 19: {},
	21: {}, 23: {}, 25: {}, 27: {}, 30: {},
	32: {}, 34: {}, 36: {},
}

// Valid reports whether p is a real wheel pocket.
func (p Pocket) Valid() bool {
	return p >= MinPocket && p <= MaxPocket
}

// Color returns green for 0, otherwise red or black per the standard layout.
func (p Pocket) Color() Color {
	if p == 0 {
		return ColorGreen
	}
	if _, ok := redPockets[p]; ok {
		return ColorRed
	}
	return ColorBlack
}

// IsRed reports whether the pocket is red. Zero is neither red nor black.
func (p Pocket) IsRed() bool { return p.Color() == ColorRed }

// IsBlack reports whether the pocket is black.
func (p Pocket) IsBlack() bool { return p.Color() == ColorBlack }

// IsOdd reports odd parity. Zero counts as neither odd nor even.
func (p Pocket) IsOdd() bool { return p != 0 && p%2 == 1 }

// IsEven reports even parity. Zero counts as neither odd nor even.
func (p Pocket) IsEven() bool { return p != 0 && p%2 == 0 }

// Dozen returns 1, 2 or 3 for pockets 1-12, 13-24, 25-36, and 0 for the
// zero pocket, which belongs to no dozen.
func (p Pocket) Dozen() int {
	if p == 0 {
		return 0
	}
	return int((p-1)/12) + 1
}

// Column returns the column (1-3) of the standard 3x12 table layout, and 0
// for the zero pocket. Column 1 holds 1,4,7,...; column 3 holds 3,6,9,...
func (p Pocket) Column() int {
	if p == 0 {
		return 0
	}
	switch p % 3 {
	case 1:
		return 1
	case 2:
		return 2
	default:
		return 3
	}
}
