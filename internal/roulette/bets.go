package roulette

import "fmt"

// BetKind identifies a supported wager. The side of an even-money or group
// bet is encoded in the kind itself, mirroring the table buttons.
type BetKind string

const (
	BetStraight BetKind = "straight"
	BetRed      BetKind = "red"
	BetBlack    BetKind = "black"
	BetOdd      BetKind = "odd"
	BetEven     BetKind = "even"
	BetDozen1   BetKind = "dozen1"
	BetDozen2   BetKind = "dozen2"
	BetDozen3   BetKind = "dozen3"
	BetColumn1  BetKind = "col1"
	BetColumn2  BetKind = "col2"
	BetColumn3  BetKind = "col3"
)

// AllKinds lists every supported bet kind, in table-layout order.
var AllKinds = []BetKind{
	BetStraight,
	BetRed, BetBlack, BetOdd, BetEven,
	BetDozen1, BetDozen2, BetDozen3,
	BetColumn1, BetColumn2, BetColumn3,
}

// Payout multipliers per kind. A winning bet pays amount * multiplier;
// the stake itself is consumed when the wheel spins.
var multipliers = map[BetKind]int{
	BetStraight: 35,
	BetRed:      1,
	BetBlack:    1,
	BetOdd:      1,
	BetEven:     1,
	BetDozen1:   2,
	BetDozen2:   2,
	BetDozen3:   2,
	BetColumn1:  2,
	BetColumn2:  2,
	BetColumn3:  2,
}

// Multiplier returns the payout multiplier for the given kind. An unknown
// kind is a programming error, not a user condition, and panics.
func Multiplier(kind BetKind) int {
	m, ok := multipliers[kind]
	if !ok {
		panic(fmt.Sprintf("roulette: unknown bet kind %q", kind))
	}
	return m
}

// KnownKind reports whether kind is part of the catalog.
func KnownKind(kind BetKind) bool {
	_, ok := multipliers[kind]
	return ok
}

// NeedsNumber reports whether the kind requires a chosen pocket number.
func (k BetKind) NeedsNumber() bool {
	return k == BetStraight
}
