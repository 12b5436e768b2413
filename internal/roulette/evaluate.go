package roulette

// Bet is the evaluator's view of a wager: a kind plus, for straight bets,
// the chosen pocket number.
type Bet struct {
	Kind   BetKind
	Number Pocket
}

// Wins reports whether the bet wins against the drawn pocket. It is pure
// and deterministic: no randomness, no mutation, no global state. Zero
// loses every bet except a straight bet on zero itself.
func Wins(b Bet, pocket Pocket) bool {
	switch b.Kind {
	case BetStraight:
		return b.Number == pocket
	case BetRed:
		return pocket.IsRed()
	case BetBlack:
		return pocket.IsBlack()
	case BetOdd:
		return pocket.IsOdd()
	case BetEven:
		return pocket.IsEven()
	case BetDozen1:
		return pocket.Dozen() == 1
	case BetDozen2:
		return pocket.Dozen() == 2
	case BetDozen3:
		return pocket.Dozen() == 3
	case BetColumn1:
		return pocket.Column() == 1
	case BetColumn2:
		return pocket.Column() == 2
	case BetColumn3:
		return pocket.Column() == 3
	default:
		panic("roulette: unknown bet kind " + string(b.Kind))
	}
}
