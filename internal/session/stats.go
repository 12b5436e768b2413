package session

// Stats accumulates session-level tallies. Updated exactly once per
// resolved spin. Wins and losses count spin events, not individual bets: a
// spin with at least one winning bet adds one win, a spin with at least one
// losing bet adds one loss, and a mixed spin adds both. TotalBets counts
// individual placed bets, so TotalBets and Wins+Losses drift apart on
// multi-bet spins. The frontend displays these tallies as-is.
type Stats struct {
	Wins      int     `json:"wins"`
	Losses    int     `json:"losses"`
	TotalBets int     `json:"totalBets"`
	TotalWon  float64 `json:"totalAmountWon"`
	TotalLost float64 `json:"totalAmountLost"`

	// Spins counts resolved spins exactly once each. Not part of the
	// frontend snapshot; the history store uses it for session totals.
	Spins int `json:"-"`
}

// recordSpin folds one resolved spin into the tallies.
func (s *Stats) recordSpin(betCount int, anyWin, anyLoss bool, payout, lost float64) {
	s.Spins++
	s.TotalBets += betCount
	if anyWin {
		s.Wins++
		s.TotalWon += payout
	}
	if anyLoss {
		s.Losses++
		s.TotalLost += lost
	}
}
