package autoplay

import "math"

// RunStats tracks per-run betting statistics for the script engine. These
// are separate from the table session's lifetime stats: resetstats() clears
// them without touching the table.
type RunStats struct {
	Spins    int     `json:"spins"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	Wagered  float64 `json:"wagered"`
	Profit   float64 `json:"profit"`
	Balance  float64 `json:"balance"`
	StartBal float64 `json:"startBal"`

	WinStreak  int `json:"winStreak"`
	LoseStreak int `json:"loseStreak"`
	// Positive = win streak, negative = lose streak.
	CurrentStreak int `json:"currentStreak"`

	HighestStreak int     `json:"highestStreak"`
	LowestStreak  int     `json:"lowestStreak"`
	HighestBet    float64 `json:"highestBet"`
	HighestProfit float64 `json:"highestProfit"`
	LowestProfit  float64 `json:"lowestProfit"`
}

// NewRunStats creates a RunStats with a starting balance.
func NewRunStats(startBalance float64) *RunStats {
	return &RunStats{
		Balance:  startBalance,
		StartBal: startBalance,
	}
}

// Reset clears all stats and sets the starting balance to current.
func (s *RunStats) Reset() {
	bal := s.Balance
	*s = RunStats{
		Balance:  bal,
		StartBal: bal,
	}
}

// SpinOutcome is the outcome of one scripted spin for statistics tracking.
type SpinOutcome struct {
	Amount float64 `json:"amount"`
	Payout float64 `json:"payout"`
	Win    bool    `json:"win"`
	Pocket int     `json:"pocket"`
	Color  string  `json:"color"`
}

// RecordSpin processes a completed spin and updates all statistics.
func (s *RunStats) RecordSpin(result SpinOutcome) {
	s.Spins++

	profit := result.Payout - result.Amount
	s.Profit += profit
	s.Wagered += result.Amount
	s.Balance += profit

	if result.Win {
		s.Wins++
		s.WinStreak++
		s.LoseStreak = 0
		s.CurrentStreak = s.WinStreak
	} else {
		s.Losses++
		s.LoseStreak++
		s.WinStreak = 0
		s.CurrentStreak = -s.LoseStreak
	}

	if result.Amount > s.HighestBet {
		s.HighestBet = result.Amount
	}
	if s.Profit > s.HighestProfit {
		s.HighestProfit = s.Profit
	}
	if s.Profit < s.LowestProfit {
		s.LowestProfit = s.Profit
	}
	if s.CurrentStreak > s.HighestStreak {
		s.HighestStreak = s.CurrentStreak
	}
	if s.CurrentStreak < s.LowestStreak {
		s.LowestStreak = s.CurrentStreak
	}
}

// ProfitPercent returns profit as a percentage of starting balance.
func (s *RunStats) ProfitPercent() float64 {
	if s.StartBal == 0 {
		return 0
	}
	return (s.Profit / math.Abs(s.StartBal)) * 100
}

// ChartPoint is a single data point for the profit chart.
type ChartPoint struct {
	SpinNumber int     `json:"x"`
	Profit     float64 `json:"y"`
	Win        bool    `json:"win"`
}

// ChartBuffer holds a rolling window of chart data points.
type ChartBuffer struct {
	Points []ChartPoint `json:"points"`
	Max    int          `json:"-"`
}

// NewChartBuffer creates a chart buffer with the given max capacity.
func NewChartBuffer(max int) *ChartBuffer {
	if max <= 0 {
		max = 50
	}
	return &ChartBuffer{
		Points: make([]ChartPoint, 0, max),
		Max:    max,
	}
}

// Push adds a data point. When the buffer exceeds twice Max, it decimates
// by keeping every other point (preserving first and last) so long runs
// keep a reasonable chart size.
func (cb *ChartBuffer) Push(p ChartPoint) {
	cb.Points = append(cb.Points, p)

	if len(cb.Points) >= cb.Max*2 {
		decimated := make([]ChartPoint, 0, cb.Max)
		decimated = append(decimated, cb.Points[0])
		for i := 2; i < len(cb.Points)-1; i += 2 {
			decimated = append(decimated, cb.Points[i])
		}
		decimated = append(decimated, cb.Points[len(cb.Points)-1])
		cb.Points = decimated
	}
}

// Reset clears all chart data.
func (cb *ChartBuffer) Reset() {
	cb.Points = cb.Points[:0]
}
