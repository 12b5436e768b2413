package autoplay

import "github.com/dop251/goja"

// Variables holds the script-visible global state. Scripts steer the next
// wager by assigning nextbet, betkind and betnumber inside dobet().
type Variables struct {
	// Core betting
	Balance     float64 `json:"balance"`
	NextBet     float64 `json:"nextbet"`
	BaseBet     float64 `json:"basebet"`
	PreviousBet float64 `json:"previousbet"`
	Win         bool    `json:"win"`
	Running     bool    `json:"running"`

	// Wager selection
	BetKind   string `json:"betkind"`
	BetNumber int    `json:"betnumber"`

	// Last spin outcome
	Pocket int    `json:"pocket"`
	Color  string `json:"color"`

	// Statistics (pointer, shared with engine)
	Stats *RunStats `json:"-"`

	// Control
	StopOnWin bool `json:"stoponwin"`
	SleepTime int  `json:"sleeptime"`
}

// NewVariables creates a Variables with defaults: 10 on red.
func NewVariables(stats *RunStats) *Variables {
	return &Variables{
		Stats:   stats,
		Balance: stats.Balance,
		NextBet: 10,
		BaseBet: 10,
		BetKind: "red",
	}
}

// injectVariables sets all script globals on the JS runtime. Read-only
// semantics are enforced in syncFromVM rather than at the JS property level.
func injectVariables(vm *goja.Runtime, vars *Variables) {
	vm.Set("balance", vars.Balance)
	vm.Set("nextbet", vars.NextBet)
	vm.Set("basebet", vars.BaseBet)
	vm.Set("previousbet", vars.PreviousBet)
	vm.Set("win", vars.Win)
	vm.Set("running", vars.Running)

	vm.Set("betkind", vars.BetKind)
	vm.Set("betnumber", vars.BetNumber)

	vm.Set("pocket", vars.Pocket)
	vm.Set("color", vars.Color)

	// Statistics aliases
	vm.Set("spins", vars.Stats.Spins)
	vm.Set("wins", vars.Stats.Wins)
	vm.Set("losses", vars.Stats.Losses)
	vm.Set("winstreak", vars.Stats.WinStreak)
	vm.Set("losestreak", vars.Stats.LoseStreak)
	vm.Set("currentstreak", vars.Stats.CurrentStreak)
	vm.Set("profit", vars.Stats.Profit)
	vm.Set("wagered", vars.Stats.Wagered)
	vm.Set("highest_profit", vars.Stats.HighestProfit)
	vm.Set("lowest_profit", vars.Stats.LowestProfit)
	vm.Set("highest_bet", vars.Stats.HighestBet)
	vm.Set("started_bal", vars.Stats.StartBal)

	// Control
	vm.Set("stoponwin", vars.StopOnWin)
	vm.Set("sleeptime", vars.SleepTime)
}

// syncFromVM reads mutable variables back from the JS runtime into vars.
// Only variables scripts are allowed to modify are synced; outcome and
// statistics globals are engine-owned.
func syncFromVM(vm *goja.Runtime, vars *Variables) {
	vars.NextBet = toFloat64(vm.Get("nextbet"))
	vars.BaseBet = toFloat64(vm.Get("basebet"))
	vars.BetKind = toString(vm.Get("betkind"))
	vars.BetNumber = toInt(vm.Get("betnumber"))
	vars.StopOnWin = toBool(vm.Get("stoponwin"))
	vars.SleepTime = toInt(vm.Get("sleeptime"))
}

// --- Conversion helpers ---

func toFloat64(v goja.Value) float64 {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return 0
	}
	return v.ToFloat()
}

func toInt(v goja.Value) int {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return 0
	}
	return int(v.ToInteger())
}

func toBool(v goja.Value) bool {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return false
	}
	return v.ToBoolean()
}

func toString(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return v.String()
}
