package bindings

import (
	"path/filepath"
	"testing"

	"github.com/spinroom/roulette-sim-go/internal/session"
)

func testTableModule(t *testing.T) *TableModule {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "bindings_test.db")
	tm, err := NewTableModule(dbPath, 1000)
	if err != nil {
		t.Fatalf("NewTableModule: %v", err)
	}
	t.Cleanup(func() { tm.Store().Close() })
	return tm
}

// Module methods must work without a Wails context; the notifier guards
// keep event emission inert.
func TestTableModuleWithoutContext(t *testing.T) {
	tm := testTableModule(t)

	if err := tm.SelectBet("red", 0); err != nil {
		t.Fatalf("SelectBet: %v", err)
	}
	if err := tm.PlaceBet(); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	snap := tm.GetTableState()
	if len(snap.PlacedBets) != 1 {
		t.Fatalf("PlacedBets = %d, want 1", len(snap.PlacedBets))
	}
	if err := tm.ResetBets(); err != nil {
		t.Fatalf("ResetBets: %v", err)
	}
}

func TestSelectBetRejectsUnknownKind(t *testing.T) {
	tm := testTableModule(t)
	if err := tm.SelectBet("corner", 0); err == nil {
		t.Fatal("SelectBet(corner) succeeded, want error")
	}
}

func TestUpdateBetAmountParsing(t *testing.T) {
	tm := testTableModule(t)
	if err := tm.SelectBet("red", 0); err != nil {
		t.Fatalf("SelectBet: %v", err)
	}

	cases := []struct {
		amount string
		ok     bool
	}{
		{"25", true},
		{"12.50", true},
		{"0.01", true},
		{"12.505", false},
		{"0", false},
		{"-10", false},
		{"abc", false},
		{"", false},
	}
	for _, tc := range cases {
		err := tm.UpdateBetAmount(tc.amount)
		if tc.ok && err != nil {
			t.Errorf("UpdateBetAmount(%q) = %v, want nil", tc.amount, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("UpdateBetAmount(%q) = nil, want error", tc.amount)
		}
	}

	if got := tm.GetTableState().BetAmount; got != 0.01 {
		t.Errorf("BetAmount = %v, want last accepted 0.01", got)
	}
}

func TestChipButtons(t *testing.T) {
	tm := testTableModule(t)
	if err := tm.IncreaseChip(); err != nil {
		t.Fatalf("IncreaseChip: %v", err)
	}
	if got := tm.GetTableState().ChipAmount; got != 20 {
		t.Errorf("ChipAmount = %v, want 20", got)
	}
	if err := tm.DecreaseChip(); err != nil {
		t.Fatalf("DecreaseChip: %v", err)
	}
	if got := tm.GetTableState().ChipAmount; got != 10 {
		t.Errorf("ChipAmount = %v, want 10", got)
	}
}

func TestSpinWithoutBetsSurfacesError(t *testing.T) {
	tm := testTableModule(t)
	if err := tm.Spin(); err != session.ErrNoBetsPlaced {
		t.Fatalf("Spin = %v, want ErrNoBetsPlaced", err)
	}
}
