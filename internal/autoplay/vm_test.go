package autoplay

import (
	"strings"
	"testing"
)

func TestVMLogBuffer(t *testing.T) {
	vm := NewVM()
	if err := vm.Execute(`log("hello", 42); console.log("world")`); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	logs := vm.GetLogs()
	if len(logs) != 2 {
		t.Fatalf("len(logs) = %d, want 2", len(logs))
	}
	if logs[0].Message != "hello 42" {
		t.Errorf("log[0] = %q", logs[0].Message)
	}
	if logs[1].Message != "world" {
		t.Errorf("log[1] = %q", logs[1].Message)
	}

	vm.ClearLogs()
	if len(vm.GetLogs()) != 0 {
		t.Error("logs not cleared")
	}
}

func TestVMStopFlag(t *testing.T) {
	vm := NewVM()
	if vm.IsStopRequested() {
		t.Fatal("stop requested before any script ran")
	}
	if err := vm.Execute(`stop()`); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !vm.IsStopRequested() {
		t.Error("stop() did not set the flag")
	}
}

func TestVMSleepSetsVariable(t *testing.T) {
	vm := NewVM()
	if err := vm.Execute(`sleep(250)`); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := vm.GetSleepTime(); got != 250 {
		t.Errorf("sleeptime = %d, want 250", got)
	}
	vm.ResetSleepTime()
	if got := vm.GetSleepTime(); got != 0 {
		t.Errorf("sleeptime after reset = %d, want 0", got)
	}
}

func TestVMBlockedGlobals(t *testing.T) {
	vm := NewVM()
	for _, src := range []string{
		`require("fs")`,
		`fetch("http://example.com")`,
		`eval("1+1")`,
		`new Function("return 1")()`,
	} {
		if err := vm.Execute(src); err == nil {
			t.Errorf("Execute(%q) succeeded, want sandbox error", src)
		}
	}
}

func TestVMCallDobet(t *testing.T) {
	vm := NewVM()
	if err := vm.CallDobet(); err == nil || !strings.Contains(err.Error(), "not defined") {
		t.Errorf("CallDobet without script = %v", err)
	}

	if err := vm.Execute(`dobet = function() { log("spun") }`); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !vm.HasDobet() {
		t.Fatal("HasDobet = false")
	}
	if err := vm.CallDobet(); err != nil {
		t.Fatalf("CallDobet: %v", err)
	}
	if logs := vm.GetLogs(); len(logs) != 1 || logs[0].Message != "spun" {
		t.Errorf("logs = %+v", logs)
	}
}

func TestVMBetKindConstants(t *testing.T) {
	vm := NewVM()
	vars := NewVariables(NewRunStats(1000))
	vm.SetVariables(vars)

	if err := vm.Execute(`
		betkind = BLACK
		if (payoutfor(STRAIGHT) !== 35) throw "straight multiplier"
		if (payoutfor(DOZEN2) !== 2) throw "dozen multiplier"
		if (payoutfor("corner") !== 0) throw "unknown kind"
	`); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	vm.SyncVariables(vars)
	if vars.BetKind != "black" {
		t.Errorf("BetKind = %q, want black", vars.BetKind)
	}
}

func TestVMWheelHelpers(t *testing.T) {
	vm := NewVM()
	if err := vm.Execute(`
		if (!isred(32)) throw "32 is red"
		if (!isblack(26)) throw "26 is black"
		if (isred(0) || isblack(0)) throw "zero is green"
		if (pocketcolor(0) !== "green") throw "zero color"
		if (pocketcolor(99) !== "") throw "invalid pocket color"
		if (dozenof(17) !== 2) throw "17 is second dozen"
		if (dozenof(0) !== 0) throw "zero has no dozen"
		if (columnof(9) !== 3) throw "9 is third column"
		if (columnof(7) !== 1) throw "7 is first column"
	`); err != nil {
		t.Fatalf("Execute: %v", err)
	}
}

func TestVMVariableRoundTrip(t *testing.T) {
	vm := NewVM()
	vars := NewVariables(NewRunStats(1000))
	vars.BetKind = "black"
	vars.NextBet = 25
	vm.SetVariables(vars)

	if err := vm.Execute(`
		nextbet = nextbet * 2
		betkind = "dozen2"
		betnumber = 14
	`); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	vm.SyncVariables(vars)

	if vars.NextBet != 50 {
		t.Errorf("NextBet = %v, want 50", vars.NextBet)
	}
	if vars.BetKind != "dozen2" {
		t.Errorf("BetKind = %q, want dozen2", vars.BetKind)
	}
	if vars.BetNumber != 14 {
		t.Errorf("BetNumber = %d, want 14", vars.BetNumber)
	}
}
