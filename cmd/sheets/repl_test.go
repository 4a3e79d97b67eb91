package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/broyeztony/sheets/sheets"
)

func newTestState(t *testing.T) *replState {
	t.Helper()
	wb := sheets.NewWorkbook()
	if _, _, err := wb.NewSheet("Sheet1"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	return &replState{wb: wb, current: "Sheet1"}
}

func TestDispatchSetAndGetCell(t *testing.T) {
	st := newTestState(t)
	var out bytes.Buffer

	if err := dispatch(st, &out, "A1 5"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := dispatch(st, &out, "A2 =A1+2"); err != nil {
		t.Fatalf("set formula: %v", err)
	}
	out.Reset()
	if err := dispatch(st, &out, ":get A2"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "7" {
		t.Fatalf("expected 7, got %q", got)
	}
}

func TestDispatchNewSheetSwitchesCurrent(t *testing.T) {
	st := newTestState(t)
	var out bytes.Buffer
	if err := dispatch(st, &out, ":new-sheet Budget"); err != nil {
		t.Fatalf("new-sheet: %v", err)
	}
	if st.current != "Budget" {
		t.Fatalf("expected current sheet Budget, got %q", st.current)
	}
}

func TestDispatchUseUnknownSheet(t *testing.T) {
	st := newTestState(t)
	var out bytes.Buffer
	if err := dispatch(st, &out, ":use Nope"); err == nil {
		t.Fatalf("expected error for unknown sheet")
	}
}

func TestDispatchDeleteCurrentSheetFallsBackToFirstSheet(t *testing.T) {
	st := newTestState(t)
	var out bytes.Buffer
	if err := dispatch(st, &out, ":new-sheet Other"); err != nil {
		t.Fatalf("new-sheet: %v", err)
	}
	if err := dispatch(st, &out, ":use Sheet1"); err != nil {
		t.Fatalf("use: %v", err)
	}
	if err := dispatch(st, &out, ":del-sheet Sheet1"); err != nil {
		t.Fatalf("del-sheet: %v", err)
	}
	if st.current != "Other" {
		t.Fatalf("expected current sheet to fall back to Other, got %q", st.current)
	}
}

func TestDispatchExtentReportsUsedRange(t *testing.T) {
	st := newTestState(t)
	var out bytes.Buffer
	if err := dispatch(st, &out, "C3 5"); err != nil {
		t.Fatalf("set: %v", err)
	}
	out.Reset()
	if err := dispatch(st, &out, ":extent"); err != nil {
		t.Fatalf("extent: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "3x3" {
		t.Fatalf("expected 3x3, got %q", got)
	}
}

func TestDispatchSaveAndLoadRoundTrip(t *testing.T) {
	st := newTestState(t)
	var out bytes.Buffer
	if err := dispatch(st, &out, "A1 hello"); err != nil {
		t.Fatalf("set: %v", err)
	}
	path := t.TempDir() + "/wb.json"
	if err := dispatch(st, &out, ":save "+path); err != nil {
		t.Fatalf("save: %v", err)
	}

	st2 := newTestState(t)
	if err := dispatch(st2, &out, ":load "+path); err != nil {
		t.Fatalf("load: %v", err)
	}
	out.Reset()
	if err := dispatch(st2, &out, ":get A1"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "hello" {
		t.Fatalf("expected hello, got %q", got)
	}
}
