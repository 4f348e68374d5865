package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Garsondee/Small-Subways/internal/metro"
)

func TestFirstTick(t *testing.T) {
	entries := []metro.Event{
		{Tick: 0, Category: "station", Key: "spawn"},
		{Tick: 120, Category: "station", Key: "spawn"},
		{Tick: 400, Category: "passenger", Key: "deliver"},
	}
	if got := firstTick(entries, "station", "spawn", 1); got != 120 {
		t.Fatalf("expected 120, got %d", got)
	}
	if got := firstTick(entries, "station", "spawn", 0); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := firstTick(entries, "passenger", "board", 0); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}

func TestAvgTickString(t *testing.T) {
	if got := avgTickString(nil); got != "n/a" {
		t.Fatalf("expected n/a, got %s", got)
	}
	if got := avgTickString([]int{100, 200}); got != "150.0" {
		t.Fatalf("expected 150.0, got %s", got)
	}
}

func TestPercent(t *testing.T) {
	if got := percent(1, 4); got != 25 {
		t.Fatalf("expected 25, got %.1f", got)
	}
	if got := percent(3, 0); got != 0 {
		t.Fatalf("expected 0 for an empty whole, got %.1f", got)
	}
}

func TestRunSession_ScriptedNetworkDelivers(t *testing.T) {
	o := runOptions{ticks: 20_000, attachEvery: 250, trainEvery: 2500}
	h := metro.NewHarness(
		metro.WithSeed(42),
		metro.WithSpawning(true, true),
		metro.WithStartStations(metro.ShapeCircle, metro.ShapeTriangle, metro.ShapeSquare),
	)
	rs := runSession(h, 1, o)
	if h.Sim.CurrentTick() != 20_000 {
		t.Fatalf("expected 20000 ticks, got %d", h.Sim.CurrentTick())
	}
	if rs.firstStationTick < 120 {
		t.Fatalf("expected the first spawned station after the start set, got %d", rs.firstStationTick)
	}
	if rs.score > rs.spawned {
		t.Fatalf("delivered %d of only %d spawned", rs.score, rs.spawned)
	}
	if rs.trains == 0 {
		t.Fatal("expected trains running on the scripted lines")
	}
	if rs.windowSummary == nil {
		t.Fatal("expected reporter samples")
	}
}

func TestBusiestLine(t *testing.T) {
	h := metro.NewHarness(
		metro.WithStation(0, 10, 10, metro.ShapeCircle),
		metro.WithStation(1, 20, 10, metro.ShapeSquare),
		metro.WithStation(2, 30, 10, metro.ShapeStar),
		metro.WithLine(0, false, 0, 1),
		metro.WithLine(2, false, 0, 1, 2),
	)
	if got := busiestLine(h.Sim); got != 2 {
		t.Fatalf("expected line 2, got %d", got)
	}
}

func TestLevelsCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := rootCmd(&out)
	cmd.SetArgs([]string{"levels"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected 7 levels, got %d:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[1], "London") {
		t.Fatalf("expected London second, got %q", lines[1])
	}
}

func TestRunCommand_RejectsBadFlags(t *testing.T) {
	cases := [][]string{
		{"run", "--runs", "0"},
		{"run", "--level", "Atlantis"},
		{"run", "--policy", "greedy"},
	}
	for _, args := range cases {
		var out bytes.Buffer
		cmd := rootCmd(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(args)
		if err := cmd.Execute(); err == nil {
			t.Fatalf("%v: expected error", args)
		}
	}
}

func TestRunCommand_PrintsReport(t *testing.T) {
	var out bytes.Buffer
	cmd := rootCmd(&out)
	cmd.SetArgs([]string{"run", "--runs", "2", "--ticks", "3000", "--level", "waterloo"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := out.String()
	for _, want := range []string{"level=Waterloo", "--- Run 1 (seed=42", "--- Run 2 (seed=43", "=== Aggregate ===", "runs=2"} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %q in output:\n%s", want, s)
		}
	}
}
