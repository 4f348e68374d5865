package metro

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewSimulation_PlacesStartStations(t *testing.T) {
	sim := NewSimulation(DefaultSimConfig(), DefaultLevels()[1], nil, 42)
	var shapes []Shape
	for _, st := range sim.Stations() {
		shapes = append(shapes, st.Shape())
	}
	want := []Shape{ShapeCircle, ShapeTriangle, ShapeSquare}
	if diff := cmp.Diff(want, shapes); diff != "" {
		t.Fatalf("start stations (-want +got):\n%s", diff)
	}
	if got := sim.UnlockedLines(); got != 3 {
		t.Fatalf("expected 3 unlocked lines, got %d", got)
	}
	if len(sim.Lines()) != 7 {
		t.Fatalf("expected 7 lines in the palette, got %d", len(sim.Lines()))
	}
	if sim.Grid.OpenCount() >= NewGrid().OpenCount() {
		t.Fatal("expected start stations to block cells")
	}
}

func TestSimulation_PauseFreezesEverything(t *testing.T) {
	h := twoStationLine(
		WithSpawning(true, true),
		WithPassenger(0, ShapeSquare),
	)
	h.RunTicks(200)
	h.Sim.SetTickRate(0)
	before := h.Sim.Snapshot()
	queued := h.Station(0).QueueLen() + h.Station(1).QueueLen()

	h.RunTicks(500)
	h.Sim.Advance()
	after := h.Sim.Snapshot()
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("paused simulation changed (-before +after):\n%s", diff)
	}
	if n := h.Station(0).QueueLen() + h.Station(1).QueueLen(); n != queued {
		t.Fatalf("expected %d queued while paused, got %d", queued, n)
	}

	h.Sim.SetTickRate(1)
	h.RunTicks(1)
	if h.Sim.CurrentTick() != 201 {
		t.Fatalf("expected tick 201 after resuming, got %d", h.Sim.CurrentTick())
	}
}

func TestSimulation_DwellSurvivesPause(t *testing.T) {
	h := twoStationLine()
	tr := h.Train(0)
	h.RunUntil(func(h *Harness) bool { return tr.Waiting() }, 1000)
	h.RunTicks(50)
	h.Sim.SetTickRate(0)
	h.RunTicks(1000)
	h.Sim.SetTickRate(1)
	h.RunTicks(49)
	if !tr.Waiting() {
		t.Fatal("expected the dwell timer to have paused")
	}
	h.RunTicks(1)
	if tr.Waiting() {
		t.Fatal("expected the train to leave after 100 running ticks")
	}
}

func TestSimulation_AdvanceRunsTickRate(t *testing.T) {
	h := NewHarness()
	h.Sim.SetTickRate(2)
	h.Sim.Advance()
	if h.Sim.CurrentTick() != 2 {
		t.Fatalf("expected tick 2, got %d", h.Sim.CurrentTick())
	}
	h.Sim.SetTickRate(9)
	if h.Sim.TickRate() != 2 {
		t.Fatalf("expected tick rate clamped to 2, got %d", h.Sim.TickRate())
	}
	h.Sim.SetTickRate(-1)
	if h.Sim.TickRate() != 0 {
		t.Fatalf("expected tick rate clamped to 0, got %d", h.Sim.TickRate())
	}
}

func TestSimulation_WeeklyUnlocks(t *testing.T) {
	h := NewHarness(WithConfig(func(c *SimConfig) { c.WeekTicks = 100 }))
	if h.Sim.Line(3) != nil {
		t.Fatal("line 3 should start locked")
	}
	st, _ := h.Sim.PlaceStation(10, 10, ShapeCircle)
	if h.Sim.AddStationToLine(3, st, false, false) {
		t.Fatal("expected locked line to refuse stations")
	}
	h.RunTicks(100)
	if h.Sim.UnlockedLines() != 4 || h.Sim.Line(3) == nil {
		t.Fatalf("expected 4 unlocked lines, got %d", h.Sim.UnlockedLines())
	}
	h.RunTicks(1000)
	if h.Sim.UnlockedLines() != 7 {
		t.Fatalf("expected all 7 lines unlocked, got %d", h.Sim.UnlockedLines())
	}
	if n := h.Sim.Log.Count(catLine, "unlock"); n != 4 {
		t.Fatalf("expected 4 unlock events, got %d", n)
	}
}

func TestSimulation_SelectLine(t *testing.T) {
	h := NewHarness()
	if !h.Sim.SelectLine(2) || h.Sim.CurrentLine().ID() != 2 {
		t.Fatal("expected line 2 selected")
	}
	if h.Sim.SelectLine(5) {
		t.Fatal("expected locked line selection to fail")
	}
	if h.Sim.CurrentLine().ID() != 2 {
		t.Fatal("failed selection changed the current line")
	}
}

func TestSimulation_PlaceStationRespectsGrid(t *testing.T) {
	h := NewHarness()
	if _, ok := h.Sim.PlaceStation(0, 0, ShapeCircle); ok {
		t.Fatal("expected margin placement to fail")
	}
	if _, ok := h.Sim.PlaceStation(10, 10, ShapeCircle); !ok {
		t.Fatal("expected placement to succeed")
	}
	if _, ok := h.Sim.PlaceStation(12, 11, ShapeSquare); ok {
		t.Fatal("expected placement inside a buffer to fail")
	}
}

func TestSimulation_StationAt(t *testing.T) {
	h := twoStationLine()
	p := h.Station(1).Position().Add(5, -4)
	if got := h.Sim.StationAt(p, 12); got != h.Station(1) {
		t.Fatalf("expected S1, got %v", got)
	}
	if got := h.Sim.StationAt(Point{0, 0}, 12); got != nil {
		t.Fatalf("expected nothing near the origin, got %s", got.Label())
	}
}

func TestSimulation_ResetRestoresStart(t *testing.T) {
	sim := NewSimulation(DefaultSimConfig(), DefaultLevels()[0], nil, 7)
	start := sim.Snapshot()
	open := sim.Grid.OpenCount()

	for i := 0; i < 5000; i++ {
		sim.Tick()
	}
	sim.AddStationToLine(0, sim.Stations()[0], false, false)
	sim.AddStationToLine(0, sim.Stations()[1], false, false)
	sim.Reset()

	if diff := cmp.Diff(start, sim.Snapshot()); diff != "" {
		t.Fatalf("reset state differs (-start +reset):\n%s", diff)
	}
	if sim.Grid.OpenCount() != open {
		t.Fatalf("expected open count %d after reset, got %d", open, sim.Grid.OpenCount())
	}
}

func TestSimulation_SameSeedSameRun(t *testing.T) {
	run := func() Snapshot {
		h := NewHarness(
			WithSeed(99),
			WithSpawning(true, true),
			WithStartStations(ShapeCircle, ShapeTriangle, ShapeSquare),
		)
		for i := 0; i < 40; i++ {
			h.AttachNewStations(i%2 == 0)
			h.RunTicks(250)
		}
		return h.Sim.Snapshot()
	}
	a, b := run(), run()
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("runs diverged (-a +b):\n%s", diff)
	}
	if a.Tick != 10_000 {
		t.Fatalf("expected tick 10000, got %d", a.Tick)
	}
}

func TestSimulation_ShapesPresentFirstAppearance(t *testing.T) {
	h := NewHarness(
		WithStation(0, 10, 10, ShapeStar),
		WithStation(1, 20, 10, ShapeCircle),
		WithStation(2, 30, 10, ShapeStar),
		WithStation(3, 40, 10, ShapeGem),
	)
	want := []Shape{ShapeStar, ShapeCircle, ShapeGem}
	if diff := cmp.Diff(want, h.Sim.ShapesPresent()); diff != "" {
		t.Fatalf("shapes (-want +got):\n%s", diff)
	}
}

func TestSimulation_AddTrain(t *testing.T) {
	h := twoStationLine()
	if !h.Sim.AddTrain(0) {
		t.Fatal("expected extra train")
	}
	if n := len(h.Line(0).Trains()); n != 2 {
		t.Fatalf("expected 2 trains, got %d", n)
	}
	if h.Sim.AddTrain(1) {
		t.Fatal("expected AddTrain on an empty line to fail")
	}
}
