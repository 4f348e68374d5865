package metro

import "testing"

// --- Invariant helpers ---

// checkNetwork verifies the structural invariants of every line and train.
func checkNetwork(t *testing.T, sim *Simulation) {
	t.Helper()
	for _, l := range sim.lines {
		seen := make(map[*Station]bool)
		for _, st := range l.stations {
			if seen[st] {
				t.Fatalf("T=%d %s: %s appears twice", sim.tick, l.Label(), st.Label())
			}
			seen[st] = true
			if !st.OnLine(l.id) {
				t.Fatalf("T=%d %s: %s missing membership flag", sim.tick, l.Label(), st.Label())
			}
		}
		if (len(l.stations) >= 2) != (len(l.trains) > 0) {
			t.Fatalf("T=%d %s: %d stations but %d trains", sim.tick, l.Label(), len(l.stations), len(l.trains))
		}
		for _, tr := range l.trains {
			if tr.Load() > TrainCapacity {
				t.Fatalf("T=%d %s: %d aboard", sim.tick, tr.Label(), tr.Load())
			}
			if !tr.anchored() {
				t.Fatalf("T=%d %s: %s→%s not adjacent", sim.tick, tr.Label(), tr.from.Label(), tr.to.Label())
			}
		}
	}
	for _, st := range sim.stations {
		for _, id := range st.LineIDs() {
			if !sim.lines[id].Contains(st) {
				t.Fatalf("T=%d %s: flag for line %d without membership", sim.tick, st.Label(), id)
			}
		}
		if c := sim.Grid.At(st.col, st.row); c != CellTaken {
			t.Fatalf("T=%d %s: own cell is %s", sim.tick, st.Label(), c)
		}
	}
}

// checkConservation verifies that every passenger ever spawned is either
// waiting, riding or delivered.
func checkConservation(t *testing.T, sim *Simulation) {
	t.Helper()
	spawned := sim.Log.Count(catPassenger, "spawn")
	live := 0
	for _, st := range sim.stations {
		live += len(st.queue)
	}
	for _, l := range sim.lines {
		for _, tr := range l.trains {
			live += len(tr.onboard)
		}
	}
	if spawned != live+sim.score {
		t.Fatalf("T=%d: spawned %d but waiting+riding %d + delivered %d", sim.tick, spawned, live, sim.score)
	}
}

// --- Invariant tests ---

func TestInvariant_LongRunWithSpawning(t *testing.T) {
	for _, seed := range []int64{1, 7, 42} {
		h := NewHarness(
			WithSeed(seed),
			WithSpawning(true, true),
			WithStartStations(ShapeCircle, ShapeTriangle, ShapeSquare),
			WithConfig(func(c *SimConfig) { c.WeekTicks = 3000 }),
		)
		prevOpen := h.Sim.Grid.OpenCount()
		for i := 0; i < 120; i++ {
			h.AttachNewStations(i%3 == 0)
			if i%10 == 5 {
				h.Sim.AddTrain(i % h.Sim.UnlockedLines())
			}
			h.RunTicks(250)
			checkNetwork(t, h.Sim)
			checkConservation(t, h.Sim)
			if open := h.Sim.Grid.OpenCount(); open > prevOpen {
				t.Fatalf("seed %d: open count grew from %d to %d", seed, prevOpen, open)
			} else {
				prevOpen = open
			}
		}
		t.Logf("seed %d: stations=%d score=%d", seed, len(h.Sim.stations), h.Score())
	}
}

func TestInvariant_RemovalsKeepLinesConsistent(t *testing.T) {
	h := NewHarness(
		WithSeed(5),
		WithSpawning(true, true),
		WithStartStations(ShapeCircle, ShapeTriangle, ShapeSquare, ShapeStar),
	)
	for i := 0; i < 80; i++ {
		h.AttachNewStations(false)
		h.RunTicks(300)
		// Remove whatever station the UI would allow from the first line.
		l := h.Line(0)
		for _, st := range l.Stations() {
			if h.Sim.CanRemoveStation(0, st) && i%4 == 0 {
				h.Sim.RemoveStationFromLine(0, st)
				break
			}
		}
		checkNetwork(t, h.Sim)
		checkConservation(t, h.Sim)
	}
}
