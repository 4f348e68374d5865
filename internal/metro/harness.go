package metro

import "fmt"

// Harness is a scripted, headless simulation used by tests and the batch
// runner. Stations are addressed by script ids chosen by the caller, which
// need not match the simulation's own station ids.
type Harness struct {
	Sim *Simulation

	cfg      SimConfig
	level    Level
	grid     *Grid
	seed     int64
	stations map[int]*Station
}

// harnessOptionKind controls the pass in which an option is applied.
type harnessOptionKind int

const (
	harnessOptInfra     harnessOptionKind = iota // seed, grid, config; applied before the simulation exists
	harnessOptStation                            // place stations
	harnessOptLine                               // build lines from placed stations
	harnessOptPassenger                          // queue passengers
)

// HarnessOption is a builder function applied to a Harness during construction.
type HarnessOption struct {
	kind harnessOptionKind
	fn   func(*Harness)
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) { h.seed = seed }}
}

// WithGrid replaces the default all-city grid.
func WithGrid(g *Grid) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) { h.grid = g }}
}

// WithLevel selects the level palette and shape set.
func WithLevel(l Level) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) { h.level = l }}
}

// WithPolicy sets the boarding policy.
func WithPolicy(p BoardingPolicy) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) { h.cfg.Policy = p }}
}

// WithSpawning turns the station and passenger spawners on or off. Both
// are off by default so scripted scenarios stay exact.
func WithSpawning(stations, passengers bool) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) {
		h.cfg.SpawnStations = stations
		h.cfg.SpawnPassengers = passengers
	}}
}

// WithStartStations places the level's opening stations at random.
func WithStartStations(shapes ...Shape) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) { h.cfg.StartShapes = shapes }}
}

// WithConfig edits the configuration directly.
func WithConfig(edit func(*SimConfig)) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) { edit(&h.cfg) }}
}

// WithStation places a station of the given shape on a cell.
func WithStation(id, col, row int, shape Shape) HarnessOption {
	return HarnessOption{harnessOptStation, func(h *Harness) {
		st, ok := h.Sim.PlaceStation(col, row, shape)
		if !ok {
			panic(fmt.Sprintf("harness: cannot place station %d at (%d,%d)", id, col, row))
		}
		h.stations[id] = st
	}}
}

// WithLine appends stations (by script id) to a line's tail. Every new
// segment uses the given diagonal-first flag.
func WithLine(lineID int, diagonal bool, ids ...int) HarnessOption {
	return HarnessOption{harnessOptLine, func(h *Harness) {
		for _, id := range ids {
			if !h.Sim.AddStationToLine(lineID, h.stations[id], false, diagonal) {
				panic(fmt.Sprintf("harness: cannot add station %d to line %d", id, lineID))
			}
		}
	}}
}

// WithPassenger queues a passenger bound for dest at a station.
func WithPassenger(id int, dest Shape) HarnessOption {
	return HarnessOption{harnessOptPassenger, func(h *Harness) {
		h.Sim.InjectPassenger(h.stations[id], dest)
	}}
}

// NewHarness constructs a Harness from the given options in ordered passes:
//  1. Infrastructure (seed, grid, level, config)
//  2. Build the Simulation
//  3. Stations
//  4. Lines
//  5. Passengers
func NewHarness(opts ...HarnessOption) *Harness {
	cfg := DefaultSimConfig()
	cfg.SpawnStations = false
	cfg.SpawnPassengers = false
	cfg.StartShapes = nil
	h := &Harness{
		cfg:      cfg,
		seed:     1,
		stations: make(map[int]*Station),
	}
	for _, o := range opts {
		if o.kind == harnessOptInfra {
			o.fn(h)
		}
	}
	h.Sim = NewSimulation(h.cfg, h.level, h.grid, h.seed)
	for _, kind := range []harnessOptionKind{harnessOptStation, harnessOptLine, harnessOptPassenger} {
		for _, o := range opts {
			if o.kind == kind {
				o.fn(h)
			}
		}
	}
	return h
}

// Station returns a station by script id.
func (h *Harness) Station(id int) *Station {
	return h.stations[id]
}

// Line returns an unlocked line by id.
func (h *Harness) Line(id int) *Line {
	return h.Sim.Line(id)
}

// Train returns the first train of a line, or nil.
func (h *Harness) Train(lineID int) *Train {
	l := h.Sim.Line(lineID)
	if l == nil || len(l.trains) == 0 {
		return nil
	}
	return l.trains[0]
}

// RunTicks advances the simulation n ticks.
func (h *Harness) RunTicks(n int) {
	for i := 0; i < n; i++ {
		h.Sim.Tick()
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (h *Harness) RunUntil(predicate func(*Harness) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		h.Sim.Tick()
		if predicate(h) {
			return h.Sim.tick
		}
	}
	return -1
}

// Score is the number of passengers delivered.
func (h *Harness) Score() int {
	return h.Sim.score
}

// AttachNewStations puts every station that is on no line onto the tail of
// an unlocked line, cycling through the lines. It stands in for a player in
// long unattended runs. Returns the number of stations attached.
func (h *Harness) AttachNewStations(diagonal bool) int {
	n := 0
	for _, st := range h.Sim.stations {
		if st.LineCount() > 0 {
			continue
		}
		lineID := st.id % h.Sim.unlocked
		if h.Sim.AddStationToLine(lineID, st, false, diagonal) {
			n++
		}
	}
	return n
}
