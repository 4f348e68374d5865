package metro

import (
	"math"
	"math/rand"
)

// Simulation owns one running level: the grid, stations, lines and their
// trains, the score and the tick clock. All mutation happens on the caller's
// goroutine through Tick and the request methods.
type Simulation struct {
	Config   SimConfig
	Level    Level
	Grid     *Grid
	Log      *EventLog
	Reporter *Reporter

	baseGrid *Grid
	seed     int64
	rng      *rand.Rand

	stations []*Station
	lines    []*Line
	unlocked int
	current  int

	score    int
	tick     int
	tickRate int

	nextStationID    int
	stationSpawner   StationSpawner
	passengerSpawner PassengerSpawner
}

// NewSimulation starts a level. A nil grid uses the default all-city map.
// A level without line colours falls back to the first built-in level.
func NewSimulation(cfg SimConfig, level Level, grid *Grid, seed int64) *Simulation {
	if len(level.Lines) == 0 {
		level = DefaultLevels()[0]
	}
	if grid == nil {
		grid = NewGrid()
	}
	s := &Simulation{
		Config:   cfg,
		Level:    level,
		baseGrid: grid.Clone(),
		seed:     seed,
		Log:      NewEventLog(cfg.VerboseLog, cfg.LogLimit),
		Reporter: NewReporter(0),
	}
	s.Reset()
	return s
}

// Reset returns the level to its starting state with the original seed.
func (s *Simulation) Reset() {
	s.Grid = s.baseGrid.Clone()
	s.rng = rand.New(rand.NewSource(s.seed)) // #nosec G404 -- simulation RNG, not security
	s.stations = nil
	s.lines = make([]*Line, len(s.Level.Lines))
	for i, c := range s.Level.Lines {
		s.lines[i] = NewLine(i, c)
	}
	s.unlocked = min(max(s.Config.InitialLines, 1), len(s.lines))
	s.current = 0
	s.score = 0
	s.tick = 0
	s.tickRate = 1
	s.nextStationID = 0
	s.stationSpawner = StationSpawner{}
	s.passengerSpawner.reset()
	s.Reporter.Reset()
	s.Log.Add(0, "--", catLine, "reset", s.Level.Name, float64(s.unlocked))

	for _, shape := range s.Config.StartShapes {
		s.spawnStation(shape)
	}
}

// Tick advances the clock by one. It does nothing while paused.
//
// Order: station spawn, passenger spawn, trains, line unlocks, reporting.
func (s *Simulation) Tick() {
	if s.tickRate == 0 {
		return
	}
	s.tick++

	// 1. New stations.
	s.stationSpawner.Tick(s)

	// 2. New passengers. Index loop so a station spawned this tick is seen.
	for i := 0; i < len(s.stations); i++ {
		s.passengerSpawner.Tick(s, s.stations[i])
	}

	// 3. Trains.
	for _, l := range s.lines[:s.unlocked] {
		for _, t := range l.trains {
			t.Update(s)
		}
	}

	// 4. Weekly line unlock.
	if s.Config.WeekTicks > 0 && s.tick%s.Config.WeekTicks == 0 && s.unlocked < len(s.lines) {
		s.unlocked++
		s.Log.Add(s.tick, s.lines[s.unlocked-1].Label(), catLine, "unlock", s.lines[s.unlocked-1].colour.String(), float64(s.unlocked))
	}

	// 5. Reporting.
	if s.Config.ReportInterval > 0 && s.tick%s.Config.ReportInterval == 0 {
		s.Reporter.Collect(s)
	}
}

// Advance runs one frame: TickRate ticks.
func (s *Simulation) Advance() {
	for i := 0; i < s.tickRate; i++ {
		s.Tick()
	}
}

func (s *Simulation) CurrentTick() int { return s.tick }
func (s *Simulation) Score() int       { return s.score }
func (s *Simulation) TickRate() int    { return s.tickRate }
func (s *Simulation) Seed() int64      { return s.seed }

// SetTickRate sets the speed: 0 pauses, 1 is normal, 2 is fast.
func (s *Simulation) SetTickRate(rate int) {
	s.tickRate = min(max(rate, 0), 2)
}

// Stations returns the stations in creation order.
func (s *Simulation) Stations() []*Station {
	out := make([]*Station, len(s.stations))
	copy(out, s.stations)
	return out
}

// Station returns the station with the given id.
func (s *Simulation) Station(id int) *Station {
	for _, st := range s.stations {
		if st.id == id {
			return st
		}
	}
	return nil
}

// StationAt returns the station nearest p within radius world units.
func (s *Simulation) StationAt(p Point, radius float64) *Station {
	var best *Station
	bestD := radius
	for _, st := range s.stations {
		if d := math.Hypot(st.pos.X-p.X, st.pos.Y-p.Y); d <= bestD {
			best, bestD = st, d
		}
	}
	return best
}

// Lines returns every line of the level, locked ones included.
func (s *Simulation) Lines() []*Line {
	out := make([]*Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Line returns an unlocked line by id, or nil.
func (s *Simulation) Line(id int) *Line {
	if id < 0 || id >= s.unlocked {
		return nil
	}
	return s.lines[id]
}

// UnlockedLines is the number of lines the player may build.
func (s *Simulation) UnlockedLines() int { return s.unlocked }

// SelectLine makes an unlocked line the current one.
func (s *Simulation) SelectLine(id int) bool {
	if s.Line(id) == nil {
		return false
	}
	s.current = id
	return true
}

// CurrentLine is the line new stations are added to from the UI.
func (s *Simulation) CurrentLine() *Line {
	return s.lines[s.current]
}

// ShapesPresent lists the distinct station shapes on the map in order of
// first appearance.
func (s *Simulation) ShapesPresent() []Shape {
	var seen [shapeCount]bool
	var out []Shape
	for _, st := range s.stations {
		if !seen[st.shape] {
			seen[st.shape] = true
			out = append(out, st.shape)
		}
	}
	return out
}

// AddStationToLine extends a line at its tail, or its head when atHead is
// set. diagonalFirst picks which leg of the new segment runs first, read
// from the existing end of the line toward the new station.
func (s *Simulation) AddStationToLine(lineID int, st *Station, atHead, diagonalFirst bool) bool {
	l := s.Line(lineID)
	if l == nil || st == nil || s.Station(st.id) != st {
		return false
	}
	hadTrains := len(l.trains)
	if !l.AddStation(st, atHead) {
		return false
	}
	if atHead {
		if len(l.stations) > 1 {
			// The segment now arrives at the old head, running away from st.
			l.stations[1].SetDiagonal(l.id, !diagonalFirst)
		}
	} else {
		st.SetDiagonal(l.id, diagonalFirst)
	}
	where := "tail"
	if atHead {
		where = "head"
	}
	s.Log.Add(s.tick, l.Label(), catLine, "add", st.Label()+" "+where, float64(len(l.stations)))
	if hadTrains == 0 && len(l.trains) > 0 {
		// The first train takes its heading from the segment just drawn.
		l.trains[0].heading = l.trains[0].segmentRoute().First
		s.Log.Add(s.tick, l.trains[0].Label(), catTrain, "spawn", l.Label(), 0)
	}
	return true
}

// CanRemoveStation reports whether st can leave the line without breaking
// a segment a train is using.
func (s *Simulation) CanRemoveStation(lineID int, st *Station) bool {
	l := s.Line(lineID)
	if l == nil || !l.Contains(st) {
		return false
	}
	for _, t := range l.trains {
		if t.from == st || t.to == st {
			return false
		}
	}
	return true
}

// RemoveStationFromLine takes st off a line. Use CanRemoveStation first; a
// train on a broken segment re-anchors rather than failing.
func (s *Simulation) RemoveStationFromLine(lineID int, st *Station) bool {
	l := s.Line(lineID)
	if l == nil || !l.RemoveStation(st) {
		return false
	}
	s.Log.Add(s.tick, l.Label(), catLine, "remove", st.Label(), float64(len(l.stations)))
	return true
}

// AddTrain puts an extra train on a line with at least two stations.
func (s *Simulation) AddTrain(lineID int) bool {
	l := s.Line(lineID)
	if l == nil {
		return false
	}
	t, ok := l.AddTrain()
	if ok {
		s.Log.Add(s.tick, t.Label(), catTrain, "spawn", l.Label(), float64(len(l.trains)))
	}
	return ok
}

// PlaceStation puts a station on a chosen cell. The cell must be free.
func (s *Simulation) PlaceStation(col, row int, shape Shape) (*Station, bool) {
	if !shape.Valid() || !s.Grid.Spawnable(col, row) {
		return nil, false
	}
	return s.addStation(col, row, shape), true
}

// InjectPassenger queues a passenger at st.
func (s *Simulation) InjectPassenger(st *Station, dest Shape) {
	st.Enqueue(NewPassenger(dest))
	s.Log.Add(s.tick, st.Label(), catPassenger, "spawn", dest.String(), float64(len(st.queue)))
}

// spawnStation places a station of the given shape on a random free cell.
func (s *Simulation) spawnStation(shape Shape) (*Station, bool) {
	col, row, ok := s.Grid.GenerateCoordinates(s.rng, s.Config.CountryOdds, s.Config.PlacementAttempts)
	if !ok {
		return nil, false
	}
	return s.addStation(col, row, shape), true
}

func (s *Simulation) addStation(col, row int, shape Shape) *Station {
	st := NewStation(s.nextStationID, col, row, shape)
	s.nextStationID++
	s.stations = append(s.stations, st)
	s.Grid.MarkTaken(col, row)
	s.Log.Add(s.tick, st.Label(), catStation, "spawn", shape.String(), float64(s.Grid.OpenCount()))
	return st
}

func (s *Simulation) deliver(t *Train, st *Station) {
	s.score++
	s.Log.Add(s.tick, t.Label(), catPassenger, "deliver", st.Label()+" "+st.shape.String(), float64(s.score))
}

// servedElsewhere reports whether another line through st reaches shape.
func (s *Simulation) servedElsewhere(st *Station, except *Line, shape Shape) bool {
	for _, id := range st.LineIDs() {
		if id == except.id || id >= len(s.lines) {
			continue
		}
		if s.lines[id].serves(shape) {
			return true
		}
	}
	return false
}
