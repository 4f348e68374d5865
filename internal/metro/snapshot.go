package metro

// StationView is the renderer's read-only copy of a station.
type StationView struct {
	ID       int
	Position Point
	Shape    Shape
	Queue    []Shape
	Lines    []int
	Selected bool
}

// TrainView is the renderer's read-only copy of a train.
type TrainView struct {
	Label      string
	LineID     int
	Position   Point
	Heading    Direction
	Passengers []Shape
	Waiting    bool
}

// LineView is the renderer's read-only copy of a line.
type LineView struct {
	ID       int
	Colour   HexColor
	Locked   bool
	Stations []int
	Path     LinePath
}

// Snapshot is everything a renderer needs for one frame.
type Snapshot struct {
	Tick        int
	Score       int
	TickRate    int
	CurrentLine int
	Level       string
	Stations    []StationView
	Lines       []LineView
	Trains      []TrainView
}

// Snapshot copies the current state for drawing.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:        s.tick,
		Score:       s.score,
		TickRate:    s.tickRate,
		CurrentLine: s.current,
		Level:       s.Level.Name,
		Stations:    make([]StationView, 0, len(s.stations)),
		Lines:       make([]LineView, 0, len(s.lines)),
	}
	for _, st := range s.stations {
		sv := StationView{
			ID:       st.id,
			Position: st.pos,
			Shape:    st.shape,
			Lines:    st.LineIDs(),
			Selected: st.Selected,
		}
		for _, p := range st.queue {
			sv.Queue = append(sv.Queue, p.dest)
		}
		snap.Stations = append(snap.Stations, sv)
	}
	for i, l := range s.lines {
		lv := LineView{
			ID:     l.id,
			Colour: l.colour,
			Locked: i >= s.unlocked,
			Path:   l.Path(),
		}
		for _, st := range l.stations {
			lv.Stations = append(lv.Stations, st.id)
		}
		snap.Lines = append(snap.Lines, lv)
		for _, t := range l.trains {
			tv := TrainView{
				Label:    t.Label(),
				LineID:   l.id,
				Position: t.pos,
				Heading:  t.heading,
				Waiting:  t.waiting,
			}
			for _, p := range t.onboard {
				tv.Passengers = append(tv.Passengers, p.dest)
			}
			snap.Trains = append(snap.Trains, tv)
		}
	}
	return snap
}
