package metro

import "fmt"

// Line is an ordered path of stations served by shuttling trains. A line
// has trains exactly when it has at least two stations.
type Line struct {
	id       int
	colour   HexColor
	stations []*Station
	trains   []*Train
}

// NewLine creates an empty line.
func NewLine(id int, colour HexColor) *Line {
	return &Line{id: id, colour: colour}
}

func (l *Line) ID() int          { return l.id }
func (l *Line) Colour() HexColor { return l.colour }
func (l *Line) Len() int         { return len(l.stations) }

// Label is a short name for logs, e.g. "L2".
func (l *Line) Label() string {
	return fmt.Sprintf("L%d", l.id)
}

// Stations returns the stations in line order.
func (l *Line) Stations() []*Station {
	out := make([]*Station, len(l.stations))
	copy(out, l.stations)
	return out
}

// Trains returns the trains running on the line.
func (l *Line) Trains() []*Train {
	out := make([]*Train, len(l.trains))
	copy(out, l.trains)
	return out
}

// IndexOf returns the position of st on the line, or -1.
func (l *Line) IndexOf(st *Station) int {
	for i, s := range l.stations {
		if s == st {
			return i
		}
	}
	return -1
}

// Contains reports whether st is on the line.
func (l *Line) Contains(st *Station) bool {
	return l.IndexOf(st) >= 0
}

// IsTerminus reports whether st is the first or last station.
func (l *Line) IsTerminus(st *Station) bool {
	n := len(l.stations)
	return n > 0 && (l.stations[0] == st || l.stations[n-1] == st)
}

// AddStation appends st at the tail, or prepends it when atHead is set.
// Duplicates are rejected. The first train appears when the line reaches
// two stations.
func (l *Line) AddStation(st *Station, atHead bool) bool {
	if st == nil || l.Contains(st) {
		return false
	}
	if atHead {
		l.stations = append([]*Station{st}, l.stations...)
	} else {
		l.stations = append(l.stations, st)
	}
	st.join(l.id)
	if len(l.stations) == 2 && len(l.trains) == 0 {
		l.trains = append(l.trains, newTrain(l, 0))
	}
	return true
}

// RemoveStation takes st off the line. Below two stations the line loses
// its trains. Callers must not remove a station next to an occupied
// segment; a train left stranded re-anchors on its next update.
func (l *Line) RemoveStation(st *Station) bool {
	i := l.IndexOf(st)
	if i < 0 {
		return false
	}
	l.stations = append(l.stations[:i], l.stations[i+1:]...)
	st.leave(l.id)
	if len(l.stations) < 2 {
		l.trains = nil
	}
	return true
}

// AddTrain puts another train on the first segment of the line.
func (l *Line) AddTrain() (*Train, bool) {
	if len(l.stations) < 2 {
		return nil, false
	}
	t := newTrain(l, len(l.trains))
	l.trains = append(l.trains, t)
	return t, true
}

// servesAhead reports whether a station of the given shape lies beyond
// index idx in the given direction.
func (l *Line) servesAhead(idx int, forward bool, shape Shape) bool {
	if forward {
		for i := idx + 1; i < len(l.stations); i++ {
			if l.stations[i].shape == shape {
				return true
			}
		}
		return false
	}
	for i := idx - 1; i >= 0; i-- {
		if l.stations[i].shape == shape {
			return true
		}
	}
	return false
}

// serves reports whether any station on the line has the given shape.
func (l *Line) serves(shape Shape) bool {
	for _, s := range l.stations {
		if s.shape == shape {
			return true
		}
	}
	return false
}

// segmentDiagonal is the flag the segment between stations[i-1] and
// stations[i] is drawn with.
func (l *Line) segmentDiagonal(i int) bool {
	return l.stations[i].Diagonal(l.id)
}

// EndCap marks one end of a drawn line. Direction is the way the line runs
// at that end, pointing out of the line.
type EndCap struct {
	At        Point
	Direction Direction
}

// LinePath is the drawable geometry of a line.
type LinePath struct {
	LineID   int
	Segments []Route
	Head     EndCap
	Tail     EndCap
}

// Path classifies every adjacent pair with the later station's flag. Lines
// with fewer than two stations have no segments and zero caps.
func (l *Line) Path() LinePath {
	p := LinePath{LineID: l.id}
	if len(l.stations) < 2 {
		return p
	}
	p.Segments = make([]Route, 0, len(l.stations)-1)
	for i := 1; i < len(l.stations); i++ {
		r := Classify(l.stations[i-1].pos, l.stations[i].pos, l.segmentDiagonal(i))
		p.Segments = append(p.Segments, r)
	}
	first, last := p.Segments[0], p.Segments[len(p.Segments)-1]
	p.Head = EndCap{At: first.From, Direction: first.First.Opposite()}
	p.Tail = EndCap{At: last.To, Direction: last.Second}
	return p
}
