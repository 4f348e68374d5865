package metro

import (
	"fmt"
	"sort"
)

// Passenger is a rider heading for any station of a given shape.
type Passenger struct {
	dest Shape
}

// NewPassenger creates a passenger bound for dest.
func NewPassenger(dest Shape) Passenger {
	return Passenger{dest: dest}
}

// Destination is the shape the passenger wants to reach.
func (p Passenger) Destination() Shape {
	return p.dest
}

// Station is a stop on the map. Position and shape never change after
// creation. lines maps a line id to the diagonal-first flag of the segment
// that arrives here on that line; presence of the key is membership.
type Station struct {
	id       int
	col, row int
	pos      Point
	shape    Shape
	queue    []Passenger
	lines    map[int]bool
	Selected bool // UI highlight, ignored by the simulation
}

// NewStation creates a station on the given cell.
func NewStation(id, col, row int, shape Shape) *Station {
	return &Station{
		id:    id,
		col:   col,
		row:   row,
		pos:   CellPosition(col, row),
		shape: shape,
		lines: make(map[int]bool),
	}
}

func (s *Station) ID() int              { return s.id }
func (s *Station) Shape() Shape         { return s.shape }
func (s *Station) Position() Point      { return s.pos }
func (s *Station) Cell() (col, row int) { return s.col, s.row }

// Label is a short name for logs, e.g. "S3".
func (s *Station) Label() string {
	return fmt.Sprintf("S%d", s.id)
}

// Enqueue adds a waiting passenger at the back of the queue.
func (s *Station) Enqueue(p Passenger) {
	s.queue = append(s.queue, p)
}

// QueueLen is the number of passengers waiting.
func (s *Station) QueueLen() int {
	return len(s.queue)
}

// Queue returns a copy of the waiting passengers, oldest first.
func (s *Station) Queue() []Passenger {
	out := make([]Passenger, len(s.queue))
	copy(out, s.queue)
	return out
}

// Diagonal returns the diagonal-first flag for the segment arriving here on
// the given line. Stations not on the line report false.
func (s *Station) Diagonal(lineID int) bool {
	return s.lines[lineID]
}

// SetDiagonal changes the flag for a line the station is already on.
func (s *Station) SetDiagonal(lineID int, diagonal bool) {
	if _, ok := s.lines[lineID]; ok {
		s.lines[lineID] = diagonal
	}
}

// OnLine reports whether the station belongs to the line.
func (s *Station) OnLine(lineID int) bool {
	_, ok := s.lines[lineID]
	return ok
}

// LineCount is the number of lines serving the station.
func (s *Station) LineCount() int {
	return len(s.lines)
}

// IsHub reports whether passengers can change lines here.
func (s *Station) IsHub() bool {
	return len(s.lines) > 1
}

// LineIDs returns the ids of the lines serving the station, ascending.
func (s *Station) LineIDs() []int {
	ids := make([]int, 0, len(s.lines))
	for id := range s.lines {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (s *Station) join(lineID int) {
	if _, ok := s.lines[lineID]; !ok {
		s.lines[lineID] = false
	}
}

func (s *Station) leave(lineID int) {
	delete(s.lines, lineID)
}
