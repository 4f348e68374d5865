package metro

import "math/rand"

// Map dimensions, in cells and world units.
const (
	GridCols = 80
	GridRows = 45
	CellSize = 24 // world units per cell edge

	marginCells  = 2 // non-spawnable frame around the map
	bufferRadius = 3 // half-width of the square blocked around a station
)

// CellClass is the spawning class of one grid cell. Classes are ordered:
// everything above CellWater can host a station.
type CellClass uint8

const (
	CellMargin  CellClass = iota // map frame
	CellTaken                    // inside a station's buffer
	CellWater                    // river, lake or sea
	CellCountry                  // open country, rarely accepted
	CellCity                     // built-up area
	cellClassCount               // sentinel
)

func (c CellClass) String() string {
	switch c {
	case CellMargin:
		return "margin"
	case CellTaken:
		return "taken"
	case CellWater:
		return "water"
	case CellCountry:
		return "country"
	case CellCity:
		return "city"
	default:
		return "unknown"
	}
}

// Spawnable reports whether a station may be placed on a cell of this class.
func (c CellClass) Spawnable() bool {
	return c > CellWater && c < cellClassCount
}

// Grid is the station occupancy grid. Cells are stored row-major.
type Grid struct {
	Cols, Rows int
	cells      []CellClass
	openCount  int
}

// NewGrid creates the default map: city everywhere inside a two-cell margin.
func NewGrid() *Grid {
	g := newFilledGrid(GridCols, GridRows, CellCity)
	g.ApplyMargin()
	return g
}

func newFilledGrid(cols, rows int, class CellClass) *Grid {
	cells := make([]CellClass, cols*rows)
	for i := range cells {
		cells[i] = class
	}
	g := &Grid{Cols: cols, Rows: rows, cells: cells}
	g.recount()
	return g
}

// inBounds returns true if (col, row) is within the grid.
func (g *Grid) inBounds(col, row int) bool {
	return col >= 0 && col < g.Cols && row >= 0 && row < g.Rows
}

// At returns the class of (col, row). Out-of-bounds cells read as margin.
func (g *Grid) At(col, row int) CellClass {
	if !g.inBounds(col, row) {
		return CellMargin
	}
	return g.cells[row*g.Cols+col]
}

// Set overwrites the class of one cell. Used while building a map.
func (g *Grid) Set(col, row int, c CellClass) {
	if !g.inBounds(col, row) || c >= cellClassCount {
		return
	}
	i := row*g.Cols + col
	if g.cells[i].Spawnable() {
		g.openCount--
	}
	g.cells[i] = c
	if c.Spawnable() {
		g.openCount++
	}
}

// Spawnable reports whether a station may be placed at (col, row).
func (g *Grid) Spawnable(col, row int) bool {
	return g.At(col, row).Spawnable()
}

// OpenCount is the number of cells that can still host a station.
func (g *Grid) OpenCount() int {
	return g.openCount
}

// ApplyMargin marks the outer frame of the map as margin.
func (g *Grid) ApplyMargin() {
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			if row < marginCells || row >= g.Rows-marginCells ||
				col < marginCells || col >= g.Cols-marginCells {
				g.cells[row*g.Cols+col] = CellMargin
			}
		}
	}
	g.recount()
}

// MarkTaken blocks the 7×7 square centred on (col, row), minus its four
// corners. Water and margin cells keep their class; they were never
// spawnable.
func (g *Grid) MarkTaken(col, row int) {
	for dr := -bufferRadius; dr <= bufferRadius; dr++ {
		for dc := -bufferRadius; dc <= bufferRadius; dc++ {
			if abs(dr) == bufferRadius && abs(dc) == bufferRadius {
				continue
			}
			c, r := col+dc, row+dr
			if !g.inBounds(c, r) {
				continue
			}
			if i := r*g.Cols + c; g.cells[i].Spawnable() {
				g.cells[i] = CellTaken
			}
		}
	}
	g.recount()
}

// GenerateCoordinates samples uniformly random cells until it finds one a
// station may use. Country cells are only accepted one time in countryOdds.
// It gives up after maxAttempts samples.
func (g *Grid) GenerateCoordinates(rng *rand.Rand, countryOdds, maxAttempts int) (col, row int, ok bool) {
	if g.openCount == 0 {
		return 0, 0, false
	}
	for i := 0; i < maxAttempts; i++ {
		col = rng.Intn(g.Cols)
		row = rng.Intn(g.Rows)
		switch g.At(col, row) {
		case CellCity:
			return col, row, true
		case CellCountry:
			if countryOdds <= 1 || rng.Intn(countryOdds) == 0 {
				return col, row, true
			}
		}
	}
	return 0, 0, false
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]CellClass, len(g.cells))
	copy(cells, g.cells)
	return &Grid{Cols: g.Cols, Rows: g.Rows, cells: cells, openCount: g.openCount}
}

// CellPosition returns the world position of a cell, which is where a station on it sits.
func CellPosition(col, row int) Point {
	return Point{X: float64(col * CellSize), Y: float64(row * CellSize)}
}

func (g *Grid) recount() {
	n := 0
	for _, c := range g.cells {
		if c.Spawnable() {
			n++
		}
	}
	g.openCount = n
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
