package metro

import (
	"math/rand"
	"testing"
)

func TestNewGrid_DefaultCityWithMargin(t *testing.T) {
	g := NewGrid()
	if g.Cols != GridCols || g.Rows != GridRows {
		t.Fatalf("expected %dx%d, got %dx%d", GridCols, GridRows, g.Cols, g.Rows)
	}
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			inMargin := row < 2 || row > 42 || col < 2 || col > 77
			got := g.At(col, row)
			if inMargin && got != CellMargin {
				t.Fatalf("cell (%d,%d) expected margin, got %s", col, row, got)
			}
			if !inMargin && got != CellCity {
				t.Fatalf("cell (%d,%d) expected city, got %s", col, row, got)
			}
		}
	}
	if want := 76 * 41; g.OpenCount() != want {
		t.Fatalf("expected open count %d, got %d", want, g.OpenCount())
	}
}

func TestGrid_OutOfBoundsReadsAsMargin(t *testing.T) {
	g := NewGrid()
	if g.At(-1, 5) != CellMargin || g.At(5, GridRows) != CellMargin {
		t.Fatal("out-of-bounds cells should read as margin")
	}
	if g.Spawnable(100, 100) {
		t.Fatal("out-of-bounds cell should not be spawnable")
	}
}

func TestGrid_MarkTakenShape(t *testing.T) {
	g := NewGrid()
	before := g.OpenCount()
	g.MarkTaken(20, 20)
	for dr := -3; dr <= 3; dr++ {
		for dc := -3; dc <= 3; dc++ {
			corner := abs(dr) == 3 && abs(dc) == 3
			got := g.At(20+dc, 20+dr)
			if corner && got != CellCity {
				t.Fatalf("corner (%d,%d) should stay city, got %s", dc, dr, got)
			}
			if !corner && got != CellTaken {
				t.Fatalf("cell (%d,%d) should be taken, got %s", dc, dr, got)
			}
		}
	}
	if want := before - 45; g.OpenCount() != want {
		t.Fatalf("expected open count %d, got %d", want, g.OpenCount())
	}
}

func TestGrid_MarkTakenKeepsWater(t *testing.T) {
	g := NewGrid()
	g.Set(21, 20, CellWater)
	g.MarkTaken(20, 20)
	if g.At(21, 20) != CellWater {
		t.Fatalf("expected water to survive, got %s", g.At(21, 20))
	}
}

func TestGrid_MarkTakenNearEdge(t *testing.T) {
	g := NewGrid()
	g.MarkTaken(2, 2) // must not index outside the grid
	if g.At(2, 2) != CellTaken {
		t.Fatalf("expected taken, got %s", g.At(2, 2))
	}
}

func TestGrid_SetTracksOpenCount(t *testing.T) {
	g := NewGrid()
	n := g.OpenCount()
	g.Set(10, 10, CellWater)
	if g.OpenCount() != n-1 {
		t.Fatalf("expected %d, got %d", n-1, g.OpenCount())
	}
	g.Set(10, 10, CellCountry)
	if g.OpenCount() != n {
		t.Fatalf("expected %d, got %d", n, g.OpenCount())
	}
}

func TestGrid_GenerateCoordinatesRejectsBlockedCells(t *testing.T) {
	g := NewGrid()
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			if g.At(col, row) == CellCity {
				g.Set(col, row, CellWater)
			}
		}
	}
	g.Set(30, 30, CellCity)
	rng := rand.New(rand.NewSource(7)) // #nosec G404 -- deterministic test
	col, row, ok := g.GenerateCoordinates(rng, 10, 1_000_000)
	if !ok {
		t.Fatal("expected the single city cell to be found")
	}
	if col != 30 || row != 30 {
		t.Fatalf("expected (30,30), got (%d,%d)", col, row)
	}
}

func TestGrid_GenerateCoordinatesGivesUp(t *testing.T) {
	g := newFilledGrid(GridCols, GridRows, CellWater)
	rng := rand.New(rand.NewSource(1)) // #nosec G404 -- deterministic test
	if _, _, ok := g.GenerateCoordinates(rng, 10, 500); ok {
		t.Fatal("expected no coordinates on an all-water map")
	}
}

func TestGrid_CountryIsRarelyAccepted(t *testing.T) {
	g := newFilledGrid(GridCols, GridRows, CellCountry)
	g.ApplyMargin()
	for col := 2; col < 12; col++ {
		g.Set(col, 10, CellCity)
	}
	rng := rand.New(rand.NewSource(99)) // #nosec G404 -- deterministic test
	city := 0
	const samples = 2000
	for i := 0; i < samples; i++ {
		col, row, ok := g.GenerateCoordinates(rng, 10, 10_000)
		if !ok {
			t.Fatal("expected coordinates")
		}
		if g.At(col, row) == CellCity {
			city++
		}
	}
	// 10 city cells against ~3106 country cells at 1/10 weight: about 3%.
	if city == 0 || city > samples/5 {
		t.Fatalf("city acceptance out of range: %d of %d", city, samples)
	}
}

func TestGrid_CloneIsIndependent(t *testing.T) {
	g := NewGrid()
	c := g.Clone()
	c.MarkTaken(40, 20)
	if g.At(40, 20) != CellCity {
		t.Fatal("clone shares cells with original")
	}
	if g.OpenCount() == c.OpenCount() {
		t.Fatal("expected open counts to diverge")
	}
}
