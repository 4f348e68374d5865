package metro

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// paintedMap draws a 160×90 image: left half water, a city block on the
// right, land elsewhere. Colours are slightly off-palette on purpose.
func paintedMap(pal MapPalette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 160, 90))
	near := func(c HexColor) color.RGBA {
		r := color.RGBA(c)
		if r.R < 250 {
			r.R += 3
		}
		return r
	}
	for y := 0; y < 90; y++ {
		for x := 0; x < 160; x++ {
			switch {
			case x < 80:
				img.SetRGBA(x, y, near(pal.Water))
			case x >= 100 && x < 140 && y >= 20 && y < 70:
				img.SetRGBA(x, y, near(pal.City))
			default:
				img.SetRGBA(x, y, near(pal.Land))
			}
		}
	}
	return img
}

func TestImportMap_ClassifiesByPalette(t *testing.T) {
	lvl, _ := FindLevel(DefaultLevels(), "Montserrat")
	g, err := ImportMap(paintedMap(lvl.Map), lvl.Map)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cases := []struct {
		col, row int
		want     CellClass
	}{
		{0, 0, CellMargin},
		{10, 20, CellWater},
		{39, 20, CellWater},
		{60, 20, CellCity},
		{45, 20, CellCountry},
		{75, 40, CellCountry},
		{79, 44, CellMargin},
	}
	for _, c := range cases {
		if got := g.At(c.col, c.row); got != c.want {
			t.Fatalf("cell (%d,%d): expected %s, got %s", c.col, c.row, c.want, got)
		}
	}
	if g.OpenCount() == 0 {
		t.Fatal("expected spawnable cells")
	}
}

func TestImportMap_RejectsEmpty(t *testing.T) {
	if _, err := ImportMap(nil, MapPalette{}); err == nil {
		t.Fatal("expected error for nil image")
	}
	if _, err := ImportMap(image.NewRGBA(image.Rect(0, 0, 0, 0)), MapPalette{}); err == nil {
		t.Fatal("expected error for empty image")
	}
}

func TestLoadMapImage(t *testing.T) {
	lvl, _ := FindLevel(DefaultLevels(), "Ottawa")
	path := filepath.Join(t.TempDir(), "map.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, paintedMap(lvl.Map)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, err := LoadMapImage(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Bounds().Dx() != 160 {
		t.Fatalf("expected width 160, got %d", img.Bounds().Dx())
	}
	if _, err := LoadMapImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestBuildGrid(t *testing.T) {
	lvl, _ := FindLevel(DefaultLevels(), "Montserrat")

	a, err := BuildGrid(lvl, "", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := BuildGrid(lvl, "", 5)
	if diff := cmp.Diff(a.cells, b.cells); diff != "" {
		t.Fatalf("terrain differs for one seed (-a +b):\n%s", diff)
	}
	nonCity := 0
	for row := marginCells; row < GridRows-marginCells; row++ {
		for col := marginCells; col < GridCols-marginCells; col++ {
			if a.At(col, row) != CellCity {
				nonCity++
			}
		}
	}
	if nonCity == 0 {
		t.Fatal("expected generated terrain rather than the all-city default")
	}

	path := filepath.Join(t.TempDir(), "map.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, paintedMap(lvl.Map)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	lvl.Image = path
	g, err := BuildGrid(lvl, "", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.At(5, 20) != CellWater {
		t.Fatalf("expected the level image to be used, got %s at (5,20)", g.At(5, 20))
	}
	if _, err := BuildGrid(lvl, filepath.Join(t.TempDir(), "missing.png"), 5); err == nil {
		t.Fatal("expected error for a missing map path")
	}
}
