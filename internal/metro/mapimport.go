package metro

import (
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"math/rand"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// LoadMapImage decodes a PNG or JPEG map.
func LoadMapImage(path string) (image.Image, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return nil, errors.Wrap(err, "open map image")
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode map image %s", path)
	}
	return img, nil
}

// ImportMap builds a grid from map art drawn in the level palette. The image
// is scaled to one pixel per cell and each pixel is matched to the nearest
// palette colour: water becomes water, city becomes city, anything else is
// country. The margin is applied last.
func ImportMap(img image.Image, pal MapPalette) (*Grid, error) {
	if img == nil {
		return nil, errors.New("import map: nil image")
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, errors.Errorf("import map: empty image %v", b)
	}

	small := image.NewRGBA(image.Rect(0, 0, GridCols, GridRows))
	draw.NearestNeighbor.Scale(small, small.Bounds(), img, img.Bounds(), draw.Src, nil)

	swatches := []struct {
		c     HexColor
		class CellClass
	}{
		{pal.Land, CellCountry},
		{pal.City, CellCity},
		{pal.Accent, CellCountry},
		{pal.Water, CellWater},
		{pal.Ink, CellCountry},
	}

	g := newFilledGrid(GridCols, GridRows, CellCountry)
	for row := 0; row < GridRows; row++ {
		for col := 0; col < GridCols; col++ {
			px := small.RGBAAt(col, row)
			best, bestDist := CellCountry, -1
			for _, s := range swatches {
				if d := colourDistance(px, color.RGBA(s.c)); bestDist < 0 || d < bestDist {
					best, bestDist = s.class, d
				}
			}
			g.cells[row*GridCols+col] = best
		}
	}
	g.ApplyMargin()
	return g, nil
}

func colourDistance(a, b color.RGBA) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// BuildGrid returns the starting map for a level: the image at mapPath,
// else the level's own image, else terrain generated from seed.
func BuildGrid(level Level, mapPath string, seed int64) (*Grid, error) {
	if mapPath == "" {
		mapPath = level.Image
	}
	if mapPath == "" {
		g := NewGrid()
		GenerateTerrain(g, rand.New(rand.NewSource(seed)), DefaultTerrainConfig) // #nosec G404 -- map noise, not security
		return g, nil
	}
	img, err := LoadMapImage(mapPath)
	if err != nil {
		return nil, err
	}
	g, err := ImportMap(img, level.Map)
	if err != nil {
		return nil, errors.Wrapf(err, "level %s", level.Name)
	}
	return g, nil
}
