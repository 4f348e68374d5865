package metro

import (
	"math"
	"math/rand"
)

// TerrainConfig tunes procedural map generation for levels without a map
// image. Scales are noise frequencies in cycles per cell.
type TerrainConfig struct {
	WaterScale float64
	CityScale  float64

	WaterThreshold float64 // water noise below this is water
	CityThreshold  float64 // city noise (after centre bias) above this is city

	// CentreBias pulls city cells toward the middle of the map. 0 disables it.
	CentreBias float64
}

// DefaultTerrainConfig gives a river-and-lakes map with a central city.
var DefaultTerrainConfig = TerrainConfig{
	WaterScale: 0.07,
	CityScale:  0.09,

	WaterThreshold: 0.28,
	CityThreshold:  0.42,

	CentreBias: 0.35,
}

// GenerateTerrain reclassifies every cell of g as water, country or city
// from value noise, then reapplies the margin. Stations already placed are
// not known to the grid, so call it before any placement.
func GenerateTerrain(g *Grid, rng *rand.Rand, cfg TerrainConfig) {
	waterSeed := rng.Int63()
	citySeed := rng.Int63()

	cx, cy := float64(g.Cols-1)/2, float64(g.Rows-1)/2
	maxDist := math.Hypot(cx, cy)

	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			x, y := float64(col), float64(row)

			water := fractalNoise(x*cfg.WaterScale, y*cfg.WaterScale, waterSeed)
			if water < cfg.WaterThreshold {
				g.cells[row*g.Cols+col] = CellWater
				continue
			}

			city := fractalNoise(x*cfg.CityScale, y*cfg.CityScale, citySeed)
			d := math.Hypot(x-cx, y-cy) / maxDist
			city += cfg.CentreBias * (0.5 - d)
			if city > cfg.CityThreshold {
				g.cells[row*g.Cols+col] = CellCity
			} else {
				g.cells[row*g.Cols+col] = CellCountry
			}
		}
	}
	g.ApplyMargin()
}

// fractalNoise sums two octaves of value noise, normalised to [0,1].
func fractalNoise(x, y float64, seed int64) float64 {
	return (valueNoise2D(x, y, seed)*2 + valueNoise2D(x*2, y*2, seed^0x5bd1e995)) / 3
}

// valueNoise2D returns a smooth noise value in [0,1] for the given coordinates.
// Uses lattice-based value noise with hermite interpolation.
func valueNoise2D(x, y float64, seed int64) float64 {
	xi := int(math.Floor(x))
	yi := int(math.Floor(y))
	xf := x - float64(xi)
	yf := y - float64(yi)

	u := xf * xf * (3 - 2*xf)
	v := yf * yf * (3 - 2*yf)

	n00 := latticeValue(xi, yi, seed)
	n10 := latticeValue(xi+1, yi, seed)
	n01 := latticeValue(xi, yi+1, seed)
	n11 := latticeValue(xi+1, yi+1, seed)

	nx0 := n00*(1-u) + n10*u
	nx1 := n01*(1-u) + n11*u
	return nx0*(1-v) + nx1*v
}

// latticeValue returns a pseudo-random value in [0,1] for integer coordinates.
func latticeValue(x, y int, seed int64) float64 {
	h := uint64(seed)
	h ^= uint64(x) * 0x517cc1b727220a95
	h ^= uint64(y) * 0x6c62272e07bb0142
	h = h*0x2545f4914f6cdd1d + 0x14057b7ef767814f
	h ^= h >> 16
	h *= 0xd6e8feb86659fd93
	h ^= h >> 16
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}
