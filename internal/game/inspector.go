package game

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Small-Subways/internal/metro"
)

// Inspector panel, rendered into an offscreen buffer at 1x then blitted at inspScale.
const (
	inspScale = 2
	inspBufW  = 200
	inspBufH  = 120
	inspPad   = 4
	inspLineH = 13
)

// stationDetails lists what the inspector shows for a station.
func stationDetails(st *metro.Station) []string {
	col, row := st.Cell()
	out := []string{
		fmt.Sprintf("[ %s %s ]", st.Label(), st.Shape()),
		fmt.Sprintf("cell: (%d,%d)", col, row),
	}
	var lines []string
	for _, id := range st.LineIDs() {
		mode := "straight"
		if st.Diagonal(id) {
			mode = "diagonal"
		}
		lines = append(lines, fmt.Sprintf("L%d/%s", id, mode))
	}
	if len(lines) == 0 {
		out = append(out, "lines: none")
	} else {
		out = append(out, "lines: "+strings.Join(lines, " "))
	}

	counts := make(map[metro.Shape]int)
	for _, p := range st.Queue() {
		counts[p.Destination()]++
	}
	out = append(out, fmt.Sprintf("waiting: %d", st.QueueLen()))
	for _, s := range metro.AllShapes() {
		if n := counts[s]; n > 0 {
			out = append(out, fmt.Sprintf("  -> %-8s %d", s, n))
		}
	}
	return out
}

// drawInspector shows details for the station under the cursor.
func (g *Game) drawInspector(screen *ebiten.Image) {
	st := g.hover
	if st == nil {
		return
	}
	if g.inspBuf == nil {
		g.inspBuf = ebiten.NewImage(inspBufW, inspBufH)
	}
	buf := g.inspBuf
	buf.Clear()

	bw, bh := float32(inspBufW), float32(inspBufH)
	border := color.RGBA{R: 70, G: 70, B: 90, A: 255}
	vector.FillRect(buf, 0, 0, bw, bh, color.RGBA{R: 14, G: 14, B: 18, A: 230}, false)
	vector.StrokeRect(buf, 0, 0, bw, bh, 1.0, border, false)

	ly := inspPad
	for i, line := range stationDetails(st) {
		if ly+inspLineH > inspBufH {
			break
		}
		ebitenutil.DebugPrintAt(buf, line, inspPad, ly)
		ly += inspLineH
		if i == 0 {
			vector.StrokeLine(buf, inspPad, float32(ly), bw-inspPad, float32(ly), 1.0, border, false)
			ly += 3
		}
	}

	// Bottom-right of the map.
	px := g.offX + g.gameWidth - inspBufW*inspScale - 8
	py := g.offY + g.gameHeight - inspBufH*inspScale - 8
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(inspScale, inspScale)
	opts.GeoM.Translate(float64(px), float64(py))
	screen.DrawImage(buf, opts)
}
