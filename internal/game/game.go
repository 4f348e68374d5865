package game

import (
	"fmt"
	"image/color"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/Garsondee/Small-Subways/internal/metro"
)

// borderWidth is the pixel gap between the window edge and the map.
const borderWidth = 24

// hudScale is the integer upscale factor applied to HUD text.
const hudScale = 2

// stationPickRadius is how far from a station centre a click still hits it.
const stationPickRadius = 14.0

// reportTailTicks is how much of the event log the clipboard report includes.
const reportTailTicks = 600

// Game is the ebiten front end. It turns input into simulation requests
// and draws the simulation snapshot each frame.
type Game struct {
	sim *metro.Simulation

	width      int
	height     int
	gameWidth  int // map width in pixels (event panel takes the rest)
	gameHeight int
	offX       int // pixel offset from window left to map left
	offY       int

	events *EventPanel

	// diagonal is the leg order used for the next station added.
	diagonal bool
	showHUD  bool
	// resumeRate is restored when unpausing.
	resumeRate int
	hover      *metro.Station
	notice     string

	// Offscreen buffer for the terrain; redrawn when the grid changes.
	terrainBuf  *ebiten.Image
	terrainOpen int
	// Offscreen buffer for HUD text, rendered at 1x then blitted at hudScale.
	hudBuf *ebiten.Image
	// Offscreen buffer for the station inspector.
	inspBuf *ebiten.Image
}

// New creates the viewer for a running simulation.
func New(sim *metro.Simulation) *Game {
	mapW := metro.GridCols * metro.CellSize
	mapH := metro.GridRows * metro.CellSize
	g := &Game{
		sim:         sim,
		width:       borderWidth + mapW + borderWidth + logPanelWidth,
		height:      borderWidth + mapH + borderWidth,
		gameWidth:   mapW,
		gameHeight:  mapH,
		offX:        borderWidth,
		offY:        borderWidth,
		events:      NewEventPanel(sim.Log),
		showHUD:     true,
		resumeRate:  1,
		terrainOpen: -1,
	}
	g.terrainBuf = ebiten.NewImage(mapW, mapH)
	g.hudBuf = ebiten.NewImage(g.width/hudScale, g.height/hudScale)
	return g
}

func (g *Game) Update() error {
	// Input is handled every frame regardless of sim speed.
	g.handleInput()
	g.sim.Advance()
	return nil
}

// screenToWorld converts window pixels to simulation coordinates.
func (g *Game) screenToWorld(mx, my int) metro.Point {
	return metro.Point{X: float64(mx - g.offX), Y: float64(my - g.offY)}
}

// handleInput maps keys and clicks to simulation requests (edge-triggered).
func (g *Game) handleInput() {
	mx, my := ebiten.CursorPosition()
	hover := g.sim.StationAt(g.screenToWorld(mx, my), stationPickRadius)
	if hover != g.hover {
		if g.hover != nil {
			g.hover.Selected = false
		}
		if hover != nil {
			hover.Selected = true
		}
		g.hover = hover
	}

	cur := g.sim.CurrentLine()

	// Left click: extend the current line. Shift adds at the head.
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && hover != nil {
		atHead := ebiten.IsKeyPressed(ebiten.KeyShift)
		if !g.sim.AddStationToLine(cur.ID(), hover, atHead, g.diagonal) {
			g.notice = fmt.Sprintf("%s already on %s", hover.Label(), cur.Label())
		}
	}
	// Right click: remove from the current line when no train is using it.
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) && hover != nil {
		switch {
		case !cur.Contains(hover):
			g.notice = fmt.Sprintf("%s not on %s", hover.Label(), cur.Label())
		case !g.sim.CanRemoveStation(cur.ID(), hover):
			g.notice = fmt.Sprintf("%s in use by a train", hover.Label())
		default:
			g.sim.RemoveStationFromLine(cur.ID(), hover)
		}
	}

	// 1-7: select a line.
	lineKeys := []ebiten.Key{
		ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4,
		ebiten.Key5, ebiten.Key6, ebiten.Key7,
	}
	for i, k := range lineKeys {
		if inpututil.IsKeyJustPressed(k) && !g.sim.SelectLine(i) {
			g.notice = fmt.Sprintf("L%d is locked", i)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.diagonal = !g.diagonal
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) && !g.sim.AddTrain(cur.ID()) {
		g.notice = fmt.Sprintf("%s needs two stations", cur.Label())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sim.Reset()
		g.hover = nil
		g.terrainOpen = -1
		g.notice = "reset"
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyReport()
	}

	// Speed controls: P=pause/resume, ,=slower, .=faster.
	rate := g.sim.TickRate()
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if rate > 0 {
			g.resumeRate = rate
			g.sim.SetTickRate(0)
		} else {
			g.sim.SetTickRate(g.resumeRate)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyComma) {
		g.sim.SetTickRate(rate - 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		g.sim.SetTickRate(rate + 1)
	}
}

// copyReport puts the window summary, the latest sample and the recent
// event log on the clipboard.
func (g *Game) copyReport() {
	if err := clipboard.WriteAll(g.report()); err != nil {
		g.notice = "clipboard: " + err.Error()
		return
	}
	g.notice = "report copied"
}

func (g *Game) report() string {
	tick := g.sim.CurrentTick()
	return fmt.Sprintf("level=%s seed=%d\n%s%s--- Events T=%d..%d ---\n%s",
		g.sim.Level.Name, g.sim.Seed(),
		g.sim.Reporter.WindowSummary().Format(),
		g.sim.Reporter.FormatLatest(),
		max(tick-reportTailTicks, 0), tick,
		g.sim.Log.FormatRange(tick-reportTailTicks, tick))
}

func (g *Game) Draw(screen *ebiten.Image) {
	pal := g.sim.Level.Map
	screen.Fill(colornames.Black)

	if open := g.sim.Grid.OpenCount(); open != g.terrainOpen {
		g.drawTerrain(g.terrainBuf, pal)
		g.terrainOpen = open
	}
	var blit ebiten.DrawImageOptions
	blit.GeoM.Translate(float64(g.offX), float64(g.offY))
	screen.DrawImage(g.terrainBuf, &blit)

	snap := g.sim.Snapshot()
	ox, oy := float32(g.offX), float32(g.offY)
	for _, lv := range snap.Lines {
		if !lv.Locked {
			drawLinePath(screen, lv.Path, lv.Colour, ox, oy)
		}
	}
	for _, tv := range snap.Trains {
		drawTrain(screen, tv, snap.Lines[tv.LineID].Colour, pal.Land, ox, oy)
	}
	for _, sv := range snap.Stations {
		drawStation(screen, sv, pal, ox, oy)
	}

	// Map border frame.
	gw, gh := float32(g.gameWidth), float32(g.gameHeight)
	vector.StrokeRect(screen, ox-1, oy-1, gw+2, gh+2, 2.0, pal.Ink, false)

	logX := g.offX + g.gameWidth + g.offX
	g.events.Draw(screen, logX, g.height, snap.Lines)

	if g.showHUD {
		g.drawHUD(screen, snap)
	}
	g.drawInspector(screen)
}

// drawTerrain paints every cell in the level palette.
func (g *Game) drawTerrain(dst *ebiten.Image, pal metro.MapPalette) {
	dst.Fill(pal.Land)
	cs := float32(metro.CellSize)
	for row := 0; row < g.sim.Grid.Rows; row++ {
		for col := 0; col < g.sim.Grid.Cols; col++ {
			c, ok := cellColour(g.sim.Grid.At(col, row), pal)
			if !ok {
				continue
			}
			// Cells are centred on their station position.
			vector.FillRect(dst, float32(col)*cs-cs/2, float32(row)*cs-cs/2, cs, cs, c, false)
		}
	}
	grid := color.RGBA(pal.Accent)
	grid.A = 24
	drawGridOffset(dst, -metro.CellSize/2, -metro.CellSize/2, g.gameWidth+metro.CellSize, g.gameHeight+metro.CellSize, metro.CellSize, grid)
}

// cellColour maps a cell class to its palette colour. Land cells report
// false since the buffer is already filled with land. Station buffers are
// drawn as built-up area.
func cellColour(c metro.CellClass, pal metro.MapPalette) (color.Color, bool) {
	switch c {
	case metro.CellWater:
		return pal.Water, true
	case metro.CellCity, metro.CellTaken:
		return pal.City, true
	default:
		return nil, false
	}
}

// drawHUD renders status and key hints in the bottom-left corner.
// Text is drawn into hudBuf at 1x then composited at hudScale.
func (g *Game) drawHUD(screen *ebiten.Image, snap metro.Snapshot) {
	cur := g.sim.CurrentLine()
	order := "straight-first"
	if g.diagonal {
		order = "diagonal-first"
	}
	lines := []string{
		fmt.Sprintf("%s  T=%d  score=%d  %s", snap.Level, snap.Tick, snap.Score, speedLabel(snap.TickRate)),
		fmt.Sprintf("line %s  stations=%d trains=%d  [D] %s", cur.Label(), cur.Len(), len(cur.Trains()), order),
		"click=add  shift+click=add at head  right=remove",
		"1-7=line  T=train  P=pause  ,/.=speed",
		"R=reset  C=copy report  H=hide",
	}
	if g.notice != "" {
		lines = append(lines, "> "+g.notice)
	}

	const lineH = 12 // debug font line height at 1x
	const charW = 6  // debug font char width at 1x
	const padX = 5
	const padY = 4
	const swatch = 10

	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	boxW := float32(max(maxLen*charW, len(snap.Lines)*(swatch+4)) + padX*2)
	boxH := float32((len(lines)+1)*lineH + padY*2)

	bufH := float32(g.height / hudScale)
	bx := float32(4)
	by := bufH - boxH - 4

	g.hudBuf.Clear()
	vector.FillRect(g.hudBuf, bx, by, boxW, boxH, color.RGBA{R: 12, G: 12, B: 16, A: 210}, false)
	vector.StrokeRect(g.hudBuf, bx, by, boxW, boxH, 1.0, colornames.Dimgray, false)

	for i, line := range lines {
		ebitenutil.DebugPrintAt(g.hudBuf, line, int(bx)+padX, int(by)+padY+i*lineH)
	}

	// Line swatches: locked lines in the level's locked colour.
	sy := by + float32(padY+len(lines)*lineH+1)
	for i, lv := range snap.Lines {
		sx := bx + padX + float32(i*(swatch+4))
		var c color.Color = lv.Colour
		if lv.Locked {
			c = g.sim.Level.Locked
		}
		vector.FillRect(g.hudBuf, sx, sy, swatch, swatch, c, false)
		if i == snap.CurrentLine {
			vector.StrokeRect(g.hudBuf, sx-1, sy-1, swatch+2, swatch+2, 1, colornames.White, false)
		}
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(hudScale), float64(hudScale))
	screen.DrawImage(g.hudBuf, opts)
}

func speedLabel(rate int) string {
	if rate == 0 {
		return "PAUSED"
	}
	return fmt.Sprintf("%dx", rate)
}

func drawGridOffset(screen *ebiten.Image, offX, offY, w, h, spacing int, c color.Color) {
	if spacing <= 0 {
		return
	}
	ox, oy := float32(offX), float32(offY)
	for x := 0; x <= w; x += spacing {
		xf := ox + float32(x)
		vector.StrokeLine(screen, xf, oy, xf, oy+float32(h), 1.0, c, false)
	}
	for y := 0; y <= h; y += spacing {
		yf := oy + float32(y)
		vector.StrokeLine(screen, ox, yf, ox+float32(w), yf, 1.0, c, false)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// GameWidth returns the map width (excluding the event panel).
func (g *Game) GameWidth() int {
	return g.gameWidth
}
