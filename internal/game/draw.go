package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/Garsondee/Small-Subways/internal/metro"
)

const (
	lineWidth      = 6.0
	stationRadius  = 9.0
	passengerSize  = 3.0
	passengersRow  = 6 // queue glyphs per row beside a station
	trainLength    = 22.0
	trainWidth     = 11.0
	capLength      = 14.0
	curveSteps     = 8
	shapeOutlineW  = 2.5
	hubRingPadding = 3.0
)

// shapeOutline returns the polygon for a glyph of radius r centred on the
// origin. Circles return nil and are drawn as real circles.
func shapeOutline(s metro.Shape, r float64) []metro.Point {
	switch s {
	case metro.ShapeCircle:
		return nil
	case metro.ShapeTriangle:
		return regularPolygon(3, r*1.15, -math.Pi/2)
	case metro.ShapeSquare:
		return regularPolygon(4, r*1.2, math.Pi/4)
	case metro.ShapeDiamond:
		return regularPolygon(4, r*1.2, 0)
	case metro.ShapePentagon:
		return regularPolygon(5, r*1.1, -math.Pi/2)
	case metro.ShapeStar:
		pts := make([]metro.Point, 10)
		for i := range pts {
			rad := r * 1.25
			if i%2 == 1 {
				rad = r * 0.55
			}
			a := -math.Pi/2 + float64(i)*math.Pi/5
			pts[i] = metro.Point{X: rad * math.Cos(a), Y: rad * math.Sin(a)}
		}
		return pts
	case metro.ShapeGem:
		return []metro.Point{
			{X: -r * 0.6, Y: -r * 0.8}, {X: r * 0.6, Y: -r * 0.8},
			{X: r, Y: -r * 0.15}, {X: 0, Y: r}, {X: -r, Y: -r * 0.15},
		}
	case metro.ShapeCross:
		a := r * 0.38
		return []metro.Point{
			{X: -a, Y: -r}, {X: a, Y: -r}, {X: a, Y: -a}, {X: r, Y: -a},
			{X: r, Y: a}, {X: a, Y: a}, {X: a, Y: r}, {X: -a, Y: r},
			{X: -a, Y: a}, {X: -r, Y: a}, {X: -r, Y: -a}, {X: -a, Y: -a},
		}
	case metro.ShapeWedge:
		// Half disc, flat side down.
		pts := make([]metro.Point, 0, 13)
		for i := 0; i <= 12; i++ {
			a := math.Pi + float64(i)*math.Pi/12
			pts = append(pts, metro.Point{X: r * 1.1 * math.Cos(a), Y: r*0.5 + r*1.1*math.Sin(a)})
		}
		return pts
	case metro.ShapeOval:
		pts := make([]metro.Point, 24)
		for i := range pts {
			a := float64(i) * 2 * math.Pi / 24
			pts[i] = metro.Point{X: r * 1.25 * math.Cos(a), Y: r * 0.75 * math.Sin(a)}
		}
		return pts
	}
	return nil
}

func regularPolygon(n int, r, rot float64) []metro.Point {
	pts := make([]metro.Point, n)
	for i := range pts {
		a := rot + float64(i)*2*math.Pi/float64(n)
		pts[i] = metro.Point{X: r * math.Cos(a), Y: r * math.Sin(a)}
	}
	return pts
}

// quadPoints samples the quadratic Bézier a→b with control point ctrl,
// including both ends.
func quadPoints(a, ctrl, b metro.Point, steps int) []metro.Point {
	pts := make([]metro.Point, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		u := 1 - t
		pts[i] = metro.Point{
			X: u*u*a.X + 2*u*t*ctrl.X + t*t*b.X,
			Y: u*u*a.Y + 2*u*t*ctrl.Y + t*t*b.Y,
		}
	}
	return pts
}

// routePolyline flattens a route into the points a renderer strokes:
// first leg, rounded corner, second leg.
func routePolyline(r metro.Route) []metro.Point {
	if r.SingleLeg {
		return []metro.Point{r.From, r.To}
	}
	pts := []metro.Point{r.From}
	pts = append(pts, quadPoints(r.CurveStart, r.Meet, r.CurveEnd, curveSteps)...)
	return append(pts, r.To)
}

// trainCorners returns the four corners of a train body centred on pos and
// aligned with its heading.
func trainCorners(pos metro.Point, heading metro.Direction) [4]metro.Point {
	dx, dy := heading.Vector()
	l := math.Hypot(float64(dx), float64(dy))
	fx, fy := float64(dx)/l, float64(dy)/l // forward
	sx, sy := -fy, fx                      // side
	hl, hw := trainLength/2, trainWidth/2
	return [4]metro.Point{
		{X: pos.X + fx*hl + sx*hw, Y: pos.Y + fy*hl + sy*hw},
		{X: pos.X + fx*hl - sx*hw, Y: pos.Y + fy*hl - sy*hw},
		{X: pos.X - fx*hl - sx*hw, Y: pos.Y - fy*hl - sy*hw},
		{X: pos.X - fx*hl + sx*hw, Y: pos.Y - fy*hl + sy*hw},
	}
}

func fillPolygon(dst *ebiten.Image, pts []metro.Point, ox, oy float32, c color.Color) {
	if len(pts) < 3 {
		return
	}
	var path vector.Path
	path.MoveTo(ox+float32(pts[0].X), oy+float32(pts[0].Y))
	for _, p := range pts[1:] {
		path.LineTo(ox+float32(p.X), oy+float32(p.Y))
	}
	path.Close()
	op := &vector.DrawPathOptions{AntiAlias: true}
	op.ColorScale.ScaleWithColor(c)
	vector.FillPath(dst, &path, &vector.FillOptions{}, op)
}

func strokePolyline(dst *ebiten.Image, pts []metro.Point, ox, oy, width float32, c color.Color) {
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		vector.StrokeLine(dst, ox+float32(a.X), oy+float32(a.Y), ox+float32(b.X), oy+float32(b.Y), width, c, true)
	}
	// Round the joints.
	for _, p := range pts {
		vector.FillCircle(dst, ox+float32(p.X), oy+float32(p.Y), width/2, c, true)
	}
}

// drawGlyph draws a filled shape of radius r at (cx, cy).
func drawGlyph(dst *ebiten.Image, s metro.Shape, cx, cy float32, r float64, c color.Color) {
	pts := shapeOutline(s, r)
	if pts == nil {
		vector.FillCircle(dst, cx, cy, float32(r), c, true)
		return
	}
	fillPolygon(dst, pts, cx, cy, c)
}

func drawLinePath(dst *ebiten.Image, p metro.LinePath, c metro.HexColor, ox, oy float32) {
	for _, seg := range p.Segments {
		strokePolyline(dst, routePolyline(seg), ox, oy, lineWidth, c)
	}
	if len(p.Segments) == 0 {
		return
	}
	for _, ec := range []metro.EndCap{p.Head, p.Tail} {
		end := capEnd(ec)
		strokePolyline(dst, []metro.Point{ec.At, end}, ox, oy, lineWidth, c)
		// Crossbar.
		dx, dy := ec.Direction.Vector()
		l := math.Hypot(float64(dx), float64(dy))
		px, py := -float64(dy)/l*capLength/2, float64(dx)/l*capLength/2
		vector.StrokeLine(dst, ox+float32(end.X-px), oy+float32(end.Y-py),
			ox+float32(end.X+px), oy+float32(end.Y+py), lineWidth, c, true)
	}
}

// capEnd is where a terminus stub ends.
func capEnd(ec metro.EndCap) metro.Point {
	dx, dy := ec.Direction.Vector()
	l := math.Hypot(float64(dx), float64(dy))
	return ec.At.Add(float64(dx)/l*capLength, float64(dy)/l*capLength)
}

func drawStation(dst *ebiten.Image, sv metro.StationView, pal metro.MapPalette, ox, oy float32) {
	cx, cy := ox+float32(sv.Position.X), oy+float32(sv.Position.Y)
	if len(sv.Lines) > 1 {
		vector.FillCircle(dst, cx, cy, float32(stationRadius*1.25+hubRingPadding), pal.Ink, true)
		vector.FillCircle(dst, cx, cy, float32(stationRadius*1.25+hubRingPadding-shapeOutlineW), pal.Land, true)
	}
	drawGlyph(dst, sv.Shape, cx, cy, stationRadius, pal.Ink)
	drawGlyph(dst, sv.Shape, cx, cy, stationRadius-shapeOutlineW, pal.Land)
	if sv.Selected {
		vector.StrokeCircle(dst, cx, cy, float32(stationRadius*1.6), 1.5, colornames.Gold, true)
	}

	// Waiting passengers beside the station.
	for i, dest := range sv.Queue {
		col, row := i%passengersRow, i/passengersRow
		px := cx + float32(stationRadius+6+col*int(passengerSize*2+2))
		py := cy - float32(stationRadius) + float32(row)*float32(passengerSize*2+2)
		drawGlyph(dst, dest, px, py, passengerSize, pal.Ink)
	}
}

func drawTrain(dst *ebiten.Image, tv metro.TrainView, c metro.HexColor, land metro.HexColor, ox, oy float32) {
	corners := trainCorners(tv.Position, tv.Heading)
	fillPolygon(dst, corners[:], ox, oy, c)

	// Riders as small glyphs along the body, two rows of three.
	dx, dy := tv.Heading.Vector()
	l := math.Hypot(float64(dx), float64(dy))
	fx, fy := float64(dx)/l, float64(dy)/l
	for i, dest := range tv.Passengers {
		along := (float64(i%3) - 1) * (passengerSize*2 + 1)
		across := (float64(i/3) - 0.5) * (passengerSize*2 + 0.5)
		px := tv.Position.X + fx*along - fy*across
		py := tv.Position.Y + fy*along + fx*across
		drawGlyph(dst, dest, ox+float32(px), oy+float32(py), passengerSize*0.8, land)
	}
}
