package metro

import "math"

// CurveOffset is the distance from a route's meeting point to where the
// drawn corner starts bending, in world units (5 at a 1920 px wide map).
const CurveOffset = 5.0

// Point is a position in world units. Stations sit on whole multiples of
// CellSize; trains move in fractional steps between them.
type Point struct {
	X, Y float64
}

// Add returns p shifted by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Route is the two-leg path a line takes between two stations: one
// orthogonal leg and one 45° leg, meeting at Meet. Either leg may be empty,
// in which case SingleLeg is set and First == Second.
type Route struct {
	From, To   Point
	Meet       Point
	CurveStart Point // where the corner arc leaves the first leg
	CurveEnd   Point // where the corner arc joins the second leg
	First      Direction
	Second     Direction
	Diagonal   bool // diagonal leg first
	SingleLeg  bool
}

// Classify computes the route between two stations. With diagonal false the
// orthogonal leg is taken first; with diagonal true the 45° leg is. When
// |dx| == |dy| the horizontal leg has zero length, so the route collapses to
// a single diagonal leg. A zero dx or dy counts as positive.
//
// Inputs on whole-number coordinates give whole-number outputs: the curve
// offsets scaled by √2 are truncated toward zero.
func Classify(from, to Point, diagonal bool) Route {
	dx := to.X - from.X
	dy := to.Y - from.Y
	adx, ady := math.Abs(dx), math.Abs(dy)
	sx, sy := 1.0, 1.0
	if dx < 0 {
		sx = -1
	}
	if dy < 0 {
		sy = -1
	}
	xLonger := adx >= ady
	diag := directionFromSigns(int(sx), int(sy))
	bend := CurveOffset * math.Sqrt2

	r := Route{From: from, To: to, Diagonal: diagonal}
	if !diagonal {
		r.Second = diag
		if xLonger {
			r.First = directionFromSigns(int(sx), 0)
			r.Meet = Point{X: from.X + sx*(adx-ady), Y: from.Y}
			r.CurveStart = Point{X: math.Trunc(r.Meet.X - sx*bend), Y: r.Meet.Y}
		} else {
			r.First = directionFromSigns(0, int(sy))
			r.Meet = Point{X: from.X, Y: from.Y + sy*(ady-adx)}
			r.CurveStart = Point{X: r.Meet.X, Y: math.Trunc(r.Meet.Y - sy*bend)}
		}
		r.CurveEnd = r.Meet.Add(sx*CurveOffset, sy*CurveOffset)
	} else {
		dist := math.Min(adx, ady)
		r.First = diag
		r.Meet = from.Add(sx*dist, sy*dist)
		r.CurveStart = from.Add(sx*(dist-CurveOffset), sy*(dist-CurveOffset))
		if xLonger {
			r.Second = directionFromSigns(int(sx), 0)
			r.CurveEnd = Point{X: math.Trunc(r.Meet.X + sx*bend), Y: r.Meet.Y}
		} else {
			r.Second = directionFromSigns(0, int(sy))
			r.CurveEnd = Point{X: r.Meet.X, Y: math.Trunc(r.Meet.Y + sy*bend)}
		}
	}

	switch {
	case r.Meet == to:
		r.Second = r.First
		r.SingleLeg = true
	case r.Meet == from:
		r.First = r.Second
		r.SingleLeg = true
	}
	return r
}

// legTarget returns the end point and heading of the leg a traveller at p
// is currently on. The second leg is active once p has covered the first
// leg's extent on both axes.
func (r Route) legTarget(p Point) (Point, Direction) {
	if covered(p, r.From, r.Meet) {
		return r.To, r.Second
	}
	return r.Meet, r.First
}

// covered reports whether p is at least as far from origin as target on
// both axes.
func covered(p, origin, target Point) bool {
	return math.Abs(p.X-origin.X) >= math.Abs(target.X-origin.X) &&
		math.Abs(p.Y-origin.Y) >= math.Abs(target.Y-origin.Y)
}
