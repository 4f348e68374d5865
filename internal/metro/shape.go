package metro

import (
	"strings"

	"github.com/pkg/errors"
)

// Shape is the glyph of a station and the destination of a passenger.
type Shape uint8

const (
	ShapeCircle Shape = iota
	ShapeTriangle
	ShapeSquare
	ShapeStar
	ShapePentagon
	ShapeGem
	ShapeCross
	ShapeWedge
	ShapeDiamond
	ShapeOval
	shapeCount // sentinel
)

var shapeNames = [shapeCount]string{
	ShapeCircle:   "circle",
	ShapeTriangle: "triangle",
	ShapeSquare:   "square",
	ShapeStar:     "star",
	ShapePentagon: "pentagon",
	ShapeGem:      "gem",
	ShapeCross:    "cross",
	ShapeWedge:    "wedge",
	ShapeDiamond:  "diamond",
	ShapeOval:     "oval",
}

func (s Shape) String() string {
	if s >= shapeCount {
		return "unknown"
	}
	return shapeNames[s]
}

// Valid reports whether s is one of the ten defined shapes.
func (s Shape) Valid() bool {
	return s < shapeCount
}

// AllShapes returns every shape in declaration order.
func AllShapes() []Shape {
	out := make([]Shape, 0, shapeCount)
	for s := Shape(0); s < shapeCount; s++ {
		out = append(out, s)
	}
	return out
}

// ParseShape converts a shape name (case-insensitive) to a Shape.
func ParseShape(name string) (Shape, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s := Shape(0); s < shapeCount; s++ {
		if shapeNames[s] == name {
			return s, true
		}
	}
	return 0, false
}

// UnmarshalText lets shapes be written by name in level files.
func (s *Shape) UnmarshalText(b []byte) error {
	v, ok := ParseShape(string(b))
	if !ok {
		return errors.Errorf("unknown shape %q", string(b))
	}
	*s = v
	return nil
}

// MarshalText writes the shape name.
func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
