package metro

// Direction is one of the eight ways a line can leave a station.
// Screen coordinates: y grows downward.
type Direction uint8

const (
	DirUp Direction = iota
	DirDown
	DirLeftUp
	DirLeft
	DirLeftDown
	DirRightUp
	DirRight
	DirRightDown
	directionCount // sentinel
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeftUp:
		return "left_up"
	case DirLeft:
		return "left"
	case DirLeftDown:
		return "left_down"
	case DirRightUp:
		return "right_up"
	case DirRight:
		return "right"
	case DirRightDown:
		return "right_down"
	default:
		return "unknown"
	}
}

// Vector returns the unit grid step for the direction.
func (d Direction) Vector() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeftUp:
		return -1, -1
	case DirLeft:
		return -1, 0
	case DirLeftDown:
		return -1, 1
	case DirRightUp:
		return 1, -1
	case DirRight:
		return 1, 0
	case DirRightDown:
		return 1, 1
	default:
		return 0, 0
	}
}

// Diagonal reports whether the direction is a 45° one.
func (d Direction) Diagonal() bool {
	dx, dy := d.Vector()
	return dx != 0 && dy != 0
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	dx, dy := d.Vector()
	return directionFromSigns(-dx, -dy)
}

// directionFromSigns maps a (sx, sy) step to its Direction. A zero step maps
// to DirRight so callers never see an out-of-range value.
func directionFromSigns(sx, sy int) Direction {
	switch {
	case sx > 0 && sy > 0:
		return DirRightDown
	case sx > 0 && sy < 0:
		return DirRightUp
	case sx > 0:
		return DirRight
	case sx < 0 && sy > 0:
		return DirLeftDown
	case sx < 0 && sy < 0:
		return DirLeftUp
	case sx < 0:
		return DirLeft
	case sy > 0:
		return DirDown
	case sy < 0:
		return DirUp
	default:
		return DirRight
	}
}
