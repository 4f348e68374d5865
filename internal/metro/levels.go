package metro

import (
	_ "embed"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed levels.yaml
var builtinLevels []byte

// HexColor is an opaque colour written as "#RRGGBB" in level files.
type HexColor color.RGBA

// RGBA implements color.Color.
func (c HexColor) RGBA() (r, g, b, a uint32) {
	return color.RGBA(c).RGBA()
}

// ParseHexColor parses "#RRGGBB" (the leading # is optional).
func ParseHexColor(s string) (HexColor, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return HexColor{}, errors.Errorf("colour %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return HexColor{}, errors.Wrapf(err, "colour %q", s)
	}
	return HexColor{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func (c HexColor) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *HexColor) UnmarshalText(b []byte) error {
	v, err := ParseHexColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c HexColor) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// WaterTravel is how a level's lines cross water.
type WaterTravel uint8

const (
	WaterBridges WaterTravel = iota
	WaterTunnels
)

func (w WaterTravel) String() string {
	if w == WaterTunnels {
		return "tunnels"
	}
	return "bridges"
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *WaterTravel) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "bridges":
		*w = WaterBridges
	case "tunnels":
		*w = WaterTunnels
	default:
		return errors.Errorf("unknown water travel %q", string(b))
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (w WaterTravel) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// MapPalette holds the five colours of a level's map art.
type MapPalette struct {
	Land   HexColor `yaml:"land"`
	City   HexColor `yaml:"city"`
	Accent HexColor `yaml:"accent"`
	Water  HexColor `yaml:"water"`
	Ink    HexColor `yaml:"ink"`
}

// Level is one playable city.
type Level struct {
	Name        string      `yaml:"name"`
	Country     string      `yaml:"country"`
	WaterTravel WaterTravel `yaml:"waterTravel"`
	Lines       []HexColor  `yaml:"lines"`
	Map         MapPalette  `yaml:"map"`
	Locked      HexColor    `yaml:"locked"`

	// Shapes limits the shapes new stations may take. Empty means all.
	Shapes []Shape `yaml:"shapes,omitempty"`

	// Image is an optional path to map art, resolved by the caller.
	Image string `yaml:"image,omitempty"`
}

// SpawnShapes returns the shapes new stations on this level may take.
func (l Level) SpawnShapes() []Shape {
	if len(l.Shapes) == 0 {
		return AllShapes()
	}
	return l.Shapes
}

type levelFile struct {
	Levels []Level `yaml:"levels"`
}

// LoadLevels parses a level catalogue.
func LoadLevels(r io.Reader) ([]Level, error) {
	var f levelFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(err, "decode levels")
	}
	if len(f.Levels) == 0 {
		return nil, errors.New("level catalogue is empty")
	}
	seen := make(map[string]bool, len(f.Levels))
	for i, l := range f.Levels {
		if l.Name == "" {
			return nil, errors.Errorf("level %d has no name", i)
		}
		key := strings.ToLower(l.Name)
		if seen[key] {
			return nil, errors.Errorf("duplicate level %q", l.Name)
		}
		seen[key] = true
		if len(l.Lines) == 0 {
			return nil, errors.Errorf("level %q has no line colours", l.Name)
		}
		for _, s := range l.Shapes {
			if !s.Valid() {
				return nil, errors.Errorf("level %q has an invalid shape", l.Name)
			}
		}
	}
	return f.Levels, nil
}

// DefaultLevels returns the built-in catalogue.
func DefaultLevels() []Level {
	levels, err := LoadLevels(strings.NewReader(string(builtinLevels)))
	if err != nil {
		panic(errors.Wrap(err, "builtin levels"))
	}
	return levels
}

// FindLevel looks a level up by name, ignoring case.
func FindLevel(levels []Level, name string) (Level, bool) {
	for _, l := range levels {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return Level{}, false
}
