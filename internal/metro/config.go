package metro

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Fixed train parameters.
const (
	TrainCapacity = 6   // passengers on board
	DwellTicks    = 100 // ticks a train waits at a stop

	// DiagonalSpeed is the per-axis step on 45° legs, in world units per tick.
	DiagonalSpeed = 0.5
)

// StraightSpeed is the step on orthogonal legs, chosen so a train covers
// the same distance per tick in every direction.
var StraightSpeed = DiagonalSpeed * math.Sqrt2

// BoardingPolicy decides who gets on when nobody waiting can reach their
// destination on the arriving train's line.
type BoardingPolicy uint8

const (
	// BoardRelaxed lets stranded passengers ride along, still within
	// capacity, unless another line at the station serves them.
	BoardRelaxed BoardingPolicy = iota
	// BoardStrict only boards passengers whose destination lies ahead.
	BoardStrict
)

func (p BoardingPolicy) String() string {
	if p == BoardStrict {
		return "strict"
	}
	return "relaxed"
}

// ParseBoardingPolicy accepts "relaxed" or "strict".
func ParseBoardingPolicy(s string) (BoardingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "relaxed", "":
		return BoardRelaxed, nil
	case "strict":
		return BoardStrict, nil
	}
	return 0, errors.Errorf("unknown boarding policy %q", s)
}

// SimConfig holds the tunables of a simulation.
type SimConfig struct {
	Policy BoardingPolicy

	SpawnStations        bool
	StationCheckInterval int // ticks between station spawn rolls
	StationSpawnOdds     int // 1-in-N chance per roll
	CountryOdds          int // country cells accepted 1-in-N
	PlacementAttempts    int // cell samples before giving up

	SpawnPassengers        bool
	PassengerBaseInterval  int // starting ticks between rolls per station
	PassengerMinInterval   int
	PassengerIntervalDecay int // the interval shrinks by one every N ticks
	PassengerSpawnOdds     int

	StartShapes  []Shape // one station of each at level start
	InitialLines int     // lines unlocked at start
	WeekTicks    int     // ticks between line unlocks, 0 disables

	ReportInterval int // ticks between reporter samples, 0 disables
	VerboseLog     bool
	LogLimit       int // events retained by the log, 0 keeps all
}

// DefaultSimConfig mirrors the pacing of the original game.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Policy: BoardRelaxed,

		SpawnStations:        true,
		StationCheckInterval: 120,
		StationSpawnOdds:     15,
		CountryOdds:          10,
		PlacementAttempts:    100_000,

		SpawnPassengers:        true,
		PassengerBaseInterval:  200,
		PassengerMinInterval:   50,
		PassengerIntervalDecay: 1000,
		PassengerSpawnOdds:     15,

		StartShapes:  []Shape{ShapeCircle, ShapeTriangle, ShapeSquare},
		InitialLines: 3,
		WeekTicks:    6000,

		ReportInterval: 100,
	}
}

// passengerInterval is the per-station spawn interval at the given tick.
func (c SimConfig) passengerInterval(tick int) int {
	iv := c.PassengerBaseInterval
	if c.PassengerIntervalDecay > 0 {
		iv -= tick / c.PassengerIntervalDecay
	}
	return max(iv, c.PassengerMinInterval)
}
