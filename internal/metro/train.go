package metro

import "fmt"

// Train shuttles along its line, bouncing at the termini. from and to are
// always adjacent on the line, in travel order.
type Train struct {
	line      *Line
	index     int
	from, to  *Station
	forward   bool
	pos       Point
	heading   Direction
	onboard   []Passenger
	waiting   bool
	waitStart int
}

func newTrain(l *Line, index int) *Train {
	t := &Train{
		line:    l,
		index:   index,
		from:    l.stations[0],
		to:      l.stations[1],
		forward: true,
		pos:     l.stations[0].pos,
	}
	t.heading = Classify(t.from.pos, t.to.pos, t.segmentDiagonal()).First
	return t
}

func (t *Train) Line() *Line          { return t.line }
func (t *Train) From() *Station       { return t.from }
func (t *Train) To() *Station         { return t.to }
func (t *Train) Forward() bool        { return t.forward }
func (t *Train) Position() Point      { return t.pos }
func (t *Train) Heading() Direction   { return t.heading }
func (t *Train) Waiting() bool        { return t.waiting }
func (t *Train) Load() int            { return len(t.onboard) }
func (t *Train) Label() string        { return fmt.Sprintf("L%dT%d", t.line.id, t.index) }
func (t *Train) segmentRoute() Route  { return Classify(t.from.pos, t.to.pos, t.segmentDiagonal()) }
func (t *Train) arrived() bool        { return covered(t.pos, t.from.pos, t.to.pos) }

// Onboard returns a copy of the passengers riding.
func (t *Train) Onboard() []Passenger {
	out := make([]Passenger, len(t.onboard))
	copy(out, t.onboard)
	return out
}

// segmentDiagonal is the flag for the current segment. Running backward
// the flag is inverted so the train retraces the drawn path.
func (t *Train) segmentDiagonal() bool {
	if t.forward {
		return t.to.Diagonal(t.line.id)
	}
	return !t.from.Diagonal(t.line.id)
}

// Update runs one tick of the train.
//
//	travelling → arrived → exchange → (dwell DwellTicks) → next segment
//
// A stop with no exchange at a through station is passed without dwelling.
func (t *Train) Update(sim *Simulation) {
	if len(t.line.stations) < 2 {
		return
	}
	if !t.anchored() {
		t.reanchor(sim)
	}

	if t.waiting {
		if sim.tick-t.waitStart < DwellTicks {
			return
		}
		t.waiting = false
		t.advance(sim)
	} else if t.arrived() {
		t.pos = t.to.pos
		if t.exchange(sim) {
			t.waiting = true
			t.waitStart = sim.tick
			sim.Log.Add(sim.tick, t.Label(), catTrain, "arrive", t.to.Label(), float64(len(t.onboard)))
			return
		}
		t.advance(sim)
	}
	t.move()
}

// exchange handles drop-off, transfers and boarding at t.to. It reports
// whether the train should dwell.
func (t *Train) exchange(sim *Simulation) bool {
	l := t.line
	st := t.to
	idx := l.IndexOf(st)
	last := len(l.stations) - 1
	exchanged := false

	// 1. Drop off.
	kept := t.onboard[:0]
	for _, p := range t.onboard {
		if p.dest == st.shape {
			sim.deliver(t, st)
			exchanged = true
			continue
		}
		kept = append(kept, p)
	}
	t.onboard = kept

	// Direction the train will leave in.
	forward := (t.forward && idx != last) || idx == 0

	// Only passengers already waiting may board; transfers go behind them.
	waiting := len(st.queue)

	// 2. Transfer at hubs when nothing ahead on this line helps.
	if st.IsHub() {
		kept = t.onboard[:0]
		for _, p := range t.onboard {
			if l.servesAhead(idx, forward, p.dest) {
				kept = append(kept, p)
				continue
			}
			st.Enqueue(p)
			exchanged = true
			sim.Log.Add(sim.tick, t.Label(), catPassenger, "transfer", st.Label()+" "+p.dest.String(), 0)
		}
		t.onboard = kept
	}

	// 3. Board.
	if waiting > 0 && len(t.onboard) < TrainCapacity {
		taken := make([]bool, waiting)
		board := func(i int) {
			t.onboard = append(t.onboard, st.queue[i])
			taken[i] = true
			exchanged = true
			sim.Log.Add(sim.tick, t.Label(), catPassenger, "board", st.Label()+" "+st.queue[i].dest.String(), 0)
		}
		for i := 0; i < waiting && len(t.onboard) < TrainCapacity; i++ {
			if l.servesAhead(idx, forward, st.queue[i].dest) {
				board(i)
			}
		}
		if sim.Config.Policy == BoardRelaxed {
			for i := 0; i < waiting && len(t.onboard) < TrainCapacity; i++ {
				if !taken[i] && !sim.servedElsewhere(st, l, st.queue[i].dest) {
					board(i)
				}
			}
		}
		queue := st.queue[:0]
		for i, p := range st.queue {
			if i >= waiting || !taken[i] {
				queue = append(queue, p)
			}
		}
		st.queue = queue
	}

	// 4. Termini always dwell.
	return exchanged || idx == 0 || idx == last
}

// advance moves the train onto the next segment, bouncing at a terminus.
func (t *Train) advance(sim *Simulation) {
	l := t.line
	idx := l.IndexOf(t.to)
	last := len(l.stations) - 1
	if (t.forward && idx == last) || (!t.forward && idx == 0) {
		t.forward = !t.forward
		sim.Log.Add(sim.tick, t.Label(), catTrain, "bounce", t.to.Label(), 0)
	}
	t.from = t.to
	if t.forward {
		t.to = l.stations[idx+1]
	} else {
		t.to = l.stations[idx-1]
	}
	t.pos = t.from.pos
	sim.Log.AddVerbose(sim.tick, t.Label(), catTrain, "depart", t.from.Label()+"→"+t.to.Label(), 0)
}

// move steps the train along the active leg of its segment. Each axis is
// clamped at the leg's end so the train lands exactly on the meeting point
// and the station. On orthogonal legs the cross axis is pinned to the leg.
func (t *Train) move() {
	target, dir := t.segmentRoute().legTarget(t.pos)
	t.heading = dir
	speed := StraightSpeed
	if dir.Diagonal() {
		speed = DiagonalSpeed
	}
	vx, vy := dir.Vector()
	t.pos.X = stepToward(t.pos.X, vx, speed, target.X)
	t.pos.Y = stepToward(t.pos.Y, vy, speed, target.Y)
}

func stepToward(cur float64, v int, speed, target float64) float64 {
	if v == 0 {
		return target
	}
	next := cur + float64(v)*speed
	if (v > 0 && next > target) || (v < 0 && next < target) {
		return target
	}
	return next
}

// anchored reports whether from and to are still adjacent on the line in
// the travel direction.
func (t *Train) anchored() bool {
	fi, ti := t.line.IndexOf(t.from), t.line.IndexOf(t.to)
	if fi < 0 || ti < 0 {
		return false
	}
	if t.forward {
		return ti == fi+1
	}
	return ti == fi-1
}

// reanchor repairs a train whose segment was broken by a station removal.
// It keeps heading for to when it can, otherwise leaves from, otherwise
// restarts at the head of the line.
func (t *Train) reanchor(sim *Simulation) {
	l := t.line
	last := len(l.stations) - 1
	if ti := l.IndexOf(t.to); ti >= 0 {
		if (t.forward && ti == 0) || (!t.forward && ti == last) {
			t.forward = !t.forward
		}
		if t.forward {
			t.from = l.stations[ti-1]
		} else {
			t.from = l.stations[ti+1]
		}
	} else if fi := l.IndexOf(t.from); fi >= 0 {
		if (t.forward && fi == last) || (!t.forward && fi == 0) {
			t.forward = !t.forward
		}
		if t.forward {
			t.to = l.stations[fi+1]
		} else {
			t.to = l.stations[fi-1]
		}
		t.waiting = false
	} else {
		t.from, t.to, t.forward = l.stations[0], l.stations[1], true
		t.pos = t.from.pos
		t.waiting = false
	}
	sim.Log.Add(sim.tick, t.Label(), catTrain, "reanchor", t.from.Label()+"→"+t.to.Label(), 0)
}
