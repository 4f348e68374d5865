package metro

// StationSpawner adds stations to the map over time.
type StationSpawner struct {
	lastCheck int
}

// Tick rolls for a new station once per check interval while the map has
// room for more than one.
func (sp *StationSpawner) Tick(sim *Simulation) {
	cfg := sim.Config
	if !cfg.SpawnStations || sim.Grid.OpenCount() <= 1 {
		return
	}
	if sim.tick-sp.lastCheck < cfg.StationCheckInterval {
		return
	}
	sp.lastCheck = sim.tick
	if cfg.StationSpawnOdds > 1 && sim.rng.Intn(cfg.StationSpawnOdds) != 0 {
		return
	}
	shapes := sim.Level.SpawnShapes()
	sim.spawnStation(shapes[sim.rng.Intn(len(shapes))])
}

// PassengerSpawner adds passengers to station queues. Each station keeps
// its own check clock, starting at tick zero.
type PassengerSpawner struct {
	lastCheck map[int]int
}

// Tick rolls for a passenger at st once its interval has elapsed. The
// destination is drawn from the other shapes currently on the map.
func (sp *PassengerSpawner) Tick(sim *Simulation, st *Station) {
	cfg := sim.Config
	if !cfg.SpawnPassengers {
		return
	}
	if sp.lastCheck == nil {
		sp.lastCheck = make(map[int]int)
	}
	if sim.tick-sp.lastCheck[st.id] < cfg.passengerInterval(sim.tick) {
		return
	}
	sp.lastCheck[st.id] = sim.tick
	if cfg.PassengerSpawnOdds > 1 && sim.rng.Intn(cfg.PassengerSpawnOdds) != 0 {
		return
	}

	var choices []Shape
	for _, s := range sim.ShapesPresent() {
		if s != st.shape {
			choices = append(choices, s)
		}
	}
	if len(choices) == 0 {
		return
	}
	dest := choices[sim.rng.Intn(len(choices))]
	st.Enqueue(NewPassenger(dest))
	sim.Log.Add(sim.tick, st.Label(), catPassenger, "spawn", dest.String(), float64(len(st.queue)))
}

func (sp *PassengerSpawner) reset() {
	sp.lastCheck = nil
}
