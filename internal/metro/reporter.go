package metro

import (
	"fmt"
	"strings"
)

// reportWindowTicks is the default span aggregated by WindowSummary.
const reportWindowTicks = 2000

// LineReport is the state of one line at sample time.
type LineReport struct {
	LineID   int
	Stations int
	Trains   int
	Onboard  int
}

// SimReport is one periodic sample of the network.
type SimReport struct {
	Tick      int
	Score     int
	Stations  int
	Waiting   int // passengers queued across all stations
	MaxQueue  int // longest single queue
	Onboard   int // passengers riding across all trains
	Trains    int
	OpenCells int
	Unlocked  int
	Lines     []LineReport
}

// Reporter keeps a rolling history of samples.
type Reporter struct {
	history     []SimReport
	windowTicks int
}

// NewReporter creates a Reporter. A non-positive window uses the default.
func NewReporter(windowTicks int) *Reporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &Reporter{windowTicks: windowTicks}
}

// Collect samples the simulation.
func (r *Reporter) Collect(sim *Simulation) {
	rpt := SimReport{
		Tick:      sim.tick,
		Score:     sim.score,
		Stations:  len(sim.stations),
		OpenCells: sim.Grid.OpenCount(),
		Unlocked:  sim.unlocked,
	}
	for _, st := range sim.stations {
		rpt.Waiting += len(st.queue)
		rpt.MaxQueue = max(rpt.MaxQueue, len(st.queue))
	}
	for _, l := range sim.lines[:sim.unlocked] {
		lr := LineReport{LineID: l.id, Stations: len(l.stations), Trains: len(l.trains)}
		for _, t := range l.trains {
			lr.Onboard += len(t.onboard)
		}
		rpt.Onboard += lr.Onboard
		rpt.Trains += lr.Trains
		rpt.Lines = append(rpt.Lines, lr)
	}
	r.history = append(r.history, rpt)

	if maxKeep := 1000; len(r.history) > maxKeep {
		r.history = r.history[len(r.history)-maxKeep:]
	}
}

// Latest returns the most recent sample, or nil.
func (r *Reporter) Latest() *SimReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns all retained samples.
func (r *Reporter) History() []SimReport {
	return r.history
}

// Reset drops all samples.
func (r *Reporter) Reset() {
	r.history = nil
}

// WindowReport aggregates the samples of the recent window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int

	AvgWaiting  float64
	AvgOnboard  float64
	PeakQueue   int
	Delivered   int // score gained across the window
	Throughput  float64
	EndScore    int
	EndStations int
}

// WindowSummary aggregates samples within the window ending at the latest
// sample.
func (r *Reporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}
	latest := r.history[len(r.history)-1]
	cutoff := latest.Tick - r.windowTicks
	var window []SimReport
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Tick < cutoff {
			break
		}
		window = append(window, r.history[i])
	}

	oldest := window[len(window)-1]
	wr := &WindowReport{
		FromTick:    oldest.Tick,
		ToTick:      latest.Tick,
		SampleCount: len(window),
		Delivered:   latest.Score - oldest.Score,
		EndScore:    latest.Score,
		EndStations: latest.Stations,
	}
	for _, s := range window {
		wr.AvgWaiting += float64(s.Waiting)
		wr.AvgOnboard += float64(s.Onboard)
		wr.PeakQueue = max(wr.PeakQueue, s.MaxQueue)
	}
	n := float64(len(window))
	wr.AvgWaiting /= n
	wr.AvgOnboard /= n
	if span := latest.Tick - oldest.Tick; span > 0 {
		wr.Throughput = float64(wr.Delivered) * 1000 / float64(span)
	}
	return wr
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Network Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)
	fmt.Fprintf(&sb, "score=%d  stations=%d  delivered=%d  per_1000_ticks=%.1f\n",
		wr.EndScore, wr.EndStations, wr.Delivered, wr.Throughput)
	fmt.Fprintf(&sb, "avg_waiting=%.1f  avg_onboard=%.1f  peak_queue=%d\n",
		wr.AvgWaiting, wr.AvgOnboard, wr.PeakQueue)
	return sb.String()
}

// FormatLatest prints the newest sample with a per-line breakdown.
func (r *Reporter) FormatLatest() string {
	rpt := r.Latest()
	if rpt == nil {
		return "No data.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Snapshot T=%d ---\n", rpt.Tick)
	fmt.Fprintf(&sb, "score=%d stations=%d waiting=%d onboard=%d trains=%d open_cells=%d\n",
		rpt.Score, rpt.Stations, rpt.Waiting, rpt.Onboard, rpt.Trains, rpt.OpenCells)
	for _, lr := range rpt.Lines {
		fmt.Fprintf(&sb, "  L%d: stations=%d trains=%d onboard=%d\n",
			lr.LineID, lr.Stations, lr.Trains, lr.Onboard)
	}
	return sb.String()
}
