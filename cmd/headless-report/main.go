package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Garsondee/Small-Subways/internal/metro"
)

type runOptions struct {
	runs        int
	ticks       int
	seedBase    int64
	seedStep    int64
	level       string
	mapPath     string
	policy      string
	attachEvery int
	trainEvery  int
	verbose     bool
}

type runStats struct {
	runIndex int
	id       uuid.UUID
	seed     int64

	firstStationTick  int
	firstBoardTick    int
	firstDeliveryTick int
	firstTransferTick int

	score     int
	stations  int
	spawned   int
	boards    int
	transfers int
	bounces   int
	reanchors int
	unlocks   int
	trains    int

	windowSummary *metro.WindowReport
	latest        string
}

func main() {
	if err := rootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "headless-report",
		Short: "Run seeded transit simulations without a window and print reports",
	}
	root.SetOut(out)
	root.AddCommand(runCmd())
	root.AddCommand(levelsCmd())
	return root
}

func runCmd() *cobra.Command {
	var o runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run headless sessions with scripted line building",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAll(cmd.OutOrStdout(), o)
		},
	}
	f := cmd.Flags()
	f.IntVar(&o.runs, "runs", 5, "number of headless simulation runs")
	f.IntVar(&o.ticks, "ticks", 30_000, "ticks per run")
	f.Int64Var(&o.seedBase, "seed-base", 42, "base RNG seed for run 1")
	f.Int64Var(&o.seedStep, "seed-step", 1, "seed increment between runs")
	f.StringVarP(&o.level, "level", "l", "London", "level name")
	f.StringVar(&o.mapPath, "map", "", "map image drawn in the level palette (default: generated terrain)")
	f.StringVar(&o.policy, "policy", "relaxed", "boarding policy: relaxed or strict")
	f.IntVar(&o.attachEvery, "attach-every", 250, "ticks between attaching unconnected stations to lines")
	f.IntVar(&o.trainEvery, "train-every", 2500, "ticks between adding a train to the busiest line, 0 disables")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "print the event log of each run")
	return cmd
}

func levelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List the built-in levels",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printLevels(cmd.OutOrStdout(), metro.DefaultLevels())
		},
	}
}

func printLevels(w io.Writer, levels []metro.Level) {
	for _, l := range levels {
		colours := make([]string, len(l.Lines))
		for i, c := range l.Lines {
			colours[i] = c.String()
		}
		fmt.Fprintf(w, "%-12s %-14s water=%-7s lines=%s\n", l.Name, l.Country, l.WaterTravel, strings.Join(colours, ","))
	}
}

func runAll(w io.Writer, o runOptions) error {
	if o.runs <= 0 {
		return errors.New("--runs must be > 0")
	}
	if o.ticks <= 0 {
		return errors.New("--ticks must be > 0")
	}
	if o.attachEvery <= 0 {
		return errors.New("--attach-every must be > 0")
	}
	level, ok := metro.FindLevel(metro.DefaultLevels(), o.level)
	if !ok {
		return errors.Errorf("unknown level %q", o.level)
	}
	policy, err := metro.ParseBoardingPolicy(o.policy)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "=== Headless Transit Report ===\n")
	fmt.Fprintf(w, "level=%s policy=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n",
		level.Name, policy, o.runs, o.ticks, o.seedBase, o.seedStep)

	all := make([]runStats, 0, o.runs)
	for i := 0; i < o.runs; i++ {
		seed := o.seedBase + int64(i)*o.seedStep
		grid, err := metro.BuildGrid(level, o.mapPath, seed)
		if err != nil {
			return err
		}
		h := metro.NewHarness(
			metro.WithSeed(seed),
			metro.WithLevel(level),
			metro.WithGrid(grid),
			metro.WithPolicy(policy),
			metro.WithSpawning(true, true),
			metro.WithStartStations(metro.DefaultSimConfig().StartShapes...),
		)
		stats := runSession(h, i+1, o)
		all = append(all, stats)
		printRun(w, stats)
		if o.verbose {
			fmt.Fprint(w, h.Sim.Log.Format())
		}
	}
	printAggregate(w, all)
	return nil
}

// runSession plays one scripted session: unconnected stations are attached
// every attachEvery ticks, alternating leg order, and the line with the most
// stations gets another train every trainEvery ticks.
func runSession(h *metro.Harness, runIndex int, o runOptions) runStats {
	diagonal := false
	for t := 0; t < o.ticks; t++ {
		if t%o.attachEvery == 0 {
			h.AttachNewStations(diagonal)
			diagonal = !diagonal
		}
		if o.trainEvery > 0 && t > 0 && t%o.trainEvery == 0 {
			h.Sim.AddTrain(busiestLine(h.Sim))
		}
		h.RunTicks(1)
	}

	log := h.Sim.Log
	entries := log.Entries()
	trains := 0
	for _, l := range h.Sim.Lines() {
		trains += len(l.Trains())
	}
	return runStats{
		runIndex:          runIndex,
		id:                uuid.New(),
		seed:              h.Sim.Seed(),
		firstStationTick:  firstTick(entries, "station", "spawn", 1),
		firstBoardTick:    firstTick(entries, "passenger", "board", 0),
		firstDeliveryTick: firstTick(entries, "passenger", "deliver", 0),
		firstTransferTick: firstTick(entries, "passenger", "transfer", 0),
		score:             h.Score(),
		stations:          len(h.Sim.Stations()),
		spawned:           log.Count("passenger", "spawn"),
		boards:            log.Count("passenger", "board"),
		transfers:         log.Count("passenger", "transfer"),
		bounces:           log.Count("train", "bounce"),
		reanchors:         log.Count("train", "reanchor"),
		unlocks:           log.Count("line", "unlock"),
		trains:            trains,
		windowSummary:     h.Sim.Reporter.WindowSummary(),
		latest:            h.Sim.Reporter.FormatLatest(),
	}
}

// busiestLine is the unlocked line with the most stations.
func busiestLine(sim *metro.Simulation) int {
	best, bestLen := 0, -1
	for i := 0; i < sim.UnlockedLines(); i++ {
		if n := sim.Line(i).Len(); n > bestLen {
			best, bestLen = i, n
		}
	}
	return best
}

// firstTick returns the tick of the first matching entry after minTick-1,
// or -1. Start stations spawn at tick 0, so minTick 1 skips them.
func firstTick(entries []metro.Event, category, key string, minTick int) int {
	for _, e := range entries {
		if e.Category == category && e.Key == key && e.Tick >= minTick {
			return e.Tick
		}
	}
	return -1
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- Run %d (seed=%d id=%s) ---\n", rs.runIndex, rs.seed, rs.id)
	fmt.Fprintf(w, "phase_markers: first_station=%d first_board=%d first_delivery=%d first_transfer=%d\n",
		rs.firstStationTick, rs.firstBoardTick, rs.firstDeliveryTick, rs.firstTransferTick)
	fmt.Fprintf(w, "totals: score=%d stations=%d trains=%d spawned=%d boarded=%d transfers=%d bounces=%d reanchors=%d unlocks=%d\n",
		rs.score, rs.stations, rs.trains, rs.spawned, rs.boards, rs.transfers, rs.bounces, rs.reanchors, rs.unlocks)
	fmt.Fprintf(w, "delivery_rate=%.1f%%\n", percent(rs.score, rs.spawned))
	fmt.Fprint(w, rs.windowSummary.Format())
	fmt.Fprint(w, rs.latest)
	fmt.Fprintln(w)
}

func printAggregate(w io.Writer, all []runStats) {
	var score, stations, spawned, transfers, reanchors int
	deliveryTicks := make([]int, 0, len(all))
	for _, rs := range all {
		score += rs.score
		stations += rs.stations
		spawned += rs.spawned
		transfers += rs.transfers
		reanchors += rs.reanchors
		if rs.firstDeliveryTick >= 0 {
			deliveryTicks = append(deliveryTicks, rs.firstDeliveryTick)
		}
	}
	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d\n", len(all))
	fmt.Fprintf(w, "avg_per_run: score=%.1f stations=%.1f spawned=%.1f transfers=%.1f reanchors=%.1f\n",
		avg(score, len(all)), avg(stations, len(all)), avg(spawned, len(all)), avg(transfers, len(all)), avg(reanchors, len(all)))
	fmt.Fprintf(w, "delivery_rate=%.1f%% first_delivery_avg_tick=%s\n", percent(score, spawned), avgTickString(deliveryTicks))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
