package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Small-Subways/internal/game"
	"github.com/Garsondee/Small-Subways/internal/metro"
)

func main() {
	var levelName, mapPath, policy string
	var seed int64
	var verbose bool

	flag.StringVar(&levelName, "level", "London", "level name")
	flag.StringVar(&mapPath, "map", "", "map image drawn in the level palette (default: generated terrain)")
	flag.StringVar(&policy, "policy", "relaxed", "boarding policy: relaxed or strict")
	flag.Int64Var(&seed, "seed", 0, "RNG seed (0 = time based)")
	flag.BoolVar(&verbose, "verbose", false, "log every train departure")
	flag.Parse()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	level, ok := metro.FindLevel(metro.DefaultLevels(), levelName)
	if !ok {
		log.Fatalf("unknown level %q", levelName)
	}
	grid, err := metro.BuildGrid(level, mapPath, seed)
	if err != nil {
		log.Fatal(err)
	}

	cfg := metro.DefaultSimConfig()
	cfg.VerboseLog = verbose
	cfg.LogLimit = 5000
	if cfg.Policy, err = metro.ParseBoardingPolicy(policy); err != nil {
		log.Fatal(err)
	}
	sim := metro.NewSimulation(cfg, level, grid, seed)

	g := game.New(sim)
	ebiten.SetTPS(100) // one simulation tick per 10 ms at 1x
	ebiten.SetWindowTitle("Small Subways - " + level.Name)
	ebiten.SetWindowSize(1520, 752)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
