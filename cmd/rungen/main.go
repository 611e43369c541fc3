package main

import (
	"flag"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/profile"

	gp "nickandperla.net/genetic_paths"
	"nickandperla.net/genetic_paths/world"
)

var configPath = flag.String("config", "./config.toml", "The run config to use. Defaults to './config.toml'")

var worldPath = flag.String("world", "./world.toml", "The world to evolve paths through. Defaults to './world.toml'")

var generations = flag.Uint("generations", 100, "How many generations to run before stopping")

var seed = flag.Int64("seed", 0, "Random seed, 0 uses the run config's seed or the clock")

var logLevel = flag.String("log-level", "info", "Log level: debug, info, warn or error")

var cpuProfile = flag.Bool("profile", false, "Write a CPU profile to the working directory")

func main() {
	flag.Parse()

	log := gp.NewCommandLogger(*logLevel)

	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	}

	config, err := gp.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Unable to load run config: %v", err)
	}

	env, err := world.Load(*worldPath)
	if err != nil {
		log.Fatalf("Unable to load world: %v", err)
	}

	if *seed != 0 {
		config.Run.Seed = *seed
	}
	gp.InitRNG(config.Run.Seed)

	var store *gp.Persistence
	if config.Persistence != nil {
		if store, err = gp.NewPersistence(config.Persistence); err != nil {
			log.Fatalf("Failed to create or initialize Persistence: %v", err)
		}
		defer store.Shutdown()
	}

	diag := gp.NewDiagnostics(gp.LogSubscriber(log))
	ctl, err := gp.NewController(config, env, store, diag)
	if err != nil {
		log.Fatalf("Invalid run config: %v", err)
	}
	if err := ctl.RequestStateChange(gp.Play); err != nil {
		log.Fatalf("Unable to start run: %v", err)
	}

	// Each tick covers more than the gap between generations, so every tick
	// runs one.
	dt := config.Run.TimeBetweenGenerations + 1
	for ctl.GenerationCount() < uint32(*generations) {
		if err := ctl.Tick(dt); err != nil {
			log.Fatalf("Generation %d failed: %v", ctl.GenerationCount(), err)
		}
	}
	log.Info(ctl.GenerationInfoText())

	if err := ctl.RequestStateChange(gp.Stop); err != nil {
		log.Fatalf("Unable to stop run: %v", err)
	}
	if err := ctl.Tick(0); err != nil {
		log.Fatalf("Stopping run failed: %v", err)
	}

	if store == nil {
		out := "history.bin"
		if err := os.WriteFile(out, ctl.LastBlob(), 0o644); err != nil {
			log.Fatalf("Unable to write history: %v", err)
		}
		log.Infof("Wrote %s of history to %s", humanize.Bytes(uint64(len(ctl.LastBlob()))), out)
	}
}
