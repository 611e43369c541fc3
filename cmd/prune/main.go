package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/dustin/go-humanize"

	gp "nickandperla.net/genetic_paths"
)

var configPath = flag.String("config", "./config.toml", "The run config whose [persistence] section names the database")
var olderThan = flag.Duration("older-than", 0, "Delete runs created longer ago than this, e.g. 720h")
var keepLatest = flag.Int("keep", 0, "Keep only this many of the newest runs")
var dryRun = flag.Bool("dry-run", false, "Preview what would be deleted without actually deleting")

func main() {
	flag.Parse()

	if *olderThan <= 0 && *keepLatest <= 0 {
		log.Fatalf("Nothing to prune: pass -older-than and/or -keep")
	}

	config, err := gp.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Unable to load run config: %v", err)
	}
	if config.Persistence == nil {
		log.Fatalf("Config %s has no [persistence] section", *configPath)
	}

	persist, err := gp.NewPersistence(config.Persistence)
	if err != nil {
		log.Fatalf("Failed to create or initialize Persistence: %v", err)
	}
	defer persist.Shutdown()

	var cutoff time.Time
	if *olderThan > 0 {
		cutoff = time.Now().Add(-*olderThan)
	}

	if *dryRun {
		log.Printf("DRY RUN: previewing prune of %s", config.Persistence.Name)
	} else {
		log.Printf("Pruning runs from %s", config.Persistence.Name)
	}

	result, err := persist.Prune(cutoff, *keepLatest, *dryRun)
	if err != nil {
		log.Fatalf("Prune failed: %v", err)
	}

	fmt.Printf("Prune %s:\n", map[bool]string{true: "(dry run)", false: "complete"}[*dryRun])
	fmt.Printf("  Runs deleted:          %d\n", result.DeletedRuns)
	fmt.Printf("  Generation stats:      %d\n", result.DeletedStats)
	fmt.Printf("  History freed:         %s\n", humanize.Bytes(result.FreedBytes))
}
