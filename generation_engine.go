package genetic_paths

import (
	"fmt"
)

// GenerationEngine runs the evolutionary cycle one generation at a time.
// It owns the live population and the history it records into. Step is
// not safe for concurrent use.
type GenerationEngine struct {
	Population  *Population
	Env         Environment
	Evaluator   *Evaluator
	Selector    *Selector
	Reproducer  *Reproducer
	Mutator     *Mutator
	Colors      *ColorConfig
	History     *HistoryStore
	Diagnostics *Diagnostics

	Rand Rand

	generation uint32
	matingPool []*Path
	lastStats  GenerationStats
	running    bool
}

func NewGenerationEngine(config *Config, env Environment, history *HistoryStore, diag *Diagnostics, r Rand) *GenerationEngine {
	if r == nil {
		r = rng
	}
	return &GenerationEngine{
		Population:  NewPopulationFromConfig(config.Population),
		Env:         env,
		Evaluator:   NewEvaluator(config.Fitness, env),
		Selector:    NewSelector(r),
		Reproducer:  NewReproducer(config.Crossover, r),
		Mutator:     NewMutator(config.Mutation, r),
		Colors:      &config.Run.Colors,
		History:     history,
		Diagnostics: diag,
		Rand:        r,
	}
}

func (ge *GenerationEngine) Generation() uint32 {
	return ge.generation
}

func (ge *GenerationEngine) LastStats() GenerationStats {
	return ge.lastStats
}

// Step runs one full generation: evaluate, select, crossover, mutate,
// evaluate again, color and record. The very first step also spawns the
// initial population. When either anchor is missing nothing is touched and
// the error wraps ErrEnvironmentUnavailable.
func (ge *GenerationEngine) Step() (*GenerationRecord, error) {
	if ge.running {
		return nil, ErrGenerationInProgress
	}
	ge.running = true
	defer func() { ge.running = false }()

	start, _, err := anchors(ge.Env)
	if err != nil {
		ge.Diagnostics.Publish(Event{
			Kind:       GenerationSkipped,
			Level:      WarnLevel,
			Generation: ge.generation,
			Message:    "Skipping generation, environment is not ready",
			Err:        err,
		})
		return nil, err
	}

	if ge.generation == 0 {
		ge.Population.SynthesizePaths(start, ge.Rand)
	}

	summary, err := ge.Evaluator.Evaluate(ge.Population)
	if err != nil {
		return nil, fmt.Errorf("evaluating generation %d: %w", ge.generation, err)
	}
	if summary.Degenerate {
		ge.Diagnostics.Publish(Event{
			Kind:       DegenerateFitness,
			Level:      DebugLevel,
			Generation: ge.generation,
			Message:    "Total fitness is zero, selecting uniformly",
		})
	}

	count := ge.Population.Config.PathCount
	ge.matingPool = ge.Selector.Select(ge.Population, summary.TotalFitness, count)

	next, crossovers := ge.Reproducer.Crossover(ge.matingPool)
	mutations := ge.Mutator.Mutate(next)
	ge.Population.Paths = next
	ge.matingPool = nil

	summary, err = ge.Evaluator.Evaluate(ge.Population)
	if err != nil {
		return nil, fmt.Errorf("re-evaluating generation %d: %w", ge.generation, err)
	}
	ColorByFitness(ge.Population.Paths, ge.Colors)

	ge.lastStats = GenerationStats{
		DeletionMutations:    mutations.Deletions,
		InsertionMutations:   mutations.Insertions,
		TranslationMutations: mutations.Translations,
		AverageNodeCount:     summary.AverageNodeCount,
		AverageFitness:       summary.AverageFitness,
		CrossoverAmount:      uint32(crossovers),
		FitnessFactor:        summary.FitnessFactor,
		GenerationNumber:     ge.generation,
		MaximumFitness:       summary.MaximumFitness,
	}
	record := NewGenerationRecord(ge.generation, ge.Population.Paths, ge.lastStats)
	if ge.History != nil {
		ge.History.Record(record)
	}
	ge.generation++

	stats := ge.lastStats
	ge.Diagnostics.Publish(Event{
		Kind:       GenerationCompleted,
		Level:      InfoLevel,
		Generation: record.Generation,
		Message:    "Generation complete",
		Stats:      &stats,
		Fields: map[string]any{
			"translations": mutations.Translations,
			"insertions":   mutations.Insertions,
			"deletions":    mutations.Deletions,
		},
	})
	return record, nil
}

// Reset drops the population, the mating pool and the generation counter.
// The history is left to its owner.
func (ge *GenerationEngine) Reset() {
	ge.generation = 0
	ge.Population.Clear()
	ge.matingPool = nil
	ge.lastStats = GenerationStats{}
}

// Load replaces the live population with the paths of a recorded
// generation without evolving it.
func (ge *GenerationEngine) Load(record *GenerationRecord) {
	ge.Population.Clear()
	for _, snap := range record.Paths {
		path := NewPath(append(snap.Points[:0:0], snap.Points...))
		path.Color = snap.Color
		path.IsFittest = snap.IsFittest
		ge.Population.Paths = append(ge.Population.Paths, path)
	}
	ge.lastStats = record.Stats
}

// Resume loads record and continues counting after it, so the next Step
// evolves the loaded paths instead of spawning new ones.
func (ge *GenerationEngine) Resume(record *GenerationRecord) {
	ge.Load(record)
	ge.generation = record.Generation + 1
}
