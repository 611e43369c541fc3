package genetic_paths

import (
	"runtime"
	"sync"
	"testing"

	"cogentcore.org/core/math32"
)

// BenchmarkStep measures full generations over a wide population.
// Run with: go test -run=^$ -bench=BenchmarkStep -benchtime=200x
func BenchmarkStep(b *testing.B) {
	config := DefaultConfig()
	config.Population.PathCount = 1000
	config.Fitness.UseObstacleAvoidance = true
	ge := NewGenerationEngine(config, newFakeEnv(math32.Vec3(5000, 0, 0)), NewHistoryStore(b.N), nil, newPooledRand(42))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ge.Step(); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkParallelMutate checks that the pooled rng does not serialize
// mutation across cores.
func BenchmarkParallelMutate(b *testing.B) {
	r := newPooledRand(42)
	config := &PathConfig{MinPoints: 2, MaxPoints: 20, MaxInitialVariation: 300}
	n := 100000
	paths := make([]*Path, n)
	for i := range paths {
		paths[i] = NewPathFromConfig(config, math32.Vector3{}, r)
	}

	cpus := runtime.NumCPU()
	b.Logf("Paths: %d, CPUs: %d, GOMAXPROCS: %d", n, cpus, runtime.GOMAXPROCS(0))
	mc := &MutationConfig{Probability: 100, TranslationProbability: 50, InsertionProbability: 10, DeletionProbability: 10, MaxTranslationOffset: 50}

	b.ResetTimer()
	for iter := 0; iter < b.N; iter++ {
		var wg sync.WaitGroup
		chunkSize := n / cpus
		for i := 0; i < cpus; i++ {
			start := i * chunkSize
			end := start + chunkSize
			if i == cpus-1 {
				end = n
			}
			wg.Add(1)
			go func(chunk []*Path) {
				defer wg.Done()
				NewMutator(mc, r).Mutate(chunk)
			}(paths[start:end])
		}
		wg.Wait()
	}
}

func BenchmarkEncodeHistory(b *testing.B) {
	records := sampleRecords(200, 50)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := EncodeHistory(records); err != nil {
			b.Fatal(err)
		}
	}
}
