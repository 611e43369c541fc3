package genetic_paths

import (
	"errors"
	test "testing"

	"cogentcore.org/core/math32"
)

func newTestEngine(env Environment, diag *Diagnostics, seed int64) *GenerationEngine {
	return NewGenerationEngine(testConfig(), env, NewHistoryStore(16), diag, seeded(seed))
}

func TestFirstStepSpawnsPopulation(t *test.T) {
	env := newFakeEnv(math32.Vec3(1000, 0, 0))
	env.start = math32.Vec3(5, 5, 0)
	ge := newTestEngine(env, nil, 1)

	record, err := ge.Step()
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if record.Generation != 0 || record.Stats.GenerationNumber != 0 {
		t.Errorf("First record should be generation 0, got %d", record.Generation)
	}
	if ge.Generation() != 1 {
		t.Errorf("Expected generation counter 1, got %d", ge.Generation())
	}
	if ge.Population.Len() != 10 || len(record.Paths) != 10 {
		t.Errorf("Expected 10 paths, got %d", ge.Population.Len())
	}
	for i, p := range ge.Population.Paths {
		if p.Points[0] != env.start {
			t.Errorf("Path %d does not begin on the start anchor: %v", i, p.Points[0])
		}
		if p.NodeCount() < MinimumPathPoints {
			t.Errorf("Path %d shrank below the minimum", i)
		}
	}
	if ge.History.Len() != 1 {
		t.Errorf("Expected one recorded generation, got %d", ge.History.Len())
	}
}

func TestStepKeepsPopulationSize(t *test.T) {
	ge := newTestEngine(newFakeEnv(math32.Vec3(800, 200, 0)), nil, 2)
	for i := 0; i < 25; i++ {
		record, err := ge.Step()
		if err != nil {
			t.Fatalf("Step %d failed: %v", i, err)
		}
		if record.Generation != uint32(i) {
			t.Errorf("Expected generation %d, got %d", i, record.Generation)
		}
		if ge.Population.Len() != 10 {
			t.Fatalf("Population size changed to %d at generation %d", ge.Population.Len(), i)
		}
	}
	if ge.Population.Fittest() == nil {
		t.Errorf("Expected a fittest path after stepping")
	}
	if ge.History.Len() != 25 {
		t.Errorf("Expected 25 records, got %d", ge.History.Len())
	}
}

func TestStepWithoutAnchorLeavesStateAlone(t *test.T) {
	env := newFakeEnv(math32.Vec3(100, 0, 0))
	env.noTarget = true

	var events []Event
	ge := newTestEngine(env, NewDiagnostics(func(e Event) { events = append(events, e) }), 3)

	record, err := ge.Step()
	if !errors.Is(err, ErrEnvironmentUnavailable) {
		t.Fatalf("Expected ErrEnvironmentUnavailable, got %v", err)
	}
	if record != nil || ge.Generation() != 0 || ge.Population.Len() != 0 || ge.History.Len() != 0 {
		t.Errorf("A skipped generation must not change the engine")
	}
	if len(events) != 1 || events[0].Kind != GenerationSkipped || events[0].Level != WarnLevel {
		t.Errorf("Expected one warn GenerationSkipped event, got %+v", events)
	}
}

func TestStepIsNotReentrant(t *test.T) {
	var ge *GenerationEngine
	var nested error
	diag := NewDiagnostics(func(e Event) {
		if e.Kind == GenerationCompleted && nested == nil {
			_, nested = ge.Step()
		}
	})
	ge = newTestEngine(newFakeEnv(math32.Vec3(300, 0, 0)), diag, 4)

	if _, err := ge.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if !errors.Is(nested, ErrGenerationInProgress) {
		t.Errorf("Expected ErrGenerationInProgress from a nested step, got %v", nested)
	}
	if ge.Generation() != 1 {
		t.Errorf("Nested step should not advance the counter, got %d", ge.Generation())
	}
}

func TestStepColorsPaths(t *test.T) {
	ge := newTestEngine(newFakeEnv(math32.Vec3(500, 0, 0)), nil, 5)
	if _, err := ge.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	for i, p := range ge.Population.Paths {
		if p.Color.A == 0 {
			t.Errorf("Path %d was not colored", i)
		}
	}
}

func TestResumeContinuesCounting(t *test.T) {
	env := newFakeEnv(math32.Vec3(500, 0, 0))
	ge := newTestEngine(env, nil, 6)
	for i := 0; i < 3; i++ {
		if _, err := ge.Step(); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
	}
	last := ge.History.Latest()

	other := newTestEngine(env, nil, 7)
	other.Resume(last)
	if other.Generation() != 3 || other.Population.Len() != 10 {
		t.Fatalf("Resume should continue at generation 3 with 10 paths, got %d and %d",
			other.Generation(), other.Population.Len())
	}
	record, err := other.Step()
	if err != nil {
		t.Fatalf("Step after resume failed: %v", err)
	}
	if record.Generation != 3 {
		t.Errorf("Expected generation 3 after resume, got %d", record.Generation)
	}

	other.Reset()
	if other.Generation() != 0 || other.Population.Len() != 0 {
		t.Errorf("Reset should clear the counter and population")
	}
}
