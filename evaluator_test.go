package genetic_paths

import (
	"errors"
	test "testing"

	"cogentcore.org/core/math32"
)

func proportionalOnly() *FitnessConfig {
	return &FitnessConfig{
		Weights:      FitnessWeights{NodeCount: 1, Proximity: 1, Length: 1},
		Multipliers:  FitnessMultipliers{ObstacleHit: 0.5, SlopeTooIntense: 0.5, PiercesTerrain: 0.5, EuclideanOvershot: 0.5},
		TargetRadius: DefaultTargetRadius,
	}
}

func TestEvaluateBlends(t *test.T) {
	env := newFakeEnv(math32.Vec3(1000, 0, 0))
	a := line(0, 0, 0, 900, 0, 0)
	b := line(0, 0, 0, 250, 0, 0, 500, 0, 0)
	c := line(0, 0, 0, 0, 100, 0, 0, 200, 0, 0, 300, 0)
	pop := &Population{Paths: []*Path{c, b, a}}

	summary, err := NewEvaluator(proportionalOnly(), env).Evaluate(pop)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	// a: fewest nodes, closest, longest
	if !approx(a.Fitness, 2) {
		t.Errorf("Expected a to score 2, got %v", a.Fitness)
	}
	// b: half the node range, 544/944 of the distance range, 2/3 of the length range
	if !approx(b.Fitness, 0.5+544.031/944.031+2.0/3.0) {
		t.Errorf("Unexpected fitness for b: %v", b.Fitness)
	}
	// c: most nodes, furthest, shortest
	if !approx(c.Fitness, 1) {
		t.Errorf("Expected c to score 1, got %v", c.Fitness)
	}

	if pop.Paths[0] != a || pop.Paths[1] != b || pop.Paths[2] != c {
		t.Errorf("Population not sorted fittest first")
	}
	if !a.IsFittest || b.IsFittest || c.IsFittest {
		t.Errorf("Only a should be flagged fittest")
	}
	if !approx(a.NodeCountFitness, 1) || !approx(b.NodeCountFitness, 0.5) || c.NodeCountFitness != 0 {
		t.Errorf("Unexpected node count fitness: %v %v %v", a.NodeCountFitness, b.NodeCountFitness, c.NodeCountFitness)
	}

	total := a.Fitness + b.Fitness + c.Fitness
	if !approx(summary.TotalFitness, total) {
		t.Errorf("Expected total %v, got %v", total, summary.TotalFitness)
	}
	if !approx(summary.AverageFitness, total/3) {
		t.Errorf("Expected average %v, got %v", total/3, summary.AverageFitness)
	}
	if summary.MaximumFitness != 3 || !approx(summary.FitnessFactor, total/9) {
		t.Errorf("Unexpected maximum %v / factor %v", summary.MaximumFitness, summary.FitnessFactor)
	}
	if summary.AverageNodeCount != 3 {
		t.Errorf("Expected 3 nodes on average, got %v", summary.AverageNodeCount)
	}
	if summary.Degenerate {
		t.Errorf("Summary should not be degenerate")
	}
}

func TestEvaluateDegenerate(t *test.T) {
	env := newFakeEnv(math32.Vec3(1000, 0, 0))
	pop := &Population{Paths: []*Path{
		line(0, 0, 0, 500, 0, 0),
		line(0, 0, 0, 500, 0, 0),
		line(0, 0, 0, 500, 0, 0),
	}}

	summary, err := NewEvaluator(proportionalOnly(), env).Evaluate(pop)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if summary.TotalFitness != 0 || !summary.Degenerate {
		t.Errorf("Identical paths should blend to zero, got total %v", summary.TotalFitness)
	}
	for i, p := range pop.Paths {
		if !p.IsFittest {
			t.Errorf("Path %d should share the top fitness", i)
		}
	}
}

func TestEvaluateFlagsAndMultipliers(t *test.T) {
	env := newFakeEnv(math32.Vec3(1000, 0, 0))
	env.hit = func(from, to math32.Vector3, ch Channel) (Hit, bool) {
		// a wall at x=400 on the obstacle channel only
		if ch == ObstacleChannel && from.X < 400 && to.X >= 400 {
			return Hit{Location: math32.Vec3(400, 0, 0)}, true
		}
		return Hit{}, false
	}
	fc := proportionalOnly()
	fc.Weights = FitnessWeights{CanSeeTarget: 2, Slope: 1}

	p := line(0, 0, 0, 500, 0, 0)
	pop := &Population{Paths: []*Path{p}}
	if _, err := NewEvaluator(fc, env).Evaluate(pop); err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !p.InObstacle || !p.CanSeeTarget {
		t.Errorf("Expected InObstacle and CanSeeTarget, got %+v", p)
	}
	if !approx(p.Fitness, 1.5) {
		t.Errorf("Expected (2+1)*0.5, got %v", p.Fitness)
	}
}

func TestEvaluateLineOfSight(t *test.T) {
	env := newFakeEnv(math32.Vec3(1000, 0, 0))
	env.hit = func(from, to math32.Vector3, ch Channel) (Hit, bool) {
		return Hit{}, ch == TerrainVisibilityChannel
	}
	p := line(0, 0, 0, 500, 0, 0)
	if _, err := NewEvaluator(proportionalOnly(), env).Evaluate(&Population{Paths: []*Path{p}}); err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if p.CanSeeTarget {
		t.Errorf("Blocked sight line still set CanSeeTarget")
	}
	if p.TravelingThroughTerrain || p.InObstacle {
		t.Errorf("Visibility hits leaked into segment flags: %+v", p)
	}
}

func TestEvaluateReachedTarget(t *test.T) {
	env := newFakeEnv(math32.Vec3(1000, 0, 0))
	near := line(0, 0, 0, 950, 0, 0)
	edge := line(0, 0, 0, 900, 0, 0)
	if _, err := NewEvaluator(proportionalOnly(), env).Evaluate(&Population{Paths: []*Path{near, edge}}); err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !near.ReachedTarget {
		t.Errorf("Head 50 from the target should count as reached")
	}
	if edge.ReachedTarget {
		t.Errorf("Head exactly on the radius should not count as reached")
	}
}

func TestEvaluateSlope(t *test.T) {
	env := newFakeEnv(math32.Vec3(1000, 0, 0))
	fc := proportionalOnly()
	fc.UseSlope = true
	fc.MaxSlopeAngle = 30

	steep := line(0, 0, 0, 100, 0, 100)
	gentle := line(0, 0, 0, 100, 0, 10)
	if _, err := NewEvaluator(fc, env).Evaluate(&Population{Paths: []*Path{steep, gentle}}); err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !steep.SlopeTooIntense {
		t.Errorf("45 degree segment passed a 30 degree limit")
	}
	if gentle.SlopeTooIntense {
		t.Errorf("Gentle segment flagged as too steep")
	}
	if a := slopeAngle(math32.Vector3{}, math32.Vec3(0, 100, -100)); !approx(a, 45) {
		t.Errorf("Descending slope should be measured by magnitude, got %v", a)
	}
}

func TestEvaluateMaxSegmentLength(t *test.T) {
	env := newFakeEnv(math32.Vec3(1000, 0, 0))
	fc := proportionalOnly()
	fc.UseMaxSegmentLength = true
	fc.MaxSegmentLength = 200

	long := line(0, 0, 0, 300, 0, 0)
	short := line(0, 0, 0, 150, 0, 0, 300, 0, 0)
	if _, err := NewEvaluator(fc, env).Evaluate(&Population{Paths: []*Path{long, short}}); err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !long.DistanceTooLarge || short.DistanceTooLarge {
		t.Errorf("Expected only the long segment flagged, got %v / %v", long.DistanceTooLarge, short.DistanceTooLarge)
	}
}

func TestEvaluateAvoidanceProbes(t *test.T) {
	env := newFakeEnv(math32.Vec3(1000, 0, 0))
	env.hit = func(from, to math32.Vector3, ch Channel) (Hit, bool) {
		return Hit{}, ch == AvoidanceChannel
	}
	fc := proportionalOnly()
	fc.Weights.ObstacleAvoidance = 100
	fc.UseObstacleAvoidance = true
	fc.TraceBehaviour = WindDirectionTracing
	fc.TraceDistance = 50

	p := line(0, 0, 0, 100, 0, 0, 200, 0, 0)
	if _, err := NewEvaluator(fc, env).Evaluate(&Population{Paths: []*Path{p}}); err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if got := env.countCalls(AvoidanceChannel); got != 16 {
		t.Errorf("Expected 8 probes from each of 2 points, got %d", got)
	}
	if p.ObstacleHits != 2 {
		t.Errorf("Expected 16 hits * 0.125 = 2, got %v", p.ObstacleHits)
	}
	if p.Fitness != 0 {
		t.Errorf("Probe hits should zero the fitness, got %v", p.Fitness)
	}
}

func TestEvaluateAvoidanceBonus(t *test.T) {
	env := newFakeEnv(math32.Vec3(1000, 0, 0))
	fc := proportionalOnly()
	fc.Weights = FitnessWeights{ObstacleAvoidance: 100}
	fc.UseObstacleAvoidance = true
	fc.TraceBehaviour = CircleTracing
	fc.CircleSegments = 6
	fc.TraceDistance = 50

	p := line(0, 0, 0, 100, 0, 0)
	if _, err := NewEvaluator(fc, env).Evaluate(&Population{Paths: []*Path{p}}); err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if got := env.countCalls(AvoidanceChannel); got != 6 {
		t.Errorf("Expected 6 circle probes, got %d", got)
	}
	if p.Fitness != 100 {
		t.Errorf("Expected the avoidance bonus, got %v", p.Fitness)
	}
}

func TestProbeFan(t *test.T) {
	wind := probeFan(WindDirectionTracing, 10, 0)
	if len(wind) != 8 {
		t.Fatalf("Expected 8 wind probes, got %d", len(wind))
	}
	if !approx(wind[0].Length(), 10) || !approx(wind[1].Length(), 10*math32.Sqrt2) {
		t.Errorf("Wind diagonals should not be normalized: %v %v", wind[0], wind[1])
	}

	circle := probeFan(CircleTracing, 10, 0)
	if len(circle) != DefaultCircleSegments {
		t.Fatalf("Expected %d circle probes, got %d", DefaultCircleSegments, len(circle))
	}
	for i, p := range circle {
		if !approx(p.Length(), 10) || p.Z != 0 {
			t.Errorf("Probe %d %v is not a planar unit direction scaled by 10", i, p)
		}
	}
}

func TestSnapToTerrain(t *test.T) {
	env := newFakeEnv(math32.Vec3(1000, 0, 0))
	env.hit = func(from, to math32.Vector3, ch Channel) (Hit, bool) {
		vertical := from.X == to.X && from.Y == to.Y
		if ch == TerrainSurfaceChannel && vertical {
			return Hit{Location: math32.Vec3(from.X, from.Y, 50)}, true
		}
		return Hit{}, false
	}
	fc := proportionalOnly()
	fc.SnapToTerrain = true
	fc.SnapHeight = 1000

	p := line(0, 0, 0, 100, 0, 0, 200, 0, 300)
	if _, err := NewEvaluator(fc, env).Evaluate(&Population{Paths: []*Path{p}}); err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if p.Points[0].Z != 0 {
		t.Errorf("The start point must not be snapped")
	}
	if p.Points[1].Z != 50 || p.Points[2].Z != 50 {
		t.Errorf("Expected points snapped to z=50, got %v", p.Points)
	}
	if !approx(p.Length, math32.Hypot(100, 50)+100) {
		t.Errorf("Length not recomputed after snapping: %v", p.Length)
	}
}

func TestEvaluateMissingAnchor(t *test.T) {
	env := newFakeEnv(math32.Vec3(1000, 0, 0))
	env.noTarget = true
	pop := &Population{Paths: []*Path{line(0, 0, 0, 10, 0, 0)}}

	_, err := NewEvaluator(proportionalOnly(), env).Evaluate(pop)
	if !errors.Is(err, ErrEnvironmentUnavailable) {
		t.Errorf("Expected ErrEnvironmentUnavailable, got %v", err)
	}
}

func TestEvaluateResetsFlags(t *test.T) {
	env := newFakeEnv(math32.Vec3(1000, 0, 0))
	p := line(0, 0, 0, 10, 0, 0)
	p.InObstacle = true
	p.ObstacleHits = 3
	if _, err := NewEvaluator(proportionalOnly(), env).Evaluate(&Population{Paths: []*Path{p}}); err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if p.InObstacle || p.ObstacleHits != 0 {
		t.Errorf("Stale evaluation state survived: %+v", p)
	}
}
