package genetic_paths

import (
	"cogentcore.org/core/math32"
	"cogentcore.org/core/math32/minmax"
)

// An evaluation scores every path in a population against the environment.
// Pass one traces the world and collects the population-wide extrema, pass
// two blends each path against those extrema and applies the penalty
// multipliers. The population is left sorted fittest first.

type FitnessSummary struct {
	TotalFitness     float32
	AverageFitness   float32
	MaximumFitness   float32
	FitnessFactor    float32
	AverageNodeCount float32
	HighestFitness   float32
	LowestFitness    float32
	// Degenerate is set when TotalFitness is zero and selection has to fall
	// back to uniform draws.
	Degenerate bool
}

type Evaluator struct {
	Config *FitnessConfig
	Env    Environment
	probes []math32.Vector3
}

func NewEvaluator(fc *FitnessConfig, env Environment) *Evaluator {
	return &Evaluator{
		Config: fc,
		Env:    env,
		probes: probeFan(fc.TraceBehaviour, fc.TraceDistance, fc.CircleSegments),
	}
}

// probeFan returns the avoidance probe offsets. The wind fan keeps the
// diagonals unnormalized so they reach sqrt(2) further than the axes.
func probeFan(behaviour TraceBehaviour, distance float32, segments int) []math32.Vector3 {
	if behaviour == WindDirectionTracing {
		return []math32.Vector3{
			math32.Vec3(1, 0, 0).MulScalar(distance),   // E
			math32.Vec3(1, -1, 0).MulScalar(distance),  // SE
			math32.Vec3(0, -1, 0).MulScalar(distance),  // S
			math32.Vec3(-1, -1, 0).MulScalar(distance), // SW
			math32.Vec3(-1, 0, 0).MulScalar(distance),  // W
			math32.Vec3(-1, 1, 0).MulScalar(distance),  // NW
			math32.Vec3(0, 1, 0).MulScalar(distance),   // N
			math32.Vec3(1, 1, 0).MulScalar(distance),   // NE
		}
	}
	if segments <= 0 {
		segments = DefaultCircleSegments
	}
	fan := make([]math32.Vector3, segments)
	for i := range fan {
		angle := 2 * math32.Pi * float32(i) / float32(segments)
		fan[i] = math32.Vec3(math32.Cos(angle), math32.Sin(angle), 0).MulScalar(distance)
	}
	return fan
}

func (e *Evaluator) Evaluate(pop *Population) (FitnessSummary, error) {
	var summary FitnessSummary
	_, target, err := anchors(e.Env)
	if err != nil {
		return summary, err
	}
	if len(pop.Paths) == 0 {
		return summary, nil
	}

	var nodes, distances, lengths minmax.F32
	nodes.SetInfinity()
	distances.SetInfinity()
	lengths.SetInfinity()

	for _, path := range pop.Paths {
		path.ResetEvaluation()
		if e.Config.SnapToTerrain {
			e.snapToTerrain(path)
		}
		path.UpdateLength()
		e.trace(path, target)

		nodes.FitValInRange(float32(path.NodeCount()))
		distances.FitValInRange(path.Head().DistanceTo(target))
		lengths.FitValInRange(path.Length)
	}

	var totalNodes int
	for _, path := range pop.Paths {
		nodeBlend := blend(float32(path.NodeCount()), nodes.Max, nodes.Min, 0)
		proximityBlend := blend(path.Head().DistanceTo(target), distances.Max, distances.Min, DegenerateRangeEpsilon)
		lengthBlend := blend(path.Length, lengths.Max, lengths.Min, DegenerateRangeEpsilon)

		path.Fitness = e.Config.weight(path, nodeBlend, proximityBlend, lengthBlend) * e.Config.multiplier(path)
		path.NodeCountFitness = e.Config.Weights.NodeCount * nodeBlend

		summary.TotalFitness += path.Fitness
		totalNodes += path.NodeCount()
	}

	count := float32(len(pop.Paths))
	summary.AverageFitness = summary.TotalFitness / count
	summary.AverageNodeCount = float32(totalNodes) / count
	summary.MaximumFitness = e.Config.MaximumFitness()
	if summary.MaximumFitness != 0 {
		summary.FitnessFactor = summary.AverageFitness / summary.MaximumFitness
	}
	summary.Degenerate = summary.TotalFitness == 0

	pop.SortByFitness()
	summary.HighestFitness = pop.Paths[0].Fitness
	summary.LowestFitness = pop.Paths[len(pop.Paths)-1].Fitness
	for _, path := range pop.Paths {
		if path.Fitness == summary.HighestFitness {
			path.IsFittest = true
		}
	}

	return summary, nil
}

// trace runs every environment query for one path and sets its flags.
func (e *Evaluator) trace(path *Path, target math32.Vector3) {
	fc := e.Config
	points := path.Points

	for i := 1; i < len(points); i++ {
		from, to := points[i-1], points[i]

		if _, hit := e.Env.LineIntersects(from, to, ObstacleChannel); hit {
			path.InObstacle = true
		}
		if _, hit := e.Env.LineIntersects(from, to, TerrainSurfaceChannel); hit {
			path.TravelingThroughTerrain = true
		}

		if fc.UseSlope && slopeAngle(from, to) > fc.MaxSlopeAngle {
			path.SlopeTooIntense = true
		}

		if fc.UseMaxSegmentLength && to.DistanceTo(from) > fc.MaxSegmentLength {
			path.DistanceTooLarge = true
		}

		if fc.UseObstacleAvoidance {
			for _, probe := range e.probes {
				if _, hit := e.Env.LineIntersects(to, to.Add(probe), AvoidanceChannel); hit {
					path.ObstacleHits += ObstacleHitIncrement
				}
			}
		}
	}

	head := path.Head()
	if _, hit := e.Env.LineIntersects(head, target, TerrainVisibilityChannel); !hit {
		path.CanSeeTarget = true
	}
	if head.DistanceTo(target) < fc.radius() {
		path.ReachedTarget = true
	}
}

// snapToTerrain drops every point but the start onto the terrain surface
// directly below or above it.
func (e *Evaluator) snapToTerrain(path *Path) {
	height := e.Config.SnapHeight
	for i := 1; i < len(path.Points); i++ {
		p := path.Points[i]
		from := math32.Vec3(p.X, p.Y, p.Z+height)
		to := math32.Vec3(p.X, p.Y, p.Z-height)
		if hit, ok := e.Env.LineIntersects(from, to, TerrainSurfaceChannel); ok {
			path.Points[i].Z = hit.Location.Z
		}
	}
}

func (fc *FitnessConfig) radius() float32 {
	if fc.TargetRadius <= 0 {
		return DefaultTargetRadius
	}
	return fc.TargetRadius
}

// slopeAngle is the angle in degrees between a segment and its projection
// onto the horizontal plane.
func slopeAngle(from, to math32.Vector3) float32 {
	d := to.Sub(from)
	return math32.RadToDeg(math32.Atan2(math32.Abs(d.Z), math32.Hypot(d.X, d.Y)))
}
