package genetic_paths

// Fitness is an additive weighted score scaled down by penalty multipliers.
//
//	weight = Wn*nodeBlend + Wp*proximityBlend + Wl*lengthBlend
//	       + (canSee ? Ws : 0) + (reached ? Wr : 0) + Wslope
//	       + (avoidance ? (hits == 0 ? Wavoid : 0) : 0)
//	multiplier = product of the multipliers of every flag that is set
//	fitness = weight * multiplier
//
// Each blend is a min-max normalization against the whole population, so
// the node count, proximity and length terms are relative, not absolute.

type FitnessWeights struct {
	NodeCount         float32 `toml:"node_count" yaml:"node_count"`
	Proximity         float32 `toml:"proximity" yaml:"proximity"`
	Length            float32 `toml:"length" yaml:"length"`
	CanSeeTarget      float32 `toml:"can_see_target" yaml:"can_see_target"`
	TargetReached     float32 `toml:"target_reached" yaml:"target_reached"`
	Slope             float32 `toml:"slope" yaml:"slope"`
	ObstacleAvoidance float32 `toml:"obstacle_avoidance" yaml:"obstacle_avoidance"`
}

type FitnessMultipliers struct {
	ObstacleHit       float32 `toml:"obstacle_hit" yaml:"obstacle_hit"`
	SlopeTooIntense   float32 `toml:"slope_too_intense" yaml:"slope_too_intense"`
	PiercesTerrain    float32 `toml:"pierces_terrain" yaml:"pierces_terrain"`
	EuclideanOvershot float32 `toml:"euclidean_overshoot" yaml:"euclidean_overshoot"`
}

type FitnessConfig struct {
	Weights     FitnessWeights     `toml:"weights" yaml:"weights"`
	Multipliers FitnessMultipliers `toml:"multipliers" yaml:"multipliers"`

	TargetRadius float32 `toml:"target_radius" yaml:"target_radius"`

	UseSlope      bool    `toml:"use_slope" yaml:"use_slope"`
	MaxSlopeAngle float32 `toml:"max_slope_angle" yaml:"max_slope_angle"`

	UseObstacleAvoidance bool           `toml:"use_obstacle_avoidance" yaml:"use_obstacle_avoidance"`
	TraceBehaviour       TraceBehaviour `toml:"trace_behaviour" yaml:"trace_behaviour"`
	TraceDistance        float32        `toml:"trace_distance" yaml:"trace_distance"`
	CircleSegments       int            `toml:"circle_segments" yaml:"circle_segments"`

	UseMaxSegmentLength bool    `toml:"use_max_segment_length" yaml:"use_max_segment_length"`
	MaxSegmentLength    float32 `toml:"max_segment_length" yaml:"max_segment_length"`

	SnapToTerrain bool    `toml:"snap_to_terrain" yaml:"snap_to_terrain"`
	SnapHeight    float32 `toml:"snap_height" yaml:"snap_height"`
}

// MaximumFitness is the best additive score a path can get. The avoidance
// bonus is not part of it.
func (fc *FitnessConfig) MaximumFitness() float32 {
	w := fc.Weights
	return w.NodeCount + w.Proximity + w.Length + w.CanSeeTarget + w.TargetReached + w.Slope
}

// weight sums the additive terms for one path.
//
// Slope is added whether or not slope evaluation is enabled.
func (fc *FitnessConfig) weight(p *Path, nodeBlend, proximityBlend, lengthBlend float32) float32 {
	w := fc.Weights
	total := w.NodeCount*nodeBlend + w.Proximity*proximityBlend + w.Length*lengthBlend
	if p.CanSeeTarget {
		total += w.CanSeeTarget
	}
	if p.ReachedTarget {
		total += w.TargetReached
	}
	total += w.Slope
	if fc.UseObstacleAvoidance && p.ObstacleHits == 0 {
		total += w.ObstacleAvoidance
	}
	return total
}

func (fc *FitnessConfig) multiplier(p *Path) float32 {
	m := fc.Multipliers
	total := float32(1)
	if p.InObstacle {
		total *= m.ObstacleHit
	}
	if p.SlopeTooIntense {
		total *= m.SlopeTooIntense
	}
	if p.TravelingThroughTerrain {
		total *= m.PiercesTerrain
	}
	if p.DistanceTooLarge {
		total *= m.EuclideanOvershot
	}
	if fc.UseObstacleAvoidance && p.ObstacleHits > 0 {
		total = 0
	}
	return total
}

// blend maps value onto [0,1] where worst maps to 0 and best to 1. A spread
// at or below epsilon is degenerate and blends to 0.
func blend(value, worst, best, epsilon float32) float32 {
	spread := best - worst
	if spread < 0 {
		spread = -spread
	}
	if spread <= epsilon || best == worst {
		return 0
	}
	return (value - worst) / (best - worst)
}
