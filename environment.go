package genetic_paths

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// Channel names the collision layer a trace is tested against.
type Channel byte

const (
	ObstacleChannel Channel = iota
	TerrainVisibilityChannel
	TerrainSurfaceChannel
	AvoidanceChannel
)

func (c Channel) String() string {
	switch c {
	case ObstacleChannel:
		return "obstacle"
	case TerrainVisibilityChannel:
		return "terrain_visibility"
	case TerrainSurfaceChannel:
		return "terrain_surface"
	case AvoidanceChannel:
		return "avoidance"
	}
	return fmt.Sprintf("Channel(%d)", c)
}

// Hit is the first intersection along a trace.
type Hit struct {
	Location math32.Vector3
	Distance float32
}

const (
	StartAnchor  = 0
	TargetAnchor = 1
)

// Environment is everything the engine needs to know about the world the
// paths live in. Implementations must be synchronous.
type Environment interface {
	// LineIntersects reports the first hit on the segment from -> to.
	LineIntersects(from, to math32.Vector3, ch Channel) (Hit, bool)
	// Anchor returns StartAnchor or TargetAnchor, false when it is missing.
	Anchor(index int) (math32.Vector3, bool)
}

// anchors fetches both anchors or fails with ErrEnvironmentUnavailable.
func anchors(env Environment) (start, target math32.Vector3, err error) {
	if env == nil {
		return start, target, fmt.Errorf("no environment attached: %w", ErrEnvironmentUnavailable)
	}
	var ok bool
	if start, ok = env.Anchor(StartAnchor); !ok {
		return start, target, fmt.Errorf("start anchor missing: %w", ErrEnvironmentUnavailable)
	}
	if target, ok = env.Anchor(TargetAnchor); !ok {
		return start, target, fmt.Errorf("target anchor missing: %w", ErrEnvironmentUnavailable)
	}
	return start, target, nil
}
