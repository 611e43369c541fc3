// Package world is a small static environment for evolving paths in: box
// obstacles, an optional heightfield and the two anchors.
package world

import (
	"cogentcore.org/core/math32"

	gp "nickandperla.net/genetic_paths"
)

type World struct {
	Obstacles []Obstacle
	Terrain   *Heightfield

	anchors map[int]math32.Vector3
}

func New(start, target math32.Vector3) *World {
	return &World{
		anchors: map[int]math32.Vector3{
			gp.StartAnchor:  start,
			gp.TargetAnchor: target,
		},
	}
}

func (w *World) AddObstacle(o Obstacle) {
	w.Obstacles = append(w.Obstacles, o)
}

func (w *World) SetAnchor(index int, p math32.Vector3) {
	if w.anchors == nil {
		w.anchors = map[int]math32.Vector3{}
	}
	w.anchors[index] = p
}

func (w *World) RemoveAnchor(index int) {
	delete(w.anchors, index)
}

func (w *World) Anchor(index int) (math32.Vector3, bool) {
	p, ok := w.anchors[index]
	return p, ok
}

// LineIntersects answers traces per channel. Obstacle and avoidance traces
// only see boxes, surface traces only see the terrain, and visibility
// traces are blocked by either.
func (w *World) LineIntersects(from, to math32.Vector3, ch gp.Channel) (gp.Hit, bool) {
	best := float32(2)
	switch ch {
	case gp.ObstacleChannel, gp.AvoidanceChannel:
		best = w.obstacleHit(from, to, best)
	case gp.TerrainSurfaceChannel:
		best = w.terrainHit(from, to, best)
	case gp.TerrainVisibilityChannel:
		best = w.obstacleHit(from, to, best)
		best = w.terrainHit(from, to, best)
	}
	if best > 1 {
		return gp.Hit{}, false
	}
	d := to.Sub(from)
	return gp.Hit{
		Location: from.Add(d.MulScalar(best)),
		Distance: d.Length() * best,
	}, true
}

func (w *World) obstacleHit(from, to math32.Vector3, best float32) float32 {
	for _, o := range w.Obstacles {
		if t, ok := o.Intersect(from, to); ok && t < best {
			best = t
		}
	}
	return best
}

func (w *World) terrainHit(from, to math32.Vector3, best float32) float32 {
	if w.Terrain == nil {
		return best
	}
	if t, ok := w.Terrain.Intersect(from, to); ok && t < best {
		best = t
	}
	return best
}

var _ gp.Environment = (*World)(nil)
