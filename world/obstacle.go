package world

import (
	"cogentcore.org/core/math32"
)

// Obstacle is an axis aligned box that blocks paths.
type Obstacle struct {
	Name string
	Box  math32.Box3
}

func NewObstacle(name string, min, max math32.Vector3) Obstacle {
	box := math32.Box3{}
	box.SetFromPoints([]math32.Vector3{min, max})
	return Obstacle{Name: name, Box: box}
}

// Intersect clips the segment from -> to against the box with the slab
// method and returns the parametric entry point t in [0,1]. A segment that
// starts inside the box hits at t=0.
func (o Obstacle) Intersect(from, to math32.Vector3) (float32, bool) {
	d := to.Sub(from)
	tmin, tmax := float32(0), float32(1)
	for axis := 0; axis < 3; axis++ {
		p, dir := component(from, axis), component(d, axis)
		lo, hi := component(o.Box.Min, axis), component(o.Box.Max, axis)
		if math32.Abs(dir) < 1e-9 {
			if p < lo || p > hi {
				return 0, false
			}
			continue
		}
		t1, t2 := (lo-p)/dir, (hi-p)/dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

func component(v math32.Vector3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}
