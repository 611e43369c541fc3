package world

import (
	"fmt"

	"cogentcore.org/core/math32"
)

const bisectionSteps = 24

// Heightfield is terrain sampled on a regular grid. Heights[row][col] is
// the surface height at (OriginX + col*CellSize, OriginY + row*CellSize);
// between samples the surface is bilinear, outside the grid it continues
// the nearest edge.
type Heightfield struct {
	OriginX  float32
	OriginY  float32
	CellSize float32
	Heights  [][]float32
}

func NewHeightfield(originX, originY, cellSize float32, heights [][]float32) (*Heightfield, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("terrain cell size must be positive, got %v", cellSize)
	}
	if len(heights) == 0 || len(heights[0]) == 0 {
		return nil, fmt.Errorf("terrain needs at least one height sample")
	}
	cols := len(heights[0])
	for row, samples := range heights {
		if len(samples) != cols {
			return nil, fmt.Errorf("terrain row %d has %d samples, expected %d", row, len(samples), cols)
		}
	}
	return &Heightfield{OriginX: originX, OriginY: originY, CellSize: cellSize, Heights: heights}, nil
}

func (h *Heightfield) HeightAt(x, y float32) float32 {
	rows, cols := len(h.Heights), len(h.Heights[0])
	gx := clamp((x-h.OriginX)/h.CellSize, 0, float32(cols-1))
	gy := clamp((y-h.OriginY)/h.CellSize, 0, float32(rows-1))

	c0, r0 := int(gx), int(gy)
	c1, r1 := min(c0+1, cols-1), min(r0+1, rows-1)
	fx, fy := gx-float32(c0), gy-float32(r0)

	top := lerp(h.Heights[r0][c0], h.Heights[r0][c1], fx)
	bottom := lerp(h.Heights[r1][c0], h.Heights[r1][c1], fx)
	return lerp(top, bottom, fy)
}

// below is positive above the surface and negative underneath it.
func (h *Heightfield) below(p math32.Vector3) float32 {
	return p.Z - h.HeightAt(p.X, p.Y)
}

// Intersect returns the parametric point where the segment first goes
// under the surface. The segment is sampled at half cell spacing and the
// crossing refined by bisection; a segment that starts underground hits
// at t=0.
func (h *Heightfield) Intersect(from, to math32.Vector3) (float32, bool) {
	if h.below(from) < 0 {
		return 0, true
	}
	d := to.Sub(from)
	horizontal := math32.Hypot(d.X, d.Y)
	steps := int(horizontal/(h.CellSize/2)) + 1

	prev := float32(0)
	for i := 1; i <= steps; i++ {
		t := float32(i) / float32(steps)
		if h.below(from.Add(d.MulScalar(t))) < 0 {
			return h.bisect(from, d, prev, t), true
		}
		prev = t
	}
	return 0, false
}

// bisect narrows [above, under] down to the surface crossing.
func (h *Heightfield) bisect(from, d math32.Vector3, above, under float32) float32 {
	for i := 0; i < bisectionSteps; i++ {
		mid := (above + under) / 2
		if h.below(from.Add(d.MulScalar(mid))) < 0 {
			under = mid
		} else {
			above = mid
		}
	}
	return under
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
