package genetic_paths

import (
	"image/color"

	"cogentcore.org/core/math32"
	cp "github.com/jinzhu/copier"
)

type PathConfig struct {
	MinPoints           int     `toml:"min_points" yaml:"min_points"`
	MaxPoints           int     `toml:"max_points" yaml:"max_points"`
	MaxInitialVariation float32 `toml:"max_initial_variation" yaml:"max_initial_variation"`
}

// Path is one genome: an ordered polyline whose first point sits on the
// start anchor. Everything below Points is derived and rebuilt by the
// evaluator each cycle.
type Path struct {
	Points []math32.Vector3

	Length           float32
	Fitness          float32
	NodeCountFitness float32
	ObstacleHits     float32

	InObstacle              bool
	CanSeeTarget            bool
	ReachedTarget           bool
	SlopeTooIntense         bool
	TravelingThroughTerrain bool
	DistanceTooLarge        bool
	IsFittest               bool

	Color color.RGBA
}

func NewPathFromConfig(config *PathConfig, start math32.Vector3, r Rand) *Path {
	return NewPathFromRandom(
		randIntRange(r, config.MinPoints, config.MaxPoints),
		start,
		config.MaxInitialVariation,
		r)
}

// NewPathFromRandom lays out count points as a random planar walk from start,
// each step at most maxVariation along x and y.
func NewPathFromRandom(count int, start math32.Vector3, maxVariation float32, r Rand) *Path {
	if count < MinimumPathPoints {
		count = MinimumPathPoints
	}
	points := make([]math32.Vector3, count)
	points[0] = start
	for i := 1; i < count; i++ {
		points[i] = points[i-1].Add(planarOffset(r, maxVariation))
	}
	return NewPath(points)
}

func NewPath(points []math32.Vector3) *Path {
	p := &Path{Points: points}
	p.UpdateLength()
	return p
}

func (p *Path) NodeCount() int {
	return len(p.Points)
}

func (p *Path) Head() math32.Vector3 {
	if len(p.Points) == 0 {
		return math32.Vector3{}
	}
	return p.Points[len(p.Points)-1]
}

// UpdateLength recomputes the cached length from scratch.
func (p *Path) UpdateLength() float32 {
	var length float32
	for i := 1; i < len(p.Points); i++ {
		length += p.Points[i].DistanceTo(p.Points[i-1])
	}
	p.Length = length
	return length
}

// ResetEvaluation clears everything the evaluator writes.
func (p *Path) ResetEvaluation() {
	p.Fitness = 0
	p.NodeCountFitness = 0
	p.ObstacleHits = 0
	p.InObstacle = false
	p.CanSeeTarget = false
	p.ReachedTarget = false
	p.SlopeTooIntense = false
	p.TravelingThroughTerrain = false
	p.DistanceTooLarge = false
	p.IsFittest = false
}

// Disqualified reports whether any hard constraint was broken this cycle.
func (p *Path) Disqualified() bool {
	return p.InObstacle || p.SlopeTooIntense || p.TravelingThroughTerrain || p.DistanceTooLarge
}

// Clone returns a deep copy that shares no point storage with p.
func (p *Path) Clone() *Path {
	clone := &Path{}
	if err := cp.CopyWithOption(clone, p, cp.Option{DeepCopy: true}); err != nil {
		// copier only fails on mismatched kinds, which cannot happen here
		panic(err)
	}
	return clone
}

// Translate moves points according to mode by a random planar offset of at
// most maxOffset along x and y. The start point never moves.
func (p *Path) Translate(mode TranslationMode, maxOffset float32, r Rand) {
	last := len(p.Points) - 1
	if last < 1 {
		return
	}
	switch mode {
	case AnyButStart:
		idx := randIntRange(r, 1, last)
		p.Points[idx] = p.Points[idx].Add(planarOffset(r, maxOffset))
	case HeadOnly:
		p.Points[last] = p.Points[last].Add(planarOffset(r, maxOffset))
	case HeadFalloff:
		offset := planarOffset(r, maxOffset)
		for i := 1; i <= last; i++ {
			p.Points[i] = p.Points[i].Add(offset.MulScalar(float32(i) / float32(last)))
		}
	case AllAtOnce:
		for i := 1; i <= last; i++ {
			p.Points[i] = p.Points[i].Add(planarOffset(r, maxOffset))
		}
	}
}

// Insert places the midpoint of a random segment inside it. Returns false
// when the path is too short to have a segment.
func (p *Path) Insert(r Rand) bool {
	if len(p.Points) < 2 {
		return false
	}
	idx := randIntRange(r, 1, len(p.Points)-1)
	mid := p.Points[idx-1].Add(p.Points[idx]).MulScalar(0.5)
	p.Points = append(p.Points, math32.Vector3{})
	copy(p.Points[idx+1:], p.Points[idx:])
	p.Points[idx] = mid
	return true
}

// Delete removes a random non-start point. Paths never shrink below
// MinimumPathPoints.
func (p *Path) Delete(r Rand) bool {
	if len(p.Points) <= MinimumPathPoints {
		return false
	}
	idx := randIntRange(r, 1, len(p.Points)-1)
	copy(p.Points[idx:], p.Points[idx+1:])
	p.Points = p.Points[:len(p.Points)-1]
	return true
}

func planarOffset(r Rand, max float32) math32.Vector3 {
	return math32.Vec3(randRange(r, -max, max), randRange(r, -max, max), 0)
}
