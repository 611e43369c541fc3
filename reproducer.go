package genetic_paths

import (
	"cogentcore.org/core/math32"
)

type CrossoverConfig struct {
	Operator CrossoverOperator `toml:"operator" yaml:"operator"`
	// Probability is the percent chance, 0-100, that a pair recombines
	// instead of being copied through.
	Probability float32 `toml:"probability" yaml:"probability"`
}

// Reproducer recombines a mating pool into the next population. The pool is
// consumed in consecutive pairs; each pair yields exactly two new paths.
type Reproducer struct {
	Config *CrossoverConfig
	Rand   Rand
}

func NewReproducer(config *CrossoverConfig, r Rand) *Reproducer {
	if r == nil {
		r = rng
	}
	return &Reproducer{Config: config, Rand: r}
}

// Crossover returns the next generation built from pool and the number of
// pairs that actually recombined. A trailing unpaired path is carried over
// as a clone so the output is always as long as the input.
func (r *Reproducer) Crossover(pool []*Path) ([]*Path, int) {
	next := make([]*Path, 0, len(pool))
	crossovers := 0

	for i := 0; i+1 < len(pool); i += 2 {
		roll := randRange(r.Rand, 0, 100)
		if roll >= 100-r.Config.Probability {
			child0, child1 := r.Recombine(pool[i], pool[i+1])
			next = append(next, child0, child1)
			crossovers++
		} else {
			next = append(next, pool[i].Clone(), pool[i+1].Clone())
		}
	}
	if len(pool)%2 == 1 {
		next = append(next, pool[len(pool)-1].Clone())
	}

	for _, path := range next {
		path.UpdateLength()
	}
	return next, crossovers
}

// Recombine builds two children from a and b with the configured operator.
// Positions both parents have are split between the children; positions
// only the longer parent has (its junk tail) go to both children, and only
// when the longer parent is fitter once node count is discounted.
func (r *Reproducer) Recombine(a, b *Path) (*Path, *Path) {
	smaller, bigger := b, a
	if a.NodeCount() < b.NodeCount() {
		smaller, bigger = a, b
	}
	n := smaller.NodeCount()

	var fromSmaller func(j int) bool
	switch r.Config.Operator {
	case DoublePoint:
		k1, k2 := r.doublePoints(n)
		fromSmaller = func(j int) bool { return j < k1 || j >= k2 }
	case Uniform:
		fromSmaller = func(int) bool { return randRange(r.Rand, 0, 100) < 50 }
	default:
		k := randIntRange(r.Rand, 1, n-1)
		fromSmaller = func(j int) bool { return j < k }
	}

	keepTail := smaller.Fitness-smaller.NodeCountFitness < bigger.Fitness-bigger.NodeCountFitness
	size := n
	if keepTail {
		size = bigger.NodeCount()
	}

	points0 := make([]math32.Vector3, 0, size)
	points1 := make([]math32.Vector3, 0, size)
	for j := 0; j < n; j++ {
		if fromSmaller(j) {
			points0 = append(points0, smaller.Points[j])
			points1 = append(points1, bigger.Points[j])
		} else {
			points0 = append(points0, bigger.Points[j])
			points1 = append(points1, smaller.Points[j])
		}
	}
	if keepTail {
		points0 = append(points0, bigger.Points[n:]...)
		points1 = append(points1, bigger.Points[n:]...)
	}

	return NewPath(points0), NewPath(points1)
}

// doublePoints picks k1 < k2 inside [1, n-1]. A two point parent has no
// room for a second cut, so k2 lands on n and the last segment is empty.
func (r *Reproducer) doublePoints(n int) (int, int) {
	if n < 3 {
		return 1, n
	}
	k1 := randIntRange(r.Rand, 1, n-2)
	k2 := randIntRange(r.Rand, k1+1, n-1)
	return k1, k2
}
