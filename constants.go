package genetic_paths

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Rand is the slice of *rand.Rand the operators draw from. Tests hand in a
// seeded *rand.Rand to pin the draws.
type Rand interface {
	Intn(n int) int
	Float32() float32
}

// pooledRand uses sync.Pool to give each goroutine its own *rand.Rand,
// eliminating mutex contention in parallel workloads. The pool may drop a
// source at any GC and its replacement is seeded seed+n, so a sequence drawn
// from a pooledRand is not reproducible. Runs that need to replay use
// NewSeededRand.
type pooledRand struct {
	pool sync.Pool
}

func newPooledRand(seed int64) *pooledRand {
	var counter int64
	return &pooledRand{
		pool: sync.Pool{
			New: func() any {
				s := atomic.AddInt64(&counter, 1) - 1
				return rand.New(rand.NewSource(seed + s))
			},
		},
	}
}

func (pr *pooledRand) Intn(n int) int {
	r := pr.pool.Get().(*rand.Rand)
	v := r.Intn(n)
	pr.pool.Put(r)
	return v
}

func (pr *pooledRand) Float32() float32 {
	r := pr.pool.Get().(*rand.Rand)
	v := r.Float32()
	pr.pool.Put(r)
	return v
}

// rng is the package-level random source.
var rng *pooledRand = newPooledRand(time.Now().UnixNano())

// InitRNG reseeds the package-level rng. If seed is 0, the current time
// is used. Even with a fixed seed the pooled sources only repeat as long
// as the pool keeps them; see NewSeededRand for replayable runs.
func InitRNG(seed int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng = newPooledRand(seed)
}

// NewSeededRand returns a single-goroutine source that always yields the
// same sequence for the same seed. A seed of 0 uses the current time.
func NewSeededRand(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// randRange returns a uniform float32 in [lo, hi).
func randRange(r Rand, lo, hi float32) float32 {
	return lo + r.Float32()*(hi-lo)
}

// randIntRange returns a uniform int in [lo, hi]. hi < lo yields lo.
func randIntRange(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

const (
	DEBUG = false

	// ObstacleHitIncrement is added to a path's avoidance accumulator for
	// every probe ray that hits something.
	ObstacleHitIncrement float32 = 0.125

	// DegenerateRangeEpsilon is the smallest distance/length spread that
	// still produces a blend value.
	DegenerateRangeEpsilon float32 = 0.1

	DefaultTargetRadius    float32 = 100
	DefaultHistoryCapacity         = 20000
	DefaultCircleSegments          = 16
	MinimumPathPoints              = 2
)

type CrossoverOperator byte

const (
	SinglePoint CrossoverOperator = iota
	DoublePoint
	Uniform
)

var crossoverOperatorNames = []string{"single_point", "double_point", "uniform"}

func (c CrossoverOperator) String() string {
	if int(c) < len(crossoverOperatorNames) {
		return crossoverOperatorNames[c]
	}
	return fmt.Sprintf("CrossoverOperator(%d)", c)
}

func (c CrossoverOperator) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *CrossoverOperator) UnmarshalText(text []byte) error {
	i, err := lookupName("crossover operator", crossoverOperatorNames, string(text))
	if err != nil {
		return err
	}
	*c = CrossoverOperator(i)
	return nil
}

// TranslationMode picks which points a translation mutation moves.
//
//	AnyButStart: one random point, never the start
//	HeadOnly:    only the last point
//	HeadFalloff: the last point fully, the rest scaled by index/(count-1)
//	AllAtOnce:   every point but the start, each with its own offset
type TranslationMode byte

const (
	AnyButStart TranslationMode = iota
	HeadOnly
	HeadFalloff
	AllAtOnce
)

var translationModeNames = []string{"any_but_start", "head_only", "head_falloff", "all_at_once"}

func (m TranslationMode) String() string {
	if int(m) < len(translationModeNames) {
		return translationModeNames[m]
	}
	return fmt.Sprintf("TranslationMode(%d)", m)
}

func (m TranslationMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *TranslationMode) UnmarshalText(text []byte) error {
	i, err := lookupName("translation mode", translationModeNames, string(text))
	if err != nil {
		return err
	}
	*m = TranslationMode(i)
	return nil
}

// TraceBehaviour selects the fan of avoidance probes cast from each point.
type TraceBehaviour byte

const (
	WindDirectionTracing TraceBehaviour = iota
	CircleTracing
)

var traceBehaviourNames = []string{"wind", "circle"}

func (b TraceBehaviour) String() string {
	if int(b) < len(traceBehaviourNames) {
		return traceBehaviourNames[b]
	}
	return fmt.Sprintf("TraceBehaviour(%d)", b)
}

func (b TraceBehaviour) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *TraceBehaviour) UnmarshalText(text []byte) error {
	i, err := lookupName("trace behaviour", traceBehaviourNames, string(text))
	if err != nil {
		return err
	}
	*b = TraceBehaviour(i)
	return nil
}

type MutationKind byte

const (
	TranslationMutation MutationKind = iota
	InsertionMutation
	DeletionMutation
)

func (k MutationKind) String() string {
	switch k {
	case TranslationMutation:
		return "translation"
	case InsertionMutation:
		return "insertion"
	case DeletionMutation:
		return "deletion"
	}
	return fmt.Sprintf("MutationKind(%d)", k)
}

func lookupName(what string, names []string, s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s || strings.ReplaceAll(n, "_", "") == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q (want one of %s)", what, s, strings.Join(names, ", "))
}
