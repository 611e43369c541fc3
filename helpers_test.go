package genetic_paths

import (
	"math/rand"

	"cogentcore.org/core/math32"
)

// scriptedRand replays fixed draws so operator tests can pin every index
// and offset. Exhausted scripts return 0.
type scriptedRand struct {
	ints   []int
	floats []float32
}

func (s *scriptedRand) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v >= n {
		v = n - 1
	}
	return v
}

func (s *scriptedRand) Float32() float32 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

type traceCall struct {
	from, to math32.Vector3
	ch       Channel
}

// fakeEnv answers traces with hit, which may be nil for an empty world.
type fakeEnv struct {
	start, target math32.Vector3
	noStart       bool
	noTarget      bool
	hit           func(from, to math32.Vector3, ch Channel) (Hit, bool)
	calls         []traceCall
}

func newFakeEnv(target math32.Vector3) *fakeEnv {
	return &fakeEnv{target: target}
}

func (e *fakeEnv) LineIntersects(from, to math32.Vector3, ch Channel) (Hit, bool) {
	e.calls = append(e.calls, traceCall{from, to, ch})
	if e.hit == nil {
		return Hit{}, false
	}
	return e.hit(from, to, ch)
}

func (e *fakeEnv) Anchor(index int) (math32.Vector3, bool) {
	switch index {
	case StartAnchor:
		return e.start, !e.noStart
	case TargetAnchor:
		return e.target, !e.noTarget
	}
	return math32.Vector3{}, false
}

func (e *fakeEnv) countCalls(ch Channel) int {
	n := 0
	for _, c := range e.calls {
		if c.ch == ch {
			n++
		}
	}
	return n
}

func line(points ...float32) *Path {
	vs := make([]math32.Vector3, 0, len(points)/3)
	for i := 0; i+2 < len(points); i += 3 {
		vs = append(vs, math32.Vec3(points[i], points[i+1], points[i+2]))
	}
	return NewPath(vs)
}

func approx(a, b float32) bool {
	return math32.Abs(a-b) < 1e-3
}

// testConfig is a small, valid config with only the proportional weights
// switched on.
func testConfig() *Config {
	c := DefaultConfig()
	c.Population.PathCount = 10
	c.Population.PathConfig.MinPoints = 2
	c.Population.PathConfig.MaxPoints = 6
	c.Fitness.Weights = FitnessWeights{NodeCount: 1, Proximity: 3, Length: 1, CanSeeTarget: 2, TargetReached: 4}
	c.Run.TimeBetweenGenerations = 1
	c.Run.HistoryCapacity = 64
	return c
}
