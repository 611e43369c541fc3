package genetic_paths

// Selector fills a mating pool by roulette wheel sampling with replacement.
// A path's chance of being drawn is its share of the population's total
// fitness. The same path can be drawn any number of times.
type Selector struct {
	Rand Rand
}

func NewSelector(r Rand) *Selector {
	if r == nil {
		r = rng
	}
	return &Selector{Rand: r}
}

// Select draws count paths from pop. total is the population's summed
// fitness as reported by the evaluator; a total of zero makes every path
// equally likely.
func (s *Selector) Select(pop *Population, total float32, count int) []*Path {
	pool := make([]*Path, 0, count)
	if len(pop.Paths) == 0 {
		return pool
	}

	if total <= 0 {
		for len(pool) < count {
			pool = append(pool, pop.Paths[s.Rand.Intn(len(pop.Paths))])
		}
		return pool
	}

	for len(pool) < count {
		if path := s.spin(pop.Paths, total); path != nil {
			pool = append(pool, path)
		}
	}
	return pool
}

// spin walks the wheel once. It returns nil when rounding kept the
// accumulated share below the draw, in which case the caller spins again.
func (s *Selector) spin(paths []*Path, total float32) *Path {
	r := s.Rand.Float32()
	var accumulated float32
	for _, path := range paths {
		if path.Fitness <= 0 {
			continue
		}
		accumulated += path.Fitness / total
		if accumulated >= r {
			return path
		}
	}
	return nil
}
