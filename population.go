package genetic_paths

import (
	"sort"

	"cogentcore.org/core/math32"
)

type Population struct {
	Paths  []*Path
	Config *PopulationConfig
}

type PopulationConfig struct {
	PathCount  int         `toml:"count" yaml:"count"`
	PathConfig *PathConfig `toml:"path" yaml:"path"`
}

func NewPopulationFromConfig(config *PopulationConfig) *Population {
	return &Population{
		Config: config,
	}
}

// SynthesizePaths replaces the population with PathCount fresh random paths
// rooted at start.
func (p *Population) SynthesizePaths(start math32.Vector3, r Rand) {
	p.Paths = make([]*Path, 0, p.Config.PathCount)
	for i := 0; i < p.Config.PathCount; i++ {
		p.Paths = append(p.Paths, NewPathFromConfig(p.Config.PathConfig, start, r))
	}
}

func (p *Population) Len() int {
	return len(p.Paths)
}

// SortByFitness orders paths fittest first.
func (p *Population) SortByFitness() {
	sort.SliceStable(p.Paths, func(i, j int) bool {
		return p.Paths[i].Fitness > p.Paths[j].Fitness
	})
}

func (p *Population) Clear() {
	for i := range p.Paths {
		p.Paths[i] = nil
	}
	p.Paths = p.Paths[:0]
}

// Fittest returns the first path flagged IsFittest, or nil.
func (p *Population) Fittest() *Path {
	for _, path := range p.Paths {
		if path.IsFittest {
			return path
		}
	}
	return nil
}
