package genetic_paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"
)

type RunConfig struct {
	// TimeBetweenGenerations is the number of seconds Tick waits between
	// steps while playing.
	TimeBetweenGenerations float32     `toml:"time_between_generations" yaml:"time_between_generations"`
	AutoRun                bool        `toml:"auto_run" yaml:"auto_run"`
	HistoryCapacity        int         `toml:"history_capacity" yaml:"history_capacity"`
	Seed                   int64       `toml:"seed" yaml:"seed"`
	Colors                 ColorConfig `toml:"colors" yaml:"colors"`
}

type Config struct {
	Population  *PopulationConfig  `toml:"population" yaml:"population"`
	Fitness     *FitnessConfig     `toml:"fitness" yaml:"fitness"`
	Crossover   *CrossoverConfig   `toml:"crossover" yaml:"crossover"`
	Mutation    *MutationConfig    `toml:"mutation" yaml:"mutation"`
	Run         *RunConfig         `toml:"run" yaml:"run"`
	Persistence *PersistenceConfig `toml:"persistence" yaml:"persistence"`
}

func DefaultConfig() *Config {
	return &Config{
		Population: &PopulationConfig{
			PathCount: 20,
			PathConfig: &PathConfig{
				MinPoints:           2,
				MaxPoints:           10,
				MaxInitialVariation: 300,
			},
		},
		Fitness: &FitnessConfig{
			Weights: FitnessWeights{
				NodeCount:         1,
				Proximity:         3,
				Length:            1,
				CanSeeTarget:      2,
				TargetReached:     4,
				Slope:             1,
				ObstacleAvoidance: 100,
			},
			Multipliers: FitnessMultipliers{
				ObstacleHit:       0.1,
				SlopeTooIntense:   0.5,
				PiercesTerrain:    0.1,
				EuclideanOvershot: 0.5,
			},
			TargetRadius:     DefaultTargetRadius,
			MaxSlopeAngle:    45,
			TraceBehaviour:   WindDirectionTracing,
			TraceDistance:    100,
			CircleSegments:   DefaultCircleSegments,
			MaxSegmentLength: 500,
			SnapHeight:       10000,
		},
		Crossover: &CrossoverConfig{
			Operator:    SinglePoint,
			Probability: 70,
		},
		Mutation: &MutationConfig{
			Probability:            10,
			TranslationProbability: 50,
			InsertionProbability:   10,
			DeletionProbability:    10,
			TranslationMode:        AnyButStart,
			MaxTranslationOffset:   200,
		},
		Run: &RunConfig{
			TimeBetweenGenerations: 0.1,
			HistoryCapacity:        DefaultHistoryCapacity,
			Colors:                 DefaultColorConfig(),
		},
	}
}

// LoadConfig reads a TOML file, or YAML when the extension says so, over
// the defaults. The result is validated.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parsing yaml config %s: %w", path, err)
		}
	default:
		if _, err := toml.Decode(string(data), config); err != nil {
			return nil, fmt.Errorf("parsing toml config %s: %w", path, err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate reports the first setting a run cannot start with. The error is
// always a *ConfigurationError.
func (c *Config) Validate() error {
	if c.Population == nil || c.Population.PathConfig == nil {
		return configErr("population", "missing")
	}
	if c.Fitness == nil {
		return configErr("fitness", "missing")
	}
	if c.Crossover == nil {
		return configErr("crossover", "missing")
	}
	if c.Mutation == nil {
		return configErr("mutation", "missing")
	}
	if c.Run == nil {
		return configErr("run", "missing")
	}

	pop := c.Population
	if pop.PathCount <= 0 {
		return configErr("population.count", "must be positive, got %d", pop.PathCount)
	}
	if pop.PathCount%2 != 0 {
		return configErr("population.count", "must be even, got %d", pop.PathCount)
	}
	pc := pop.PathConfig
	if pc.MinPoints < MinimumPathPoints {
		return configErr("population.path.min_points", "must be at least %d, got %d", MinimumPathPoints, pc.MinPoints)
	}
	if pc.MaxPoints < pc.MinPoints {
		return configErr("population.path.max_points", "must be at least min_points (%d), got %d", pc.MinPoints, pc.MaxPoints)
	}
	if pc.MaxInitialVariation < 0 {
		return configErr("population.path.max_initial_variation", "must not be negative")
	}

	fc := c.Fitness
	if fc.TargetRadius < 0 {
		return configErr("fitness.target_radius", "must not be negative")
	}
	if fc.UseSlope && (fc.MaxSlopeAngle <= 0 || fc.MaxSlopeAngle > 90) {
		return configErr("fitness.max_slope_angle", "must be in (0, 90], got %v", fc.MaxSlopeAngle)
	}
	if fc.UseObstacleAvoidance {
		if fc.TraceDistance <= 0 {
			return configErr("fitness.trace_distance", "must be positive, got %v", fc.TraceDistance)
		}
		if fc.TraceBehaviour == CircleTracing && fc.CircleSegments <= 0 {
			return configErr("fitness.circle_segments", "must be positive, got %d", fc.CircleSegments)
		}
	}
	if fc.UseMaxSegmentLength && fc.MaxSegmentLength <= 0 {
		return configErr("fitness.max_segment_length", "must be positive, got %v", fc.MaxSegmentLength)
	}
	if fc.SnapToTerrain && fc.SnapHeight <= 0 {
		return configErr("fitness.snap_height", "must be positive, got %v", fc.SnapHeight)
	}

	percents := []struct {
		field string
		value float32
	}{
		{"crossover.probability", c.Crossover.Probability},
		{"mutation.probability", c.Mutation.Probability},
		{"mutation.translation_probability", c.Mutation.TranslationProbability},
		{"mutation.insertion_probability", c.Mutation.InsertionProbability},
		{"mutation.deletion_probability", c.Mutation.DeletionProbability},
	}
	for _, p := range percents {
		if p.value < 0 || p.value > 100 {
			return configErr(p.field, "must be a percentage in [0, 100], got %v", p.value)
		}
	}
	if c.Mutation.MaxTranslationOffset < 0 {
		return configErr("mutation.max_translation_offset", "must not be negative")
	}

	run := c.Run
	if run.TimeBetweenGenerations < 0 {
		return configErr("run.time_between_generations", "must not be negative")
	}
	if run.HistoryCapacity < 0 {
		return configErr("run.history_capacity", "must not be negative")
	}
	colors := []struct {
		field string
		value HexColor
	}{
		{"run.colors.low_fitness", run.Colors.LowFitness},
		{"run.colors.high_fitness", run.Colors.HighFitness},
		{"run.colors.invalid", run.Colors.Invalid},
	}
	for _, col := range colors {
		if col.value.A == 0 {
			return configErr(col.field, "is fully transparent")
		}
	}

	if c.Persistence != nil {
		if len(c.Persistence.Path) == 0 {
			return configErr("persistence.path", "must be set when persistence is configured")
		}
		if len(c.Persistence.Name) == 0 {
			return configErr("persistence.name", "must be set when persistence is configured")
		}
	}
	return nil
}
