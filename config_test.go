package genetic_paths

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	test "testing"
)

func writeConfig(t *test.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfigIsValid(t *test.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("Default config is invalid: %v", err)
	}
	if err := testConfig().Validate(); err != nil {
		t.Errorf("Test config is invalid: %v", err)
	}
}

func TestValidateRejects(t *test.T) {
	for _, tc := range []struct {
		field  string
		modify func(c *Config)
	}{
		{"population", func(c *Config) { c.Population = nil }},
		{"run", func(c *Config) { c.Run = nil }},
		{"population.count", func(c *Config) { c.Population.PathCount = 7 }},
		{"population.count", func(c *Config) { c.Population.PathCount = 0 }},
		{"population.path.min_points", func(c *Config) { c.Population.PathConfig.MinPoints = 1 }},
		{"population.path.max_points", func(c *Config) { c.Population.PathConfig.MaxPoints = 1 }},
		{"crossover.probability", func(c *Config) { c.Crossover.Probability = 101 }},
		{"mutation.deletion_probability", func(c *Config) { c.Mutation.DeletionProbability = -1 }},
		{"fitness.max_slope_angle", func(c *Config) { c.Fitness.UseSlope = true; c.Fitness.MaxSlopeAngle = 0 }},
		{"fitness.circle_segments", func(c *Config) {
			c.Fitness.UseObstacleAvoidance = true
			c.Fitness.TraceBehaviour = CircleTracing
			c.Fitness.CircleSegments = 0
		}},
		{"fitness.max_segment_length", func(c *Config) { c.Fitness.UseMaxSegmentLength = true; c.Fitness.MaxSegmentLength = 0 }},
		{"run.colors.invalid", func(c *Config) { c.Run.Colors.Invalid = HexColor{} }},
		{"persistence.name", func(c *Config) { c.Persistence = &PersistenceConfig{Path: MemoryPath} }},
	} {
		t.Run(tc.field, func(t *test.T) {
			c := DefaultConfig()
			tc.modify(c)
			err := c.Validate()
			var ce *ConfigurationError
			if !errors.As(err, &ce) {
				t.Fatalf("Expected a ConfigurationError, got %v", err)
			}
			if ce.Field != tc.field {
				t.Errorf("Expected field %s, got %s", tc.field, ce.Field)
			}
		})
	}
}

func TestLoadConfigTOML(t *test.T) {
	path := writeConfig(t, "run.toml", `
[population]
count = 8

[population.path]
min_points = 3
max_points = 5

[fitness]
use_obstacle_avoidance = true
trace_behaviour = "circle"
circle_segments = 12

[crossover]
operator = "double_point"
probability = 55

[mutation]
translation_mode = "head_falloff"

[run]
auto_run = true

[run.colors]
high_fitness = "#00ff00ff"
low_fitness = "#0000ff"
`)
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if c.Population.PathCount != 8 || c.Population.PathConfig.MinPoints != 3 || c.Population.PathConfig.MaxPoints != 5 {
		t.Errorf("Population settings not loaded: %+v", c.Population)
	}
	if c.Population.PathConfig.MaxInitialVariation != 300 {
		t.Errorf("Unset values should keep their defaults")
	}
	if c.Fitness.TraceBehaviour != CircleTracing || c.Fitness.CircleSegments != 12 {
		t.Errorf("Fitness settings not loaded")
	}
	if c.Crossover.Operator != DoublePoint || c.Crossover.Probability != 55 {
		t.Errorf("Crossover settings not loaded: %+v", c.Crossover)
	}
	if c.Mutation.TranslationMode != HeadFalloff || c.Mutation.Probability != 10 {
		t.Errorf("Mutation settings not loaded: %+v", c.Mutation)
	}
	if !c.Run.AutoRun || c.Run.Colors.LowFitness.RGBA() != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("Run settings not loaded: %+v", c.Run)
	}
}

func TestLoadConfigYAML(t *test.T) {
	path := writeConfig(t, "run.yaml", `
population:
  count: 6
crossover:
  operator: uniform
mutation:
  probability: 25
run:
  colors:
    invalid: "#101010"
`)
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if c.Population.PathCount != 6 || c.Crossover.Operator != Uniform || c.Mutation.Probability != 25 {
		t.Errorf("YAML settings not loaded")
	}
	if c.Run.Colors.Invalid.RGBA() != (color.RGBA{0x10, 0x10, 0x10, 0xff}) {
		t.Errorf("Unexpected invalid color %v", c.Run.Colors.Invalid)
	}
}

func TestLoadConfigErrors(t *test.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("Expected an error for a missing file")
	}
	path := writeConfig(t, "bad.toml", "[crossover]\noperator = \"triple_point\"\n")
	if _, err := LoadConfig(path); err == nil {
		t.Errorf("Expected an error for an unknown operator")
	}
	path = writeConfig(t, "odd.toml", "[population]\ncount = 5\n")
	var ce *ConfigurationError
	if _, err := LoadConfig(path); !errors.As(err, &ce) {
		t.Errorf("Expected a ConfigurationError, got %v", err)
	}
}

func TestEnumText(t *test.T) {
	var op CrossoverOperator
	if err := op.UnmarshalText([]byte("DoublePoint")); err != nil || op != DoublePoint {
		t.Errorf("Expected double point, got %s (%v)", op, err)
	}
	var mode TranslationMode
	if err := mode.UnmarshalText([]byte("all_at_once")); err != nil || mode != AllAtOnce {
		t.Errorf("Expected all at once, got %s (%v)", mode, err)
	}
	if text, _ := WindDirectionTracing.MarshalText(); string(text) != "wind" {
		t.Errorf("Unexpected trace behaviour text %q", text)
	}
}
