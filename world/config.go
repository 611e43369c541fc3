package world

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cogentcore.org/core/math32"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"
)

type Point [3]float32

func (p Point) Vector3() math32.Vector3 {
	return math32.Vec3(p[0], p[1], p[2])
}

type ObstacleConfig struct {
	Name string `toml:"name" yaml:"name"`
	Min  Point  `toml:"min" yaml:"min"`
	Max  Point  `toml:"max" yaml:"max"`
}

type TerrainConfig struct {
	OriginX  float32     `toml:"origin_x" yaml:"origin_x"`
	OriginY  float32     `toml:"origin_y" yaml:"origin_y"`
	CellSize float32     `toml:"cell_size" yaml:"cell_size"`
	Heights  [][]float32 `toml:"heights" yaml:"heights"`
}

// Config describes a world file:
//
//	start = [0, 0, 0]
//	target = [2000, 0, 0]
//
//	[[obstacles]]
//	name = "wall"
//	min = [900, -500, -100]
//	max = [1100, 500, 400]
//
//	[terrain]
//	cell_size = 250
//	heights = [[0, 0, 0], [0, 50, 0]]
type Config struct {
	Start     Point            `toml:"start" yaml:"start"`
	Target    Point            `toml:"target" yaml:"target"`
	Obstacles []ObstacleConfig `toml:"obstacles" yaml:"obstacles"`
	Terrain   *TerrainConfig   `toml:"terrain" yaml:"terrain"`
}

func (c *Config) Build() (*World, error) {
	w := New(c.Start.Vector3(), c.Target.Vector3())
	for i, oc := range c.Obstacles {
		name := oc.Name
		if name == "" {
			name = fmt.Sprintf("obstacle-%d", i)
		}
		w.AddObstacle(NewObstacle(name, oc.Min.Vector3(), oc.Max.Vector3()))
	}
	if c.Terrain != nil {
		terrain, err := NewHeightfield(c.Terrain.OriginX, c.Terrain.OriginY, c.Terrain.CellSize, c.Terrain.Heights)
		if err != nil {
			return nil, err
		}
		w.Terrain = terrain
	}
	return w, nil
}

// Load reads a world from TOML, or YAML when the extension says so.
func Load(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world %s: %w", path, err)
	}
	var config Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		_, err = toml.Decode(string(data), &config)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing world %s: %w", path, err)
	}
	w, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("building world %s: %w", path, err)
	}
	return w, nil
}
