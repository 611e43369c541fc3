package genetic_paths

import (
	"image/color"

	"cogentcore.org/core/colors"
	"cogentcore.org/core/math32/minmax"
)

// HexColor is a color.RGBA that reads and writes as "#rrggbb" or
// "#rrggbbaa" in config files.
type HexColor color.RGBA

func (h HexColor) RGBA() color.RGBA {
	return color.RGBA(h)
}

func (h HexColor) MarshalText() ([]byte, error) {
	return []byte(colors.AsHex(color.RGBA(h))), nil
}

func (h *HexColor) UnmarshalText(text []byte) error {
	c, err := colors.FromHex(string(text))
	if err != nil {
		return err
	}
	*h = HexColor(c)
	return nil
}

type ColorConfig struct {
	LowFitness  HexColor `toml:"low_fitness" yaml:"low_fitness"`
	HighFitness HexColor `toml:"high_fitness" yaml:"high_fitness"`
	Invalid     HexColor `toml:"invalid" yaml:"invalid"`
}

func DefaultColorConfig() ColorConfig {
	return ColorConfig{
		LowFitness:  HexColor{R: 255, A: 255},
		HighFitness: HexColor{G: 255, A: 255},
		Invalid:     HexColor{R: 128, G: 128, B: 128, A: 255},
	}
}

// ColorByFitness tags every path. Disqualified paths get the invalid color;
// the rest are placed linearly between the low and high fitness colors by
// where their fitness falls in the population's range.
func ColorByFitness(paths []*Path, cc *ColorConfig) {
	var fitness minmax.F32
	fitness.SetInfinity()
	for _, path := range paths {
		fitness.FitValInRange(path.Fitness)
	}

	for _, path := range paths {
		if path.Disqualified() {
			path.Color = cc.Invalid.RGBA()
			continue
		}
		share := float32(1)
		if fitness.Range() > 0 {
			share = fitness.NormValue(path.Fitness)
		}
		path.Color = colors.BlendRGB(share*100, cc.HighFitness.RGBA(), cc.LowFitness.RGBA())
	}
}
