package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	scfind "github.com/mrjoshuak/go-scfind"
	"github.com/mrjoshuak/go-scfind/internal/region"
)

// fileConfig mirrors scfind.Params for YAML serialisation. Omitted fields
// keep their zero values and are passed through unchanged; scfind.threshold
// (or -t) must be set to a positive value, since the S+C finder rejects a
// zero threshold.
type fileConfig struct {
	Input struct {
		Path    string `yaml:"path"`
		Weights string `yaml:"weights"`
		Region  string `yaml:"region"`
	} `yaml:"input"`

	Output struct {
		Dir       string `yaml:"dir"`
		Overwrite bool   `yaml:"overwrite"`
	} `yaml:"output"`

	Flags []flagConfig `yaml:"flags"`

	SCFind struct {
		KernelsXY   []float64 `yaml:"kernelsXY"`
		KernelsZ    []int     `yaml:"kernelsZ"`
		Threshold   float64   `yaml:"threshold"`
		Replacement float64   `yaml:"replacement"`
		Statistic   string    `yaml:"statistic"`
		FluxRange   string    `yaml:"fluxRange"`
	} `yaml:"scfind"`

	ScaleNoise struct {
		Enabled        bool   `yaml:"enabled"`
		Mode           string `yaml:"mode"`
		Statistic      string `yaml:"statistic"`
		FluxRange      string `yaml:"fluxRange"`
		WindowSpatial  int    `yaml:"windowSpatial"`
		WindowSpectral int    `yaml:"windowSpectral"`
		GridSpatial    int    `yaml:"gridSpatial"`
		GridSpectral   int    `yaml:"gridSpectral"`
		Interpolate    bool   `yaml:"interpolate"`
	} `yaml:"scaleNoise"`

	Linker struct {
		Radius         [3]int `yaml:"radius"`
		MinSize        [3]int `yaml:"minSize"`
		RemoveNegative bool   `yaml:"removeNegative"`
	} `yaml:"linker"`
}

// flagConfig is the YAML form of a region.Flag. Exactly one of the
// shape-specific fields is populated per entry.
type flagConfig struct {
	Pixel   *[2]int     `yaml:"pixel,omitempty"`
	Channel *int        `yaml:"channel,omitempty"`
	Region  *[6]int     `yaml:"region,omitempty"`
	Circle  *[3]float64 `yaml:"circle,omitempty"`
}

func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func parseStatistic(s string) (scfind.Statistic, error) {
	switch s {
	case "", "std":
		return scfind.StatStd, nil
	case "mad":
		return scfind.StatMAD, nil
	case "gauss":
		return scfind.StatGauss, nil
	default:
		return 0, fmt.Errorf("unknown statistic %q (want std, mad, or gauss)", s)
	}
}

func parseFluxRange(s string) (scfind.FluxRange, error) {
	switch s {
	case "", "full":
		return scfind.FluxFull, nil
	case "negative":
		return scfind.FluxNegative, nil
	case "positive":
		return scfind.FluxPositive, nil
	default:
		return 0, fmt.Errorf("unknown fluxRange %q (want full, negative, or positive)", s)
	}
}

func (fc fileConfig) flags() []region.Flag {
	out := make([]region.Flag, 0, len(fc.Flags))
	for _, f := range fc.Flags {
		switch {
		case f.Pixel != nil:
			out = append(out, region.NewPixelFlag(f.Pixel[0], f.Pixel[1]))
		case f.Channel != nil:
			out = append(out, region.NewChannelFlag(*f.Channel))
		case f.Region != nil:
			r := *f.Region
			out = append(out, region.NewRegionFlag(region.Bounds{
				XMin: r[0], XMax: r[1],
				YMin: r[2], YMax: r[3],
				ZMin: r[4], ZMax: r[5],
			}))
		case f.Circle != nil:
			c := *f.Circle
			out = append(out, region.NewCircleFlag(c[0], c[1], c[2]))
		}
	}
	return out
}
