// Command scfind runs the Smooth+Clip source finder and linker over a
// FITS-style data cube and writes a labelled mask plus a source catalogue.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	scfind "github.com/mrjoshuak/go-scfind"
	"github.com/mrjoshuak/go-scfind/internal/cube"
	"github.com/mrjoshuak/go-scfind/internal/region"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "YAML configuration file.")
		inputPath  = pflag.StringP("input", "i", "", "Input data cube (overrides config input.path).")
		outputDir  = pflag.StringP("output", "o", "", "Output directory for the mask and catalogue (overrides config output.dir).")
		threshold  = pflag.Float64P("threshold", "t", 0, "S+C detection threshold, in units of the local noise (overrides config scfind.threshold).")
		overwrite  = pflag.BoolP("overwrite", "f", false, "Overwrite existing output files.")
		verbose    = pflag.BoolP("verbose", "v", false, "Enable debug-level logging.")
		help       = pflag.BoolP("help", "h", false, "Display help text.")
	)

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -c config.yaml [flags]\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		return
	}

	if err := run(*configPath, *inputPath, *outputDir, *threshold, *overwrite, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "scfind: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, inputPath, outputDir string, threshold float64, overwrite, verbose bool) error {
	var cfg fileConfig
	if configPath != "" {
		var err error
		cfg, err = loadConfig(configPath)
		if err != nil {
			return err
		}
	}
	if inputPath != "" {
		cfg.Input.Path = inputPath
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if threshold != 0 {
		cfg.SCFind.Threshold = threshold
	}
	if overwrite {
		cfg.Output.Overwrite = true
	}
	if cfg.Input.Path == "" {
		return fmt.Errorf("no input cube given (use -i or config input.path)")
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "."
	}

	logger := newCLILogger(verbose)

	var reg *region.Bounds
	if cfg.Input.Region != "" {
		arr, err := region.ParseInts(cfg.Input.Region)
		if err != nil {
			return fmt.Errorf("parsing input.region: %w", err)
		}
		b, err := region.BoundsFromArray(arr)
		if err != nil {
			return fmt.Errorf("parsing input.region: %w", err)
		}
		reg = &b
	}

	c, err := cube.Load(cfg.Input.Path, reg)
	if err != nil {
		return fmt.Errorf("loading %s: %w", cfg.Input.Path, err)
	}

	var weights *cube.Cube
	if cfg.Input.Weights != "" {
		weights, err = cube.Load(cfg.Input.Weights, reg)
		if err != nil {
			return fmt.Errorf("loading weights %s: %w", cfg.Input.Weights, err)
		}
	}

	params, err := buildParams(cfg)
	if err != nil {
		return err
	}

	mask, table, err := scfind.Run(c, weights, params, logger)
	if err != nil && !scfind.IsNoSources(err) {
		return fmt.Errorf("running pipeline: %w", err)
	}

	if mkErr := os.MkdirAll(cfg.Output.Dir, 0o755); mkErr != nil {
		return fmt.Errorf("creating output directory %s: %w", cfg.Output.Dir, mkErr)
	}

	base := baseName(cfg.Input.Path)
	maskPath := filepath.Join(cfg.Output.Dir, base+"_mask.fits")
	if saveErr := mask.Save(maskPath, cfg.Output.Overwrite); saveErr != nil {
		return fmt.Errorf("writing mask %s: %w", maskPath, saveErr)
	}

	catPath := filepath.Join(cfg.Output.Dir, base+"_cat.csv")
	if catErr := writeCatalogue(catPath, table); catErr != nil {
		return catErr
	}

	return nil
}

func baseName(path string) string {
	b := filepath.Base(path)
	return b[:len(b)-len(filepath.Ext(b))]
}

func buildParams(cfg fileConfig) (scfind.Params, error) {
	scStat, err := parseStatistic(cfg.SCFind.Statistic)
	if err != nil {
		return scfind.Params{}, fmt.Errorf("scfind.statistic: %w", err)
	}
	scRange, err := parseFluxRange(cfg.SCFind.FluxRange)
	if err != nil {
		return scfind.Params{}, fmt.Errorf("scfind.fluxRange: %w", err)
	}

	params := scfind.Params{
		Flags: cfg.flags(),
		SCFind: scfind.SCFindParams{
			KernelsXY:   cfg.SCFind.KernelsXY,
			KernelsZ:    cfg.SCFind.KernelsZ,
			Threshold:   cfg.SCFind.Threshold,
			Replacement: cfg.SCFind.Replacement,
			Statistic:   scStat,
			FluxRange:   scRange,
		},
		Linker: scfind.LinkerParams{
			RadiusX: cfg.Linker.Radius[0], RadiusY: cfg.Linker.Radius[1], RadiusZ: cfg.Linker.Radius[2],
			MinSizeX: cfg.Linker.MinSize[0], MinSizeY: cfg.Linker.MinSize[1], MinSizeZ: cfg.Linker.MinSize[2],
			RemoveNegative: cfg.Linker.RemoveNegative,
		},
	}

	if cfg.ScaleNoise.Enabled {
		snStat, err := parseStatistic(cfg.ScaleNoise.Statistic)
		if err != nil {
			return scfind.Params{}, fmt.Errorf("scaleNoise.statistic: %w", err)
		}
		snRange, err := parseFluxRange(cfg.ScaleNoise.FluxRange)
		if err != nil {
			return scfind.Params{}, fmt.Errorf("scaleNoise.fluxRange: %w", err)
		}
		mode := scfind.NoiseGlobal
		if cfg.ScaleNoise.Mode == "local" {
			mode = scfind.NoiseLocal
		}
		params.ScaleNoise = scfind.ScaleNoiseParams{
			Enabled:        true,
			Mode:           mode,
			Statistic:      snStat,
			FluxRange:      snRange,
			WindowSpatial:  cfg.ScaleNoise.WindowSpatial,
			WindowSpectral: cfg.ScaleNoise.WindowSpectral,
			GridSpatial:    cfg.ScaleNoise.GridSpatial,
			GridSpectral:   cfg.ScaleNoise.GridSpectral,
			Interpolate:    cfg.ScaleNoise.Interpolate,
		}
	}

	return params, nil
}
