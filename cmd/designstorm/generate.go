package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rossv/designstorms-sub000/internal/config"
	"github.com/rossv/designstorms-sub000/internal/export"
	"github.com/rossv/designstorms-sub000/internal/pfds"
	"github.com/rossv/designstorms-sub000/internal/storage"
	"github.com/rossv/designstorms-sub000/internal/storm"
	"github.com/rossv/designstorms-sub000/internal/viz"
)

// resolveConfig layers the request: preset, then config file, then any flag
// set on the command line.
func resolveConfig(flags *pflag.FlagSet) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		group, name, ok := strings.Cut(preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset must be group/name, got %q (groups: %v)", preset, config.Groups())
		}
		p := config.GetPreset(group, name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(group))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if flags.Changed("depth") {
		cfg.Depth = depth
	}
	if flags.Changed("duration") {
		cfg.DurationHours = durationHr
	}
	if flags.Changed("timestep") {
		cfg.TimestepMinutes = timestepMin
	}
	if flags.Changed("distribution") {
		cfg.Distribution = distribution
	}
	if flags.Changed("mode") {
		cfg.DurationMode = durationMode
	}
	if flags.Changed("fidelity") {
		cfg.Fidelity = fidelity
	}
	if flags.Changed("smooth") {
		cfg.Smoothing = smoothing
	}
	if flags.Changed("curve") {
		cfg.CustomCurve = customCurve
		cfg.CustomCurveFile = ""
	}
	if flags.Changed("curve-file") {
		cfg.CustomCurveFile = curveFile
	}
	if flags.Changed("start") {
		cfg.Output.Start = start
	}
	if flags.Changed("gauge") {
		cfg.Output.Gauge = gauge
	}
	if flags.Changed("units") {
		cfg.Output.Units = units
	}
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	cfg, err := resolveConfig(cmd.Flags())
	if err != nil {
		return err
	}

	if pfdsFile != "" && !cmd.Flags().Changed("depth") {
		d, err := depthFromTable(pfdsFile, cfg.DurationHours, ari)
		if err != nil {
			return err
		}
		logger.Info("depth from frequency table", "file", pfdsFile, "ari", ari, "depth", d)
		cfg.Depth = d
	}

	if savePreset != "" {
		if err := config.Save(savePreset, cfg); err != nil {
			return fmt.Errorf("save preset: %w", err)
		}
		logger.Info("request saved", "path", savePreset)
	}

	params, err := cfg.Params()
	if err != nil {
		return err
	}

	engine, err := newEngine(logger, catalogFile, nil)
	if err != nil {
		return err
	}

	began := time.Now()
	var res storm.Result
	if strict {
		res, err = engine.GenerateStrict(params)
		if err != nil {
			return err
		}
	} else {
		res = engine.Generate(params)
	}
	logger.Debug("storm generated", "distribution", res.Distribution, "samples", res.Len(), "elapsed", time.Since(began))

	fmt.Println(viz.Summary(params, res))
	if doPlot {
		fmt.Println()
		fmt.Println(viz.Plot(res, 72, 10))
	}

	if !noSave {
		st := storage.New(dataDir, nil)
		runID, err := st.Save(params, res)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	startTime, err := cfg.StartTime()
	if err != nil {
		return err
	}
	col, err := export.ParseColumn(column)
	if err != nil {
		return err
	}
	opts := exportOptions{
		start:  startTime,
		dat:    export.DATOptions{Gauge: cfg.Output.Gauge, Start: startTime, Column: col, Units: cfg.Output.Units, Logger: logger},
		params: params,
	}
	outputs := []struct {
		path   string
		format exportFormat
	}{
		{outCSV, formatCSV}, {outDAT, formatDAT}, {outJSON, formatJSON}, {outSVG, formatSVG},
	}
	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		if err := writeFile(o.path, o.format, res, opts); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", o.path)
	}
	return nil
}

func depthFromTable(path string, hours, years float64) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	tbl, err := pfds.Parse(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return tbl.Depth(hours, years)
}

func lookupDepth(_ *cobra.Command, _ []string) error {
	d, err := depthFromTable(pfdsFile, durationHr, ari)
	if err != nil {
		return err
	}
	fmt.Printf("%g\n", d)
	return nil
}
