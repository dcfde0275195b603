package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rossv/designstorms-sub000/internal/betainc"
	"github.com/rossv/designstorms-sub000/internal/catalog"
	"github.com/rossv/designstorms-sub000/internal/config"
	"github.com/rossv/designstorms-sub000/internal/observability"
	"github.com/rossv/designstorms-sub000/internal/sampler"
	"github.com/rossv/designstorms-sub000/internal/storm"
	"github.com/rossv/designstorms-sub000/internal/viz"
)

func parseStart(s string) (time.Time, error) {
	cfg := config.Config{Output: config.OutputConfig{Start: s}}
	return cfg.StartTime()
}

func listPresets(_ *cobra.Command, args []string) error {
	groups := config.Groups()
	if len(args) == 1 {
		groups = []string{args[0]}
	}
	for _, group := range groups {
		presets := config.ListPresets(group)
		if len(presets) == 0 {
			fmt.Printf("no presets for group: %s\n", group)
			continue
		}
		fmt.Printf("presets for %s:\n", group)
		for _, p := range presets {
			cfg := config.GetPreset(group, p)
			fmt.Printf("  %s/%-18s %s, %gh, %g\n", group, p, cfg.Distribution, cfg.DurationHours, cfg.Depth)
		}
	}
	return nil
}

func listDistributions(_ *cobra.Command, _ []string) error {
	engine, err := newEngine(newLogger(), catalogFile, nil)
	if err != nil {
		return err
	}
	cat := engine.Catalog()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tDETAIL")
	for _, family := range cat.Families() {
		var hours []string
		for _, h := range cat.Durations(family) {
			hours = append(hours, fmt.Sprintf("%gh", h))
		}
		fmt.Fprintf(w, "%s\ttable family\t%s\n", family, strings.Join(hours, ", "))
	}
	for _, name := range cat.Presets() {
		id, err := cat.ParseID(name)
		if err != nil {
			continue
		}
		def, err := cat.Lookup(id)
		if err != nil {
			// shadowed by a table family
			continue
		}
		p := storm.Params{Depth: 1, DurationHours: 24, TimestepMinutes: 30, Distribution: name}
		fmt.Fprintf(w, "%s\tbeta(%g, %g)\t%s\n", name, def.Alpha, def.Beta, viz.Sparkline(engine.Generate(p), 24))
	}
	fmt.Fprintln(w, "user\tcustom curve\t--curve or --curve-file")
	return w.Flush()
}

func runPreview(cmd *cobra.Command, _ []string) error {
	logger := observability.NewLogger("error", logFormat, io.Discard)
	engine, err := newEngine(logger, catalogFile, nil)
	if err != nil {
		return err
	}
	p := storm.Params{
		Depth:           depth,
		DurationHours:   durationHr,
		TimestepMinutes: timestepMin,
		Distribution:    distribution,
		CustomCurve:     customCurve,
	}
	if id, err := engine.Catalog().ParseID(distribution); err == nil && id.Kind == catalog.KindTabulated && !id.HasDuration() {
		p.Distribution = storm.ResolveTable(engine.Catalog(), id, durationHr, storm.Standard).String()
	}
	return viz.RunPreview(engine, p)
}

func compareDistributions(cmd *cobra.Command, args []string) error {
	engine, err := newEngine(newLogger(), catalogFile, sampler.NewLRU(len(args)))
	if err != nil {
		return err
	}
	fid, err := betainc.ParseFidelity(fidelity)
	if err != nil {
		return err
	}
	p := storm.Params{
		Depth:           depth,
		DurationHours:   durationHr,
		TimestepMinutes: timestepMin,
		DurationMode:    storm.Custom,
		Fidelity:        fid,
	}

	results, err := engine.Compare(cmd.Context(), p, args)
	if err != nil {
		return err
	}

	fmt.Printf("depth %g over %gh at %g min\n\n", depth, durationHr, timestepMin)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DISTRIBUTION\tPEAK\tAT\tSAMPLES\tSHAPE\tFALLBACKS")
	for _, r := range results {
		s := r.Stats()
		fmt.Fprintf(w, "%s\t%.3f\t%.0fm\t%d\t%s\t%s\n",
			r.Distribution, s.PeakIntensity, s.TimeToPeakMinutes, s.Samples,
			viz.Sparkline(r, 32), strings.Join(r.Fallbacks, ","))
	}
	return w.Flush()
}
