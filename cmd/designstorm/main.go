package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rossv/designstorms-sub000/internal/catalog"
	"github.com/rossv/designstorms-sub000/internal/observability"
	"github.com/rossv/designstorms-sub000/internal/sampler"
	"github.com/rossv/designstorms-sub000/internal/storm"
)

var (
	dataDir     string
	catalogFile string
	logLevel    string
	logFormat   string

	// Storm request
	depth        float64
	durationHr   float64
	timestepMin  float64
	distribution string
	durationMode string
	fidelity     string
	smoothing    bool
	customCurve  string
	curveFile    string
	strict       bool

	// Request sources
	configFile string
	preset     string
	savePreset string

	// Depth lookup
	pfdsFile string
	ari      float64

	// Output
	outCSV  string
	outDAT  string
	outJSON string
	outSVG  string
	start   string
	gauge   string
	column  string
	units   string
	noSave  bool
	doPlot  bool
	outPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "designstorm",
		Short:         "design storm hyetograph generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".designstorm", "data directory")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "extra tables and presets (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "generate a design storm",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
	f := generateCmd.Flags()
	f.Float64Var(&depth, "depth", 1.0, "total storm depth")
	f.Float64Var(&durationHr, "duration", 24, "storm duration in hours")
	f.Float64Var(&timestepMin, "timestep", 6, "requested timestep in minutes")
	f.StringVar(&distribution, "distribution", "scs_type_ii", "temporal distribution")
	f.StringVar(&durationMode, "mode", "standard", "duration mode (standard, custom)")
	f.StringVar(&fidelity, "fidelity", "precise", "beta evaluation fidelity (precise, fast)")
	f.BoolVar(&smoothing, "smooth", false, "smooth table-locked curves")
	f.StringVar(&customCurve, "curve", "", "custom curve points, e.g. \"(0,0)(0.5,0.7)(1,1)\"")
	f.StringVar(&curveFile, "curve-file", "", "custom curve file (two columns)")
	f.BoolVar(&strict, "strict", false, "fail instead of falling back")
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration (group/name)")
	f.StringVar(&savePreset, "save-preset", "", "write the resolved request to a yaml file")
	f.StringVar(&pfdsFile, "pfds", "", "NOAA precipitation frequency table for the depth")
	f.Float64Var(&ari, "ari", 10, "recurrence interval in years (with --pfds)")
	f.StringVar(&outCSV, "out-csv", "", "write the series as CSV")
	f.StringVar(&outDAT, "out-dat", "", "write a PCSWMM rain gauge file")
	f.StringVar(&outJSON, "out-json", "", "write the storm as JSON")
	f.StringVar(&outSVG, "out-svg", "", "write a hyetograph SVG")
	f.BoolVar(&noSave, "no-save", false, "do not store the run")
	f.BoolVar(&doPlot, "plot", false, "plot the storm in the terminal")
	addOutputFlags(generateCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "summarize a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun(formatCSV),
	}
	exportDATCmd := &cobra.Command{
		Use:   "export-dat [run_id]",
		Short: "export a run as a PCSWMM rain gauge file",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun(formatDAT),
	}
	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun(formatJSON),
	}
	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a run hyetograph as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun(formatSVG),
	}
	for _, c := range []*cobra.Command{exportCSVCmd, exportDATCmd, exportJSONCmd, exportSVGCmd} {
		c.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
		addOutputFlags(c)
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [group]",
		Short: "list request presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	distributionsCmd := &cobra.Command{
		Use:   "distributions",
		Short: "list available distributions",
		Args:  cobra.NoArgs,
		RunE:  listDistributions,
	}

	depthCmd := &cobra.Command{
		Use:   "depth",
		Short: "look up a design depth in a NOAA precipitation frequency table",
		Args:  cobra.NoArgs,
		RunE:  lookupDepth,
	}
	depthCmd.Flags().StringVar(&pfdsFile, "pfds", "", "NOAA free text table")
	depthCmd.Flags().Float64Var(&durationHr, "duration", 24, "storm duration in hours")
	depthCmd.Flags().Float64Var(&ari, "ari", 10, "recurrence interval in years")
	_ = depthCmd.MarkFlagRequired("pfds")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve storm generation over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "browse distributions interactively",
		Args:  cobra.NoArgs,
		RunE:  runPreview,
	}
	previewCmd.Flags().Float64Var(&depth, "depth", 1.0, "total storm depth")
	previewCmd.Flags().Float64Var(&durationHr, "duration", 24, "storm duration in hours")
	previewCmd.Flags().Float64Var(&timestepMin, "timestep", 6, "requested timestep in minutes")
	previewCmd.Flags().StringVar(&distribution, "distribution", "scs_type_ii", "initial distribution")
	previewCmd.Flags().StringVar(&customCurve, "curve", "", "custom curve points")

	compareCmd := &cobra.Command{
		Use:   "compare [distribution1] [distribution2] ...",
		Short: "compare distributions on the same storm",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareDistributions,
	}
	compareCmd.Flags().Float64Var(&depth, "depth", 1.0, "total storm depth")
	compareCmd.Flags().Float64Var(&durationHr, "duration", 24, "storm duration in hours")
	compareCmd.Flags().Float64Var(&timestepMin, "timestep", 6, "timestep in minutes")
	compareCmd.Flags().StringVar(&fidelity, "fidelity", "precise", "beta evaluation fidelity (precise, fast)")

	rootCmd.AddCommand(generateCmd, listCmd, showCmd, plotCmd,
		exportCSVCmd, exportDATCmd, exportJSONCmd, exportSVGCmd,
		presetsCmd, distributionsCmd, compareCmd, depthCmd, serveCmd, previewCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addOutputFlags(c *cobra.Command) {
	c.Flags().StringVar(&start, "start", "", "storm start (RFC 3339 or \"2006-01-02 15:04\")")
	c.Flags().StringVar(&gauge, "gauge", "System", "rain gauge name")
	c.Flags().StringVar(&column, "column", "intensity", "rain gauge column (intensity, volume, cumulative)")
	c.Flags().StringVar(&units, "units", "in", "depth units")
}

func newLogger() *slog.Logger {
	return observability.NewLogger(logLevel, logFormat, os.Stderr)
}

// newEngine builds the engine over the built-in catalog merged with the
// --catalog file.
func newEngine(logger *slog.Logger, path string, cache sampler.Cache) (*storm.Engine, error) {
	cat := catalog.Default()
	if path != "" {
		var err error
		cat, err = catalog.LoadFile(path, cat)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
	}
	return storm.NewEngine(cat, sampler.New(cache), logger), nil
}
