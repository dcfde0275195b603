package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rossv/designstorms-sub000/internal/export"
	"github.com/rossv/designstorms-sub000/internal/storage"
	"github.com/rossv/designstorms-sub000/internal/storm"
	"github.com/rossv/designstorms-sub000/internal/viz"
)

type exportFormat int

const (
	formatCSV exportFormat = iota
	formatDAT
	formatJSON
	formatSVG
)

type exportOptions struct {
	start  time.Time
	dat    export.DATOptions
	params storm.Params
}

func writeExport(w io.Writer, format exportFormat, r storm.Result, opts exportOptions) error {
	switch format {
	case formatCSV:
		return export.WriteCSV(w, r, opts.start)
	case formatDAT:
		return export.WriteDAT(w, r, opts.dat)
	case formatJSON:
		return export.WriteJSON(w, opts.params, r)
	case formatSVG:
		_, err := io.WriteString(w, export.HyetographSVG(r, 800, 400))
		return err
	default:
		return fmt.Errorf("unknown export format %d", format)
	}
}

func writeFile(path string, format exportFormat, r storm.Result, opts exportOptions) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeExport(file, format, r, opts); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func listRuns(_ *cobra.Command, _ []string) error {
	st := storage.New(dataDir, nil)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDISTRIBUTION\tTIME\tDEPTH\tDURATION\tSTEP\tPEAK")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3f\t%.2fh\t%.2fm\t%.3f\n",
			run.ID,
			run.Distribution,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Stats.TotalDepth,
			run.Params.DurationHours,
			run.EffectiveTimestep,
			run.Stats.PeakIntensity,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, storm.Result, error) {
	st := storage.New(dataDir, nil)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, storm.Result{}, err
	}
	r, err := st.LoadSeries(runID)
	if err != nil {
		return nil, storm.Result{}, err
	}
	return meta, r, nil
}

func showRun(_ *cobra.Command, args []string) error {
	meta, r, err := loadRun(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("run: %s (%s)\n", meta.ID, meta.Timestamp.Local().Format(time.RFC3339))
	fmt.Println(viz.Summary(meta.Params, r))
	fmt.Println(viz.Sparkline(r, 60))
	return nil
}

func plotRun(_ *cobra.Command, args []string) error {
	meta, r, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if r.Len() < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("distribution: %s\n", meta.Distribution)
	fmt.Printf("samples: %d\n\n", r.Len())
	fmt.Println(viz.Plot(r, 80, 10))
	return nil
}

func exportRun(format exportFormat) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		meta, r, err := loadRun(args[0])
		if err != nil {
			return err
		}

		var startTime time.Time
		if start != "" {
			startTime, err = parseStart(start)
			if err != nil {
				return err
			}
		}
		col, err := export.ParseColumn(column)
		if err != nil {
			return err
		}
		opts := exportOptions{
			start:  startTime,
			dat:    export.DATOptions{Gauge: gauge, Start: startTime, Column: col, Units: units, Logger: newLogger()},
			params: meta.Params,
		}

		if outPath == "" {
			return writeExport(cmd.OutOrStdout(), format, r, opts)
		}
		if err := writeFile(outPath, format, r, opts); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", outPath)
		return nil
	}
}
