package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"prettydebug/internal/frame"
	"prettydebug/internal/observ"
	"prettydebug/internal/report"
	"prettydebug/internal/style"
	"prettydebug/internal/trace"
)

var framesCmd = &cobra.Command{
	Use:   "frames [flags] [file...]",
	Short: "Render call-stack trails as aligned reports",
	Long: `Read raw frame descriptors, one per line, and print a report for each
input. With no file, or with "-", descriptors are read from stdin.

A descriptor looks like "path/to/file.rb:12:in ` + "`label'" + `"; the line
number and the label are optional.`,
	RunE: runFrames,
}

func init() {
	addFramesFlags(framesCmd)
}

func addFramesFlags(cmd *cobra.Command) {
	cmd.Flags().String("select", "", "keep only frames matching this regexp (or glob:PATTERN)")
	cmd.Flags().String("reject", "", "drop frames matching this regexp (or glob:PATTERN)")
	cmd.Flags().StringSlice("exclude", nil, "hide every frame from these files")
	cmd.Flags().Int("ellipsis", 0, "cap column widths, cutting long cells in the middle (0=off)")
	cmd.Flags().String("separator", "", "cell separator (default \" | \")")
	cmd.Flags().Bool("innermost-first", false, "inputs list the innermost call first")
	cmd.Flags().Bool("relative", false, "strip the directory shared by all frames")
	cmd.Flags().String("message", "", "message line printed above each table")
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().String("ui", "auto", "progress UI for several inputs (auto|on|off)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().String("metrics-file", "", "write Prometheus metrics for the run to this file")
}

type framesOptions struct {
	format         string
	innermostFirst bool
	message        string
	ui             style.Mode
	jobs           int
	timings        bool
	metricsFile    string
}

func readFramesOptions(cmd *cobra.Command) (framesOptions, error) {
	var opts framesOptions
	var err error

	if opts.format, err = cmd.Flags().GetString("format"); err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	opts.format = strings.ToLower(opts.format)
	switch opts.format {
	case "pretty", "json":
	default:
		return opts, fmt.Errorf("unsupported format %q (must be pretty or json)", opts.format)
	}

	if opts.innermostFirst, err = cmd.Flags().GetBool("innermost-first"); err != nil {
		return opts, fmt.Errorf("failed to get innermost-first flag: %w", err)
	}
	if opts.message, err = cmd.Flags().GetString("message"); err != nil {
		return opts, fmt.Errorf("failed to get message flag: %w", err)
	}

	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return opts, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if opts.ui, err = style.ParseMode(uiValue); err != nil {
		return opts, fmt.Errorf("--ui: %w", err)
	}

	if opts.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if opts.jobs <= 0 {
		opts.jobs = runtime.GOMAXPROCS(0)
	}

	if opts.metricsFile, err = cmd.Flags().GetString("metrics-file"); err != nil {
		return opts, fmt.Errorf("failed to get metrics-file flag: %w", err)
	}
	if opts.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return opts, nil
}

// readTrail reads one descriptor per non-blank line.
func readTrail(r io.Reader) ([]string, error) {
	var trail []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		trail = append(trail, line)
	}
	return trail, sc.Err()
}

func loadTrail(stdin io.Reader, name string) ([]string, error) {
	if name == "-" {
		return readTrail(stdin)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()
	trail, err := readTrail(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return trail, nil
}

type discardProgress struct{}

func (discardProgress) OnEvent(report.Event) {}

type framesResult struct {
	report report.Report
	lines  []string
}

func runFrames(cmd *cobra.Command, args []string) error {
	opts, err := readFramesOptions(cmd)
	if err != nil {
		return err
	}
	builder, settings, err := reportBuilder(cmd)
	if err != nil {
		return err
	}
	defer report.Guard(builder.Freeze())

	ctx, span := trace.Start(cmd.Context(), trace.ScopeCommand, "frames")
	defer span.End("")

	names := args
	if len(names) == 0 {
		names = []string{"-"}
	}
	timer := observ.NewTimer()
	var metrics *observ.Metrics
	if opts.metricsFile != "" {
		metrics = observ.NewMetrics()
	}
	results := make([]framesResult, len(names))
	stdin := cmd.InOrStdin()

	work := func(sink report.ProgressSink) error {
		cfg := builder.WithSink(sink).Freeze()
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(min(opts.jobs, len(names)))
		for i, name := range names {
			g.Go(func() error {
				started := time.Now()
				lap := timer.Begin("input " + name)
				trail, err := loadTrail(stdin, name)
				if err != nil {
					lap.Stop("failed")
					metrics.RecordFailure()
					sink.OnEvent(report.Event{Input: name, Status: report.StatusError, Err: err})
					return err
				}
				if opts.innermostFirst {
					trail = frame.Reverse(trail)
				}
				r, err := report.Assemble(gctx, report.Input{Name: name, Message: opts.message, Trail: trail}, cfg)
				if err != nil {
					lap.Stop("failed")
					metrics.RecordFailure()
					sink.OnEvent(report.Event{Input: name, Status: report.StatusError, Err: err})
					return err
				}
				metrics.RecordReport(len(r.Frames), r.Hidden, r.FilterErr != nil, time.Since(started))
				results[i] = framesResult{report: r}
				if opts.format == "pretty" {
					results[i].lines = r.Lines(cfg)
				}
				lap.Stop(fmt.Sprintf("%d shown, %d hidden", len(r.Frames), r.Hidden))
				sink.OnEvent(report.Event{Input: name, Status: report.StatusDone, Elapsed: time.Since(started)})
				return nil
			})
		}
		return g.Wait()
	}

	if len(names) > 1 && opts.ui.Enabled(os.Stderr) {
		err = runWithUI("frames", names, work)
	} else {
		err = work(discardProgress{})
	}
	if werr := metrics.WriteFile(opts.metricsFile); werr != nil {
		err = errors.Join(err, fmt.Errorf("failed to write metrics: %w", werr))
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.format == "json" {
		err = writeFramesJSON(out, results)
	} else {
		err = writeFramesPretty(out, names, results, settings)
	}
	if err != nil {
		return err
	}
	if opts.timings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	return nil
}

func writeFramesPretty(out io.Writer, names []string, results []framesResult, settings reportSettings) error {
	colored, err := settings.colorEnabled()
	if err != nil {
		return err
	}
	styler := style.For(colored)
	for i, res := range results {
		if len(results) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, style.Banner(styler, names[i]))
		}
		for _, line := range res.lines {
			if _, err := fmt.Fprintln(out, line); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
		}
		if res.report.FilterErr != nil {
			fmt.Fprintln(out, styler.Style("filter skipped: "+res.report.FilterErr.Error(), style.Note))
		}
	}
	return nil
}

func writeFramesJSON(out io.Writer, results []framesResult) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if len(results) == 1 {
		return enc.Encode(results[0].report)
	}
	reports := make([]report.Report, len(results))
	for i, res := range results {
		reports[i] = res.report
	}
	return enc.Encode(reports)
}
