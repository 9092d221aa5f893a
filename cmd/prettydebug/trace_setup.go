package main

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"prettydebug/internal/report"
	"prettydebug/internal/trace"
)

var (
	traceCleanupMu sync.Mutex
	traceCleanup   func()

	exitCfgMu sync.Mutex
	exitCfg   = report.Default()
)

// exitConfig is the configuration main's exit hook reports with. It is the
// default until flags are parsed, then follows --color, prettydebug.toml and
// the tracer.
func exitConfig() report.Config {
	exitCfgMu.Lock()
	defer exitCfgMu.Unlock()
	return exitCfg
}

func setExitConfig(cfg report.Config) {
	exitCfgMu.Lock()
	exitCfg = cfg
	exitCfgMu.Unlock()
}

// publishExitConfig hands the parsed settings to the exit hook. A bad config
// file leaves the default in place; the command fails on it anyway.
func publishExitConfig(cmd *cobra.Command) {
	builder, _, err := reportBuilder(cmd)
	if err != nil {
		return
	}
	setExitConfig(builder.WithOutput(cmd.ErrOrStderr()).Freeze())
}

// startTracing inspects trace-related flags, initializes the tracer and
// attaches it to the command context. Runtime profilers start here too.
func startTracing(cmd *cobra.Command, _ []string) error {
	tracer, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	profiles, err := setupProfiling(cmd)
	if err != nil {
		_ = tracer.Close()
		return err
	}
	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	// The run id ties ring dumps and trace files to one invocation.
	trace.Point(tracer, trace.ScopeCommand, "run", nil, "id="+uuid.NewString())
	publishExitConfig(cmd)

	traceCleanupMu.Lock()
	traceCleanup = func() {
		if err := profiles.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	traceCleanupMu.Unlock()
	return nil
}

// stopTracing flushes and closes the tracer once. PersistentPostRun is not
// called when a command fails, so main calls it too.
func stopTracing() {
	traceCleanupMu.Lock()
	cleanup := traceCleanup
	traceCleanup = nil
	traceCleanupMu.Unlock()
	if cleanup != nil {
		// The tracer is about to close; the hook goes back to the default.
		setExitConfig(report.Default())
		cleanup()
	}
}

// setupTracing builds the tracer described by the trace flags.
func setupTracing(cmd *cobra.Command) (trace.Tracer, error) {
	root := cmd.Root()

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}

	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}

	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}

	formatStr, err := root.PersistentFlags().GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}

	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}

	// An output without an explicit level means "show the stages".
	if level == trace.LevelOff {
		if traceOutput == "" {
			return trace.Nop, nil
		}
		level = trace.LevelStage
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}

	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace format: %w", err)
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: traceOutput,
		RingSize:   ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	return tracer, nil
}
