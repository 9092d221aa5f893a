package main

import (
	"os"

	"github.com/spf13/cobra"

	"prettydebug/internal/report"
	"prettydebug/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "prettydebug",
	Short: "Readable call-stack reports and value dumps",
	Long: `prettydebug turns raw call-stack trails into short, aligned reports:
library and synthetic frames are hidden, anonymous frames are relabeled and
long paths are cut in the middle. It also pretty-prints JSON, TOML, YAML and
msgpack documents.`,
	SilenceUsage:      true,
	PersistentPreRunE: startTracing,
	PersistentPostRun: func(*cobra.Command, []string) { stopTracing() },
}

// main registers subcommands and persistent flags and executes the root
// command. A panic anywhere below is reported by the exit hook; a returned
// error is printed by cobra and ends the process with status 1.
func main() {
	defer report.GuardFrom(exitConfig)

	rootCmd.Version = version.Version // enables --version

	rootCmd.AddCommand(framesCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(raiseCmd)
	rootCmd.AddCommand(versionCmd)

	addPersistentFlags(rootCmd)

	err := rootCmd.Execute()
	stopTracing()
	if err != nil {
		os.Exit(1)
	}
}

// addPersistentFlags declares the flags every subcommand inherits.
func addPersistentFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.String("config", "", "path to prettydebug.toml (default: search upward from the working directory)")
	pf.Bool("timings", false, "show timing information")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|stage|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")
}
