package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"prettydebug/internal/report"
)

var raiseCmd = &cobra.Command{
	Use:   "raise [flags] [message]",
	Short: "Fail on purpose to show the exit report",
	Long: `raise ends the program through the exit hook, printing the message and the
trail of the place that failed. With --panic the failure is a panic caught
by the deferred hook; otherwise the error is reported directly.`,
	RunE: runRaise,
}

// exitFunc ends the process after the report is printed.
var exitFunc = os.Exit

func init() {
	raiseCmd.Flags().Bool("panic", false, "panic instead of returning the error")
}

func runRaise(cmd *cobra.Command, args []string) error {
	builder, _, err := reportBuilder(cmd)
	if err != nil {
		return err
	}
	cfg := builder.WithOutput(cmd.ErrOrStderr()).Freeze()
	exit := report.WithExitFunc(exitFunc)
	defer report.Guard(cfg, exit)

	usePanic, err := cmd.Flags().GetBool("panic")
	if err != nil {
		return err
	}
	msg := strings.Join(args, " ")
	if msg == "" {
		msg = "raised on request"
	}
	if usePanic {
		raisePanic(msg)
	}
	report.Exit(report.New(msg), cfg, exit)
	return nil
}

func raisePanic(msg string) {
	panic(report.New(msg))
}
