package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"prettydebug/internal/pretty"
	"prettydebug/internal/report"
	"prettydebug/internal/style"
	"prettydebug/internal/trace"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] [file]",
	Short: "Pretty-print a JSON, TOML, YAML or msgpack document",
	Long: `Decode a document and print it as nested brackets. Short containers stay
on one line; longer ones are split one element per line. Self-referencing
structures print [...] or {...} at the point of recursion.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().String("input", "auto", "input format (auto|json|toml|msgpack|yaml)")
}

// inputFormat picks the decoder by flag, then by file extension. stdin
// defaults to JSON.
func inputFormat(flag, name string) (pretty.Format, error) {
	flag = strings.ToLower(strings.TrimSpace(flag))
	if flag != "" && flag != "auto" {
		return pretty.ParseFormat(flag)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		return pretty.FormatTOML, nil
	case ".msgpack", ".mp":
		return pretty.FormatMsgpack, nil
	case ".yaml", ".yml":
		return pretty.FormatYAML, nil
	default:
		return pretty.FormatJSON, nil
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	builder, settings, err := reportBuilder(cmd)
	if err != nil {
		return err
	}
	defer report.Guard(builder.Freeze())

	flag, err := cmd.Flags().GetString("input")
	if err != nil {
		return fmt.Errorf("failed to get input flag: %w", err)
	}
	name := "-"
	if len(args) == 1 {
		name = args[0]
	}
	format, err := inputFormat(flag, name)
	if err != nil {
		return err
	}

	_, span := trace.Start(cmd.Context(), trace.ScopeCommand, "inspect")
	span.WithExtra("format", string(format))

	var r io.Reader = cmd.InOrStdin()
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			span.End("open failed")
			return fmt.Errorf("failed to open %s: %w", name, err)
		}
		defer f.Close()
		r = f
	}
	v, err := pretty.Decode(r, format)
	if err != nil {
		span.End("decode failed")
		return err
	}
	text := pretty.Inspect(v)
	span.End("")

	colored, err := settings.colorEnabled()
	if err != nil {
		return err
	}
	if colored {
		text = style.For(true).Style(text, style.Verbatim)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}
