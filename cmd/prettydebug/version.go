package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"prettydebug/internal/version"
)

const versionTagline = "stack traces you can read"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show prettydebug build fingerprints",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	f := versionCmd.Flags()
	f.Bool("hash", false, "include git commit hash")
	f.Bool("message", false, "include git commit message")
	f.Bool("date", false, "include build timestamp")
	f.Bool("full", false, "include every recorded build field")
	f.String("format", "pretty", "output format (pretty|json)")
}

// buildField is one optional line of version output.
type buildField struct {
	flag  string
	label string
	value func(version.Info) string
	set   func(*version.Info, string)
}

var buildFields = []buildField{
	{"hash", "commit", func(i version.Info) string { return i.GitCommit }, func(i *version.Info, s string) { i.GitCommit = s }},
	{"message", "message", func(i version.Info) string { return i.GitMessage }, func(i *version.Info, s string) { i.GitMessage = s }},
	{"date", "built", func(i version.Info) string { return i.BuildDate }, func(i *version.Info, s string) { i.BuildDate = s }},
}

type versionPayload struct {
	Tool    string `json:"tool"`
	Tagline string `json:"tagline"`
	version.Info
}

func runVersion(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	format, err := flags.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	full, err := flags.GetBool("full")
	if err != nil {
		return fmt.Errorf("failed to get full flag: %w", err)
	}
	var shown []buildField
	for _, bf := range buildFields {
		on, err := flags.GetBool(bf.flag)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", bf.flag, err)
		}
		if on || full {
			shown = append(shown, bf)
		}
	}

	info := buildInfo()
	switch strings.ToLower(format) {
	case "json":
		return writeVersionJSON(cmd.OutOrStdout(), info, shown)
	case "pretty":
		_, settings, err := reportBuilder(cmd)
		if err != nil {
			return err
		}
		colored, err := settings.colorEnabled()
		if err != nil {
			return err
		}
		writeVersionPretty(cmd.OutOrStdout(), info, shown, colored)
		return nil
	}
	return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
}

// buildInfo trims the ldflags values; an empty version reads as "dev".
func buildInfo() version.Info {
	info := version.Current()
	info.Version = strings.TrimSpace(info.Version)
	if info.Version == "" {
		info.Version = "dev"
	}
	for _, bf := range buildFields {
		bf.set(&info, strings.TrimSpace(bf.value(info)))
	}
	return info
}

func writeVersionPretty(out io.Writer, info version.Info, shown []buildField, colored bool) {
	v := info.Version
	if v == version.Version {
		v = version.Colored(colored)
	}
	fmt.Fprintf(out, "prettydebug %s: %s\n", v, versionTagline)
	for _, bf := range shown {
		fmt.Fprintf(out, "%-8s %s\n", bf.label+":", orUnknown(bf.value(info)))
	}
	if len(shown) == 0 {
		fmt.Fprintln(out, "set --hash, --message, --date or --full for build details")
	}
}

func writeVersionJSON(out io.Writer, info version.Info, shown []buildField) error {
	payload := versionPayload{Tool: "prettydebug", Tagline: versionTagline}
	payload.Version = info.Version
	for _, bf := range shown {
		bf.set(&payload.Info, orUnknown(bf.value(info)))
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
