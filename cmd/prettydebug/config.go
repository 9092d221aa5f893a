package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"prettydebug/internal/filter"
	"prettydebug/internal/report"
	"prettydebug/internal/style"
	"prettydebug/internal/trace"
)

const configFileName = "prettydebug.toml"

// fileConfig mirrors prettydebug.toml.
//
//	[filter]
//	reject  = "glob:*_test.go"
//	exclude = ["vendor/lib.go"]
//
//	[table]
//	ellipsis  = 60
//	separator = " | "
//
//	[output]
//	color = "auto"
type fileConfig struct {
	Filter filterConfig `toml:"filter"`
	Table  tableConfig  `toml:"table"`
	Output outputConfig `toml:"output"`
}

type filterConfig struct {
	Select  string   `toml:"select"`
	Reject  string   `toml:"reject"`
	Exclude []string `toml:"exclude"`
}

type tableConfig struct {
	Ellipsis  int    `toml:"ellipsis"`
	Separator string `toml:"separator"`
}

type outputConfig struct {
	Color string `toml:"color"`
}

func findConfigFile(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fileConfig{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("filter", "select") && meta.IsDefined("filter", "reject") {
		return fileConfig{}, fmt.Errorf("%s: [filter].select and [filter].reject cannot be used together", path)
	}
	if meta.IsDefined("table", "ellipsis") && cfg.Table.Ellipsis < 0 {
		return fileConfig{}, fmt.Errorf("%s: [table].ellipsis must not be negative", path)
	}
	// Relative exclusions are relative to the file that names them.
	for i, f := range cfg.Filter.Exclude {
		if !filepath.IsAbs(f) {
			cfg.Filter.Exclude[i] = filepath.Join(filepath.Dir(path), f)
		}
	}
	return cfg, nil
}

// readFileConfig loads --config, or the nearest prettydebug.toml. A missing
// file is not an error unless it was named explicitly.
func readFileConfig(cmd *cobra.Command) (fileConfig, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fileConfig{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path == "" {
		found, ok, err := findConfigFile(".")
		if err != nil || !ok {
			return fileConfig{}, err
		}
		path = found
	}
	return loadFileConfig(path)
}

// predicateFor compiles a --select/--reject value. "glob:PATTERN" matches
// paths with a shell pattern; anything else is a regexp tried on the path and
// on the label.
func predicateFor(expr string) (filter.Predicate, error) {
	if pattern, ok := strings.CutPrefix(expr, "glob:"); ok {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		return filter.MatchGlob(pattern), nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", expr, err)
	}
	return filter.MatchEither(re), nil
}

// reportSettings is the merged view of the config file and the flags.
type reportSettings struct {
	color     string
	selectPat string
	rejectPat string
	exclude   []string
	ellipsis  int
	separator string
	relative  bool
}

func settingsFromFile(fc fileConfig) reportSettings {
	return reportSettings{
		color:     fc.Output.Color,
		selectPat: fc.Filter.Select,
		rejectPat: fc.Filter.Reject,
		exclude:   fc.Filter.Exclude,
		ellipsis:  fc.Table.Ellipsis,
		separator: fc.Table.Separator,
	}
}

// overrideFromFlags applies the flags the user set explicitly.
func (s *reportSettings) overrideFromFlags(cmd *cobra.Command) error {
	if f := cmd.Flags().Lookup("color"); f != nil && (f.Changed || s.color == "") {
		s.color = f.Value.String()
	}
	for _, name := range []string{"select", "reject"} {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		// One of select/reject replaces the other, as in the file.
		s.selectPat, s.rejectPat = "", ""
		if name == "select" {
			s.selectPat = f.Value.String()
		} else {
			s.rejectPat = f.Value.String()
		}
	}
	if cmd.Flags().Changed("select") && cmd.Flags().Changed("reject") {
		return fmt.Errorf("--select and --reject cannot be used together")
	}
	if f := cmd.Flags().Lookup("exclude"); f != nil && f.Changed {
		extra, err := cmd.Flags().GetStringSlice("exclude")
		if err != nil {
			return fmt.Errorf("failed to get exclude flag: %w", err)
		}
		s.exclude = append(s.exclude, extra...)
	}
	if f := cmd.Flags().Lookup("ellipsis"); f != nil && f.Changed {
		n, err := cmd.Flags().GetInt("ellipsis")
		if err != nil {
			return fmt.Errorf("failed to get ellipsis flag: %w", err)
		}
		s.ellipsis = n
	}
	if f := cmd.Flags().Lookup("separator"); f != nil && f.Changed {
		s.separator = f.Value.String()
	}
	if f := cmd.Flags().Lookup("relative"); f != nil && f.Changed {
		on, err := cmd.Flags().GetBool("relative")
		if err != nil {
			return fmt.Errorf("failed to get relative flag: %w", err)
		}
		s.relative = on
	}
	return nil
}

// colorEnabled resolves the color setting against stdout.
func (s reportSettings) colorEnabled() (bool, error) {
	mode, err := style.ParseMode(s.color)
	if err != nil {
		return false, fmt.Errorf("--color: %w", err)
	}
	return mode.Enabled(os.Stdout), nil
}

// builder turns the settings into a report configuration.
func (s reportSettings) builder(tracer trace.Tracer) (*report.Builder, error) {
	colored, err := s.colorEnabled()
	if err != nil {
		return nil, err
	}
	b := report.NewConfig().
		WithStyler(style.For(colored)).
		WithTracer(tracer).
		WithExclude(s.exclude...).
		WithEllipsis(s.ellipsis).
		WithSeparator(s.separator).
		WithRelative(s.relative)
	switch {
	case s.selectPat != "":
		p, err := predicateFor(s.selectPat)
		if err != nil {
			return nil, fmt.Errorf("select: %w", err)
		}
		b.WithSelect(p)
	case s.rejectPat != "":
		p, err := predicateFor(s.rejectPat)
		if err != nil {
			return nil, fmt.Errorf("reject: %w", err)
		}
		b.WithReject(p)
	}
	return b, nil
}

// reportBuilder merges prettydebug.toml with the command's flags.
func reportBuilder(cmd *cobra.Command) (*report.Builder, reportSettings, error) {
	fc, err := readFileConfig(cmd)
	if err != nil {
		return nil, reportSettings{}, err
	}
	s := settingsFromFile(fc)
	if err := s.overrideFromFlags(cmd); err != nil {
		return nil, reportSettings{}, err
	}
	b, err := s.builder(trace.FromContext(cmd.Context()))
	if err != nil {
		return nil, reportSettings{}, err
	}
	return b, s, nil
}
