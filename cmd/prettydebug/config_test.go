package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func writeConfig(t *testing.T, dir, data string) string {
	t.Helper()
	path := filepath.Join(dir, configFileName)
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write %s: %v", configFileName, err)
	}
	return path
}

// newTestCommand builds a frames-like command under a fresh root so flag
// state does not leak between tests.
func newTestCommand(run func(*cobra.Command, []string) error) (*cobra.Command, *cobra.Command) {
	root := &cobra.Command{Use: "prettydebug", SilenceUsage: true, SilenceErrors: true}
	addPersistentFlags(root)
	cmd := &cobra.Command{Use: "frames", RunE: run}
	addFramesFlags(cmd)
	root.AddCommand(cmd)
	return root, cmd
}

func TestFindConfigFileSearchesUpward(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	got, ok, err := findConfigFile(nested)
	if err != nil {
		t.Fatalf("findConfigFile: %v", err)
	}
	if !ok || got != want {
		t.Fatalf("findConfigFile = %q, %v; want %q", got, ok, want)
	}
}

func TestLoadFileConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[filter]
reject  = "glob:*_test.go"
exclude = ["vendor/lib.go", "/abs/x.go"]

[table]
ellipsis  = 40
separator = " : "

[output]
color = "off"
`)
	cfg, err := loadFileConfig(path)
	if err != nil {
		t.Fatalf("loadFileConfig: %v", err)
	}
	if cfg.Filter.Reject != "glob:*_test.go" {
		t.Fatalf("reject = %q", cfg.Filter.Reject)
	}
	wantExclude := []string{filepath.Join(dir, "vendor/lib.go"), "/abs/x.go"}
	if strings.Join(cfg.Filter.Exclude, ",") != strings.Join(wantExclude, ",") {
		t.Fatalf("exclude = %v, want %v", cfg.Filter.Exclude, wantExclude)
	}
	if cfg.Table.Ellipsis != 40 || cfg.Table.Separator != " : " {
		t.Fatalf("unexpected table section %+v", cfg.Table)
	}
	if cfg.Output.Color != "off" {
		t.Fatalf("color = %q, want off", cfg.Output.Color)
	}
}

func TestLoadFileConfigRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		data string
		want string
	}{
		{"unknown key", "[filter]\nsellect = \"x\"\n", "unknown keys"},
		{"both predicates", "[filter]\nselect = \"a\"\nreject = \"b\"\n", "cannot be used together"},
		{"negative ellipsis", "[table]\nellipsis = -1\n", "must not be negative"},
		{"syntax", "[filter\n", "failed to parse TOML"},
	}
	for _, tc := range cases {
		path := writeConfig(t, t.TempDir(), tc.data)
		_, err := loadFileConfig(path)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error containing %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestPredicateFor(t *testing.T) {
	cases := []struct {
		expr  string
		file  string
		label string
		want  bool
	}{
		{"glob:*_test.go", "/src/a_test.go", "f", true},
		{"glob:*_test.go", "/src/a.go", "f", false},
		{`^/app/`, "/app/y.rb", "bar", true},
		{`^bar$`, "/lib/x.rb", "bar", true},
		{`^baz$`, "/lib/x.rb", "bar", false},
	}
	for _, tc := range cases {
		p, err := predicateFor(tc.expr)
		if err != nil {
			t.Fatalf("predicateFor(%q) error: %v", tc.expr, err)
		}
		got, err := p(tc.file, tc.label)
		if err != nil {
			t.Fatalf("predicate %q error: %v", tc.expr, err)
		}
		if got != tc.want {
			t.Fatalf("predicate %q on (%q, %q) = %v, want %v", tc.expr, tc.file, tc.label, got, tc.want)
		}
	}
	for _, bad := range []string{"glob:[", "("} {
		if _, err := predicateFor(bad); err == nil {
			t.Fatalf("predicateFor(%q): expected error", bad)
		}
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[filter]
select  = "^/app/"
exclude = ["/abs/a.go"]

[table]
ellipsis = 40

[output]
color = "on"
`)
	var got reportSettings
	root, _ := newTestCommand(func(cmd *cobra.Command, _ []string) error {
		_, s, err := reportBuilder(cmd)
		got = s
		return err
	})
	root.SetArgs([]string{"frames", "--config", path, "--color", "off", "--reject", "x", "--exclude", "/abs/b.go", "--ellipsis", "12"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got.color != "off" {
		t.Fatalf("color = %q, want off", got.color)
	}
	if got.selectPat != "" || got.rejectPat != "x" {
		t.Fatalf("expected --reject to replace the file's select, got select=%q reject=%q", got.selectPat, got.rejectPat)
	}
	if strings.Join(got.exclude, ",") != "/abs/a.go,/abs/b.go" {
		t.Fatalf("exclude = %v", got.exclude)
	}
	if got.ellipsis != 12 {
		t.Fatalf("ellipsis = %d, want 12", got.ellipsis)
	}
}

func TestFlagsKeepFileWhenUnset(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[output]\ncolor = \"off\"\n[table]\nseparator = \" : \"\n")
	var got reportSettings
	root, _ := newTestCommand(func(cmd *cobra.Command, _ []string) error {
		_, s, err := reportBuilder(cmd)
		got = s
		return err
	})
	root.SetArgs([]string{"frames", "--config", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got.color != "off" || got.separator != " : " {
		t.Fatalf("expected file settings to survive, got %+v", got)
	}
}

func TestSelectAndRejectFlagsConflict(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "")
	root, _ := newTestCommand(func(cmd *cobra.Command, _ []string) error {
		_, _, err := reportBuilder(cmd)
		return err
	})
	root.SetArgs([]string{"frames", "--config", path, "--select", "a", "--reject", "b"})
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "cannot be used together") {
		t.Fatalf("expected conflict error, got %v", err)
	}
}
