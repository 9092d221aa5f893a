package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func runInspectCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	config := writeConfig(t, t.TempDir(), "")
	root := &cobra.Command{Use: "prettydebug", SilenceUsage: true, SilenceErrors: true}
	addPersistentFlags(root)
	cmd := &cobra.Command{Use: "inspect", RunE: runInspect}
	cmd.Flags().String("input", "auto", "")
	root.AddCommand(cmd)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"inspect", "--config", config, "--color", "off"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestInspectJSONFromStdin(t *testing.T) {
	out, err := runInspectCommand(t, `{"b": [1, 2], "a": null}`)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if out != "{\"a\" => nil, \"b\" => [1, 2]}\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestInspectTOMLByFlag(t *testing.T) {
	out, err := runInspectCommand(t, "name = \"x\"\n", "--input", "toml")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if out != "{\"name\" => \"x\"}\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestInspectYAMLByExtension(t *testing.T) {
	path := writeTrail(t, t.TempDir(), "doc.yml", "- 1\n- two\n")
	out, err := runInspectCommand(t, "", path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if out != "[1, \"two\"]\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestInspectBadDocument(t *testing.T) {
	_, err := runInspectCommand(t, "{", "--input", "json")
	if err == nil || !strings.Contains(err.Error(), "decode json") {
		t.Fatalf("expected decode error, got %v", err)
	}
}
