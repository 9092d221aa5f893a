package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func runRaiseCommand(t *testing.T, args ...string) (string, int) {
	t.Helper()
	code := -1
	prev := exitFunc
	exitFunc = func(c int) { code = c }
	t.Cleanup(func() { exitFunc = prev })

	config := writeConfig(t, t.TempDir(), "")
	root := &cobra.Command{Use: "prettydebug", SilenceUsage: true, SilenceErrors: true}
	addPersistentFlags(root)
	cmd := &cobra.Command{Use: "raise", RunE: runRaise}
	cmd.Flags().Bool("panic", false, "")
	root.AddCommand(cmd)
	var errOut bytes.Buffer
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"raise", "--config", config, "--color", "off"}, args...))
	if err := root.Execute(); err != nil {
		t.Fatalf("raise: %v", err)
	}
	return errOut.String(), code
}

func TestRaiseReportsError(t *testing.T) {
	out, code := runRaiseCommand(t, "disk", "full")
	if code != 1 {
		t.Fatalf("expected exit status 1, got %d", code)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[0] != "Disk full." {
		t.Fatalf("expected message line, got %q", lines[0])
	}
	if !strings.Contains(out, "raise.go") {
		t.Fatalf("expected the trail to point at raise.go:\n%s", out)
	}
}

func TestRaisePanicIsCaught(t *testing.T) {
	out, code := runRaiseCommand(t, "--panic", "kaput")
	if code != 1 {
		t.Fatalf("expected exit status 1, got %d", code)
	}
	if !strings.HasPrefix(out, "Kaput.\n") {
		t.Fatalf("expected panic report, got:\n%s", out)
	}
	if !strings.Contains(out, "raisePanic") {
		t.Fatalf("expected the panicking function in the trail:\n%s", out)
	}
}
