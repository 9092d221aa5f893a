package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"prettydebug/internal/trace"
)

var scenario = []string{
	"/lib/x.rb:10:in `foo'",
	"/app/y.rb:20:in `bar'",
	"/app/y.rb:5:in `<main>'",
}

func TestAssembleScenario(t *testing.T) {
	cfg := NewConfig().WithExclude("/lib/x.rb").Freeze()
	r, err := Assemble(context.Background(), Input{Message: "boom", Trail: scenario}, cfg)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(r.Frames) != 1 {
		t.Fatalf("expected 1 frame, got %d: %v", len(r.Frames), r.Frames)
	}
	f := r.Frames[0]
	if f.File != "/app/y.rb" || f.Line != 20 || f.Label != "<main>" {
		t.Fatalf("unexpected frame %+v", f)
	}
	if r.Hidden != 2 {
		t.Fatalf("expected 2 hidden frames, got %d", r.Hidden)
	}
	want := []string{"boom", "/app/y.rb | 20 | <main> "}
	got := r.Lines(cfg)
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("expected:\n%s\ngot:\n%s", strings.Join(want, "\n"), strings.Join(got, "\n"))
	}
}

func TestAssembleWithoutExclusion(t *testing.T) {
	r, err := Assemble(context.Background(), Input{Trail: scenario}, Default())
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	labels := make([]string, len(r.Frames))
	for i, f := range r.Frames {
		labels[i] = f.Label
	}
	if strings.Join(labels, ",") != "bar,<main>" {
		t.Fatalf("expected shifted labels bar,<main>, got %v", labels)
	}
}

func TestAssembleRelativePaths(t *testing.T) {
	cfg := NewConfig().WithRelative(true).Freeze()
	trail := []string{"/app/a/x.go:1:in `f'", "/app/b/y.go:2:in `g'"}
	r, err := Assemble(context.Background(), Input{Trail: trail}, cfg)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	want := "a/x.go | 1 | g \nb/y.go | 2 |   "
	if got := strings.Join(r.Lines(cfg), "\n"); got != want {
		t.Fatalf("expected:\n%q\ngot:\n%q", want, got)
	}
}

func TestAssembleFilterFailure(t *testing.T) {
	cfg := NewConfig().WithSelect(func(string, string) (bool, error) {
		return false, errors.New("bad predicate")
	}).Freeze()
	r, err := Assemble(context.Background(), Input{Trail: scenario[:2]}, cfg)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if r.FilterErr == nil {
		t.Fatalf("expected the predicate error to be reported")
	}
	if len(r.Frames) != 2 {
		t.Fatalf("expected the failing stage to keep every frame, got %d", len(r.Frames))
	}
}

func TestAssembleCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Assemble(ctx, Input{Trail: scenario}, Default()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestAssembleEmitsProgress(t *testing.T) {
	ch := make(chan Event, 16)
	cfg := NewConfig().WithSink(ChannelSink{Ch: ch}).Freeze()
	r, err := Assemble(context.Background(), Input{Name: "t1", Trail: scenario}, cfg)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	r.Lines(cfg)
	close(ch)
	var stages []string
	for ev := range ch {
		if ev.Input != "t1" || ev.Status != StatusWorking {
			t.Fatalf("unexpected event %+v", ev)
		}
		stages = append(stages, string(ev.Stage))
	}
	if got := strings.Join(stages, ","); got != "parse,classify,filter,render" {
		t.Fatalf("unexpected stage order %s", got)
	}
}

func TestReportJSON(t *testing.T) {
	cfg := NewConfig().WithExclude("/lib/x.rb").Freeze()
	r, _ := Assemble(context.Background(), Input{Message: "boom", Trail: append(scenario, "(eval)")}, cfg)
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		Message string `json:"message"`
		Frames  []struct {
			File  string  `json:"file"`
			Line  *uint32 `json:"line"`
			Label string  `json:"label"`
		} `json:"frames"`
		Hidden int `json:"hidden"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	if decoded.Message != "boom" || decoded.Hidden != 2 || len(decoded.Frames) != 2 {
		t.Fatalf("unexpected report %s", data)
	}
	if f := decoded.Frames[0]; f.File != "/app/y.rb" || f.Line == nil || *f.Line != 20 {
		t.Fatalf("unexpected first frame %s", data)
	}
	if f := decoded.Frames[1]; f.File != "(eval)" || f.Line != nil {
		t.Fatalf("expected a line-less eval frame, got %s", data)
	}
}

func TestErrorTrail(t *testing.T) {
	err := New("it's broken")
	trail := err.Trail()
	if len(trail) == 0 {
		t.Fatalf("expected a captured trail")
	}
	last := trail[len(trail)-1]
	if !strings.Contains(last, "report_test.go:") || !strings.Contains(last, "TestErrorTrail") {
		t.Fatalf("expected the innermost frame to be the test, got %q", last)
	}
	if &err.Trail()[0] != &trail[0] {
		t.Fatalf("expected the resolved trail to be cached")
	}
	if got := Message(err); got != "It`s broken." {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestBuildFromError(t *testing.T) {
	r := Build(New("boom"), Default())
	if len(r.Frames) == 0 {
		t.Fatalf("expected frames")
	}
	last := r.Frames[len(r.Frames)-1]
	if !strings.HasSuffix(last.File, "report_test.go") || last.Label != "" {
		t.Fatalf("expected the raising frame last with an empty label, got %+v", last)
	}
	found := false
	for _, f := range r.Frames {
		if strings.HasSuffix(f.Label, "TestBuildFromError") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the caller row to show the test function: %v", r.Frames)
	}
}

func TestTrailSynthesized(t *testing.T) {
	trail := Trail(errors.New("plain"))
	if len(trail) == 0 || !strings.Contains(trail[len(trail)-1], "TestTrailSynthesized") {
		t.Fatalf("expected the current stack, got %v", trail)
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil) != nil {
		t.Fatalf("expected nil")
	}
	base := errors.New("base")
	wrapped := Wrap(base)
	if !errors.Is(wrapped, base) {
		t.Fatalf("expected wrapped error to match base")
	}
	if Wrap(wrapped) != wrapped {
		t.Fatalf("expected an error with a trail to pass through")
	}
	e := Errorf("open %s: %w", "cfg", base)
	if !errors.Is(e, base) || e.Error() != "open cfg: base" {
		t.Fatalf("unexpected Errorf result %q", e.Error())
	}
	outer := fmt.Errorf("outer: %w", e)
	if got := Trail(outer); len(got) == 0 || &got[0] != &e.Trail()[0] {
		t.Fatalf("expected the inner trail to be found through wrapping")
	}
}

func TestFromTrail(t *testing.T) {
	src := []string{"a.go:1"}
	e := FromTrail("x", src)
	src[0] = "changed"
	if got := e.Trail(); len(got) != 1 || got[0] != "a.go:1" {
		t.Fatalf("expected a private copy of the trail, got %v", got)
	}
}

func TestZeroConfig(t *testing.T) {
	r, _ := Assemble(context.Background(), Input{Message: "m", Trail: []string{"a.go:1:in `f'"}}, Config{})
	if got := r.String(); got != "m\na.go | 1 |  " {
		t.Fatalf("unexpected rendering %q", got)
	}
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(&buf, FromTrail("bad input", scenario[1:2]), Default()); err != nil {
		t.Fatalf("print: %v", err)
	}
	if got := buf.String(); got != "Bad input.\n/app/y.rb | 20 |  \n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestTracerSeesStages(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelStage)
	cfg := NewConfig().WithTracer(ring).Freeze()
	r, _ := Assemble(context.Background(), Input{Trail: scenario}, cfg)
	r.Lines(cfg)
	var names []string
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanBegin {
			names = append(names, ev.Name)
		}
	}
	if got := strings.Join(names, ","); got != "parse,classify,filter,render" {
		t.Fatalf("unexpected spans %s", got)
	}
}

func TestStageEventsCarryInput(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelStage)
	cfg := NewConfig().WithTracer(ring).Freeze()
	ctx, cmd := trace.Start(trace.WithTracer(context.Background(), ring), trace.ScopeCommand, "frames")
	if _, err := Assemble(ctx, Input{Name: "a.trail", Trail: scenario}, cfg); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	cmd.End("")
	for _, ev := range ring.Snapshot() {
		if ev.Scope != trace.ScopeStage {
			continue
		}
		if ev.Input != "a.trail" {
			t.Fatalf("stage %s lost its input: %+v", ev.Name, ev)
		}
		// The input span is below the stage level, so stages hang off the command.
		if ev.ParentID != cmd.ID() {
			t.Fatalf("stage %s parent = %d, want command span %d", ev.Name, ev.ParentID, cmd.ID())
		}
	}
}
