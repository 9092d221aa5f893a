package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"fortio.org/safecast"

	"prettydebug/internal/classify"
	"prettydebug/internal/frame"
	"prettydebug/internal/style"
	"prettydebug/internal/table"
	"prettydebug/internal/textutil"
	"prettydebug/internal/trace"
)

// Input is one trail to report on.
type Input struct {
	// Name identifies the input in progress events and traces.
	Name    string
	Message string
	// Trail holds raw descriptors, oldest call first.
	Trail []string
}

// Report is a diagnostic ready for rendering.
type Report struct {
	Input   string
	Message string
	// Frames are the shown frames, oldest first, with shifted labels.
	Frames []frame.Record
	// Hidden counts the frames the filter dropped.
	Hidden int
	// FilterErr is set when a filter predicate failed and its stage was skipped.
	FilterErr error
}

// Build reports on err: its message in sentence form and its trail, or the
// current stack when err has none.
func Build(err error, cfg Config) Report {
	r, _ := Assemble(context.Background(), Input{Message: Message(err), Trail: Trail(err)}, cfg) //nolint:errcheck // background context
	return r
}

// Assemble runs the parse, classify and filter stages over in. It fails only
// when ctx is done between stages.
func Assemble(ctx context.Context, in Input, cfg Config) (Report, error) {
	t := cfg.Tracer()
	sink := cfg.progress()
	span := trace.BeginInput(t, in.Name, trace.SpanFrom(ctx))
	defer span.End("")

	r := Report{Input: in.Name, Message: in.Message}
	enter := func(s Stage) (*trace.Span, error) {
		if err := ctx.Err(); err != nil {
			sink.OnEvent(Event{Input: in.Name, Stage: s, Status: StatusError, Err: err})
			return nil, err
		}
		sink.OnEvent(Event{Input: in.Name, Stage: s, Status: StatusWorking})
		return span.Child(trace.ScopeStage, string(s)), nil
	}

	sp, err := enter(StageParse)
	if err != nil {
		return r, err
	}
	records := frame.ParseAll(in.Trail)
	if t.Level().ShouldEmit(trace.ScopeFrame) {
		for _, rec := range records {
			sp.Point(trace.ScopeFrame, "frame", rec.String())
		}
	}
	sp.WithExtra("frames", fmt.Sprint(len(records))).End("")

	if sp, err = enter(StageClassify); err != nil {
		return r, err
	}
	entries := classify.Frames(records)
	sp.End("")

	if sp, err = enter(StageFilter); err != nil {
		return r, err
	}
	out := cfg.Rules().Apply(entries)
	if out.Err != nil {
		sp.Point(trace.ScopeStage, "filter skipped", out.Err.Error())
	}
	sp.WithExtra("hidden", fmt.Sprint(out.Dropped)).End("")

	r.Frames, r.Hidden, r.FilterErr = out.Records, out.Dropped, out.Err
	return r, nil
}

// Lines renders the message header followed by one aligned row per frame.
// Rows hold the resolved path, the line number (blank when unknown) and the
// label.
func (r Report) Lines(cfg Config) []string {
	sp := trace.Begin(cfg.Tracer(), trace.ScopeStage, string(StageRender), nil)
	defer sp.End("")
	cfg.progress().OnEvent(Event{Input: r.Input, Stage: StageRender, Status: StatusWorking})

	lines := make([]string, 0, len(r.Frames)+1)
	if r.Message != "" {
		lines = append(lines, style.Header(cfg.Styler(), r.Message))
	}
	return append(lines, table.Render(r.rows(cfg.Relative()), cfg.Table())...)
}

func (r Report) rows(relative bool) [][]any {
	paths := make([]string, len(r.Frames))
	for i, rec := range r.Frames {
		paths[i] = rec.RealPath()
	}
	if relative {
		if dir := commonDir(paths); dir != "" {
			for i, p := range paths {
				paths[i] = strings.TrimPrefix(p, dir)
			}
		}
	}
	rows := make([][]any, len(r.Frames))
	for i, rec := range r.Frames {
		var line any
		if n, ok := rec.LineNo(); ok {
			line = n
		}
		rows[i] = []any{paths[i], line, rec.Label}
	}
	return rows
}

// commonDir is the longest directory prefix, separator included, shared by
// all paths.
func commonDir(paths []string) string {
	p := textutil.CommonPrefix(paths)
	i := strings.LastIndexByte(p, filepath.Separator)
	if i < 0 {
		return ""
	}
	return p[:i+1]
}

// String renders the report without styling.
func (r Report) String() string {
	return strings.Join(r.Lines(Config{}), "\n")
}

// Print builds the report for err and writes it to w.
func Print(w io.Writer, err error, cfg Config) error {
	lines := Build(err, cfg).Lines(cfg)
	_, werr := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return werr
}

type jsonFrame struct {
	File  string  `json:"file"`
	Line  *uint32 `json:"line,omitempty"`
	Label string  `json:"label"`
}

type jsonReport struct {
	Input       string      `json:"input,omitempty"`
	Message     string      `json:"message"`
	Frames      []jsonFrame `json:"frames"`
	Hidden      int         `json:"hidden"`
	FilterError string      `json:"filter_error,omitempty"`
}

// MarshalJSON renders the report for machine consumption. Paths are resolved
// and never shortened.
func (r Report) MarshalJSON() ([]byte, error) {
	out := jsonReport{
		Input:   r.Input,
		Message: r.Message,
		Frames:  make([]jsonFrame, len(r.Frames)),
		Hidden:  r.Hidden,
	}
	if r.FilterErr != nil {
		out.FilterError = r.FilterErr.Error()
	}
	for i, rec := range r.Frames {
		f := jsonFrame{File: rec.RealPath(), Label: rec.Label}
		if n, ok := rec.LineNo(); ok {
			if line, err := safecast.Conv[uint32](n); err == nil {
				f.Line = &line
			}
		}
		out.Frames[i] = f
	}
	return json.Marshal(out)
}
