package report

import (
	"io"
	"os"
	"path/filepath"
	"runtime"

	"prettydebug/internal/filter"
	"prettydebug/internal/style"
	"prettydebug/internal/table"
	"prettydebug/internal/trace"
)

// selfFiles lists this package's sources. Frames inside them belong to the
// reporting machinery and never appear in a report.
var selfFiles = func() []string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return nil
	}
	dir := filepath.Dir(file)
	return []string{
		filepath.Join(dir, "error.go"),
		filepath.Join(dir, "guard.go"),
		filepath.Join(dir, "report.go"),
		filepath.Join(dir, "intercept.go"),
	}
}()

// Config is the frozen reporting configuration. It is a plain value: copy it
// freely and share it between goroutines.
type Config struct {
	rules    filter.Rules
	opts     table.Options
	styler   style.Styler
	tracer   trace.Tracer
	sink     ProgressSink
	out      io.Writer
	relative bool
}

// Rules returns the frame filter.
func (c Config) Rules() filter.Rules { return c.rules }

// Styler returns the styling collaborator.
func (c Config) Styler() style.Styler {
	if c.styler == nil {
		return style.Plain{}
	}
	return c.styler
}

// Tracer returns the tracer the pipeline reports to.
func (c Config) Tracer() trace.Tracer {
	if c.tracer == nil {
		return trace.Nop
	}
	return c.tracer
}

// Output is where the exit hook and Intercept write.
func (c Config) Output() io.Writer {
	if c.out == nil {
		return os.Stderr
	}
	return c.out
}

// Relative reports whether shared directories are stripped from paths.
func (c Config) Relative() bool { return c.relative }

func (c Config) progress() ProgressSink {
	if c.sink == nil {
		return nopSink{}
	}
	return c.sink
}

// Table returns the table options with the row formatter filled in.
func (c Config) Table() table.Options {
	o := c.opts
	if o.Format == nil {
		o.Format = style.RowFormat(c.Styler(), o.Sep())
	}
	return o
}

// Builder assembles a Config. It is not safe for concurrent use.
type Builder struct {
	filter *filter.Builder
	cfg    Config
}

// NewConfig starts a configuration that keeps every frame, renders plain
// text and writes to stderr.
func NewConfig() *Builder {
	return &Builder{
		filter: filter.NewBuilder().Exclude(selfFiles...),
		cfg: Config{
			styler: style.Plain{},
			tracer: trace.Nop,
			sink:   nopSink{},
			out:    os.Stderr,
		},
	}
}

// WithSelect keeps only the frames p matches; it replaces a reject predicate.
func (b *Builder) WithSelect(p filter.Predicate) *Builder {
	b.filter.Select(p)
	return b
}

// WithReject drops the frames p matches; it replaces a select predicate.
func (b *Builder) WithReject(p filter.Predicate) *Builder {
	b.filter.Reject(p)
	return b
}

// WithExclude hides every frame from the given files.
func (b *Builder) WithExclude(files ...string) *Builder {
	b.filter.Exclude(files...)
	return b
}

// WithEllipsis caps column widths; zero or negative disables the cap.
func (b *Builder) WithEllipsis(n int) *Builder {
	b.cfg.opts.Ellipsis = max(n, 0)
	return b
}

// WithSeparator sets the cell separator of the default row format.
func (b *Builder) WithSeparator(sep string) *Builder {
	b.cfg.opts.Separator = sep
	return b
}

// WithFormat replaces the default row format.
func (b *Builder) WithFormat(f table.RowFormatter) *Builder {
	b.cfg.opts.Format = f
	return b
}

// WithStyler sets the styling collaborator; nil means plain text.
func (b *Builder) WithStyler(s style.Styler) *Builder {
	if s == nil {
		s = style.Plain{}
	}
	b.cfg.styler = s
	return b
}

// WithTracer sets the tracer; nil disables tracing.
func (b *Builder) WithTracer(t trace.Tracer) *Builder {
	if t == nil {
		t = trace.Nop
	}
	b.cfg.tracer = t
	return b
}

// WithSink sets the progress sink; nil discards events.
func (b *Builder) WithSink(s ProgressSink) *Builder {
	if s == nil {
		s = nopSink{}
	}
	b.cfg.sink = s
	return b
}

// WithOutput sets where the exit hook and Intercept write.
func (b *Builder) WithOutput(w io.Writer) *Builder {
	if w == nil {
		w = os.Stderr
	}
	b.cfg.out = w
	return b
}

// WithRelative strips the directory shared by all frames from the paths.
func (b *Builder) WithRelative(on bool) *Builder {
	b.cfg.relative = on
	return b
}

// Freeze returns the finished Config. Further builder calls do not affect it.
func (b *Builder) Freeze() Config {
	cfg := b.cfg
	cfg.rules = b.filter.Build()
	return cfg
}

// Default is NewConfig().Freeze().
func Default() Config {
	return NewConfig().Freeze()
}
