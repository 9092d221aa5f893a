package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"prettydebug/internal/table"
)

// Timer collects laps from the workers of one command. Laps may overlap, so
// the total it reports is wall-clock time from the first start to the last
// stop rather than a sum.
type Timer struct {
	mu   sync.Mutex
	laps []*Lap
	now  func() time.Time
}

// Lap is one timed unit of work, usually a single input.
type Lap struct {
	timer *Timer
	name  string
	start time.Time
	stop  time.Time
	note  string
}

// NewTimer creates an empty Timer.
func NewTimer() *Timer { return &Timer{now: time.Now} }

// Begin starts a lap. Laps are reported in the order they were begun.
func (t *Timer) Begin(name string) *Lap {
	t.mu.Lock()
	defer t.mu.Unlock()
	l := &Lap{timer: t, name: name, start: t.now()}
	t.laps = append(t.laps, l)
	return l
}

// Stop ends the lap with a short note. Only the first call counts.
func (l *Lap) Stop(note string) {
	if l == nil {
		return
	}
	t := l.timer
	t.mu.Lock()
	defer t.mu.Unlock()
	if !l.stop.IsZero() {
		return
	}
	l.stop = t.now()
	l.note = note
}

// LapReport is the serialisable form of a lap. Running laps have no duration.
type LapReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
	Running    bool    `json:"running,omitempty"`
}

// Report is the serialisable form of a Timer.
type Report struct {
	WallMS float64     `json:"wall_ms"`
	Laps   []LapReport `json:"laps"`
}

// Report snapshots every lap.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	var r Report
	var first, last time.Time
	for _, l := range t.laps {
		lr := LapReport{Name: l.name, Note: l.note, Running: l.stop.IsZero()}
		if !lr.Running {
			lr.DurationMS = millisOf(l.stop.Sub(l.start))
			if last.IsZero() || l.stop.After(last) {
				last = l.stop
			}
		}
		if first.IsZero() || l.start.Before(first) {
			first = l.start
		}
		r.Laps = append(r.Laps, lr)
	}
	if !last.IsZero() {
		r.WallMS = millisOf(last.Sub(first))
	}
	return r
}

// millis is a duration cell; being numeric it is right-aligned by the table.
type millis float64

func (m millis) String() string { return fmt.Sprintf("%.2f ms", float64(m)) }

// Summary renders the laps as an aligned table for stderr.
func (t *Timer) Summary() string {
	r := t.Report()
	rows := make([][]any, 0, len(r.Laps)+1)
	for _, l := range r.Laps {
		note := l.Note
		if l.Running {
			note = "running"
		}
		rows = append(rows, []any{l.Name, millis(l.DurationMS), note})
	}
	rows = append(rows, []any{"wall", millis(r.WallMS), ""})
	lines := table.Render(rows, table.Options{Format: func(cells []string) string {
		return "  " + strings.TrimRight(strings.Join(cells, "  "), " ")
	}})
	return "timings:\n" + strings.Join(lines, "\n") + "\n"
}

func millisOf(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
