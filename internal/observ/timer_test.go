package observ

import (
	"strings"
	"testing"
	"time"
)

// fakeClock advances by one millisecond on every reading.
func fakeClock() func() time.Time {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Millisecond)
	}
}

func TestTimerOverlappingLaps(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock()

	a := tm.Begin("input a") // t=1
	b := tm.Begin("input b") // t=2
	a.Stop("3 shown")        // t=3
	b.Stop("1 shown")        // t=4
	b.Stop("ignored")

	r := tm.Report()
	if len(r.Laps) != 2 {
		t.Fatalf("laps = %+v", r.Laps)
	}
	if r.Laps[0].DurationMS != 2 || r.Laps[1].DurationMS != 2 {
		t.Fatalf("durations = %v, %v", r.Laps[0].DurationMS, r.Laps[1].DurationMS)
	}
	if r.Laps[1].Note != "1 shown" {
		t.Fatalf("second Stop overwrote the note: %q", r.Laps[1].Note)
	}
	if r.WallMS != 3 {
		t.Fatalf("wall = %v, want 3", r.WallMS)
	}
}

func TestTimerSummary(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock()
	tm.Begin("parse").Stop("3 frames")
	tm.Begin("render")

	lines := strings.Split(strings.TrimSuffix(tm.Summary(), "\n"), "\n")
	if len(lines) != 4 || lines[0] != "timings:" {
		t.Fatalf("unexpected summary %q", lines)
	}
	if !strings.HasPrefix(lines[1], "  parse ") || !strings.HasSuffix(lines[1], "ms  3 frames") {
		t.Fatalf("unexpected lap line %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "running") {
		t.Fatalf("unfinished lap not marked: %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "  wall ") {
		t.Fatalf("unexpected wall line %q", lines[3])
	}
	end := strings.Index(lines[1], " ms") + 3
	for _, l := range lines[2:] {
		if strings.Index(l, " ms")+3 != end {
			t.Fatalf("durations not aligned:\n%s", strings.Join(lines, "\n"))
		}
	}
}

func TestTimerEmptyAndNilLap(t *testing.T) {
	var l *Lap
	l.Stop("noop")
	if r := NewTimer().Report(); len(r.Laps) != 0 || r.WallMS != 0 {
		t.Fatalf("expected an empty report, got %+v", r)
	}
}
