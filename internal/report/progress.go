package report

import "time"

// Stage describes one step of building a report.
type Stage string

const (
	StageParse    Stage = "parse"
	StageClassify Stage = "classify"
	StageFilter   Stage = "filter"
	StageRender   Stage = "render"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the input is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the input is inside a stage.
	StatusWorking Status = "working"
	// StatusDone indicates the report for the input is complete.
	StatusDone Status = "done"
	// StatusError indicates the input could not be reported.
	StatusError Status = "error"
)

// Event reports progress for one input (or for the whole run when Input is empty).
type Event struct {
	Input   string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

type nopSink struct{}

func (nopSink) OnEvent(Event) {}
