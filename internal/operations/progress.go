package operations

import (
	"time"

	"golang.org/x/time/rate"

	"welldata/pkg/contracts/events"
)

// ProgressTracker reports two-level progress to a sink. The global fraction
// covers outer units (sheets, wells); the local fraction covers rows inside
// the current unit and is reported in batches.
type ProgressTracker struct {
	sink      events.Sink
	every     int
	global    float64
	text      string
	batch     rate.Sometimes
	StartTime time.Time
}

// NewProgressTracker creates a tracker that reports local progress once per
// every rows. Values below one report every row.
func NewProgressTracker(sink events.Sink, every int) *ProgressTracker {
	if sink == nil {
		sink = events.Discard
	}
	if every < 1 {
		every = 1
	}
	return &ProgressTracker{
		sink:      sink,
		every:     every,
		batch:     rate.Sometimes{Every: every},
		StartTime: time.Now(),
	}
}

// Stage enters a new outer unit and reports (global, 0, text).
func (p *ProgressTracker) Stage(global float64, text string) {
	p.global = global
	p.text = text
	p.batch = rate.Sometimes{Every: p.every}
	p.sink.Send(events.Progress(global, 0, text))
}

// Rows reports local progress done/total within the current unit. Calls are
// batched except for the last row, which always reports local = 1.
func (p *ProgressTracker) Rows(done, total int) {
	if total <= 0 {
		return
	}
	if done >= total {
		p.sink.Send(events.Progress(p.global, 1, p.text))
		return
	}
	p.batch.Do(func() {
		p.sink.Send(events.Progress(p.global, float64(done)/float64(total), p.text))
	})
}

// Finish reports (1, 1, text).
func (p *ProgressTracker) Finish(text string) {
	p.global = 1
	p.text = text
	p.sink.Send(events.Progress(1, 1, text))
}

// Elapsed returns the time since the tracker was created.
func (p *ProgressTracker) Elapsed() time.Duration {
	return time.Since(p.StartTime)
}
