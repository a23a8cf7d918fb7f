package websocket

import (
	"time"

	"welldata/pkg/contracts/events"
)

// TypeConnection is sent once to every client after it registers.
const TypeConnection = "connection"

// Frame is the JSON document sent to clients for every applied job message.
// A loaded dataset is summarized; the records themselves are not streamed.
type Frame struct {
	JobID     string    `json:"job_id,omitempty"`
	Seq       int64     `json:"seq,omitempty"`
	Type      string    `json:"type"`
	Global    float64   `json:"global"`
	Local     float64   `json:"local"`
	Text      string    `json:"text,omitempty"`
	Path      string    `json:"path,omitempty"`
	Records   int       `json:"records,omitempty"`
	Years     []int     `json:"years,omitempty"`
	Wells     []string  `json:"wells,omitempty"`
	ClientID  string    `json:"client_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewFrame converts a job message.
func NewFrame(m events.Message) Frame {
	f := Frame{
		JobID:     m.JobID,
		Seq:       m.Seq,
		Type:      string(m.Type),
		Global:    m.Global,
		Local:     m.Local,
		Text:      m.Text,
		Path:      m.Path,
		Timestamp: time.Now(),
	}
	switch m.Type {
	case events.TypeLoaded, events.TypeSaved:
		f.Global, f.Local = 1, 1
	}
	if m.Dataset != nil {
		f.Records = len(m.Dataset.Records)
		f.Years = m.Dataset.Years
		f.Wells = m.Dataset.Wells
	}
	return f
}
