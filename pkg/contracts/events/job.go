// Package events contains the message contract between a background job and
// the observer that polls it.
package events

import (
	"welldata/pkg/contracts/domain"
)

// MessageType tags a job message.
type MessageType string

const (
	TypeProgress MessageType = "progress"
	TypeLoaded   MessageType = "loaded"
	TypeSaved    MessageType = "saved"
	TypeError    MessageType = "error"
)

// Message is one entry of a job's ordered stream. Exactly one field group is
// meaningful, selected by Type:
//
//	progress: Global, Local, Text
//	loaded:   Dataset
//	saved:    Path
//	error:    Text
type Message struct {
	JobID   string          `json:"job_id,omitempty"`
	Seq     int64           `json:"seq"`
	Type    MessageType     `json:"type"`
	Global  float64         `json:"global,omitempty"`
	Local   float64         `json:"local,omitempty"`
	Text    string          `json:"text,omitempty"`
	Path    string          `json:"path,omitempty"`
	Dataset *domain.Dataset `json:"dataset,omitempty"`
}

// Progress builds a progress message. Both fractions are clamped to [0,1].
func Progress(global, local float64, text string) Message {
	return Message{Type: TypeProgress, Global: clamp(global), Local: clamp(local), Text: text}
}

// Loaded builds the terminal message of an ingestion job.
func Loaded(ds domain.Dataset) Message {
	return Message{Type: TypeLoaded, Dataset: &ds}
}

// Saved builds the terminal message of an export job.
func Saved(path string) Message {
	return Message{Type: TypeSaved, Path: path}
}

// Error builds the failure terminal message.
func Error(text string) Message {
	return Message{Type: TypeError, Text: text}
}

// Terminal reports whether m ends a job's stream.
func (m Message) Terminal() bool {
	switch m.Type {
	case TypeLoaded, TypeSaved, TypeError:
		return true
	default:
		return false
	}
}

// Sink receives job messages. Implementations must never block the sender.
type Sink interface {
	Send(Message)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Message)

// Send calls f(m).
func (f SinkFunc) Send(m Message) { f(m) }

// Discard drops every message.
var Discard Sink = SinkFunc(func(Message) {})

func clamp(v float64) float64 {
	switch {
	case v != v, v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
