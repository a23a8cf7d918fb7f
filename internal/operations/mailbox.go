package operations

import (
	"sync"

	"welldata/pkg/contracts/events"
)

// Mailbox is the unbounded FIFO between one worker and its observer. Send
// never blocks and Drain never waits. Messages are stamped with the job ID
// and a sequence number starting at 1. Anything sent after the terminal
// message, or after Detach, is dropped.
type Mailbox struct {
	jobID string

	mu       sync.Mutex
	queue    []events.Message
	seq      int64
	closed   bool
	detached bool
}

// NewMailbox creates an empty mailbox for jobID.
func NewMailbox(jobID string) *Mailbox {
	return &Mailbox{jobID: jobID}
}

// JobID returns the ID stamped on every message.
func (m *Mailbox) JobID() string {
	return m.jobID
}

// Send enqueues msg.
func (m *Mailbox) Send(msg events.Message) {
	m.Offer(msg)
}

// Offer enqueues msg and reports whether it was accepted.
func (m *Mailbox) Offer(msg events.Message) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || m.detached {
		return false
	}
	m.seq++
	msg.JobID = m.jobID
	msg.Seq = m.seq
	if msg.Terminal() {
		m.closed = true
	}
	m.queue = append(m.queue, msg)
	return true
}

// Drain removes and returns every buffered message in send order. It returns
// nil when nothing is pending.
func (m *Mailbox) Drain() []events.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) == 0 {
		return nil
	}
	out := m.queue
	m.queue = nil
	return out
}

// Detach abandons the mailbox: pending messages are discarded and later sends
// become no-ops. The worker keeps running.
func (m *Mailbox) Detach() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detached = true
	m.queue = nil
}

// Closed reports whether the terminal message has been accepted.
func (m *Mailbox) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Pending returns the number of buffered messages.
func (m *Mailbox) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}
