package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"welldata/internal/infrastructure"
	"welldata/pkg/contracts/events"
)

const (
	broadcastQueue = 256

	// How long a terminal frame waits for room in a full broadcast queue
	terminalWait = 2 * time.Second
)

// Hub maintains the set of active clients and broadcasts frames to them
type Hub struct {
	clients map[*Client]bool

	// Frames waiting to be fanned out
	broadcast chan []byte

	register   chan *Client
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	mu           sync.RWMutex
	logger       *slog.Logger
	metrics      *OTelMetrics
	terminalWait time.Duration
}

// NewHub creates a new Hub. metrics may be nil.
func NewHub(logger *slog.Logger, metrics *OTelMetrics) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Hub{
		clients:      make(map[*Client]bool),
		broadcast:    make(chan []byte, broadcastQueue),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		done:         make(chan struct{}),
		logger:       infrastructure.WithComponent(logger, "websocket.hub"),
		metrics:      metrics,
		terminalWait: terminalWait,
	}
}

// Run serves registrations and broadcasts until ctx ends, then disconnects
// every client.
func (h *Hub) Run(ctx context.Context) error {
	defer h.shutdown(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()

			h.metrics.RecordConnection(ctx)
			h.logger.InfoContext(ctx, "client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

			h.greet(ctx, client)

		case client := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[client]
			if ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()

			if ok {
				h.metrics.RecordDisconnection(ctx, time.Since(client.connectedAt).Seconds(), "normal")
				h.logger.InfoContext(ctx, "client unregistered",
					slog.Int("total_clients", count),
					slog.String("client_id", client.id),
					slog.Duration("connection_duration", time.Since(client.connectedAt)))
			}

		case frame := <-h.broadcast:
			h.fanOut(ctx, frame)
		}
	}
}

func (h *Hub) greet(ctx context.Context, client *Client) {
	data, err := json.Marshal(Frame{
		Type:      TypeConnection,
		Text:      "connected",
		ClientID:  client.id,
		Timestamp: time.Now(),
	})
	if err != nil {
		return
	}
	select {
	case client.send <- data:
	default:
		h.logger.WarnContext(ctx, "failed to send connection frame, client buffer full",
			slog.String("client_id", client.id))
	}
}

func (h *Hub) fanOut(ctx context.Context, frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for client := range h.clients {
		select {
		case client.send <- frame:
			sent++
		default:
			// A client that cannot keep up is disconnected.
			close(client.send)
			delete(h.clients, client)
			h.metrics.RecordDropped(ctx, "client")
			h.metrics.RecordDisconnection(ctx, time.Since(client.connectedAt).Seconds(), "slow")
			h.logger.WarnContext(ctx, "client send buffer full, disconnecting",
				slog.String("client_id", client.id))
		}
	}
	h.metrics.RecordSent(ctx, sent)
}

func (h *Hub) shutdown(ctx context.Context) {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.logger.InfoContext(context.WithoutCancel(ctx), "hub stopped")
}

// Register adds client to the hub. It reports false once the hub stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes client. It is a no-op after the hub stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues msg for every client. Progress frames never block and are
// dropped when the queue is full. Loaded, saved and error frames wait up to
// terminalWait for room, since clients rely on them to see a job end.
func (h *Hub) Publish(msg events.Message) {
	data, err := json.Marshal(NewFrame(msg))
	if err != nil {
		h.logger.Error("failed to marshal frame",
			slog.String("error", err.Error()),
			slog.String("type", string(msg.Type)))
		return
	}

	select {
	case h.broadcast <- data:
		return
	default:
	}

	if msg.Terminal() {
		timer := time.NewTimer(h.terminalWait)
		defer timer.Stop()
		select {
		case h.broadcast <- data:
			return
		case <-h.done:
		case <-timer.C:
		}
	}

	h.metrics.RecordDropped(context.Background(), "broadcast")
	h.logger.Warn("broadcast queue full, dropping frame",
		slog.String("job_id", msg.JobID),
		slog.String("type", string(msg.Type)),
		slog.Int64("seq", msg.Seq))
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
