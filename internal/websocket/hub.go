package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"workalone-be/internal/pkg/logger"
	pkgEvents "workalone-be/pkg/events"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Channel used to fan events out across instances.
const clusterChannel = "ops_events"

// Hub pushes engine events to every connected ops dashboard. All viewers
// see the same feed; there is no per-connection targeting.
type Hub struct {
	// Registered dashboard connections, keyed by connection id.
	clients map[uuid.UUID]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance fan-out. Optional.
	rdb *redis.Client

	// Lets the subscriber skip messages this instance published itself.
	instanceId uuid.UUID

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID]*Client),
		rdb:        rdb,
		instanceId: uuid.New(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.Id] = client
			h.mu.Unlock()
			h.logger.Info("Hub", "Dashboard connected", map[string]interface{}{"client_id": client.Id})

		case client := <-h.unregister:
			h.mu.Lock()
			// Identity check: a slow consumer may already have been dropped
			// by the broadcast path.
			if existing, ok := h.clients[client.Id]; ok && existing == client {
				delete(h.clients, client.Id)
				close(client.Send)
				h.logger.Info("Hub", "Dashboard disconnected", map[string]interface{}{"client_id": client.Id})
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastEvent pushes one engine event to every dashboard, on this
// instance and via Redis on the others.
func (h *Hub) BroadcastEvent(event pkgEvents.Event) {
	data, err := json.Marshal(map[string]interface{}{
		"type":        event.EventType(),
		"data":        event.Payload(),
		"occurred_at": event.Timestamp().Format(time.RFC3339Nano),
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
		return
	}

	h.broadcastLocal(data)

	if h.rdb != nil {
		payload, _ := json.Marshal(map[string]interface{}{
			"origin":  h.instanceId.String(),
			"message": json.RawMessage(data),
		})
		h.rdb.Publish(context.Background(), clusterChannel, payload)
	}
}

func (h *Hub) broadcastLocal(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		select {
		case client.Send <- data:
		default:
			// Slow consumer: drop the connection rather than block the feed.
			close(client.Send)
			delete(h.clients, id)
			h.logger.Warn("Hub", "Dropping slow dashboard connection", map[string]interface{}{"client_id": id})
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			Origin  string          `json:"origin"`
			Message json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Failed to parse cluster message", map[string]interface{}{"error": err.Error()})
			continue
		}

		// Redis delivers our own publishes back to us; skip those, the
		// local clients already got the event.
		if payload.Origin == h.instanceId.String() {
			continue
		}

		h.broadcastLocal(payload.Message)
	}
}
