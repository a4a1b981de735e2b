package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"

	"ai-outfit-planner-be/internal/pkg/logger"
)

// redisChannel carries session events between instances. Every instance
// subscribes and forwards to the sessions it holds locally.
const redisChannel = "planner_session_events"

// Hub fans pipeline progress events out to the websocket connections
// subscribed to a session. A session may have several connections
// (multiple tabs or devices).
type Hub struct {
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Optional Redis connection for cross-instance fan-out.
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionId] = append(h.clients[client.SessionId], client)
			h.mu.Unlock()
			h.logInfo("Client registered", client.SessionId)

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionId]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionId] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionId]) == 0 {
					delete(h.clients, client.SessionId)
					h.logInfo("Session fully unregistered", client.SessionId)
				}
			}
			h.mu.Unlock()
		}
	}
}

// SendToSession delivers an event to every connection of one session,
// locally and via Redis for other instances.
func (h *Hub) SendToSession(sessionId, eventType string, payload any) {
	data, err := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": payload,
	})
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := h.clients[sessionId]
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			close(client.Send)
			h.unregister <- client
		}
	}

	if h.rdb != nil {
		envelope, _ := json.Marshal(clusterEvent{SessionId: sessionId, Message: data})
		h.rdb.Publish(context.Background(), redisChannel, envelope)
	}
}

type clusterEvent struct {
	SessionId string          `json:"session_id"`
	Message   json.RawMessage `json:"message"`
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var event clusterEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("redis event parse error: %v", err)
			continue
		}

		h.mu.RLock()
		clients := h.clients[event.SessionId]
		h.mu.RUnlock()

		for _, client := range clients {
			select {
			case client.Send <- event.Message:
			default:
				close(client.Send)
				h.unregister <- client
			}
		}
	}
}

func (h *Hub) logInfo(msg, sessionId string) {
	if h.logger == nil {
		return
	}
	h.logger.Info("Hub", msg, map[string]interface{}{"session_id": sessionId})
}
