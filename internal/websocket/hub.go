package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"cloess-chatbot-be/internal/dto"
	"cloess-chatbot-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	hubModule    = "ChatHub"
	redisChannel = "chat_events"
	directionIn  = "in"
	directionOut = "out"
	frameChat    = "chat"
	frameReply   = "reply"
	frameError   = "error"
	frameSession = "session"
)

// Observer receives connection and frame counts; optional.
type Observer interface {
	SocketOpened()
	SocketClosed()
	ObserveSocketMessage(direction, kind string)
}

// Hub tracks open chat sockets by session id. A session may be open in
// several tabs and, with Redis, on several instances.
type Hub struct {
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb      *redis.Client
	instance string

	observer Observer
	logger   logger.ILogger
}

type clusterFrame struct {
	Origin    string          `json:"origin"`
	SessionID string          `json:"session_id"`
	Message   json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger, observer Observer) *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rdb:        rdb,
		instance:   uuid.New().String(),
		observer:   observer,
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
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			if h.observer != nil {
				h.observer.SocketOpened()
			}
			h.logger.Info(hubModule, "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			clients := h.clients[client.SessionID]
			for i, c := range clients {
				if c == client {
					h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
					close(client.Send)
					if h.observer != nil {
						h.observer.SocketClosed()
					}
					break
				}
			}
			if len(h.clients[client.SessionID]) == 0 {
				delete(h.clients, client.SessionID)
			}
			h.mu.Unlock()
		}
	}
}

// Connections returns how many local sockets are open for sessionID.
func (h *Hub) Connections(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// Send delivers frame to every socket of the session, here and on other
// instances.
func (h *Hub) Send(sessionID string, frame dto.ChatSocketMessage) {
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	h.deliver(sessionID, data)
	if h.observer != nil {
		h.observer.ObserveSocketMessage(directionOut, frame.Type)
	}

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterFrame{Origin: h.instance, SessionID: sessionID, Message: data})
		if err := h.rdb.Publish(context.Background(), redisChannel, payload).Err(); err != nil {
			h.logger.Warn(hubModule, "Redis publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (h *Hub) deliver(sessionID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[sessionID] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn(hubModule, "Client send buffer full, dropping frame", map[string]interface{}{"session_id": sessionID})
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var frame clusterFrame
		if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
			h.logger.Warn(hubModule, "Redis frame parse error", map[string]interface{}{"error": err.Error()})
			continue
		}
		// Local sockets were served before publishing.
		if frame.Origin == h.instance {
			continue
		}
		h.deliver(frame.SessionID, frame.Message)
	}
}
