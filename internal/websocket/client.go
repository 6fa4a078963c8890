package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"cloess-chatbot-be/internal/constant"
	"cloess-chatbot-be/internal/dto"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	replyTimeout   = 45 * time.Second
)

// ChatHandler produces the reply for one visitor message.
type ChatHandler func(ctx context.Context, sessionID, message string) (string, error)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	Conn *websocket.Conn

	SessionID string

	// Buffered channel of outbound frames.
	Send chan []byte

	handle ChatHandler
}

// readPump reads chat frames and answers each one in order.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn(hubModule, "Socket closed unexpectedly", map[string]interface{}{
					"session_id": c.SessionID,
					"error":      err.Error(),
				})
			}
			return
		}
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		c.handleFrame(raw)
	}
}

func (c *Client) handleFrame(raw []byte) {
	var in dto.ChatSocketMessage
	// Plain {"message": ...} bodies are accepted like on POST /chat.
	if err := json.Unmarshal(raw, &in); err != nil || (in.Type != "" && in.Type != frameChat) || strings.TrimSpace(in.Message) == "" {
		c.reply(dto.ChatSocketMessage{Type: frameError, Message: "expected {\"message\":\"...\"}", SessionId: c.SessionID})
		return
	}
	if c.Hub.observer != nil {
		c.Hub.observer.ObserveSocketMessage(directionIn, frameChat)
	}

	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()

	text, err := c.handle(ctx, c.SessionID, in.Message)
	if err != nil {
		c.Hub.logger.Error(hubModule, "Chat handler failed", map[string]interface{}{
			"session_id": c.SessionID,
			"error":      err.Error(),
		})
		c.reply(dto.ChatSocketMessage{Type: frameError, Message: constant.ChatReplyInternalError, SessionId: c.SessionID})
		return
	}
	// Every tab of the session sees the reply.
	c.Hub.Send(c.SessionID, dto.ChatSocketMessage{Type: frameReply, Message: in.Message, Response: text, SessionId: c.SessionID})
}

// reply answers this socket only.
func (c *Client) reply(frame dto.ChatSocketMessage) {
	data, _ := json.Marshal(frame)
	select {
	case c.Send <- data:
	default:
	}
	if c.Hub.observer != nil {
		c.Hub.observer.ObserveSocketMessage(directionOut, frame.Type)
	}
}

// writePump pumps frames from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// One JSON frame per websocket message.
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
