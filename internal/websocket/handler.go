package websocket

import (
	"cloess-chatbot-be/internal/dto"

	"github.com/gofiber/websocket/v2"
)

// ServeWs runs one chat socket until the peer goes away. The first frame
// tells the client which session it is bound to.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID string, handle ChatHandler) {
	client := &Client{Hub: hub, Conn: c, SessionID: sessionID, Send: make(chan []byte, 256), handle: handle}
	client.Hub.register <- client

	go client.writePump()
	client.reply(dto.ChatSocketMessage{Type: frameSession, SessionId: sessionID})
	client.readPump()
}
