package dto

import "time"

type ChatRequest struct {
	Message   string `json:"message" validate:"required,max=2000"`
	SessionId string `json:"session_id" validate:"omitempty,max=128"`
}

type ChatResponse struct {
	Response  string `json:"response"`
	SessionId string `json:"session_id,omitempty"`
}

type ChatTurnResponse struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatSocketMessage is the frame exchanged over the chat WebSocket.
type ChatSocketMessage struct {
	Type      string `json:"type"` // chat, reply, error
	Message   string `json:"message,omitempty"`
	Response  string `json:"response,omitempty"`
	SessionId string `json:"session_id,omitempty"`
}
