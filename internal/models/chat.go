package models

import "time"

const (
	ChatRoleUser  = "user"
	ChatRoleModel = "model"
)

type ChatMessage struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type ChatSession struct {
	ID        string        `json:"id"`
	PlanID    string        `json:"planId,omitempty"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type StartChatRequest struct {
	PlanID string `json:"planId,omitempty" validate:"omitempty,uuid"`
}

type ChatMessageRequest struct {
	Message string      `json:"message" validate:"required,max=4000"`
	File    *Attachment `json:"file,omitempty"`
}

type ChatReply struct {
	SessionID string      `json:"sessionId"`
	Reply     ChatMessage `json:"reply"`
	Model     string      `json:"model"`
}
