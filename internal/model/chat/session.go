package chat

import "time"

// Session is the full persisted conversation held under one chat key.
// The store owns it exclusively; the orchestrator only reads and appends.
type Session struct {
	ChatID          string    `json:"chatId"`
	OwnerID         string    `json:"ownerId"`
	Messages        []Turn    `json:"messages"`
	LastInteraction time.Time `json:"lastInteraction"`
	CreatedAt       time.Time `json:"createdAt"`
}
