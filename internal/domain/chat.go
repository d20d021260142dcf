package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	// RoleUser is a message typed by the chat owner.
	RoleUser ChatRole = "user"
	// RoleAssistant is a reply from the AI backend.
	RoleAssistant ChatRole = "assistant"
)

// Valid reports whether r is an accepted message role.
func (r ChatRole) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// ChatMessage is a single append-only entry in a conversation.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatMetadata holds running totals for a chat.
type ChatMetadata struct {
	TotalTokens   int `json:"totalTokens"`
	TotalMessages int `json:"totalMessages"`
}

// Chat is a private conversation with the assistant.
// Chats are soft-deleted: IsActive=false hides them from every read.
type Chat struct {
	ID        string        `json:"id"`
	OwnerID   string        `json:"owner"`
	Title     string        `json:"title"`
	Context   string        `json:"context"`
	Model     string        `json:"model"`
	Messages  []ChatMessage `json:"messages"`
	IsActive  bool          `json:"isActive"`
	Metadata  ChatMetadata  `json:"metadata"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Owner returns the owning user id.
func (c *Chat) Owner() string {
	return c.OwnerID
}

// Touch updates UpdatedAt.
func (c *Chat) Touch() {
	c.UpdatedAt = time.Now()
}

// AppendMessage adds a message with a fresh id and timestamp and bumps the message count.
func (c *Chat) AppendMessage(role ChatRole, content string) ChatMessage {
	msg := ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	c.Messages = append(c.Messages, msg)
	c.Metadata.TotalMessages++
	c.Touch()
	return msg
}

// History returns the last limit messages in chronological order.
// A non-positive limit returns every message.
func (c *Chat) History(limit int) []ChatMessage {
	if limit <= 0 || limit >= len(c.Messages) {
		return c.Messages
	}
	return c.Messages[len(c.Messages)-limit:]
}

// Deactivate soft-deletes the chat.
func (c *Chat) Deactivate() {
	c.IsActive = false
	c.Touch()
}
