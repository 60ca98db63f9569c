package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents the role of a message participant.
type Role string

const (
	// RoleUser represents a message typed by the student.
	RoleUser Role = "user"
	// RoleAssistant represents a message produced by the study assistant.
	RoleAssistant Role = "assistant"
)

// Message is a single chat bubble. Content holds already-rendered HTML markup;
// messages are immutable once appended and live only for the page lifetime.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
}

// NewMessage creates a message with a fresh ID and the current timestamp.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}
