package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is the single active conversation context shared by all UI actions.
// It carries an opaque identifier that correlates every backend request to one
// logical conversation on the study API, and nothing else. A session is created
// on server start and replaced wholesale by the explicit new-session action.
type Session struct {
	ID        string
	StartedAt time.Time
}

// NewSession creates a session with a fresh opaque identifier.
func NewSession() Session {
	return Session{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
	}
}
