package session

import "time"

// Duration is how long a session stays valid after login.
const Duration = 14 * 24 * time.Hour

type Session struct {
	ID        string
	SubjectID string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store is what the middleware and auth handlers need from the session layer.
type Store interface {
	Create(subjectID string) (string, error)
	Get(id string) (Session, error)
	Delete(id string) error
}
