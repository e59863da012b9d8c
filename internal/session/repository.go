package session

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

// Create persists a fresh session for the subject and returns its id. The id
// is 32 bytes from crypto/rand, so it cannot be guessed or enumerated.
func (r *Repository) Create(subjectID string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	id := hex.EncodeToString(b)
	now := time.Now().UTC()
	if _, err := r.db.Exec(`INSERT INTO session (id, subject_id, created_at, expires_at) VALUES ($1, $2, $3, $4)`, id, subjectID, now, now.Add(Duration)); err != nil {
		return "", err
	}
	return id, nil
}

// Get returns the session for the given id. Expired sessions are treated as
// absent; the row is left behind rather than purged.
func (r *Repository) Get(id string) (Session, error) {
	s := Session{}
	row := r.db.QueryRow(`SELECT id, subject_id, created_at, expires_at FROM session WHERE id = $1`, id)
	if err := row.Scan(&s.ID, &s.SubjectID, &s.CreatedAt, &s.ExpiresAt); err != nil {
		if err == sql.ErrNoRows {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	if s.ExpiresAt.Before(time.Now().UTC()) {
		return Session{}, ErrNotFound
	}
	return s, nil
}

// Delete is idempotent, deleting an already removed session is not an error.
func (r *Repository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM session WHERE id = $1`, id)
	return err
}
