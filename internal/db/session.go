package db

import (
	"database/sql"
	"time"

	"github.com/DooMeul/DB-Notice-Board/internal/models"
)

// CreateSession creates a new session.
func (r *Repository) CreateSession(session *models.Session) error {
	_, err := r.db.Exec("INSERT INTO sessions (session_id, user_id, expires) VALUES (?, ?, ?)",
		session.SessionID, session.UserID, session.Expires)
	return err
}

// GetSession retrieves a non-expired session by ID.
func (r *Repository) GetSession(sessionID string) (*models.Session, error) {
	session := &models.Session{}
	err := r.db.QueryRow("SELECT session_id, user_id, expires FROM sessions WHERE session_id = ? AND expires > ?",
		sessionID, time.Now()).Scan(&session.SessionID, &session.UserID, &session.Expires)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession deletes a session.
func (r *Repository) DeleteSession(sessionID string) error {
	_, err := r.db.Exec("DELETE FROM sessions WHERE session_id = ?", sessionID)
	return err
}

// DeleteUserSessions deletes all user sessions except the current one
func (r *Repository) DeleteUserSessions(userID int, exceptSessionID string) error {
	_, err := r.db.Exec("DELETE FROM sessions WHERE user_id = ? AND session_id != ?", userID, exceptSessionID)
	return err
}

// CleanExpiredSessions deletes all expired sessions
func (r *Repository) CleanExpiredSessions() error {
	_, err := r.db.Exec("DELETE FROM sessions WHERE expires < ?", time.Now())
	return err
}
