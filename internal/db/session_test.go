package db

import (
	"testing"
	"time"

	"github.com/DooMeul/DB-Notice-Board/internal/models"
)

func TestSessionLifecycle(t *testing.T) {
	repo := setupTestRepo(t)
	user := createTestUser(t, repo, "user@example.com", "user")

	session := &models.Session{
		SessionID: "token-1",
		UserID:    user.ID,
		Expires:   time.Now().Add(time.Hour),
	}
	if err := repo.CreateSession(session); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := repo.GetSession("token-1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.UserID != user.ID {
		t.Errorf("expected user %d, got %d", user.ID, got.UserID)
	}

	if err := repo.DeleteSession("token-1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := repo.GetSession("token-1"); err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestExpiredSessionRejected(t *testing.T) {
	repo := setupTestRepo(t)
	user := createTestUser(t, repo, "user@example.com", "user")

	session := &models.Session{
		SessionID: "stale",
		UserID:    user.ID,
		Expires:   time.Now().Add(-time.Minute),
	}
	if err := repo.CreateSession(session); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if _, err := repo.GetSession("stale"); err != ErrSessionNotFound {
		t.Errorf("expected expired session to be rejected, got %v", err)
	}

	if err := repo.CleanExpiredSessions(); err != nil {
		t.Fatalf("CleanExpiredSessions: %v", err)
	}
}
