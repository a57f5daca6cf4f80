package db

import (
	"testing"
)

func TestIsEmailOrUsernameTaken(t *testing.T) {
	repo := setupTestRepo(t)
	createTestUser(t, repo, "user@example.com", "user")

	taken, err := repo.IsEmailOrUsernameTaken("USER@example.com", "somebody")
	if err != nil {
		t.Fatalf("IsEmailOrUsernameTaken: %v", err)
	}
	if !taken {
		t.Errorf("expected email match to be case-insensitive")
	}

	taken, err = repo.IsEmailOrUsernameTaken("fresh@example.com", "fresh")
	if err != nil {
		t.Fatalf("IsEmailOrUsernameTaken: %v", err)
	}
	if taken {
		t.Errorf("expected fresh credentials to be free")
	}
}

func TestGetUserByIDNotFound(t *testing.T) {
	repo := setupTestRepo(t)
	if _, err := repo.GetUserByID(99); err != ErrUserNotFound {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestListUserActivity(t *testing.T) {
	repo := setupTestRepo(t)
	createTestUser(t, repo, testAdminEmail, "admin")
	user := createTestUser(t, repo, "user@example.com", "user")

	postID := createTestPost(t, repo, user.ID, "A post")
	createTestComment(t, repo, postID, user.ID, "a comment")
	createTestComment(t, repo, postID, user.ID, "another comment")

	activity, err := repo.ListUserActivity(testAdminEmail)
	if err != nil {
		t.Fatalf("ListUserActivity: %v", err)
	}
	if len(activity) != 1 {
		t.Fatalf("expected the admin to be excluded, got %d users", len(activity))
	}
	if activity[0].PostCount != 1 || activity[0].CommentCount != 2 {
		t.Errorf("unexpected counts: %+v", activity[0])
	}
}
