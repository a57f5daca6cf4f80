package db

import (
	"fmt"
	"testing"

	"github.com/DooMeul/DB-Notice-Board/internal/config"
	"github.com/DooMeul/DB-Notice-Board/internal/models"
)

const testAdminEmail = "admin@example.com"

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(&config.Config{DBPath: ":memory:"})
	if err != nil {
		t.Fatalf("Error creating repository: %v", err)
	}
	if err := repo.RunMigrations(); err != nil {
		t.Fatalf("Migration error: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func createTestUser(t *testing.T, repo *Repository, email, username string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Username: username}
	if err := repo.CreateUser(user, "password123"); err != nil {
		t.Fatalf("Error creating user %s: %v", username, err)
	}
	u, err := repo.GetUserByUsername(username)
	if err != nil {
		t.Fatalf("Error loading user %s: %v", username, err)
	}
	return u
}

func createTestPost(t *testing.T, repo *Repository, userID int, title string) int {
	t.Helper()
	id, err := repo.CreatePost(&models.Post{UserID: userID, Title: title, Content: "content of " + title})
	if err != nil {
		t.Fatalf("Error creating post %q: %v", title, err)
	}
	return int(id)
}

func createTestComment(t *testing.T, repo *Repository, postID, userID int, content string) {
	t.Helper()
	if err := repo.CreateComment(&models.Comment{PostID: postID, UserID: userID, Content: content}); err != nil {
		t.Fatalf("Error creating comment: %v", err)
	}
}

func TestNoticePostsPinnedAndExcluded(t *testing.T) {
	repo := setupTestRepo(t)
	admin := createTestUser(t, repo, testAdminEmail, "admin")
	user := createTestUser(t, repo, "user@example.com", "user")

	n1 := createTestPost(t, repo, admin.ID, "First notice")
	n2 := createTestPost(t, repo, admin.ID, "Second notice")
	createTestPost(t, repo, user.ID, "Regular post")

	notices, err := repo.NoticePosts(testAdminEmail)
	if err != nil {
		t.Fatalf("NoticePosts: %v", err)
	}
	if len(notices) != 2 {
		t.Fatalf("expected 2 notices, got %d", len(notices))
	}
	// Newest first
	if notices[0].ID != n2 || notices[1].ID != n1 {
		t.Errorf("notices not ordered by id descending: got %d, %d", notices[0].ID, notices[1].ID)
	}

	// Admin posts never appear in the visible listing or its count
	count, err := repo.CountVisiblePosts("", testAdminEmail)
	if err != nil {
		t.Fatalf("CountVisiblePosts: %v", err)
	}
	if count != 1 {
		t.Errorf("expected visible count 1, got %d", count)
	}
	posts, err := repo.VisiblePosts("", testAdminEmail, 1)
	if err != nil {
		t.Fatalf("VisiblePosts: %v", err)
	}
	for _, p := range posts {
		if p.UserID == admin.ID {
			t.Errorf("admin post %d leaked into the visible listing", p.ID)
		}
	}
}

func TestOwnerlessPostsStayVisible(t *testing.T) {
	repo := setupTestRepo(t)
	createTestUser(t, repo, testAdminEmail, "admin")

	// A post whose author was removed: user_id is NULL
	if _, err := repo.db.Exec("INSERT INTO posts (user_id, title, content) VALUES (NULL, 'Orphan', 'no author')"); err != nil {
		t.Fatalf("inserting ownerless post: %v", err)
	}

	count, err := repo.CountVisiblePosts("", testAdminEmail)
	if err != nil {
		t.Fatalf("CountVisiblePosts: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected ownerless post to be counted, got %d", count)
	}
	posts, err := repo.VisiblePosts("", testAdminEmail, 1)
	if err != nil {
		t.Fatalf("VisiblePosts: %v", err)
	}
	if len(posts) != 1 || posts[0].Username != "" || posts[0].UserID != 0 {
		t.Errorf("unexpected ownerless post row: %+v", posts[0])
	}
}

func TestSearchPagination(t *testing.T) {
	repo := setupTestRepo(t)
	createTestUser(t, repo, testAdminEmail, "admin")
	user := createTestUser(t, repo, "user@example.com", "user")

	for i := 0; i < 7; i++ {
		createTestPost(t, repo, user.ID, fmt.Sprintf("cat picture %d", i))
	}
	for i := 0; i < 3; i++ {
		createTestPost(t, repo, user.ID, fmt.Sprintf("dog picture %d", i))
	}

	count, err := repo.CountVisiblePosts("cat", testAdminEmail)
	if err != nil {
		t.Fatalf("CountVisiblePosts: %v", err)
	}
	if count != 7 {
		t.Fatalf("expected 7 matches, got %d", count)
	}

	page1, err := repo.VisiblePosts("cat", testAdminEmail, 1)
	if err != nil {
		t.Fatalf("VisiblePosts page 1: %v", err)
	}
	page2, err := repo.VisiblePosts("cat", testAdminEmail, 2)
	if err != nil {
		t.Fatalf("VisiblePosts page 2: %v", err)
	}
	if len(page1) != 5 || len(page2) != 2 {
		t.Errorf("expected pages of 5 and 2, got %d and %d", len(page1), len(page2))
	}

	// Newest first across the page boundary
	if page1[0].ID < page1[4].ID || page1[4].ID < page2[0].ID {
		t.Errorf("pages not ordered by id descending")
	}

	// Count and pages walk the same filter
	total := 0
	for page := 1; ; page++ {
		rows, err := repo.VisiblePosts("cat", testAdminEmail, page)
		if err != nil {
			t.Fatalf("VisiblePosts page %d: %v", page, err)
		}
		if len(rows) == 0 {
			break
		}
		total += len(rows)
	}
	if total != count {
		t.Errorf("count %d disagrees with %d rows walked", count, total)
	}
}

func TestIncrementViewCount(t *testing.T) {
	repo := setupTestRepo(t)
	user := createTestUser(t, repo, "user@example.com", "user")
	postID := createTestPost(t, repo, user.ID, "Watched post")

	for i := 0; i < 11; i++ {
		if err := repo.IncrementViewCount(postID); err != nil {
			t.Fatalf("IncrementViewCount: %v", err)
		}
	}

	post, err := repo.GetPostByID(postID)
	if err != nil {
		t.Fatalf("GetPostByID: %v", err)
	}
	if post.ViewCount != 11 {
		t.Errorf("expected view count 11, got %d", post.ViewCount)
	}

	// Missing post: the increment is a no-op, not an error
	if err := repo.IncrementViewCount(postID + 1000); err != nil {
		t.Errorf("IncrementViewCount on missing post: %v", err)
	}
}

func TestGetPostByIDNotFound(t *testing.T) {
	repo := setupTestRepo(t)
	if _, err := repo.GetPostByID(42); err != ErrPostNotFound {
		t.Errorf("expected ErrPostNotFound, got %v", err)
	}
}

func TestUpdatePostKeepsOwnerAndViews(t *testing.T) {
	repo := setupTestRepo(t)
	user := createTestUser(t, repo, "user@example.com", "user")
	postID := createTestPost(t, repo, user.ID, "Before")
	if err := repo.IncrementViewCount(postID); err != nil {
		t.Fatalf("IncrementViewCount: %v", err)
	}

	if err := repo.UpdatePost(postID, "After", "new content"); err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}

	post, err := repo.GetPostByID(postID)
	if err != nil {
		t.Fatalf("GetPostByID: %v", err)
	}
	if post.Title != "After" || post.Content != "new content" {
		t.Errorf("update not persisted: %+v", post)
	}
	if post.UserID != user.ID || post.ViewCount != 1 {
		t.Errorf("update touched owner or view count: %+v", post)
	}
}

func TestDeletePostCascadesComments(t *testing.T) {
	repo := setupTestRepo(t)
	author := createTestUser(t, repo, "author@example.com", "author")
	other := createTestUser(t, repo, "other@example.com", "other")
	postID := createTestPost(t, repo, author.ID, "Doomed post")
	createTestComment(t, repo, postID, author.ID, "mine")
	createTestComment(t, repo, postID, other.ID, "someone else's")

	if err := repo.DeletePost(postID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}

	if _, err := repo.GetPostByID(postID); err != ErrPostNotFound {
		t.Errorf("expected ErrPostNotFound after delete, got %v", err)
	}
	comments, err := repo.GetCommentsByPostID(postID)
	if err != nil {
		t.Fatalf("GetCommentsByPostID: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("expected cascade to remove comments, %d left", len(comments))
	}
}

func TestPurgeUserContent(t *testing.T) {
	repo := setupTestRepo(t)
	target := createTestUser(t, repo, "target@example.com", "target")
	other := createTestUser(t, repo, "other@example.com", "other")

	targetPost := createTestPost(t, repo, target.ID, "Target's post")
	otherPost := createTestPost(t, repo, other.ID, "Other's post")

	createTestComment(t, repo, otherPost, target.ID, "target on other's post")
	createTestComment(t, repo, targetPost, other.ID, "other on target's post")
	createTestComment(t, repo, otherPost, other.ID, "other on own post")

	// The purge order: comments by the target first, then the target's
	// posts with their comment cascade
	if err := repo.DeleteCommentsByUser(target.ID); err != nil {
		t.Fatalf("DeleteCommentsByUser: %v", err)
	}
	if err := repo.DeletePostsByUser(target.ID); err != nil {
		t.Fatalf("DeletePostsByUser: %v", err)
	}

	if _, err := repo.GetPostByID(targetPost); err != ErrPostNotFound {
		t.Errorf("target's post should be gone, got %v", err)
	}
	if _, err := repo.GetPostByID(otherPost); err != nil {
		t.Errorf("other's post should survive, got %v", err)
	}

	comments, err := repo.GetCommentsByPostID(otherPost)
	if err != nil {
		t.Fatalf("GetCommentsByPostID: %v", err)
	}
	if len(comments) != 1 || comments[0].UserID != other.ID {
		t.Errorf("expected only other's own comment to survive, got %d comments", len(comments))
	}
}
