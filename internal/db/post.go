package db

import (
	"database/sql"
	"time"

	"github.com/DooMeul/DB-Notice-Board/internal/models"
)

// visibleWhere builds the filter shared by CountVisiblePosts and
// VisiblePosts: posts whose owner is not the administrator (ownerless
// posts pass), optionally narrowed by a title substring. Both queries
// must use the exact clause and args returned here so the count and the
// page can never disagree.
func visibleWhere(search, adminEmail string) (string, []interface{}) {
	where := "(u.email IS NULL OR u.email <> ?)"
	args := []interface{}{adminEmail}
	if search != "" {
		where = "p.title LIKE ? AND " + where
		args = []interface{}{"%" + search + "%", adminEmail}
	}
	return where, args
}

// CountVisiblePosts returns the number of non-administrator posts
// matching the optional title search.
func (r *Repository) CountVisiblePosts(search, adminEmail string) (int, error) {
	where, args := visibleWhere(search, adminEmail)
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM posts p
                          LEFT JOIN users u ON p.user_id = u.id
                          WHERE `+where, args...).Scan(&count)
	return count, err
}

// VisiblePosts returns one listing page of non-administrator posts with
// author usernames, newest first.
func (r *Repository) VisiblePosts(search, adminEmail string, page int) ([]*models.Post, error) {
	where, args := visibleWhere(search, adminEmail)
	args = append(args, PageSize, (page-1)*PageSize)
	rows, err := r.db.Query(`SELECT p.id, COALESCE(p.user_id, 0), p.title, p.content, p.view_count, p.created_at, COALESCE(u.username, '')
                             FROM posts p
                             LEFT JOIN users u ON p.user_id = u.id
                             WHERE `+where+`
                             ORDER BY p.id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// NoticePosts returns all posts authored by the administrator account,
// newest first. Notices are pinned above the listing and never paginated.
func (r *Repository) NoticePosts(adminEmail string) ([]*models.Post, error) {
	rows, err := r.db.Query(`SELECT p.id, COALESCE(p.user_id, 0), p.title, p.content, p.view_count, p.created_at, COALESCE(u.username, '')
                             FROM posts p
                             LEFT JOIN users u ON p.user_id = u.id
                             WHERE u.email = ?
                             ORDER BY p.id DESC`, adminEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func scanPosts(rows *sql.Rows) ([]*models.Post, error) {
	var posts []*models.Post
	for rows.Next() {
		post := &models.Post{}
		err := rows.Scan(&post.ID, &post.UserID, &post.Title, &post.Content,
			&post.ViewCount, &post.CreatedAt, &post.Username)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPostByID retrieves a post with its author username.
func (r *Repository) GetPostByID(postID int) (*models.Post, error) {
	post := &models.Post{}
	err := r.db.QueryRow(`SELECT p.id, COALESCE(p.user_id, 0), p.title, p.content, p.view_count, p.created_at, COALESCE(u.username, '')
                          FROM posts p
                          LEFT JOIN users u ON p.user_id = u.id
                          WHERE p.id = ?`, postID).
		Scan(&post.ID, &post.UserID, &post.Title, &post.Content,
			&post.ViewCount, &post.CreatedAt, &post.Username)
	if err == sql.ErrNoRows {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// IncrementViewCount bumps a post's view counter. A single atomic
// update; a no-op when the post does not exist.
func (r *Repository) IncrementViewCount(postID int) error {
	_, err := r.db.Exec("UPDATE posts SET view_count = view_count + 1 WHERE id = ?", postID)
	return err
}

// CreatePost creates a new post and returns its ID. The view counter
// starts at zero.
func (r *Repository) CreatePost(post *models.Post) (int64, error) {
	result, err := r.db.Exec("INSERT INTO posts (user_id, title, content, created_at) VALUES (?, ?, ?, ?)",
		post.UserID, post.Title, post.Content, time.Now())
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// UpdatePost updates the title and content of a post. Ownership and the
// view counter are untouched.
func (r *Repository) UpdatePost(postID int, title, content string) error {
	_, err := r.db.Exec("UPDATE posts SET title = ?, content = ? WHERE id = ?", title, content, postID)
	return err
}

// DeletePost deletes a post and its comments in one transaction.
func (r *Repository) DeletePost(postID int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	// Comments first, foreign key order
	if _, err := tx.Exec("DELETE FROM comments WHERE post_id = ?", postID); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec("DELETE FROM posts WHERE id = ?", postID); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// DeletePostsByUser deletes every post owned by a user, cascading the
// comments attached to those posts regardless of commenter.
func (r *Repository) DeletePostsByUser(userID int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM comments WHERE post_id IN (SELECT id FROM posts WHERE user_id = ?)", userID); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec("DELETE FROM posts WHERE user_id = ?", userID); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
