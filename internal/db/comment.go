package db

import (
	"database/sql"
	"time"

	"github.com/DooMeul/DB-Notice-Board/internal/models"
)

// CreateComment creates a new comment.
func (r *Repository) CreateComment(comment *models.Comment) error {
	_, err := r.db.Exec("INSERT INTO comments (post_id, user_id, content, created_at) VALUES (?, ?, ?, ?)",
		comment.PostID, comment.UserID, comment.Content, time.Now())
	return err
}

// GetCommentsByPostID returns a post's comments with commenter usernames
// in creation order (oldest first).
func (r *Repository) GetCommentsByPostID(postID int) ([]*models.Comment, error) {
	rows, err := r.db.Query(`SELECT c.id, c.post_id, COALESCE(c.user_id, 0), c.content, c.created_at, COALESCE(u.username, '')
                             FROM comments c
                             LEFT JOIN users u ON c.user_id = u.id
                             WHERE c.post_id = ?
                             ORDER BY c.id ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment := &models.Comment{}
		err := rows.Scan(&comment.ID, &comment.PostID, &comment.UserID,
			&comment.Content, &comment.CreatedAt, &comment.Username)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}

// GetCommentByID returns a comment by ID
func (r *Repository) GetCommentByID(commentID int) (*models.Comment, error) {
	c := &models.Comment{}
	err := r.db.QueryRow("SELECT id, post_id, COALESCE(user_id, 0), content, created_at FROM comments WHERE id = ?", commentID).
		Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteComment deletes a comment by ID
func (r *Repository) DeleteComment(commentID int) error {
	_, err := r.db.Exec("DELETE FROM comments WHERE id = ?", commentID)
	return err
}

// DeleteCommentsByUser deletes every comment owned by a user, on any
// post. Needed before deleting the user's posts: their comments on other
// users' posts are not reachable through a post cascade.
func (r *Repository) DeleteCommentsByUser(userID int) error {
	_, err := r.db.Exec("DELETE FROM comments WHERE user_id = ?", userID)
	return err
}
