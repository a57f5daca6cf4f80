package db

import (
	"database/sql"
	"strings"

	"github.com/DooMeul/DB-Notice-Board/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// UserActivity pairs a user with their post and comment counts, for the
// admin user list.
type UserActivity struct {
	User         *models.User
	PostCount    int
	CommentCount int
}

// CreateUser creates a new user with password hashing.
func (r *Repository) CreateUser(user *models.User, plainPassword string) error {
	// Lowercase email and username for consistency
	user.Email = strings.ToLower(user.Email)
	user.Username = strings.ToLower(user.Username)
	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	_, err = r.db.Exec("INSERT INTO users (email, username, password_hash) VALUES (?, ?, ?)",
		user.Email, user.Username, user.PasswordHash)
	return err
}

// IsEmailOrUsernameTaken checks if an email or username is already taken.
func (r *Repository) IsEmailOrUsernameTaken(email, username string) (bool, error) {
	email = strings.ToLower(email)
	username = strings.ToLower(username)
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ? OR username = ?", email, username).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(userID int) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow("SELECT id, email, username, password_hash, created_at FROM users WHERE id = ?", userID).
		Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username.
func (r *Repository) GetUserByUsername(username string) (*models.User, error) {
	username = strings.ToLower(username)
	user := &models.User{}
	err := r.db.QueryRow("SELECT id, email, username, password_hash, created_at FROM users WHERE username = ?", username).
		Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ListUserActivity returns all users except the administrator together
// with their post and comment counts, newest user first.
func (r *Repository) ListUserActivity(adminEmail string) ([]*UserActivity, error) {
	rows, err := r.db.Query(`SELECT u.id, u.email, u.username, u.created_at,
                                    (SELECT COUNT(*) FROM posts p WHERE p.user_id = u.id),
                                    (SELECT COUNT(*) FROM comments c WHERE c.user_id = u.id)
                             FROM users u
                             WHERE u.email <> ?
                             ORDER BY u.id DESC`, adminEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activity []*UserActivity
	for rows.Next() {
		a := &UserActivity{User: &models.User{}}
		err := rows.Scan(&a.User.ID, &a.User.Email, &a.User.Username, &a.User.CreatedAt,
			&a.PostCount, &a.CommentCount)
		if err != nil {
			return nil, err
		}
		activity = append(activity, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return activity, nil
}
