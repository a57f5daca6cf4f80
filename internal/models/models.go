package models

import "time"

// User represents a board user
type User struct {
	ID           int
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Post represents a board post. UserID is 0 when the authoring user
// has been removed (the column is nullable).
type Post struct {
	ID        int
	UserID    int
	Title     string
	Content   string
	ViewCount int
	CreatedAt time.Time
	Username  string // author display name, empty when the owner was removed
}

// Comment represents a comment to a post
type Comment struct {
	ID        int
	PostID    int
	UserID    int
	Content   string
	CreatedAt time.Time
	Username  string // commenter display name
}

// Session represents a user session
type Session struct {
	SessionID string
	UserID    int
	Expires   time.Time
}
