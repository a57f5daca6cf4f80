package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/DooMeul/DB-Notice-Board/internal/db"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// CurrentUser is the authenticated caller identity threaded through the
// request context.
type CurrentUser struct {
	ID       int
	Username string
	Email    string
}

// AuthMiddleware requires a valid session and puts the caller identity
// into the request context; otherwise it redirects to the login page.
func AuthMiddleware(repo *db.Repository, logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := ResolveUser(repo, r)
			if !ok {
				http.Redirect(w, r, "/login?error=Authentication required", http.StatusSeeOther)
				return
			}
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the caller identity stored by AuthMiddleware.
func UserFromContext(ctx context.Context) (*CurrentUser, bool) {
	user, ok := ctx.Value(userContextKey).(*CurrentUser)
	return user, ok
}

// ResolveUser resolves the caller from the session cookie without
// requiring authentication. Public pages use it to show login state.
func ResolveUser(repo *db.Repository, r *http.Request) (*CurrentUser, bool) {
	cookie, err := r.Cookie("session_id")
	if err != nil {
		return nil, false
	}
	session, err := repo.GetSession(cookie.Value)
	if err != nil {
		return nil, false
	}
	user, err := repo.GetUserByID(session.UserID)
	if err != nil {
		return nil, false
	}
	return &CurrentUser{ID: user.ID, Username: user.Username, Email: user.Email}, true
}
