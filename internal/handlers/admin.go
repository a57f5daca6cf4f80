package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/DooMeul/DB-Notice-Board/internal/config"
	"github.com/DooMeul/DB-Notice-Board/internal/db"
	"github.com/DooMeul/DB-Notice-Board/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// AdminHandler handles the administrator pages.
type AdminHandler struct {
	repo *db.Repository
	log  *log.Logger
	cfg  *config.Config
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(repo *db.Repository, log *log.Logger, cfg *config.Config) *AdminHandler {
	return &AdminHandler{repo: repo, log: log, cfg: cfg}
}

// requireAdmin returns the caller when they are the administrator and
// writes the error response otherwise.
func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) (*middleware.CurrentUser, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login?error=Authentication required", http.StatusSeeOther)
		return nil, false
	}
	if user.Email != h.cfg.AdminEmail {
		renderError(w, h.log, http.StatusForbidden, "403 Forbidden", "Administrator only", h.cfg.ProjectRoot)
		return nil, false
	}
	return user, true
}

// Users lists all board users with their post and comment counts.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	users, err := h.repo.ListUserActivity(h.cfg.AdminEmail)
	if err != nil {
		h.log.Printf("Error loading user list: %v", err)
		renderError(w, h.log, http.StatusInternalServerError, "500 Internal Server Error", "Internal server error", h.cfg.ProjectRoot)
		return
	}

	renderPage(w, h.log, h.cfg.ProjectRoot, "admin.html", map[string]interface{}{
		"Users":           users,
		"IsAuthenticated": true,
		"IsAdmin":         true,
		"Username":        user.Username,
		"Error":           r.URL.Query().Get("error"),
		"Success":         r.URL.Query().Get("success"),
	})
}

// PurgeUser removes everything a user wrote: first the user's comments
// on any post, then the user's posts together with the comments attached
// to them. The two steps commit independently, in that order — the first
// covers comments on other users' posts that no post cascade reaches.
func (h *AdminHandler) PurgeUser(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || userID <= 0 {
		http.Redirect(w, r, "/admin?error=Invalid user ID", http.StatusSeeOther)
		return
	}

	if err := h.repo.DeleteCommentsByUser(userID); err != nil {
		h.log.Printf("Error purging comments of user %d: %v", userID, err)
		http.Redirect(w, r, "/admin?error=Error purging user", http.StatusSeeOther)
		return
	}
	if err := h.repo.DeletePostsByUser(userID); err != nil {
		h.log.Printf("Error purging posts of user %d: %v", userID, err)
		http.Redirect(w, r, "/admin?error=Error purging user", http.StatusSeeOther)
		return
	}

	h.log.Printf("User %d purged by %s", userID, admin.Username)
	http.Redirect(w, r, "/admin?success=User content removed", http.StatusSeeOther)
}
