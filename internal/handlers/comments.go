package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/DooMeul/DB-Notice-Board/internal/config"
	"github.com/DooMeul/DB-Notice-Board/internal/db"
	"github.com/DooMeul/DB-Notice-Board/internal/middleware"
	"github.com/DooMeul/DB-Notice-Board/internal/models"

	"github.com/go-chi/chi/v5"
)

// CommentHandler handles requests related to comments.
type CommentHandler struct {
	repo *db.Repository
	log  *log.Logger
	cfg  *config.Config
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(repo *db.Repository, log *log.Logger, cfg *config.Config) *CommentHandler {
	return &CommentHandler{repo: repo, log: log, cfg: cfg}
}

// Add creates a comment on a post by the caller.
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login?error=Authentication required", http.StatusSeeOther)
		return
	}

	postID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || postID <= 0 {
		renderError(w, h.log, http.StatusNotFound, "404 Not Found", "Post not found", h.cfg.ProjectRoot)
		return
	}

	content := strings.TrimSpace(r.FormValue("content"))
	if content == "" {
		http.Redirect(w, r, "/posts/"+strconv.Itoa(postID)+"?error=Comment must not be empty", http.StatusSeeOther)
		return
	}
	if contentLen := utf8.RuneCountInString(content); contentLen > 1000 {
		http.Redirect(w, r, "/posts/"+strconv.Itoa(postID)+"?error=Comment must be at most 1000 characters", http.StatusSeeOther)
		return
	}

	// The parent post must exist, dangling comments would never be shown
	if _, err := h.repo.GetPostByID(postID); err != nil {
		if err == db.ErrPostNotFound {
			renderError(w, h.log, http.StatusNotFound, "404 Not Found", "Post not found", h.cfg.ProjectRoot)
			return
		}
		h.log.Printf("Error checking post: %v", err)
		renderError(w, h.log, http.StatusInternalServerError, "500 Internal Server Error", "Internal server error", h.cfg.ProjectRoot)
		return
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  user.ID,
		Content: content,
	}
	if err := h.repo.CreateComment(comment); err != nil {
		h.log.Printf("Error creating comment: %v", err)
		http.Redirect(w, r, "/posts/"+strconv.Itoa(postID)+"?error=Error creating comment", http.StatusSeeOther)
		return
	}

	h.log.Printf("Comment added to post %d by user %d", postID, user.ID)
	http.Redirect(w, r, "/posts/"+strconv.Itoa(postID)+"?success=Comment added", http.StatusSeeOther)
}

// Delete deletes a comment. Allowed for the author or the administrator.
// Redirects to the detail page of the comment's post, which is known
// even after the delete.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login?error=Authentication required", http.StatusSeeOther)
		return
	}

	commentID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || commentID <= 0 {
		renderError(w, h.log, http.StatusNotFound, "404 Not Found", "Comment not found", h.cfg.ProjectRoot)
		return
	}

	comment, err := h.repo.GetCommentByID(commentID)
	if err == db.ErrCommentNotFound {
		renderError(w, h.log, http.StatusNotFound, "404 Not Found", "Comment not found", h.cfg.ProjectRoot)
		return
	}
	if err != nil {
		h.log.Printf("Error loading comment: %v", err)
		renderError(w, h.log, http.StatusInternalServerError, "500 Internal Server Error", "Internal server error", h.cfg.ProjectRoot)
		return
	}
	if comment.UserID != user.ID && user.Email != h.cfg.AdminEmail {
		renderError(w, h.log, http.StatusForbidden, "403 Forbidden", "No permission to delete", h.cfg.ProjectRoot)
		return
	}

	if err := h.repo.DeleteComment(commentID); err != nil {
		h.log.Printf("Error deleting comment: %v", err)
		http.Redirect(w, r, "/posts/"+strconv.Itoa(comment.PostID)+"?error=Error deleting comment", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/posts/"+strconv.Itoa(comment.PostID)+"?success=Comment deleted", http.StatusSeeOther)
}
