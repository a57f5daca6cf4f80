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

// PostHandler handles requests related to posts.
type PostHandler struct {
	repo *db.Repository
	log  *log.Logger
	cfg  *config.Config
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(repo *db.Repository, log *log.Logger, cfg *config.Config) *PostHandler {
	return &PostHandler{repo: repo, log: log, cfg: cfg}
}

func (h *PostHandler) isAdmin(user *middleware.CurrentUser) bool {
	return user != nil && user.Email == h.cfg.AdminEmail
}

// List displays the pinned notices and one page of the post listing,
// optionally filtered by a title search.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	search := r.URL.Query().Get("search")

	notices, err := h.repo.NoticePosts(h.cfg.AdminEmail)
	if err != nil {
		h.log.Printf("Error loading notices: %v", err)
		renderError(w, h.log, http.StatusInternalServerError, "500 Internal Server Error", "Internal server error", h.cfg.ProjectRoot)
		return
	}

	total, err := h.repo.CountVisiblePosts(search, h.cfg.AdminEmail)
	if err != nil {
		h.log.Printf("Error counting posts: %v", err)
		renderError(w, h.log, http.StatusInternalServerError, "500 Internal Server Error", "Internal server error", h.cfg.ProjectRoot)
		return
	}
	totalPages := pageCount(total)

	posts, err := h.repo.VisiblePosts(search, h.cfg.AdminEmail, page)
	if err != nil {
		h.log.Printf("Error loading posts: %v", err)
		renderError(w, h.log, http.StatusInternalServerError, "500 Internal Server Error", "Internal server error", h.cfg.ProjectRoot)
		return
	}

	user, authenticated := middleware.ResolveUser(h.repo, r)
	username := ""
	if authenticated {
		username = user.Username
	}

	renderPage(w, h.log, h.cfg.ProjectRoot, "index.html", map[string]interface{}{
		"Notices":         notices,
		"Posts":           posts,
		"CurrentPage":     page,
		"PrevPage":        page - 1,
		"NextPage":        page + 1,
		"TotalPages":      totalPages,
		"Search":          search,
		"IsAuthenticated": authenticated,
		"IsAdmin":         h.isAdmin(user),
		"Username":        username,
		"Error":           r.URL.Query().Get("error"),
		"Success":         r.URL.Query().Get("success"),
	})
}

// Detail displays a single post with its comments. Every view bumps the
// post's view counter, even when the post turns out not to exist.
func (h *PostHandler) Detail(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || postID <= 0 {
		renderError(w, h.log, http.StatusNotFound, "404 Not Found", "Post not found", h.cfg.ProjectRoot)
		return
	}

	if err := h.repo.IncrementViewCount(postID); err != nil {
		h.log.Printf("Error incrementing view count: %v", err)
		renderError(w, h.log, http.StatusInternalServerError, "500 Internal Server Error", "Internal server error", h.cfg.ProjectRoot)
		return
	}

	post, err := h.repo.GetPostByID(postID)
	if err == db.ErrPostNotFound {
		renderError(w, h.log, http.StatusNotFound, "404 Not Found", "Post not found", h.cfg.ProjectRoot)
		return
	}
	if err != nil {
		h.log.Printf("Error loading post: %v", err)
		renderError(w, h.log, http.StatusInternalServerError, "500 Internal Server Error", "Internal server error", h.cfg.ProjectRoot)
		return
	}

	comments, err := h.repo.GetCommentsByPostID(postID)
	if err != nil {
		h.log.Printf("Error loading comments: %v", err)
		renderError(w, h.log, http.StatusInternalServerError, "500 Internal Server Error", "Internal server error", h.cfg.ProjectRoot)
		return
	}

	user, authenticated := middleware.ResolveUser(h.repo, r)
	username := ""
	userID := 0
	if authenticated {
		username = user.Username
		userID = user.ID
	}

	renderPage(w, h.log, h.cfg.ProjectRoot, "post.html", map[string]interface{}{
		"Post":            post,
		"Comments":        comments,
		"IsAuthenticated": authenticated,
		"IsAdmin":         h.isAdmin(user),
		"Username":        username,
		"UserID":          userID,
		"Error":           r.URL.Query().Get("error"),
		"Success":         r.URL.Query().Get("success"),
	})
}

// NewForm displays the post creation form.
func (h *PostHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login?error=Authentication required", http.StatusSeeOther)
		return
	}
	renderPage(w, h.log, h.cfg.ProjectRoot, "create_post.html", map[string]interface{}{
		"IsAuthenticated": true,
		"Username":        user.Username,
		"Error":           r.URL.Query().Get("error"),
	})
}

// Create handles post creation.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login?error=Authentication required", http.StatusSeeOther)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	content := strings.TrimSpace(r.FormValue("content"))
	if msg := validatePostInput(title, content); msg != "" {
		http.Redirect(w, r, "/posts/new?error="+msg, http.StatusSeeOther)
		return
	}

	post := &models.Post{
		UserID:  user.ID,
		Title:   title,
		Content: content,
	}
	postID, err := h.repo.CreatePost(post)
	if err != nil {
		h.log.Printf("Error creating post: %v", err)
		http.Redirect(w, r, "/posts/new?error=Error creating post", http.StatusSeeOther)
		return
	}

	h.log.Printf("Post %q created by user %d", title, user.ID)
	http.Redirect(w, r, "/posts/"+strconv.FormatInt(postID, 10), http.StatusSeeOther)
}

// EditForm displays the edit form. Only the author may edit a post.
func (h *PostHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadOwnedPost(w, r)
	if !ok {
		return
	}
	renderPage(w, h.log, h.cfg.ProjectRoot, "edit_post.html", map[string]interface{}{
		"Post":  post,
		"Error": r.URL.Query().Get("error"),
	})
}

// Update persists edited title and content. Only the author may edit;
// the administrator gets no override here.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadOwnedPost(w, r)
	if !ok {
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	content := strings.TrimSpace(r.FormValue("content"))
	if msg := validatePostInput(title, content); msg != "" {
		http.Redirect(w, r, "/posts/"+strconv.Itoa(post.ID)+"/edit?error="+msg, http.StatusSeeOther)
		return
	}

	if err := h.repo.UpdatePost(post.ID, title, content); err != nil {
		h.log.Printf("Post update error: %v", err)
		http.Redirect(w, r, "/posts/"+strconv.Itoa(post.ID)+"/edit?error=Update error", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/posts/"+strconv.Itoa(post.ID)+"?success=Post updated", http.StatusSeeOther)
}

// Delete deletes a post and its comments. Allowed for the author or the
// administrator.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	post, err := h.repo.GetPostByID(postID)
	if err == db.ErrPostNotFound {
		renderError(w, h.log, http.StatusNotFound, "404 Not Found", "Post not found", h.cfg.ProjectRoot)
		return
	}
	if err != nil {
		h.log.Printf("Error loading post: %v", err)
		renderError(w, h.log, http.StatusInternalServerError, "500 Internal Server Error", "Internal server error", h.cfg.ProjectRoot)
		return
	}
	if post.UserID != user.ID && !h.isAdmin(user) {
		renderError(w, h.log, http.StatusForbidden, "403 Forbidden", "No permission to delete", h.cfg.ProjectRoot)
		return
	}

	if err := h.repo.DeletePost(postID); err != nil {
		h.log.Printf("Error deleting post: %v", err)
		http.Redirect(w, r, "/posts/"+strconv.Itoa(postID)+"?error=Error deleting post", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/posts?success=Post deleted", http.StatusSeeOther)
}

// loadOwnedPost loads the post addressed by the request and enforces
// that the caller is its author. Writes the error response itself when
// it returns false.
func (h *PostHandler) loadOwnedPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login?error=Authentication required", http.StatusSeeOther)
		return nil, false
	}

	postID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || postID <= 0 {
		renderError(w, h.log, http.StatusNotFound, "404 Not Found", "Post not found", h.cfg.ProjectRoot)
		return nil, false
	}

	post, err := h.repo.GetPostByID(postID)
	if err == db.ErrPostNotFound {
		renderError(w, h.log, http.StatusNotFound, "404 Not Found", "Post not found", h.cfg.ProjectRoot)
		return nil, false
	}
	if err != nil {
		h.log.Printf("Error loading post: %v", err)
		renderError(w, h.log, http.StatusInternalServerError, "500 Internal Server Error", "Internal server error", h.cfg.ProjectRoot)
		return nil, false
	}
	if post.UserID != user.ID {
		renderError(w, h.log, http.StatusForbidden, "403 Forbidden", "No permission to edit", h.cfg.ProjectRoot)
		return nil, false
	}
	return post, true
}

// pageCount returns the number of listing pages needed for total posts.
// An empty listing still has one page.
func pageCount(total int) int {
	pages := (total + db.PageSize - 1) / db.PageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

func validatePostInput(title, content string) string {
	titleLen := utf8.RuneCountInString(title)
	contentLen := utf8.RuneCountInString(content)
	if titleLen < 1 || titleLen > 100 {
		return "Title must be 1-100 characters"
	}
	if contentLen < 1 || contentLen > 5000 {
		return "Content must be 1-5000 characters"
	}
	return ""
}
