package handlers

import (
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/DooMeul/DB-Notice-Board/internal/config"
	"github.com/DooMeul/DB-Notice-Board/internal/db"
	"github.com/DooMeul/DB-Notice-Board/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	repo *db.Repository
	log  *log.Logger
	cfg  *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(repo *db.Repository, log *log.Logger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{repo: repo, log: log, cfg: cfg}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	// Already logged in: back to the board
	if h.hasSession(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if r.Method == http.MethodGet {
		renderPage(w, h.log, h.cfg.ProjectRoot, "register.html", map[string]interface{}{
			"Error":   r.URL.Query().Get("error"),
			"Success": r.URL.Query().Get("success"),
		})
		return
	}

	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	username := strings.ReplaceAll(strings.TrimSpace(strings.ToLower(r.FormValue("username"))), " ", "")
	password := strings.TrimSpace(r.FormValue("password"))

	if email == "" || username == "" {
		http.Redirect(w, r, "/register?error=Email and username must not be empty", http.StatusSeeOther)
		return
	}
	if runeLen := utf8.RuneCountInString(username); runeLen < 3 || runeLen > 30 {
		http.Redirect(w, r, "/register?error=Username must be 3-30 characters", http.StatusSeeOther)
		return
	}
	if runeLen := utf8.RuneCountInString(password); runeLen < 6 || runeLen > 50 {
		http.Redirect(w, r, "/register?error=Password must be 6-50 characters", http.StatusSeeOther)
		return
	}
	if !emailRegex.MatchString(email) {
		http.Redirect(w, r, "/register?error=Invalid email format", http.StatusSeeOther)
		return
	}

	isTaken, err := h.repo.IsEmailOrUsernameTaken(email, username)
	if err != nil {
		h.log.Printf("Uniqueness check error: %v", err)
		http.Redirect(w, r, "/register?error=Registration error", http.StatusSeeOther)
		return
	}
	if isTaken {
		http.Redirect(w, r, "/register?error=Email or username already taken", http.StatusSeeOther)
		return
	}

	user := &models.User{Email: email, Username: username}
	if err := h.repo.CreateUser(user, password); err != nil {
		h.log.Printf("Error creating user: %v", err)
		http.Redirect(w, r, "/register?error=Registration error", http.StatusSeeOther)
		return
	}

	h.log.Printf("User registered: %s", username)
	http.Redirect(w, r, "/login?success=Registration successful", http.StatusSeeOther)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.hasSession(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if r.Method == http.MethodGet {
		renderPage(w, h.log, h.cfg.ProjectRoot, "login.html", map[string]interface{}{
			"Error":   r.URL.Query().Get("error"),
			"Success": r.URL.Query().Get("success"),
		})
		return
	}

	username := strings.ReplaceAll(strings.TrimSpace(strings.ToLower(r.FormValue("username"))), " ", "")
	password := r.FormValue("password")

	user, err := h.repo.GetUserByUsername(username)
	if err != nil {
		h.log.Printf("Login failed for %s: %v", username, err)
		http.Redirect(w, r, "/login?error=Wrong username or password", http.StatusSeeOther)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		h.log.Printf("Login failed: wrong password for %s", username)
		http.Redirect(w, r, "/login?error=Wrong username or password", http.StatusSeeOther)
		return
	}

	sessionID := uuid.New().String()
	expiresAt := time.Now().Add(24 * time.Hour)
	session := &models.Session{
		SessionID: sessionID,
		UserID:    user.ID,
		Expires:   expiresAt,
	}
	if err := h.repo.CreateSession(session); err != nil {
		h.log.Printf("Error creating session: %v", err)
		http.Redirect(w, r, "/login?error=Login error", http.StatusSeeOther)
		return
	}

	// One active session per user
	if err := h.repo.DeleteUserSessions(user.ID, sessionID); err != nil {
		h.log.Printf("Error removing old sessions: %v", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:    "session_id",
		Value:   sessionID,
		Path:    "/",
		Expires: expiresAt,
	})

	h.log.Printf("User logged in: %s", username)
	http.Redirect(w, r, "/?success=Logged in", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("session_id")
	if err == nil {
		if err := h.repo.DeleteSession(cookie.Value); err != nil {
			h.log.Printf("Error deleting session: %v", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:   "session_id",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	http.Redirect(w, r, "/?success=Logged out", http.StatusSeeOther)
}

func (h *AuthHandler) hasSession(r *http.Request) bool {
	cookie, err := r.Cookie("session_id")
	if err != nil {
		return false
	}
	_, err = h.repo.GetSession(cookie.Value)
	return err == nil
}
