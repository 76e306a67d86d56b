package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/diary/internal/logging"
	"github.com/dmitrijs2005/diary/internal/server/auth"
	"github.com/dmitrijs2005/diary/internal/server/models"
)

// Users is the account API the handlers call. *services.UserService
// implements it.
type Users interface {
	CreateUser(ctx context.Context, username, password string) error
	Authenticate(ctx context.Context, username, password string) (*auth.Session, error)
	SessionFromRequest(r *http.Request) (*auth.Claims, bool)
	GetUserProfile(ctx context.Context, username string) (*models.UserProfile, error)
	GetOwnProfile(ctx context.Context, claims *auth.Claims) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, claims *auth.Claims, p models.ProfileUpdate) (*models.UserProfile, error)
}

// Diaries is the diary API the handlers call. *services.DiaryService
// implements it.
type Diaries interface {
	CreateDiaryBook(ctx context.Context, claims *auth.Claims, name string) (int64, error)
	ListDiaryBooks(ctx context.Context, claims *auth.Claims) ([]models.DiaryBook, error)
	GetDiaryBook(ctx context.Context, claims *auth.Claims, bookID int64) (*models.DiaryBook, error)
	AddDiary(ctx context.Context, claims *auth.Claims, bookID int64, title string, date int64, content string) (int64, error)
	ListDiaries(ctx context.Context, claims *auth.Claims, bookID int64) ([]models.DiaryEntry, error)
	GetDiary(ctx context.Context, claims *auth.Claims, diaryID int64) (*models.DiaryEntry, error)
}

type Handler struct {
	users   Users
	diaries Diaries
	logger  logging.Logger
}

func NewHandler(users Users, diaries Diaries, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Handler{users: users, diaries: diaries, logger: logger}
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, claims *auth.Claims)

// withSession rejects requests without a valid session cookie.
func (h *Handler) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := h.users.SessionFromRequest(r)
		if !ok {
			writeStatus(w, StatusInvalidSession, "")
			return
		}
		next(w, r, claims)
	}
}

func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		writeStatus(w, StatusBadRequest, "malformed form")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		writeStatus(w, StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// POST /diary/user
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	if err := h.users.CreateUser(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeOK(w, nil)
}

type loginData struct {
	JWT *auth.Claims `json:"jwt"`
}

// POST /diary/session
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	sess, err := h.users.Authenticate(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	http.SetCookie(w, sess.Cookie)
	writeOK(w, loginData{JWT: sess.Claims})
}

// DELETE /diary/session
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ClearCookie())
	writeOK(w, nil)
}

// GET /diary/user/{username}
func (h *Handler) UserProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.users.GetUserProfile(r.Context(), r.PathValue("username"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeOK(w, p)
}

// GET /diary/me
func (h *Handler) OwnProfile(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	p, err := h.users.GetOwnProfile(r.Context(), claims)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeOK(w, p)
}

// PATCH /diary/me. Fields: name, email, gender (unknown|male|female|other),
// gender_other. An absent or empty field clears the stored value.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	if !h.parseForm(w, r) {
		return
	}
	gender, err := models.ParseGender(r.PostForm.Get("gender"), r.PostForm.Get("gender_other"))
	if err != nil {
		writeStatus(w, StatusBadRequest, err.Error())
		return
	}
	update := models.ProfileUpdate{
		Name:   optional(r.PostForm.Get("name")),
		Email:  optional(r.PostForm.Get("email")),
		Gender: gender,
	}
	p, err := h.users.UpdateProfile(r.Context(), claims, update)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeOK(w, p)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type idData struct {
	ID int64 `json:"id"`
}

// POST /diary/books
func (h *Handler) CreateDiaryBook(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	if !h.parseForm(w, r) {
		return
	}
	id, err := h.diaries.CreateDiaryBook(r.Context(), claims, r.PostForm.Get("name"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeOK(w, idData{ID: id})
}

// GET /diary/books
func (h *Handler) ListDiaryBooks(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	books, err := h.diaries.ListDiaryBooks(r.Context(), claims)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeOK(w, books)
}

// POST /diary/books/{id}/diaries
func (h *Handler) AddDiary(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	bookID, ok := pathID(w, r, "id")
	if !ok || !h.parseForm(w, r) {
		return
	}
	date, err := strconv.ParseInt(r.PostForm.Get("date"), 10, 64)
	if err != nil {
		writeStatus(w, StatusBadRequest, "invalid date")
		return
	}
	id, err := h.diaries.AddDiary(r.Context(), claims, bookID, r.PostForm.Get("title"), date, r.PostForm.Get("content"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeOK(w, idData{ID: id})
}

// GET /diary/books/{id}/diaries
func (h *Handler) ListDiaries(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	bookID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	entries, err := h.diaries.ListDiaries(r.Context(), claims, bookID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeOK(w, entries)
}

// GET /diary/books/{id}
func (h *Handler) GetDiaryBook(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b, err := h.diaries.GetDiaryBook(r.Context(), claims, id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeOK(w, b)
}

// GET /diary/diaries/{id}
func (h *Handler) GetDiary(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	e, err := h.diaries.GetDiary(r.Context(), claims, id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeOK(w, e)
}
