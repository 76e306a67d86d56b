package httpapi

import (
	"net/http"
)

// NewRouter wires the diary routes onto a ServeMux and wraps it with the
// request-id, logging and body-limit middleware.
func NewRouter(h *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, nil)
	})

	// accounts and sessions
	mux.HandleFunc("POST /diary/user", h.CreateUser)
	mux.HandleFunc("GET /diary/user/{username}", h.UserProfile)
	mux.HandleFunc("POST /diary/session", h.Login)
	mux.HandleFunc("DELETE /diary/session", h.Logout)
	mux.HandleFunc("GET /diary/me", h.withSession(h.OwnProfile))
	mux.HandleFunc("PATCH /diary/me", h.withSession(h.UpdateProfile))

	// diary books and entries
	mux.HandleFunc("POST /diary/books", h.withSession(h.CreateDiaryBook))
	mux.HandleFunc("GET /diary/books", h.withSession(h.ListDiaryBooks))
	mux.HandleFunc("GET /diary/books/{id}", h.withSession(h.GetDiaryBook))
	mux.HandleFunc("POST /diary/books/{id}/diaries", h.withSession(h.AddDiary))
	mux.HandleFunc("GET /diary/books/{id}/diaries", h.withSession(h.ListDiaries))
	mux.HandleFunc("GET /diary/diaries/{id}", h.withSession(h.GetDiary))

	return WithRequestID(WithLogging(h.logger, withBodyLimit(mux)))
}
