// Package site serves the landing page locally: static assets from the web
// root, generated images, and the waitlist signup endpoint.
package site

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"valuesnap/internal/waitlist"
)

type Server struct {
	webRoot   string
	imagesDir string
	store     *waitlist.Store
	now       func() time.Time
}

func New(webRoot, imagesDir string, store *waitlist.Store) *Server {
	return &Server{
		webRoot:   webRoot,
		imagesDir: imagesDir,
		store:     store,
		now:       time.Now,
	}
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))

	r.Post("/api/waitlist", s.handleJoinWaitlist)
	r.Handle("/generated_images/*", http.StripPrefix("/generated_images/",
		http.FileServer(http.Dir(s.imagesDir))))
	r.Handle("/*", http.FileServer(http.Dir(s.webRoot)))
	return r
}

type waitlistRequest struct {
	Email string `json:"email"`
}

type waitlistResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) handleJoinWaitlist(w http.ResponseWriter, r *http.Request) {
	var req waitlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, waitlistResponse{Message: "Invalid request body"})
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		writeJSON(w, http.StatusBadRequest, waitlistResponse{Message: "Email is required"})
		return
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		writeJSON(w, http.StatusBadRequest, waitlistResponse{Message: "Invalid email address"})
		return
	}
	if err := s.store.Add(email, s.now()); err != nil {
		writeJSON(w, http.StatusInternalServerError, waitlistResponse{Message: "An error occurred"})
		return
	}
	writeJSON(w, http.StatusOK, waitlistResponse{
		Success: true,
		Message: "Thanks for joining! We'll notify you when ValueSnap launches.",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
