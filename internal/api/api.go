// Package api exposes the study assistant over HTTP: past-paper sessions,
// quiz generation, question answering, and read access to indexed notes.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/studymate-app/web-ui/internal/notes"
)

// PaperManager drives the conversational past-paper flow.
type PaperManager interface {
	HandleRequest(ctx context.Context, sessionID, input string) (string, error)
	Continue(ctx context.Context, sessionID string) (string, error)
	Clarify(ctx context.Context, sessionID string, questionNum int) (string, error)
	Answer(ctx context.Context, sessionID string, questionNum int, answer string) (string, error)
}

// Assistant answers questions and generates quizzes.
type Assistant interface {
	Answer(ctx context.Context, question string) (string, error)
	Quiz(ctx context.Context, topic string) (string, error)
}

// NoteReader provides read access to indexed notes.
type NoteReader interface {
	Notes(ctx context.Context) ([]notes.Note, error)
	Note(ctx context.Context, id string) (notes.Note, error)
}

// Server holds the handler dependencies for the study API.
type Server struct {
	papers    PaperManager
	assistant Assistant
	notes     NoteReader

	logger *slog.Logger
}

// NewServer creates a study API server.
func NewServer(papers PaperManager, assistant Assistant, noteReader NoteReader, logger *slog.Logger) *Server {
	return &Server{
		papers:    papers,
		assistant: assistant,
		notes:     noteReader,
		logger:    logger.With(slog.String("module", "api")),
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/pastpaper", func(r chi.Router) {
			r.Post("/start", s.handlePaperStart)
			r.Post("/continue", s.handlePaperContinue)
			r.Post("/clarify", s.handlePaperClarify)
			r.Post("/answer", s.handlePaperAnswer)
		})
		r.Post("/quiz", s.handleQuiz)
		r.Post("/qa", s.handleQA)
		r.Get("/notes", s.handleNotes)
		r.Get("/notes/{id}", s.handleNote)
	})

	return r
}
