package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/studymate-app/web-ui/internal/notes"
)

type paperStartRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
	UnitCode  string `json:"unitCode"`
	Year      string `json:"year"`
}

type paperSessionRequest struct {
	SessionID string `json:"sessionId"`
}

type paperQuestionRequest struct {
	SessionID      string `json:"sessionId"`
	QuestionNumber int    `json:"questionNumber"`
}

type paperAnswerRequest struct {
	SessionID      string `json:"sessionId"`
	QuestionNumber int    `json:"questionNumber"`
	Answer         string `json:"answer"`
}

type quizRequest struct {
	SessionID string `json:"sessionId"`
	Topic     string `json:"topic"`
}

type qaRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// Callers that don't track sessions share one.
func sessionOrDefault(id string) string {
	if id == "" {
		return "default"
	}
	return id
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePaperStart(w http.ResponseWriter, r *http.Request) {
	var req paperStartRequest
	if !decode(w, r, &req) {
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" && (req.UnitCode != "" || req.Year != "") {
		message = strings.TrimSpace(strings.Join([]string{"Go through", req.UnitCode, req.Year, "past paper"}, " "))
	}
	if message == "" {
		respondError(w, http.StatusBadRequest, "message or unitCode/year is required")
		return
	}

	response, err := s.papers.HandleRequest(r.Context(), sessionOrDefault(req.SessionID), message)
	if err != nil {
		s.logger.Error("Past paper request failed", slog.String("err", err.Error()))
		respondError(w, http.StatusInternalServerError, "failed to process past paper request")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"response": response})
}

func (s *Server) handlePaperContinue(w http.ResponseWriter, r *http.Request) {
	var req paperSessionRequest
	if !decode(w, r, &req) {
		return
	}

	response, err := s.papers.Continue(r.Context(), sessionOrDefault(req.SessionID))
	if err != nil {
		s.logger.Error("Past paper continue failed", slog.String("err", err.Error()))
		respondError(w, http.StatusInternalServerError, "failed to fetch next questions")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"response": response})
}

func (s *Server) handlePaperClarify(w http.ResponseWriter, r *http.Request) {
	var req paperQuestionRequest
	if !decode(w, r, &req) {
		return
	}
	if req.QuestionNumber < 1 {
		respondError(w, http.StatusBadRequest, "questionNumber is required")
		return
	}

	response, err := s.papers.Clarify(r.Context(), sessionOrDefault(req.SessionID), req.QuestionNumber)
	if err != nil {
		s.logger.Error("Clarification failed", slog.String("err", err.Error()))
		respondError(w, http.StatusInternalServerError, "failed to generate clarification")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"response": response})
}

func (s *Server) handlePaperAnswer(w http.ResponseWriter, r *http.Request) {
	var req paperAnswerRequest
	if !decode(w, r, &req) {
		return
	}
	if req.QuestionNumber < 1 || strings.TrimSpace(req.Answer) == "" {
		respondError(w, http.StatusBadRequest, "questionNumber and answer are required")
		return
	}

	response, err := s.papers.Answer(r.Context(), sessionOrDefault(req.SessionID), req.QuestionNumber, req.Answer)
	if err != nil {
		s.logger.Error("Answer feedback failed", slog.String("err", err.Error()))
		respondError(w, http.StatusInternalServerError, "failed to generate feedback")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"response": response})
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		respondError(w, http.StatusBadRequest, "topic is required")
		return
	}

	quiz, err := s.assistant.Quiz(r.Context(), req.Topic)
	if err != nil {
		s.logger.Error("Quiz generation failed", slog.String("err", err.Error()))
		respondError(w, http.StatusInternalServerError, "failed to generate quiz")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"quiz": quiz})
}

func (s *Server) handleQA(w http.ResponseWriter, r *http.Request) {
	var req qaRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	answer, err := s.assistant.Answer(r.Context(), req.Message)
	if err != nil {
		s.logger.Error("Question answering failed", slog.String("err", err.Error()))
		respondError(w, http.StatusInternalServerError, "failed to answer question")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	all, err := s.notes.Notes(r.Context())
	if err != nil {
		s.logger.Error("Listing notes failed", slog.String("err", err.Error()))
		respondError(w, http.StatusInternalServerError, "failed to list notes")
		return
	}
	if all == nil {
		all = []notes.Note{}
	}
	respondJSON(w, http.StatusOK, all)
}

func (s *Server) handleNote(w http.ResponseWriter, r *http.Request) {
	note, err := s.notes.Note(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, notes.ErrNotFound) {
			respondError(w, http.StatusNotFound, "note not found")
			return
		}
		s.logger.Error("Fetching note failed", slog.String("err", err.Error()))
		respondError(w, http.StatusInternalServerError, "failed to fetch note")
		return
	}
	respondJSON(w, http.StatusOK, note)
}
