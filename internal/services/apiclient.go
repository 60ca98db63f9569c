package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/studymate-app/web-ui/internal/models"
)

// StudyAPI is the HTTP client for the study backend. All chat flows go through
// it: question answering, quiz generation, and the past-paper session
// endpoints. Requests are JSON over POST against a configurable base URL and
// always carry the caller's session identifier.
type StudyAPI struct {
	baseURL string

	client *http.Client

	logger *slog.Logger
}

// NewStudyAPI creates a client for the study backend at baseURL. A trailing
// slash on baseURL is tolerated.
func NewStudyAPI(baseURL string, logger *slog.Logger) *StudyAPI {
	return &StudyAPI{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		logger:  logger.With(slog.String("module", "studyapi")),
	}
}

type paperStartRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message,omitempty"`
	UnitCode  string `json:"unitCode,omitempty"`
	Year      string `json:"year,omitempty"`
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

type textResponse struct {
	Response string `json:"response"`
	Quiz     string `json:"quiz"`
	Answer   string `json:"answer"`
}

// StartPaper begins a past-paper session from a free-text request and returns
// the first batch of questions as text.
func (s *StudyAPI) StartPaper(ctx context.Context, sessionID, message string) (string, error) {
	var res textResponse
	err := s.post(ctx, "/api/pastpaper/start", paperStartRequest{SessionID: sessionID, Message: message}, &res)
	return res.Response, err
}

// StartPaperByUnit begins a past-paper session for an explicit unit code and
// year.
func (s *StudyAPI) StartPaperByUnit(ctx context.Context, sessionID, unitCode, year string) (string, error) {
	var res textResponse
	err := s.post(ctx, "/api/pastpaper/start", paperStartRequest{SessionID: sessionID, UnitCode: unitCode, Year: year}, &res)
	return res.Response, err
}

// ContinuePaper requests the next batch of questions for the session.
func (s *StudyAPI) ContinuePaper(ctx context.Context, sessionID string) (string, error) {
	var res textResponse
	err := s.post(ctx, "/api/pastpaper/continue", paperSessionRequest{SessionID: sessionID}, &res)
	return res.Response, err
}

// ClarifyQuestion asks for an explanation of one question without submitting
// an answer.
func (s *StudyAPI) ClarifyQuestion(ctx context.Context, sessionID string, questionNumber int) (string, error) {
	var res textResponse
	err := s.post(ctx, "/api/pastpaper/clarify",
		paperQuestionRequest{SessionID: sessionID, QuestionNumber: questionNumber}, &res)
	return res.Response, err
}

// SubmitAnswer submits the student's answer for one question and returns the
// grading feedback.
func (s *StudyAPI) SubmitAnswer(ctx context.Context, sessionID string, questionNumber int, answer string) (string, error) {
	var res textResponse
	err := s.post(ctx, "/api/pastpaper/answer",
		paperAnswerRequest{SessionID: sessionID, QuestionNumber: questionNumber, Answer: answer}, &res)
	return res.Response, err
}

// GenerateQuiz asks for a multiple-choice quiz on the given topic.
func (s *StudyAPI) GenerateQuiz(ctx context.Context, sessionID, topic string) (string, error) {
	var res textResponse
	err := s.post(ctx, "/api/quiz", quizRequest{SessionID: sessionID, Topic: topic}, &res)
	return res.Quiz, err
}

// Ask sends a plain question and returns the assistant's answer.
func (s *StudyAPI) Ask(ctx context.Context, sessionID, message string) (string, error) {
	var res textResponse
	err := s.post(ctx, "/api/qa", qaRequest{SessionID: sessionID, Message: message}, &res)
	return res.Answer, err
}

// Notes lists the indexed study notes.
func (s *StudyAPI) Notes(ctx context.Context) ([]models.Note, error) {
	var notes []models.Note
	if err := s.get(ctx, "/api/notes", &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// Note fetches one note with its content.
func (s *StudyAPI) Note(ctx context.Context, id string) (models.Note, error) {
	var note models.Note
	err := s.get(ctx, "/api/notes/"+id, &note)
	return note, err
}

func (s *StudyAPI) post(ctx context.Context, path string, body, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return s.do(req, out)
}

func (s *StudyAPI) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	return s.do(req, out)
}

func (s *StudyAPI) do(req *http.Request, out any) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Non-2xx carries the failure text in the body.
		b, _ := io.ReadAll(resp.Body)
		s.logger.Error("Study API request failed",
			slog.String("path", req.URL.Path),
			slog.Int("status", resp.StatusCode))
		return fmt.Errorf("study api %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}
