package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymate-app/web-ui/internal/api"
	"github.com/studymate-app/web-ui/internal/notes"
)

type fakePapers struct {
	lastInput   string
	lastSession string
}

func (f *fakePapers) HandleRequest(_ context.Context, sessionID, input string) (string, error) {
	f.lastSession = sessionID
	f.lastInput = input
	return "paper: " + input, nil
}

func (f *fakePapers) Continue(_ context.Context, sessionID string) (string, error) {
	f.lastSession = sessionID
	return "next batch", nil
}

func (f *fakePapers) Clarify(_ context.Context, _ string, questionNum int) (string, error) {
	if questionNum == 99 {
		return "", errors.New("model down")
	}
	return "clarified", nil
}

func (f *fakePapers) Answer(context.Context, string, int, string) (string, error) {
	return "feedback", nil
}

type fakeAssistant struct{}

func (fakeAssistant) Answer(_ context.Context, question string) (string, error) {
	return "answer to " + question, nil
}

func (fakeAssistant) Quiz(_ context.Context, topic string) (string, error) {
	return "quiz on " + topic, nil
}

type fakeNotes struct {
	notes []notes.Note
}

func (f fakeNotes) Notes(context.Context) ([]notes.Note, error) { return f.notes, nil }

func (f fakeNotes) Note(_ context.Context, id string) (notes.Note, error) {
	for _, n := range f.notes {
		if n.ID == id {
			return n, nil
		}
	}
	return notes.Note{}, notes.ErrNotFound
}

func testRouter(papers *fakePapers, src fakeNotes) http.Handler {
	logger := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
	return api.NewServer(papers, fakeAssistant{}, src, logger).Router()
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var m map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestPaperStartWithMessage(t *testing.T) {
	papers := &fakePapers{}
	h := testRouter(papers, fakeNotes{})

	rec := postJSON(t, h, "/api/pastpaper/start",
		`{"sessionId":"s1","message":"go through CSC231 2024 past paper"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "paper: go through CSC231 2024 past paper", decodeBody(t, rec)["response"])
	assert.Equal(t, "s1", papers.lastSession)
}

func TestPaperStartBuildsMessageFromUnitAndYear(t *testing.T) {
	papers := &fakePapers{}
	h := testRouter(papers, fakeNotes{})

	rec := postJSON(t, h, "/api/pastpaper/start", `{"unitCode":"CSC231","year":"2024"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Go through CSC231 2024 past paper", papers.lastInput)
	assert.Equal(t, "default", papers.lastSession)
}

func TestPaperStartRejectsEmptyRequest(t *testing.T) {
	h := testRouter(&fakePapers{}, fakeNotes{})

	rec := postJSON(t, h, "/api/pastpaper/start", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decodeBody(t, rec)["error"])
}

func TestPaperContinue(t *testing.T) {
	h := testRouter(&fakePapers{}, fakeNotes{})

	rec := postJSON(t, h, "/api/pastpaper/continue", `{"sessionId":"s1"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "next batch", decodeBody(t, rec)["response"])
}

func TestPaperClarifyValidatesQuestionNumber(t *testing.T) {
	h := testRouter(&fakePapers{}, fakeNotes{})

	rec := postJSON(t, h, "/api/pastpaper/clarify", `{"sessionId":"s1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, h, "/api/pastpaper/clarify", `{"sessionId":"s1","questionNumber":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "clarified", decodeBody(t, rec)["response"])
}

func TestPaperClarifyFailure(t *testing.T) {
	h := testRouter(&fakePapers{}, fakeNotes{})

	rec := postJSON(t, h, "/api/pastpaper/clarify", `{"sessionId":"s1","questionNumber":99}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPaperAnswerValidates(t *testing.T) {
	h := testRouter(&fakePapers{}, fakeNotes{})

	rec := postJSON(t, h, "/api/pastpaper/answer", `{"sessionId":"s1","questionNumber":1,"answer":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, h, "/api/pastpaper/answer", `{"sessionId":"s1","questionNumber":1,"answer":"because"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "feedback", decodeBody(t, rec)["response"])
}

func TestQuizResponseField(t *testing.T) {
	h := testRouter(&fakePapers{}, fakeNotes{})

	rec := postJSON(t, h, "/api/quiz", `{"topic":"thermodynamics"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "quiz on thermodynamics", decodeBody(t, rec)["quiz"])
}

func TestQAResponseField(t *testing.T) {
	h := testRouter(&fakePapers{}, fakeNotes{})

	rec := postJSON(t, h, "/api/qa", `{"message":"what is entropy"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "answer to what is entropy", decodeBody(t, rec)["answer"])
}

func TestNotesEndpoints(t *testing.T) {
	src := fakeNotes{notes: []notes.Note{
		{ID: "1-csc231", UnitCode: "CSC231", Topic: "Firewalls", Content: "Firewalls screen traffic."},
	}}
	h := testRouter(&fakePapers{}, src)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notes", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []notes.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Firewalls", list[0].Topic)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notes/1-csc231", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notes/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	h := testRouter(&fakePapers{}, fakeNotes{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}
