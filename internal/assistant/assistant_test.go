package assistant_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymate-app/web-ui/internal/assistant"
	"github.com/studymate-app/web-ui/internal/notes"
)

type fakeCompleter struct {
	response string
	err      error

	systemPrompts []string
	prompts       []string
}

func (f *fakeCompleter) Complete(_ context.Context, systemPrompt, prompt string) (string, error) {
	f.systemPrompts = append(f.systemPrompts, systemPrompt)
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

type fakeNotes struct {
	notes []notes.Note
	err   error
}

func (f fakeNotes) Search(context.Context, string, int) ([]notes.Note, error) {
	return f.notes, f.err
}

func newService(llm assistant.Completer, src assistant.NoteSource) *assistant.Service {
	return assistant.NewService(llm, src, slog.New(slog.NewTextHandler(&strings.Builder{}, nil)))
}

func TestAnswerUsesRetrievedContext(t *testing.T) {
	llm := &fakeCompleter{response: "An answer. [Notes: CSC231]"}
	svc := newService(llm, fakeNotes{notes: []notes.Note{
		{UnitCode: "CSC231", Content: "Entropy measures disorder."},
	}})

	got, err := svc.Answer(context.Background(), "what is entropy")
	require.NoError(t, err)
	assert.Equal(t, "An answer. [Notes: CSC231]", got)

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "Entropy measures disorder.")
	assert.Contains(t, llm.prompts[0], "Document Source: Notes_CSC231")
	assert.Contains(t, llm.systemPrompts[0], "study assistant")
}

func TestAnswerFallsBackWithoutContext(t *testing.T) {
	llm := &fakeCompleter{response: "General answer (source:internet)"}
	svc := newService(llm, fakeNotes{})

	got, err := svc.Answer(context.Background(), "what is entropy")
	require.NoError(t, err)
	assert.Equal(t, "General answer (source:internet)", got)
	assert.Contains(t, llm.systemPrompts[0], "general knowledge")
	assert.NotContains(t, llm.prompts[0], "CONTEXT:")
}

func TestAnswerFallsBackOnRetrievalError(t *testing.T) {
	llm := &fakeCompleter{response: "still answered"}
	svc := newService(llm, fakeNotes{err: errors.New("store offline")})

	got, err := svc.Answer(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "still answered", got)
}

func TestAnswerPropagatesLLMError(t *testing.T) {
	svc := newService(&fakeCompleter{err: errors.New("model down")}, fakeNotes{})

	_, err := svc.Answer(context.Background(), "anything")
	assert.Error(t, err)
}

func TestQuizPromptShape(t *testing.T) {
	llm := &fakeCompleter{response: "Question 1: ..."}
	svc := newService(llm, fakeNotes{notes: []notes.Note{
		{UnitCode: "CSC231", Content: "Cryptography basics."},
	}})

	_, err := svc.Quiz(context.Background(), "cryptography")
	require.NoError(t, err)

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "TOPIC REQUESTED BY USER: cryptography")
	assert.Contains(t, llm.systemPrompts[0], "exactly 5 multiple-choice questions")
	assert.Contains(t, llm.systemPrompts[0], `starting with "Answers:"`)
}
