// Package assistant implements the question-answering and quiz-generation
// chains. Both prefer grounding their output in retrieved study notes and
// fall back to the model's general knowledge when the knowledge base has
// nothing relevant.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/studymate-app/web-ui/internal/notes"
)

// Completer produces a full LLM response for a single prompt.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// NoteSource retrieves study notes relevant to a query.
type NoteSource interface {
	Search(ctx context.Context, query string, k int) ([]notes.Note, error)
}

// Service runs the QA and quiz chains.
type Service struct {
	llm   Completer
	notes NoteSource

	logger *slog.Logger
}

// NewService creates an assistant service backed by the given LLM and note
// source.
func NewService(llm Completer, noteSource NoteSource, logger *slog.Logger) *Service {
	return &Service{
		llm:    llm,
		notes:  noteSource,
		logger: logger.With(slog.String("module", "assistant")),
	}
}

const retrievalK = 4

const qaSystemPrompt = `You are a study assistant. Prefer to answer using ONLY the provided context (student notes) when it is sufficient.
If the context is missing, insufficient, or not relevant to the question, you MUST still answer using general knowledge.

INSTRUCTIONS:
1. Answer concisely and accurately.
2. If the answer can be derived from the context, include citations by appending the source tag from the context (e.g. [Notes: CSC231]). Only cite chunks you actually used.
3. If the context does not clearly contain the necessary information, do NOT refuse. Answer using general knowledge and append: (source:internet)
4. Do NOT say "I am sorry" or that the notes do not contain the information. Always provide the best possible answer.
5. Do not mix sources in a single answer. Choose either notes citations OR (source:internet).`

const qaFallbackSystemPrompt = `The student's question is not covered by their study material, so answer from general knowledge.
Provide a clear, concise answer. If there is uncertainty or multiple interpretations, note them briefly.
Do NOT refuse. Do NOT say the notes do not contain the information. Always answer helpfully.
At the end, append: (source:internet)`

const quizFormat = `2. Each question must have 4 options (A, B, C, D).
3. Clearly indicate the correct answer for each question at the end of the response.
4. Output format MUST be:
   - For each question: a new line starting with "Question n:"
   - Each option on its own line, like: "A. ...", "B. ..." etc
   - After all 5 questions, include a section starting with "Answers:" followed by "1) X" per line`

const quizSystemPrompt = `You are an expert academic quiz generator. Prefer to base questions on the provided study material. If the context is sparse or lacks detail, you MUST still produce a high-quality quiz by supplementing with general knowledge. Do not refuse.

INSTRUCTIONS:
1. Generate exactly 5 multiple-choice questions (MCQs) about the user's requested topic.
` + quizFormat

const quizFallbackSystemPrompt = `You are an expert academic quiz generator. The knowledge base returned no context. Create a high-quality quiz using general knowledge.

INSTRUCTIONS:
1. Generate exactly 5 multiple-choice questions (MCQs) about the user's requested topic.
` + quizFormat

// Answer answers a free-text question, grounded in retrieved notes when any
// match.
func (s *Service) Answer(ctx context.Context, question string) (string, error) {
	docs := s.retrieve(ctx, question)

	if len(docs) == 0 {
		answer, err := s.llm.Complete(ctx, qaFallbackSystemPrompt,
			fmt.Sprintf("QUESTION: %s\nANSWER:", question))
		if err != nil {
			return "", fmt.Errorf("failed to answer question: %w", err)
		}
		return answer, nil
	}

	prompt := fmt.Sprintf("CONTEXT:\n---\n%s\n---\nQUESTION: %s\nANSWER:", formatDocs(docs), question)
	answer, err := s.llm.Complete(ctx, qaSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to answer question: %w", err)
	}
	return answer, nil
}

// Quiz generates a five-question multiple-choice quiz on the topic, grounded
// in retrieved notes when any match.
func (s *Service) Quiz(ctx context.Context, topic string) (string, error) {
	docs := s.retrieve(ctx, topic)

	if len(docs) == 0 {
		quiz, err := s.llm.Complete(ctx, quizFallbackSystemPrompt,
			fmt.Sprintf("TOPIC REQUESTED BY USER: %s", topic))
		if err != nil {
			return "", fmt.Errorf("failed to generate quiz: %w", err)
		}
		return quiz, nil
	}

	prompt := fmt.Sprintf("CONTEXT:\n---\n%s\n---\nTOPIC REQUESTED BY USER: %s", formatDocs(docs), topic)
	quiz, err := s.llm.Complete(ctx, quizSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate quiz: %w", err)
	}
	return quiz, nil
}

// retrieve never fails the chain: a broken knowledge base degrades to the
// general-knowledge fallback.
func (s *Service) retrieve(ctx context.Context, query string) []notes.Note {
	docs, err := s.notes.Search(ctx, query, retrievalK)
	if err != nil {
		s.logger.Error("Note retrieval failed", slog.String("err", err.Error()))
		return nil
	}
	return docs
}

func formatDocs(docs []notes.Note) string {
	parts := make([]string, len(docs))
	for i, doc := range docs {
		parts[i] = fmt.Sprintf("Document Source: Notes_%s\nContent: %s", doc.UnitCode, doc.Content)
	}
	return strings.Join(parts, "\n\n")
}
