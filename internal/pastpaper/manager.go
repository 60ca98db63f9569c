// Package pastpaper walks students through past exam papers: it extracts
// questions from indexed paper content, serves them in batches of five, and
// uses an LLM for clarifications and answer feedback. Session state is held
// per session identifier and lives only in memory.
package pastpaper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/studymate-app/web-ui/internal/notes"
)

// Completer produces a full LLM response for a single prompt.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// PaperSource looks up indexed past papers.
type PaperSource interface {
	FindPaper(ctx context.Context, unitCode, year string) (notes.Paper, error)
}

// Manager owns all past-paper sessions and implements the conversational flow
// around them.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session

	llm    Completer
	papers PaperSource

	logger *slog.Logger
}

// NewManager creates a Manager backed by the given LLM and paper source.
func NewManager(llm Completer, papers PaperSource, logger *slog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*session),
		llm:      llm,
		papers:   papers,
		logger:   logger.With(slog.String("module", "pastpaper")),
	}
}

func (m *Manager) session(sessionID string) *session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		s = &session{}
		m.sessions[sessionID] = s
	}
	return s
}

const clarifySystemPrompt = `You are a patient tutor. Provide a clear, step-by-step explanation and a full worked solution for the given past paper question using your subject knowledge.
- Explain key concepts succinctly
- Break down the approach and show the solution
- Highlight common pitfalls or misconceptions
- Be precise and exam-ready`

const feedbackSystemPrompt = `You are grading a student's short answer using your subject knowledge. Be fair, constructive, and concise.
Provide:
1) A brief verdict (Correct, Partially correct, Incorrect)
2) Key points they got right or missed
3) A short model answer (2-4 sentences)
4) One suggestion for improvement`

// HandleRequest is the free-text entry point for past-paper interaction. A
// request that looks like a new paper reference starts a fresh paper;
// otherwise the input is interpreted against the ongoing session (next batch,
// clarification, answer attempt, or stop).
func (m *Manager) HandleRequest(ctx context.Context, sessionID, input string) (string, error) {
	sess := m.session(sessionID)

	m.mu.Lock()
	active := sess.active
	m.mu.Unlock()

	if !active || isNewPaperRequest(input) {
		return m.startNewPaper(ctx, sess, input)
	}

	intent := parseSessionIntent(input)

	switch {
	case intent.wantsStop:
		m.mu.Lock()
		sess.reset()
		m.mu.Unlock()
		return "Ending past paper session. Good luck with your studies! Feel free to ask any questions or start another paper.", nil
	case intent.wantsNext:
		return m.showNextBatch(sess), nil
	case intent.wantsClarify:
		if !intent.hasQuestionNum {
			return "Please specify a valid question number for clarification.", nil
		}
		return m.Clarify(ctx, sessionID, intent.questionNum)
	case intent.hasAnswer:
		if !intent.hasQuestionNum || intent.answerText == "" {
			return "Please provide both the question number and your answer.", nil
		}
		return m.Answer(ctx, sessionID, intent.questionNum, intent.answerText)
	default:
		// Anything else during an active session reads as "keep going".
		return m.showNextBatch(sess), nil
	}
}

// Continue serves the next batch of questions for the session.
func (m *Manager) Continue(_ context.Context, sessionID string) (string, error) {
	return m.showNextBatch(m.session(sessionID)), nil
}

func isNewPaperRequest(input string) bool {
	for _, re := range newPaperPatterns {
		if re.MatchString(input) {
			return true
		}
	}
	return false
}

func (m *Manager) startNewPaper(ctx context.Context, sess *session, input string) (string, error) {
	unitCode, year := extractPaperDetails(input)

	p, err := m.papers.FindPaper(ctx, unitCode, year)
	if err != nil {
		if errors.Is(err, notes.ErrNotFound) {
			return fmt.Sprintf(
				"I couldn't find a past paper matching your criteria (Unit: %s, Year: %s). "+
					"Please check the unit code and year, or try being more specific.",
				orAny(unitCode), orAny(year)), nil
		}
		return "", fmt.Errorf("failed to look up paper: %w", err)
	}

	questions := extractQuestions(p.Content)
	if len(questions) == 0 {
		return "I found the past paper but couldn't extract the questions properly. " +
			"The document might be in an unexpected format.", nil
	}

	m.mu.Lock()
	sess.start(coalesce(p.UnitCode, unitCode, "Unknown"), coalesce(p.Year, year, "Unknown"), questions)
	batch, hasMore := sess.nextBatch()
	unit, yr, total := sess.unitCode, sess.year, len(sess.questions)
	m.mu.Unlock()

	m.logger.Info("Started past paper",
		slog.String("unitCode", unit),
		slog.String("year", yr),
		slog.Int("questions", total))

	rule := strings.Repeat("-", 50)
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Starting %s (%s) Past Paper**\n", unit, yr)
	fmt.Fprintf(&sb, "Total questions: %d\n%s\n", total, rule)
	sb.WriteString(formatBatch(batch, 1))
	sb.WriteString("\n" + rule + "\n")

	if hasMore {
		sb.WriteString("\n**What would you like to do?**\n")
		sb.WriteString("- Type 'next' or 'continue' to see the next 5 questions\n")
		sb.WriteString("- Answer a question (e.g. 'My answer for question 1 is ...')\n")
		sb.WriteString("- Ask for clarification (e.g. 'Can you explain question 3?')\n")
		sb.WriteString("- Type 'stop' to end the session")
	} else {
		sb.WriteString("\n**That's all the questions!**\n")
		sb.WriteString("Feel free to attempt any question or ask for help to answer a question.")
	}

	return sb.String(), nil
}

func (m *Manager) showNextBatch(sess *session) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !sess.active {
		return "No active past paper session. Would you like to start one? " +
			"Just tell me which paper you'd like to go through."
	}

	batch, hasMore := sess.nextBatch()
	if len(batch) == 0 {
		sess.reset()
		return "You've completed all questions in this past paper! Great job!\n" +
			"Would you like to review any answers or start another paper?"
	}

	startNum := (sess.currentBatch-1)*batchSize + 1

	rule := strings.Repeat("-", 50)
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Continuing %s (%s) - %s**\n%s\n", sess.unitCode, sess.year, sess.progress(), rule)
	sb.WriteString(formatBatch(batch, startNum))
	sb.WriteString("\n" + rule + "\n")

	if hasMore {
		sb.WriteString("\nReady for more? Type 'next' to continue, or work on these questions first.")
	} else {
		sb.WriteString("\n**These are the final questions!**")
	}
	return sb.String()
}

// Clarify produces a worked explanation for one question of the active paper.
func (m *Manager) Clarify(ctx context.Context, sessionID string, questionNum int) (string, error) {
	sess := m.session(sessionID)

	m.mu.Lock()
	if !sess.active {
		m.mu.Unlock()
		return "No active past paper session. Please start one first.", nil
	}
	if questionNum < 1 || questionNum > len(sess.questions) {
		m.mu.Unlock()
		return "Please specify a valid question number for clarification.", nil
	}
	question := sess.questions[questionNum-1]
	m.mu.Unlock()

	prompt := fmt.Sprintf("QUESTION:\n%s\n\nEXPLANATION AND FULL SOLUTION:", question)
	clarification, err := m.llm.Complete(ctx, clarifySystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate clarification: %w", err)
	}

	return fmt.Sprintf("**Clarification and Solution for Question %d:**\n\n%s\n\nWould you like to attempt this question now?",
		questionNum, clarification), nil
}

// Answer records the student's answer for one question and returns grading
// feedback.
func (m *Manager) Answer(ctx context.Context, sessionID string, questionNum int, answer string) (string, error) {
	sess := m.session(sessionID)

	m.mu.Lock()
	if !sess.active {
		m.mu.Unlock()
		return "No active past paper session. Please start one first.", nil
	}
	if questionNum < 1 || questionNum > len(sess.questions) {
		m.mu.Unlock()
		return "Please provide both the question number and your answer.", nil
	}
	sess.saveAnswer(questionNum, answer)
	question := sess.questions[questionNum-1]
	m.mu.Unlock()

	prompt := fmt.Sprintf("QUESTION:\n%s\n\nSTUDENT ANSWER:\n%s\n\nFEEDBACK:", question, answer)
	feedback, err := m.llm.Complete(ctx, feedbackSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate feedback: %w", err)
	}

	return fmt.Sprintf("**Your answer for Question %d:**\n%s\n\n**Feedback:**\n%s\n\nAnswer recorded. Would you like to continue with more questions?",
		questionNum, answer, feedback), nil
}

func orAny(s string) string {
	if s == "" {
		return "Any"
	}
	return s
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
