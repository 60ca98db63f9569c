package handlers

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/studymate-app/web-ui/internal/format"
	"github.com/studymate-app/web-ui/internal/models"
	"github.com/studymate-app/web-ui/internal/paper"
)

// Fixed texts surfaced when a paper control call fails. The failure itself is
// never shown to the student.
const (
	failedContinue = "Failed to load the next questions. Please try again."
	failedClarify  = "Failed to get a clarification. Please try again."
	failedAnswer   = "Failed to submit your answer. Please try again."
)

type paperBatchData struct {
	Message  template.HTML
	Blocks   []paper.QuestionBlock
	Complete bool
}

// HandlePaperContinue serves the next batch of questions for the current
// session. The fragment it returns carries a completion flag so the client can
// retire the pagination control when the paper runs out.
func (m Main) HandlePaperContinue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	text, err := m.api.ContinuePaper(r.Context(), m.sessionID())
	if err != nil {
		m.logger.Error("Paper continue failed", slog.String(errLoggerKey, err.Error()))
		m.renderAssistantFragment(w, failedContinue)
		return
	}

	content := format.AssistantHTML(text)
	m.appendMessage(models.RoleAssistant, content)

	err = m.templates.ExecuteTemplate(w, "paper_batch", paperBatchData{
		Message:  template.HTML(content),
		Blocks:   paper.Parse(text),
		Complete: paper.SessionComplete(text),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HandlePaperClarify asks the backend to explain one question and returns the
// explanation as a chat message fragment.
func (m Main) HandlePaperClarify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	questionNumber, err := strconv.Atoi(r.FormValue("question_number"))
	if err != nil || questionNumber < 1 {
		http.Error(w, "Valid question number is required", http.StatusBadRequest)
		return
	}

	text, err := m.api.ClarifyQuestion(r.Context(), m.sessionID(), questionNumber)
	if err != nil {
		m.logger.Error("Clarification failed",
			slog.Int("questionNumber", questionNumber),
			slog.String(errLoggerKey, err.Error()))
		m.renderAssistantFragment(w, failedClarify)
		return
	}

	m.renderAssistantFragment(w, format.AssistantHTML(text))
}

// HandlePaperAnswer submits the student's free-text answer for one question
// and returns the grading feedback as a chat message fragment. A blank answer
// is a no-op.
func (m Main) HandlePaperAnswer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	questionNumber, err := strconv.Atoi(r.FormValue("question_number"))
	if err != nil || questionNumber < 1 {
		http.Error(w, "Valid question number is required", http.StatusBadRequest)
		return
	}

	answer := r.FormValue("answer")
	if strings.TrimSpace(answer) == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	text, err := m.api.SubmitAnswer(r.Context(), m.sessionID(), questionNumber, answer)
	if err != nil {
		m.logger.Error("Answer submission failed",
			slog.Int("questionNumber", questionNumber),
			slog.String(errLoggerKey, err.Error()))
		m.renderAssistantFragment(w, failedAnswer)
		return
	}

	m.renderAssistantFragment(w, format.AssistantHTML(text))
}

// renderAssistantFragment appends an assistant message to the log and writes
// its rendered form directly to the response. Controls that fetch fragments
// re-enable themselves once the response arrives, whatever it says.
func (m Main) renderAssistantFragment(w http.ResponseWriter, content string) {
	msg := m.appendMessage(models.RoleAssistant, content)
	if err := m.templates.ExecuteTemplate(w, "chat_message", viewMessage(msg)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
