package handlers

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tmaxmax/go-sse"

	"github.com/studymate-app/web-ui/internal/format"
	"github.com/studymate-app/web-ui/internal/intent"
	"github.com/studymate-app/web-ui/internal/models"
	"github.com/studymate-app/web-ui/internal/paper"
)

const somethingWentWrong = "Something went wrong. Please try again."

// HandleChat processes a user submission. The user's message is rendered back
// immediately; the backend call it triggers runs asynchronously and its result
// arrives as an assistant message over SSE. Exactly one backend call is made
// per submission, chosen by the intent router.
func (m Main) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		m.logger.Error("Method not allowed", slog.String("method", r.Method))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	msg := strings.TrimSpace(r.FormValue("message"))
	if msg == "" {
		m.logger.Error("Message is required")
		http.Error(w, "Message is required", http.StatusBadRequest)
		return
	}

	userMsg := m.appendMessage(models.RoleUser, template.HTMLEscapeString(msg))

	go m.dispatch(msg)

	if err := m.templates.ExecuteTemplate(w, "chat_message", viewMessage(userMsg)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// dispatch routes the message to exactly one backend operation. Failures never
// escape: they surface as a fixed assistant message.
func (m Main) dispatch(msg string) {
	ctx := context.Background()
	sessionID := m.sessionID()

	req := intent.Classify(msg)
	switch req.Kind {
	case intent.KindPastPaper:
		// A message naming both a unit code and a year uses the structured
		// start; anything vaguer goes as free text for the backend to parse.
		var text string
		var err error
		if req.UnitCode != "" && req.Year != "" {
			text, err = m.api.StartPaperByUnit(ctx, sessionID, req.UnitCode, req.Year)
		} else {
			text, err = m.api.StartPaper(ctx, sessionID, msg)
		}
		if err != nil {
			m.logger.Error("Past paper request failed", slog.String(errLoggerKey, err.Error()))
			m.publishAssistant(somethingWentWrong)
			return
		}
		m.publishPaper(text)
	case intent.KindQuiz:
		text, err := m.api.GenerateQuiz(ctx, sessionID, req.Topic)
		if err != nil {
			m.logger.Error("Quiz request failed", slog.String(errLoggerKey, err.Error()))
			m.publishAssistant(somethingWentWrong)
			return
		}
		m.publishAssistant(format.AssistantHTML(text))
	default:
		text, err := m.api.Ask(ctx, sessionID, msg)
		if err != nil {
			m.logger.Error("Question request failed", slog.String(errLoggerKey, err.Error()))
			m.publishAssistant(somethingWentWrong)
			return
		}
		m.publishAssistant(format.AssistantHTML(text))
	}
}

// publishPaper pushes a past-paper response: the assistant message first, then
// the structured question blocks for the interactive paper panel.
func (m Main) publishPaper(text string) {
	m.publishAssistant(format.AssistantHTML(text))

	var sb bytes.Buffer
	err := m.templates.ExecuteTemplate(&sb, "paper_questions", paperBatchData{
		Blocks:   paper.Parse(text),
		Complete: paper.SessionComplete(text),
	})
	if err != nil {
		m.logger.Error("Failed to render paper questions", slog.String(errLoggerKey, err.Error()))
		return
	}

	e := &sse.Message{Type: paperSSEType}
	e.AppendData(sb.String())
	if err := m.sseSrv.Publish(e, messagesSSETopic); err != nil {
		m.logger.Error("Failed to publish paper questions", slog.String(errLoggerKey, err.Error()))
	}
}

// HandleNewSession discards the conversation wholesale: fresh session
// identifier, empty chat log, and a clear signal to all connected clients.
func (m Main) HandleNewSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	m.mu.Lock()
	*m.session = models.NewSession()
	*m.messages = nil
	sessionID := m.session.ID
	m.mu.Unlock()

	m.logger.Info("Started new session", slog.String("sessionID", sessionID))

	e := &sse.Message{Type: clearChatSSEType}
	e.AppendData("clear")
	if err := m.sseSrv.Publish(e, messagesSSETopic); err != nil {
		m.logger.Error("Failed to publish clear chat", slog.String(errLoggerKey, err.Error()))
	}

	w.WriteHeader(http.StatusOK)
}

// HandleSSE serves the event stream that delivers assistant messages and paper
// updates to the browser.
func (m Main) HandleSSE(w http.ResponseWriter, r *http.Request) {
	m.sseSrv.ServeHTTP(w, r)
}
