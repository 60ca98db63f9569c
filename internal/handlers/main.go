package handlers

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"sync"
	"time"

	"github.com/tmaxmax/go-sse"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting"

	studymateui "github.com/studymate-app/web-ui"
	"github.com/studymate-app/web-ui/internal/models"
)

// StudyAPI is the backend surface the UI talks to. Exactly one of these calls
// is made per user submission.
type StudyAPI interface {
	StartPaper(ctx context.Context, sessionID, message string) (string, error)
	StartPaperByUnit(ctx context.Context, sessionID, unitCode, year string) (string, error)
	ContinuePaper(ctx context.Context, sessionID string) (string, error)
	ClarifyQuestion(ctx context.Context, sessionID string, questionNumber int) (string, error)
	SubmitAnswer(ctx context.Context, sessionID string, questionNumber int, answer string) (string, error)
	GenerateQuiz(ctx context.Context, sessionID, topic string) (string, error)
	Ask(ctx context.Context, sessionID, message string) (string, error)
	Notes(ctx context.Context) ([]models.Note, error)
	Note(ctx context.Context, id string) (models.Note, error)
}

// Main handles the core functionality of the study chat application, managing
// server-sent events, HTML templates, and the single conversation session.
type Main struct {
	sseSrv    *sse.Server
	templates *template.Template
	markdown  goldmark.Markdown

	api StudyAPI

	// mu guards the session and the in-memory chat log. The log lives only
	// for the lifetime of the session.
	mu       *sync.Mutex
	session  *models.Session
	messages *[]models.Message

	logger *slog.Logger
}

const errLoggerKey = "err"

const messagesSSETopic = "messages"

// SSE event types for real-time updates.
var (
	messagesSSEType  = sse.Type("messages")
	paperSSEType     = sse.Type("paper")
	clearChatSSEType = sse.Type("clearChat")
)

// chatMessage is the template view of one chat log entry. Message content is
// pre-rendered HTML: assistant text goes through the formatter, user text is
// escaped verbatim.
type chatMessage struct {
	ID        string
	Role      models.Role
	Content   template.HTML
	Timestamp time.Time
}

func viewMessage(msg models.Message) chatMessage {
	return chatMessage{
		ID:        msg.ID,
		Role:      msg.Role,
		Content:   template.HTML(msg.Content),
		Timestamp: msg.Timestamp,
	}
}

// NewMain creates a new Main instance backed by the given study API client.
// It parses the HTML templates from the embedded filesystem and configures the
// SSE server so every client receives chat and paper updates.
func NewMain(api StudyAPI, logger *slog.Logger) (Main, error) {
	// Layout, pages, and partial views live in separate directories.
	tmpl, err := template.ParseFS(
		studymateui.TemplateFS,
		"templates/layout/*.html",
		"templates/pages/*.html",
		"templates/partials/*.html",
	)
	if err != nil {
		return Main{}, fmt.Errorf("failed to parse templates: %w", err)
	}

	sess := models.NewSession()

	return Main{
		sseSrv: &sse.Server{
			OnSession: func(s *sse.Session) (sse.Subscription, bool) {
				return sse.Subscription{
					Client:      s,
					LastEventID: s.LastEventID,
					Topics:      []string{sse.DefaultTopic, messagesSSETopic},
				}, true
			},
		},
		templates: tmpl,
		markdown: goldmark.New(
			goldmark.WithExtensions(
				highlighting.NewHighlighting(highlighting.WithStyle("monokai")),
			),
		),
		api:      api,
		mu:       &sync.Mutex{},
		session:  &sess,
		messages: &[]models.Message{},
		logger:   logger.With(slog.String("module", "handlers")),
	}, nil
}

func (m Main) sessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.ID
}

func (m Main) appendMessage(role models.Role, content string) models.Message {
	msg := models.NewMessage(role, content)
	m.mu.Lock()
	*m.messages = append(*m.messages, msg)
	m.mu.Unlock()
	return msg
}

// publishAssistant appends an assistant message to the log and pushes its
// rendered form to all connected clients.
func (m Main) publishAssistant(content string) {
	msg := m.appendMessage(models.RoleAssistant, content)

	var sb bytes.Buffer
	if err := m.templates.ExecuteTemplate(&sb, "chat_message", viewMessage(msg)); err != nil {
		m.logger.Error("Failed to render chat message", slog.String(errLoggerKey, err.Error()))
		return
	}

	e := &sse.Message{Type: messagesSSEType}
	e.AppendData(sb.String())
	if err := m.sseSrv.Publish(e, messagesSSETopic); err != nil {
		m.logger.Error("Failed to publish message", slog.String(errLoggerKey, err.Error()))
	}
}

// Shutdown gracefully terminates the SSE server. It broadcasts a close
// message to all connected clients and waits up to 5 seconds for connections
// to terminate.
func (m Main) Shutdown(ctx context.Context) error {
	e := &sse.Message{Type: sse.Type("closeChat")}
	// The SSE spec requires data on every event.
	e.AppendData("bye")
	_ = m.sseSrv.Publish(e)

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	return m.sseSrv.Shutdown(ctx)
}
