package handlers

import (
	"net/http"
)

type homePageData struct {
	SessionID string
	Messages  []chatMessage
}

// HandleHome renders the chat page with the current session's conversation.
func (m Main) HandleHome(w http.ResponseWriter, _ *http.Request) {
	m.mu.Lock()
	data := homePageData{SessionID: m.session.ID}
	for _, msg := range *m.messages {
		data.Messages = append(data.Messages, viewMessage(msg))
	}
	m.mu.Unlock()

	if err := m.templates.ExecuteTemplate(w, "home.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
