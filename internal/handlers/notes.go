package handlers

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/studymate-app/web-ui/internal/models"
)

type notesPageData struct {
	Notes []models.Note
}

type notePageData struct {
	Note    models.Note
	Content template.HTML
}

// HandleNotes renders the list of indexed study notes.
func (m Main) HandleNotes(w http.ResponseWriter, r *http.Request) {
	all, err := m.api.Notes(r.Context())
	if err != nil {
		m.logger.Error("Failed to list notes", slog.String(errLoggerKey, err.Error()))
		http.Error(w, "Failed to load notes", http.StatusInternalServerError)
		return
	}

	if err := m.templates.ExecuteTemplate(w, "notes.html", notesPageData{Notes: all}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HandleNote renders one note with its markdown content converted to HTML.
func (m Main) HandleNote(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/notes/")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	note, err := m.api.Note(r.Context(), id)
	if err != nil {
		m.logger.Error("Failed to fetch note",
			slog.String("id", id),
			slog.String(errLoggerKey, err.Error()))
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	if err := m.markdown.Convert([]byte(note.Content), &buf); err != nil {
		m.logger.Error("Failed to render note markdown",
			slog.String("id", id),
			slog.String(errLoggerKey, err.Error()))
		http.Error(w, "Failed to render note", http.StatusInternalServerError)
		return
	}

	data := notePageData{
		Note:    note,
		Content: template.HTML(buf.String()),
	}
	if err := m.templates.ExecuteTemplate(w, "note.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
