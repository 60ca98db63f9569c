package models

// Note is one piece of indexed study material as exposed by the study API.
// Content is only populated when a single note is fetched.
type Note struct {
	ID       string `json:"id"`
	UnitCode string `json:"unitCode"`
	Topic    string `json:"topic"`
	Year     string `json:"year,omitempty"`
	Content  string `json:"content,omitempty"`
}
