// Package intent decides which study API flow a free-text user message belongs
// to. The heuristics are ordered: the past-paper check runs first, then the
// quiz check, and anything else falls through to plain question-answering.
// First matching heuristic wins; there is no fallback re-evaluation.
package intent

import (
	"regexp"
	"strings"
)

// Kind identifies one of the three backend flows.
type Kind string

const (
	// KindPastPaper routes to the past-paper practice flow.
	KindPastPaper Kind = "pastpaper"
	// KindQuiz routes to quiz generation.
	KindQuiz Kind = "quiz"
	// KindQA routes to plain question answering.
	KindQA Kind = "qa"
)

// Request is the outcome of classifying one user message.
type Request struct {
	Kind Kind
	// Topic is filled for quiz requests: the "on/about X" capture if present,
	// otherwise the whole message.
	Topic string
	// UnitCode and Year are filled for past-paper requests when the message
	// names them, e.g. "go through CSC231 2024 past paper".
	UnitCode string
	Year     string
}

var (
	paperActionRe = regexp.MustCompile(`(?i)\b(start|begin|go through|work through|practice|practise)\b.*\b(past\s*papers?|exams?|papers?)\b`)
	unitCodeRe    = regexp.MustCompile(`(?i)\b[A-Za-z]{3}\d{3}\b`)
	paperYearRe   = regexp.MustCompile(`\b20\d{2}\b`)

	quizTopicRe   = regexp.MustCompile(`(?i)\b(?:quiz|test)\s+me(?:\s+(?:on|about)\s+(.+))?`)
	quizPhrasesRe = regexp.MustCompile(`(?i)\b(mcqs?|multiple\s+choice|generate\s+a\s+quiz|ask\s+me\s+questions)\b`)
)

// Classify inspects a trimmed, non-empty user message and selects exactly one
// backend flow.
func Classify(text string) Request {
	if isPastPaper(text) {
		return Request{
			Kind:     KindPastPaper,
			UnitCode: strings.ToUpper(unitCodeRe.FindString(text)),
			Year:     paperYearRe.FindString(text),
		}
	}
	if topic, ok := quizTopic(text); ok {
		return Request{Kind: KindQuiz, Topic: topic}
	}
	return Request{Kind: KindQA}
}

func isPastPaper(text string) bool {
	if paperActionRe.MatchString(text) {
		return true
	}
	// A unit code together with a recent year reads as a paper reference even
	// without an action verb, e.g. "CSC231 2024".
	if unitCodeRe.MatchString(text) && paperYearRe.MatchString(text) {
		return true
	}
	return strings.Contains(strings.ToLower(text), "past paper")
}

func quizTopic(text string) (string, bool) {
	if m := quizTopicRe.FindStringSubmatch(text); m != nil {
		topic := strings.TrimSpace(m[1])
		if topic == "" {
			topic = text
		}
		return topic, true
	}
	if quizPhrasesRe.MatchString(text) {
		return text, true
	}
	return "", false
}
