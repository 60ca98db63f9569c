// Package format turns raw assistant text into HTML-safe, paragraph-structured
// markup for the chat view. The study API answers in loosely markdown-flavoured
// plain text, sometimes as a single run-on line; this package escapes it,
// re-introduces line structure around numbered items and answer headers, and
// converts the few inline markers the backend actually emits.
package format

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	// Line-break heuristics for run-on responses: numbered items ("3. "),
	// lettered MCQ options ("B. ") and answer headers that arrive mid-line.
	numberedItemRe = regexp.MustCompile(`\s+(\d+\.\s)`)
	optionRe       = regexp.MustCompile(`\s+([A-D]\.\s)`)
	// The optional ** prefix keeps a bolded marker's pair intact when the
	// break is inserted.
	answerCueRe = regexp.MustCompile(`\s*((?:\*\*)?\bAnswers?:)`)

	boldRe       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	emphasisRe   = regexp.MustCompile(`\*(.+?)\*`)
	answerHeadRe = regexp.MustCompile(`(?m)^(Answers?:)`)

	paragraphRe = regexp.MustCompile(`\n+`)
)

// AssistantHTML renders raw assistant text as safe HTML markup. It never fails;
// empty input yields an empty string. All five HTML-sensitive characters are
// escaped before any pattern matching, so backend text can never inject markup.
// Nested or overlapping emphasis markers are not markdown: whatever the
// non-greedy first-match pass produces is left as-is.
func AssistantHTML(raw string) string {
	if raw == "" {
		return ""
	}

	text := html.EscapeString(raw)

	text = numberedItemRe.ReplaceAllString(text, "\n$1")
	text = optionRe.ReplaceAllString(text, "\n$1")
	text = answerCueRe.ReplaceAllString(text, "\n$1")

	text = boldRe.ReplaceAllString(text, "<strong>$1</strong>")
	text = emphasisRe.ReplaceAllString(text, "<em>$1</em>")

	text = answerHeadRe.ReplaceAllString(text, "<strong>$1</strong>")

	var sb strings.Builder
	for _, para := range paragraphRe.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		fmt.Fprintf(&sb, "<p>%s</p>", para)
	}
	return sb.String()
}
