// Package paper splits study API past-paper responses into per-question
// blocks. The backend formats each question as a "**Question N:**" segment,
// optionally followed by a "**Answer:**" section; this is a textual
// convention, not a grammar, so parsing is best-effort: missing or malformed
// markers degrade to fewer blocks or blank fields, never to an error.
package paper

import (
	"regexp"
	"strconv"
	"strings"
)

// QuestionBlock is one parsed question segment. It is derived on every render
// and never stored.
type QuestionBlock struct {
	// Number is the parsed question number, or zero when the marker carried
	// none; zero renders as a blank label.
	Number int
	// Body is the question text with the leading marker and any answer
	// section stripped. Answers are supplied by the student, not shown.
	Body string
	// HasAnswer reports whether the source segment carried an answer marker.
	HasAnswer bool
}

var (
	questionMarkerRe = regexp.MustCompile(`\*\*Question\s*(\d*)\s*:\*\*`)
	answerMarkerRe   = regexp.MustCompile(`\*\*Answers?:\*\*`)
	separatorLineRe  = regexp.MustCompile(`(?m)^\s*-{3,}\s*$`)
	completionRe     = regexp.MustCompile(`(?i)final questions|completed all questions`)
)

// Parse scans blob for non-overlapping question segments, each starting at a
// question marker and extending to just before the next marker or end of
// input. A blob with no markers yields zero blocks.
func Parse(blob string) []QuestionBlock {
	markers := questionMarkerRe.FindAllStringSubmatchIndex(blob, -1)
	if len(markers) == 0 {
		return nil
	}

	blocks := make([]QuestionBlock, 0, len(markers))
	for i, m := range markers {
		end := len(blob)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}

		number := 0
		if m[2] >= 0 {
			// Unparsable numbers keep the zero value and render blank.
			number, _ = strconv.Atoi(blob[m[2]:m[3]])
		}

		body := blob[m[1]:end]
		hasAnswer := false
		if loc := answerMarkerRe.FindStringIndex(body); loc != nil {
			body = body[:loc[0]]
			hasAnswer = true
		}
		body = strings.TrimSpace(separatorLineRe.ReplaceAllString(body, ""))

		blocks = append(blocks, QuestionBlock{
			Number:    number,
			Body:      body,
			HasAnswer: hasAnswer,
		})
	}
	return blocks
}

// SessionComplete reports whether a continue response signals the end of the
// paper, which disables the next-batch control.
func SessionComplete(text string) bool {
	return completionRe.MatchString(text)
}
