package pastpaper

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Question extraction tolerates the numbering styles that show up in OCR'd
// exam papers: "Question 1:", "Q1:", "1.", "1)" and "(1)", with leading
// whitespace allowed before the marker.
var (
	questionStartRe = regexp.MustCompile(`(?m)^[ \t]*(?:Q(?:uestion)?\s*)?(?:\((\d+)\)|(\d+)[.:)])[ \t]+`)
	leadingMarkerRe = regexp.MustCompile(`^\s*Question\s+\d+:\s*`)
	paragraphGapRe  = regexp.MustCompile(`\n\n+`)

	unitCodeRe = regexp.MustCompile(`\b([A-Z]{3}\d{3})\b`)
	yearRe     = regexp.MustCompile(`\b(20[0-3]\d)\b`)

	// A message matching any of these mid-session abandons the current paper
	// and starts a new one.
	newPaperPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(start|begin|go through|work through|practice).*(past paper|exam|test)`),
		regexp.MustCompile(`(?i)[A-Z]{3}\d{3}.*\d{4}`),
		regexp.MustCompile(`(?i)\d{4}.*(past paper|exam)`),
	}
)

// extractQuestions segments raw paper content into individual questions,
// normalized to "Question N: body" and ordered by question number. When no
// numbering markers are found at all it falls back to paragraph splitting.
func extractQuestions(content string) []string {
	markers := questionStartRe.FindAllStringSubmatchIndex(content, -1)

	type numbered struct {
		num  int
		text string
	}
	var extracted []numbered
	for i, m := range markers {
		end := len(content)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}

		numStart, numEnd := m[2], m[3]
		if numStart < 0 {
			numStart, numEnd = m[4], m[5]
		}
		num, err := strconv.Atoi(content[numStart:numEnd])
		if err != nil {
			continue
		}

		text := strings.TrimSpace(content[m[1]:end])
		if len(text) > 3 {
			extracted = append(extracted, numbered{num: num, text: text})
		}
	}

	var questions []string
	sort.SliceStable(extracted, func(i, j int) bool { return extracted[i].num < extracted[j].num })
	for _, q := range extracted {
		questions = append(questions, fmt.Sprintf("Question %d: %s", q.num, q.text))
	}

	if len(questions) == 0 {
		for i, section := range paragraphGapRe.Split(content, -1) {
			section = strings.TrimSpace(section)
			if len(section) > 20 {
				questions = append(questions, fmt.Sprintf("Question %d: %s", i+1, section))
			}
		}
	}

	return questions
}

// formatBatch renders a batch of questions for display, one bolded
// "**Question N:**" block per question separated by a dashed rule.
func formatBatch(questions []string, startNum int) string {
	separator := "\n" + strings.Repeat("-", 50) + "\n"

	blocks := make([]string, len(questions))
	for offset, raw := range questions {
		num := startNum + offset
		cleaned := strings.TrimSpace(leadingMarkerRe.ReplaceAllString(raw, ""))
		blocks[offset] = fmt.Sprintf("**Question %d:**\n%s\n", num, cleaned)
	}

	return strings.Join(blocks, separator)
}

// extractPaperDetails pulls a unit code (e.g. CSC231) and a four-digit year
// out of free text. Either may be absent.
func extractPaperDetails(text string) (unitCode, year string) {
	if m := unitCodeRe.FindStringSubmatch(strings.ToUpper(text)); m != nil {
		unitCode = m[1]
	}
	if m := yearRe.FindStringSubmatch(text); m != nil {
		year = m[1]
	}
	return unitCode, year
}

// Free-text intent within an active paper session.
type sessionIntent struct {
	wantsNext      bool
	wantsClarify   bool
	hasAnswer      bool
	wantsStop      bool
	questionNum    int
	answerText     string
	hasQuestionNum bool
}

var (
	nextRe        = regexp.MustCompile(`(?i)\b(next|continue|more|yes|proceed)\b`)
	clarifyRe     = regexp.MustCompile(`(?i)\b(clarify|explain|help|confused|understand)\b`)
	answerCueRe   = regexp.MustCompile(`(?i)\b(answer|my answer|i think|solution)\b`)
	stopRe        = regexp.MustCompile(`(?i)\b(stop|quit|exit|done|finish)\b`)
	questionNumRe = regexp.MustCompile(`(?i)question\s*(\d+)`)

	// Checked in order: the long form wins so "my answer for question 1 is X"
	// captures only X.
	answerForQuestionRe = regexp.MustCompile(`(?i)answer\s+for\s+question\s+\d+\s+is\s*(.+)`)
	answerTextRe        = regexp.MustCompile(`(?i)(?:answer\s+is|my\s+answer\s+is|i\s+think\s+it's|solution:)\s*(.+)`)
)

func parseSessionIntent(input string) sessionIntent {
	intent := sessionIntent{
		wantsNext:    nextRe.MatchString(input),
		wantsClarify: clarifyRe.MatchString(input),
		hasAnswer:    answerCueRe.MatchString(input),
		wantsStop:    stopRe.MatchString(input),
	}

	if m := questionNumRe.FindStringSubmatch(input); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			intent.questionNum = n
			intent.hasQuestionNum = true
		}
	}
	if intent.hasAnswer {
		if m := answerForQuestionRe.FindStringSubmatch(input); m != nil {
			intent.answerText = strings.TrimSpace(m[1])
		} else if m := answerTextRe.FindStringSubmatch(input); m != nil {
			intent.answerText = strings.TrimSpace(m[1])
		}
	}
	return intent
}
