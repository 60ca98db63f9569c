package format_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymate-app/web-ui/internal/format"
)

func TestAssistantHTMLEmpty(t *testing.T) {
	assert.Equal(t, "", format.AssistantHTML(""))
}

func TestAssistantHTMLEscapesSensitiveCharacters(t *testing.T) {
	out := format.AssistantHTML(`a & b < c > d "e" 'f'`)

	assert.NotContains(t, out, "<c")
	assert.NotContains(t, out, `"e"`)
	assert.NotContains(t, out, "'f'")
	assert.Contains(t, out, "&amp;")
	assert.Contains(t, out, "&lt;")
	assert.Contains(t, out, "&gt;")
	assert.Contains(t, out, "&#34;")
	assert.Contains(t, out, "&#39;")
}

func TestAssistantHTMLScriptInjection(t *testing.T) {
	out := format.AssistantHTML(`<script>alert("hi")</script>`)
	assert.NotContains(t, out, "<script>")
}

func TestAssistantHTMLRunOnQuizLine(t *testing.T) {
	out := format.AssistantHTML("1. What is X? A. foo B. bar Answer: A")

	paras := strings.Count(out, "<p>")
	require.Equal(t, 4, paras, "expected one paragraph per inserted break, got %q", out)

	// Paragraph order must follow the source text.
	idxQ := strings.Index(out, "1. What is X?")
	idxA := strings.Index(out, "A. foo")
	idxB := strings.Index(out, "B. bar")
	idxAns := strings.Index(out, "Answer:")
	require.True(t, idxQ >= 0 && idxA >= 0 && idxB >= 0 && idxAns >= 0, "missing fragment in %q", out)
	assert.True(t, idxQ < idxA && idxA < idxB && idxB < idxAns)
}

func TestAssistantHTMLInlineMarkers(t *testing.T) {
	out := format.AssistantHTML("this is **important** and *subtle*")

	assert.Contains(t, out, "<strong>important</strong>")
	assert.Contains(t, out, "<em>subtle</em>")
}

func TestAssistantHTMLAnswerHeader(t *testing.T) {
	out := format.AssistantHTML("Some question\nAnswers:\n1) B")
	assert.Contains(t, out, "<strong>Answers:</strong>")
}

func TestAssistantHTMLBoldAnswerMarkerMidLine(t *testing.T) {
	out := format.AssistantHTML("Body one **Answer:** A")

	assert.Contains(t, out, "<p>Body one</p>")
	assert.Contains(t, out, "<strong>Answer:</strong>")
	assert.NotContains(t, out, "**")
}

func TestAssistantHTMLDropsEmptyParagraphs(t *testing.T) {
	out := format.AssistantHTML("first\n\n\nsecond\n")

	assert.Equal(t, "<p>first</p><p>second</p>", out)
}

func TestAssistantHTMLDecimalNumbersKeepTheirLine(t *testing.T) {
	out := format.AssistantHTML("pi is roughly 3.14 in value")
	assert.Equal(t, 1, strings.Count(out, "<p>"))
}
