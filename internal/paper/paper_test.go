package paper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymate-app/web-ui/internal/paper"
)

func TestParseTwoBlocksWithAnswerStripped(t *testing.T) {
	blob := "**Question 1:** Body one **Answer:** ignored **Question 2:** Body two"

	blocks := paper.Parse(blob)
	require.Len(t, blocks, 2)

	assert.Equal(t, 1, blocks[0].Number)
	assert.Equal(t, "Body one", blocks[0].Body)
	assert.True(t, blocks[0].HasAnswer)

	assert.Equal(t, 2, blocks[1].Number)
	assert.Equal(t, "Body two", blocks[1].Body)
	assert.False(t, blocks[1].HasAnswer)
}

func TestParseNoMarkers(t *testing.T) {
	assert.Empty(t, paper.Parse("just some prose without any markers"))
	assert.Empty(t, paper.Parse(""))
}

func TestParseMissingNumber(t *testing.T) {
	blocks := paper.Parse("**Question :** mystery body")
	require.Len(t, blocks, 1)
	assert.Equal(t, 0, blocks[0].Number)
	assert.Equal(t, "mystery body", blocks[0].Body)
}

func TestParseStripsSeparatorRules(t *testing.T) {
	blob := "**Question 1:**\nFirst body\n\n--------------------------------------------------\n**Question 2:**\nSecond body\n"

	blocks := paper.Parse(blob)
	require.Len(t, blocks, 2)
	assert.Equal(t, "First body", blocks[0].Body)
	assert.Equal(t, "Second body", blocks[1].Body)
}

func TestParseBatchHeaderIsNotABlock(t *testing.T) {
	blob := "**Starting CSC231 (2024) Past Paper**\nTotal questions: 12\n**Question 1:** What is a firewall?"

	blocks := paper.Parse(blob)
	require.Len(t, blocks, 1)
	assert.Equal(t, 1, blocks[0].Number)
}

func TestSessionComplete(t *testing.T) {
	assert.True(t, paper.SessionComplete("These are the final questions!"))
	assert.True(t, paper.SessionComplete("You've completed all questions in this past paper!"))
	assert.False(t, paper.SessionComplete("Ready for more? Type 'next' to continue."))
}
