package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abamaxa/llm-english-agent/internal/domain"
)

func TestSummarizeShortInputPassthrough(t *testing.T) {
	s := NewFrequency(Config{})
	out, err := s.Summarize("too short text")
	require.NoError(t, err)
	assert.Equal(t, "too short text", out)
}

func TestSummarizeEmptyInput(t *testing.T) {
	s := NewFrequency(Config{})
	_, err := s.Summarize("   \n ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSummarizeInputTooLarge(t *testing.T) {
	s := NewFrequency(Config{ContextWindow: 10})
	long := strings.Repeat("word ", 11)
	_, err := s.Summarize(long)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInputTooLarge)
}

func TestSummarizeSelectsFrequentTopicSentences(t *testing.T) {
	text := "The committee reviewed the budget. The budget covered staffing and equipment. " +
		"The budget was approved after a long debate about the budget process. " +
		"Someone mentioned parking. The final budget takes effect next month."
	s := NewFrequency(Config{MinWords: 10, MaxWords: 30, ContextWindow: 500})

	out, err := s.Summarize(text)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Contains(t, strings.ToLower(out), "budget")
	assert.Less(t, len(strings.Fields(out)), len(strings.Fields(text)))
}

func TestSummarizePreservesSentenceOrder(t *testing.T) {
	text := "Alpha is the first topic and alpha matters. Beta follows alpha closely here. " +
		"Gamma ends the passage with alpha again for weight."
	s := NewFrequency(Config{MinWords: 5, MaxWords: 100, ContextWindow: 500})

	out, err := s.Summarize(text)
	require.NoError(t, err)

	// Whatever subset is chosen, surviving sentences keep original order.
	alphaAt := strings.Index(out, "Alpha")
	gammaAt := strings.Index(out, "Gamma")
	if alphaAt >= 0 && gammaAt >= 0 {
		assert.Less(t, alphaAt, gammaAt)
	}
}

func TestSummarizeRespectsWordBudget(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("The quick brown fox jumps over the lazy dog near the river bank today. ")
	}
	s := NewFrequency(Config{MinWords: 10, MaxWords: 50, ContextWindow: 1000})

	out, err := s.Summarize(b.String())
	require.NoError(t, err)
	assert.LessOrEqual(t, len(strings.Fields(out)), 50+14) // budget plus at most one sentence
}

func TestSummarizeIsDeterministic(t *testing.T) {
	text := "One sentence about cats. Another sentence about cats and dogs. " +
		"A third sentence about dogs only. Cats appear once more in the end."
	s := NewFrequency(Config{MinWords: 8, MaxWords: 20, ContextWindow: 500})

	first, err := s.Summarize(text)
	require.NoError(t, err)
	second, err := s.Summarize(text)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
