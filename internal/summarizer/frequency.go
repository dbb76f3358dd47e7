// Package summarizer provides the local summarization model. It is
// extractive and fully offline: sentences are ranked by normalized token
// frequency and the best ones are kept in their original order.
package summarizer

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/abamaxa/llm-english-agent/internal/domain"
)

// Frequency ranks sentences by word frequency (stopwords filtered) and
// selects the top sentences within a word budget of roughly half the input.
type Frequency struct {
	tokenPattern  *regexp.Regexp
	sentenceSplit *regexp.Regexp
	stopwords     map[string]struct{}
	minWords      int
	maxWords      int
	contextWindow int
}

// Config bounds the summarizer's output and input sizes, in words.
type Config struct {
	MinWords      int
	MaxWords      int
	ContextWindow int
}

// NewFrequency creates a frequency-based sentence ranker summarizer.
func NewFrequency(cfg Config) *Frequency {
	if cfg.MinWords <= 0 {
		cfg.MinWords = 30
	}
	if cfg.MaxWords <= 0 {
		cfg.MaxWords = 500
	}
	if cfg.ContextWindow <= 0 {
		cfg.ContextWindow = 500
	}
	return &Frequency{
		tokenPattern:  regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		sentenceSplit: regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
		stopwords:     defaultStopwords(),
		minWords:      cfg.MinWords,
		maxWords:      cfg.MaxWords,
		contextWindow: cfg.ContextWindow,
	}
}

// Summarize returns a condensed version of text. Inputs under five words
// are returned unchanged; inputs beyond the context window fail rather than
// being chunked.
func (s *Frequency) Summarize(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: cannot summarize empty text", domain.ErrInvalidInput)
	}
	inputWords := len(strings.Fields(text))
	if inputWords > s.contextWindow {
		return "", fmt.Errorf("%w: %d words exceeds the %d-word context window",
			domain.ErrInputTooLarge, inputWords, s.contextWindow)
	}
	if inputWords < 5 {
		return text, nil
	}

	budget := inputWords / 2
	if budget < s.minWords {
		budget = s.minWords
	}
	if budget > s.maxWords {
		budget = s.maxWords
	}

	sentences := s.sentenceSplit.FindAllString(text, -1)
	if len(sentences) == 0 {
		return strings.TrimSpace(text), nil
	}

	// Compute normalized word frequencies across the whole text.
	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range s.tokens(sent) {
			if _, ok := s.stopwords[tok]; ok {
				continue
			}
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		if v > maxF {
			maxF = v
		}
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}

	// Score sentences, normalized by length to avoid long-sentence bias.
	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(sentences))
	for i, sent := range sentences {
		sscore := 0.0
		toks := s.tokens(sent)
		for _, tok := range toks {
			if v, ok := freq[tok]; ok {
				sscore += v
			}
		}
		if l := float64(len(toks)); l > 0 {
			sscore /= math.Sqrt(l)
		}
		scores[i] = pair{i, sscore}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	// Take top-ranked sentences until the budget runs out, always keeping
	// at least one, then restore original order.
	var selected []int
	used := 0
	for _, p := range scores {
		w := len(strings.Fields(sentences[p.idx]))
		if len(selected) > 0 && used+w > budget {
			continue
		}
		selected = append(selected, p.idx)
		used += w
		if used >= budget {
			break
		}
	}
	sort.Ints(selected)
	out := make([]string, 0, len(selected))
	for _, idx := range selected {
		out = append(out, strings.TrimSpace(sentences[idx]))
	}
	return strings.Join(out, " "), nil
}

func (s *Frequency) tokens(text string) []string {
	return s.tokenPattern.FindAllString(strings.ToLower(text), -1)
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
