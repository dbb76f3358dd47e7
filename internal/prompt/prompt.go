// Package prompt assembles operation-specific prompts for the generation
// backend, embedding the retrieved rules and the shared ambiguity
// instruction.
package prompt

import (
	"fmt"
	"strings"

	"github.com/abamaxa/llm-english-agent/internal/domain"
)

// AmbiguitySentinel is the exact prefix the model is instructed to emit when
// the input is too ambiguous to transform. Downstream consumers detect it by
// string prefix match, so it must never be reworded.
const AmbiguitySentinel = "AMBIGUOUS TEXT:"

// ambiguityInstruction is included verbatim in every template, always as the
// first instruction, so the sentinel contract holds across operations.
const ambiguityInstruction = `First, decide if the meaning of the text is clear. If it contains ambiguities or context-specific nuances, output "` + AmbiguitySentinel + `" followed by a clear and concise explanation of the problem and stop. Do not attempt any rewrite.`

// hardGrammarConstraint is the clause that separates grammar-only correction
// from style rewriting. Stated as a prohibition, not a suggestion.
const hardGrammarConstraint = `You must not alter the register, vocabulary choice, or sentence structure beyond what grammatical correctness strictly requires. Do not change the meaning or style of the text. Do not change the spelling of any words unless it is necessary to comply with the relevant language rules.`

const writeProperlyTemplate = `Role: You are an expert in written Standard English.

Context: Your task is to improve both the grammar and the style of the following text, taking account of the relevant language rules given below.

Original: %s

Relevant language rules (optional guidance; ignore any rule that does not apply to this text):
%s

Instructions:

Think step by step.

%s

Otherwise, provide an improved version of the text using the relevant language rules. Focus on producing Standard English, including word choice, flow and natural phrasing. Do not change the meaning of the text.

Improved text:
`

const writeGrammarFixedTemplate = `Role: You are an expert in English syntax, morphology and semantics, and nothing else about the English language.

Context: Fix any syntax, morphology or semantics errors in the following text, taking account of the relevant language rules given below.

Original: %s

Relevant language rules (optional guidance; ignore any rule that does not apply to this text):
%s

Instructions:

%s

Otherwise, correct only grammatical errors: tense, agreement, article and preposition usage, and punctuation. %s

Example:
Original: When I was at skool, they learned me up how to talk proper
Corrected: When I was at skool, they taught me how to talk.

Corrected text:
`

// Build resolves an operation, user text and retrieved rule texts into one
// prompt string. Summarization is not prompt-driven; asking for it here is a
// configuration error.
func Build(op domain.Operation, userText string, rules []string) (string, error) {
	switch op {
	case domain.WriteProperly:
		return fmt.Sprintf(writeProperlyTemplate, userText, ruleBlock(rules), ambiguityInstruction), nil
	case domain.WriteGrammarFixed:
		return fmt.Sprintf(writeGrammarFixedTemplate, userText, ruleBlock(rules), ambiguityInstruction, hardGrammarConstraint), nil
	case domain.Summarize:
		return "", fmt.Errorf("%w: summarize does not use the prompt builder", domain.ErrConfiguration)
	}
	return "", fmt.Errorf("%w: unknown operation %v", domain.ErrConfiguration, op)
}

// RuleTexts extracts the bare rule texts from retrieval results.
func RuleTexts(retrieved []domain.RetrievedRule) []string {
	texts := make([]string, 0, len(retrieved))
	for _, r := range retrieved {
		texts = append(texts, r.Rule.Text)
	}
	return texts
}

func ruleBlock(rules []string) string {
	if len(rules) == 0 {
		return "(none retrieved)"
	}
	var b strings.Builder
	for _, r := range rules {
		b.WriteString("- ")
		b.WriteString(r)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
