package domain

import "fmt"

// Operation selects which text transformation the user asked for. It is a
// closed set; callers switch over it exhaustively and treat any other value
// as a configuration error rather than falling through to a default.
type Operation int

const (
	// WriteProperly rewrites for grammar and style while keeping the meaning.
	WriteProperly Operation = iota
	// WriteGrammarFixed corrects grammatical errors only.
	WriteGrammarFixed
	// Summarize produces a concise summary via the local model.
	Summarize
)

// Operations lists every valid operation in menu order.
var Operations = []Operation{WriteProperly, WriteGrammarFixed, Summarize}

func (o Operation) String() string {
	switch o {
	case WriteProperly:
		return "write_properly"
	case WriteGrammarFixed:
		return "write_grammar_fixed"
	case Summarize:
		return "summarize"
	}
	return fmt.Sprintf("operation(%d)", int(o))
}

// ParseOperation maps a user-supplied selector to an Operation. It accepts
// the canonical names, the menu digits, and the long-form grammar alias.
func ParseOperation(s string) (Operation, error) {
	switch s {
	case "1", "write_properly":
		return WriteProperly, nil
	case "2", "write_grammar_fixed", "write_the_same_grammar_fixed":
		return WriteGrammarFixed, nil
	case "3", "summarize":
		return Summarize, nil
	}
	return 0, fmt.Errorf("%w: unknown operation %q", ErrConfiguration, s)
}

// Valid reports whether o is one of the defined operations.
func (o Operation) Valid() bool {
	switch o {
	case WriteProperly, WriteGrammarFixed, Summarize:
		return true
	}
	return false
}
