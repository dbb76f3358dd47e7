// Package corpus loads the grammar/style rule knowledge base and computes
// the rule embeddings the retriever searches over.
package corpus

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abamaxa/llm-english-agent/internal/domain"
)

//go:embed rules.yaml
var defaultRules []byte

type ruleEntry struct {
	ID   string `yaml:"id"`
	Text string `yaml:"text"`
}

// Corpus is the immutable set of rules, loaded once per process. Rules keep
// their file order; ids are unique.
type Corpus struct {
	rules []domain.Rule
	byID  map[string]int
}

// Load parses a rule corpus from YAML. Empty or duplicate entries are
// configuration errors, not warnings: a broken corpus would silently skew
// every retrieval.
func Load(data []byte) (*Corpus, error) {
	var entries []ruleEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: parse rules: %v", domain.ErrConfiguration, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: rule corpus is empty", domain.ErrConfiguration)
	}
	c := &Corpus{byID: make(map[string]int, len(entries))}
	for i, e := range entries {
		if strings.TrimSpace(e.ID) == "" || strings.TrimSpace(e.Text) == "" {
			return nil, fmt.Errorf("%w: rule %d has empty id or text", domain.ErrConfiguration, i)
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate rule id %q", domain.ErrConfiguration, e.ID)
		}
		c.byID[e.ID] = i
		c.rules = append(c.rules, domain.Rule{ID: e.ID, Text: e.Text})
	}
	return c, nil
}

// LoadFile loads a corpus from the given path, or the embedded default rule
// set when path is empty.
func LoadFile(path string) (*Corpus, error) {
	if path == "" {
		return Load(defaultRules)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read rules: %v", domain.ErrConfiguration, err)
	}
	return Load(data)
}

// EmbedAll computes the embedding for every rule. Called exactly once at
// startup, before the index is built.
func (c *Corpus) EmbedAll(ctx context.Context, embedder domain.Embedder) error {
	for i := range c.rules {
		vec, err := embedder.Embed(ctx, c.rules[i].Text)
		if err != nil {
			return fmt.Errorf("embed rule %s: %w", c.rules[i].ID, err)
		}
		c.rules[i].Embedding = vec
	}
	return nil
}

// Rules returns all rules in corpus order.
func (c *Corpus) Rules() []domain.Rule { return c.rules }

// Len returns the number of rules.
func (c *Corpus) Len() int { return len(c.rules) }

// Get returns the rule with the given id.
func (c *Corpus) Get(id string) (domain.Rule, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Rule{}, false
	}
	return c.rules[i], true
}

// IDs returns the rule ids in corpus order.
func (c *Corpus) IDs() []string {
	ids := make([]string, len(c.rules))
	for i, r := range c.rules {
		ids[i] = r.ID
	}
	return ids
}

// Vectors returns the rule embeddings in corpus order. EmbedAll must have
// run first.
func (c *Corpus) Vectors() [][]float32 {
	vecs := make([][]float32, len(c.rules))
	for i, r := range c.rules {
		vecs[i] = r.Embedding
	}
	return vecs
}
