// Package agent orchestrates one request end to end: operation validation,
// retrieval, prompt assembly, generation (or local summarization), sentinel
// detection and exchange record persistence.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/abamaxa/llm-english-agent/internal/domain"
	"github.com/abamaxa/llm-english-agent/internal/prompt"
)

// Dispatcher routes a request to the summarizer or to the
// retrieve-prompt-generate pipeline and persists exactly one exchange record
// per request before returning, whatever the outcome.
type Dispatcher struct {
	retriever  domain.Retriever
	generator  domain.Generator
	summarizer domain.Summarizer
	store      domain.ExchangeStore
	topK       int
	logger     *log.Logger

	// Injectable for deterministic tests.
	now   func() time.Time
	newID func() string
}

// New creates a dispatcher. topK controls how many rules are retrieved per
// text-transformation request.
func New(retriever domain.Retriever, generator domain.Generator, summarizer domain.Summarizer,
	store domain.ExchangeStore, topK int, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		retriever:  retriever,
		generator:  generator,
		summarizer: summarizer,
		store:      store,
		topK:       topK,
		logger:     logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Process handles one request synchronously. Partial work from an abandoned
// request is discarded; nothing is shared between requests.
func (d *Dispatcher) Process(ctx context.Context, op domain.Operation, text string) domain.Outcome {
	record := domain.ExchangeRecord{
		RequestID: d.newID(),
		Operation: op.String(),
		UserText:  text,
		CreatedAt: d.now(),
	}

	if strings.TrimSpace(text) == "" {
		return d.fail(record, fmt.Errorf("%w: empty text", domain.ErrInvalidInput))
	}
	if !op.Valid() {
		return d.fail(record, fmt.Errorf("%w: unknown operation %v", domain.ErrConfiguration, op))
	}

	if op == domain.Summarize {
		summary, err := d.summarizer.Summarize(text)
		if err != nil {
			return d.fail(record, err)
		}
		record.Response = summary
		return d.answered(record, summary)
	}

	retrieved, err := d.retriever.Retrieve(ctx, text, d.topK)
	if err != nil {
		return d.fail(record, err)
	}
	p, err := prompt.Build(op, text, prompt.RuleTexts(retrieved))
	if err != nil {
		return d.fail(record, err)
	}
	record.Prompt = p

	gen, err := d.generator.Generate(ctx, p)
	record.RawResponse = string(gen.Raw)
	if err != nil {
		return d.fail(record, err)
	}
	record.Response = gen.Text

	if strings.HasPrefix(gen.Text, prompt.AmbiguitySentinel) {
		explanation := strings.TrimSpace(strings.TrimPrefix(gen.Text, prompt.AmbiguitySentinel))
		return d.ambiguous(record, explanation)
	}
	return d.answered(record, gen.Text)
}

func (d *Dispatcher) answered(record domain.ExchangeRecord, answer string) domain.Outcome {
	record.Status = domain.StatusAnswered
	if err := d.persist(&record); err != nil {
		return domain.Outcome{Status: domain.StatusFailed, Err: err, Record: record}
	}
	return domain.Outcome{Status: domain.StatusAnswered, Answer: answer, Record: record}
}

func (d *Dispatcher) ambiguous(record domain.ExchangeRecord, explanation string) domain.Outcome {
	record.Status = domain.StatusAmbiguous
	if err := d.persist(&record); err != nil {
		return domain.Outcome{Status: domain.StatusFailed, Err: err, Record: record}
	}
	return domain.Outcome{Status: domain.StatusAmbiguous, Explanation: explanation, Record: record}
}

func (d *Dispatcher) fail(record domain.ExchangeRecord, cause error) domain.Outcome {
	record.Status = domain.StatusFailed
	record.ErrorKind = domain.ErrorKind(cause)
	d.logger.Error("request failed", "request_id", record.RequestID,
		"operation", record.Operation, "kind", record.ErrorKind)
	if err := d.persist(&record); err != nil {
		d.logger.Error("exchange record lost", "request_id", record.RequestID, "err", err)
	}
	return domain.Outcome{Status: domain.StatusFailed, Err: cause, Record: record}
}

// persist appends the record before any outcome is reported upward.
func (d *Dispatcher) persist(record *domain.ExchangeRecord) error {
	if err := d.store.Append(*record); err != nil {
		return fmt.Errorf("append exchange record: %w", err)
	}
	d.logger.Debug("exchange recorded", "request_id", record.RequestID, "status", record.Status)
	return nil
}
