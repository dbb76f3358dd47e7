// Package exchange persists one append-only record per request for later
// offline analysis.
package exchange

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abamaxa/llm-english-agent/internal/domain"
)

// Store writes exchange records as JSON files under a date directory, one
// file per request id. Records are never rewritten or deleted here;
// retention is an external concern.
type Store struct {
	dir string
}

// NewStore creates the log directory if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: exchange log directory not set", domain.ErrConfiguration)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create exchange log directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Append writes one complete record. The record lands via rename so a
// concurrent reader never observes a partial file.
func (s *Store) Append(record domain.ExchangeRecord) error {
	if record.RequestID == "" {
		return fmt.Errorf("%w: record has no request id", domain.ErrInvalidInput)
	}
	day := record.CreatedAt.Format("2006-01-02")
	dir := filepath.Join(s.dir, day)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create record directory: %w", err)
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	final := filepath.Join(dir, record.RequestID+".json")
	tmp, err := os.CreateTemp(dir, record.RequestID+".*.tmp")
	if err != nil {
		return fmt.Errorf("create record file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close record: %w", err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("finalize record: %w", err)
	}
	return nil
}

// Read loads a previously appended record by id and day, mainly for tests
// and offline tooling.
func (s *Store) Read(day, requestID string) (domain.ExchangeRecord, error) {
	var record domain.ExchangeRecord
	data, err := os.ReadFile(filepath.Join(s.dir, day, requestID+".json"))
	if err != nil {
		return record, err
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return record, fmt.Errorf("unmarshal record: %w", err)
	}
	return record, nil
}
