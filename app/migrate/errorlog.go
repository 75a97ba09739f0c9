package migrate

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// ErrorRecord captures one article that could not be written, keyed by slug
// so a follow-up run can target exactly the failed rows.
type ErrorRecord struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Error string `json:"error"`
}

// ErrorLog accumulates insert failures across all batch workers and flushes
// them to a JSON artifact at the end of the run.
type ErrorLog struct {
	records []ErrorRecord
	mu      sync.Mutex
}

func NewErrorLog() *ErrorLog {
	return &ErrorLog{}
}

func (l *ErrorLog) Append(title, slug string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, ErrorRecord{
		Title: title,
		Slug:  slug,
		Error: err.Error(),
	})
}

func (l *ErrorLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

func (l *ErrorLog) Records() []ErrorRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]ErrorRecord, len(l.records))
	copy(out, l.records)
	return out
}

// WriteFile writes the accumulated records as indented JSON.
func (l *ErrorLog) WriteFile(path string) error {
	data, err := json.MarshalIndent(l.Records(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal error log: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write error log: %w", err)
	}

	return nil
}
