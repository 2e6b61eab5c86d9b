// Package errlog appends full remote error bodies to a local log file. Log
// lines truncate bodies for readability; the complete text lands here.
package errlog

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Writer appends error records to one file. A mutex keeps records whole when
// concurrent installer tasks fail at the same time.
type Writer struct {
	mu   sync.Mutex
	path string
}

// New creates a writer for the given path. The file is created on first
// append, not here, so a clean run leaves no empty log behind.
func New(path string) *Writer {
	return &Writer{path: path}
}

// Path returns the log file location.
func (w *Writer) Path() string {
	return w.path
}

// Append writes one record: timestamp, item, operation, then the full body.
func (w *Writer) Append(item, operation, body string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open error log: %w", err)
	}
	defer f.Close()

	record := fmt.Sprintf("[%s] %s %s\n%s\n\n",
		time.Now().UTC().Format(time.RFC3339), item, operation, body)
	if _, err := f.WriteString(record); err != nil {
		return fmt.Errorf("failed to append to error log: %w", err)
	}
	return nil
}
