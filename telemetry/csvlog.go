package telemetry

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// CSVLog appends records of one type to a CSV file. The header is written
// with the first record.
type CSVLog[T any] struct {
	file   *os.File
	header bool
}

// CreateCSVLog creates (or truncates) the file at path.
func CreateCSVLog[T any](path string) (*CSVLog[T], error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return &CSVLog[T]{file: f}, nil
}

// Append writes one record. It returns os.ErrClosed after Close.
func (l *CSVLog[T]) Append(rec T) error {
	if l == nil || l.file == nil {
		return os.ErrClosed
	}
	records := []T{rec}
	if l.header {
		return gocsv.MarshalWithoutHeaders(records, l.file)
	}
	if err := gocsv.Marshal(records, l.file); err != nil {
		return err
	}
	l.header = true
	return nil
}

// Close closes the file. Further calls are no-ops.
func (l *CSVLog[T]) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
