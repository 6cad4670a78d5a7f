package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"

	"jobsingest/internal/errors"
	"jobsingest/pkg/contracts/domain"
)

// eventRecord is the on-disk shape of a domain.Event. Field order is column order.
type eventRecord struct {
	CityID      int64  `csv:"city_id"`
	Zone        string `csv:"zone"`
	TS          string `csv:"ts"`
	UserType    string `csv:"user_type"`
	JobsLike    string `csv:"jobs_like"`
	SourceSheet string `csv:"source_sheet"`
}

func toRecord(ev domain.Event) eventRecord {
	return eventRecord{
		CityID:      ev.CityID,
		Zone:        ev.Zone,
		TS:          formatTimestamp(ev.TS),
		UserType:    ev.UserType,
		JobsLike:    formatJobs(ev.JobsLike),
		SourceSheet: ev.SourceSheet,
	}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// CSVWriter writes unified events as delimited text
type CSVWriter struct {
	options WriteOptions
	logger  *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger, options WriteOptions) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{options: options, logger: logger}
}

// WriteEvents writes the header and one row per event to filePath, creating
// parent directories as needed. It returns the number of data rows written.
func (w *CSVWriter) WriteEvents(filePath string, events []domain.Event) (int, error) {
	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(events)))

	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, errors.NewOutputError("failed to create directory", err).WithContext("dir", dir)
		}
	}

	file, err := os.Create(filePath)
	if err != nil {
		return 0, errors.NewOutputError("failed to create file", err).WithContext("path", filePath)
	}

	n, werr := w.encode(file, events)
	if cerr := file.Close(); werr == nil && cerr != nil {
		werr = fmt.Errorf("close: %w", cerr)
	}
	if werr != nil {
		return n, errors.NewOutputError("failed to write events", werr).WithContext("path", filePath)
	}
	return n, nil
}

func (w *CSVWriter) encode(file *os.File, events []domain.Event) (int, error) {
	if w.options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return 0, fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	enc := csvutil.NewEncoder(writer)

	if err := enc.EncodeHeader(eventRecord{}); err != nil {
		return 0, fmt.Errorf("failed to write headers: %w", err)
	}
	for i, ev := range events {
		if err := enc.Encode(toRecord(ev)); err != nil {
			return i, fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, err
	}
	return len(events), nil
}
