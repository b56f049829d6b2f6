package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"deployverify/internal/report"
)

// ReportSink captures the aggregate report and persists it on Close. The
// write is atomic from the caller's perspective: the document lands under a
// temporary name first and is renamed into place only once fully written,
// so readers never observe a truncated report.
type ReportSink struct {
	path   string
	mu     sync.Mutex
	report *report.Aggregate
}

func NewReportSink(path string) (*ReportSink, error) {
	if path == "" {
		return nil, fmt.Errorf("report path required")
	}
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	return &ReportSink{path: path}, nil
}

func (s *ReportSink) Write(v any) error {
	r, ok := v.(*report.Aggregate)
	if !ok {
		// Lifecycle events are console/emit material only.
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = r
	return nil
}

func (s *ReportSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.report == nil {
		return fmt.Errorf("no report was produced for %s", s.path)
	}
	return WriteJSONAtomic(s.path, s.report)
}

// WriteJSONAtomic serializes v as indented JSON to path via a sibling temp
// file and rename. Either the full document is durably in place afterwards
// or an error is returned.
func WriteJSONAtomic(path string, v any) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp report file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close report: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move report into place: %w", err)
	}
	return nil
}
