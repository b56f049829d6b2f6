package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// EmitSink streams structured output for machine consumption.
//
// Formats:
//   - ndjson: streams Event values as they happen (one JSON object per line)
//   - json: buffers Events and writes a single JSON array on Close
type EmitSink struct {
	writer io.Writer
	format string
	mu     sync.Mutex
	events []Event
}

func NewEmitSink(w io.Writer, format string) (*EmitSink, error) {
	if w == nil {
		return nil, fmt.Errorf("emit sink writer must not be nil")
	}
	if format != "json" && format != "ndjson" {
		return nil, fmt.Errorf("unsupported emit format: %s", format)
	}
	return &EmitSink{writer: w, format: format}, nil
}

func (s *EmitSink) Write(v any) error {
	ev, ok := v.(Event)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.format {
	case "json":
		s.events = append(s.events, ev)
		return nil
	case "ndjson":
		if err := json.NewEncoder(s.writer).Encode(ev); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	default:
		return fmt.Errorf("unsupported emit format: %s", s.format)
	}
}

func (s *EmitSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		enc := json.NewEncoder(s.writer)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s.events); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	}
	return nil
}
