package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"

	"deployverify/internal/checks"
	"deployverify/internal/report"
)

// Level tags for console lines.
const (
	LevelInfo  = "INFO"
	LevelPass  = "PASS"
	LevelFail  = "FAIL"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

var levelColors = map[string]*color.Color{
	LevelInfo:  color.New(color.FgCyan),
	LevelPass:  color.New(color.FgGreen),
	LevelFail:  color.New(color.FgRed),
	LevelWarn:  color.New(color.FgYellow),
	LevelError: color.New(color.FgRed, color.Bold),
}

// ConsoleSink renders the human-readable progress trace: one timestamped,
// level-tagged line per event, in arrival order.
type ConsoleSink struct {
	writer io.Writer
	mu     sync.Mutex
	now    func() time.Time
}

func NewConsoleSink(w io.Writer) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleSink{writer: w, now: time.Now}
}

func (s *ConsoleSink) Write(v any) error {
	ev, ok := v.(Event)
	if !ok {
		// The aggregate report is not a console artifact.
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	level, msg := renderEvent(ev)
	if msg == "" {
		return nil
	}
	return s.line(level, msg)
}

func (s *ConsoleSink) Close() error { return nil }

func (s *ConsoleSink) line(level, msg string) error {
	ts := s.now().Format("2006-01-02 15:04:05")
	tag := level
	if c, ok := levelColors[level]; ok {
		tag = c.Sprint(level)
	}
	_, err := fmt.Fprintf(s.writer, "[%s] [%s] %s\n", ts, tag, msg)
	return err
}

func renderEvent(ev Event) (level, msg string) {
	switch ev.Type {
	case "run.started":
		return LevelInfo, fmt.Sprintf("Starting deployment verification (%d targets, %d endpoints)", ev.Targets, ev.Endpoints)
	case "target.started":
		if ev.Message != "" {
			return LevelInfo, fmt.Sprintf("Testing %s: %s", ev.Target, ev.Message)
		}
		return LevelInfo, fmt.Sprintf("Testing %s", ev.Target)
	case "probe.result":
		if ev.Probe == nil {
			return "", ""
		}
		p := ev.Probe
		if p.Success {
			ms := int64(0)
			if p.ResponseTimeMS != nil {
				ms = *p.ResponseTimeMS
			}
			return LevelPass, fmt.Sprintf("  %s - %dms - %dB", p.Endpoint, ms, p.ContentLength)
		}
		return LevelFail, fmt.Sprintf("  %s - %s", p.Endpoint, p.FailureReason())
	case "target.finished":
		if ev.Summary == nil {
			return "", ""
		}
		sum := ev.Summary
		return LevelInfo, fmt.Sprintf("%s summary: %d/%d endpoints (%.1f%% success rate)",
			ev.Target, sum.Successful, sum.Total, sum.SuccessRatePct)
	case "feature.result":
		if ev.Feature == nil {
			return "", ""
		}
		f := ev.Feature
		switch f.Status {
		case checks.StatusImplemented:
			return LevelPass, fmt.Sprintf("  %s: %s", f.Feature, f.Status)
		case checks.StatusUndetermined:
			return LevelWarn, fmt.Sprintf("  %s: %s", f.Feature, f.Status)
		default:
			return LevelFail, fmt.Sprintf("  %s: %s", f.Feature, f.Status)
		}
	case "issue":
		if ev.Issue == nil {
			return "", ""
		}
		lvl := LevelWarn
		if ev.Issue.Severity == checks.SeverityCritical {
			lvl = LevelError
		}
		return lvl, fmt.Sprintf("%s [%s] %s", ev.Issue.ID, ev.Issue.Severity, ev.Issue.Title)
	case "run.finished":
		msg = fmt.Sprintf("Deployment status: %s (exit code %d)", ev.Status, ev.ExitCode)
		switch ev.Status {
		case report.StatusFullyOperational:
			return LevelPass, msg
		case report.StatusPartial, report.StatusLocalOnly:
			return LevelWarn, msg
		default:
			return LevelError, msg
		}
	case "log":
		return LevelInfo, ev.Message
	case "log.warn":
		return LevelWarn, ev.Message
	default:
		return "", ""
	}
}
