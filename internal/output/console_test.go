package output

import (
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"deployverify/internal/checks"
	"deployverify/internal/probe"
	"deployverify/internal/report"
)

func newTestConsole(sb *strings.Builder) *ConsoleSink {
	color.NoColor = true
	s := NewConsoleSink(sb)
	s.now = func() time.Time {
		return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func TestConsoleSink_ProbeLines(t *testing.T) {
	var sb strings.Builder
	s := newTestConsole(&sb)

	status := 200
	ms := int64(42)
	pass := probe.Result{Endpoint: "/game", HTTPStatus: &status, ResponseTimeMS: &ms, ContentLength: 1234, ContentMatched: true, Success: true}
	fail := probe.Result{Endpoint: "/api/health", Error: "Connection refused"}

	if err := s.Write(ProbeResult("localhost", pass)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Write(ProbeResult("localhost", fail)); err != nil {
		t.Fatalf("write: %v", err)
	}

	out := sb.String()
	want := []string{
		"[2026-08-29 12:00:00] [PASS]   /game - 42ms - 1234B",
		"[2026-08-29 12:00:00] [FAIL]   /api/health - Connection refused",
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Fatalf("output missing %q:\n%s", w, out)
		}
	}
}

func TestConsoleSink_LifecycleLines(t *testing.T) {
	var sb strings.Builder
	s := newTestConsole(&sb)

	events := []Event{
		RunStarted(3, 7),
		TargetStarted("AWS", "AWS EC2 production deployment (port 80)"),
		TargetFinished("AWS", probe.TargetSummary{Total: 7, Successful: 5, SuccessRatePct: 71.4}),
		RunFinished(report.StatusPartial, 1),
	}
	for _, ev := range events {
		if err := s.Write(ev); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	out := sb.String()
	want := []string{
		"[INFO] Starting deployment verification (3 targets, 7 endpoints)",
		"[INFO] Testing AWS: AWS EC2 production deployment (port 80)",
		"[INFO] AWS summary: 5/7 endpoints (71.4% success rate)",
		"[WARN] Deployment status: PARTIAL (exit code 1)",
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Fatalf("output missing %q:\n%s", w, out)
		}
	}
}

func TestConsoleSink_IssueAndFeatureLevels(t *testing.T) {
	var sb strings.Builder
	s := newTestConsole(&sb)

	s.Write(FeatureResult("aws", checks.FeatureResult{Feature: "Touch Controls", Status: checks.StatusImplemented}))
	s.Write(FeatureResult("aws", checks.FeatureResult{Feature: "Safe Area Support", Status: checks.StatusMissing}))
	s.Write(FeatureResult("aws", checks.FeatureResult{Feature: "iPhone Canvas Fix", Status: checks.StatusUndetermined}))
	s.Write(IssueFound(checks.IssueRecord{ID: "IPHONE_CANVAS_001", Severity: checks.SeverityCritical, Title: "broken"}))
	s.Write(IssueFound(checks.IssueRecord{ID: "IPHONE_UX_002", Severity: checks.SeverityMajor, Title: "missing"}))

	out := sb.String()
	want := []string{
		"[PASS]   Touch Controls: IMPLEMENTED",
		"[FAIL]   Safe Area Support: MISSING",
		"[WARN]   iPhone Canvas Fix: UNDETERMINED",
		"[ERROR] IPHONE_CANVAS_001 [CRITICAL] broken",
		"[WARN] IPHONE_UX_002 [MAJOR] missing",
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Fatalf("output missing %q:\n%s", w, out)
		}
	}
}

func TestConsoleSink_IgnoresReport(t *testing.T) {
	var sb strings.Builder
	s := newTestConsole(&sb)

	if err := s.Write(&report.Aggregate{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if sb.Len() != 0 {
		t.Fatalf("report must not reach the console, got %q", sb.String())
	}
}
