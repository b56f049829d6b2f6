package output

import (
	"deployverify/internal/checks"
	"deployverify/internal/probe"
	"deployverify/internal/report"
)

// Event is a lifecycle record flowing through the sinks. The console sink
// renders it as a timestamped, level-tagged line; the NDJSON emit sink
// encodes it verbatim (one JSON object per line).
//
// Types:
//   - run.started
//   - target.started
//   - probe.result
//   - target.finished
//   - feature.result
//   - issue
//   - run.finished
type Event struct {
	Type      string                  `json:"type"`
	Target    string                  `json:"target,omitempty"`
	Targets   int                     `json:"targets,omitempty"`
	Endpoints int                     `json:"endpoints,omitempty"`
	Probe     *probe.Result           `json:"probe,omitempty"`
	Summary   *probe.TargetSummary    `json:"summary,omitempty"`
	Feature   *checks.FeatureResult   `json:"feature,omitempty"`
	Issue     *checks.IssueRecord     `json:"issue,omitempty"`
	Status    report.DeploymentStatus `json:"deployment_status,omitempty"`
	ExitCode  int                     `json:"exit_code,omitempty"`
	Message   string                  `json:"message,omitempty"`
}

func RunStarted(targets, endpoints int) Event {
	return Event{Type: "run.started", Targets: targets, Endpoints: endpoints}
}

func TargetStarted(name, description string) Event {
	return Event{Type: "target.started", Target: name, Message: description}
}

func ProbeResult(target string, res probe.Result) Event {
	return Event{Type: "probe.result", Target: target, Probe: &res}
}

func TargetFinished(name string, summary probe.TargetSummary) Event {
	return Event{Type: "target.finished", Target: name, Summary: &summary}
}

func FeatureResult(target string, fr checks.FeatureResult) Event {
	return Event{Type: "feature.result", Target: target, Feature: &fr}
}

func IssueFound(issue checks.IssueRecord) Event {
	return Event{Type: "issue", Issue: &issue}
}

func RunFinished(status report.DeploymentStatus, exitCode int) Event {
	return Event{Type: "run.finished", Status: status, ExitCode: exitCode}
}

func Info(msg string) Event {
	return Event{Type: "log", Message: msg}
}

func Warn(msg string) Event {
	return Event{Type: "log.warn", Message: msg}
}
