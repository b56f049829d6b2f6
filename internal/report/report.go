// Package report defines the aggregate report schema shared by the engine
// (which assembles it) and the output sinks (which serialize it). Field
// names are stable across runs so reports can be diffed.
package report

import (
	"time"

	"deployverify/internal/checks"
	"deployverify/internal/probe"
)

// DeploymentStatus is the coarse-grained verdict summarizing operability
// across all targets.
type DeploymentStatus string

const (
	StatusFullyOperational DeploymentStatus = "FULLY_OPERATIONAL"
	StatusPartial          DeploymentStatus = "PARTIAL"
	StatusLocalOnly        DeploymentStatus = "LOCAL_ONLY"
	StatusCriticalFailure  DeploymentStatus = "CRITICAL_FAILURE"
	StatusUnknown          DeploymentStatus = "UNKNOWN"
)

// Summary rolls up run-wide counters for the report header.
type Summary struct {
	TargetsTested        int     `json:"targets_tested"`
	EndpointsTested      int     `json:"endpoints_tested"`
	TotalProbes          int     `json:"total_probes"`
	PassedProbes         int     `json:"passed_probes"`
	FailedProbes         int     `json:"failed_probes"`
	ProbeSuccessRatePct  float64 `json:"probe_success_rate"`
	FeaturesTotal        int     `json:"features_total"`
	FeaturesImplemented  int     `json:"features_implemented"`
	FeaturesRatePct      float64 `json:"features_implemented_rate"`
	CriticalIssuesCount  int     `json:"critical_issues_count"`
	MajorIssuesCount     int     `json:"major_issues_count"`
	MinorIssuesCount     int     `json:"minor_issues_count"`
}

// Aggregate is the full structured report for one harness run.
type Aggregate struct {
	TestSuite        string                          `json:"test_suite"`
	Timestamp        time.Time                       `json:"timestamp"`
	Targets          map[string]*probe.TargetResult  `json:"targets"`
	Features         []checks.FeatureResult          `json:"features,omitempty"`
	FeatureSource    string                          `json:"feature_source,omitempty"`
	Issues           []checks.IssueRecord            `json:"issues"`
	Undetermined     []string                        `json:"undetermined_issues,omitempty"`
	DeploymentStatus DeploymentStatus                `json:"deployment_status"`
	OverallStatus    string                          `json:"overall_status"`
	ExitCode         int                             `json:"exit_code"`
	Summary          Summary                         `json:"summary"`
}

// ComputeSummary fills the Summary block from the report's own contents.
func (a *Aggregate) ComputeSummary(endpointsConfigured int) {
	s := Summary{
		TargetsTested:   len(a.Targets),
		EndpointsTested: endpointsConfigured,
	}
	for _, tr := range a.Targets {
		s.TotalProbes += tr.Summary.Total
		s.PassedProbes += tr.Summary.Successful
		s.FailedProbes += tr.Summary.Failed
	}
	if s.TotalProbes > 0 {
		s.ProbeSuccessRatePct = float64(s.PassedProbes) / float64(s.TotalProbes) * 100
	}
	for _, f := range a.Features {
		s.FeaturesTotal++
		if f.Status == checks.StatusImplemented {
			s.FeaturesImplemented++
		}
	}
	if s.FeaturesTotal > 0 {
		s.FeaturesRatePct = float64(s.FeaturesImplemented) / float64(s.FeaturesTotal) * 100
	}
	for _, i := range a.Issues {
		switch i.Severity {
		case checks.SeverityCritical:
			s.CriticalIssuesCount++
		case checks.SeverityMajor:
			s.MajorIssuesCount++
		case checks.SeverityMinor:
			s.MinorIssuesCount++
		}
	}
	a.Summary = s
}
