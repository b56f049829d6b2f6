package engine

import (
	"deployverify/internal/probe"
	"deployverify/internal/report"
)

// Operational reports whether a target summary clears the configured
// success-rate bar. The comparison is strictly greater-than: a target
// sitting exactly at the threshold is NOT operational.
func Operational(s probe.TargetSummary, thresholdPct float64) bool {
	return s.SuccessRatePct > thresholdPct
}

// DecideStatus computes the deployment verdict from per-target results.
// Evaluation follows a fixed precedence, first match wins:
//
//  1. primary and secondary operational  -> FULLY_OPERATIONAL
//  2. primary and tertiary operational   -> PARTIAL (direct access works,
//     the proxy layer in front of it may be down)
//  3. primary operational alone          -> LOCAL_ONLY
//  4. anything else                      -> CRITICAL_FAILURE
//
// A role counts as operational when any target bearing it is operational.
// With no targets at all the verdict is UNKNOWN.
func DecideStatus(results []*probe.TargetResult, thresholdPct float64) report.DeploymentStatus {
	if len(results) == 0 {
		return report.StatusUnknown
	}

	roleUp := make(map[probe.Role]bool)
	for _, tr := range results {
		if Operational(tr.Summary, thresholdPct) {
			roleUp[tr.Spec.Role] = true
		}
	}

	switch {
	case roleUp[probe.RolePrimary] && roleUp[probe.RoleSecondary]:
		return report.StatusFullyOperational
	case roleUp[probe.RolePrimary] && roleUp[probe.RoleTertiary]:
		return report.StatusPartial
	case roleUp[probe.RolePrimary]:
		return report.StatusLocalOnly
	default:
		return report.StatusCriticalFailure
	}
}

// Resolve maps the verdict and issue severities to the coarse overall
// status string and process exit code.
//
//	FULLY_OPERATIONAL, no critical issues        -> 0
//	critical issues on a reachable deployment    -> 1
//	PARTIAL / LOCAL_ONLY, no critical issues     -> 1
//	CRITICAL_FAILURE / UNKNOWN                   -> 2
func Resolve(status report.DeploymentStatus, hasCriticalIssues bool) (overallStatus string, exitCode int) {
	switch status {
	case report.StatusCriticalFailure, report.StatusUnknown:
		return "CRITICAL_ISSUES", 2
	}
	if hasCriticalIssues {
		return "OPERATIONAL_WITH_ISSUES", 1
	}
	if status == report.StatusPartial || status == report.StatusLocalOnly {
		return "DEGRADED", 1
	}
	return "FULLY_OPERATIONAL", 0
}
