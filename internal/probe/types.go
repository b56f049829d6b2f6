package probe

import (
	"fmt"
	"time"
)

// Role is a configuration-assigned position in the deployment-status
// precedence order. Lower values take precedence when the verdict is
// computed (see engine.DecideStatus).
type Role string

const (
	RolePrimary   Role = "primary"
	RoleSecondary Role = "secondary"
	RoleTertiary  Role = "tertiary"
)

// RolePrecedence orders roles for verdict evaluation. Unknown roles sort
// after the three canonical ones so extension roles never redefine the
// precedence table.
func RolePrecedence(r Role) int {
	switch r {
	case RolePrimary:
		return 0
	case RoleSecondary:
		return 1
	case RoleTertiary:
		return 2
	default:
		return 3
	}
}

// TargetSpec describes one deployment environment exposing the application
// under test at a base URL.
type TargetSpec struct {
	Name        string        `json:"name"`
	BaseURL     string        `json:"base_url"`
	Description string        `json:"description,omitempty"`
	Timeout     time.Duration `json:"timeout"`
	Role        Role          `json:"role"`
}

// EndpointSpec describes one path expected to return specific content.
// ExpectedMarkers are literal substrings; a probe is content-matched only
// when every marker occurs in the response body.
type EndpointSpec struct {
	Path            string        `json:"path"`
	Name            string        `json:"name"`
	ExpectedMarkers []string      `json:"expected_markers,omitempty"`
	TimeoutOverride time.Duration `json:"timeout_override,omitempty"`
}

// Timeout returns the effective timeout for this endpoint given the
// target-level default.
func (e EndpointSpec) Timeout(targetDefault time.Duration) time.Duration {
	if e.TimeoutOverride > 0 {
		return e.TimeoutOverride
	}
	return targetDefault
}

// Result is the normalized outcome of a single probe. Network failures are
// recorded in Error, never raised; HTTPStatus and ResponseTimeMS stay nil
// when no response arrived.
type Result struct {
	Endpoint       string `json:"endpoint"`
	URL            string `json:"url"`
	HTTPStatus     *int   `json:"http_status,omitempty"`
	ResponseTimeMS *int64 `json:"response_time_ms,omitempty"`
	ContentLength  int    `json:"content_length"`
	ContentMatched bool   `json:"content_matched"`
	Error          string `json:"error,omitempty"`
	Success        bool   `json:"success"`

	// Body holds the (capped) response body for classifier use within the
	// run. It is never serialized into reports.
	Body string `json:"-"`
}

// TargetSummary aggregates one target's probe outcomes.
type TargetSummary struct {
	Total             int     `json:"total_endpoints"`
	Successful        int     `json:"successful_endpoints"`
	Failed            int     `json:"failed_endpoints"`
	SuccessRatePct    float64 `json:"success_rate"`
	AvgResponseTimeMS float64 `json:"avg_response_time_ms"`
	TotalContentBytes int     `json:"total_content_length"`
}

// TargetResult is the complete outcome of probing one target: its spec, the
// probe results in configured endpoint order, and the derived summary.
type TargetResult struct {
	Spec    TargetSpec      `json:"target_info"`
	Probes  []Result        `json:"endpoint_results"`
	Summary TargetSummary   `json:"summary"`
}

// Validate checks the counting invariants a well-formed TargetResult must
// hold. The runner verifies them after assembling each target's summary.
func (t *TargetResult) Validate() error {
	if t.Summary.Total != len(t.Probes) {
		return fmt.Errorf("target %s: summary total %d != %d probes", t.Spec.Name, t.Summary.Total, len(t.Probes))
	}
	if t.Summary.Successful+t.Summary.Failed != t.Summary.Total {
		return fmt.Errorf("target %s: successful %d + failed %d != total %d",
			t.Spec.Name, t.Summary.Successful, t.Summary.Failed, t.Summary.Total)
	}
	return nil
}
