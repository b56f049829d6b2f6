package checks

import "strings"

type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityMajor    Severity = "MAJOR"
	SeverityMinor    Severity = "MINOR"
)

type FeatureStatus string

const (
	// StatusImplemented means every predicate marker was found in the
	// canary body.
	StatusImplemented FeatureStatus = "IMPLEMENTED"
	// StatusMissing means the predicate did not hold.
	StatusMissing FeatureStatus = "MISSING"
	// StatusUndetermined means the canary endpoint produced no body, so
	// nothing can be said either way. Undetermined never counts as missing.
	StatusUndetermined FeatureStatus = "UNDETERMINED"
)

// Predicate is a declarative substring test against a response body: every
// AllOf marker must be present, and, when AnyOf is non-empty, at least one
// of those must be present too. Predicates are pure; evaluation order
// never affects the outcome.
type Predicate struct {
	AllOf []string `json:"all_of,omitempty" yaml:"all_of,omitempty"`
	AnyOf []string `json:"any_of,omitempty" yaml:"any_of,omitempty"`
}

func (p Predicate) Matches(body string) bool {
	for _, m := range p.AllOf {
		if !strings.Contains(body, m) {
			return false
		}
	}
	if len(p.AnyOf) == 0 {
		return true
	}
	for _, m := range p.AnyOf {
		if strings.Contains(body, m) {
			return true
		}
	}
	return false
}

// FeatureCheck is one named textual verification against the canary
// endpoint's body.
type FeatureCheck struct {
	ID          string    `json:"id"`
	Feature     string    `json:"feature"`
	Severity    Severity  `json:"severity"`
	Description string    `json:"description"`
	Predicate   Predicate `json:"predicate"`
}

// FeatureResult is a FeatureCheck outcome for one run.
type FeatureResult struct {
	ID       string        `json:"id"`
	Feature  string        `json:"feature"`
	Severity Severity      `json:"severity"`
	Status   FeatureStatus `json:"status"`
}

// Evaluate runs every check against the body independently.
func Evaluate(body string, catalog []FeatureCheck) []FeatureResult {
	results := make([]FeatureResult, 0, len(catalog))
	for _, c := range catalog {
		status := StatusMissing
		if c.Predicate.Matches(body) {
			status = StatusImplemented
		}
		results = append(results, FeatureResult{
			ID:       c.ID,
			Feature:  c.Feature,
			Severity: c.Severity,
			Status:   status,
		})
	}
	return results
}

// Undetermined returns the catalog's results with every status set to
// UNDETERMINED. Used when the canary probe itself failed, so feature
// absence cannot be distinguished from a transient network failure.
func Undetermined(catalog []FeatureCheck) []FeatureResult {
	results := make([]FeatureResult, 0, len(catalog))
	for _, c := range catalog {
		results = append(results, FeatureResult{
			ID:       c.ID,
			Feature:  c.Feature,
			Severity: c.Severity,
			Status:   StatusUndetermined,
		})
	}
	return results
}
