package checks

// IssueRecord is a known-issue signature. Issues are data, not errors: a
// triggered issue lands in the report and influences the exit code, it
// never aborts a run.
type IssueRecord struct {
	ID             string            `json:"issue_id"`
	Title          string            `json:"title"`
	Severity       Severity          `json:"severity"`
	Description    string            `json:"description"`
	Evidence       map[string]string `json:"evidence,omitempty"`
	Recommendation string            `json:"recommendation"`
	Labels         []string          `json:"-"`

	// TriggerCheckID gates the issue: it is surfaced only when the named
	// feature check reports MISSING for the run. UNDETERMINED suppresses
	// the issue without counting it as resolved.
	TriggerCheckID string `json:"-"`
}

// TriggeredIssues filters the issue catalog against the run's feature
// findings. Issues whose trigger check is undetermined are returned
// separately so callers can report them as such instead of silently
// dropping them.
func TriggeredIssues(catalog []IssueRecord, findings []FeatureResult) (triggered []IssueRecord, undetermined []IssueRecord) {
	byID := make(map[string]FeatureStatus, len(findings))
	for _, f := range findings {
		byID[f.ID] = f.Status
	}
	for _, issue := range catalog {
		switch byID[issue.TriggerCheckID] {
		case StatusMissing:
			triggered = append(triggered, issue)
		case StatusUndetermined:
			undetermined = append(undetermined, issue)
		}
	}
	return triggered, undetermined
}

// HasCritical reports whether any issue in the list is CRITICAL. The exit
// resolver uses this to force a nonzero code even on an otherwise
// operational deployment.
func HasCritical(issues []IssueRecord) bool {
	for _, i := range issues {
		if i.Severity == SeverityCritical {
			return true
		}
	}
	return false
}
