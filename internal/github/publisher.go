package github

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/go-github/v81/github"

	"deployverify/internal/checks"
)

// IssuePayload is the shape filed to the GitHub Issues API. It is also
// serialized to the issues artifact so a run without credentials still
// produces something a human (or `gh issue create`) can act on.
type IssuePayload struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels"`
}

// BuildPayloads renders triggered issue records into fileable payloads.
// Evidence keys are sorted so the body is stable across runs.
func BuildPayloads(issues []checks.IssueRecord) []IssuePayload {
	payloads := make([]IssuePayload, 0, len(issues))
	for _, issue := range issues {
		payloads = append(payloads, IssuePayload{
			Title:  fmt.Sprintf("[%s] %s: %s", issue.Severity, issue.ID, issue.Title),
			Body:   renderBody(issue),
			Labels: issue.Labels,
		})
	}
	return payloads
}

func renderBody(issue checks.IssueRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Severity:** %s\n\n", issue.Severity)
	fmt.Fprintf(&b, "%s\n", issue.Description)

	if len(issue.Evidence) > 0 {
		b.WriteString("\n## Evidence\n\n")
		keys := make([]string, 0, len(issue.Evidence))
		for k := range issue.Evidence {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- **%s:** %s\n", k, issue.Evidence[k])
		}
	}

	if issue.Recommendation != "" {
		b.WriteString("\n## Recommendation\n\n")
		b.WriteString(issue.Recommendation)
		b.WriteString("\n")
	}
	return b.String()
}

// SplitRepo parses an "owner/name" repository reference.
func SplitRepo(full string) (owner, name string, err error) {
	parts := strings.Split(strings.TrimSpace(full), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q: want owner/name", full)
	}
	return parts[0], parts[1], nil
}

// FileIssues creates one GitHub issue per payload and returns the HTML
// URLs of the created issues. The first API error aborts the remainder;
// issues created before the failure stay created.
func (c *Client) FileIssues(ctx context.Context, owner, repo string, payloads []IssuePayload) ([]string, error) {
	urls := make([]string, 0, len(payloads))
	for _, p := range payloads {
		req := &github.IssueRequest{
			Title: github.Ptr(p.Title),
			Body:  github.Ptr(p.Body),
		}
		if len(p.Labels) > 0 {
			labels := append([]string(nil), p.Labels...)
			req.Labels = &labels
		}
		issue, _, err := c.api.Issues.Create(ctx, owner, repo, req)
		if err != nil {
			return urls, fmt.Errorf("create issue %q: %w", p.Title, err)
		}
		urls = append(urls, issue.GetHTMLURL())
	}
	return urls, nil
}
