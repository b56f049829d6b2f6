package flags

// Package flags defines canonical CLI flag names shared across the CLI
// commands. Keeping these as constants avoids drift between Cobra flag
// wiring and help text that references them.
// IMPORTANT: These are flag *names* without leading dashes.
const (
	// Targeting
	FlagConfig  = "config"
	FlagTarget  = "target"
	FlagBaseURL = "base-url"

	// Verification
	FlagThreshold = "threshold"
	FlagTimeout   = "timeout"

	// Output
	FlagOut       = "out"
	FlagEmit      = "emit"
	FlagNoConsole = "no-console"

	// Audit
	FlagIssuesOut  = "issues-out"
	FlagFileIssues = "file-issues"
	FlagIssueRepo  = "issue-repo"

	// Runtime
	FlagParallel = "parallel"
	FlagVerbose  = "verbose"
)
