package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "deployverify",
	Short: "Probe Bolamiga deployments and report a single operational verdict",
	Long: `DeployVerify probes the HTTP endpoints of every configured deployment target
and reduces the results into one deployment verdict.

DeployVerify is verify-only: it reads deployed pages, never mutates the
deployment, and network failures are findings in the report, not errors.

Examples:
	# Show available commands and global flags
	deployverify --help

	# Verify every configured target
	deployverify scan

	# Probe a single target's endpoints
	deployverify check --target localhost

	# List feature and issue checks
	deployverify checks list

	# Print build info
	deployverify version

Output:
	By default, commands write human-readable output to stdout.
	Some commands support structured output via emitter flags (see each command's --help).`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, "verbose", false, "Enable verbose logging (prints full error details, and every GitHub API call when filing issues)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
