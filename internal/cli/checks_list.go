package cli

import (
	"fmt"
	"io"

	"deployverify/internal/checks"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var checksListQuiet bool
var checksCmd = &cobra.Command{
	Use:   "checks",
	Short: "Manage and list checks",
	Long: `Manage DeployVerify checks.

This command group helps you discover which feature checks exist, which
markers each one looks for, and which known issues they gate. Checks are
evaluated against the canary page during scans and audits.

Examples:
  # List all built-in checks
  deployverify checks list
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var checksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in feature checks and issue definitions",
	Long: `List the feature checks and issue definitions built into this binary.

Examples:
  deployverify checks list

Output:
  A vertical list of checks:
    ----------------------------------------
    CHECK: {ID} [{SEVERITY}]
    ----------------------------------------
    {NAME}
    {MARKERS}
  followed by the issue catalog in the same layout.
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		for _, c := range checks.FeatureCatalog() {
			if checksListQuiet {
				fmt.Fprintln(w, c.ID)
			} else {
				printFeatureCheck(w, c)
			}
		}
		for _, issue := range checks.IssueCatalog() {
			if checksListQuiet {
				fmt.Fprintln(w, issue.ID)
			} else {
				printIssue(w, issue)
			}
		}
		return nil
	},
}

func printFeatureCheck(w io.Writer, c checks.FeatureCheck) {
	bold := color.New(color.Bold)
	fmt.Fprintln(w, "----------------------------------------")
	bold.Fprintf(w, "CHECK: %s [%s]\n", c.ID, c.Severity)
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintln(w, c.Feature)
	fmt.Fprintln(w, c.Description)
	if len(c.Predicate.AllOf) > 0 {
		fmt.Fprintf(w, "Requires all of: %v\n", c.Predicate.AllOf)
	}
	if len(c.Predicate.AnyOf) > 0 {
		fmt.Fprintf(w, "Requires any of: %v\n", c.Predicate.AnyOf)
	}
	fmt.Fprintln(w)
}

func printIssue(w io.Writer, issue checks.IssueRecord) {
	bold := color.New(color.Bold)
	fmt.Fprintln(w, "----------------------------------------")
	bold.Fprintf(w, "ISSUE: %s [%s]\n", issue.ID, issue.Severity)
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintln(w, issue.Title)
	fmt.Fprintln(w, issue.Description)
	fmt.Fprintf(w, "Triggered by: %s\n", issue.TriggerCheckID)
	fmt.Fprintln(w)
}

func init() {
	rootCmd.AddCommand(checksCmd)
	checksCmd.AddCommand(checksListCmd)
	checksListCmd.Flags().BoolVarP(&checksListQuiet, "quiet", "q", false, "Only print check and issue IDs")
}
