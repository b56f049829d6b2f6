package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"deployverify/internal/checks"
	"deployverify/internal/engine"
	"deployverify/internal/flags"
	gh "deployverify/internal/github"
	"deployverify/internal/output"
	"deployverify/internal/probe"

	"github.com/spf13/cobra"
)

var (
	auditConfigPath string
	auditTarget     string
	auditBaseURL    string
	auditTimeout    time.Duration
	auditIssuesOut  string
	auditFileIssues bool
	auditIssueRepo  string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit one target's canary page against the issue catalog",
	Long: `Audit a single deployment target: probe its endpoints, classify the
canary page against the feature catalog, and report the triggered issues.

Triggered issues can be exported as GitHub issue payloads (--issues-out)
or filed directly to a repository's issue tracker (--file-issues).

Authentication (only with --file-issues):
  DeployVerify uses a GitHub access token. It prefers GITHUB_TOKEN, but can
  also reuse GitHub CLI authentication if the gh CLI is installed and logged in.

Exit codes:
	0 = no issues triggered
	1 = issues triggered
	2 = canary page unreachable, issue catalog undetermined
	3 = fatal error (audit did not run)

Examples:
  # Audit the primary target
  deployverify audit

  # Export issue payloads for later filing
  deployverify audit --target aws --issues-out github-issues.json

  # File triggered issues directly
  export GITHUB_TOKEN="<your_token>"
  deployverify audit --file-issues --issue-repo acme/bolamiga
`,
	Run: func(cmd *cobra.Command, args []string) {
		if auditConfigPath != "" {
			if err := cfg.ApplyFile(auditConfigPath); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(3)
			}
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}
		if auditFileIssues && auditIssueRepo == "" {
			fmt.Fprintln(os.Stderr, "Error: --file-issues requires --issue-repo owner/name")
			os.Exit(3)
		}

		spec, err := resolveTarget(auditTarget, auditBaseURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}
		if cmd.Flags().Changed(flags.FlagTimeout) {
			spec.Timeout = auditTimeout
		}

		out, err := setupOutputManager(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}

		ctx := context.Background()
		runner := &engine.Runner{
			Prober:         probe.New(),
			CanaryEndpoint: cfg.Verify.CanaryEndpoint,
			FeatureCatalog: checks.FeatureCatalog(),
			Out:            out,
		}
		_, findings := runner.RunTarget(ctx, spec, cfg.Endpoints)

		undetermined := len(findings) == 0 || findings[0].Status == checks.StatusUndetermined
		var triggered []checks.IssueRecord
		if !undetermined {
			triggered, _ = checks.TriggeredIssues(checks.IssueCatalog(), findings)
			for _, issue := range triggered {
				_ = out.Write(output.IssueFound(issue))
			}
		} else {
			_ = out.Write(output.Warn("canary endpoint unreachable; issue catalog undetermined"))
		}

		payloads := gh.BuildPayloads(triggered)
		// The default artifact only appears when something triggered; an
		// explicit --issues-out always writes, even an empty list.
		if !cmd.Flags().Changed(flags.FlagIssuesOut) && len(payloads) == 0 {
			auditIssuesOut = ""
		}
		if auditIssuesOut != "" {
			if err := output.WriteJSONAtomic(auditIssuesOut, payloads); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(3)
			}
			_ = out.Write(output.Info(fmt.Sprintf("wrote %d issue payload(s) to %s", len(payloads), auditIssuesOut)))
		}
		if auditFileIssues && len(payloads) > 0 {
			if err := fileIssues(ctx, out, payloads); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(3)
			}
		}

		if err := out.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}
		switch {
		case undetermined:
			os.Exit(2)
		case len(triggered) > 0:
			os.Exit(1)
		}
	},
}

func fileIssues(ctx context.Context, out *output.Manager, payloads []gh.IssuePayload) error {
	owner, repo, err := gh.SplitRepo(auditIssueRepo)
	if err != nil {
		return err
	}
	token, err := gh.ResolveToken(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to resolve GitHub auth token: %w", err)
	}
	if token.IsZero() {
		return fmt.Errorf("GitHub auth token is required (set GITHUB_TOKEN or run 'gh auth login')")
	}
	client, err := gh.NewClient(ctx, token.Value,
		gh.WithUserAgent("deployverify/"+buildVersion),
		gh.WithVerbose(cfg.Runtime.Verbose, nil))
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}
	urls, err := client.FileIssues(ctx, owner, repo, payloads)
	for _, u := range urls {
		_ = out.Write(output.Info("filed "+u))
	}
	return err
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVar(&auditConfigPath, flags.FlagConfig, "", "Load targets and endpoints from a YAML file")
	auditCmd.Flags().StringVar(&auditTarget, flags.FlagTarget, "", "Configured target name to audit (default: primary)")
	auditCmd.Flags().StringVar(&auditBaseURL, flags.FlagBaseURL, "", "Audit an arbitrary base URL instead of a configured target")
	auditCmd.Flags().DurationVar(&auditTimeout, flags.FlagTimeout, 0, "Override the target's probe timeout")
	auditCmd.Flags().StringVar(&auditIssuesOut, flags.FlagIssuesOut, "github-issues.json", "Write triggered issues as GitHub issue payloads to this path (empty disables)")
	auditCmd.Flags().BoolVar(&auditFileIssues, flags.FlagFileIssues, false, "File triggered issues to a GitHub repository (requires --issue-repo and a token)")
	auditCmd.Flags().StringVar(&auditIssueRepo, flags.FlagIssueRepo, "", "GitHub repository to file issues against, as owner/name")
}
