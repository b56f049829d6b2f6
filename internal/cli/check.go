package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"deployverify/internal/engine"
	"deployverify/internal/flags"
	"deployverify/internal/probe"

	"github.com/spf13/cobra"
)

var (
	checkConfigPath string
	checkTarget     string
	checkBaseURL    string
	checkTimeout    time.Duration
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe a single target's endpoints",
	Long: `Probe every configured endpoint against one deployment target.

No feature classification or verdict is computed: this is the quick
"is it up" loop. Pick a configured target with --target, or point at an
arbitrary deployment with --base-url.

Exit codes:
	0 = every endpoint passed
	1 = at least one endpoint failed
	3 = fatal error (check did not run)

Examples:
  # Probe the local development server
  deployverify check --target localhost

  # Probe an arbitrary deployment
  deployverify check --base-url http://98.85.254.126 --timeout 15s
`,
	Run: func(cmd *cobra.Command, args []string) {
		if checkConfigPath != "" {
			if err := cfg.ApplyFile(checkConfigPath); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(3)
			}
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}

		spec, err := resolveTarget(checkTarget, checkBaseURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}
		if cmd.Flags().Changed(flags.FlagTimeout) {
			spec.Timeout = checkTimeout
		}

		out, err := setupOutputManager(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}

		runner := &engine.Runner{Prober: probe.New(), Out: out}
		result, _ := runner.RunTarget(context.Background(), spec, cfg.Endpoints)

		if err := out.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}
		if result.Summary.Failed > 0 {
			os.Exit(1)
		}
	},
}

// resolveTarget picks the target to probe: an explicit --base-url beats a
// configured --target name, which beats the configured primary.
func resolveTarget(name, baseURL string) (probe.TargetSpec, error) {
	if baseURL != "" {
		return probe.TargetSpec{
			Name:        "custom",
			BaseURL:     baseURL,
			Description: "Ad-hoc target",
			Timeout:     10 * time.Second,
			Role:        probe.RolePrimary,
		}, nil
	}
	if name != "" {
		return cfg.TargetByName(name)
	}
	spec, ok := cfg.Primary()
	if !ok {
		return probe.TargetSpec{}, fmt.Errorf("no primary target configured; use --target or --base-url")
	}
	return spec, nil
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkConfigPath, flags.FlagConfig, "", "Load targets and endpoints from a YAML file")
	checkCmd.Flags().StringVar(&checkTarget, flags.FlagTarget, "", "Configured target name to probe (default: primary)")
	checkCmd.Flags().StringVar(&checkBaseURL, flags.FlagBaseURL, "", "Probe an arbitrary base URL instead of a configured target")
	checkCmd.Flags().DurationVar(&checkTimeout, flags.FlagTimeout, 0, "Override the target's probe timeout")
	checkCmd.Flags().StringSliceVar(&cfg.Output.Emit, flags.FlagEmit, nil, "Emit additional structured stream to stdout: json|ndjson (repeatable; comma-separated accepted)")
	checkCmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --emit)")
}
