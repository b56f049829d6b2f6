package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"deployverify/internal/config"
	"deployverify/internal/engine"
	"deployverify/internal/flags"
	"deployverify/internal/output"

	"github.com/spf13/cobra"
)

var cfg = config.New()

var (
	scanConfigPath string
	scanTimeout    time.Duration
)

const defaultTestSuite = "Comprehensive_Bolamiga_QA"

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Verify every configured deployment target",
	Long: `Verify every configured deployment target and report one verdict.

Each target's endpoints are probed over HTTP, the canary page is classified
against the feature catalog, and the per-target results reduce into a single
deployment status. Network failures never abort the run; a dead target is a
finding, not an error.

Output:
	Console output is on by default. Structured outputs can be written via:
	- --out: write the aggregate JSON report to a file (atomically)
	- --emit: write an additional structured stream to stdout (json or ndjson)
	- --no-console: suppress the console sink (use with --emit/--out for machine output)

	NDJSON mode emits one JSON object per line. Objects are lifecycle Events with a
	"type" field (run.started, target.started, probe.result, target.finished,
	feature.result, issue, run.finished).

Exit codes:
	0 = deployment fully operational, no issues
	1 = degraded deployment, or operational with detected issues
	2 = critical failure (primary target down) or nothing verified
	3 = fatal error (verification did not run)

Examples:
  # Verify the built-in targets
  deployverify scan

  # Custom target catalog with a JSON report artifact
  deployverify scan --config deploy.yml --out report.json

  # AI Agent: stream machine-readable events to stdout
  deployverify scan --no-console --emit ndjson
`,
	Run: func(cmd *cobra.Command, args []string) {
		// Flags win over the file, which wins over the built-ins.
		flagThreshold := cfg.Verify.OperationalThresholdPct
		if scanConfigPath != "" {
			if err := cfg.ApplyFile(scanConfigPath); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(3)
			}
		}
		if cmd.Flags().Changed(flags.FlagThreshold) {
			cfg.Verify.OperationalThresholdPct = flagThreshold
		}
		if cmd.Flags().Changed(flags.FlagTimeout) {
			for i := range cfg.Targets {
				cfg.Targets[i].Timeout = scanTimeout
			}
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}

		out, err := setupOutputManager(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}

		agg := engine.NewOrchestrator(defaultTestSuite, cfg, out).Run(context.Background())

		// The report sink persists on Close; an unwritable report artifact is
		// fatal even when the verification itself ran.
		if err := out.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}
		os.Exit(agg.ExitCode)
	},
}

// setupOutputManager assembles the sink fan-out for a run: console unless
// suppressed, one emit stream per requested format, and the report artifact
// when a path is set.
func setupOutputManager(cfg *config.Config) (*output.Manager, error) {
	m := output.NewManager()
	if !cfg.Output.NoConsole {
		if err := m.AddSink(output.NewConsoleSink(os.Stdout)); err != nil {
			return nil, err
		}
	}
	for _, format := range cfg.Output.Emit {
		sink, err := output.NewEmitSink(os.Stdout, format)
		if err != nil {
			return nil, err
		}
		if err := m.AddSink(sink); err != nil {
			return nil, err
		}
	}
	if cfg.Output.Report != "" {
		sink, err := output.NewReportSink(cfg.Output.Report)
		if err != nil {
			return nil, err
		}
		if err := m.AddSink(sink); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func init() {
	rootCmd.AddCommand(scanCmd)

	// Targeting
	scanCmd.Flags().StringVar(&scanConfigPath, flags.FlagConfig, "", "Load targets, endpoints and thresholds from a YAML file (overrides built-ins per section)")

	// Verification
	scanCmd.Flags().Float64Var(&cfg.Verify.OperationalThresholdPct, flags.FlagThreshold, cfg.Verify.OperationalThresholdPct, "Success-rate percentage a target must strictly exceed to count as operational")
	scanCmd.Flags().DurationVar(&scanTimeout, flags.FlagTimeout, 0, "Override every target's probe timeout (default: per-target)")

	// Output
	scanCmd.Flags().StringVar(&cfg.Output.Report, flags.FlagOut, "", "Write the aggregate JSON report to this path")
	scanCmd.Flags().StringSliceVar(&cfg.Output.Emit, flags.FlagEmit, nil, "Emit additional structured stream to stdout: json|ndjson (repeatable; comma-separated accepted)")
	scanCmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --emit/--out)")

	// Runtime
	scanCmd.Flags().BoolVar(&cfg.Runtime.Parallel, flags.FlagParallel, false, "Probe targets concurrently, one worker per target (default: sequential)")
}
