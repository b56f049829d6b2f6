package engine

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"deployverify/internal/checks"
	"deployverify/internal/config"
	"deployverify/internal/output"
	"deployverify/internal/probe"
	"deployverify/internal/report"
)

// Orchestrator fans the Runner out across every configured target and
// reduces the per-target results into one aggregate report with a single
// deployment verdict. Targets share no state during the fan-out; each
// worker owns its TargetResult and the merge is single-threaded.
type Orchestrator struct {
	TestSuite string
	Config    *config.Config
	Out       *output.Manager

	prober *probe.Prober
	now    func() time.Time
}

func NewOrchestrator(testSuite string, cfg *config.Config, out *output.Manager) *Orchestrator {
	return &Orchestrator{
		TestSuite: testSuite,
		Config:    cfg,
		Out:       out,
		prober:    probe.New(),
		now:       time.Now,
	}
}

type targetOutcome struct {
	result   *probe.TargetResult
	findings []checks.FeatureResult
}

// Run probes all targets (concurrently when configured; targets have no
// data dependency), evaluates the feature and issue catalogs, and returns
// the assembled aggregate report. It never fails on network errors — those
// are values inside the report.
func (o *Orchestrator) Run(ctx context.Context) *report.Aggregate {
	cfg := o.Config
	_ = o.Out.Write(output.RunStarted(len(cfg.Targets), len(cfg.Endpoints)))

	outcomes := make([]targetOutcome, len(cfg.Targets))
	runOne := func(i int) {
		runner := &Runner{
			Prober:         o.prober,
			CanaryEndpoint: cfg.Verify.CanaryEndpoint,
			FeatureCatalog: checks.FeatureCatalog(),
			Out:            o.Out,
		}
		res, findings := runner.RunTarget(ctx, cfg.Targets[i], cfg.Endpoints)
		outcomes[i] = targetOutcome{result: res, findings: findings}
	}

	if cfg.Runtime.Parallel {
		var g errgroup.Group
		for i := range cfg.Targets {
			g.Go(func() error {
				runOne(i)
				return nil
			})
		}
		// Workers only write their own slot and never return errors.
		_ = g.Wait()
	} else {
		for i := range cfg.Targets {
			runOne(i)
		}
	}

	agg := &report.Aggregate{
		TestSuite: o.TestSuite,
		Timestamp: o.now(),
		Targets:   make(map[string]*probe.TargetResult, len(outcomes)),
		Issues:    []checks.IssueRecord{},
	}

	results := make([]*probe.TargetResult, 0, len(outcomes))
	for _, oc := range outcomes {
		agg.Targets[oc.result.Spec.Name] = oc.result
		results = append(results, oc.result)
	}

	o.classify(agg, outcomes)

	agg.DeploymentStatus = DecideStatus(results, cfg.Verify.OperationalThresholdPct)
	agg.OverallStatus, agg.ExitCode = Resolve(agg.DeploymentStatus, checks.HasCritical(agg.Issues))
	agg.ComputeSummary(len(cfg.Endpoints))

	_ = o.Out.Write(output.RunFinished(agg.DeploymentStatus, agg.ExitCode))
	_ = o.Out.Write(agg)

	return agg
}

// classify picks the feature findings that represent the deployed code and
// gates the issue catalog on them. The source is the highest-precedence
// role whose canary probe returned a body; if every canary failed, the
// issues are reported as undetermined rather than missing.
func (o *Orchestrator) classify(agg *report.Aggregate, outcomes []targetOutcome) {
	ordered := make([]targetOutcome, len(outcomes))
	copy(ordered, outcomes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return probe.RolePrecedence(ordered[i].result.Spec.Role) < probe.RolePrecedence(ordered[j].result.Spec.Role)
	})

	var fallback *targetOutcome
	for i := range ordered {
		oc := ordered[i]
		if len(oc.findings) == 0 {
			continue
		}
		if oc.findings[0].Status == checks.StatusUndetermined {
			if fallback == nil {
				fallback = &ordered[i]
			}
			continue
		}
		agg.Features = oc.findings
		agg.FeatureSource = oc.result.Spec.Name
		break
	}
	if agg.Features == nil && fallback != nil {
		agg.Features = fallback.findings
		agg.FeatureSource = fallback.result.Spec.Name
		_ = o.Out.Write(output.Warn("canary endpoint unreachable on every target; feature checks undetermined"))
	}
	if agg.Features == nil {
		return
	}

	triggered, undetermined := checks.TriggeredIssues(checks.IssueCatalog(), agg.Features)
	agg.Issues = append(agg.Issues, triggered...)
	for _, issue := range triggered {
		_ = o.Out.Write(output.IssueFound(issue))
	}
	for _, issue := range undetermined {
		agg.Undetermined = append(agg.Undetermined, issue.ID)
	}
}
