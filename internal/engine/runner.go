package engine

import (
	"context"

	"deployverify/internal/checks"
	"deployverify/internal/output"
	"deployverify/internal/probe"
)

// Runner drives the prober across one target's endpoint list, in configured
// order, accumulating the target summary as it goes. There is no retry:
// transient failures are visible in the report, not papered over.
type Runner struct {
	Prober         *probe.Prober
	CanaryEndpoint string
	FeatureCatalog []checks.FeatureCheck
	Out            *output.Manager
}

// RunTarget probes every endpoint against the target and returns the
// accumulated result plus the feature findings from the canary endpoint.
// Findings are nil when no canary is configured for this run, and
// UNDETERMINED when the canary probe produced no body.
func (r *Runner) RunTarget(ctx context.Context, spec probe.TargetSpec, endpoints []probe.EndpointSpec) (*probe.TargetResult, []checks.FeatureResult) {
	_ = r.Out.Write(output.TargetStarted(spec.Name, spec.Description))

	result := &probe.TargetResult{
		Spec:   spec,
		Probes: make([]probe.Result, 0, len(endpoints)),
	}

	var (
		findings     []checks.FeatureResult
		latencySumMS int64
		latencyCount int
	)

	for _, ep := range endpoints {
		res := r.Prober.Probe(ctx, spec.BaseURL, ep, spec.Timeout)
		result.Probes = append(result.Probes, res)

		// Failures are logged the moment they happen, not batched.
		_ = r.Out.Write(output.ProbeResult(spec.Name, res))

		result.Summary.Total++
		if res.Success {
			result.Summary.Successful++
			// Only successful probes with a timing value feed the average
			// and the byte total, so error pages and timeouts cannot
			// inflate either.
			if res.ResponseTimeMS != nil {
				latencySumMS += *res.ResponseTimeMS
				latencyCount++
			}
			result.Summary.TotalContentBytes += res.ContentLength
		} else {
			result.Summary.Failed++
		}

		if r.CanaryEndpoint != "" && ep.Name == r.CanaryEndpoint {
			if res.Body != "" {
				findings = checks.Evaluate(res.Body, r.FeatureCatalog)
			} else {
				findings = checks.Undetermined(r.FeatureCatalog)
			}
			for _, f := range findings {
				_ = r.Out.Write(output.FeatureResult(spec.Name, f))
			}
		}
	}

	if result.Summary.Total > 0 {
		result.Summary.SuccessRatePct = float64(result.Summary.Successful) / float64(result.Summary.Total) * 100
	}
	if latencyCount > 0 {
		result.Summary.AvgResponseTimeMS = float64(latencySumMS) / float64(latencyCount)
	}
	if err := result.Validate(); err != nil {
		_ = r.Out.Write(output.Warn(err.Error()))
	}

	_ = r.Out.Write(output.TargetFinished(spec.Name, result.Summary))

	return result, findings
}
