package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"deployverify/internal/checks"
	"deployverify/internal/config"
	"deployverify/internal/output"
	"deployverify/internal/probe"
	"deployverify/internal/report"
)

// okServer serves every endpoint of the default catalog with matching
// markers. The game page optionally carries all feature markers.
func okServer(t *testing.T, fullFeatures bool) *httptest.Server {
	t.Helper()
	game := `<canvas id="gameCanvas"></canvas>`
	if fullFeatures {
		game += `currentPlatformConfig.platform.isIPhone touch-controls touch-fire
		viewport-fit=cover safe-area-inset iPhoneConfig targetFPS`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Write([]byte("BOLAMIGA SYSTEM"))
		case "/game":
			w.Write([]byte(game))
		case "/api/health":
			w.Write([]byte(`{"status": "healthy"}`))
		case "/api/highscores":
			w.Write([]byte(`[]`))
		case "/debug":
			w.Write([]byte("iPhone Chrome Canvas Debug"))
		case "/minimal":
			w.Write([]byte("<canvas>"))
		case "/comparison":
			w.Write([]byte("iPhone Game Comparison"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// downURL returns a base URL with nothing listening behind it.
func downURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func testConfig(primary, secondary, tertiary string) *config.Config {
	cfg := config.New()
	cfg.Targets = []probe.TargetSpec{
		{Name: "localhost", BaseURL: primary, Timeout: 2 * time.Second, Role: probe.RolePrimary},
		{Name: "aws", BaseURL: secondary, Timeout: 2 * time.Second, Role: probe.RoleSecondary},
		{Name: "aws_direct", BaseURL: tertiary, Timeout: 2 * time.Second, Role: probe.RoleTertiary},
	}
	return cfg
}

func runScan(t *testing.T, cfg *config.Config) *report.Aggregate {
	t.Helper()
	o := NewOrchestrator("Comprehensive_Bolamiga_QA", cfg, output.NewManager())
	return o.Run(context.Background())
}

func TestOrchestrator_FullyOperational(t *testing.T) {
	up := okServer(t, true)
	cfg := testConfig(up.URL, up.URL, downURL(t))

	agg := runScan(t, cfg)

	if agg.DeploymentStatus != report.StatusFullyOperational {
		t.Fatalf("want FULLY_OPERATIONAL, got %s", agg.DeploymentStatus)
	}
	if agg.ExitCode != 0 {
		t.Fatalf("want exit 0, got %d", agg.ExitCode)
	}
	if agg.OverallStatus != "FULLY_OPERATIONAL" {
		t.Fatalf("overall status %q", agg.OverallStatus)
	}
	if len(agg.Issues) != 0 {
		t.Fatalf("full feature set must trigger no issues, got %+v", agg.Issues)
	}
	if agg.FeatureSource != "localhost" {
		t.Fatalf("features must come from the primary target, got %q", agg.FeatureSource)
	}
	if agg.Summary.TargetsTested != 3 || agg.Summary.EndpointsTested != 7 {
		t.Fatalf("unexpected summary: %+v", agg.Summary)
	}
}

func TestOrchestrator_PartialWhenProxyDown(t *testing.T) {
	up := okServer(t, true)
	cfg := testConfig(up.URL, downURL(t), up.URL)

	agg := runScan(t, cfg)

	if agg.DeploymentStatus != report.StatusPartial {
		t.Fatalf("want PARTIAL, got %s", agg.DeploymentStatus)
	}
	if agg.ExitCode != 1 {
		t.Fatalf("want exit 1, got %d", agg.ExitCode)
	}
	if agg.OverallStatus != "DEGRADED" {
		t.Fatalf("overall status %q", agg.OverallStatus)
	}
}

func TestOrchestrator_LocalOnly(t *testing.T) {
	up := okServer(t, true)
	cfg := testConfig(up.URL, downURL(t), downURL(t))

	agg := runScan(t, cfg)

	if agg.DeploymentStatus != report.StatusLocalOnly {
		t.Fatalf("want LOCAL_ONLY, got %s", agg.DeploymentStatus)
	}
	if agg.ExitCode != 1 {
		t.Fatalf("want exit 1, got %d", agg.ExitCode)
	}
}

func TestOrchestrator_CriticalFailure(t *testing.T) {
	down := downURL(t)
	cfg := testConfig(down, down, down)

	agg := runScan(t, cfg)

	if agg.DeploymentStatus != report.StatusCriticalFailure {
		t.Fatalf("want CRITICAL_FAILURE, got %s", agg.DeploymentStatus)
	}
	if agg.ExitCode != 2 {
		t.Fatalf("want exit 2, got %d", agg.ExitCode)
	}
	// Every canary was unreachable: the issue catalog stays undetermined.
	if len(agg.Issues) != 0 {
		t.Fatalf("unreachable canaries must not trigger issues, got %+v", agg.Issues)
	}
	if len(agg.Undetermined) != len(checks.IssueCatalog()) {
		t.Fatalf("want %d undetermined issues, got %d", len(checks.IssueCatalog()), len(agg.Undetermined))
	}
}

func TestOrchestrator_MissingFeaturesTriggerIssuesAndExitOne(t *testing.T) {
	// Endpoints healthy but the game page ships none of the iPhone fixes.
	up := okServer(t, false)
	cfg := testConfig(up.URL, up.URL, up.URL)

	agg := runScan(t, cfg)

	if agg.DeploymentStatus != report.StatusFullyOperational {
		t.Fatalf("endpoints are up: want FULLY_OPERATIONAL, got %s", agg.DeploymentStatus)
	}
	if !checks.HasCritical(agg.Issues) {
		t.Fatalf("missing canvas fix must raise the critical issue, got %+v", agg.Issues)
	}
	if agg.ExitCode != 1 {
		t.Fatalf("critical issue on operational deployment: want exit 1, got %d", agg.ExitCode)
	}
	if agg.OverallStatus != "OPERATIONAL_WITH_ISSUES" {
		t.Fatalf("overall status %q", agg.OverallStatus)
	}
}

func TestOrchestrator_FeatureSourceFallsBackByRole(t *testing.T) {
	// Primary down, secondary up: features must come from the secondary.
	up := okServer(t, true)
	cfg := testConfig(downURL(t), up.URL, downURL(t))

	agg := runScan(t, cfg)

	if agg.FeatureSource != "aws" {
		t.Fatalf("want features from aws, got %q", agg.FeatureSource)
	}
	for _, f := range agg.Features {
		if f.Status == checks.StatusUndetermined {
			t.Fatalf("reachable canary must give determined findings, got %+v", f)
		}
	}
}

func TestOrchestrator_ParallelMatchesSequential(t *testing.T) {
	up := okServer(t, true)

	seq := testConfig(up.URL, downURL(t), up.URL)
	par := testConfig(up.URL, downURL(t), up.URL)
	par.Runtime.Parallel = true

	a := runScan(t, seq)
	b := runScan(t, par)

	if a.DeploymentStatus != b.DeploymentStatus || a.ExitCode != b.ExitCode {
		t.Fatalf("parallel run diverged: (%s,%d) vs (%s,%d)",
			a.DeploymentStatus, a.ExitCode, b.DeploymentStatus, b.ExitCode)
	}
}

func TestOrchestrator_IdempotentVerdict(t *testing.T) {
	up := okServer(t, true)
	cfg := testConfig(up.URL, up.URL, downURL(t))

	first := runScan(t, cfg)
	second := runScan(t, cfg)

	if first.DeploymentStatus != second.DeploymentStatus {
		t.Fatalf("verdict changed across identical runs: %s vs %s", first.DeploymentStatus, second.DeploymentStatus)
	}
	if first.ExitCode != second.ExitCode {
		t.Fatalf("exit code changed across identical runs: %d vs %d", first.ExitCode, second.ExitCode)
	}
}

func TestOrchestrator_NoTargets(t *testing.T) {
	cfg := config.New()
	cfg.Targets = nil

	agg := runScan(t, cfg)

	if agg.DeploymentStatus != report.StatusUnknown {
		t.Fatalf("want UNKNOWN, got %s", agg.DeploymentStatus)
	}
	if agg.ExitCode != 2 {
		t.Fatalf("want exit 2, got %d", agg.ExitCode)
	}
	if agg.Summary.TotalProbes != 0 || agg.Summary.ProbeSuccessRatePct != 0 {
		t.Fatalf("degenerate run must report zeroes, got %+v", agg.Summary)
	}
}

func TestOrchestrator_ThresholdBoundary(t *testing.T) {
	// 4/5 endpoints up = exactly 80%: strictly NOT operational.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/down" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(srv.URL, downURL(t), downURL(t))
	cfg.Endpoints = []probe.EndpointSpec{
		{Path: "/a", Name: "a"},
		{Path: "/b", Name: "b"},
		{Path: "/c", Name: "c"},
		{Path: "/d", Name: "d"},
		{Path: "/down", Name: "down"},
	}
	cfg.Verify.CanaryEndpoint = ""

	agg := runScan(t, cfg)

	if got := agg.Targets["localhost"].Summary.SuccessRatePct; got != 80 {
		t.Fatalf("expected exactly 80%% success, got %g", got)
	}
	if agg.DeploymentStatus != report.StatusCriticalFailure {
		t.Fatalf("at-threshold primary must not be operational; got %s", agg.DeploymentStatus)
	}
	if agg.ExitCode != 2 {
		t.Fatalf("want exit 2, got %d", agg.ExitCode)
	}
}
