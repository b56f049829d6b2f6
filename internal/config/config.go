package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"deployverify/internal/probe"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields that affect
	// verification behavior, keep the CLI flags in internal/cli in sync.
	Targets   []probe.TargetSpec
	Endpoints []probe.EndpointSpec
	Verify    Verify
	Output    Output
	Runtime   Runtime
}

type Verify struct {
	// OperationalThresholdPct is the success-rate bar a target must strictly
	// exceed to count as operational (see --threshold). Comparison is >, not
	// >=: exactly at the threshold is NOT operational.
	OperationalThresholdPct float64

	// CanaryEndpoint names the endpoint whose body feeds the feature and
	// issue catalogs.
	CanaryEndpoint string
}

type Output struct {
	// Report writes the aggregate JSON report to this path (see --out).
	Report string

	// IssuesOut writes generated GitHub issue payloads to this path
	// (see --issues-out). Empty disables the artifact.
	IssuesOut string

	// Emit writes an additional structured event stream to stdout (see --emit).
	// Allowed values: json, ndjson.
	Emit []string

	// NoConsole suppresses the console sink (see --no-console).
	NoConsole bool
}

type Runtime struct {
	// Parallel probes targets concurrently, one worker per target
	// (see --parallel). Off means strict sequential target order.
	Parallel bool

	// Verbose enables more detailed diagnostics.
	Verbose bool
}

// New returns the built-in Bolamiga verification catalog: three deployment
// targets in role precedence order and the seven endpoints each is expected
// to serve.
func New() *Config {
	return &Config{
		Targets: []probe.TargetSpec{
			{
				Name:        "localhost",
				BaseURL:     "http://localhost:5030",
				Description: "Local development server",
				Timeout:     5 * time.Second,
				Role:        probe.RolePrimary,
			},
			{
				Name:        "aws",
				BaseURL:     "http://98.85.254.126",
				Description: "AWS EC2 production deployment (port 80)",
				Timeout:     15 * time.Second,
				Role:        probe.RoleSecondary,
			},
			{
				Name:        "aws_direct",
				BaseURL:     "http://98.85.254.126:5030",
				Description: "AWS EC2 direct port access (port 5030)",
				Timeout:     15 * time.Second,
				Role:        probe.RoleTertiary,
			},
		},
		Endpoints: []probe.EndpointSpec{
			{Path: "/", Name: "root_page", ExpectedMarkers: []string{"BOLAMIGA"}},
			{Path: "/game", Name: "game_page", ExpectedMarkers: []string{"gameCanvas"}},
			{Path: "/api/health", Name: "health_api", ExpectedMarkers: []string{"healthy"}},
			{Path: "/api/highscores", Name: "highscores_api"},
			{Path: "/debug", Name: "iphone_debug", ExpectedMarkers: []string{"iPhone Chrome Canvas Debug"}},
			{Path: "/minimal", Name: "minimal_working", ExpectedMarkers: []string{"canvas"}},
			{Path: "/comparison", Name: "comparison_test", ExpectedMarkers: []string{"iPhone Game Comparison"}},
		},
		Verify: Verify{
			OperationalThresholdPct: 80,
			CanaryEndpoint:          "game_page",
		},
	}
}

func (c *Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Targets))
	for i, t := range c.Targets {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("target %d: name is required", i)
		}
		if _, dup := seen[t.Name]; dup {
			return fmt.Errorf("duplicate target name %q", t.Name)
		}
		seen[t.Name] = struct{}{}
		if err := validateBaseURL(t.BaseURL); err != nil {
			return fmt.Errorf("target %q: %w", t.Name, err)
		}
		if t.Timeout <= 0 {
			return fmt.Errorf("target %q: timeout must be > 0", t.Name)
		}
	}

	names := make(map[string]struct{}, len(c.Endpoints))
	for i, e := range c.Endpoints {
		if !strings.HasPrefix(e.Path, "/") {
			return fmt.Errorf("endpoint %d: path %q must start with /", i, e.Path)
		}
		if strings.TrimSpace(e.Name) == "" {
			return fmt.Errorf("endpoint %q: name is required", e.Path)
		}
		if _, dup := names[e.Name]; dup {
			return fmt.Errorf("duplicate endpoint name %q", e.Name)
		}
		names[e.Name] = struct{}{}
		if e.TimeoutOverride < 0 {
			return fmt.Errorf("endpoint %q: timeout override must be >= 0", e.Name)
		}
	}

	if c.Verify.OperationalThresholdPct < 0 || c.Verify.OperationalThresholdPct > 100 {
		return fmt.Errorf("threshold must be in [0,100], got %g", c.Verify.OperationalThresholdPct)
	}
	if c.Verify.CanaryEndpoint != "" {
		if _, ok := names[c.Verify.CanaryEndpoint]; !ok && len(c.Endpoints) > 0 {
			return fmt.Errorf("canary endpoint %q is not in the endpoint list", c.Verify.CanaryEndpoint)
		}
	}

	for _, emit := range c.Output.Emit {
		v := strings.ToLower(strings.TrimSpace(emit))
		if v != "json" && v != "ndjson" {
			return fmt.Errorf("unsupported --emit value: %s (must be one of: json, ndjson)", emit)
		}
	}

	return nil
}

// TargetByName returns the named target spec, or an error listing what is
// configured.
func (c *Config) TargetByName(name string) (probe.TargetSpec, error) {
	var known []string
	for _, t := range c.Targets {
		if t.Name == name {
			return t, nil
		}
		known = append(known, t.Name)
	}
	return probe.TargetSpec{}, fmt.Errorf("unknown target %q (configured: %s)", name, strings.Join(known, ", "))
}

// Primary returns the primary-role target if one is configured.
func (c *Config) Primary() (probe.TargetSpec, bool) {
	for _, t := range c.Targets {
		if t.Role == probe.RolePrimary {
			return t, true
		}
	}
	return probe.TargetSpec{}, false
}

func validateBaseURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("base_url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url %q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("base_url %q has no host", raw)
	}
	return nil
}
