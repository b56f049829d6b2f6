package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"deployverify/internal/probe"
)

// File schema for --config. Timeouts are in seconds, the way the catalog
// has always been written:
//
//	threshold: 80
//	canary_endpoint: game_page
//	targets:
//	  - name: localhost
//	    base_url: http://localhost:5030
//	    description: Local development server
//	    timeout: 5
//	    role: primary
//	endpoints:
//	  - path: /game
//	    name: game_page
//	    expected_markers: ["gameCanvas"]
type fileConfig struct {
	Threshold      *float64       `yaml:"threshold"`
	CanaryEndpoint string         `yaml:"canary_endpoint"`
	Targets        []fileTarget   `yaml:"targets"`
	Endpoints      []fileEndpoint `yaml:"endpoints"`
}

type fileTarget struct {
	Name           string `yaml:"name"`
	BaseURL        string `yaml:"base_url"`
	Description    string `yaml:"description"`
	TimeoutSeconds int    `yaml:"timeout"`
	Role           string `yaml:"role"`
}

type fileEndpoint struct {
	Path            string   `yaml:"path"`
	Name            string   `yaml:"name"`
	ExpectedMarkers []string `yaml:"expected_markers"`
	TimeoutSeconds  int      `yaml:"timeout"`
}

// ApplyFile overlays a YAML catalog file onto the config. Sections present
// in the file replace the built-in defaults wholesale; absent sections keep
// them.
func (c *Config) ApplyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.Threshold != nil {
		c.Verify.OperationalThresholdPct = *fc.Threshold
	}
	if fc.CanaryEndpoint != "" {
		c.Verify.CanaryEndpoint = fc.CanaryEndpoint
	}
	if fc.Targets != nil {
		targets := make([]probe.TargetSpec, 0, len(fc.Targets))
		for _, t := range fc.Targets {
			timeout := time.Duration(t.TimeoutSeconds) * time.Second
			if t.TimeoutSeconds == 0 {
				timeout = 10 * time.Second
			}
			targets = append(targets, probe.TargetSpec{
				Name:        t.Name,
				BaseURL:     t.BaseURL,
				Description: t.Description,
				Timeout:     timeout,
				Role:        probe.Role(t.Role),
			})
		}
		c.Targets = targets
	}
	if fc.Endpoints != nil {
		endpoints := make([]probe.EndpointSpec, 0, len(fc.Endpoints))
		for _, e := range fc.Endpoints {
			endpoints = append(endpoints, probe.EndpointSpec{
				Path:            e.Path,
				Name:            e.Name,
				ExpectedMarkers: e.ExpectedMarkers,
				TimeoutOverride: time.Duration(e.TimeoutSeconds) * time.Second,
			})
		}
		c.Endpoints = endpoints
	}

	return nil
}
