package checks

// CanaryEndpointName names the endpoint whose body feeds the feature
// catalog. The game page carries the platform-specific rendering, touch
// and performance code every check looks for.
const CanaryEndpointName = "game_page"

// FeatureCatalog returns the built-in feature checks evaluated against the
// canary endpoint. Each predicate is a set of literal substrings that the
// deployed page must contain for the feature to count as implemented.
func FeatureCatalog() []FeatureCheck {
	return []FeatureCheck{
		{
			ID:          "iphone-canvas-fix",
			Feature:     "iPhone Canvas Fix",
			Severity:    SeverityCritical,
			Description: "Game page carries the iPhone-specific minimal rendering path instead of the full pipeline",
			Predicate:   Predicate{AllOf: []string{"currentPlatformConfig.platform.isIPhone"}},
		},
		{
			ID:          "touch-controls",
			Feature:     "Touch Controls",
			Severity:    SeverityMajor,
			Description: "Game page includes touch control buttons for mobile devices",
			Predicate:   Predicate{AllOf: []string{"touch-controls", "touch-fire"}},
		},
		{
			ID:          "safe-area-support",
			Feature:     "Safe Area Support",
			Severity:    SeverityMajor,
			Description: "Page declares viewport-fit=cover and safe area CSS for the iPhone notch and home indicator",
			Predicate:   Predicate{AllOf: []string{"viewport-fit=cover", "safe-area-inset"}},
		},
		{
			ID:          "performance-optimization",
			Feature:     "Performance Optimization",
			Severity:    SeverityMajor,
			Description: "Game ships an iPhone performance configuration with frame rate limiting",
			Predicate:   Predicate{AllOf: []string{"iPhoneConfig", "targetFPS"}},
		},
	}
}

// IssueCatalog returns the built-in known-issue signatures. Each issue is
// gated on one feature check: it is reported only when that check is
// MISSING for the run.
func IssueCatalog() []IssueRecord {
	return []IssueRecord{
		{
			ID:          "IPHONE_CANVAS_001",
			Title:       "CRITICAL: iPhone Canvas Rendering Completely Broken",
			Severity:    SeverityCritical,
			Description: "iPhone users see only a dark green background instead of the game on both Safari and Chrome",
			Evidence: map[string]string{
				"working_endpoint":    "/minimal shows iPhone canvas works perfectly",
				"broken_endpoint":     "/game shows only dark green background",
				"comparison_endpoint": "/comparison provides side-by-side evidence",
				"root_cause":          "Complex game initialization interferes with iPhone Canvas 2D context",
			},
			Recommendation: "Replace main game iPhone rendering with the proven minimal approach",
			Labels:         []string{"bug", "critical", "mobile", "iPhone", "canvas"},
			TriggerCheckID: "iphone-canvas-fix",
		},
		{
			ID:          "IPHONE_UX_002",
			Title:       "Mobile UX: Missing iPhone Safe Area and Touch Optimization",
			Severity:    SeverityMajor,
			Description: "Missing safe area support, mobile viewport meta tag and touch controls make the interface unusable on iPhone",
			Evidence: map[string]string{
				"missing_safe_area":     "No CSS safe-area-inset for the iPhone notch and home indicator",
				"missing_viewport_meta": "No viewport-fit=cover mobile viewport configuration",
				"missing_touch":         "No touch-friendly game controls",
			},
			Recommendation: "Add mobile-first responsive design with safe area insets and touch controls",
			Labels:         []string{"enhancement", "mobile", "UX", "responsive"},
			TriggerCheckID: "safe-area-support",
		},
		{
			ID:          "IPHONE_PERF_003",
			Title:       "Performance: iPhone-Specific Optimization Needed",
			Severity:    SeverityMajor,
			Description: "Game performance is not adapted to iPhone limitations (60 FPS target, desktop canvas size, no iOS memory management)",
			Evidence: map[string]string{
				"canvas_limit":      "iOS Safari limits canvas to 2048x2048 pixels",
				"memory_limit":      "iOS Safari recommends staying under 64MB",
				"audio_restriction": "iOS audio requires user interaction",
			},
			Recommendation: "Add an iPhone-specific performance configuration with frame rate limiting and a reduced canvas size",
			Labels:         []string{"enhancement", "mobile", "performance"},
			TriggerCheckID: "performance-optimization",
		},
	}
}
