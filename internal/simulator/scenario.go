// Package simulator generates a synthetic alert stream for demos and load
// testing.
package simulator

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alertdash/alertdash/internal/engine"
)

// Scenario describes the shape of a simulated alert stream
type Scenario struct {
	Name       string `yaml:"name"`
	IntervalMs int    `yaml:"interval_ms"`
	Seed       int64  `yaml:"seed"`

	// BatchSize is the number of events emitted per tick (default 1)
	BatchSize int `yaml:"batch_size"`

	Sources  []string `yaml:"sources"`
	Services []string `yaml:"services"`
	Hosts    []string `yaml:"hosts"`

	// Checks are the title templates the generator draws from. Empty uses
	// a built-in set.
	Checks []CheckTemplate `yaml:"checks"`

	// SeverityWeights biases the severity distribution. Missing severities
	// get zero weight.
	SeverityWeights map[engine.Severity]int `yaml:"severity_weights"`

	// DuplicateRatio is the fraction of events that repeat a recent alert
	// identity, exercising deduplication. ResolveRatio is the fraction that
	// arrive with resolved status.
	DuplicateRatio float64 `yaml:"duplicate_ratio"`
	ResolveRatio   float64 `yaml:"resolve_ratio"`
}

// CheckTemplate names a simulated check and the alert title it produces
type CheckTemplate struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
}

// Interval returns the tick interval for the scenario
func (s *Scenario) Interval() time.Duration {
	if s.IntervalMs <= 0 {
		return time.Second
	}
	return time.Duration(s.IntervalMs) * time.Millisecond
}

// Validate checks the scenario for values the generator cannot work with
func (s *Scenario) Validate() error {
	if len(s.Sources) == 0 {
		return fmt.Errorf("scenario %q has no sources", s.Name)
	}
	if len(s.Hosts) == 0 {
		return fmt.Errorf("scenario %q has no hosts", s.Name)
	}
	if s.DuplicateRatio < 0 || s.DuplicateRatio > 1 {
		return fmt.Errorf("scenario %q duplicate_ratio must be between 0 and 1", s.Name)
	}
	if s.ResolveRatio < 0 || s.ResolveRatio > 1 {
		return fmt.Errorf("scenario %q resolve_ratio must be between 0 and 1", s.Name)
	}
	for _, check := range s.Checks {
		if check.Name == "" || check.Title == "" {
			return fmt.Errorf("scenario %q has a check without name or title", s.Name)
		}
	}
	for sev := range s.SeverityWeights {
		if !sev.IsValid() {
			return fmt.Errorf("scenario %q has unknown severity %q", s.Name, sev)
		}
	}
	return nil
}

// LoadScenario reads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file: %w", err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// DefaultScenario returns a scenario usable without any configuration
func DefaultScenario() *Scenario {
	return &Scenario{
		Name:       "default",
		IntervalMs: 1000,
		BatchSize:  1,
		Sources:    []string{"prometheus", "datadog", "healthcheck"},
		Services:   []string{"checkout", "payments", "search", "auth"},
		Hosts:      []string{"web-01", "web-02", "db-01", "cache-01", "worker-01"},
		SeverityWeights: map[engine.Severity]int{
			engine.SeverityInfo:     20,
			engine.SeverityLow:      25,
			engine.SeverityMedium:   30,
			engine.SeverityHigh:     18,
			engine.SeverityCritical: 7,
		},
		DuplicateRatio: 0.3,
		ResolveRatio:   0.1,
	}
}
