package simulator

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/alertdash/alertdash/internal/engine"
)

// Simulator feeds generated alert events into the engine at a fixed
// interval
type Simulator struct {
	engine   *engine.Engine
	scenario *Scenario
	rng      *rand.Rand

	severities []engine.Severity
	weightSum  int
	checks     []CheckTemplate

	// recent holds previously emitted events so a fraction of the stream
	// can repeat an identity or resolve one
	recent []*engine.AlertEvent
}

const recentWindow = 50

// NewSimulator creates a simulator for the given scenario. A zero seed
// seeds from the wall clock.
func NewSimulator(eng *engine.Engine, scenario *Scenario) (*Simulator, error) {
	if scenario == nil {
		scenario = DefaultScenario()
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	seed := scenario.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Simulator{
		engine:   eng,
		scenario: scenario,
		rng:      rand.New(rand.NewSource(seed)),
	}

	weights := scenario.SeverityWeights
	if len(weights) == 0 {
		weights = DefaultScenario().SeverityWeights
	}
	for _, sev := range []engine.Severity{
		engine.SeverityInfo,
		engine.SeverityLow,
		engine.SeverityMedium,
		engine.SeverityHigh,
		engine.SeverityCritical,
	} {
		if w := weights[sev]; w > 0 {
			s.severities = append(s.severities, sev)
			s.weightSum += w
		}
	}
	if s.weightSum == 0 {
		s.severities = []engine.Severity{engine.SeverityMedium}
		s.weightSum = 1
	}

	s.checks = scenario.Checks
	if len(s.checks) == 0 {
		s.checks = defaultChecks
	}

	return s, nil
}

// Start runs the simulator loop until the stop channel is closed
func (s *Simulator) Start(stop <-chan struct{}) {
	interval := s.scenario.Interval()
	log.Printf("Simulator started: scenario=%s interval=%s", s.scenario.Name, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, event := range s.NextBatch() {
				if _, err := s.engine.Ingest(event); err != nil {
					log.Printf("Simulator ingest error: %v", err)
				}
			}
		case <-stop:
			log.Println("Simulator stopped")
			return
		}
	}
}

// NextBatch generates one tick's worth of events
func (s *Simulator) NextBatch() []*engine.AlertEvent {
	size := s.scenario.BatchSize
	if size <= 0 {
		size = 1
	}
	batch := make([]*engine.AlertEvent, 0, size)
	for i := 0; i < size; i++ {
		batch = append(batch, s.NextEvent())
	}
	return batch
}

// NextEvent generates the next event in the stream
func (s *Simulator) NextEvent() *engine.AlertEvent {
	roll := s.rng.Float64()

	if len(s.recent) > 0 {
		if roll < s.scenario.ResolveRatio {
			return s.resolveEvent()
		}
		if roll < s.scenario.ResolveRatio+s.scenario.DuplicateRatio {
			return s.duplicateEvent()
		}
	}

	event := s.freshEvent()
	s.remember(event)
	return event
}

func (s *Simulator) freshEvent() *engine.AlertEvent {
	source := s.pick(s.scenario.Sources)
	host := s.pick(s.scenario.Hosts)
	severity := s.pickSeverity()

	labels := map[string]string{"host": host}
	if len(s.scenario.Services) > 0 {
		labels["service"] = s.pick(s.scenario.Services)
	}

	check := s.checks[s.rng.Intn(len(s.checks))]
	return &engine.AlertEvent{
		SourceID:    fmt.Sprintf("%s-%s-%06d", check.Name, host, s.rng.Intn(1000000)),
		Title:       fmt.Sprintf("%s on %s", check.Title, host),
		Description: fmt.Sprintf("Simulated %s alert for %s", check.Name, host),
		Severity:    severity,
		Status:      engine.StatusActive,
		Source:      source,
		Labels:      labels,
		Annotations: map[string]string{"simulated": "true"},
		StartedAt:   time.Now().UTC(),
	}
}

// duplicateEvent repeats the identity of a recent event, possibly at a
// different severity so incident aggregates move
func (s *Simulator) duplicateEvent() *engine.AlertEvent {
	base := s.recent[s.rng.Intn(len(s.recent))]
	dup := *base
	if s.rng.Float64() < 0.25 {
		dup.Severity = s.pickSeverity()
	}
	dup.StartedAt = time.Now().UTC()
	return &dup
}

func (s *Simulator) resolveEvent() *engine.AlertEvent {
	idx := s.rng.Intn(len(s.recent))
	base := s.recent[idx]
	s.recent = append(s.recent[:idx], s.recent[idx+1:]...)

	resolved := *base
	resolved.Status = engine.StatusResolved
	resolved.StartedAt = time.Now().UTC()
	return &resolved
}

func (s *Simulator) remember(event *engine.AlertEvent) {
	s.recent = append(s.recent, event)
	if len(s.recent) > recentWindow {
		s.recent = s.recent[1:]
	}
}

func (s *Simulator) pick(items []string) string {
	return items[s.rng.Intn(len(items))]
}

func (s *Simulator) pickSeverity() engine.Severity {
	roll := s.rng.Intn(s.weightSum)
	weights := s.scenario.SeverityWeights
	if len(weights) == 0 {
		weights = DefaultScenario().SeverityWeights
	}
	for _, sev := range s.severities {
		roll -= weights[sev]
		if roll < 0 {
			return sev
		}
	}
	return s.severities[len(s.severities)-1]
}

var defaultChecks = []CheckTemplate{
	{Name: "cpu_usage", Title: "High CPU usage"},
	{Name: "memory_usage", Title: "High memory usage"},
	{Name: "disk_space", Title: "Low disk space"},
	{Name: "http_latency", Title: "HTTP latency above threshold"},
	{Name: "error_rate", Title: "Elevated error rate"},
}
