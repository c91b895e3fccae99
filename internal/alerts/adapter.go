// Package alerts normalizes vendor webhook payloads into engine alert events.
package alerts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alertdash/alertdash/internal/engine"
)

// Adapter parses a source-specific webhook body into alert events.
// A single webhook can carry multiple alerts (e.g. Alertmanager groups).
type Adapter interface {
	// SourceType returns the source type name (e.g. "alertmanager")
	SourceType() string

	// ParsePayload parses the raw request body into alert events
	ParsePayload(body []byte) ([]*engine.AlertEvent, error)
}

// Registry maps source type names to their adapters
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry creates an empty adapter registry
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter under its source type name
func (r *Registry) Register(a Adapter) {
	r.adapters[a.SourceType()] = a
}

// Get returns the adapter for a source type
func (r *Registry) Get(sourceType string) (Adapter, error) {
	a, ok := r.adapters[strings.ToLower(sourceType)]
	if !ok {
		return nil, fmt.Errorf("unknown alert source type: %s", sourceType)
	}
	return a, nil
}

// Sources returns the registered source type names, sorted
func (r *Registry) Sources() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NormalizeSeverity maps vendor severity vocabularies onto the five-level
// scheme. Unknown values default to medium.
func NormalizeSeverity(severity string) engine.Severity {
	severity = strings.ToLower(strings.TrimSpace(severity))

	if s := engine.Severity(severity); s.IsValid() {
		return s
	}

	for normalized, aliases := range severityAliases {
		for _, alias := range aliases {
			if alias == severity {
				return normalized
			}
		}
	}

	return engine.SeverityMedium
}

// NormalizeStatus maps vendor status vocabularies onto engine statuses.
// Unknown values default to active.
func NormalizeStatus(status string) engine.Status {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "firing", "alerting", "triggered", "active", "problem", "open":
		return engine.StatusActive
	case "resolved", "recovered", "recovery", "ok", "closed", "inactive":
		return engine.StatusResolved
	case "acknowledged", "acked":
		return engine.StatusAcknowledged
	case "suppressed", "silenced", "muted":
		return engine.StatusSuppressed
	case "dismissed":
		return engine.StatusDismissed
	default:
		return engine.StatusActive
	}
}

// severityAliases covers the vendor vocabularies seen across supported sources
var severityAliases = map[engine.Severity][]string{
	engine.SeverityCritical: {"disaster", "p1", "emergency", "fatal", "error", "sev1"},
	engine.SeverityHigh:     {"major", "p2", "severe", "sev2"},
	engine.SeverityMedium:   {"warning", "minor", "p3", "average", "warn", "moderate", "sev3"},
	engine.SeverityLow:      {"p4", "notice", "sev4"},
	engine.SeverityInfo:     {"informational", "p5", "debug", "success", "ok", "sev5"},
}
