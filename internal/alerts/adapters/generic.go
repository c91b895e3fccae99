package adapters

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/alertdash/alertdash/internal/alerts"
	"github.com/alertdash/alertdash/internal/engine"
)

// GenericAdapter accepts alert events posted directly as JSON, either a
// single object or an array. Severity and status strings are normalized so
// callers can use vendor vocabularies.
type GenericAdapter struct{}

// NewGenericAdapter creates a new generic JSON adapter
func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{}
}

// SourceType returns the source type name
func (a *GenericAdapter) SourceType() string {
	return "generic"
}

// ParsePayload parses one or more directly-posted alert events
func (a *GenericAdapter) ParsePayload(body []byte) ([]*engine.AlertEvent, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty payload")
	}

	var events []*engine.AlertEvent
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &events); err != nil {
			return nil, fmt.Errorf("failed to parse alert events: %w", err)
		}
	} else {
		var ev engine.AlertEvent
		if err := json.Unmarshal(trimmed, &ev); err != nil {
			return nil, fmt.Errorf("failed to parse alert event: %w", err)
		}
		events = []*engine.AlertEvent{&ev}
	}

	for _, ev := range events {
		if ev == nil {
			return nil, fmt.Errorf("payload contains a null alert event")
		}
		if ev.Source == "" {
			ev.Source = a.SourceType()
		}
		if ev.Severity != "" {
			ev.Severity = alerts.NormalizeSeverity(string(ev.Severity))
		}
		if ev.Status != "" {
			ev.Status = alerts.NormalizeStatus(string(ev.Status))
		}
	}
	return events, nil
}
