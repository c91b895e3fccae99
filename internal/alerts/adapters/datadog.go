package adapters

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alertdash/alertdash/internal/alerts"
	"github.com/alertdash/alertdash/internal/engine"
)

// DatadogAdapter handles Datadog monitor webhooks
type DatadogAdapter struct{}

// NewDatadogAdapter creates a new Datadog adapter
func NewDatadogAdapter() *DatadogAdapter {
	return &DatadogAdapter{}
}

// SourceType returns the source type name
func (a *DatadogAdapter) SourceType() string {
	return "datadog"
}

// DatadogPayload represents the webhook payload from Datadog
type DatadogPayload struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	AlertType   string   `json:"alert_type"` // error, warning, info, success
	Priority    string   `json:"priority"`   // normal, low
	AlertID     string   `json:"alert_id"`
	AlertTitle  string   `json:"alert_title"`
	AlertStatus string   `json:"alert_status"` // Triggered, Recovered, etc.
	Hostname    string   `json:"hostname"`
	Date        int64    `json:"date"`
	Tags        []string `json:"tags"`
	AlertMetric string   `json:"alert_metric"`
	AlertQuery  string   `json:"alert_query"`
}

// ParsePayload parses a Datadog webhook payload into a single alert event
func (a *DatadogAdapter) ParsePayload(body []byte) ([]*engine.AlertEvent, error) {
	var payload DatadogPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse datadog payload: %w", err)
	}
	return []*engine.AlertEvent{a.parseAlert(payload)}, nil
}

func (a *DatadogAdapter) parseAlert(payload DatadogPayload) *engine.AlertEvent {
	title := payload.AlertTitle
	if title == "" {
		title = payload.Title
	}

	sourceID := payload.AlertID
	if sourceID == "" {
		sourceID = payload.ID
	}

	labels := parseTags(payload.Tags)
	if payload.Hostname != "" {
		labels["host"] = payload.Hostname
	}

	annotations := make(map[string]string)
	if payload.AlertMetric != "" {
		annotations["metric"] = payload.AlertMetric
	}
	if payload.AlertQuery != "" {
		annotations["query"] = payload.AlertQuery
	}

	ev := &engine.AlertEvent{
		SourceID:    sourceID,
		Title:       title,
		Description: payload.Body,
		Severity:    a.mapSeverity(payload.AlertType, payload.Priority),
		Status:      alerts.NormalizeStatus(payload.AlertStatus),
		Source:      a.SourceType(),
		Labels:      labels,
		Annotations: annotations,
	}
	if payload.Date > 0 {
		ev.StartedAt = time.Unix(payload.Date, 0).UTC()
	}
	return ev
}

// mapSeverity maps Datadog alert_type to a severity, falling back to priority
func (a *DatadogAdapter) mapSeverity(alertType, priority string) engine.Severity {
	switch strings.ToLower(alertType) {
	case "error":
		return engine.SeverityCritical
	case "warning":
		return engine.SeverityMedium
	case "info", "success":
		return engine.SeverityInfo
	}

	switch strings.ToLower(priority) {
	case "normal":
		return engine.SeverityMedium
	case "low":
		return engine.SeverityLow
	}

	return engine.SeverityMedium
}

// parseTags parses Datadog "key:value" tags into a label map
func parseTags(tags []string) map[string]string {
	result := make(map[string]string, len(tags))
	for _, tag := range tags {
		parts := strings.SplitN(tag, ":", 2)
		if len(parts) == 2 {
			result[parts[0]] = parts[1]
		} else {
			result[tag] = "true"
		}
	}
	return result
}
