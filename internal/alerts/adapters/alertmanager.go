package adapters

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/alertdash/alertdash/internal/alerts"
	"github.com/alertdash/alertdash/internal/engine"
)

// AlertmanagerAdapter handles Prometheus Alertmanager webhooks
type AlertmanagerAdapter struct{}

// NewAlertmanagerAdapter creates a new Alertmanager adapter
func NewAlertmanagerAdapter() *AlertmanagerAdapter {
	return &AlertmanagerAdapter{}
}

// SourceType returns the source type name
func (a *AlertmanagerAdapter) SourceType() string {
	return "alertmanager"
}

// AlertmanagerPayload represents the webhook payload from Alertmanager
type AlertmanagerPayload struct {
	Alerts            []AlertmanagerAlert `json:"alerts"`
	Status            string              `json:"status"`
	GroupLabels       map[string]string   `json:"groupLabels"`
	CommonLabels      map[string]string   `json:"commonLabels"`
	CommonAnnotations map[string]string   `json:"commonAnnotations"`
	ExternalURL       string              `json:"externalURL"`
	Version           string              `json:"version"`
	GroupKey          string              `json:"groupKey"`
}

// AlertmanagerAlert represents a single alert in the payload
type AlertmanagerAlert struct {
	Status       string            `json:"status"`
	Labels       map[string]string `json:"labels"`
	Annotations  map[string]string `json:"annotations"`
	StartsAt     time.Time         `json:"startsAt"`
	EndsAt       time.Time         `json:"endsAt"`
	GeneratorURL string            `json:"generatorURL"`
	Fingerprint  string            `json:"fingerprint"`
}

// ParsePayload parses an Alertmanager webhook payload into alert events
func (a *AlertmanagerAdapter) ParsePayload(body []byte) ([]*engine.AlertEvent, error) {
	var payload AlertmanagerPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse alertmanager payload: %w", err)
	}

	events := make([]*engine.AlertEvent, 0, len(payload.Alerts))
	for _, alert := range payload.Alerts {
		events = append(events, a.parseAlert(alert))
	}
	return events, nil
}

func (a *AlertmanagerAdapter) parseAlert(alert AlertmanagerAlert) *engine.AlertEvent {
	title := alert.Labels["alertname"]
	if title == "" {
		title = alert.Annotations["summary"]
	}

	description := alert.Annotations["description"]
	if description == "" {
		description = alert.Annotations["summary"]
	}

	annotations := make(map[string]string, len(alert.Annotations)+1)
	for k, v := range alert.Annotations {
		annotations[k] = v
	}
	if alert.GeneratorURL != "" {
		annotations["generator_url"] = alert.GeneratorURL
	}

	ev := &engine.AlertEvent{
		SourceID:    alert.Fingerprint,
		Title:       title,
		Description: description,
		Severity:    alerts.NormalizeSeverity(alert.Labels["severity"]),
		Status:      alerts.NormalizeStatus(alert.Status),
		Source:      a.SourceType(),
		Labels:      alert.Labels,
		Annotations: annotations,
	}
	if !alert.StartsAt.IsZero() {
		ev.StartedAt = alert.StartsAt
	}
	return ev
}
