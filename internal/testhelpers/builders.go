// Package testhelpers provides reusable testing utilities: alert data
// builders and HTTP test helpers.
package testhelpers

import (
	"time"

	"github.com/alertdash/alertdash/internal/engine"
)

// ========================================
// Alert Event Builder
// ========================================

// AlertEventBuilder builds AlertEvent instances for testing
type AlertEventBuilder struct {
	event engine.AlertEvent
}

// NewAlertEventBuilder creates a new event builder with defaults
func NewAlertEventBuilder() *AlertEventBuilder {
	return &AlertEventBuilder{
		event: engine.AlertEvent{
			SourceID:  "test-check-1",
			Title:     "Test alert",
			Severity:  engine.SeverityMedium,
			Status:    engine.StatusActive,
			Source:    "prometheus",
			StartedAt: time.Now().UTC(),
		},
	}
}

// WithSourceID sets the source-assigned identifier
func (b *AlertEventBuilder) WithSourceID(id string) *AlertEventBuilder {
	b.event.SourceID = id
	return b
}

// WithTitle sets the title
func (b *AlertEventBuilder) WithTitle(title string) *AlertEventBuilder {
	b.event.Title = title
	return b
}

// WithDescription sets the description
func (b *AlertEventBuilder) WithDescription(desc string) *AlertEventBuilder {
	b.event.Description = desc
	return b
}

// WithSeverity sets the severity
func (b *AlertEventBuilder) WithSeverity(severity engine.Severity) *AlertEventBuilder {
	b.event.Severity = severity
	return b
}

// WithStatus sets the status
func (b *AlertEventBuilder) WithStatus(status engine.Status) *AlertEventBuilder {
	b.event.Status = status
	return b
}

// WithSource sets the source system
func (b *AlertEventBuilder) WithSource(source string) *AlertEventBuilder {
	b.event.Source = source
	return b
}

// WithLabel adds a single label
func (b *AlertEventBuilder) WithLabel(key, value string) *AlertEventBuilder {
	if b.event.Labels == nil {
		b.event.Labels = map[string]string{}
	}
	b.event.Labels[key] = value
	return b
}

// WithAnnotation adds a single annotation
func (b *AlertEventBuilder) WithAnnotation(key, value string) *AlertEventBuilder {
	if b.event.Annotations == nil {
		b.event.Annotations = map[string]string{}
	}
	b.event.Annotations[key] = value
	return b
}

// WithStartedAt sets the start time
func (b *AlertEventBuilder) WithStartedAt(t time.Time) *AlertEventBuilder {
	b.event.StartedAt = t
	return b
}

// Build returns the constructed event. Maps are copied so a reused
// builder never aliases previously built events.
func (b *AlertEventBuilder) Build() *engine.AlertEvent {
	ev := b.event
	ev.Labels = copyMap(b.event.Labels)
	ev.Annotations = copyMap(b.event.Annotations)
	return &ev
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ========================================
// Alert Record Builder
// ========================================

// AlertRecordBuilder builds AlertRecord instances for testing
type AlertRecordBuilder struct {
	record engine.AlertRecord
}

// NewAlertRecordBuilder creates a new record builder with defaults
func NewAlertRecordBuilder() *AlertRecordBuilder {
	now := time.Now().UTC()
	return &AlertRecordBuilder{
		record: engine.AlertRecord{
			ID:          "test-alert-id",
			Fingerprint: "deadbeefdeadbeef",
			Title:       "Test alert",
			Severity:    engine.SeverityMedium,
			Status:      engine.StatusActive,
			Source:      "prometheus",
			SourceID:    "test-check-1",
			StartedAt:   now,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

// WithID sets the record ID
func (b *AlertRecordBuilder) WithID(id string) *AlertRecordBuilder {
	b.record.ID = id
	return b
}

// WithFingerprint sets the fingerprint
func (b *AlertRecordBuilder) WithFingerprint(fp string) *AlertRecordBuilder {
	b.record.Fingerprint = fp
	return b
}

// WithTitle sets the title
func (b *AlertRecordBuilder) WithTitle(title string) *AlertRecordBuilder {
	b.record.Title = title
	return b
}

// WithDescription sets the description
func (b *AlertRecordBuilder) WithDescription(desc string) *AlertRecordBuilder {
	b.record.Description = desc
	return b
}

// WithSeverity sets the severity
func (b *AlertRecordBuilder) WithSeverity(severity engine.Severity) *AlertRecordBuilder {
	b.record.Severity = severity
	return b
}

// WithStatus sets the status
func (b *AlertRecordBuilder) WithStatus(status engine.Status) *AlertRecordBuilder {
	b.record.Status = status
	return b
}

// WithSource sets the source system
func (b *AlertRecordBuilder) WithSource(source string) *AlertRecordBuilder {
	b.record.Source = source
	return b
}

// WithLabel adds a single label
func (b *AlertRecordBuilder) WithLabel(key, value string) *AlertRecordBuilder {
	if b.record.Labels == nil {
		b.record.Labels = map[string]string{}
	}
	b.record.Labels[key] = value
	return b
}

// WithIncidentID sets the incident membership
func (b *AlertRecordBuilder) WithIncidentID(id string) *AlertRecordBuilder {
	b.record.IncidentID = id
	return b
}

// Resolved marks the record resolved
func (b *AlertRecordBuilder) Resolved() *AlertRecordBuilder {
	now := time.Now().UTC()
	b.record.Status = engine.StatusResolved
	b.record.ResolvedAt = &now
	return b
}

// Build returns the constructed record
func (b *AlertRecordBuilder) Build() *engine.AlertRecord {
	rec := b.record
	return rec.Clone()
}
