package engine

import "time"

// AlertEvent is an inbound alert delivery. Events carry no identity of their
// own: identity is derived from content via Fingerprint.
type AlertEvent struct {
	SourceID    string            `json:"source_id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Severity    Severity          `json:"severity"`
	Status      Status            `json:"status"`
	Source      string            `json:"source"`
	Labels      map[string]string `json:"labels,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
	StartedAt   time.Time         `json:"started_at"`
}

// Validate checks that the event carries the fields required to derive an
// identity and that its enums are known values
func (e *AlertEvent) Validate() error {
	if e.Source == "" {
		return &ValidationError{Field: "source", Message: "is required"}
	}
	if e.SourceID == "" && e.Title == "" {
		return &ValidationError{Field: "source_id", Message: "or title is required to derive identity"}
	}
	if !e.Severity.IsValid() {
		return &ValidationError{Field: "severity", Message: "must be one of info, low, medium, high, critical"}
	}
	if e.Status == "" {
		e.Status = StatusActive
	}
	if !e.Status.IsValid() {
		return &ValidationError{Field: "status", Message: "must be one of active, acknowledged, resolved, suppressed, dismissed"}
	}
	return nil
}
