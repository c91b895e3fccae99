package api

import (
	"github.com/alertdash/alertdash/internal/engine"
)

// ========== Query Types ==========

// QueryRequest is the request body for POST /api/alerts, for callers that
// need richer filters than the query string can express.
type QueryRequest struct {
	Filter  *engine.FilterSpec  `json:"filter,omitempty"`
	Options engine.QueryOptions `json:"options"`
}

// ========== Bulk Action Types ==========

// BulkActionRequest is the request body for POST /api/alerts/bulk.
type BulkActionRequest struct {
	AlertIDs []string `json:"alert_ids" validate:"required,min=1,max=500"`
	Action   string   `json:"action" validate:"required,oneof=acknowledge suppress resolve dismiss assign"`
	Reason   string   `json:"reason" validate:"omitempty,max=512"`
}

// ========== Enrichment Types ==========

// EnrichRequest is the request body for POST /api/alerts/:id/enrich.
type EnrichRequest struct {
	Key    string `json:"key" validate:"required,min=1,max=128"`
	Value  string `json:"value" validate:"required"`
	Source string `json:"source" validate:"required,oneof=user ai_agent integration"`
}

// CorrelateRequest is the request body for POST /api/alerts/:id/correlate.
type CorrelateRequest struct {
	RelatedAlertID string  `json:"related_alert_id" validate:"required"`
	Type           string  `json:"type" validate:"required,min=1,max=64"`
	Confidence     float64 `json:"confidence" validate:"min=0,max=1"`
}

// ========== Preset Types ==========

// CreatePresetRequest is the request body for POST /api/presets.
type CreatePresetRequest struct {
	Name        string              `json:"name" validate:"required,min=1,max=128"`
	Description string              `json:"description" validate:"omitempty,max=1024"`
	Filter      engine.FilterSpec   `json:"filter"`
	Options     engine.QueryOptions `json:"options"`
}

// UpdatePresetRequest is the request body for PUT /api/presets/:id.
type UpdatePresetRequest struct {
	Name        *string              `json:"name" validate:"omitempty,min=1,max=128"`
	Description *string              `json:"description" validate:"omitempty,max=1024"`
	Filter      *engine.FilterSpec   `json:"filter"`
	Options     *engine.QueryOptions `json:"options"`
}

// ========== Settings Types ==========

// UpdateSettingsRequest is the request body for PUT /api/settings.
// Nil fields leave the current value unchanged.
type UpdateSettingsRequest struct {
	SuppressionWindowSeconds *int `json:"suppression_window_seconds" validate:"omitempty,min=1,max=86400"`
	ActiveWindowMinutes      *int `json:"active_window_minutes" validate:"omitempty,min=1,max=10080"`
}

// SettingsResponse is the response body for GET /api/settings.
type SettingsResponse struct {
	SuppressionWindowSeconds int `json:"suppression_window_seconds"`
	ActiveWindowMinutes      int `json:"active_window_minutes"`
}

// ========== Webhook Types ==========

// WebhookResponse summarizes the outcome of a webhook delivery.
type WebhookResponse struct {
	Accepted int                   `json:"accepted"`
	Rejected int                   `json:"rejected"`
	Results  []WebhookResultDetail `json:"results"`
}

// WebhookResultDetail reports the ingest outcome for one alert in a delivery.
type WebhookResultDetail struct {
	Outcome     string `json:"outcome,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	AlertID     string `json:"alert_id,omitempty"`
	IncidentID  string `json:"incident_id,omitempty"`
	Error       string `json:"error,omitempty"`
}
