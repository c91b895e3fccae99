package engine

import "time"

// Enrichment is an opaque annotation attached to an alert by an external
// collaborator (AI agent, external API, user). Append-only.
type Enrichment struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// Correlation links an alert to a related alert. Append-only.
type Correlation struct {
	AlertID    string    `json:"alert_id"`
	Type       string    `json:"type"` // temporal, spatial, causal
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// AlertRecord is the canonical stored state for one alert condition.
// The fingerprint is the primary key and never changes; mutable fields are
// overwritten wholesale on every non-duplicate delivery.
type AlertRecord struct {
	ID          string            `json:"id"`
	Fingerprint string            `json:"fingerprint"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Severity    Severity          `json:"severity"`
	Status      Status            `json:"status"`
	Source      string            `json:"source"`
	SourceID    string            `json:"source_id"`
	Labels      map[string]string `json:"labels,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
	StartedAt   time.Time         `json:"started_at"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	ResolvedAt  *time.Time        `json:"resolved_at,omitempty"`
	IncidentID  string            `json:"incident_id,omitempty"`

	Enrichments  []Enrichment  `json:"enrichments,omitempty"`
	Correlations []Correlation `json:"correlations,omitempty"`
}

// Clone returns a deep copy so readers never observe writer mutations
func (r *AlertRecord) Clone() *AlertRecord {
	c := *r
	c.Labels = cloneStringMap(r.Labels)
	c.Annotations = cloneStringMap(r.Annotations)
	if r.ResolvedAt != nil {
		t := *r.ResolvedAt
		c.ResolvedAt = &t
	}
	if len(r.Enrichments) > 0 {
		c.Enrichments = append([]Enrichment(nil), r.Enrichments...)
	}
	if len(r.Correlations) > 0 {
		c.Correlations = append([]Correlation(nil), r.Correlations...)
	}
	return &c
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
