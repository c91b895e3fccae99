package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/alertdash/alertdash/internal/api"
	"github.com/alertdash/alertdash/internal/database"
	"github.com/alertdash/alertdash/internal/engine"
)

func TestListAlerts_FilterAndPaginate(t *testing.T) {
	s := newTestServer(t)
	s.ingest(t, sampleEvent("srv-01", engine.SeverityCritical))
	s.ingest(t, sampleEvent("srv-02", engine.SeverityHigh))
	s.ingest(t, sampleEvent("srv-03", engine.SeverityInfo))

	w := s.do(t, http.MethodGet, "/api/alerts?severity=critical,high&sort=severity&order=desc", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var page engine.PagedAlerts
	decodeBody(t, w, &page)
	if page.Total != 2 {
		t.Fatalf("Expected 2 matches, got %d", page.Total)
	}
	if page.Items[0].Severity != engine.SeverityCritical {
		t.Errorf("Expected critical first, got %q", page.Items[0].Severity)
	}
	if page.Page != 1 || page.PageSize != 20 {
		t.Errorf("Expected normalized paging defaults, got page=%d size=%d", page.Page, page.PageSize)
	}
}

func TestListAlerts_InvalidFilter(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/alerts?severity=nuclear", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown severity, got %d", w.Code)
	}
	var body api.ErrorResponse
	decodeBody(t, w, &body)
	if body.Code != "validation_error" {
		t.Errorf("Expected validation_error code, got %q", body.Code)
	}
}

func TestQueryAlerts_PostBody(t *testing.T) {
	s := newTestServer(t)
	s.ingest(t, sampleEvent("srv-01", engine.SeverityCritical))
	s.ingest(t, sampleEvent("srv-02", engine.SeverityLow))

	req := api.QueryRequest{
		Filter:  &engine.FilterSpec{Tags: map[string]string{"service": "checkout"}, Severities: []engine.Severity{engine.SeverityCritical}},
		Options: engine.QueryOptions{PageSize: 5},
	}
	w := s.do(t, http.MethodPost, "/api/alerts", req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var page engine.PagedAlerts
	decodeBody(t, w, &page)
	if page.Total != 1 {
		t.Errorf("Expected 1 match, got %d", page.Total)
	}
}

func TestGetAlert(t *testing.T) {
	s := newTestServer(t)
	res := s.ingest(t, sampleEvent("srv-01", engine.SeverityHigh))

	w := s.do(t, http.MethodGet, "/api/alerts/"+res.AlertID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var rec engine.AlertRecord
	decodeBody(t, w, &rec)
	if rec.ID != res.AlertID {
		t.Errorf("Expected alert %s, got %s", res.AlertID, rec.ID)
	}

	w = s.do(t, http.MethodGet, "/api/alerts/missing-id", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown alert, got %d", w.Code)
	}
}

func TestBulkActionEndpoint(t *testing.T) {
	s := newTestServer(t)
	a := s.ingest(t, sampleEvent("srv-01", engine.SeverityHigh))
	b := s.ingest(t, sampleEvent("srv-02", engine.SeverityHigh))

	w := s.do(t, http.MethodPost, "/api/alerts/bulk", api.BulkActionRequest{
		AlertIDs: []string{a.AlertID, b.AlertID, "ghost"},
		Action:   "acknowledge",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result engine.BulkResult
	decodeBody(t, w, &result)
	if result.Updated != 2 || len(result.Failed) != 1 {
		t.Errorf("Unexpected bulk result: %+v", result)
	}

	// Unknown action fails request validation before reaching the engine
	w = s.do(t, http.MethodPost, "/api/alerts/bulk", api.BulkActionRequest{
		AlertIDs: []string{a.AlertID},
		Action:   "escalate",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for unknown action, got %d", w.Code)
	}
}

func TestEnrichAndCorrelateEndpoints(t *testing.T) {
	s := newTestServer(t)
	a := s.ingest(t, sampleEvent("srv-01", engine.SeverityHigh))
	b := s.ingest(t, sampleEvent("srv-02", engine.SeverityHigh))

	w := s.do(t, http.MethodPost, "/api/alerts/"+a.AlertID+"/enrich", api.EnrichRequest{
		Key: "probable_cause", Value: "memory pressure", Source: "ai_agent",
	})
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d: %s", w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodPost, "/api/alerts/"+a.AlertID+"/correlate", api.CorrelateRequest{
		RelatedAlertID: b.AlertID, Type: "temporal", Confidence: 0.9,
	})
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d: %s", w.Code, w.Body.String())
	}

	rec, err := s.engine.GetAlert(a.AlertID)
	if err != nil {
		t.Fatalf("GetAlert returned error: %v", err)
	}
	if len(rec.Enrichments) != 1 || len(rec.Correlations) != 1 {
		t.Errorf("Expected enrichment and correlation to be stored, got %+v", rec)
	}
}

func TestIncidentEndpoints(t *testing.T) {
	s := newTestServer(t)
	res := s.ingest(t, sampleEvent("srv-01", engine.SeverityCritical))
	s.ingest(t, sampleEvent("srv-02", engine.SeverityMedium))

	w := s.do(t, http.MethodGet, "/api/incidents", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var page engine.PagedIncidents
	decodeBody(t, w, &page)
	if page.Total != 1 {
		t.Fatalf("Expected both alerts grouped into 1 incident, got %d", page.Total)
	}
	if page.Items[0].Severity != engine.SeverityCritical {
		t.Errorf("Expected aggregate severity critical, got %q", page.Items[0].Severity)
	}

	w = s.do(t, http.MethodGet, "/api/incidents/"+res.IncidentID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var group engine.IncidentGroup
	decodeBody(t, w, &group)
	if group.MemberCount() != 2 {
		t.Errorf("Expected 2 members, got %d", group.MemberCount())
	}

	w = s.do(t, http.MethodGet, "/api/incidents/ghost", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown incident, got %d", w.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.ingest(t, sampleEvent("srv-01", engine.SeverityCritical))
	s.ingest(t, sampleEvent("srv-02", engine.SeverityCritical))

	w := s.do(t, http.MethodGet, "/api/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var stats engine.AggregateStats
	decodeBody(t, w, &stats)
	if stats.Total != 2 {
		t.Errorf("Expected total 2, got %d", stats.Total)
	}
	if stats.BySeverity[engine.SeverityCritical] != 2 {
		t.Errorf("Expected 2 critical, got %d", stats.BySeverity[engine.SeverityCritical])
	}
}

func TestExportEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.ingest(t, sampleEvent("srv-01", engine.SeverityCritical))

	w := s.do(t, http.MethodGet, "/api/export?format=csv", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Expected text/csv, got %q", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, `attachment; filename="`) || !strings.HasSuffix(cd, `"`) {
		t.Errorf("Expected quoted attachment filename, got %q", cd)
	}
	if !strings.Contains(cd, "alerts_export_") {
		t.Errorf("Expected attachment disposition, got %q", cd)
	}
	if !strings.HasPrefix(w.Body.String(), "id,fingerprint") {
		t.Errorf("Expected csv header, got %q", w.Body.String()[:40])
	}

	w = s.do(t, http.MethodGet, "/api/export?format=xml", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown format, got %d", w.Code)
	}
}

func TestPresetEndpoints(t *testing.T) {
	s := newTestServer(t)

	create := api.CreatePresetRequest{
		Name:        "prod-critical",
		Description: "critical in prod",
		Filter:      engine.FilterSpec{Severities: []engine.Severity{engine.SeverityCritical}},
		Options:     engine.QueryOptions{Sort: engine.SortBySeverity},
	}
	w := s.do(t, http.MethodPost, "/api/presets", create)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var preset database.FilterPreset
	decodeBody(t, w, &preset)
	if preset.UUID == "" {
		t.Fatal("Expected preset UUID in response")
	}

	// Duplicate name conflicts
	w = s.do(t, http.MethodPost, "/api/presets", create)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 for duplicate name, got %d", w.Code)
	}

	w = s.do(t, http.MethodGet, "/api/presets", nil)
	var presets []database.FilterPreset
	decodeBody(t, w, &presets)
	if len(presets) != 1 {
		t.Fatalf("Expected 1 preset, got %d", len(presets))
	}

	newName := "prod-critical-v2"
	w = s.do(t, http.MethodPut, "/api/presets/"+preset.UUID, api.UpdatePresetRequest{Name: &newName})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodGet, "/api/presets/"+preset.UUID, nil)
	decodeBody(t, w, &preset)
	if preset.Name != "prod-critical-v2" {
		t.Errorf("Expected renamed preset, got %q", preset.Name)
	}

	w = s.do(t, http.MethodDelete, "/api/presets/"+preset.UUID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", w.Code)
	}
	w = s.do(t, http.MethodGet, "/api/presets/"+preset.UUID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", w.Code)
	}
}

func TestSettingsEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/settings", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var settings api.SettingsResponse
	decodeBody(t, w, &settings)
	if settings.SuppressionWindowSeconds != 30 || settings.ActiveWindowMinutes != 60 {
		t.Errorf("Expected defaults, got %+v", settings)
	}

	supp := 45
	w = s.do(t, http.MethodPut, "/api/settings", api.UpdateSettingsRequest{SuppressionWindowSeconds: &supp})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	suppWindow, activeWindow := s.engine.Windows()
	if suppWindow.Seconds() != 45 {
		t.Errorf("Expected engine suppression window 45s, got %v", suppWindow)
	}
	if activeWindow.Minutes() != 60 {
		t.Errorf("Expected active window untouched, got %v", activeWindow)
	}

	// Out-of-range value fails validation
	bad := 0
	w = s.do(t, http.MethodPut, "/api/settings", api.UpdateSettingsRequest{SuppressionWindowSeconds: &bad})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for out-of-range window, got %d", w.Code)
	}
}
