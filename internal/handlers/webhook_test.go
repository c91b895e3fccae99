package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/alertdash/alertdash/internal/api"
)

const alertmanagerPayload = `{
	"status": "firing",
	"alerts": [
		{
			"status": "firing",
			"labels": {"alertname": "HighMemoryUsage", "severity": "critical", "service": "checkout"},
			"annotations": {"summary": "Memory above 90%"},
			"startsAt": "2026-01-15T10:30:00Z",
			"fingerprint": "am-fp-1"
		}
	]
}`

func TestWebhook_AlertmanagerDelivery(t *testing.T) {
	s := newTestServer(t)

	w := s.doRaw(t, "/webhook/alert/alertmanager", alertmanagerPayload)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp api.WebhookResponse
	decodeBody(t, w, &resp)
	if resp.Accepted != 1 || resp.Rejected != 0 {
		t.Fatalf("Expected 1 accepted, got %+v", resp)
	}
	if resp.Results[0].Outcome != "new" {
		t.Errorf("Expected outcome new, got %q", resp.Results[0].Outcome)
	}
	if resp.Results[0].IncidentID == "" {
		t.Error("Expected incident assignment")
	}

	// Same delivery again is a duplicate, still accepted
	w = s.doRaw(t, "/webhook/alert/alertmanager", alertmanagerPayload)
	decodeBody(t, w, &resp)
	if resp.Results[0].Outcome != "duplicate" {
		t.Errorf("Expected outcome duplicate, got %q", resp.Results[0].Outcome)
	}

	if s.engine.AlertCount() != 1 {
		t.Errorf("Expected 1 stored alert, got %d", s.engine.AlertCount())
	}
}

func TestWebhook_UnknownSource(t *testing.T) {
	s := newTestServer(t)
	w := s.doRaw(t, "/webhook/alert/nagios", `{}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown source, got %d", w.Code)
	}
}

func TestWebhook_MalformedPayload(t *testing.T) {
	s := newTestServer(t)
	w := s.doRaw(t, "/webhook/alert/generic", `{broken`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed payload, got %d", w.Code)
	}
}

func TestWebhook_GenericPartialFailure(t *testing.T) {
	s := newTestServer(t)

	// Second event is missing severity and must be rejected; the first
	// still lands.
	body := `[
		{"source_id": "a", "title": "First", "severity": "high", "source": "custom"},
		{"source_id": "b", "title": "Second", "source": "custom"}
	]`
	w := s.doRaw(t, "/webhook/alert/generic", body)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for partial success, got %d", w.Code)
	}

	var resp api.WebhookResponse
	decodeBody(t, w, &resp)
	if resp.Accepted != 1 || resp.Rejected != 1 {
		t.Fatalf("Expected 1 accepted and 1 rejected, got %+v", resp)
	}
	if !strings.Contains(resp.Results[1].Error, "severity") {
		t.Errorf("Expected severity validation error, got %q", resp.Results[1].Error)
	}
}

func TestWebhook_AllRejected(t *testing.T) {
	s := newTestServer(t)
	w := s.doRaw(t, "/webhook/alert/generic", `{"title": "no source or severity"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 when every alert is rejected, got %d", w.Code)
	}
}
