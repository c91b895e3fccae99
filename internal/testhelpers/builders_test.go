package testhelpers

import (
	"net/http"
	"testing"

	"github.com/alertdash/alertdash/internal/engine"
)

func TestAlertEventBuilderDefaults(t *testing.T) {
	event := NewAlertEventBuilder().Build()

	if err := event.Validate(); err != nil {
		t.Errorf("Default event should validate, got %v", err)
	}
	if event.Severity != engine.SeverityMedium {
		t.Errorf("Expected default severity medium, got %s", event.Severity)
	}
	if event.Source != "prometheus" {
		t.Errorf("Expected default source prometheus, got %s", event.Source)
	}
}

func TestAlertEventBuilderOverrides(t *testing.T) {
	event := NewAlertEventBuilder().
		WithSourceID("disk-full-db-01").
		WithTitle("Disk full").
		WithSeverity(engine.SeverityCritical).
		WithStatus(engine.StatusResolved).
		WithSource("nagios").
		WithLabel("host", "db-01").
		WithAnnotation("runbook", "https://wiki/disk").
		Build()

	if event.SourceID != "disk-full-db-01" {
		t.Errorf("Expected source ID disk-full-db-01, got %s", event.SourceID)
	}
	if event.Severity != engine.SeverityCritical {
		t.Errorf("Expected severity critical, got %s", event.Severity)
	}
	if event.Labels["host"] != "db-01" {
		t.Errorf("Expected host label db-01, got %s", event.Labels["host"])
	}
	if event.Annotations["runbook"] != "https://wiki/disk" {
		t.Errorf("Expected runbook annotation, got %s", event.Annotations["runbook"])
	}
}

func TestAlertEventBuilderIsolated(t *testing.T) {
	builder := NewAlertEventBuilder().WithLabel("env", "prod")
	first := builder.Build()
	builder.WithLabel("env", "staging")

	// Build must not share label maps with the builder
	if first.Labels["env"] != "prod" {
		t.Errorf("Expected first event to keep env=prod, got %s", first.Labels["env"])
	}
}

func TestAlertRecordBuilder(t *testing.T) {
	record := NewAlertRecordBuilder().
		WithID("a-1").
		WithSeverity(engine.SeverityHigh).
		WithLabel("service", "checkout").
		WithIncidentID("inc-1").
		Build()

	if record.ID != "a-1" {
		t.Errorf("Expected ID a-1, got %s", record.ID)
	}
	if record.IncidentID != "inc-1" {
		t.Errorf("Expected incident inc-1, got %s", record.IncidentID)
	}

	resolved := NewAlertRecordBuilder().Resolved().Build()
	if resolved.Status != engine.StatusResolved {
		t.Errorf("Expected status resolved, got %s", resolved.Status)
	}
	if resolved.ResolvedAt == nil {
		t.Error("Expected ResolvedAt to be set on resolved record")
	}
}

func TestHTTPTestContext(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Test") != "yes" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	})

	var body struct {
		OK bool `json:"ok"`
	}
	NewHTTPTestContext(t, http.MethodGet, "/ping", nil).
		WithHeader("X-Test", "yes").
		ExecuteFunc(handler).
		AssertStatus(http.StatusOK).
		AssertHeader("Content-Type", "application/json").
		AssertBodyContains(`"ok"`).
		DecodeJSON(&body)

	if !body.OK {
		t.Error("Expected decoded ok=true")
	}
}
