package engine

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"
)

func ingestOne(t *testing.T, eng *Engine, ev *AlertEvent) *IngestResult {
	t.Helper()
	res, err := eng.Ingest(ev)
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}
	return res
}

func TestEngine_BulkActionPartialFailure(t *testing.T) {
	clock := newTestClock()
	eng := newClockedEngine(clock)

	active := ingestOne(t, eng, baseEvent())
	dismissedEv := baseEvent()
	dismissedEv.SourceID = "srv-02"
	dismissedEv.Status = StatusDismissed
	dismissed := ingestOne(t, eng, dismissedEv)

	ids := []string{active.AlertID, dismissed.AlertID, "no-such-id"}
	result, err := eng.BulkAction(ids, ActionResolve, "maintenance window")
	if err != nil {
		t.Fatalf("BulkAction returned error: %v", err)
	}

	if result.Updated != 1 {
		t.Errorf("Expected 1 updated, got %d", result.Updated)
	}
	if len(result.Failed) != 2 {
		t.Fatalf("Expected 2 failures, got %d", len(result.Failed))
	}

	failedByID := make(map[string]string)
	for _, f := range result.Failed {
		failedByID[f.ID] = f.Reason
	}
	if !strings.Contains(failedByID[dismissed.AlertID], "cannot resolve") {
		t.Errorf("Expected state conflict reason for dismissed alert, got %q", failedByID[dismissed.AlertID])
	}
	if !strings.Contains(failedByID["no-such-id"], "not found") {
		t.Errorf("Expected not-found reason for unknown id, got %q", failedByID["no-such-id"])
	}

	rec, err := eng.GetAlert(active.AlertID)
	if err != nil {
		t.Fatalf("GetAlert returned error: %v", err)
	}
	if rec.Status != StatusResolved {
		t.Errorf("Expected status %q, got %q", StatusResolved, rec.Status)
	}
	if rec.ResolvedAt == nil {
		t.Error("Expected resolvedAt to be set")
	}
}

func TestEngine_BulkActionKeepsStatsConsistent(t *testing.T) {
	clock := newTestClock()
	eng := newClockedEngine(clock)
	seedAlerts(t, eng, clock, 12)

	page, err := eng.QueryAlerts(nil, QueryOptions{PageSize: 100})
	if err != nil {
		t.Fatalf("QueryAlerts returned error: %v", err)
	}
	ids := make([]string, 0, 5)
	for _, rec := range page.Items[:5] {
		ids = append(ids, rec.ID)
	}

	if _, err := eng.BulkAction(ids, ActionAcknowledge, ""); err != nil {
		t.Fatalf("BulkAction returned error: %v", err)
	}

	eng.mu.RLock()
	recomputed := RecomputeStats(eng.store.List())
	eng.mu.RUnlock()
	assertStatsEqual(t, eng.StatsSnapshot(), recomputed)

	stats := eng.StatsSnapshot()
	if stats.ByStatus[StatusAcknowledged] != 5 {
		t.Errorf("Expected 5 acknowledged, got %d", stats.ByStatus[StatusAcknowledged])
	}
}

func TestEngine_BulkAssignAnnotates(t *testing.T) {
	clock := newTestClock()
	eng := newClockedEngine(clock)
	res := ingestOne(t, eng, baseEvent())

	result, err := eng.BulkAction([]string{res.AlertID}, ActionAssign, "oncall-network")
	if err != nil {
		t.Fatalf("BulkAction returned error: %v", err)
	}
	if result.Updated != 1 {
		t.Errorf("Expected 1 updated, got %d", result.Updated)
	}

	rec, err := eng.GetAlert(res.AlertID)
	if err != nil {
		t.Fatalf("GetAlert returned error: %v", err)
	}
	if rec.Annotations["assigned_to"] != "oncall-network" {
		t.Errorf("Expected assignment annotation, got %v", rec.Annotations)
	}
	if rec.Status != StatusActive {
		t.Errorf("Expected assign to leave status untouched, got %q", rec.Status)
	}
}

func TestEngine_BulkActionRejectsUnknownAction(t *testing.T) {
	eng := newClockedEngine(newTestClock())
	_, err := eng.BulkAction([]string{"x"}, "escalate", "")
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Errorf("Expected *ValidationError, got %T", err)
	}
}

func TestEngine_EnrichAndCorrelate(t *testing.T) {
	clock := newTestClock()
	eng := newClockedEngine(clock)

	a := ingestOne(t, eng, baseEvent())
	otherEv := baseEvent()
	otherEv.SourceID = "srv-02"
	b := ingestOne(t, eng, otherEv)

	if err := eng.Enrich(a.AlertID, "probable_cause", "memory pressure", "ai_agent"); err != nil {
		t.Fatalf("Enrich returned error: %v", err)
	}
	if err := eng.Enrich(a.AlertID, "runbook", "https://wiki.example.com/oom", "user"); err != nil {
		t.Fatalf("Enrich returned error: %v", err)
	}
	if err := eng.Correlate(a.AlertID, b.AlertID, "temporal", 0.85); err != nil {
		t.Fatalf("Correlate returned error: %v", err)
	}

	rec, err := eng.GetAlert(a.AlertID)
	if err != nil {
		t.Fatalf("GetAlert returned error: %v", err)
	}
	if len(rec.Enrichments) != 2 {
		t.Fatalf("Expected 2 enrichments, got %d", len(rec.Enrichments))
	}
	if rec.Enrichments[0].Key != "probable_cause" {
		t.Error("Expected enrichments to preserve append order")
	}
	if len(rec.Correlations) != 1 || rec.Correlations[0].AlertID != b.AlertID {
		t.Error("Expected correlation to the related alert")
	}

	if err := eng.Enrich("missing", "k", "v", "user"); err == nil {
		t.Error("Expected NotFoundError for unknown alert")
	}
	if err := eng.Correlate(a.AlertID, b.AlertID, "causal", 1.5); err == nil {
		t.Error("Expected validation error for out-of-range confidence")
	}
}

func TestEngine_ExportCSV(t *testing.T) {
	clock := newTestClock()
	eng := newClockedEngine(clock)
	seedAlerts(t, eng, clock, 7)

	result, err := eng.Export(nil, ExportCSV)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if !strings.HasPrefix(result.Filename, "alerts_export_") || !strings.HasSuffix(result.Filename, ".csv") {
		t.Errorf("Unexpected filename %q", result.Filename)
	}

	lines := strings.Split(strings.TrimSpace(string(result.Content)), "\n")
	if len(lines) != 8 { // header + 7 rows
		t.Fatalf("Expected 8 csv lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,fingerprint,title") {
		t.Errorf("Unexpected csv header: %s", lines[0])
	}
}

func TestEngine_ExportJSONHonorsFilter(t *testing.T) {
	clock := newTestClock()
	eng := newClockedEngine(clock)
	seedAlerts(t, eng, clock, 10)

	result, err := eng.Export(&FilterSpec{Severities: []Severity{SeverityCritical}}, ExportJSON)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	var records []*AlertRecord
	if err := json.Unmarshal(result.Content, &records); err != nil {
		t.Fatalf("Export content is not valid JSON: %v", err)
	}
	for _, rec := range records {
		if rec.Severity != SeverityCritical {
			t.Errorf("Expected only critical alerts in export, got %q", rec.Severity)
		}
	}

	if _, err := eng.Export(nil, "xml"); err == nil {
		t.Error("Expected validation error for unknown format")
	}
}

func TestEngine_OnIngestHook(t *testing.T) {
	clock := newTestClock()
	var seen []IngestOutcome
	eng := New(Options{
		Clock:    clock.Now,
		OnIngest: func(res IngestResult) { seen = append(seen, res.Outcome) },
	})

	if _, err := eng.Ingest(baseEvent()); err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}
	// Immediate duplicate must not fire the hook
	if _, err := eng.Ingest(baseEvent()); err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}

	if len(seen) != 1 || seen[0] != OutcomeNew {
		t.Errorf("Expected hook to fire once for NEW, got %v", seen)
	}
}

func TestEngine_ConcurrentReadersAndWriter(t *testing.T) {
	eng := New(Options{})

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			ev := baseEvent()
			ev.SourceID = "srv-" + string(rune('a'+i%20))
			ev.Severity = Severities()[i%5]
			if _, err := eng.Ingest(ev); err != nil {
				t.Errorf("Ingest returned error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if _, err := eng.QueryAlerts(nil, QueryOptions{}); err != nil {
				t.Errorf("QueryAlerts returned error: %v", err)
				return
			}
			eng.StatsSnapshot()
		}
	}()

	wg.Wait()

	eng.mu.RLock()
	recomputed := RecomputeStats(eng.store.List())
	eng.mu.RUnlock()
	assertStatsEqual(t, eng.StatsSnapshot(), recomputed)
}

func TestEngine_SetWindows(t *testing.T) {
	eng := New(Options{})
	eng.SetWindows(10*time.Second, 30*time.Minute)
	supp, active := eng.Windows()
	if supp != 10*time.Second {
		t.Errorf("Expected suppression window 10s, got %v", supp)
	}
	if active != 30*time.Minute {
		t.Errorf("Expected active window 30m, got %v", active)
	}

	// Zero values leave settings unchanged
	eng.SetWindows(0, 0)
	supp, active = eng.Windows()
	if supp != 10*time.Second || active != 30*time.Minute {
		t.Error("Expected zero values to leave windows unchanged")
	}
}
