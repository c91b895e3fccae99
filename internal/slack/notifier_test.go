package slack

import (
	"strings"
	"testing"

	"github.com/alertdash/alertdash/internal/engine"
	"github.com/alertdash/alertdash/internal/testhelpers"
)

func TestNewNotifier_DisabledWithoutToken(t *testing.T) {
	if n := NewNotifier("", "#alerts", engine.SeverityHigh); n != nil {
		t.Error("Expected nil notifier without bot token")
	}
	if n := NewNotifier("xoxb-test", "", engine.SeverityHigh); n != nil {
		t.Error("Expected nil notifier without channel")
	}

	// nil notifier must be safe to call
	var n *Notifier
	n.HandleIngest(engine.IngestResult{Outcome: engine.OutcomeNew})
}

func TestNewNotifier_InvalidMinSeverityDefaultsToHigh(t *testing.T) {
	n := NewNotifier("xoxb-test", "#alerts", "sev0")
	if n == nil {
		t.Fatal("Expected notifier, got nil")
	}
	if n.minSeverity != engine.SeverityHigh {
		t.Errorf("Expected min severity high, got %s", n.minSeverity)
	}
}

func TestShouldNotify(t *testing.T) {
	n := NewNotifier("xoxb-test", "#alerts", engine.SeverityHigh)
	if n == nil {
		t.Fatal("Expected notifier, got nil")
	}

	record := func(sev engine.Severity) *engine.AlertRecord {
		return &engine.AlertRecord{ID: "a1", Severity: sev}
	}

	tests := []struct {
		name   string
		result engine.IngestResult
		want   bool
	}{
		{"new critical", engine.IngestResult{Outcome: engine.OutcomeNew, Record: record(engine.SeverityCritical)}, true},
		{"new high", engine.IngestResult{Outcome: engine.OutcomeNew, Record: record(engine.SeverityHigh)}, true},
		{"new medium below threshold", engine.IngestResult{Outcome: engine.OutcomeNew, Record: record(engine.SeverityMedium)}, false},
		{"updated critical", engine.IngestResult{Outcome: engine.OutcomeUpdated, Record: record(engine.SeverityCritical)}, false},
		{"duplicate", engine.IngestResult{Outcome: engine.OutcomeDuplicate, Record: record(engine.SeverityCritical)}, false},
		{"missing record", engine.IngestResult{Outcome: engine.OutcomeNew}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.shouldNotify(tt.result); got != tt.want {
				t.Errorf("shouldNotify = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatAlertMessage(t *testing.T) {
	record := testhelpers.NewAlertRecordBuilder().
		WithID("a1").
		WithFingerprint("abcd1234").
		WithTitle("High CPU usage").
		WithDescription("CPU above 95% for 5 minutes").
		WithSeverity(engine.SeverityCritical).
		WithSource("prometheus").
		WithLabel("host", "web-01").
		WithLabel("service", "checkout").
		WithIncidentID("inc-42").
		Build()

	message := FormatAlertMessage(record)

	for _, want := range []string{
		":red_circle: *Alert: High CPU usage*",
		"*Source:* prometheus",
		"*Severity:* critical",
		"*Fingerprint:* abcd1234",
		"*Host:* web-01",
		"*Service:* checkout",
		"*Description:* CPU above 95% for 5 minutes",
		"*Incident:* inc-42",
	} {
		if !strings.Contains(message, want) {
			t.Errorf("Message missing %q:\n%s", want, message)
		}
	}
}

func TestFormatAlertMessage_OmitsEmptyFields(t *testing.T) {
	record := testhelpers.NewAlertRecordBuilder().
		WithID("a2").
		WithFingerprint("ffff0000").
		WithTitle("Disk space low").
		WithSeverity(engine.SeverityHigh).
		WithSource("nagios").
		Build()

	message := FormatAlertMessage(record)

	for _, unwanted := range []string{"*Host:*", "*Service:*", "*Description:*", "*Incident:*"} {
		if strings.Contains(message, unwanted) {
			t.Errorf("Message should not contain %q:\n%s", unwanted, message)
		}
	}
	if !strings.Contains(message, ":large_orange_circle:") {
		t.Errorf("Expected high severity emoji in message:\n%s", message)
	}
}

func TestSeverityEmoji(t *testing.T) {
	tests := []struct {
		severity engine.Severity
		want     string
	}{
		{engine.SeverityCritical, ":red_circle:"},
		{engine.SeverityHigh, ":large_orange_circle:"},
		{engine.SeverityMedium, ":large_yellow_circle:"},
		{engine.SeverityLow, ":large_green_circle:"},
		{engine.SeverityInfo, ":large_blue_circle:"},
		{engine.Severity("bogus"), ":white_circle:"},
	}

	for _, tt := range tests {
		if got := SeverityEmoji(tt.severity); got != tt.want {
			t.Errorf("SeverityEmoji(%s) = %s, want %s", tt.severity, got, tt.want)
		}
	}
}
