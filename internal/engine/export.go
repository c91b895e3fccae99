package engine

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ExportFormat enumerates supported export serializations
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportJSON ExportFormat = "json"
)

// ParseExportFormat validates an export format string
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(s); f {
	case ExportCSV, ExportJSON:
		return f, nil
	case "":
		return ExportCSV, nil
	}
	return "", &ValidationError{Field: "format", Message: fmt.Sprintf("unknown export format %q", s)}
}

// ExportResult is a serialized filtered view ready for download
type ExportResult struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"`
}

// Export serializes the full filtered alert view (no pagination) in the
// requested format. It is a pure function of query results and changes no
// engine state.
func (e *Engine) Export(filter *FilterSpec, format ExportFormat) (*ExportResult, error) {
	if _, err := ParseExportFormat(string(format)); err != nil {
		return nil, err
	}
	if filter != nil {
		if err := filter.Validate(); err != nil {
			return nil, err
		}
	}

	e.mu.RLock()
	records := e.store.List()
	now := e.clock()
	e.mu.RUnlock()

	matched := make([]*AlertRecord, 0, len(records))
	for _, rec := range records {
		if filter == nil || filter.Matches(rec, now) {
			matched = append(matched, rec)
		}
	}
	sortRecords(matched, SortByCreatedAt, SortDesc)

	stamp := now.UTC().Format("20060102T150405Z")
	switch format {
	case ExportJSON:
		content, err := json.MarshalIndent(matched, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to serialize export: %w", err)
		}
		return &ExportResult{
			Filename:    "alerts_export_" + stamp + ".json",
			ContentType: "application/json",
			Content:     content,
		}, nil
	default:
		content, err := alertsToCSV(matched)
		if err != nil {
			return nil, err
		}
		return &ExportResult{
			Filename:    "alerts_export_" + stamp + ".csv",
			ContentType: "text/csv",
			Content:     content,
		}, nil
	}
}

var csvHeader = []string{
	"id", "fingerprint", "title", "description", "severity", "status",
	"source", "source_id", "incident_id", "labels", "started_at",
	"created_at", "updated_at",
}

func alertsToCSV(records []*AlertRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.ID,
			rec.Fingerprint,
			rec.Title,
			rec.Description,
			string(rec.Severity),
			string(rec.Status),
			rec.Source,
			rec.SourceID,
			rec.IncidentID,
			formatLabels(rec.Labels),
			rec.StartedAt.UTC().Format(time.RFC3339),
			rec.CreatedAt.UTC().Format(time.RFC3339),
			rec.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// formatLabels renders labels as stable k=v pairs so exports are
// deterministic
func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(labels))
	for _, k := range sortedKeys(labels) {
		pairs = append(pairs, k+"="+labels[k])
	}
	return strings.Join(pairs, ";")
}
