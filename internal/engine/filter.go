package engine

import (
	"fmt"
	"strings"
	"time"
)

// TimeRange filters alerts on started_at relative to the query time
type TimeRange string

const (
	TimeRangeAll    TimeRange = "all"
	TimeRangeLast1h TimeRange = "last_1h"
	TimeRange24h    TimeRange = "last_24h"
	TimeRange7d     TimeRange = "last_7d"
)

var timeRangeDurations = map[TimeRange]time.Duration{
	TimeRangeLast1h: time.Hour,
	TimeRange24h:    24 * time.Hour,
	TimeRange7d:     7 * 24 * time.Hour,
}

// FilterSpec is an explicit, validated filter configuration. All specified
// fields are ANDed together; an unset field imposes no constraint. Within
// severity/status/source the listed values are ORed; tags must all match.
type FilterSpec struct {
	Severities []Severity        `json:"severities,omitempty"`
	Statuses   []Status          `json:"statuses,omitempty"`
	Sources    []string          `json:"sources,omitempty"`
	Tags       map[string]string `json:"tags,omitempty"`
	TimeRange  TimeRange         `json:"time_range,omitempty"`
	Search     string            `json:"search,omitempty"`
}

// Validate checks all enum values in the spec
func (f *FilterSpec) Validate() error {
	for _, sev := range f.Severities {
		if !sev.IsValid() {
			return &ValidationError{Field: "severities", Message: fmt.Sprintf("unknown severity %q", sev)}
		}
	}
	for _, st := range f.Statuses {
		if !st.IsValid() {
			return &ValidationError{Field: "statuses", Message: fmt.Sprintf("unknown status %q", st)}
		}
	}
	switch f.TimeRange {
	case "", TimeRangeAll, TimeRangeLast1h, TimeRange24h, TimeRange7d:
	default:
		return &ValidationError{Field: "time_range", Message: fmt.Sprintf("unknown time range %q", f.TimeRange)}
	}
	return nil
}

// Matches reports whether a record satisfies every specified predicate.
// now anchors the time range comparison.
func (f *FilterSpec) Matches(rec *AlertRecord, now time.Time) bool {
	if len(f.Severities) > 0 && !containsSeverity(f.Severities, rec.Severity) {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, rec.Status) {
		return false
	}
	if len(f.Sources) > 0 && !containsString(f.Sources, rec.Source) {
		return false
	}
	for k, v := range f.Tags {
		if rec.Labels[k] != v {
			return false
		}
	}
	if d, ok := timeRangeDurations[f.TimeRange]; ok {
		if rec.StartedAt.Before(now.Add(-d)) {
			return false
		}
	}
	if f.Search != "" {
		haystack := strings.ToLower(rec.Title + " " + rec.Description + " " + rec.Source)
		if !strings.Contains(haystack, strings.ToLower(f.Search)) {
			return false
		}
	}
	return true
}

func containsSeverity(set []Severity, sev Severity) bool {
	for _, s := range set {
		if s == sev {
			return true
		}
	}
	return false
}

func containsStatus(set []Status, st Status) bool {
	for _, s := range set {
		if s == st {
			return true
		}
	}
	return false
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
