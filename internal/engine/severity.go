package engine

import "fmt"

// Severity represents normalized alert severity levels
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityRank defines the total order info < low < medium < high < critical
var severityRank = map[Severity]int{
	SeverityInfo:     0,
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Rank returns the numeric position of the severity in the total order.
// Unknown severities rank below info.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return -1
}

// IsValid reports whether the severity is one of the known levels
func (s Severity) IsValid() bool {
	_, ok := severityRank[s]
	return ok
}

// ParseSeverity validates a severity string
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(s)
	if !sev.IsValid() {
		return "", &ValidationError{Field: "severity", Message: fmt.Sprintf("unknown severity %q", s)}
	}
	return sev, nil
}

// MaxSeverity returns the higher of two severities
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Status represents normalized alert status
type Status string

const (
	StatusActive       Status = "active"
	StatusAcknowledged Status = "acknowledged"
	StatusResolved     Status = "resolved"
	StatusSuppressed   Status = "suppressed"
	StatusDismissed    Status = "dismissed"
)

var validStatuses = map[Status]bool{
	StatusActive:       true,
	StatusAcknowledged: true,
	StatusResolved:     true,
	StatusSuppressed:   true,
	StatusDismissed:    true,
}

// IsValid reports whether the status is one of the known values
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// IsTerminal reports whether the status is a terminal state.
// Resolved and dismissed alerts remain queryable but are considered closed.
func (s Status) IsTerminal() bool {
	return s == StatusResolved || s == StatusDismissed
}

// ParseStatus validates a status string
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", s)}
	}
	return st, nil
}

// Severities returns all known severities in ascending order
func Severities() []Severity {
	return []Severity{SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
}

// Statuses returns all known statuses
func Statuses() []Status {
	return []Status{StatusActive, StatusAcknowledged, StatusResolved, StatusSuppressed, StatusDismissed}
}
