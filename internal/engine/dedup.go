package engine

import (
	"time"

	"github.com/google/uuid"
)

// IngestOutcome describes what an ingest call did to the store
type IngestOutcome string

const (
	OutcomeNew       IngestOutcome = "new"
	OutcomeDuplicate IngestOutcome = "duplicate"
	OutcomeUpdated   IngestOutcome = "updated"
)

// DefaultSuppressionWindow is the interval within which a semantically
// identical repeated event is treated as a duplicate rather than an update
const DefaultSuppressionWindow = 30 * time.Second

// Deduplicator computes fingerprints for incoming events and decides
// new/duplicate/update against the store
type Deduplicator struct {
	store  *Store
	window time.Duration
}

// NewDeduplicator creates a deduplicator over the given store
func NewDeduplicator(store *Store, window time.Duration) *Deduplicator {
	if window <= 0 {
		window = DefaultSuppressionWindow
	}
	return &Deduplicator{store: store, window: window}
}

// SetWindow reconfigures the suppression window
func (d *Deduplicator) SetWindow(window time.Duration) {
	if window > 0 {
		d.window = window
	}
}

// Window returns the configured suppression window
func (d *Deduplicator) Window() time.Duration {
	return d.window
}

// Ingest applies one alert event against the store. On a validation error
// no state is created or mutated.
//
// Returns the previous record state (nil for NEW) alongside the current one
// so callers can maintain derived structures incrementally.
func (d *Deduplicator) Ingest(event *AlertEvent, now time.Time) (IngestOutcome, *AlertRecord, *AlertRecord, error) {
	if err := event.Validate(); err != nil {
		return "", nil, nil, err
	}

	fp := Fingerprint(event)
	existing := d.store.Get(fp)

	if existing == nil {
		rec := newRecordFromEvent(event, fp, now)
		d.store.Upsert(rec)
		return OutcomeNew, nil, rec, nil
	}

	if d.isDuplicate(event, existing, now) {
		return OutcomeDuplicate, existing, existing, nil
	}

	old := existing.Clone()
	applyEvent(existing, event, now)
	return OutcomeUpdated, old, existing, nil
}

// isDuplicate decides whether the event carries no new information.
// Two rules apply:
//   - a semantically identical event (same severity, status, title) within
//     the suppression window of the last update is a duplicate
//   - terminal-state idempotence: re-delivering resolved/dismissed against
//     an already-terminal record is a duplicate unless severity or
//     annotations changed
func (d *Deduplicator) isDuplicate(event *AlertEvent, existing *AlertRecord, now time.Time) bool {
	if event.Status.IsTerminal() && existing.Status.IsTerminal() {
		return event.Severity == existing.Severity && annotationsEqual(event.Annotations, existing.Annotations)
	}

	identical := event.Severity == existing.Severity &&
		event.Status == existing.Status &&
		event.Title == existing.Title
	return identical && now.Sub(existing.UpdatedAt) <= d.window
}

func newRecordFromEvent(event *AlertEvent, fingerprint string, now time.Time) *AlertRecord {
	startedAt := event.StartedAt
	if startedAt.IsZero() {
		startedAt = now
	}
	rec := &AlertRecord{
		ID:          uuid.New().String(),
		Fingerprint: fingerprint,
		Title:       event.Title,
		Description: event.Description,
		Severity:    event.Severity,
		Status:      event.Status,
		Source:      event.Source,
		SourceID:    event.SourceID,
		Labels:      cloneStringMap(event.Labels),
		Annotations: cloneStringMap(event.Annotations),
		StartedAt:   startedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if rec.Status == StatusResolved {
		rec.ResolvedAt = &now
	}
	return rec
}

// applyEvent overwrites the mutable fields of a record in place.
// Labels and annotations are replaced wholesale by the latest event, never
// merged key-by-key. Fingerprint, ID and CreatedAt are immutable.
func applyEvent(rec *AlertRecord, event *AlertEvent, now time.Time) {
	rec.Title = event.Title
	rec.Description = event.Description
	rec.Severity = event.Severity
	rec.Status = event.Status
	rec.Labels = cloneStringMap(event.Labels)
	rec.Annotations = cloneStringMap(event.Annotations)
	if !event.StartedAt.IsZero() {
		rec.StartedAt = event.StartedAt
	}
	rec.UpdatedAt = now
	if event.Status == StatusResolved && rec.ResolvedAt == nil {
		rec.ResolvedAt = &now
	}
}

func annotationsEqual(a map[string]string, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
