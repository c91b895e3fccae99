// Package engine implements the alert stream aggregation core: it ingests
// alert events, deduplicates them by fingerprint, groups related alerts
// into incidents with severity escalation, maintains rolling aggregate
// statistics and serves filterable, paginated views of alerts and their
// incident groups.
//
// The engine is in-memory and synchronous. All mutations funnel through a
// single writer lock because dedup-then-group-then-stats is a
// read-modify-write sequence; reads share a read lock and receive cloned
// records, so queries never observe partial updates.
package engine

import (
	"sync"
	"time"
)

// Options configures an Engine
type Options struct {
	// SuppressionWindow is the duplicate suppression interval (default 30s)
	SuppressionWindow time.Duration
	// ActiveWindow is the incident grouping window (default 1h)
	ActiveWindow time.Duration
	// Clock overrides time.Now, for tests
	Clock func() time.Time
	// OnIngest, if set, is called after each successful non-duplicate
	// ingest, outside the engine lock
	OnIngest func(IngestResult)
}

// IngestResult describes the effect of one ingest call
type IngestResult struct {
	Outcome     IngestOutcome `json:"outcome"`
	Fingerprint string        `json:"fingerprint"`
	AlertID     string        `json:"alert_id"`
	IncidentID  string        `json:"incident_id"`
	Record      *AlertRecord  `json:"record"`
}

// Engine is the single logical owner of the store and its derived
// structures
type Engine struct {
	mu      sync.RWMutex
	store   *Store
	dedup   *Deduplicator
	grouper *Grouper
	stats   *StatsEngine
	clock   func() time.Time

	onIngest func(IngestResult)
}

// New creates an engine with the given options
func New(opts Options) *Engine {
	store := NewStore()
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Engine{
		store:    store,
		dedup:    NewDeduplicator(store, opts.SuppressionWindow),
		grouper:  NewGrouper(store, opts.ActiveWindow),
		stats:    NewStatsEngine(),
		clock:    clock,
		onIngest: opts.OnIngest,
	}
}

// Ingest runs one alert event through dedup, grouping and stats. On a
// validation error no state is created. Duplicates mutate nothing.
func (e *Engine) Ingest(event *AlertEvent) (*IngestResult, error) {
	result, err := e.ingestLocked(event)
	if err != nil {
		return nil, err
	}
	if e.onIngest != nil && result.Outcome != OutcomeDuplicate {
		e.onIngest(*result)
	}
	return result, nil
}

func (e *Engine) ingestLocked(event *AlertEvent) (*IngestResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	outcome, old, rec, err := e.dedup.Ingest(event, now)
	if err != nil {
		return nil, err
	}

	if outcome != OutcomeDuplicate {
		e.grouper.Assign(rec, now)
		e.stats.OnUpsert(old, rec)
	}

	return &IngestResult{
		Outcome:     outcome,
		Fingerprint: rec.Fingerprint,
		AlertID:     rec.ID,
		IncidentID:  rec.IncidentID,
		Record:      rec.Clone(),
	}, nil
}

// QueryAlerts serves one page of the filtered raw alert view
func (e *Engine) QueryAlerts(filter *FilterSpec, opts QueryOptions) (*PagedAlerts, error) {
	if filter != nil {
		if err := filter.Validate(); err != nil {
			return nil, err
		}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	records := e.store.List()
	now := e.clock()
	e.mu.RUnlock()

	return queryAlerts(records, filter, opts, now), nil
}

// QueryIncidents serves one page of the grouped incident view
func (e *Engine) QueryIncidents(filter *FilterSpec, opts QueryOptions) (*PagedIncidents, error) {
	if filter != nil {
		if err := filter.Validate(); err != nil {
			return nil, err
		}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	return queryIncidents(e.grouper.List(), e.store, filter, opts, e.clock()), nil
}

// GetAlert returns a clone of the alert with the given id
func (e *Engine) GetAlert(id string) (*AlertRecord, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	rec := e.store.GetByID(id)
	if rec == nil {
		return nil, &NotFoundError{Kind: "alert", ID: id}
	}
	return rec.Clone(), nil
}

// GetIncident returns a clone of the incident group with the given id
func (e *Engine) GetIncident(id string) (*IncidentGroup, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	group := e.grouper.Get(id)
	if group == nil {
		return nil, &NotFoundError{Kind: "incident", ID: id}
	}
	return group, nil
}

// StatsSnapshot returns the current aggregate counters
func (e *Engine) StatsSnapshot() *AggregateStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats.Snapshot()
}

// BulkAction applies a status transition to each alert id independently.
// Unknown ids and invalid transitions are reported per id; valid ids in the
// same batch still update.
func (e *Engine) BulkAction(ids []string, action Action, reason string) (*BulkResult, error) {
	if _, err := ParseAction(string(action)); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	result := &BulkResult{Failed: []BulkFailure{}}
	for _, id := range ids {
		rec := e.store.GetByID(id)
		if rec == nil {
			err := &NotFoundError{Kind: "alert", ID: id}
			result.Failed = append(result.Failed, BulkFailure{ID: id, Reason: err.Error()})
			continue
		}
		if !transitionAllowed(rec.Status, action) {
			err := &StateConflictError{ID: id, Current: rec.Status, Action: action}
			result.Failed = append(result.Failed, BulkFailure{ID: id, Reason: err.Error()})
			continue
		}
		e.applyAction(rec, action, reason, now)
		result.Updated++
	}
	return result, nil
}

func (e *Engine) applyAction(rec *AlertRecord, action Action, reason string, now time.Time) {
	old := rec.Clone()

	if action == ActionAssign {
		if rec.Annotations == nil {
			rec.Annotations = make(map[string]string)
		}
		rec.Annotations[annotationAssignedTo] = reason
	} else {
		rec.Status = actionTargets[action]
		if rec.Status == StatusResolved && rec.ResolvedAt == nil {
			rec.ResolvedAt = &now
		}
		if reason != "" {
			if rec.Annotations == nil {
				rec.Annotations = make(map[string]string)
			}
			rec.Annotations["status_reason"] = reason
		}
	}
	rec.UpdatedAt = now

	e.stats.OnUpsert(old, rec)
	e.grouper.Refresh(rec.IncidentID)
}

// Enrich appends an opaque enrichment to an alert. Enrichment content is
// produced by external collaborators; the engine only stores it.
func (e *Engine) Enrich(alertID, key, value, source string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec := e.store.GetByID(alertID)
	if rec == nil {
		return &NotFoundError{Kind: "alert", ID: alertID}
	}
	rec.Enrichments = append(rec.Enrichments, Enrichment{
		Key:       key,
		Value:     value,
		Source:    source,
		CreatedAt: e.clock(),
	})
	return nil
}

// Correlate records a correlation between two alerts
func (e *Engine) Correlate(alertID, relatedID, corrType string, confidence float64) error {
	if confidence < 0 || confidence > 1 {
		return &ValidationError{Field: "confidence", Message: "must be between 0 and 1"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	rec := e.store.GetByID(alertID)
	if rec == nil {
		return &NotFoundError{Kind: "alert", ID: alertID}
	}
	if e.store.GetByID(relatedID) == nil {
		return &NotFoundError{Kind: "alert", ID: relatedID}
	}
	rec.Correlations = append(rec.Correlations, Correlation{
		AlertID:    relatedID,
		Type:       corrType,
		Confidence: confidence,
		CreatedAt:  e.clock(),
	})
	return nil
}

// SetWindows reconfigures the suppression and active windows at runtime.
// Zero values leave the current setting unchanged.
func (e *Engine) SetWindows(suppression, active time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dedup.SetWindow(suppression)
	e.grouper.SetActiveWindow(active)
}

// Windows returns the currently configured suppression and active windows
func (e *Engine) Windows() (suppression, active time.Duration) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dedup.Window(), e.grouper.ActiveWindow()
}

// AlertCount returns the number of distinct alert records
func (e *Engine) AlertCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.Len()
}
