package engine

// AggregateStats holds running counts over the store's current contents.
// At any quiescent point the sum over each bucket family equals Total.
type AggregateStats struct {
	Total      int              `json:"total"`
	BySeverity map[Severity]int `json:"by_severity"`
	ByStatus   map[Status]int   `json:"by_status"`
	BySource   map[string]int   `json:"by_source"`
}

// NewAggregateStats returns zeroed stats with all severity and status
// buckets present
func NewAggregateStats() *AggregateStats {
	s := &AggregateStats{
		BySeverity: make(map[Severity]int, 5),
		ByStatus:   make(map[Status]int, 5),
		BySource:   make(map[string]int),
	}
	for _, sev := range Severities() {
		s.BySeverity[sev] = 0
	}
	for _, st := range Statuses() {
		s.ByStatus[st] = 0
	}
	return s
}

// Clone returns an independent copy
func (s *AggregateStats) Clone() *AggregateStats {
	c := &AggregateStats{
		Total:      s.Total,
		BySeverity: make(map[Severity]int, len(s.BySeverity)),
		ByStatus:   make(map[Status]int, len(s.ByStatus)),
		BySource:   make(map[string]int, len(s.BySource)),
	}
	for k, v := range s.BySeverity {
		c.BySeverity[k] = v
	}
	for k, v := range s.ByStatus {
		c.ByStatus[k] = v
	}
	for k, v := range s.BySource {
		c.BySource[k] = v
	}
	return c
}

// StatsEngine maintains aggregate counts incrementally as alerts are
// upserted, avoiding full rescans on every dashboard poll
type StatsEngine struct {
	stats *AggregateStats
}

// NewStatsEngine creates a stats engine with zeroed counters
func NewStatsEngine() *StatsEngine {
	return &StatsEngine{stats: NewAggregateStats()}
}

// OnUpsert records a store mutation. A nil old record means a new distinct
// fingerprint was inserted; otherwise the old buckets are decremented before
// the new ones are incremented. Total moves only on inserts.
func (s *StatsEngine) OnUpsert(old, rec *AlertRecord) {
	if old != nil {
		s.stats.BySeverity[old.Severity]--
		s.stats.ByStatus[old.Status]--
		s.stats.BySource[old.Source]--
		if s.stats.BySource[old.Source] == 0 {
			delete(s.stats.BySource, old.Source)
		}
	} else {
		s.stats.Total++
	}
	s.stats.BySeverity[rec.Severity]++
	s.stats.ByStatus[rec.Status]++
	s.stats.BySource[rec.Source]++
}

// Snapshot returns a copy of the current counters
func (s *StatsEngine) Snapshot() *AggregateStats {
	return s.stats.Clone()
}

// RecomputeStats builds stats from scratch over a set of records. The
// incremental snapshot must always equal this for the store's contents.
func RecomputeStats(records []*AlertRecord) *AggregateStats {
	stats := NewAggregateStats()
	for _, rec := range records {
		stats.Total++
		stats.BySeverity[rec.Severity]++
		stats.ByStatus[rec.Status]++
		stats.BySource[rec.Source]++
	}
	return stats
}
