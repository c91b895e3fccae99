package engine

// Store holds the canonical set of alert records keyed by fingerprint.
// Records are never deleted within the process lifetime: resolved and
// dismissed alerts remain queryable.
//
// The store itself is not synchronized. The Engine serializes all access
// through its own lock; reads hand out clones so callers can hold results
// across lock boundaries.
type Store struct {
	byFingerprint map[string]*AlertRecord
	byID          map[string]*AlertRecord
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		byFingerprint: make(map[string]*AlertRecord),
		byID:          make(map[string]*AlertRecord),
	}
}

// Get returns the record for a fingerprint, or nil
func (s *Store) Get(fingerprint string) *AlertRecord {
	return s.byFingerprint[fingerprint]
}

// GetByID returns the record for an alert ID, or nil
func (s *Store) GetByID(id string) *AlertRecord {
	return s.byID[id]
}

// Upsert inserts or replaces the record under its fingerprint
func (s *Store) Upsert(rec *AlertRecord) {
	s.byFingerprint[rec.Fingerprint] = rec
	s.byID[rec.ID] = rec
}

// List returns clones of all records. Order is unspecified; callers sort.
func (s *Store) List() []*AlertRecord {
	out := make([]*AlertRecord, 0, len(s.byFingerprint))
	for _, rec := range s.byFingerprint {
		out = append(out, rec.Clone())
	}
	return out
}

// Len returns the number of distinct alert records
func (s *Store) Len() int {
	return len(s.byFingerprint)
}
