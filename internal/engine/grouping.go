package engine

import (
	"time"

	"github.com/google/uuid"
)

// DefaultActiveWindow is the interval within which a grouping key may still
// absorb new members before the group is considered closed
const DefaultActiveWindow = time.Hour

// Label keys consulted when resolving a grouping key
const (
	labelIncidentID = "incident_id"
	labelService    = "service"
)

// IncidentGroup is a cluster of alerts considered manifestations of one
// underlying condition. A group with one member is a degenerate incident.
type IncidentGroup struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Members   []string  `json:"members"` // member fingerprints
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a copy safe to hand to readers
func (g *IncidentGroup) Clone() *IncidentGroup {
	c := *g
	c.Members = append([]string(nil), g.Members...)
	return &c
}

// MemberCount returns the number of member alerts
func (g *IncidentGroup) MemberCount() int {
	return len(g.Members)
}

// Grouper assigns alerts to incident groups and owns incident lifecycle
type Grouper struct {
	store        *Store
	activeWindow time.Duration

	groups map[string]*IncidentGroup // by incident ID
	byKey  map[string]string         // grouping key -> most recent open incident ID
}

// NewGrouper creates a grouping engine over the given store
func NewGrouper(store *Store, activeWindow time.Duration) *Grouper {
	if activeWindow <= 0 {
		activeWindow = DefaultActiveWindow
	}
	return &Grouper{
		store:        store,
		activeWindow: activeWindow,
		groups:       make(map[string]*IncidentGroup),
		byKey:        make(map[string]string),
	}
}

// SetActiveWindow reconfigures the active window
func (g *Grouper) SetActiveWindow(window time.Duration) {
	if window > 0 {
		g.activeWindow = window
	}
}

// ActiveWindow returns the configured active window
func (g *Grouper) ActiveWindow() time.Duration {
	return g.activeWindow
}

// groupKey resolves the grouping key for a record. An explicit incident_id
// label wins, then service label + source, else the alert is its own
// singleton group keyed by fingerprint.
func groupKey(rec *AlertRecord) string {
	if id := rec.Labels[labelIncidentID]; id != "" {
		return "incident:" + id
	}
	if svc := rec.Labels[labelService]; svc != "" && rec.Source != "" {
		return "service:" + rec.Source + "/" + svc
	}
	return "fingerprint:" + rec.Fingerprint
}

// Assign places the record in an incident group and returns the incident ID.
// New alerts join an existing open group with a matching key, or start a new
// group. Updated alerts move only when their grouping key changed; in every
// case the group aggregate is refreshed.
func (g *Grouper) Assign(rec *AlertRecord, now time.Time) string {
	key := groupKey(rec)

	if rec.IncidentID != "" {
		if current, ok := g.groups[rec.IncidentID]; ok {
			if current.Key == key {
				g.refresh(current)
				return current.ID
			}
			g.removeMember(current, rec.Fingerprint)
		}
	}

	group := g.openGroupForKey(key, now)
	if group == nil {
		group = &IncidentGroup{
			ID:        uuid.New().String(),
			Key:       key,
			CreatedAt: now,
			UpdatedAt: now,
		}
		g.groups[group.ID] = group
	}
	g.byKey[key] = group.ID

	group.Members = append(group.Members, rec.Fingerprint)
	rec.IncidentID = group.ID
	g.refresh(group)
	return group.ID
}

// openGroupForKey returns the group currently absorbing members for a key.
// Groups whose updatedAt fell outside the active window are closed: the key
// mapping is dropped so a matching key starts a fresh group.
func (g *Grouper) openGroupForKey(key string, now time.Time) *IncidentGroup {
	id, ok := g.byKey[key]
	if !ok {
		return nil
	}
	group, ok := g.groups[id]
	if !ok {
		delete(g.byKey, key)
		return nil
	}
	if now.Sub(group.UpdatedAt) > g.activeWindow {
		delete(g.byKey, key)
		return nil
	}
	return group
}

// refresh recomputes the group aggregate from current member state.
// Severity is a pure max-reduce over members, not an incremental ratchet:
// when the maximal member is downgraded the aggregate drops with it, and
// the result does not depend on member arrival order.
func (g *Grouper) refresh(group *IncidentGroup) {
	var severity Severity
	var updatedAt time.Time
	first := true
	for _, fp := range group.Members {
		rec := g.store.Get(fp)
		if rec == nil {
			continue
		}
		if first {
			severity = rec.Severity
			updatedAt = rec.UpdatedAt
			first = false
			continue
		}
		severity = MaxSeverity(severity, rec.Severity)
		if rec.UpdatedAt.After(updatedAt) {
			updatedAt = rec.UpdatedAt
		}
	}
	if !first {
		group.Severity = severity
		group.UpdatedAt = updatedAt
	}
}

// Refresh recomputes the aggregate for the group containing the record.
// Used after in-place record mutations that cannot change the grouping key
// (e.g. bulk status transitions).
func (g *Grouper) Refresh(incidentID string) {
	if group, ok := g.groups[incidentID]; ok {
		g.refresh(group)
	}
}

func (g *Grouper) removeMember(group *IncidentGroup, fingerprint string) {
	members := group.Members[:0]
	for _, fp := range group.Members {
		if fp != fingerprint {
			members = append(members, fp)
		}
	}
	group.Members = members
	if len(group.Members) == 0 {
		delete(g.groups, group.ID)
		if g.byKey[group.Key] == group.ID {
			delete(g.byKey, group.Key)
		}
		return
	}
	g.refresh(group)
}

// Get returns a clone of the group with the given incident ID, or nil
func (g *Grouper) Get(incidentID string) *IncidentGroup {
	if group, ok := g.groups[incidentID]; ok {
		return group.Clone()
	}
	return nil
}

// List returns clones of all groups. Order is unspecified; callers sort.
func (g *Grouper) List() []*IncidentGroup {
	out := make([]*IncidentGroup, 0, len(g.groups))
	for _, group := range g.groups {
		out = append(out, group.Clone())
	}
	return out
}
