package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SortField enumerates the sortable alert columns
type SortField string

const (
	SortByCreatedAt SortField = "created_at"
	SortBySeverity  SortField = "severity"
	SortByTitle     SortField = "title"
	SortByStatus    SortField = "status"
)

// SortOrder is the sort direction
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	// DefaultPageSize is used when the caller does not specify one
	DefaultPageSize = 20
	// MaxPageSize caps page_size; larger requests are clamped, not rejected
	MaxPageSize = 100
)

// QueryOptions controls sorting and pagination of a query
type QueryOptions struct {
	Sort     SortField `json:"sort,omitempty"`
	Order    SortOrder `json:"order,omitempty"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// Validate checks the sort enums. Page and page size are normalized rather
// than rejected.
func (o *QueryOptions) Validate() error {
	switch o.Sort {
	case "", SortByCreatedAt, SortBySeverity, SortByTitle, SortByStatus:
	default:
		return &ValidationError{Field: "sort", Message: fmt.Sprintf("unknown sort field %q", o.Sort)}
	}
	switch o.Order {
	case "", SortAsc, SortDesc:
	default:
		return &ValidationError{Field: "order", Message: fmt.Sprintf("unknown sort order %q", o.Order)}
	}
	return nil
}

func (o *QueryOptions) normalize() QueryOptions {
	n := *o
	if n.Sort == "" {
		n.Sort = SortByCreatedAt
	}
	if n.Order == "" {
		n.Order = SortDesc
	}
	if n.Page < 1 {
		n.Page = 1
	}
	if n.PageSize < 1 {
		n.PageSize = DefaultPageSize
	}
	if n.PageSize > MaxPageSize {
		n.PageSize = MaxPageSize
	}
	return n
}

// PagedAlerts is one page of the filtered alert view
type PagedAlerts struct {
	Items       []*AlertRecord `json:"items"`
	Total       int            `json:"total"`
	Page        int            `json:"page"`
	PageSize    int            `json:"page_size"`
	HasNext     bool           `json:"has_next"`
	HasPrevious bool           `json:"has_previous"`
}

// IncidentRow is one row of the grouped view: an incident group summarized
// by its representative member (most severe, ties broken by most recent
// update)
type IncidentRow struct {
	IncidentID     string       `json:"incident_id"`
	Severity       Severity     `json:"severity"`
	MemberCount    int          `json:"member_count"`
	UpdatedAt      time.Time    `json:"updated_at"`
	Representative *AlertRecord `json:"representative"`
}

// PagedIncidents is one page of the grouped view
type PagedIncidents struct {
	Items       []*IncidentRow `json:"items"`
	Total       int            `json:"total"`
	Page        int            `json:"page"`
	PageSize    int            `json:"page_size"`
	HasNext     bool           `json:"has_next"`
	HasPrevious bool           `json:"has_previous"`
}

// queryAlerts evaluates the filter over a record snapshot, sorts and pages.
// A zero-result query is a valid success outcome, never an error.
func queryAlerts(records []*AlertRecord, filter *FilterSpec, opts QueryOptions, now time.Time) *PagedAlerts {
	opts = opts.normalize()

	matched := make([]*AlertRecord, 0, len(records))
	for _, rec := range records {
		if filter == nil || filter.Matches(rec, now) {
			matched = append(matched, rec)
		}
	}
	sortRecords(matched, opts.Sort, opts.Order)

	total := len(matched)
	items := pageSlice(matched, opts.Page, opts.PageSize)
	return &PagedAlerts{
		Items:       items,
		Total:       total,
		Page:        opts.Page,
		PageSize:    opts.PageSize,
		HasNext:     opts.Page*opts.PageSize < total,
		HasPrevious: opts.Page > 1,
	}
}

// queryIncidents evaluates the filter over the grouped view. A group
// matches when at least one member alert matches all filter predicates.
func queryIncidents(groups []*IncidentGroup, store recordLookup, filter *FilterSpec, opts QueryOptions, now time.Time) *PagedIncidents {
	opts = opts.normalize()

	rows := make([]*IncidentRow, 0, len(groups))
	for _, group := range groups {
		row := buildIncidentRow(group, store, filter, now)
		if row != nil {
			rows = append(rows, row)
		}
	}
	sortIncidentRows(rows, opts.Sort, opts.Order)

	total := len(rows)
	items := pageSlice(rows, opts.Page, opts.PageSize)
	return &PagedIncidents{
		Items:       items,
		Total:       total,
		Page:        opts.Page,
		PageSize:    opts.PageSize,
		HasNext:     opts.Page*opts.PageSize < total,
		HasPrevious: opts.Page > 1,
	}
}

// recordLookup is the read surface the grouped view needs from the store
type recordLookup interface {
	Get(fingerprint string) *AlertRecord
}

func buildIncidentRow(group *IncidentGroup, store recordLookup, filter *FilterSpec, now time.Time) *IncidentRow {
	var representative *AlertRecord
	anyMatch := false
	for _, fp := range group.Members {
		rec := store.Get(fp)
		if rec == nil {
			continue
		}
		if filter == nil || filter.Matches(rec, now) {
			anyMatch = true
		}
		if representative == nil ||
			rec.Severity.Rank() > representative.Severity.Rank() ||
			(rec.Severity.Rank() == representative.Severity.Rank() && rec.UpdatedAt.After(representative.UpdatedAt)) {
			representative = rec
		}
	}
	if !anyMatch || representative == nil {
		return nil
	}
	return &IncidentRow{
		IncidentID:     group.ID,
		Severity:       group.Severity,
		MemberCount:    group.MemberCount(),
		UpdatedAt:      group.UpdatedAt,
		Representative: representative.Clone(),
	}
}

// sortRecords orders records by the requested field. Severity sorts by rank
// in the total order, never lexically. Ties fall back to created_at then
// fingerprint so pagination is stable.
func sortRecords(records []*AlertRecord, field SortField, order SortOrder) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if order == SortDesc {
			a, b = b, a
		}
		switch field {
		case SortBySeverity:
			if a.Severity.Rank() != b.Severity.Rank() {
				return a.Severity.Rank() < b.Severity.Rank()
			}
		case SortByTitle:
			if a.Title != b.Title {
				return strings.ToLower(a.Title) < strings.ToLower(b.Title)
			}
		case SortByStatus:
			if a.Status != b.Status {
				return a.Status < b.Status
			}
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.Fingerprint < b.Fingerprint
	})
}

func sortIncidentRows(rows []*IncidentRow, field SortField, order SortOrder) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if order == SortDesc {
			a, b = b, a
		}
		switch field {
		case SortBySeverity:
			if a.Severity.Rank() != b.Severity.Rank() {
				return a.Severity.Rank() < b.Severity.Rank()
			}
		case SortByTitle:
			if a.Representative.Title != b.Representative.Title {
				return strings.ToLower(a.Representative.Title) < strings.ToLower(b.Representative.Title)
			}
		case SortByStatus:
			if a.Representative.Status != b.Representative.Status {
				return a.Representative.Status < b.Representative.Status
			}
		}
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
		return a.IncidentID < b.IncidentID
	})
}

// pageSlice returns the 1-indexed page of items. Out-of-range pages return
// an empty slice, not an error.
func pageSlice[T any](items []T, page, pageSize int) []T {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
