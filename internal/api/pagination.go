package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/alertdash/alertdash/internal/engine"
)

// ParseQueryOptions extracts sort and pagination parameters from the request.
// Defaults: page=1, page_size=20, sort=created_at, order=desc. Page size is
// clamped by the engine, never rejected.
func ParseQueryOptions(r *http.Request) engine.QueryOptions {
	q := r.URL.Query()
	opts := engine.QueryOptions{
		Sort:  engine.SortField(q.Get("sort")),
		Order: engine.SortOrder(q.Get("order")),
	}

	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Page = n
		}
	}
	if v := q.Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.PageSize = n
		}
	}

	return opts
}

// ParseFilter extracts filter parameters from the request query string.
// List parameters (severity, status, source) accept comma-separated values;
// tags use "key:value" pairs. Returns nil when no filter parameter is set.
func ParseFilter(r *http.Request) *engine.FilterSpec {
	q := r.URL.Query()
	filter := &engine.FilterSpec{
		TimeRange: engine.TimeRange(q.Get("time_range")),
		Search:    strings.TrimSpace(q.Get("search")),
	}

	for _, v := range splitList(q.Get("severity")) {
		filter.Severities = append(filter.Severities, engine.Severity(v))
	}
	for _, v := range splitList(q.Get("status")) {
		filter.Statuses = append(filter.Statuses, engine.Status(v))
	}
	filter.Sources = splitList(q.Get("source"))

	for _, pair := range splitList(q.Get("tag")) {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			continue
		}
		if filter.Tags == nil {
			filter.Tags = make(map[string]string)
		}
		filter.Tags[parts[0]] = parts[1]
	}

	if len(filter.Severities) == 0 && len(filter.Statuses) == 0 &&
		len(filter.Sources) == 0 && len(filter.Tags) == 0 &&
		filter.TimeRange == "" && filter.Search == "" {
		return nil
	}
	return filter
}

// splitList splits a comma-separated query value, dropping empty entries
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
