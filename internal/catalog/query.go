package catalog

import (
	"sort"
	"strings"
)

// SortOrder is one of the orderings offered by the filter bar.
type SortOrder string

const (
	SortNone   SortOrder = ""
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
	SortAZ     SortOrder = "az"
	SortZA     SortOrder = "za"
)

// ParseSort maps a query parameter to a SortOrder. The empty string keeps
// insertion order.
func ParseSort(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortNone, SortNewest, SortOldest, SortAZ, SortZA:
		return o, nil
	}
	return "", invalidEnum("sort", s)
}

// CategoryAll disables the category filter.
const CategoryAll = "all"

// Query combines the catalogue filters: category, free-text search and sort.
type Query struct {
	Category string
	Search   string
	Sort     SortOrder
}

// HasCategory reports whether the query narrows by category.
func (q Query) HasCategory() bool {
	return q.Category != "" && q.Category != CategoryAll
}

// Matches reports whether p passes the category and search filters. Search is
// a case-insensitive substring match over title, description and tag.
func (q Query) Matches(p *Project) bool {
	if q.HasCategory() && p.Category != q.Category {
		return false
	}
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	return p.Tag != nil && strings.Contains(strings.ToLower(*p.Tag), needle)
}

// Apply filters and sorts projects. The input slice is not modified; ties keep
// their relative order.
func (q Query) Apply(projects []*Project) []*Project {
	out := make([]*Project, 0, len(projects))
	for _, p := range projects {
		if q.Matches(p) {
			out = append(out, p)
		}
	}
	var less func(a, b *Project) bool
	switch q.Sort {
	case SortNewest:
		less = func(a, b *Project) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortOldest:
		less = func(a, b *Project) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortAZ:
		less = func(a, b *Project) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	case SortZA:
		less = func(a, b *Project) bool { return strings.ToLower(a.Title) > strings.ToLower(b.Title) }
	default:
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
