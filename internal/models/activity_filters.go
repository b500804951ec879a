package models

import "strings"

// ActivityFilters are the semantic list criteria shared by every activity store
type ActivityFilters struct {
	Search   string
	Type     string
	Status   string
	Priority string
	Limit    int
	Offset   int
}

// IsSet reports whether a filter value restricts results. Empty and "all" do not.
func IsSet(v string) bool {
	return v != "" && v != "all"
}

// Matches reports whether a satisfies every active filter
func (f ActivityFilters) Matches(a Activity) bool {
	if IsSet(f.Type) && a.ActivityType != f.Type {
		return false
	}
	if IsSet(f.Status) && a.Status != f.Status {
		return false
	}
	if IsSet(f.Priority) && a.Priority != f.Priority {
		return false
	}
	if f.Search != "" && !matchesSearch(a, f.Search) {
		return false
	}
	return true
}

// Apply filters an ordered slice and then applies offset and limit.
// Order is preserved.
func (f ActivityFilters) Apply(activities []Activity) []Activity {
	out := make([]Activity, 0, len(activities))
	for _, a := range activities {
		if f.Matches(a) {
			out = append(out, a)
		}
	}
	return f.Page(out)
}

// Page applies offset then limit without reordering.
func (f ActivityFilters) Page(activities []Activity) []Activity {
	if f.Offset > 0 {
		if f.Offset >= len(activities) {
			return []Activity{}
		}
		activities = activities[f.Offset:]
	}
	if f.Limit > 0 && len(activities) > f.Limit {
		activities = activities[:f.Limit]
	}
	return activities
}

func matchesSearch(a Activity, term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(a.Location), term) ||
		strings.Contains(strings.ToLower(a.AssignedTo), term) ||
		strings.Contains(strings.ToLower(a.ActivityType), term)
}
