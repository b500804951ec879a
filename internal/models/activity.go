package models

import (
	"strconv"
	"strings"
	"time"
)

// Activity types shown on the dashboard. Unknown types pass through untouched.
const (
	ActivityTypeTaskAssignment = "task_assignment"
	ActivityTypeBinEmptied     = "bin_emptied"
	ActivityTypeMaintenance    = "maintenance"
	ActivityTypeBinAlert       = "bin_alert"
)

// Activity statuses
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Priorities, highest first
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Fill level breakpoints for priority derivation
const (
	UrgentLevel = 80.0
	HighLevel   = 60.0
	MediumLevel = 40.0
)

const (
	defaultAssignee = "System"
	defaultLocation = "Unknown"
)

// Activity is the store-agnostic record the API and dashboard consume
type Activity struct {
	ID              string     `json:"id"`
	Timestamp       *time.Time `json:"timestamp"`
	ActivityType    string     `json:"activity_type"`
	DescriptionMain string     `json:"description_main"`
	DescriptionNote string     `json:"description_note"`
	AssignedTo      string     `json:"assigned_to"`
	Location        string     `json:"location"`
	Status          string     `json:"status"`
	Priority        string     `json:"priority"`
	Details         []string   `json:"details"`
	BinID           string     `json:"bin_id,omitempty"`
	Weight          float64    `json:"weight"`
}

// NativeActivity is an activitylogs document as written by bin telemetry
// and by this service. Every field is optional.
type NativeActivity struct {
	ID                  string
	ActivityType        string
	Description         string
	BinID               string
	BinLocation         string
	AssignedJanitorName string
	BinStatus           string
	BinLevel            *float64
	CollectedWeight     *float64
	BinCondition        string
	CompletionNotes     string
	Priority            string
	Details             []string
	CollectionTime      *time.Time
	CreatedAt           *time.Time
}

// ActivityStats backs the dashboard overview cards
type ActivityStats struct {
	Alerts      int `json:"alerts"`
	InProgress  int `json:"inProgress"`
	Collections int `json:"collections"`
	Maintenance int `json:"maintenance"`
}

// DerivePriority maps a bin fill level to a priority. Breakpoints are strict.
func DerivePriority(level float64) string {
	switch {
	case level > UrgentLevel:
		return PriorityUrgent
	case level > HighLevel:
		return PriorityHigh
	case level > MediumLevel:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// IsValidPriority reports whether p is one of the four known priorities
func IsValidPriority(p string) bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// IsValidStatus reports whether s is a canonical status
func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// CanonicalStatus translates a native bin_status into the canonical vocabulary.
func CanonicalStatus(native string) string {
	switch strings.ToLower(strings.TrimSpace(native)) {
	case "":
		return StatusPending
	case "completed", StatusDone:
		return StatusDone
	case "in-progress", StatusInProgress:
		return StatusInProgress
	default:
		return native
	}
}

// Normalize maps a native document onto the canonical Activity shape.
// Absent fields get deterministic defaults, so the result always carries
// an id, type, status, priority and a non-nil details slice.
func Normalize(n NativeActivity) Activity {
	a := Activity{
		ID:              n.ID,
		ActivityType:    n.ActivityType,
		DescriptionMain: firstNonEmpty(n.Description, n.BinLocation, n.BinID),
		DescriptionNote: n.CompletionNotes,
		AssignedTo:      firstNonEmpty(n.AssignedJanitorName, defaultAssignee),
		Location:        firstNonEmpty(n.BinLocation, defaultLocation),
		Status:          CanonicalStatus(n.BinStatus),
		BinID:           n.BinID,
	}

	if a.ActivityType == "" {
		a.ActivityType = ActivityTypeBinAlert
	}

	switch {
	case n.CreatedAt != nil:
		a.Timestamp = n.CreatedAt
	case n.CollectionTime != nil:
		a.Timestamp = n.CollectionTime
	}

	level := 0.0
	if n.BinLevel != nil {
		level = *n.BinLevel
	}

	if p := strings.ToLower(n.Priority); IsValidPriority(p) {
		a.Priority = p
	} else {
		a.Priority = DerivePriority(level)
	}

	if n.CollectedWeight != nil && *n.CollectedWeight != 0 {
		a.Weight = *n.CollectedWeight
	} else {
		a.Weight = level
	}

	if len(n.Details) > 0 {
		a.Details = append([]string{}, n.Details...)
	} else {
		a.Details = telemetryDetails(n)
	}

	return a
}

// telemetryDetails builds the human-readable annotations for a telemetry
// document that carries no explicit details.
func telemetryDetails(n NativeActivity) []string {
	details := []string{}
	if n.BinLevel != nil && *n.BinLevel != 0 {
		details = append(details, "Level: "+formatNumber(*n.BinLevel)+"%")
	}
	if n.BinCondition != "" {
		details = append(details, "Condition: "+n.BinCondition)
	}
	if n.CollectedWeight != nil && *n.CollectedWeight != 0 {
		details = append(details, "Weight: "+formatNumber(*n.CollectedWeight)+"kg")
	}
	return details
}

// Stats counts the overview figures over an already-normalized set.
func Stats(activities []Activity) ActivityStats {
	var s ActivityStats
	for _, a := range activities {
		if a.Priority == PriorityUrgent || a.Priority == PriorityHigh {
			s.Alerts++
		}
		if a.Status == StatusInProgress {
			s.InProgress++
		}
		if a.ActivityType == ActivityTypeBinEmptied && a.Status == StatusDone {
			s.Collections++
		}
		if a.ActivityType == ActivityTypeMaintenance {
			s.Maintenance++
		}
	}
	return s
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
