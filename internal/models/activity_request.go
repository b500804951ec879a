package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrValidation marks a malformed mutation payload
var ErrValidation = errors.New("validation failed")

// StringList decodes either a JSON string or an array of strings
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*l = StringList{}
		} else {
			*l = StringList{single}
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("details must be a string or an array of strings")
	}
	*l = many
	return nil
}

// ActivityRequest is the body of POST and PUT /api/activities.
// Both the dashboard's task modal fields and the older field names are accepted.
type ActivityRequest struct {
	ActivityType    string     `json:"activity_type"`
	Description     string     `json:"description"`      // task modal
	DescriptionMain string     `json:"description_main"` // legacy
	Notes           string     `json:"notes"`            // task modal
	DescriptionNote string     `json:"description_note"` // legacy
	AssignedTo      string     `json:"assigned_to"`
	Location        string     `json:"location"`
	Status          string     `json:"status"`
	Priority        string     `json:"priority"`
	Details         StringList `json:"details"`
	BinID           string     `json:"bin_id"`
	Weight          *float64   `json:"weight"`
	DueDate         string     `json:"due_date"`
}

// ActivityInput is the canonical mutation record every store writes
type ActivityInput struct {
	ActivityType    string
	DescriptionMain string
	DescriptionNote string
	AssignedTo      string
	Location        string
	Status          string
	Priority        string
	Details         []string
	BinID           string
	Weight          float64
}

// Normalize folds the accepted aliases into one ActivityInput and validates it.
// now seeds the generated bin id when the payload has none.
func (r ActivityRequest) Normalize(now time.Time) (ActivityInput, error) {
	in, err := r.fold()
	if err != nil {
		return ActivityInput{}, err
	}
	if in.BinID == "" {
		in.BinID = fmt.Sprintf("task_%d", now.UnixMilli())
	}
	return in, in.Validate()
}

// NormalizeUpdate is Normalize for PUT: an absent bin_id leaves the stored one alone.
func (r ActivityRequest) NormalizeUpdate() (ActivityInput, error) {
	in, err := r.fold()
	if err != nil {
		return ActivityInput{}, err
	}
	return in, in.Validate()
}

func (r ActivityRequest) fold() (ActivityInput, error) {
	in := ActivityInput{
		ActivityType:    strings.TrimSpace(r.ActivityType),
		DescriptionMain: firstNonEmpty(r.Description, r.DescriptionMain, "Task Assignment"),
		DescriptionNote: firstNonEmpty(r.Notes, r.DescriptionNote),
		AssignedTo:      strings.TrimSpace(r.AssignedTo),
		Location:        strings.TrimSpace(r.Location),
		Status:          strings.ToLower(strings.TrimSpace(r.Status)),
		Priority:        strings.ToLower(strings.TrimSpace(r.Priority)),
		Details:         append([]string{}, r.Details...),
		BinID:           strings.TrimSpace(r.BinID),
	}

	if r.Weight != nil {
		in.Weight = *r.Weight
	}

	if r.DueDate != "" {
		due, err := parseDueDate(r.DueDate)
		if err != nil {
			return ActivityInput{}, fmt.Errorf("%w: due_date: %v", ErrValidation, err)
		}
		in.Details = append(in.Details, "Due: "+due.Format("1/2/2006"))
	}
	return in, nil
}

// Validate enforces the minimal shape. Status and priority stay optional.
func (in ActivityInput) Validate() error {
	if in.ActivityType == "" {
		return fmt.Errorf("%w: activity_type is required", ErrValidation)
	}
	if in.Status != "" && !IsValidStatus(in.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, in.Status)
	}
	if in.Priority != "" && !IsValidPriority(in.Priority) {
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, in.Priority)
	}
	if in.Weight < 0 {
		return fmt.Errorf("%w: weight must not be negative", ErrValidation)
	}
	return nil
}

func parseDueDate(v string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", v)
}
