package activitystore

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ecobin-backend/internal/models"
)

// DefaultCollection holds bin telemetry and dashboard activities
const DefaultCollection = "activitylogs"

// FirestoreStore reads and writes activities in a Cloud Firestore collection
type FirestoreStore struct {
	client     *firestore.Client
	collection string
	now        func() time.Time
}

func NewFirestoreStore(client *firestore.Client, collection string) *FirestoreStore {
	if collection == "" {
		collection = DefaultCollection
	}
	return &FirestoreStore{client: client, collection: collection, now: time.Now}
}

func (s *FirestoreStore) Name() string { return "firestore" }

func (s *FirestoreStore) List(ctx context.Context, filters models.ActivityFilters) ([]models.Activity, error) {
	q := planQuery(filters).apply(s.client.Collection(s.collection).Query)

	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.collection, err)
	}

	activities := make([]models.Activity, 0, len(docs))
	for _, doc := range docs {
		activities = append(activities, models.Normalize(nativeFromMap(doc.Ref.ID, doc.Data())))
	}
	return finish(filters, activities), nil
}

func (s *FirestoreStore) Get(ctx context.Context, id string) (models.Activity, error) {
	if id == "" {
		return models.Activity{}, ErrNotFound
	}

	snap, err := s.client.Collection(s.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return models.Activity{}, ErrNotFound
		}
		return models.Activity{}, fmt.Errorf("get %s/%s: %w", s.collection, id, err)
	}

	return models.Normalize(nativeFromMap(snap.Ref.ID, snap.Data())), nil
}

func (s *FirestoreStore) Create(ctx context.Context, in models.ActivityInput) (models.Activity, error) {
	data := nativeFields(in)
	data["created_at"] = s.now().UTC()
	data["auto_created"] = false

	ref, _, err := s.client.Collection(s.collection).Add(ctx, data)
	if err != nil {
		return models.Activity{}, fmt.Errorf("add to %s: %w", s.collection, err)
	}

	return models.Normalize(nativeFromMap(ref.ID, data)), nil
}

func (s *FirestoreStore) Update(ctx context.Context, id string, in models.ActivityInput) (models.Activity, error) {
	if id == "" {
		return models.Activity{}, ErrNotFound
	}

	fields := nativeFields(in)
	fields["updated_at"] = s.now().UTC()

	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}

	ref := s.client.Collection(s.collection).Doc(id)
	if _, err := ref.Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return models.Activity{}, ErrNotFound
		}
		return models.Activity{}, fmt.Errorf("update %s/%s: %w", s.collection, id, err)
	}

	return s.Get(ctx, id)
}

func (s *FirestoreStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrNotFound
	}

	_, err := s.client.Collection(s.collection).Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("delete %s/%s: %w", s.collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Stats(ctx context.Context) (models.ActivityStats, error) {
	docs, err := s.client.Collection(s.collection).Documents(ctx).GetAll()
	if err != nil {
		return models.ActivityStats{}, fmt.Errorf("scan %s: %w", s.collection, err)
	}

	activities := make([]models.Activity, 0, len(docs))
	for _, doc := range docs {
		activities = append(activities, models.Normalize(nativeFromMap(doc.Ref.ID, doc.Data())))
	}
	return models.Stats(activities), nil
}

// queryPlan is the part of a filter set the collection query can answer
// exactly. Everything else is decided after normalization.
type queryPlan struct {
	activityType string
	limit        int
}

// planQuery pushes down only predicates whose native comparison agrees with
// the normalized value. A missing activity_type normalizes to bin_alert, and
// status and priority are derived from loosely typed fields, so those always
// stay local. The limit is pushed only when nothing is left to filter locally.
func planQuery(filters models.ActivityFilters) queryPlan {
	var p queryPlan
	local := filters.Search != "" || models.IsSet(filters.Status) || models.IsSet(filters.Priority)

	if models.IsSet(filters.Type) {
		if filters.Type == models.ActivityTypeBinAlert {
			local = true
		} else {
			p.activityType = filters.Type
		}
	}

	if filters.Limit > 0 && !local {
		p.limit = filters.Offset + filters.Limit
	}
	return p
}

func (p queryPlan) apply(q firestore.Query) firestore.Query {
	if p.activityType != "" {
		q = q.Where("activity_type", "==", p.activityType)
	}
	q = q.OrderBy("created_at", firestore.Desc)
	if p.limit > 0 {
		q = q.Limit(p.limit)
	}
	return q
}

// finish orders normalized documents and applies the semantic filters
func finish(filters models.ActivityFilters, activities []models.Activity) []models.Activity {
	sortNewestFirst(activities)
	return filters.Apply(activities)
}

// nativeFields maps a canonical mutation onto activitylogs document fields
func nativeFields(in models.ActivityInput) map[string]interface{} {
	fields := map[string]interface{}{
		"activity_type":         in.ActivityType,
		"description":           in.DescriptionMain,
		"completion_notes":      in.DescriptionNote,
		"assigned_janitor_name": in.AssignedTo,
		"bin_location":          in.Location,
		"bin_status":            firstSet(in.Status, models.StatusPending),
		"details":               in.Details,
		"bin_level":             in.Weight,
	}
	if in.Priority != "" {
		fields["priority"] = in.Priority
	}
	if in.BinID != "" {
		fields["bin_id"] = in.BinID
	}
	return fields
}

// nativeFromMap reads a raw document. Missing or mistyped fields stay empty.
func nativeFromMap(id string, data map[string]interface{}) models.NativeActivity {
	return models.NativeActivity{
		ID:                  id,
		ActivityType:        stringField(data, "activity_type"),
		Description:         stringField(data, "description"),
		BinID:               stringField(data, "bin_id"),
		BinLocation:         stringField(data, "bin_location"),
		AssignedJanitorName: stringField(data, "assigned_janitor_name"),
		BinStatus:           stringField(data, "bin_status"),
		BinLevel:            numberField(data, "bin_level"),
		CollectedWeight:     numberField(data, "collected_weight"),
		BinCondition:        stringField(data, "bin_condition"),
		CompletionNotes:     stringField(data, "completion_notes"),
		Priority:            stringField(data, "priority"),
		Details:             listField(data, "details"),
		CollectionTime:      timeField(data, "collection_time"),
		CreatedAt:           timeField(data, "created_at"),
	}
}

func stringField(data map[string]interface{}, key string) string {
	switch v := data[key].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return ""
}

func numberField(data map[string]interface{}, key string) *float64 {
	var f float64
	switch v := data[key].(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int64:
		f = float64(v)
	case int:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	return &f
}

func listField(data map[string]interface{}, key string) []string {
	switch v := data[key].(type) {
	case []string:
		return append([]string{}, v...)
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v != "" {
			return []string{v}
		}
	}
	return nil
}

func timeField(data map[string]interface{}, key string) *time.Time {
	switch v := data[key].(type) {
	case time.Time:
		if v.IsZero() {
			return nil
		}
		t := v.UTC()
		return &t
	case *time.Time:
		if v == nil {
			return nil
		}
		t := v.UTC()
		return &t
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
			if t, err := time.Parse(layout, v); err == nil {
				t = t.UTC()
				return &t
			}
		}
	}
	return nil
}

// sortNewestFirst orders by timestamp descending; untimed records go last
func sortNewestFirst(activities []models.Activity) {
	sort.SliceStable(activities, func(i, j int) bool {
		a, b := activities[i].Timestamp, activities[j].Timestamp
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
}

func firstSet(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
