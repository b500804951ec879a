package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ecobin-backend/internal/activitystore"
	"ecobin-backend/internal/database"
	"ecobin-backend/internal/models"
	"ecobin-backend/internal/services"
	"ecobin-backend/internal/websocket"
)

const testSecret = "handler-test-secret"

// memoryStore is a writable activity store used in place of Firestore
type memoryStore struct {
	mu      sync.Mutex
	order   []string
	records map[string]models.Activity
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[string]models.Activity{}}
}

func (m *memoryStore) Name() string { return "memory" }

func (m *memoryStore) List(ctx context.Context, f models.ActivityFilters) ([]models.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Activity{}
	for i := len(m.order) - 1; i >= 0; i-- {
		out = append(out, m.records[m.order[i]])
	}
	return f.Apply(out), nil
}

func (m *memoryStore) Get(ctx context.Context, id string) (models.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.records[id]
	if !ok {
		return models.Activity{}, activitystore.ErrNotFound
	}
	return a, nil
}

func (m *memoryStore) Create(ctx context.Context, in models.ActivityInput) (models.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	a := models.Activity{
		ID:              "act-" + strconv.Itoa(len(m.order)+1),
		Timestamp:       &now,
		ActivityType:    in.ActivityType,
		DescriptionMain: in.DescriptionMain,
		DescriptionNote: in.DescriptionNote,
		AssignedTo:      in.AssignedTo,
		Location:        in.Location,
		Status:          models.CanonicalStatus(in.Status),
		Priority:        in.Priority,
		Details:         in.Details,
		BinID:           in.BinID,
		Weight:          in.Weight,
	}
	if a.Priority == "" {
		a.Priority = models.DerivePriority(in.Weight)
	}
	m.order = append(m.order, a.ID)
	m.records[a.ID] = a
	return a, nil
}

func (m *memoryStore) Update(ctx context.Context, id string, in models.ActivityInput) (models.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.records[id]
	if !ok {
		return models.Activity{}, activitystore.ErrNotFound
	}
	a.ActivityType = in.ActivityType
	a.Status = models.CanonicalStatus(in.Status)
	m.records[id] = a
	return a, nil
}

func (m *memoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return activitystore.ErrNotFound
	}
	delete(m.records, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memoryStore) Stats(ctx context.Context) (models.ActivityStats, error) {
	list, _ := m.List(ctx, models.ActivityFilters{})
	return models.Stats(list), nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	events   []string
	payloads []interface{}
}

func (r *recordingPublisher) Publish(event string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	r.payloads = append(r.payloads, payload)
}

// payload returns the JSON of the last event published under name
func (r *recordingPublisher) payload(t *testing.T, name string) string {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i] == name {
			data, err := json.Marshal(r.payloads[i])
			require.NoError(t, err)
			return string(data)
		}
	}
	t.Fatalf("no %s event published", name)
	return ""
}

func (r *recordingPublisher) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.events...)
}

type testEnv struct {
	handler http.Handler
	events  *recordingPublisher
	users   *database.UserStore
}

func newTestEnv(t *testing.T, primary activitystore.Store) *testEnv {
	t.Helper()

	db, err := database.Connect(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	pub := &recordingPublisher{}
	users := database.NewUserStore(db)

	handler := NewRouter(RouterConfig{
		Activities:    services.NewActivityService(primary, activitystore.NewFallbackStore(), pub),
		Notifications: services.NewNotificationService(database.NewNotificationStore(db), pub, nil),
		Users:         users,
		DB:            db,
		Hub:           websocket.NewHub(),
		JWTSecret:     testSecret,
		StoreMode:     "test",
	})
	return &testEnv{handler: handler, events: pub, users: users}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
