package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/noah-isme/score-tracker-api/internal/models"
	appErrors "github.com/noah-isme/score-tracker-api/pkg/errors"
)

type memoryResultStore struct {
	mu      sync.Mutex
	rows    []models.TestResult
	nextID  int64
	err     error
	failFor map[models.Subject]error
	calls   int
}

func newMemoryResultStore(rows ...models.TestResult) *memoryResultStore {
	store := &memoryResultStore{failFor: map[models.Subject]error{}}
	for _, r := range rows {
		store.nextID++
		r.ID = store.nextID
		store.rows = append(store.rows, r)
	}
	return store
}

func (m *memoryResultStore) List(ctx context.Context) ([]models.TestResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.TestResult, len(m.rows))
	copy(out, m.rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TestDate.Before(out[j].TestDate) })
	return out, nil
}

func (m *memoryResultStore) ListRecent(ctx context.Context, limit int) ([]models.TestResult, error) {
	rows, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (m *memoryResultStore) FindByKey(ctx context.Context, key models.ResultKey) (*models.TestResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if err := m.failFor[key.Subject]; err != nil {
		return nil, err
	}
	for _, r := range m.rows {
		if r.Key() == key {
			cp := r
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryResultStore) Create(ctx context.Context, result *models.TestResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	if err := m.failFor[result.Subject]; err != nil {
		return err
	}
	m.nextID++
	result.ID = m.nextID
	m.rows = append(m.rows, *result)
	return nil
}

func (m *memoryResultStore) Update(ctx context.Context, result *models.TestResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	for i := range m.rows {
		if m.rows[i].ID == result.ID {
			m.rows[i] = *result
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memoryResultStore) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type memoryUnitStore struct {
	mu        sync.Mutex
	units     []models.CurriculumUnit
	err       error
	listCalls int
}

func (m *memoryUnitStore) List(ctx context.Context) ([]models.CurriculumUnit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.CurriculumUnit, len(m.units))
	copy(out, m.units)
	return out, nil
}

func (m *memoryUnitStore) BulkInsert(ctx context.Context, units []models.CurriculumUnit, replace bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if replace {
		m.units = nil
	}
	m.units = append(m.units, units...)
	return nil
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	m.ttls[key] = ttl
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.entries, key)
		}
	}
	return nil
}

func f64(v float64) *float64 { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
