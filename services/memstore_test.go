package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"attendbot/constants"
	"attendbot/models"

	"gorm.io/gorm"
)

// memStore là Store trong bộ nhớ cho test, giữ cùng ràng buộc unique như PostgreSQL
type memStore struct {
	mu      sync.Mutex
	txMu    sync.Mutex
	events  []models.AttendanceEvent
	days    map[int64]*models.DaySummary
	entries map[int64]map[int64]models.SummaryEntry
	failErr error
	// lỗi riêng cho từng thao tác ghi
	insertErr error
	upsertErr error
	// chạy sau khi FindSummaryEntries đã đọc xong, ngoài khóa
	afterFindEntries func()
}

func newMemStore() *memStore {
	return &memStore{
		days:    map[int64]*models.DaySummary{},
		entries: map[int64]map[int64]models.SummaryEntry{},
	}
}

func (m *memStore) FindEvent(_ context.Context, userID int64, kind string, day time.Time) (*models.AttendanceEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	for _, e := range m.events {
		if e.UserID == userID && e.Kind == kind && e.Day.Equal(day) {
			e := e
			return &e, nil
		}
	}
	return nil, nil
}

func (m *memStore) InsertEvent(_ context.Context, event *models.AttendanceEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	if m.insertErr != nil {
		return m.insertErr
	}
	for _, e := range m.events {
		if e.UserID == event.UserID && e.Kind == event.Kind && e.Day.Equal(event.Day) {
			return gorm.ErrDuplicatedKey
		}
	}
	m.events = append(m.events, *event)
	return nil
}

func (m *memStore) UpsertSummaryEntry(_ context.Context, entry *models.SummaryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	if m.upsertErr != nil {
		return m.upsertErr
	}
	key := entry.Date.Unix()
	if _, ok := m.days[key]; !ok {
		m.days[key] = &models.DaySummary{Date: entry.Date}
		m.entries[key] = map[int64]models.SummaryEntry{}
	}
	m.entries[key][entry.UserID] = *entry
	return nil
}

func (m *memStore) FindSummaryEntries(_ context.Context, userID int64) ([]models.SummaryEntry, error) {
	out, err := m.findSummaryEntries(userID)
	if m.afterFindEntries != nil {
		m.afterFindEntries()
	}
	return out, err
}

func (m *memStore) findSummaryEntries(userID int64) ([]models.SummaryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	var out []models.SummaryEntry
	for _, byUser := range m.entries {
		if e, ok := byUser[userID]; ok {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *memStore) FindDaySummary(_ context.Context, date time.Time) (*models.DaySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	key := date.Unix()
	day, ok := m.days[key]
	if !ok {
		return nil, nil
	}
	out := &models.DaySummary{Date: day.Date}
	for _, e := range m.entries[key] {
		out.Entries = append(out.Entries, e)
	}
	sort.Slice(out.Entries, func(i, j int) bool { return out.Entries[i].UserID < out.Entries[j].UserID })
	return out, nil
}

func (m *memStore) FindOpenSessions(_ context.Context, day time.Time) ([]models.AttendanceEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	closed := map[int64]bool{}
	for _, e := range m.events {
		if e.Day.Equal(day) && e.Kind == constants.EventKindCheckOut {
			closed[e.UserID] = true
		}
	}
	var open []models.AttendanceEvent
	for _, e := range m.events {
		if e.Day.Equal(day) && e.Kind == constants.EventKindCheckIn && !closed[e.UserID] {
			open = append(open, e)
		}
	}
	return open, nil
}

// Transaction chạy fn trên bản sao; chỉ chép lại khi fn thành công.
// Các transaction chạy tuần tự.
func (m *memStore) Transaction(_ context.Context, fn func(tx Store) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	tx := m.clone()
	if err := fn(tx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = tx.events
	m.days = tx.days
	m.entries = tx.entries
	return nil
}

func (m *memStore) clone() *memStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &memStore{
		events:    append([]models.AttendanceEvent(nil), m.events...),
		days:      make(map[int64]*models.DaySummary, len(m.days)),
		entries:   make(map[int64]map[int64]models.SummaryEntry, len(m.entries)),
		failErr:   m.failErr,
		insertErr: m.insertErr,
		upsertErr: m.upsertErr,
	}
	for k, d := range m.days {
		day := *d
		c.days[k] = &day
	}
	for k, byUser := range m.entries {
		cp := make(map[int64]models.SummaryEntry, len(byUser))
		for u, e := range byUser {
			cp[u] = e
		}
		c.entries[k] = cp
	}
	return c
}

func (m *memStore) setUpsertErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertErr = err
}

func (m *memStore) countEvents(userID int64, kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.events {
		if e.UserID == userID && e.Kind == kind {
			n++
		}
	}
	return n
}
