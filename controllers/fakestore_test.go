package controllers

import (
	"context"
	"sort"
	"sync"
	"time"

	"attendbot/constants"
	"attendbot/models"
	"attendbot/services"

	"gorm.io/gorm"
)

type fakeStore struct {
	mu      sync.Mutex
	events  []models.AttendanceEvent
	entries []models.SummaryEntry
	failErr error
}

func (f *fakeStore) FindEvent(_ context.Context, userID int64, kind string, day time.Time) (*models.AttendanceEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}
	for _, e := range f.events {
		if e.UserID == userID && e.Kind == kind && e.Day.Equal(day) {
			e := e
			return &e, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) InsertEvent(_ context.Context, event *models.AttendanceEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	for _, e := range f.events {
		if e.UserID == event.UserID && e.Kind == event.Kind && e.Day.Equal(event.Day) {
			return gorm.ErrDuplicatedKey
		}
	}
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeStore) UpsertSummaryEntry(_ context.Context, entry *models.SummaryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	for i, e := range f.entries {
		if e.UserID == entry.UserID && e.Date.Equal(entry.Date) {
			f.entries[i] = *entry
			return nil
		}
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeStore) FindSummaryEntries(_ context.Context, userID int64) ([]models.SummaryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}
	var out []models.SummaryEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeStore) FindDaySummary(_ context.Context, date time.Time) (*models.DaySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}
	var day *models.DaySummary
	for _, e := range f.entries {
		if e.Date.Equal(date) {
			if day == nil {
				day = &models.DaySummary{Date: date}
			}
			day.Entries = append(day.Entries, e)
		}
	}
	return day, nil
}

func (f *fakeStore) FindOpenSessions(_ context.Context, day time.Time) ([]models.AttendanceEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}
	closed := map[int64]bool{}
	for _, e := range f.events {
		if e.Day.Equal(day) && e.Kind == constants.EventKindCheckOut {
			closed[e.UserID] = true
		}
	}
	var open []models.AttendanceEvent
	for _, e := range f.events {
		if e.Day.Equal(day) && e.Kind == constants.EventKindCheckIn && !closed[e.UserID] {
			open = append(open, e)
		}
	}
	return open, nil
}

func (f *fakeStore) Transaction(_ context.Context, fn func(tx services.Store) error) error {
	return fn(f)
}
