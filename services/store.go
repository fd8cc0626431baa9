package services

import (
	"context"
	"time"

	"attendbot/models"
)

// Store là hợp đồng lưu trữ mà phần lõi chấm công cần.
// FindEvent/FindDaySummary trả về (nil, nil) khi không có bản ghi.
// InsertEvent trả về gorm.ErrDuplicatedKey khi vi phạm unique (user_id, day, kind).
type Store interface {
	FindEvent(ctx context.Context, userID int64, kind string, day time.Time) (*models.AttendanceEvent, error)
	InsertEvent(ctx context.Context, event *models.AttendanceEvent) error
	UpsertSummaryEntry(ctx context.Context, entry *models.SummaryEntry) error
	FindSummaryEntries(ctx context.Context, userID int64) ([]models.SummaryEntry, error)
	FindDaySummary(ctx context.Context, date time.Time) (*models.DaySummary, error)
	FindOpenSessions(ctx context.Context, day time.Time) ([]models.AttendanceEvent, error)
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
