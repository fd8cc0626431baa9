package services

import (
	"context"
	"errors"
	"time"

	"attendbot/constants"
	"attendbot/models"

	"github.com/cenkalti/backoff/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultReadRetries = 3

// GormStore là Store dùng PostgreSQL qua gorm.
// Mọi lời gọi đều có timeout; chỉ các thao tác đọc được retry.
type GormStore struct {
	db      *gorm.DB
	timeout time.Duration
	retries uint64
}

type GormStoreOptions struct {
	DB          *gorm.DB
	Timeout     time.Duration
	ReadRetries uint64
}

func NewGormStore(opts GormStoreOptions) *GormStore {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultStoreTimeout
	}
	retries := opts.ReadRetries
	if retries == 0 {
		retries = defaultReadRetries
	}
	return &GormStore{db: opts.DB, timeout: timeout, retries: retries}
}

// Migrate tạo/cập nhật các bảng chấm công
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&models.AttendanceEvent{}, &models.DaySummary{}, &models.SummaryEntry{})
}

func (s *GormStore) read(ctx context.Context, op func(db *gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.retries), ctx)
	return backoff.Retry(func() error {
		err := op(s.db.WithContext(ctx))
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return backoff.Permanent(err)
		}
		return err
	}, b)
}

func (s *GormStore) write(ctx context.Context, op func(db *gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return op(s.db.WithContext(ctx))
}

func (s *GormStore) FindEvent(ctx context.Context, userID int64, kind string, day time.Time) (*models.AttendanceEvent, error) {
	var found *models.AttendanceEvent
	err := s.read(ctx, func(db *gorm.DB) error {
		var event models.AttendanceEvent
		err := db.Where("user_id = ? AND kind = ? AND day = ?", userID, kind, day).First(&event).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			found = nil
			return nil
		}
		if err != nil {
			return err
		}
		found = &event
		return nil
	})
	return found, err
}

func (s *GormStore) InsertEvent(ctx context.Context, event *models.AttendanceEvent) error {
	return s.write(ctx, func(db *gorm.DB) error {
		return db.Create(event).Error
	})
}

// UpsertSummaryEntry tạo ngày nếu chưa có rồi upsert entry theo (date, user_id).
// Mỗi bước là một câu lệnh nguyên tử, không đọc-sửa-ghi cả document.
func (s *GormStore) UpsertSummaryEntry(ctx context.Context, entry *models.SummaryEntry) error {
	return s.write(ctx, func(db *gorm.DB) error {
		day := models.DaySummary{Date: entry.Date}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&day).Error; err != nil {
			return err
		}
		return db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_name", "check_in_time", "check_out_time", "total_minutes", "updated_at"}),
		}).Create(entry).Error
	})
}

func (s *GormStore) FindSummaryEntries(ctx context.Context, userID int64) ([]models.SummaryEntry, error) {
	var entries []models.SummaryEntry
	err := s.read(ctx, func(db *gorm.DB) error {
		entries = entries[:0]
		return db.Where("user_id = ?", userID).Order("date asc").Find(&entries).Error
	})
	return entries, err
}

func (s *GormStore) FindDaySummary(ctx context.Context, date time.Time) (*models.DaySummary, error) {
	var found *models.DaySummary
	err := s.read(ctx, func(db *gorm.DB) error {
		var day models.DaySummary
		err := db.Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("check_in_time asc")
		}).Where("date = ?", date).First(&day).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			found = nil
			return nil
		}
		if err != nil {
			return err
		}
		found = &day
		return nil
	})
	return found, err
}

// FindOpenSessions trả về các check-in trong ngày chưa có check-out tương ứng
func (s *GormStore) FindOpenSessions(ctx context.Context, day time.Time) ([]models.AttendanceEvent, error) {
	var events []models.AttendanceEvent
	err := s.read(ctx, func(db *gorm.DB) error {
		events = events[:0]
		closed := db.Session(&gorm.Session{NewDB: true}).Model(&models.AttendanceEvent{}).
			Select("user_id").
			Where("day = ? AND kind = ?", day, constants.EventKindCheckOut)
		return db.Where("day = ? AND kind = ? AND user_id NOT IN (?)", day, constants.EventKindCheckIn, closed).
			Order("timestamp asc").
			Find(&events).Error
	})
	return events, err
}

// Transaction chạy fn trong một transaction; fn nhận Store gắn với transaction đó
func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, timeout: s.timeout, retries: 0})
	})
}
