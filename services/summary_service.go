package services

import (
	"context"
	"time"

	"attendbot/constants"
	apperrors "attendbot/errors"
	"attendbot/models"
	"attendbot/services/logger"
	"attendbot/services/notification"
)

// SummaryInput là dữ liệu của một phiên đã hoàn tất
type SummaryInput struct {
	UserID       int64
	UserName     string
	CheckIn      time.Time
	CheckOut     time.Time
	TotalMinutes int
}

// SummaryService là nơi duy nhất tạo và sửa DaySummary/SummaryEntry
type SummaryService struct {
	store    Store
	calendar *Calendar
	cache    SummaryCache
	notifier notification.Service
	logger   logger.Logger
}

type SummaryServiceOptions struct {
	Store    Store
	Calendar *Calendar
	Cache    SummaryCache
	Notifier notification.Service
	Logger   logger.Logger
}

func NewSummaryService(opts SummaryServiceOptions) *SummaryService {
	s := &SummaryService{
		store:    opts.Store,
		calendar: opts.Calendar,
		cache:    opts.Cache,
		notifier: opts.Notifier,
		logger:   opts.Logger,
	}
	if s.cache == nil {
		s.cache = noopSummaryCache{}
	}
	if s.notifier == nil {
		s.notifier = notification.NopService{}
	}
	if s.logger == nil {
		s.logger = logger.NopLogger{}
	}
	if s.calendar == nil {
		s.calendar = NewCalendar(nil, nil)
	}
	return s
}

// Upsert ghi entry của user vào tổng hợp của ngày check-out.
// Gọi lại cho cùng user và ngày sẽ ghi đè entry cũ.
func (s *SummaryService) Upsert(ctx context.Context, in SummaryInput) error {
	if err := s.upsert(ctx, s.store, in); err != nil {
		return err
	}
	s.published(ctx, in)
	return nil
}

func (s *SummaryService) upsert(ctx context.Context, store Store, in SummaryInput) error {
	if !in.CheckOut.After(in.CheckIn) {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidInterval, "check-out must be after check-in", nil)
	}
	entry := &models.SummaryEntry{
		Date:         s.calendar.StartOfDay(in.CheckOut),
		UserID:       in.UserID,
		UserName:     in.UserName,
		CheckInTime:  in.CheckIn,
		CheckOutTime: in.CheckOut,
		TotalMinutes: in.TotalMinutes,
	}
	if err := store.UpsertSummaryEntry(ctx, entry); err != nil {
		s.logger.Error("upsert summary user=%d date=%s: %v", in.UserID, entry.Date.Format(constants.DateLayout), err)
		return apperrors.NewAppError(apperrors.ErrCodeStoreUnavailable, "cannot save summary", err)
	}
	s.logger.Debug("summary upserted user=%d date=%s minutes=%d", in.UserID, entry.Date.Format(constants.DateLayout), in.TotalMinutes)
	return nil
}

// published chạy sau khi dữ liệu đã commit: xóa cache và báo cho websocket
func (s *SummaryService) published(ctx context.Context, in SummaryInput) {
	if err := s.cache.Invalidate(ctx, in.UserID); err != nil {
		s.logger.Warn("invalidate summary cache user=%d: %v", in.UserID, err)
	}
	msg := notification.NewMessageBuilder(constants.EventKindCheckOut).
		WithUser(in.UserID, in.UserName).
		At(in.CheckOut).
		WithMinutes(in.TotalMinutes).
		Build()
	if err := s.notifier.SendMessage(msg); err != nil {
		s.logger.Warn("broadcast checkout user=%d: %v", in.UserID, err)
	}
}

// DaySummary trả về tổng hợp của ngày chứa date, nil nếu chưa ai check-out
func (s *SummaryService) DaySummary(ctx context.Context, date time.Time) (*models.DaySummary, error) {
	day, err := s.store.FindDaySummary(ctx, s.calendar.StartOfDay(date))
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeStoreUnavailable, "cannot load day summary", err)
	}
	return day, nil
}
