package services

import (
	"context"
	"errors"
	"time"

	"attendbot/builders"
	"attendbot/constants"
	"attendbot/dto"
	apperrors "attendbot/errors"
	"attendbot/models"
	"attendbot/services/logger"
	"attendbot/services/notification"

	"gorm.io/gorm"
)

// AttendanceService quyết định chấp nhận hay từ chối check-in/check-out.
// Thứ tự trong ngày luôn là check-in rồi mới check-out; mỗi loại tối đa một lần.
type AttendanceService struct {
	store     Store
	calendar  *Calendar
	summaries *SummaryService
	notifier  notification.Service
	logger    logger.Logger
}

type AttendanceServiceOptions struct {
	Store     Store
	Calendar  *Calendar
	Summaries *SummaryService
	Notifier  notification.Service
	Logger    logger.Logger
}

func NewAttendanceService(opts AttendanceServiceOptions) *AttendanceService {
	s := &AttendanceService{
		store:     opts.Store,
		calendar:  opts.Calendar,
		summaries: opts.Summaries,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
	}
	if s.calendar == nil {
		s.calendar = NewCalendar(nil, nil)
	}
	if s.notifier == nil {
		s.notifier = notification.NopService{}
	}
	if s.logger == nil {
		s.logger = logger.NopLogger{}
	}
	if s.summaries == nil {
		s.summaries = NewSummaryService(SummaryServiceOptions{
			Store:    opts.Store,
			Calendar: s.calendar,
			Notifier: s.notifier,
			Logger:   s.logger,
		})
	}
	return s
}

// Sender là thông tin người gửi sự kiện
type Sender struct {
	UserID   int64
	UserName string
	ChatID   int64
}

// RecordCheckIn ghi nhận check-in của user cho ngày hiện tại
func (s *AttendanceService) RecordCheckIn(ctx context.Context, from Sender, eventTime time.Time) (*dto.RecordResult, error) {
	day := s.calendar.Today()

	existing, err := s.store.FindEvent(ctx, from.UserID, constants.EventKindCheckIn, day)
	if err != nil {
		return nil, s.storeError("find checkin", from.UserID, err)
	}
	if existing != nil {
		return nil, alreadyCheckedIn(existing.Timestamp)
	}

	event := builders.NewEventBuilder().
		WithUser(from.UserID, from.UserName).
		WithChat(from.ChatID).
		WithKind(constants.EventKindCheckIn).
		At(eventTime, day).
		Build()

	if err := s.store.InsertEvent(ctx, event); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Thua race với một request khác cùng user trong ngày
			return nil, s.reloadRejection(ctx, from.UserID, constants.EventKindCheckIn, day)
		}
		return nil, s.storeError("insert checkin", from.UserID, err)
	}

	s.logger.Info("user %d checked in at %s", from.UserID, eventTime.Format(time.RFC3339))
	s.broadcast(notification.NewMessageBuilder(constants.EventKindCheckIn).
		WithUser(from.UserID, from.UserName).
		At(eventTime).
		Build())

	return &dto.RecordResult{
		Kind:        constants.EventKindCheckIn,
		UserID:      from.UserID,
		UserName:    from.UserName,
		CheckInTime: eventTime,
	}, nil
}

// RecordCheckOut ghi nhận check-out, tính thời gian làm việc và cập nhật tổng hợp ngày.
// Chỉ ghép với check-in của chính ngày hôm nay.
func (s *AttendanceService) RecordCheckOut(ctx context.Context, from Sender, eventTime time.Time) (*dto.RecordResult, error) {
	day := s.calendar.Today()

	existing, err := s.store.FindEvent(ctx, from.UserID, constants.EventKindCheckOut, day)
	if err != nil {
		return nil, s.storeError("find checkout", from.UserID, err)
	}
	if existing != nil {
		return nil, alreadyCheckedOut(existing.Timestamp)
	}

	checkIn, err := s.store.FindEvent(ctx, from.UserID, constants.EventKindCheckIn, day)
	if err != nil {
		return nil, s.storeError("find checkin", from.UserID, err)
	}
	if checkIn == nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeNoCheckInYet, "no check-in recorded today", nil)
	}

	duration, err := ComputeDuration(checkIn.Timestamp, eventTime)
	if err != nil {
		return nil, err
	}

	event := builders.NewEventBuilder().
		WithUser(from.UserID, from.UserName).
		WithChat(from.ChatID).
		WithKind(constants.EventKindCheckOut).
		At(eventTime, day).
		Build()

	in := SummaryInput{
		UserID:       from.UserID,
		UserName:     from.UserName,
		CheckIn:      checkIn.Timestamp,
		CheckOut:     eventTime,
		TotalMinutes: duration.TotalMinutes,
	}

	err = s.store.Transaction(ctx, func(tx Store) error {
		if err := tx.InsertEvent(ctx, event); err != nil {
			return err
		}
		return s.summaries.upsert(ctx, tx, in)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.reloadRejection(ctx, from.UserID, constants.EventKindCheckOut, day)
		}
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, s.storeError("insert checkout", from.UserID, err)
	}

	s.summaries.published(ctx, in)
	s.logger.Info("user %d checked out at %s after %s", from.UserID, eventTime.Format(time.RFC3339), duration)

	out := eventTime
	return &dto.RecordResult{
		Kind:         constants.EventKindCheckOut,
		UserID:       from.UserID,
		UserName:     from.UserName,
		CheckInTime:  checkIn.Timestamp,
		CheckOutTime: &out,
		TotalMinutes: duration.TotalMinutes,
		Duration:     duration.String(),
	}, nil
}

// OpenSessions trả về các user đã check-in hôm nay nhưng chưa check-out
func (s *AttendanceService) OpenSessions(ctx context.Context, day time.Time) ([]models.AttendanceEvent, error) {
	events, err := s.store.FindOpenSessions(ctx, s.calendar.StartOfDay(day))
	if err != nil {
		return nil, s.storeError("find open sessions", 0, err)
	}
	return events, nil
}

func (s *AttendanceService) reloadRejection(ctx context.Context, userID int64, kind string, day time.Time) error {
	existing, err := s.store.FindEvent(ctx, userID, kind, day)
	if err != nil {
		return s.storeError("reload "+kind, userID, err)
	}
	code, msg := apperrors.ErrCodeAlreadyCheckedOut, "already checked out today"
	if kind == constants.EventKindCheckIn {
		code, msg = apperrors.ErrCodeAlreadyCheckedIn, "already checked in today"
	}
	rejection := apperrors.NewAppError(code, msg, nil)
	if existing != nil {
		rejection = rejection.WithTime(existing.Timestamp)
	}
	return rejection
}

func (s *AttendanceService) storeError(op string, userID int64, err error) error {
	s.logger.Error("%s user=%d: %v", op, userID, err)
	return apperrors.NewAppError(apperrors.ErrCodeStoreUnavailable, "store unavailable", err)
}

func (s *AttendanceService) broadcast(msg string) {
	if err := s.notifier.SendMessage(msg); err != nil {
		s.logger.Warn("broadcast: %v", err)
	}
}

func alreadyCheckedIn(at time.Time) error {
	return apperrors.NewAppError(apperrors.ErrCodeAlreadyCheckedIn, "already checked in today", nil).WithTime(at)
}

func alreadyCheckedOut(at time.Time) error {
	return apperrors.NewAppError(apperrors.ErrCodeAlreadyCheckedOut, "already checked out today", nil).WithTime(at)
}
