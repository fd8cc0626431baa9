package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"attendbot/constants"
	"attendbot/dto"
	apperrors "attendbot/errors"
	"attendbot/models"
	"attendbot/services/logger"
)

// SummaryQueryService chỉ đọc: lọc và định dạng tổng hợp theo user
type SummaryQueryService struct {
	store    Store
	cache    SummaryCache
	calendar *Calendar
	logger   logger.Logger
}

type SummaryQueryOptions struct {
	Store    Store
	Cache    SummaryCache
	Calendar *Calendar
	Logger   logger.Logger
}

func NewSummaryQueryService(opts SummaryQueryOptions) *SummaryQueryService {
	q := &SummaryQueryService{
		store:    opts.Store,
		cache:    opts.Cache,
		calendar: opts.Calendar,
		logger:   opts.Logger,
	}
	if q.cache == nil {
		q.cache = noopSummaryCache{}
	}
	if q.logger == nil {
		q.logger = logger.NopLogger{}
	}
	if q.calendar == nil {
		q.calendar = NewCalendar(nil, nil)
	}
	return q
}

// ParseMonth đọc tháng từ chuỗi; rỗng nghĩa là không lọc
func ParseMonth(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	m, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidMonth, "month must be an integer between 1 and 12", err)
	}
	if err := ValidateMonth(m); err != nil {
		return nil, err
	}
	return &m, nil
}

func ValidateMonth(m int) error {
	if m < 1 || m > 12 {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidMonth, "month must be an integer between 1 and 12", nil)
	}
	return nil
}

// ForUser trả về các dòng tổng hợp của user theo thứ tự ngày tăng dần.
// Lọc theo tháng dựa trên giờ check-in, không phân biệt năm.
func (q *SummaryQueryService) ForUser(ctx context.Context, userID int64, month *int) ([]dto.SummaryRow, error) {
	if month != nil {
		if err := ValidateMonth(*month); err != nil {
			return nil, err
		}
	}

	entries, err := q.entries(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.SummaryRow, 0, len(entries))
	for _, e := range entries {
		if month != nil && e.CheckInTime.In(q.calendar.Location()).Month() != time.Month(*month) {
			continue
		}
		rows = append(rows, q.row(e))
	}
	return rows, nil
}

func (q *SummaryQueryService) entries(ctx context.Context, userID int64) ([]models.SummaryEntry, error) {
	cached, ok, err := q.cache.Get(ctx, userID)
	if err != nil {
		q.logger.Warn("read summary cache user=%d: %v", userID, err)
	}
	if ok {
		return cached, nil
	}

	// generation phải đọc trước store để không ghi đè một lần invalidate xảy ra giữa chừng
	gen, genErr := q.cache.Generation(ctx, userID)
	if genErr != nil {
		q.logger.Warn("read summary generation user=%d: %v", userID, genErr)
	}

	entries, err := q.store.FindSummaryEntries(ctx, userID)
	if err != nil {
		q.logger.Error("load summary user=%d: %v", userID, err)
		return nil, apperrors.NewAppError(apperrors.ErrCodeStoreUnavailable, "cannot load summary", err)
	}
	if genErr != nil {
		return entries, nil
	}
	if err := q.cache.Set(ctx, userID, gen, entries); err != nil {
		if errors.Is(err, ErrStaleSummary) {
			q.logger.Debug("skip stale summary cache user=%d", userID)
		} else {
			q.logger.Warn("write summary cache user=%d: %v", userID, err)
		}
	}
	return entries, nil
}

func (q *SummaryQueryService) row(e models.SummaryEntry) dto.SummaryRow {
	return dto.SummaryRow{
		Date:          q.formatDate(e.Date),
		InTime:        q.formatTime(e.CheckInTime),
		OutTime:       q.formatTime(e.CheckOutTime),
		TotalDuration: formatTotal(e),
		TotalMinutes:  e.TotalMinutes,
	}
}

// DayRows định dạng các entry của một ngày
func (q *SummaryQueryService) DayRows(day *models.DaySummary) dto.DaySummaryResponse {
	resp := dto.DaySummaryResponse{Entries: []dto.DaySummaryEntry{}}
	if day == nil {
		return resp
	}
	resp.Date = q.formatDate(day.Date)
	for _, e := range day.Entries {
		resp.Entries = append(resp.Entries, dto.DaySummaryEntry{
			UserID:        e.UserID,
			UserName:      e.UserName,
			InTime:        q.formatTime(e.CheckInTime),
			OutTime:       q.formatTime(e.CheckOutTime),
			TotalDuration: formatTotal(e),
			TotalMinutes:  e.TotalMinutes,
		})
	}
	return resp
}

func (q *SummaryQueryService) formatDate(t time.Time) string {
	if t.IsZero() {
		return constants.Placeholder
	}
	return t.In(q.calendar.Location()).Format(constants.DateLayout)
}

func (q *SummaryQueryService) formatTime(t time.Time) string {
	if t.IsZero() {
		return constants.Placeholder
	}
	return t.In(q.calendar.Location()).Format(constants.TimeLayout)
}

// formatTotal chỉ dùng placeholder khi thiếu giờ vào hoặc giờ ra
func formatTotal(e models.SummaryEntry) string {
	if e.CheckInTime.IsZero() || e.CheckOutTime.IsZero() {
		return constants.Placeholder
	}
	return FormatMinutes(e.TotalMinutes)
}
