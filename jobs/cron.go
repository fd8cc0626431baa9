package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"attendbot/dto"
	"attendbot/messenger"
	"attendbot/models"
	"attendbot/services"
	"attendbot/services/logger"
	"attendbot/services/notification"

	"github.com/robfig/cron/v3"
)

const digestTimeout = 30 * time.Second

// DaySummaryReader đọc tổng hợp của một ngày
type DaySummaryReader interface {
	DaySummary(ctx context.Context, date time.Time) (*models.DaySummary, error)
}

type DayFormatter interface {
	DayRows(day *models.DaySummary) dto.DaySummaryResponse
}

// OpenSessionReader liệt kê những user chưa check-out
type OpenSessionReader interface {
	OpenSessions(ctx context.Context, day time.Time) ([]models.AttendanceEvent, error)
}

// DigestPayload là nội dung bản tin cuối ngày
type DigestPayload struct {
	Summary dto.DaySummaryResponse `json:"summary"`
	Open    []OpenSession          `json:"open"`
}

type OpenSession struct {
	UserID      int64     `json:"userId"`
	UserName    string    `json:"userName"`
	CheckInTime time.Time `json:"checkInTime"`
}

// Digest tổng kết ngày hôm trước và phát qua websocket
type Digest struct {
	Summaries DaySummaryReader
	Formatter DayFormatter
	Sessions  OpenSessionReader
	Calendar  *services.Calendar
	Notifier  notification.Service
	Logger    logger.Logger
	// Chat và ChatID tùy chọn: gửi thêm bản tin dạng text vào một nhóm chat
	Chat   messenger.Sender
	ChatID int64
}

// Run tổng kết ngày trước ngày hiện tại theo lịch
func (d *Digest) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, digestTimeout)
	defer cancel()

	yesterday := d.Calendar.Today().AddDate(0, 0, -1)
	payload, err := d.Build(ctx, yesterday)
	if err != nil {
		return err
	}

	msg := notification.NewMessageBuilder("daily_digest").
		At(yesterday).
		WithData(payload).
		Build()
	if err := d.Notifier.SendMessage(msg); err != nil {
		return err
	}

	if d.Chat == nil || d.ChatID == 0 {
		return nil
	}
	return d.Chat.Send(ctx, d.ChatID, d.Text(payload))
}

// Text định dạng bản tin cho chat
func (d *Digest) Text(p *DigestPayload) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Attendance for %s:", p.Summary.Date)
	if len(p.Summary.Entries) == 0 {
		sb.WriteString("\nNobody checked out.")
	}
	for _, e := range p.Summary.Entries {
		fmt.Fprintf(&sb, "\n%s  %s -> %s  %s", e.UserName, e.InTime, e.OutTime, e.TotalDuration)
	}
	if len(p.Open) > 0 {
		sb.WriteString("\nNo check-out:")
		for _, o := range p.Open {
			fmt.Fprintf(&sb, "\n%s (in at %s)", o.UserName, o.CheckInTime.In(d.Calendar.Location()).Format("15:04"))
		}
	}
	return sb.String()
}

func (d *Digest) Build(ctx context.Context, day time.Time) (*DigestPayload, error) {
	summary, err := d.Summaries.DaySummary(ctx, day)
	if err != nil {
		return nil, err
	}
	events, err := d.Sessions.OpenSessions(ctx, day)
	if err != nil {
		return nil, err
	}

	payload := &DigestPayload{
		Summary: d.Formatter.DayRows(summary),
		Open:    make([]OpenSession, 0, len(events)),
	}
	if summary == nil {
		payload.Summary.Date = day.Format("2006-01-02")
	}
	for _, e := range events {
		payload.Open = append(payload.Open, OpenSession{UserID: e.UserID, UserName: e.UserName, CheckInTime: e.Timestamp})
	}
	return payload, nil
}

// InitCronJobs khởi tạo các cron jobs
func InitCronJobs(c *cron.Cron, spec string, d *Digest) error {
	_, err := c.AddFunc(spec, func() {
		d.Logger.Info("Đang chạy tổng kết chấm công lúc: %v", d.Calendar.Now())
		if err := d.Run(context.Background()); err != nil {
			d.Logger.Error("Lỗi khi tổng kết chấm công: %v", err)
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	d.Logger.Info("Cron jobs initialized successfully")
	return nil
}
