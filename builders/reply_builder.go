package builders

import (
	"fmt"
	"strings"
	"time"

	"attendbot/dto"
	apperrors "attendbot/errors"
)

const helpText = `Attendance bot commands:
good morning, hello, /checkin - check in for today
good bye, checkout, /checkout - check out and record today's hours
/summary [month] - show your attendance, optionally for one month (1-12)
/help - show this message`

// ReplyBuilder tạo nội dung trả lời cho người dùng chat
type ReplyBuilder struct {
	loc *time.Location
}

func NewReplyBuilder(loc *time.Location) *ReplyBuilder {
	if loc == nil {
		loc = time.Local
	}
	return &ReplyBuilder{loc: loc}
}

func (b *ReplyBuilder) clock(t time.Time) string {
	return t.In(b.loc).Format("15:04")
}

func (b *ReplyBuilder) Help() string {
	return helpText
}

func (b *ReplyBuilder) CheckedIn(res *dto.RecordResult) string {
	return fmt.Sprintf("Hi, %s, Good Morning! It's nice to have you here! (checked in at %s)",
		displayName(res.UserName), b.clock(res.CheckInTime))
}

func (b *ReplyBuilder) CheckedOut(res *dto.RecordResult) string {
	if res.CheckOutTime == nil {
		return "Bye! See you again"
	}
	return fmt.Sprintf("Bye! See you again. You worked %s today (%s - %s).",
		res.Duration, b.clock(res.CheckInTime), b.clock(*res.CheckOutTime))
}

// Rejection chuyển lỗi nghiệp vụ thành câu trả lời thân thiện
func (b *ReplyBuilder) Rejection(err error) string {
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		return "Sorry, something went wrong. Please try again later."
	}
	switch appErr.Code {
	case apperrors.ErrCodeAlreadyCheckedIn:
		if appErr.At != nil {
			return fmt.Sprintf("You already checked in today at %s.", b.clock(*appErr.At))
		}
		return "You already checked in today."
	case apperrors.ErrCodeAlreadyCheckedOut:
		if appErr.At != nil {
			return fmt.Sprintf("You already checked out today at %s.", b.clock(*appErr.At))
		}
		return "You already checked out today."
	case apperrors.ErrCodeNoCheckInYet:
		return `You have not checked in today yet. Say "good morning" first.`
	case apperrors.ErrCodeInvalidInterval:
		return "Your check-out time must be after your check-in time."
	case apperrors.ErrCodeInvalidMonth:
		return "Month must be a number from 1 to 12, for example /summary 3."
	case apperrors.ErrCodeOutOfRange:
		return "You are too far from the office to do that."
	default:
		return "Sorry, attendance is temporarily unavailable. Please try again later."
	}
}

func (b *ReplyBuilder) Summary(rows []dto.SummaryRow, month *int) string {
	if len(rows) == 0 {
		return "No attendance records found."
	}
	var sb strings.Builder
	if month != nil {
		fmt.Fprintf(&sb, "Your attendance for %s:\n", time.Month(*month))
	} else {
		sb.WriteString("Your attendance:\n")
	}
	for _, r := range rows {
		fmt.Fprintf(&sb, "%s  %s -> %s  %s\n", r.Date, r.InTime, r.OutTime, r.TotalDuration)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "there"
	}
	return name
}
