package commands

import (
	"context"
	"time"

	"attendbot/builders"
	"attendbot/dto"
	"attendbot/messenger"
	"attendbot/services"
)

// Recorder là phần ghi nhận chấm công mà các command cần
type Recorder interface {
	RecordCheckIn(ctx context.Context, from services.Sender, eventTime time.Time) (*dto.RecordResult, error)
	RecordCheckOut(ctx context.Context, from services.Sender, eventTime time.Time) (*dto.RecordResult, error)
}

// SummaryReader đọc tổng hợp của một user
type SummaryReader interface {
	ForUser(ctx context.Context, userID int64, month *int) ([]dto.SummaryRow, error)
}

type Deps struct {
	Recorder  Recorder
	Summaries SummaryReader
	Replies   *builders.ReplyBuilder
}

// Command định nghĩa interface cho các command.
// Execute luôn trả về câu trả lời; error chỉ để ghi log.
type Command interface {
	Execute(ctx context.Context) (string, error)
}

// New tạo command tương ứng với intent, nil nếu intent không xác định
func New(intent Intent, deps Deps, upd messenger.Update) Command {
	from := services.Sender{UserID: upd.UserID, UserName: upd.UserName, ChatID: upd.ChatID}
	switch intent.Kind {
	case IntentCheckIn:
		return &CheckInCommand{deps: deps, from: from, at: upd.SentAt}
	case IntentCheckOut:
		return &CheckOutCommand{deps: deps, from: from, at: upd.SentAt}
	case IntentHelp:
		return &HelpCommand{deps: deps}
	case IntentSummary:
		return &SummaryCommand{deps: deps, userID: upd.UserID, monthArg: intent.MonthArg}
	default:
		return nil
	}
}

type CheckInCommand struct {
	deps Deps
	from services.Sender
	at   time.Time
}

func (c *CheckInCommand) Execute(ctx context.Context) (string, error) {
	res, err := c.deps.Recorder.RecordCheckIn(ctx, c.from, c.at)
	if err != nil {
		return c.deps.Replies.Rejection(err), err
	}
	return c.deps.Replies.CheckedIn(res), nil
}

type CheckOutCommand struct {
	deps Deps
	from services.Sender
	at   time.Time
}

func (c *CheckOutCommand) Execute(ctx context.Context) (string, error) {
	res, err := c.deps.Recorder.RecordCheckOut(ctx, c.from, c.at)
	if err != nil {
		return c.deps.Replies.Rejection(err), err
	}
	return c.deps.Replies.CheckedOut(res), nil
}

type HelpCommand struct {
	deps Deps
}

func (c *HelpCommand) Execute(context.Context) (string, error) {
	return c.deps.Replies.Help(), nil
}

type SummaryCommand struct {
	deps     Deps
	userID   int64
	monthArg string
}

func (c *SummaryCommand) Execute(ctx context.Context) (string, error) {
	month, err := services.ParseMonth(c.monthArg)
	if err != nil {
		return c.deps.Replies.Rejection(err), err
	}
	rows, err := c.deps.Summaries.ForUser(ctx, c.userID, month)
	if err != nil {
		return c.deps.Replies.Rejection(err), err
	}
	return c.deps.Replies.Summary(rows, month), nil
}
