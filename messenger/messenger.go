package messenger

import (
	"context"
	"time"
)

// Update là một tin nhắn văn bản từ nền tảng chat
type Update struct {
	UserID   int64
	UserName string
	Text     string
	SentAt   time.Time
	ChatID   int64
}

// Sender gửi câu trả lời về một chat
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Handler xử lý một Update và trả về câu trả lời; chuỗi rỗng nghĩa là không trả lời
type Handler func(ctx context.Context, upd Update) string
