package builders

import (
	"time"

	"attendbot/models"

	"github.com/google/uuid"
)

// EventBuilder giúp tạo AttendanceEvent theo từng bước
type EventBuilder struct {
	event *models.AttendanceEvent
}

// NewEventBuilder tạo instance mới của EventBuilder với ID mới
func NewEventBuilder() *EventBuilder {
	return &EventBuilder{
		event: &models.AttendanceEvent{ID: uuid.New()},
	}
}

// WithUser thêm thông tin user
func (b *EventBuilder) WithUser(userID int64, userName string) *EventBuilder {
	b.event.UserID = userID
	b.event.UserName = userName
	return b
}

// WithChat thêm chat nhận phản hồi
func (b *EventBuilder) WithChat(chatID int64) *EventBuilder {
	b.event.ChatID = chatID
	return b
}

// WithKind thêm loại sự kiện
func (b *EventBuilder) WithKind(kind string) *EventBuilder {
	b.event.Kind = kind
	return b
}

// At gắn thời điểm sự kiện và ngày mà sự kiện được tính vào
func (b *EventBuilder) At(timestamp, day time.Time) *EventBuilder {
	b.event.Timestamp = timestamp
	b.event.Day = day
	return b
}

// Build tạo event hoàn chỉnh
func (b *EventBuilder) Build() *models.AttendanceEvent {
	return b.event
}
