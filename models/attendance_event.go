package models

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceEvent là một lần check-in hoặc check-out đã được chấp nhận.
// Bảng chỉ ghi thêm, không sửa, không xóa.
type AttendanceEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_event_user_day_kind,priority:1" json:"userId"`
	UserName  string    `json:"userName"`
	ChatID    int64     `json:"chatId"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	Day       time.Time `gorm:"not null;uniqueIndex:idx_event_user_day_kind,priority:2" json:"day"`
	Kind      string    `gorm:"type:varchar(16);not null;uniqueIndex:idx_event_user_day_kind,priority:3" json:"kind"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (AttendanceEvent) TableName() string {
	return "attendance_events"
}
