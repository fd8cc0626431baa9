package models

import "time"

// DaySummary là bản tổng hợp của một ngày, khóa theo Date (00:00 giờ địa phương)
type DaySummary struct {
	Date      time.Time      `gorm:"primaryKey" json:"date"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	Entries   []SummaryEntry `gorm:"foreignKey:Date;references:Date" json:"entries"`
}

func (DaySummary) TableName() string {
	return "day_summaries"
}

// SummaryEntry là phiên làm việc đã hoàn tất của một user trong ngày.
// Khóa chính (date, user_id) nên mỗi user chỉ có một entry mỗi ngày.
type SummaryEntry struct {
	Date         time.Time `gorm:"primaryKey" json:"date"`
	UserID       int64     `gorm:"primaryKey;autoIncrement:false;index" json:"userId"`
	UserName     string    `json:"userName"`
	CheckInTime  time.Time `gorm:"not null" json:"checkInTime"`
	CheckOutTime time.Time `gorm:"not null" json:"checkOutTime"`
	TotalMinutes int       `gorm:"not null" json:"totalMinutes"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (SummaryEntry) TableName() string {
	return "summary_entries"
}
