package dto

import "time"

// RecordResult là kết quả của một lần chấm công được chấp nhận
type RecordResult struct {
	Kind         string     `json:"kind"`
	UserID       int64      `json:"userId"`
	UserName     string     `json:"userName"`
	CheckInTime  time.Time  `json:"checkInTime"`
	CheckOutTime *time.Time `json:"checkOutTime,omitempty"`
	TotalMinutes int        `json:"totalMinutes,omitempty"`
	Duration     string     `json:"duration,omitempty"`
}

// SummaryRow là một dòng trong bảng tổng hợp của user
type SummaryRow struct {
	Date          string `json:"date"`
	InTime        string `json:"inTime"`
	OutTime       string `json:"outTime"`
	TotalDuration string `json:"totalDuration"`
	TotalMinutes  int    `json:"totalMinutes"`
}

// AttendanceRequest là DTO cho check-in/check-out qua HTTP
type AttendanceRequest struct {
	UserID    int64    `json:"userId" validate:"required,gt=0"`
	UserName  string   `json:"userName"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
}

// DaySummaryResponse là DTO cho tổng hợp một ngày
type DaySummaryResponse struct {
	Date    string            `json:"date"`
	Entries []DaySummaryEntry `json:"entries"`
}

type DaySummaryEntry struct {
	UserID        int64  `json:"userId"`
	UserName      string `json:"userName"`
	InTime        string `json:"inTime"`
	OutTime       string `json:"outTime"`
	TotalDuration string `json:"totalDuration"`
	TotalMinutes  int    `json:"totalMinutes"`
}
