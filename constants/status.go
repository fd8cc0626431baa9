package constants

import "time"

// Loại sự kiện chấm công
const (
	EventKindCheckIn  = "checkin"
	EventKindCheckOut = "checkout"
)

// Hiển thị
const (
	Placeholder = "-"
	DateLayout  = "2006-01-02"
	TimeLayout  = "15:04:05"
)

// Mặc định
const (
	DefaultTimezone     = "Asia/Ho_Chi_Minh"
	DefaultPort         = "8083"
	DefaultStoreTimeout = 5 * time.Second
	DefaultDigestCron   = "0 0 * * *"
	SummaryCacheTTL     = 30 * time.Minute
	SummaryCachePrefix  = "attendance_summary:"
)
