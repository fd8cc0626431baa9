package services

import (
	"fmt"
	"math"
	"time"

	apperrors "attendbot/errors"
)

// Duration là thời gian làm việc đã làm tròn tới phút
type Duration struct {
	Hours        int
	Minutes      int
	TotalMinutes int
}

func (d Duration) String() string {
	return FormatMinutes(d.TotalMinutes)
}

// ComputeDuration tính thời gian giữa check-in và check-out, làm tròn tới phút gần nhất
func ComputeDuration(checkIn, checkOut time.Time) (Duration, error) {
	if !checkOut.After(checkIn) {
		return Duration{}, apperrors.NewAppError(apperrors.ErrCodeInvalidInterval,
			fmt.Sprintf("check-out %s is not after check-in %s", checkOut.Format(time.RFC3339), checkIn.Format(time.RFC3339)), nil)
	}
	ms := checkOut.Sub(checkIn).Milliseconds()
	total := int(math.Round(float64(ms) / 60000))
	return Duration{
		Hours:        total / 60,
		Minutes:      total % 60,
		TotalMinutes: total,
	}, nil
}

// FormatMinutes hiển thị số phút dạng "8h30m"
func FormatMinutes(total int) string {
	return fmt.Sprintf("%dh%02dm", total/60, total%60)
}
