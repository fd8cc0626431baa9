package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode định nghĩa mã lỗi
type ErrorCode string

const (
	// Attendance errors
	ErrCodeAlreadyCheckedIn  ErrorCode = "ALREADY_CHECKED_IN"
	ErrCodeAlreadyCheckedOut ErrorCode = "ALREADY_CHECKED_OUT"
	ErrCodeNoCheckInYet      ErrorCode = "NO_CHECKIN_YET"
	ErrCodeInvalidInterval   ErrorCode = "INVALID_INTERVAL"
	ErrCodeInvalidMonth      ErrorCode = "INVALID_MONTH"
	ErrCodeOutOfRange        ErrorCode = "OUT_OF_RANGE"

	// Store errors
	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"

	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidUserID ErrorCode = "INVALID_USER_ID"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
)

// AppError định nghĩa lỗi của ứng dụng.
// At giữ thời điểm của bản ghi đã tồn tại (nếu có).
type AppError struct {
	Code    ErrorCode
	Message string
	At      *time.Time
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is cho phép so sánh với các lỗi mẫu theo Code
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewAppError tạo một AppError mới
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithTime gắn thời điểm bản ghi đã tồn tại vào lỗi
func (e *AppError) WithTime(t time.Time) *AppError {
	e.At = &t
	return e
}

// IsAppError kiểm tra xem error có phải là AppError không
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError lấy AppError từ error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// CodeOf trả về mã lỗi, rỗng nếu không phải AppError
func CodeOf(err error) ErrorCode {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code
	}
	return ""
}

var (
	ErrAlreadyCheckedIn  = &AppError{Code: ErrCodeAlreadyCheckedIn, Message: "already checked in today"}
	ErrAlreadyCheckedOut = &AppError{Code: ErrCodeAlreadyCheckedOut, Message: "already checked out today"}
	ErrNoCheckInYet      = &AppError{Code: ErrCodeNoCheckInYet, Message: "no check-in recorded today"}
	ErrInvalidInterval   = &AppError{Code: ErrCodeInvalidInterval, Message: "check-out must be after check-in"}
	ErrInvalidMonth      = &AppError{Code: ErrCodeInvalidMonth, Message: "month must be an integer between 1 and 12"}
	ErrStoreUnavailable  = &AppError{Code: ErrCodeStoreUnavailable, Message: "store unavailable"}
)
