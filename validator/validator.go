package validator

import (
	"strconv"
	"strings"
	"time"

	"attendbot/constants"
	"attendbot/errors"
	"attendbot/utils"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Struct validate struct theo tag `validate`
func Struct(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return errors.NewAppError(errors.ErrCodeValidation, "Dữ liệu không hợp lệ", err)
	}
	return nil
}

// ValidateUserID đọc userId từ path
func ValidateUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewAppError(errors.ErrCodeInvalidUserID, "userId không hợp lệ", err)
	}
	return id, nil
}

// ValidateDate đọc ngày dạng YYYY-MM-DD theo múi giờ loc
func ValidateDate(raw string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(constants.DateLayout, strings.TrimSpace(raw), loc)
	if err != nil {
		return time.Time{}, errors.NewAppError(errors.ErrCodeInvalidFormat, "date phải có dạng YYYY-MM-DD", err)
	}
	return t, nil
}

// ValidateLocation kiểm tra tọa độ nằm trong vùng văn phòng khi geofence được bật
func ValidateLocation(fence utils.Geofence, lat, lng *float64) error {
	if !fence.Enabled() {
		return nil
	}
	if lat == nil || lng == nil {
		return errors.NewAppError(errors.ErrCodeOutOfRange, "Thiếu tọa độ", nil)
	}
	if !fence.Contains(*lat, *lng) {
		return errors.NewAppError(errors.ErrCodeOutOfRange, "Vị trí không hợp lệ", nil)
	}
	return nil
}
