package response

import (
	"net/http"

	"attendbot/errors"

	"github.com/gin-gonic/gin"
)

// Response định nghĩa cấu trúc response
type Response struct {
	Code int         `json:"code"`
	Mess string      `json:"mess"`
	Err  string      `json:"error,omitempty"`
	Data interface{} `json:"data,omitempty"`
}

// Success trả về response thành công
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: "Thành công",
		Data: data,
	})
}

// ServerError trả về response lỗi server
func ServerError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, Response{
		Code: 0,
		Mess: "Lỗi server",
	})
}

// StoreError trả về 500 kèm mã lỗi khi không truy cập được kho dữ liệu
func StoreError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, Response{
		Code: 0,
		Mess: "Lỗi server",
		Err:  string(errors.CodeOf(err)),
	})
}

// BadRequest trả về response lỗi bad request
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Code: 0,
		Mess: message,
	})
}

// Conflict trả về 409 kèm thời điểm của bản ghi đã tồn tại
func Conflict(c *gin.Context, appErr *errors.AppError) {
	c.JSON(http.StatusConflict, Response{
		Code: 0,
		Mess: appErr.Message,
		Err:  string(appErr.Code),
		Data: appErr.At,
	})
}

// FromError chọn status HTTP theo mã lỗi nghiệp vụ
func FromError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		ServerError(c)
		return
	}
	switch appErr.Code {
	case errors.ErrCodeAlreadyCheckedIn, errors.ErrCodeAlreadyCheckedOut:
		Conflict(c, appErr)
	case errors.ErrCodeStoreUnavailable:
		StoreError(c, err)
	default:
		c.JSON(http.StatusBadRequest, Response{Code: 0, Mess: appErr.Message, Err: string(appErr.Code)})
	}
}
