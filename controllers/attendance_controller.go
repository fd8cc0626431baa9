package controllers

import (
	"attendbot/dto"
	"attendbot/response"
	"attendbot/services"
	"attendbot/utils"
	"attendbot/validator"

	"github.com/gin-gonic/gin"
)

type AttendanceController struct {
	attendance *services.AttendanceService
	summaries  *services.SummaryService
	query      *services.SummaryQueryService
	calendar   *services.Calendar
	fence      utils.Geofence
}

type AttendanceControllerOptions struct {
	Attendance *services.AttendanceService
	Summaries  *services.SummaryService
	Query      *services.SummaryQueryService
	Calendar   *services.Calendar
	Geofence   utils.Geofence
}

func NewAttendanceController(opts AttendanceControllerOptions) *AttendanceController {
	return &AttendanceController{
		attendance: opts.Attendance,
		summaries:  opts.Summaries,
		query:      opts.Query,
		calendar:   opts.Calendar,
		fence:      opts.Geofence,
	}
}

// GetUserSummary godoc
// @Summary      Tổng hợp chấm công của user
// @Tags         attendance
// @Produce      json
// @Param        userId  path   int  true   "User ID"
// @Param        month   query  int  false  "Tháng (1-12)"
// @Success      200  {array}   dto.SummaryRow
// @Failure      400  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /attendance/{userId} [get]
func (a *AttendanceController) GetUserSummary(c *gin.Context) {
	userID, err := validator.ValidateUserID(c.Param("userId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	month, err := services.ParseMonth(c.Query("month"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	rows, err := a.query.ForUser(c.Request.Context(), userID, month)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(200, rows)
}

// CheckIn godoc
// @Summary      Check-in qua HTTP
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AttendanceRequest  true  "Thông tin check-in"
// @Success      200  {object}  response.Response{data=dto.RecordResult}
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/v1/attendance/checkin [post]
func (a *AttendanceController) CheckIn(c *gin.Context) {
	from, ok := a.bindRequest(c)
	if !ok {
		return
	}
	res, err := a.attendance.RecordCheckIn(c.Request.Context(), from, a.calendar.Now())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, res)
}

// CheckOut godoc
// @Summary      Check-out qua HTTP
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AttendanceRequest  true  "Thông tin check-out"
// @Success      200  {object}  response.Response{data=dto.RecordResult}
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/v1/attendance/checkout [post]
func (a *AttendanceController) CheckOut(c *gin.Context) {
	from, ok := a.bindRequest(c)
	if !ok {
		return
	}
	res, err := a.attendance.RecordCheckOut(c.Request.Context(), from, a.calendar.Now())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, res)
}

func (a *AttendanceController) bindRequest(c *gin.Context) (services.Sender, bool) {
	var req dto.AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return services.Sender{}, false
	}
	if err := validator.Struct(req); err != nil {
		response.FromError(c, err)
		return services.Sender{}, false
	}
	if err := validator.ValidateLocation(a.fence, req.Latitude, req.Longitude); err != nil {
		response.FromError(c, err)
		return services.Sender{}, false
	}
	return services.Sender{UserID: req.UserID, UserName: req.UserName}, true
}

// GetDaySummary godoc
// @Summary      Tổng hợp của một ngày
// @Tags         attendance
// @Produce      json
// @Param        date  path  string  true  "Ngày (YYYY-MM-DD)"
// @Success      200  {object}  response.Response{data=dto.DaySummaryResponse}
// @Failure      400  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/v1/attendance/summary/{date} [get]
func (a *AttendanceController) GetDaySummary(c *gin.Context) {
	date, err := validator.ValidateDate(c.Param("date"), a.calendar.Location())
	if err != nil {
		response.FromError(c, err)
		return
	}
	day, err := a.summaries.DaySummary(c.Request.Context(), date)
	if err != nil {
		response.FromError(c, err)
		return
	}
	resp := a.query.DayRows(day)
	if resp.Date == "" {
		resp.Date = c.Param("date")
	}
	response.Success(c, resp)
}

// GetOpenSessions godoc
// @Summary      Các user đã check-in hôm nay nhưng chưa check-out
// @Tags         attendance
// @Produce      json
// @Success      200  {object}  response.Response{data=[]models.AttendanceEvent}
// @Failure      500  {object}  response.Response
// @Router       /api/v1/attendance/open [get]
func (a *AttendanceController) GetOpenSessions(c *gin.Context) {
	events, err := a.attendance.OpenSessions(c.Request.Context(), a.calendar.Now())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, events)
}
