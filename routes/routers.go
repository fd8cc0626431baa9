package routes

import (
	"net/http"
	"time"

	"attendbot/config"
	"attendbot/controllers"
	_ "attendbot/docs"
	middlewares "attendbot/middleware"
	"attendbot/services/logger"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const requestTimeout = 10 * time.Second

func SetupRoutes(router *gin.Engine, attendance *controllers.AttendanceController, m *melody.Melody, l logger.Logger) {
	router.Use(middlewares.RequestLogger(l))

	// websocket không bị giới hạn thời gian
	config.InitWebSocket(router, m)

	api := router.Group("", middlewares.Timeout(requestTimeout))
	api.GET("/attendance/:userId", attendance.GetUserSummary)

	v1 := api.Group("/api/v1")
	v1.POST("/attendance/checkin", attendance.CheckIn)
	v1.POST("/attendance/checkout", attendance.CheckOut)
	v1.GET("/attendance/summary/:date", attendance.GetDaySummary)
	v1.GET("/attendance/open", attendance.GetOpenSessions)

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
