package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"attendbot/services/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// App gom các thành phần dùng chung của ứng dụng
type App struct {
	Config   *Config
	Location *time.Location
	DB       *gorm.DB
	Redis    *redis.Client
	Router   *gin.Engine
	Melody   *melody.Melody
	Cron     *cron.Cron
	Logger   logger.Logger
}

func InitApp(ctx context.Context, cfg *Config) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	configCors := cors.DefaultConfig()
	configCors.AddAllowHeaders("Authorization")
	configCors.AllowCredentials = true
	configCors.AllowAllOrigins = false
	configCors.AllowOriginFunc = func(origin string) bool {
		return true
	}
	router.Use(cors.New(configCors))

	router.SetTrustedProxies(nil)

	db, err := ConnectDB(cfg)
	if err != nil {
		return nil, err
	}

	rdb, err := ConnectRedis(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	log.Println("All components initialized successfully")
	return &App{
		Config:   cfg,
		Location: loc,
		DB:       db,
		Redis:    rdb,
		Router:   router,
		Melody:   melody.New(),
		Cron:     cron.New(cron.WithLocation(loc)),
		Logger:   logger.NewDefaultLogger(logger.ParseLevel(cfg.LogLevel)),
	}, nil
}

// InitWebSocket gắn melody vào /ws
func InitWebSocket(router *gin.Engine, m *melody.Melody) {
	router.GET("/ws", func(c *gin.Context) {
		m.HandleRequest(c.Writer, c.Request)
	})
	log.Println("WebSocket initialized successfully")
}
