package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"attendbot/builders"
	"attendbot/commands"
	"attendbot/config"
	"attendbot/constants"
	"attendbot/controllers"
	"attendbot/jobs"
	"attendbot/messenger"
	"attendbot/routes"
	"attendbot/services"
	"attendbot/services/notification"

	"github.com/coder/quartz"
)

func main() {
	config.LoadEnv()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := config.InitApp(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	store := services.NewGormStore(services.GormStoreOptions{
		DB:          app.DB,
		Timeout:     cfg.StoreTimeout,
		ReadRetries: cfg.ReadRetries,
	})
	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate tables: %v", err)
	}

	calendar := services.NewCalendar(quartz.NewReal(), app.Location)
	cache := services.NewRedisSummaryCache(app.Redis, constants.SummaryCacheTTL)
	notifier := notification.NewMelodyService(app.Melody)

	summaryService := services.NewSummaryService(services.SummaryServiceOptions{
		Store:    store,
		Calendar: calendar,
		Cache:    cache,
		Notifier: notifier,
		Logger:   app.Logger,
	})
	queryService := services.NewSummaryQueryService(services.SummaryQueryOptions{
		Store:    store,
		Cache:    cache,
		Calendar: calendar,
		Logger:   app.Logger,
	})
	attendanceService := services.NewAttendanceService(services.AttendanceServiceOptions{
		Store:     store,
		Calendar:  calendar,
		Summaries: summaryService,
		Notifier:  notifier,
		Logger:    app.Logger,
	})

	var bot *messenger.TelegramBot
	if cfg.TelegramToken != "" {
		bot, err = messenger.NewTelegramBot(messenger.TelegramOptions{
			Token:  cfg.TelegramToken,
			Debug:  cfg.TelegramDebug,
			Logger: app.Logger,
		})
		if err != nil {
			log.Fatalf("Failed to start telegram bot: %v", err)
		}
	} else {
		app.Logger.Warn("TELEGRAM_BOT_TOKEN is empty, chat bot disabled")
	}

	digest := &jobs.Digest{
		Summaries: summaryService,
		Formatter: queryService,
		Sessions:  attendanceService,
		Calendar:  calendar,
		Notifier:  notifier,
		Logger:    app.Logger,
	}
	if bot != nil {
		digest.Chat = bot
		digest.ChatID = cfg.DigestChatID
	}
	if err := jobs.InitCronJobs(app.Cron, cfg.DigestCron, digest); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}

	attendanceController := controllers.NewAttendanceController(controllers.AttendanceControllerOptions{
		Attendance: attendanceService,
		Summaries:  summaryService,
		Query:      queryService,
		Calendar:   calendar,
		Geofence:   cfg.Geofence(),
	})
	routes.SetupRoutes(app.Router, attendanceController, app.Melody, app.Logger)

	if bot != nil {
		botController := controllers.NewBotController(commands.NewClassifier(), commands.Deps{
			Recorder:  attendanceService,
			Summaries: queryService,
			Replies:   builders.NewReplyBuilder(app.Location),
		}, app.Logger)
		go func() {
			if err := bot.Run(ctx, botController.Handle); err != nil {
				app.Logger.Error("telegram bot stopped: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: app.Router,
	}
	go func() {
		log.Println("Server starting on port " + cfg.Port + "...")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	<-app.Cron.Stop().Done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
	_ = app.Melody.Close()
	_ = app.Redis.Close()
	if sqlDB, err := app.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
