package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"attendbot/constants"
	"attendbot/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config chứa toàn bộ cấu hình đọc từ biến môi trường
type Config struct {
	Env          string        `validate:"required,oneof=dev qc prod"`
	Port         string        `validate:"required,numeric"`
	Timezone     string        `validate:"required"`
	LogLevel     string        `validate:"omitempty,oneof=debug info warn warning error"`
	StoreTimeout time.Duration `validate:"gt=0"`
	ReadRetries  uint64

	DBUser     string `validate:"required"`
	DBPassword string
	DBHost     string `validate:"required"`
	DBPort     string `validate:"required,numeric"`
	DBName     string `validate:"required"`
	DBSSLMode  string `validate:"required"`

	RedisAddr     string `validate:"required"`
	RedisUser     string
	RedisPassword string

	TelegramToken string
	TelegramDebug bool

	OfficeLatitude     float64 `validate:"latitude"`
	OfficeLongitude    float64 `validate:"longitude"`
	OfficeRadiusMeters float64 `validate:"gte=0"`

	DigestCron   string `validate:"required"`
	DigestChatID int64
}

// LoadEnv nạp file .env nếu có
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}
}

func GetEnv(key string) string {
	return os.Getenv(key)
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// LoadConfig đọc cấu hình từ môi trường và kiểm tra tính hợp lệ
func LoadConfig() (*Config, error) {
	env := getEnvDefault("ENV", "dev")
	prefix, err := dbPrefix(env)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:           env,
		Port:          getEnvDefault("PORT", constants.DefaultPort),
		Timezone:      getEnvDefault("TIMEZONE", constants.DefaultTimezone),
		LogLevel:      GetEnv("LOG_LEVEL"),
		StoreTimeout:  constants.DefaultStoreTimeout,
		ReadRetries:   3,
		DBUser:        GetEnv(prefix + "_DB_USER"),
		DBPassword:    GetEnv(prefix + "_DB_PASSWORD"),
		DBHost:        GetEnv(prefix + "_DB_HOST"),
		DBPort:        getEnvDefault(prefix+"_DB_PORT", "5432"),
		DBName:        GetEnv(prefix + "_DB_NAME"),
		DBSSLMode:     getEnvDefault(prefix+"_DB_SSLMODE", "require"),
		RedisAddr:     getEnvDefault("REDIS_ADDR", "localhost:6379"),
		RedisUser:     GetEnv("REDIS_USER"),
		RedisPassword: GetEnv("REDIS_PASSWORD"),
		TelegramToken: GetEnv("TELEGRAM_BOT_TOKEN"),
		DigestCron:    getEnvDefault("DIGEST_CRON", constants.DefaultDigestCron),
	}

	if raw := GetEnv("STORE_TIMEOUT"); raw != "" {
		if cfg.StoreTimeout, err = time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("invalid STORE_TIMEOUT %q: %w", raw, err)
		}
	}
	if raw := GetEnv("STORE_READ_RETRIES"); raw != "" {
		if cfg.ReadRetries, err = strconv.ParseUint(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid STORE_READ_RETRIES %q: %w", raw, err)
		}
	}
	if raw := GetEnv("DIGEST_CHAT_ID"); raw != "" {
		if cfg.DigestChatID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid DIGEST_CHAT_ID %q: %w", raw, err)
		}
	}
	if raw := GetEnv("TELEGRAM_DEBUG"); raw != "" {
		if cfg.TelegramDebug, err = strconv.ParseBool(raw); err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_DEBUG %q: %w", raw, err)
		}
	}
	floats := []struct {
		key string
		dst *float64
	}{
		{"OFFICE_LATITUDE", &cfg.OfficeLatitude},
		{"OFFICE_LONGITUDE", &cfg.OfficeLongitude},
		{"OFFICE_RADIUS_METERS", &cfg.OfficeRadiusMeters},
	}
	for _, f := range floats {
		raw := GetEnv(f.key)
		if raw == "" {
			continue
		}
		if *f.dst, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", f.key, raw, err)
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func dbPrefix(env string) (string, error) {
	switch env {
	case "dev":
		return "DEV", nil
	case "qc":
		return "QC", nil
	case "prod":
		return "PROD", nil
	default:
		return "", fmt.Errorf("unknown environment: %s", env)
	}
}

// Location trả về múi giờ dùng để xác định ranh giới ngày
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) Geofence() utils.Geofence {
	return utils.Geofence{
		Latitude:     c.OfficeLatitude,
		Longitude:    c.OfficeLongitude,
		RadiusMeters: c.OfficeRadiusMeters,
	}
}

// DSN trả về chuỗi kết nối PostgreSQL
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode, c.Timezone)
}
