package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr     string
	Port           string
	DatabasePath   string
	SessionSecret  string
	GinMode        string
	WeatherAPIKey  string
	WeatherBaseURL string
	AccessPassword string
}

// Load 从 .env 与环境变量读取应用配置，并为缺失项提供安全的默认值。
// 环境变量优先于 .env 文件。
func Load() AppConfig {
	_ = godotenv.Load()

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "waterbuddy.db"
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "waterbuddy-dev-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	return AppConfig{
		ListenAddr:     listenAddr,
		Port:           port,
		DatabasePath:   databasePath,
		SessionSecret:  sessionSecret,
		GinMode:        ginMode,
		WeatherAPIKey:  strings.TrimSpace(os.Getenv("WEATHER_API_KEY")),
		WeatherBaseURL: strings.TrimSpace(os.Getenv("WEATHER_BASE_URL")),
		AccessPassword: strings.TrimSpace(os.Getenv("ACCESS_PASSWORD")),
	}
}
