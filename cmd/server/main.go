package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/waterbuddy/internal/config"
	"github.com/waterbuddy/internal/db"
	"github.com/waterbuddy/internal/handler"
	"github.com/waterbuddy/internal/router"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	gdb, err := db.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 配置了访问密码时写入哈希，空密码表示不启用访问锁
	if err := db.EnsureAccessPassword(gdb, cfg.AccessPassword); err != nil {
		log.Fatalf("failed to configure access password: %v", err)
	}

	api := handler.NewAPI(gdb, cfg.WeatherAPIKey)
	if cfg.WeatherBaseURL != "" {
		// 自定义天气服务地址，主要用于代理或联调环境
		client := api.WeatherClient()
		client.SetBaseURL(cfg.WeatherBaseURL)
	}

	r := router.SetupRouter(api, cfg.SessionSecret)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
