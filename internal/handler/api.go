package handler

import (
	"sync"

	"github.com/waterbuddy/internal/service"
	"github.com/waterbuddy/internal/store"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	entries   store.EntryStore
	water     *service.WaterService
	profiles  *service.ProfileService
	stats     *service.StatisticsService
	weather   *service.WeatherClient
	reminders *service.ReminderService
	bus       *service.EventBus
}

// NewAPI constructs a handler set with shared services.
// 加水状态机与档案设值器共用同一把单写锁，统计走无锁只读路径。
func NewAPI(gdb *gorm.DB, weatherAPIKey string) *API {
	bus := service.NewEventBus()
	entries := store.NewEntryStore(gdb)
	profiles := store.NewProfileStore(gdb)
	celebrations := store.NewCelebrationTracker(gdb)

	var writeMu sync.Mutex

	return &API{
		db:        gdb,
		entries:   entries,
		water:     service.NewWaterService(&writeMu, entries, profiles, celebrations, bus),
		profiles:  service.NewProfileService(&writeMu, profiles, bus),
		stats:     service.NewStatisticsService(entries, profiles),
		weather:   service.NewWeatherClient(weatherAPIKey),
		reminders: service.NewReminderService(service.NewLogScheduler()),
		bus:       bus,
	}
}

// WeatherClient 返回当前天气客户端，供启动时调整目标地址。
func (a *API) WeatherClient() *service.WeatherClient {
	return a.weather
}

// SetWeatherClient 替换天气客户端，主要面向测试场景。
func (a *API) SetWeatherClient(client *service.WeatherClient) {
	if client != nil {
		a.weather = client
	}
}

// SetReminderService 替换提醒服务，主要面向测试场景。
func (a *API) SetReminderService(svc *service.ReminderService) {
	if svc != nil {
		a.reminders = svc
	}
}
