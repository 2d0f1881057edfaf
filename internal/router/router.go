package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/waterbuddy/internal/handler"
)

// Setup 配置 Gin 引擎和路由。写操作路由在配置了访问密码时
// 需要会话解锁，只读路由不受限。
func SetupRouter(api *handler.API, sessionSecret string) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("waterbuddy_session", store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	group := r.Group("/api")
	{
		group.POST("/unlock", api.Unlock)
		group.POST("/lock", api.Lock)

		// 只读接口
		group.GET("/water/presets", api.QuickAddPresets)
		group.GET("/water/day/:date", api.ListEntriesForDay)
		group.GET("/water", api.ListEntries)
		group.GET("/export", api.ExportEntries)
		group.GET("/stats/day/:date", api.DayStats)
		group.GET("/stats/range", api.RangeStats)
		group.GET("/stats/trend", api.TrendStats)
		group.GET("/recommendation", api.Recommendation)
		group.GET("/profile", api.GetProfile)
		group.GET("/profile/image", api.GetProfileImage)
		group.GET("/events", api.StreamEvents)

		// 写接口
		auth := group.Group("")
		auth.Use(api.AuthRequired())
		{
			auth.POST("/water", api.AddWater)
			auth.PUT("/water/:id", api.UpdateEntry)
			auth.DELETE("/water/:id", api.DeleteEntry)
			auth.POST("/reset", api.ResetAll)

			auth.PUT("/profile/goal", api.UpdateDailyGoal)
			auth.PUT("/profile/unit", api.UpdatePreferredUnit)
			auth.PUT("/profile/name", api.UpdateName)
			auth.PUT("/profile/language", api.UpdateLanguage)
			auth.PUT("/profile/reminders", api.UpdateReminderSettings)
			auth.POST("/profile/image", api.UploadProfileImage)
			auth.DELETE("/profile/image", api.DeleteProfileImage)

			auth.POST("/reminders/apply", api.ApplyReminders)
			auth.POST("/reminders/snooze", api.SnoozeReminder)
		}
	}

	return r
}
