package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/waterbuddy/internal/locale"
	"github.com/waterbuddy/internal/service"
)

// 未提供坐标时使用的默认位置（旧金山）。
const (
	defaultLatitude  = 37.7749
	defaultLongitude = -122.4194
)

// Recommendation 依据实时天气给出当日补水建议。
// 天气不可用时返回 503，摄入建议始终基于档案里的目标值。
func (a *API) Recommendation(c *gin.Context) {
	lat, ok := parseCoordinate(c, "lat", defaultLatitude)
	if !ok {
		return
	}
	lon, ok := parseCoordinate(c, "lon", defaultLongitude)
	if !ok {
		return
	}

	profile, err := a.profiles.Get()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "读取档案失败")
		return
	}

	language := locale.NormalizeLanguage(c.Query("lang"))
	if language == "" {
		language = profile.Language
	}

	weather, err := a.weather.Current(c.Request.Context(), lat, lon)
	if err != nil {
		if errors.Is(err, service.ErrWeatherUnavailable) {
			respondError(c, http.StatusServiceUnavailable, "天气服务暂不可用")
			return
		}
		respondError(c, http.StatusServiceUnavailable, "天气服务暂不可用")
		return
	}

	recommendation := service.Recommend(language, weather.TemperatureC, weather.Humidity, profile.DailyGoal)
	c.JSON(http.StatusOK, gin.H{
		"weather": gin.H{
			"temperature_c": weather.TemperatureC,
			"humidity":      weather.Humidity,
			"feels_like_c":  weather.FeelsLikeC,
			"condition":     weather.Condition,
			"location":      weather.Location,
		},
		"recommendation": gin.H{
			"recommended_intake_ml": recommendation.RecommendedIntake,
			"reason":                recommendation.Reason,
			"multiplier":            recommendation.Multiplier,
			"priority":              recommendation.Priority,
		},
	})
}

func parseCoordinate(c *gin.Context, name string, fallback float64) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, name+" 必须是数字")
		return 0, false
	}
	return value, true
}
