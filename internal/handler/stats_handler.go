package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/waterbuddy/internal/service"
)

func dayStatsPayload(stats *service.DayStatistics) gin.H {
	return gin.H{
		"date":                stats.Date.Format(dateLayout),
		"total_intake_ml":     stats.TotalIntake,
		"goal_achieved":       stats.GoalAchieved,
		"completion_percent":  stats.CompletionPercent,
		"entry_count":         stats.EntryCount,
		"hourly_distribution": stats.HourlyDistribution,
		"container_usage":     stats.ContainerUsage,
		"most_used_container": stats.MostUsedContainer(),
		"peak_hour":           stats.PeakHour(),
	}
}

// DayStats 返回某天的统计汇总。
func (a *API) DayStats(c *gin.Context) {
	day, ok := parseDateParam(c, "date")
	if !ok {
		return
	}
	stats, err := a.stats.ForDay(day)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "统计计算失败")
		return
	}
	c.JSON(http.StatusOK, dayStatsPayload(stats))
}

// RangeStats 返回区间统计，缺省最近 7 天。
func (a *API) RangeStats(c *gin.Context) {
	now := time.Now()
	start, ok := parseDateQuery(c, "start", now.AddDate(0, 0, -6))
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end", now)
	if !ok {
		return
	}
	if start.After(end) {
		respondError(c, http.StatusBadRequest, "起始日期不能晚于结束日期")
		return
	}

	stats, err := a.stats.ForRange(start, end)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "统计计算失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"start":           stats.Start.Format(dateLayout),
		"end":             stats.End.Format(dateLayout),
		"days":            stats.Days,
		"total_intake_ml": stats.TotalIntake,
		"average_intake":  stats.AverageIntake,
		"goals_achieved":  stats.GoalsAchieved,
		"weekly_trend":    stats.WeeklyTrend,
	})
}

// TrendStats 返回最近 N 天（默认 7，上限 90）的每日总量序列。
func (a *API) TrendStats(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 90 {
			respondError(c, http.StatusBadRequest, "days 必须是 1-90 的整数")
			return
		}
		days = parsed
	}
	trend, err := a.stats.DailyTrend(days)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "统计计算失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days, "trend": trend})
}
