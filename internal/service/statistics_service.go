package service

import (
	"fmt"
	"time"

	"github.com/waterbuddy/internal/db"
	"github.com/waterbuddy/internal/store"
)

// DayStatistics 是单日统计视图，按需从记录推导，不落盘。
type DayStatistics struct {
	Date               time.Time                `json:"date"`
	TotalIntake        float64                  `json:"total_intake"`
	GoalAchieved       bool                     `json:"goal_achieved"`
	CompletionPercent  float64                  `json:"completion_percent"`
	EntryCount         int                      `json:"entry_count"`
	HourlyDistribution map[int]float64          `json:"hourly_distribution"`
	ContainerUsage     map[db.ContainerType]int `json:"container_usage"`
}

// MostUsedContainer 返回当日使用次数最多的容器，无记录时返回空值。
func (d DayStatistics) MostUsedContainer() db.ContainerType {
	var best db.ContainerType
	bestCount := 0
	for container, count := range d.ContainerUsage {
		if count > bestCount || (count == bestCount && container < best) {
			best = container
			bestCount = count
		}
	}
	return best
}

// PeakHour 返回摄入量最高的小时，无记录时返回 -1。
func (d DayStatistics) PeakHour() int {
	peak := -1
	var peakAmount float64
	for hour, amount := range d.HourlyDistribution {
		if amount > peakAmount || (amount == peakAmount && (peak == -1 || hour < peak)) {
			peak = hour
			peakAmount = amount
		}
	}
	return peak
}

// RangeStatistics 是日期区间统计视图。
type RangeStatistics struct {
	Start         time.Time       `json:"start"`
	End           time.Time       `json:"end"`
	Days          []DayStatistics `json:"days"`
	TotalIntake   float64         `json:"total_intake"`
	AverageIntake float64         `json:"average_intake"`
	GoalsAchieved int             `json:"goals_achieved"`
	// WeeklyTrend 为截至区间末尾的 7 天逐日总量，自旧到新
	WeeklyTrend []float64 `json:"weekly_trend"`
}

// StatisticsService 从记录存储按需推导统计数据。只读派生，
// 与写路径并发执行无需加锁。
type StatisticsService struct {
	entries  store.EntryStore
	profiles store.ProfileStore
}

// NewStatisticsService 构造 StatisticsService。
func NewStatisticsService(entries store.EntryStore, profiles store.ProfileStore) *StatisticsService {
	return &StatisticsService{entries: entries, profiles: profiles}
}

// ForDay 汇总指定日历日：总量、逐小时分布、容器使用次数与达标标记。
func (s *StatisticsService) ForDay(date time.Time) (*DayStatistics, error) {
	profile, err := s.profiles.Get()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}
	return s.dayStatistics(date, profile.DailyGoal)
}

// ForRange 汇总闭区间 [start, end]，逐日统计并求和、平均，
// 同时计算截至 end 的 7 天趋势。
func (s *StatisticsService) ForRange(start, end time.Time) (*RangeStatistics, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("invalid range: end before start")
	}

	profile, err := s.profiles.Get()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}

	stats := &RangeStatistics{Start: start, End: end}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		dayStats, err := s.dayStatistics(day, profile.DailyGoal)
		if err != nil {
			return nil, err
		}
		stats.Days = append(stats.Days, *dayStats)
		stats.TotalIntake += dayStats.TotalIntake
		if dayStats.GoalAchieved {
			stats.GoalsAchieved++
		}
	}

	dayCount := len(stats.Days)
	if dayCount < 1 {
		dayCount = 1
	}
	stats.AverageIntake = stats.TotalIntake / float64(dayCount)

	trend, err := s.trendEndingAt(end, 7)
	if err != nil {
		return nil, err
	}
	stats.WeeklyTrend = trend

	return stats, nil
}

// DailyTrend 返回截至今天的 days 个逐日总量，自旧到新。
// 每天独立求和，数据量小，正确性优先于性能。
func (s *StatisticsService) DailyTrend(days int) ([]float64, error) {
	if days < 1 {
		days = 1
	}
	return s.trendEndingAt(time.Now(), days)
}

func (s *StatisticsService) trendEndingAt(end time.Time, days int) ([]float64, error) {
	trend := make([]float64, 0, days)
	for i := days - 1; i >= 0; i-- {
		total, err := s.entries.TotalForDay(end.AddDate(0, 0, -i))
		if err != nil {
			return nil, err
		}
		trend = append(trend, total)
	}
	return trend, nil
}

func (s *StatisticsService) dayStatistics(date time.Time, goal float64) (*DayStatistics, error) {
	entries, err := s.entries.ListForDay(date)
	if err != nil {
		return nil, err
	}

	stats := &DayStatistics{
		Date:               date,
		EntryCount:         len(entries),
		HourlyDistribution: make(map[int]float64),
		ContainerUsage:     make(map[db.ContainerType]int),
	}

	for _, entry := range entries {
		stats.TotalIntake += entry.Amount
		stats.HourlyDistribution[entry.Timestamp.Hour()] += entry.Amount
		stats.ContainerUsage[entry.ContainerType]++
	}

	stats.GoalAchieved = goal > 0 && stats.TotalIntake >= goal
	if goal > 0 {
		percent := stats.TotalIntake / goal * 100
		if percent > 100 {
			percent = 100
		}
		stats.CompletionPercent = percent
	}

	return stats, nil
}
