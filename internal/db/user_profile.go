package db

import (
	"encoding/json"
	"fmt"
	"time"
)

// ProfileDataVersion 标记档案文档的结构版本，版本不符时按默认档案处理。
const ProfileDataVersion = "1"

const (
	// DefaultDailyGoalML 默认每日目标饮水量（毫升）。
	DefaultDailyGoalML = 2000.0
	// MaxEntryAmountML 单次录入上限（毫升）。
	MaxEntryAmountML = 5000.0
	// DefaultReminderInterval 默认提醒间隔。
	DefaultReminderInterval = time.Hour
	// MinReminderInterval 提醒间隔下限（30 分钟）。
	MinReminderInterval = 30 * time.Minute
	// MaxReminderInterval 提醒间隔上限（8 小时）。
	MaxReminderInterval = 8 * time.Hour
)

// 提醒模式：按固定间隔在时间窗内提醒，或每天固定时刻提醒一次。
const (
	ReminderModeInterval = "interval"
	ReminderModeDaily    = "daily"
)

// TimeOfDay 表示一天中的时刻，序列化为 "15:04" 形式。
type TimeOfDay struct {
	Hour   int
	Minute int
}

// String 输出 "08:00" 形式。
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Before 判断是否早于另一时刻。
func (t TimeOfDay) Before(other TimeOfDay) bool {
	if t.Hour != other.Hour {
		return t.Hour < other.Hour
	}
	return t.Minute < other.Minute
}

// At 将时刻落到指定日期上。
func (t TimeOfDay) At(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, day.Location())
}

// MarshalJSON 实现 "15:04" 文本编码。
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON 解析 "15:04" 文本编码。
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTimeOfDay 解析 "15:04" 形式的时刻。
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04", raw)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", raw, err)
	}
	return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

// Profile 是单用户档案文档，整体以 JSON 形式存放在 settings 表中。
// DailyGoal 为规范毫升值；LastStreakUpdateDate 为最近一次连续打卡
// 计入的日期，从未达标时为 nil。
type Profile struct {
	Name                 string     `json:"name"`
	DailyGoal            float64    `json:"dailyGoal"`
	PreferredUnit        WaterUnit  `json:"preferredUnit"`
	StreakCount          int        `json:"streakCount"`
	Language             string     `json:"language"`
	ReminderEnabled      bool       `json:"reminderEnabled"`
	ReminderMode         string     `json:"reminderMode"`
	ReminderInterval     int        `json:"reminderIntervalSeconds"`
	ReminderTime         TimeOfDay  `json:"reminderTime"`
	ReminderWindowStart  TimeOfDay  `json:"reminderWindowStart"`
	ReminderWindowEnd    TimeOfDay  `json:"reminderWindowEnd"`
	LastStreakUpdateDate *time.Time `json:"lastStreakUpdateDate,omitempty"`
	ProfileImage         []byte     `json:"profileImage,omitempty"`
	CreatedDate          time.Time  `json:"createdDate"`
	LastActiveDate       time.Time  `json:"lastActiveDate"`
	DataVersion          string     `json:"dataVersion"`
}

// DefaultProfile 构造首次访问时的默认档案。
func DefaultProfile(now time.Time) *Profile {
	return &Profile{
		Name:                "User",
		DailyGoal:           DefaultDailyGoalML,
		PreferredUnit:       UnitMilliliters,
		StreakCount:         0,
		Language:            "en",
		ReminderEnabled:     true,
		ReminderMode:        ReminderModeInterval,
		ReminderInterval:    int(DefaultReminderInterval / time.Second),
		ReminderTime:        TimeOfDay{Hour: 9},
		ReminderWindowStart: TimeOfDay{Hour: 8},
		ReminderWindowEnd:   TimeOfDay{Hour: 22},
		CreatedDate:         now,
		LastActiveDate:      now,
		DataVersion:         ProfileDataVersion,
	}
}

// DailyGoalInUnit 返回按指定单位换算后的每日目标。
func (p *Profile) DailyGoalInUnit(unit WaterUnit) float64 {
	return Convert(p.DailyGoal, UnitMilliliters, unit)
}
