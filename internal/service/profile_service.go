package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/waterbuddy/internal/db"
	"github.com/waterbuddy/internal/locale"
	"github.com/waterbuddy/internal/store"
)

var (
	// ErrInvalidGoal 在每日目标不为正数时返回
	ErrInvalidGoal = errors.New("daily goal must be positive")
	// ErrInvalidReminderInterval 在提醒间隔超出 30 分钟 – 8 小时区间时返回
	ErrInvalidReminderInterval = errors.New("reminder interval out of range")
	// ErrInvalidTimeRange 在提醒时间窗结束不晚于开始时返回
	ErrInvalidTimeRange = errors.New("reminder window end must be after start")
	// ErrUnsupportedLanguage 在语言代码不受支持时返回
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrImageTooLarge 在头像超出大小上限时返回
	ErrImageTooLarge = errors.New("profile image too large")
)

// MaxProfileImageBytes 头像处理后的大小上限。
const MaxProfileImageBytes = 2 << 20

// ProfileService 负责单用户档案的读取与窄设值器。每个设值器都是
// 一次完整的读-改-写，与加水状态机共用同一把单写锁。
type ProfileService struct {
	mu       *sync.Mutex
	profiles store.ProfileStore
	bus      *EventBus
}

// NewProfileService 构造 ProfileService。
func NewProfileService(mu *sync.Mutex, profiles store.ProfileStore, bus *EventBus) *ProfileService {
	return &ProfileService{mu: mu, profiles: profiles, bus: bus}
}

// Get 返回当前档案，缺失或损坏时由存储层自愈为默认档案。
func (s *ProfileService) Get() (*db.Profile, error) {
	profile, err := s.profiles.Get()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}
	return profile, nil
}

// UpdateDailyGoal 更新每日目标（规范毫升值）。
func (s *ProfileService) UpdateDailyGoal(goal float64) (*db.Profile, error) {
	if goal <= 0 {
		return nil, ErrInvalidGoal
	}
	return s.mutate(func(profile *db.Profile) error {
		profile.DailyGoal = goal
		return nil
	})
}

// UpdatePreferredUnit 更新展示单位偏好。
func (s *ProfileService) UpdatePreferredUnit(unit db.WaterUnit) (*db.Profile, error) {
	if !unit.Valid() {
		return nil, ErrInvalidUnit
	}
	return s.mutate(func(profile *db.Profile) error {
		profile.PreferredUnit = unit
		return nil
	})
}

// UpdateName 更新用户名，空白输入回退默认名。
func (s *ProfileService) UpdateName(name string) (*db.Profile, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		trimmed = "User"
	}
	return s.mutate(func(profile *db.Profile) error {
		profile.Name = trimmed
		return nil
	})
}

// UpdateLanguage 更新语言偏好。
func (s *ProfileService) UpdateLanguage(language string) (*db.Profile, error) {
	normalized := locale.NormalizeLanguage(language)
	if normalized == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, language)
	}
	return s.mutate(func(profile *db.Profile) error {
		profile.Language = normalized
		return nil
	})
}

// ReminderSettingsInput 定义提醒配置的输入。
type ReminderSettingsInput struct {
	Enabled         bool
	Mode            string
	IntervalSeconds int
	Time            db.TimeOfDay
	WindowStart     db.TimeOfDay
	WindowEnd       db.TimeOfDay
}

// UpdateReminderSettings 更新提醒配置。间隔模式下校验间隔与时间窗。
func (s *ProfileService) UpdateReminderSettings(input ReminderSettingsInput) (*db.Profile, error) {
	mode := strings.TrimSpace(strings.ToLower(input.Mode))
	if mode == "" {
		mode = db.ReminderModeInterval
	}
	if mode != db.ReminderModeInterval && mode != db.ReminderModeDaily {
		return nil, fmt.Errorf("unsupported reminder mode %q", input.Mode)
	}

	if mode == db.ReminderModeInterval {
		interval := time.Duration(input.IntervalSeconds) * time.Second
		if interval < db.MinReminderInterval || interval > db.MaxReminderInterval {
			return nil, ErrInvalidReminderInterval
		}
		if !input.WindowStart.Before(input.WindowEnd) {
			return nil, ErrInvalidTimeRange
		}
	}

	return s.mutate(func(profile *db.Profile) error {
		profile.ReminderEnabled = input.Enabled
		profile.ReminderMode = mode
		if mode == db.ReminderModeInterval {
			profile.ReminderInterval = input.IntervalSeconds
			profile.ReminderWindowStart = input.WindowStart
			profile.ReminderWindowEnd = input.WindowEnd
		} else {
			profile.ReminderTime = input.Time
		}
		return nil
	})
}

// UpdateProfileImage 保存处理后的头像字节，nil 表示移除。
func (s *ProfileService) UpdateProfileImage(data []byte) (*db.Profile, error) {
	if len(data) > MaxProfileImageBytes {
		return nil, ErrImageTooLarge
	}
	return s.mutate(func(profile *db.Profile) error {
		profile.ProfileImage = data
		return nil
	})
}

// UpdateStreakCount 直接覆盖连续打卡计数（负数视为 0）。
func (s *ProfileService) UpdateStreakCount(count int) (*db.Profile, error) {
	if count < 0 {
		count = 0
	}
	return s.mutate(func(profile *db.Profile) error {
		profile.StreakCount = count
		return nil
	})
}

// ResetStreak 清零连续打卡。
func (s *ProfileService) ResetStreak() (*db.Profile, error) {
	return s.mutate(func(profile *db.Profile) error {
		profile.StreakCount = 0
		profile.LastStreakUpdateDate = nil
		return nil
	})
}

// UpdateLastActiveDate 刷新最近活跃时间。
func (s *ProfileService) UpdateLastActiveDate(at time.Time) (*db.Profile, error) {
	if at.IsZero() {
		at = time.Now()
	}
	return s.mutate(func(profile *db.Profile) error {
		profile.LastActiveDate = at
		return nil
	})
}

// Reset 将档案整体重置为默认值。
func (s *ProfileService) Reset() (*db.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.profiles.Reset()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}

	s.bus.Publish(Event{Type: EventProfileUpdated, At: time.Now()})
	return profile, nil
}

func (s *ProfileService) mutate(apply func(*db.Profile) error) (*db.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.profiles.Get()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}

	if err := apply(profile); err != nil {
		return nil, err
	}

	if err := s.profiles.Save(profile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}

	s.bus.Publish(Event{Type: EventProfileUpdated, At: time.Now()})
	return profile, nil
}
