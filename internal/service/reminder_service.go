package service

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/waterbuddy/internal/db"
)

// ErrPermissionDenied 在通知权限被拒绝时返回。调用方向用户提示，
// 不作为应用级致命错误处理。
var ErrPermissionDenied = errors.New("notification permission denied")

// ReminderScheduler 抽象平台通知能力，核心不直接触碰任何平台 API。
type ReminderScheduler interface {
	ScheduleRecurring(interval time.Duration, windowStart, windowEnd db.TimeOfDay) error
	ScheduleDaily(at db.TimeOfDay) error
	ScheduleOneOff(delay time.Duration) error
	CancelAll() error
}

// ReminderService 把档案中的提醒配置落实到调度器上。
type ReminderService struct {
	scheduler ReminderScheduler
}

// NewReminderService 构造 ReminderService。
func NewReminderService(scheduler ReminderScheduler) *ReminderService {
	return &ReminderService{scheduler: scheduler}
}

// Apply 先取消现有提醒，再按档案配置重新调度。提醒关闭时只取消。
func (s *ReminderService) Apply(profile *db.Profile) error {
	if err := s.scheduler.CancelAll(); err != nil {
		return fmt.Errorf("cancel reminders: %w", err)
	}

	if !profile.ReminderEnabled {
		return nil
	}

	switch profile.ReminderMode {
	case db.ReminderModeDaily:
		return s.scheduler.ScheduleDaily(profile.ReminderTime)
	default:
		interval := time.Duration(profile.ReminderInterval) * time.Second
		if interval < db.MinReminderInterval || interval > db.MaxReminderInterval {
			return ErrInvalidReminderInterval
		}
		return s.scheduler.ScheduleRecurring(interval, profile.ReminderWindowStart, profile.ReminderWindowEnd)
	}
}

// Snooze 安排一次性稍后提醒。
func (s *ReminderService) Snooze(delay time.Duration) error {
	if delay <= 0 {
		return fmt.Errorf("snooze delay must be positive")
	}
	return s.scheduler.ScheduleOneOff(delay)
}

// LogScheduler 是进程内的参考调度器：计算触发时刻并记录日志，
// 供没有系统通知通道的部署使用，同时便于测试断言。
type LogScheduler struct {
	mu       sync.Mutex
	triggers []db.TimeOfDay
	oneOffs  []time.Duration
	denied   bool
}

// NewLogScheduler 构造 LogScheduler。
func NewLogScheduler() *LogScheduler {
	return &LogScheduler{}
}

// Deny 模拟通知权限被拒绝，面向测试场景。
func (s *LogScheduler) Deny() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.denied = true
}

// ScheduleRecurring 在时间窗内按间隔步进展开触发时刻。
func (s *LogScheduler) ScheduleRecurring(interval time.Duration, windowStart, windowEnd db.TimeOfDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.denied {
		return ErrPermissionDenied
	}

	// 以分钟为步长展开，半小时这类间隔不会被取整成一小时
	stepMinutes := int(interval / time.Minute)
	if stepMinutes < 1 {
		stepMinutes = 1
	}

	start := windowStart.Hour*60 + windowStart.Minute
	end := windowEnd.Hour*60 + windowEnd.Minute
	for minutes := start; minutes <= end; minutes += stepMinutes {
		trigger := db.TimeOfDay{Hour: minutes / 60, Minute: minutes % 60}
		s.triggers = append(s.triggers, trigger)
		log.Printf("reminder scheduled daily at %s", trigger)
	}
	return nil
}

// ScheduleDaily 安排每天固定时刻的提醒。
func (s *LogScheduler) ScheduleDaily(at db.TimeOfDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.denied {
		return ErrPermissionDenied
	}
	s.triggers = append(s.triggers, at)
	log.Printf("reminder scheduled daily at %s", at)
	return nil
}

// ScheduleOneOff 安排一次性的延迟提醒。
func (s *LogScheduler) ScheduleOneOff(delay time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.denied {
		return ErrPermissionDenied
	}
	s.oneOffs = append(s.oneOffs, delay)
	log.Printf("one-off reminder scheduled in %s", delay)
	return nil
}

// CancelAll 清空全部待触发提醒。
func (s *LogScheduler) CancelAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triggers = nil
	s.oneOffs = nil
	return nil
}

// Pending 返回当前待触发的每日时刻，面向测试断言。
func (s *LogScheduler) Pending() []db.TimeOfDay {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]db.TimeOfDay(nil), s.triggers...)
}
