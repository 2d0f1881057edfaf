package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/waterbuddy/internal/db"
	"github.com/waterbuddy/internal/store"
)

func newProfileService() (*ProfileService, *EventBus) {
	var mu sync.Mutex
	bus := NewEventBus()
	return NewProfileService(&mu, store.NewMemoryProfileStore(), bus), bus
}

func TestProfileUpdateDailyGoal(t *testing.T) {
	svc, _ := newProfileService()

	profile, err := svc.UpdateDailyGoal(2500)
	if err != nil {
		t.Fatalf("UpdateDailyGoal returned error: %v", err)
	}
	if profile.DailyGoal != 2500 {
		t.Fatalf("expected goal 2500, got %v", profile.DailyGoal)
	}

	if _, err := svc.UpdateDailyGoal(0); !errors.Is(err, ErrInvalidGoal) {
		t.Fatalf("expected ErrInvalidGoal, got %v", err)
	}
	if _, err := svc.UpdateDailyGoal(-100); !errors.Is(err, ErrInvalidGoal) {
		t.Fatalf("expected ErrInvalidGoal, got %v", err)
	}
}

func TestProfileUpdateName(t *testing.T) {
	svc, _ := newProfileService()

	profile, err := svc.UpdateName("  Alex  ")
	if err != nil {
		t.Fatalf("UpdateName returned error: %v", err)
	}
	if profile.Name != "Alex" {
		t.Fatalf("expected trimmed name, got %q", profile.Name)
	}

	profile, err = svc.UpdateName("   ")
	if err != nil {
		t.Fatalf("UpdateName returned error: %v", err)
	}
	if profile.Name != "User" {
		t.Fatalf("blank name must fall back to default, got %q", profile.Name)
	}
}

func TestProfileUpdateLanguage(t *testing.T) {
	svc, _ := newProfileService()

	profile, err := svc.UpdateLanguage("zh-Hans")
	if err != nil {
		t.Fatalf("UpdateLanguage returned error: %v", err)
	}
	if profile.Language != "zh" {
		t.Fatalf("expected normalized zh, got %q", profile.Language)
	}

	if _, err := svc.UpdateLanguage("de"); !errors.Is(err, ErrUnsupportedLanguage) {
		t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
	}
}

func TestProfileUpdatePreferredUnit(t *testing.T) {
	svc, _ := newProfileService()

	profile, err := svc.UpdatePreferredUnit(db.UnitOunces)
	if err != nil {
		t.Fatalf("UpdatePreferredUnit returned error: %v", err)
	}
	if profile.PreferredUnit != db.UnitOunces {
		t.Fatalf("expected oz, got %s", profile.PreferredUnit)
	}

	if _, err := svc.UpdatePreferredUnit("liters"); !errors.Is(err, ErrInvalidUnit) {
		t.Fatalf("expected ErrInvalidUnit, got %v", err)
	}
}

func TestProfileUpdateReminderSettings(t *testing.T) {
	svc, _ := newProfileService()

	profile, err := svc.UpdateReminderSettings(ReminderSettingsInput{
		Enabled:         true,
		Mode:            db.ReminderModeInterval,
		IntervalSeconds: 7200,
		WindowStart:     db.TimeOfDay{Hour: 9},
		WindowEnd:       db.TimeOfDay{Hour: 21},
	})
	if err != nil {
		t.Fatalf("UpdateReminderSettings returned error: %v", err)
	}
	if profile.ReminderInterval != 7200 {
		t.Fatalf("expected interval 7200, got %d", profile.ReminderInterval)
	}

	// 间隔越界
	if _, err := svc.UpdateReminderSettings(ReminderSettingsInput{
		Enabled:         true,
		IntervalSeconds: 600,
		WindowStart:     db.TimeOfDay{Hour: 8},
		WindowEnd:       db.TimeOfDay{Hour: 22},
	}); !errors.Is(err, ErrInvalidReminderInterval) {
		t.Fatalf("expected ErrInvalidReminderInterval, got %v", err)
	}

	// 时间窗颠倒
	if _, err := svc.UpdateReminderSettings(ReminderSettingsInput{
		Enabled:         true,
		IntervalSeconds: 3600,
		WindowStart:     db.TimeOfDay{Hour: 22},
		WindowEnd:       db.TimeOfDay{Hour: 8},
	}); !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}
}

func TestProfileUpdateImageSizeLimit(t *testing.T) {
	svc, _ := newProfileService()

	small := make([]byte, 1024)
	profile, err := svc.UpdateProfileImage(small)
	if err != nil {
		t.Fatalf("UpdateProfileImage returned error: %v", err)
	}
	if len(profile.ProfileImage) != 1024 {
		t.Fatalf("expected stored image, got %d bytes", len(profile.ProfileImage))
	}

	huge := make([]byte, MaxProfileImageBytes+1)
	if _, err := svc.UpdateProfileImage(huge); !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge, got %v", err)
	}

	// 置空即清除头像
	profile, err = svc.UpdateProfileImage(nil)
	if err != nil {
		t.Fatalf("UpdateProfileImage returned error: %v", err)
	}
	if len(profile.ProfileImage) != 0 {
		t.Fatal("expected image cleared")
	}
}

func TestProfileMutationsPublishEvents(t *testing.T) {
	svc, bus := newProfileService()
	events, cancel := bus.Subscribe()
	defer cancel()

	if _, err := svc.UpdateDailyGoal(3000); err != nil {
		t.Fatalf("UpdateDailyGoal returned error: %v", err)
	}

	select {
	case event := <-events:
		if event.Type != EventProfileUpdated {
			t.Fatalf("expected profile_updated, got %s", event.Type)
		}
	default:
		t.Fatal("expected a published event")
	}
}

func TestProfileStreakSetters(t *testing.T) {
	svc, _ := newProfileService()

	profile, err := svc.UpdateStreakCount(12)
	if err != nil {
		t.Fatalf("UpdateStreakCount returned error: %v", err)
	}
	if profile.StreakCount != 12 {
		t.Fatalf("expected streak 12, got %d", profile.StreakCount)
	}

	// 负数拍平为 0
	profile, err = svc.UpdateStreakCount(-3)
	if err != nil {
		t.Fatalf("UpdateStreakCount returned error: %v", err)
	}
	if profile.StreakCount != 0 {
		t.Fatalf("expected streak clamped to 0, got %d", profile.StreakCount)
	}

	if _, err := svc.UpdateStreakCount(5); err != nil {
		t.Fatalf("UpdateStreakCount returned error: %v", err)
	}
	profile, err = svc.ResetStreak()
	if err != nil {
		t.Fatalf("ResetStreak returned error: %v", err)
	}
	if profile.StreakCount != 0 || profile.LastStreakUpdateDate != nil {
		t.Fatalf("expected cleared streak state, got count=%d date=%v",
			profile.StreakCount, profile.LastStreakUpdateDate)
	}

	when := time.Date(2026, 8, 27, 18, 0, 0, 0, time.Local)
	profile, err = svc.UpdateLastActiveDate(when)
	if err != nil {
		t.Fatalf("UpdateLastActiveDate returned error: %v", err)
	}
	if !profile.LastActiveDate.Equal(when) {
		t.Fatalf("expected last active %v, got %v", when, profile.LastActiveDate)
	}
}

func TestProfileReset(t *testing.T) {
	svc, _ := newProfileService()

	if _, err := svc.UpdateDailyGoal(3000); err != nil {
		t.Fatalf("UpdateDailyGoal returned error: %v", err)
	}
	profile, err := svc.Reset()
	if err != nil {
		t.Fatalf("Reset returned error: %v", err)
	}
	if profile.DailyGoal != db.DefaultDailyGoalML {
		t.Fatalf("expected default goal after reset, got %v", profile.DailyGoal)
	}
}
