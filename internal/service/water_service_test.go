package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/waterbuddy/internal/db"
	"github.com/waterbuddy/internal/store"
)

type waterFixture struct {
	service      *WaterService
	entries      *store.MemoryEntryStore
	profiles     *store.MemoryProfileStore
	celebrations *store.MemoryCelebrationTracker
	bus          *EventBus
}

func newWaterFixture() *waterFixture {
	entries := store.NewMemoryEntryStore()
	profiles := store.NewMemoryProfileStore()
	celebrations := store.NewMemoryCelebrationTracker()
	bus := NewEventBus()
	var mu sync.Mutex
	return &waterFixture{
		service:      NewWaterService(&mu, entries, profiles, celebrations, bus),
		entries:      entries,
		profiles:     profiles,
		celebrations: celebrations,
		bus:          bus,
	}
}

func noon(daysAgo int) time.Time {
	now := time.Now()
	day := now.AddDate(0, 0, -daysAgo)
	return time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, day.Location())
}

func TestAddWaterValidation(t *testing.T) {
	f := newWaterFixture()

	cases := []struct {
		name  string
		input AddWaterInput
		want  error
	}{
		{"zero amount", AddWaterInput{Amount: 0}, ErrInvalidAmount},
		{"negative amount", AddWaterInput{Amount: -100}, ErrInvalidAmount},
		{"above max", AddWaterInput{Amount: 5001}, ErrInvalidAmount},
		{"bad unit", AddWaterInput{Amount: 250, Unit: "liters"}, ErrInvalidUnit},
		{"bad container", AddWaterInput{Amount: 250, Container: "bucket"}, ErrInvalidContainer},
	}
	for _, tc := range cases {
		if _, err := f.service.AddWater(tc.input); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	// 边界值本身合法
	if _, err := f.service.AddWater(AddWaterInput{Amount: 1, At: noon(0)}); err != nil {
		t.Fatalf("amount 1 should be accepted: %v", err)
	}
	if _, err := f.service.AddWater(AddWaterInput{Amount: 5000, At: noon(0)}); err != nil {
		t.Fatalf("amount 5000 should be accepted: %v", err)
	}
}

func TestAddWaterConvertsOuncesToCanonicalML(t *testing.T) {
	f := newWaterFixture()

	result, err := f.service.AddWater(AddWaterInput{Amount: 10, Unit: db.UnitOunces, At: noon(0)})
	if err != nil {
		t.Fatalf("AddWater returned error: %v", err)
	}

	want := 295.735
	if diff := result.Entry.Amount - want; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("expected %v ml, got %v", want, result.Entry.Amount)
	}
	if result.Entry.Unit != db.UnitOunces {
		t.Fatalf("expected display unit oz, got %s", result.Entry.Unit)
	}
}

func TestAddWaterGoalCrossingCelebratesOnce(t *testing.T) {
	f := newWaterFixture()
	events, cancel := f.bus.Subscribe()
	defer cancel()

	at := noon(0)

	first, err := f.service.AddWater(AddWaterInput{Amount: 1000, At: at})
	if err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if first.GoalCompleted {
		t.Fatal("goal should not be completed at 1000/2000")
	}

	second, err := f.service.AddWater(AddWaterInput{Amount: 1000, At: at})
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if !second.GoalCompleted {
		t.Fatal("goal should be completed at 2000/2000")
	}
	if second.StreakCount != 1 {
		t.Fatalf("expected streak 1, got %d", second.StreakCount)
	}

	third, err := f.service.AddWater(AddWaterInput{Amount: 500, At: at})
	if err != nil {
		t.Fatalf("third add failed: %v", err)
	}
	if third.GoalCompleted {
		t.Fatal("exceeding an already completed goal must not celebrate again")
	}
	if third.StreakCount != 1 {
		t.Fatalf("same-day adds must not advance streak, got %d", third.StreakCount)
	}

	goalEvents := 0
	for len(events) > 0 {
		if event := <-events; event.Type == EventGoalCompleted {
			goalEvents++
		}
	}
	if goalEvents != 1 {
		t.Fatalf("expected exactly 1 goal event, got %d", goalEvents)
	}
}

func TestAddWaterStreakContinuesFromYesterday(t *testing.T) {
	f := newWaterFixture()

	yesterday := noon(1)
	profile, _ := f.profiles.Get()
	profile.StreakCount = 5
	profile.LastStreakUpdateDate = &yesterday
	if err := f.profiles.Save(profile); err != nil {
		t.Fatalf("save profile: %v", err)
	}

	result, err := f.service.AddWater(AddWaterInput{Amount: 2000, At: noon(0)})
	if err != nil {
		t.Fatalf("AddWater returned error: %v", err)
	}
	if result.StreakCount != 6 {
		t.Fatalf("expected streak 6, got %d", result.StreakCount)
	}
}

func TestAddWaterStreakResetsAfterGap(t *testing.T) {
	f := newWaterFixture()

	threeDaysAgo := noon(3)
	profile, _ := f.profiles.Get()
	profile.StreakCount = 10
	profile.LastStreakUpdateDate = &threeDaysAgo
	if err := f.profiles.Save(profile); err != nil {
		t.Fatalf("save profile: %v", err)
	}

	result, err := f.service.AddWater(AddWaterInput{Amount: 2000, At: noon(0)})
	if err != nil {
		t.Fatalf("AddWater returned error: %v", err)
	}
	if result.StreakCount != 1 {
		t.Fatalf("expected streak reset to 1, got %d", result.StreakCount)
	}
}

func TestAddWaterDefaultsToProfileUnit(t *testing.T) {
	f := newWaterFixture()

	profile, _ := f.profiles.Get()
	profile.PreferredUnit = db.UnitOunces
	if err := f.profiles.Save(profile); err != nil {
		t.Fatalf("save profile: %v", err)
	}

	// 未指定单位时数值按毫升解释，展示单位沿用档案偏好
	result, err := f.service.AddWater(AddWaterInput{Amount: 250, At: noon(0)})
	if err != nil {
		t.Fatalf("AddWater returned error: %v", err)
	}
	if result.Entry.Amount != 250 {
		t.Fatalf("expected 250 ml stored, got %v", result.Entry.Amount)
	}
	if result.Entry.Unit != db.UnitOunces {
		t.Fatalf("expected display unit oz, got %s", result.Entry.Unit)
	}
}

func TestDeleteEntryReenablesCelebration(t *testing.T) {
	f := newWaterFixture()
	at := noon(0)

	completed, err := f.service.AddWater(AddWaterInput{Amount: 2000, At: at})
	if err != nil {
		t.Fatalf("AddWater returned error: %v", err)
	}
	if !completed.GoalCompleted {
		t.Fatal("expected goal completion")
	}

	if err := f.service.DeleteEntry(completed.Entry.ID, at); err != nil {
		t.Fatalf("DeleteEntry returned error: %v", err)
	}

	again, err := f.service.AddWater(AddWaterInput{Amount: 2000, At: at})
	if err != nil {
		t.Fatalf("AddWater returned error: %v", err)
	}
	if !again.GoalCompleted {
		t.Fatal("re-crossing the goal after a delete should celebrate again")
	}
	// 连续打卡不因删除回退
	if again.StreakCount != 1 {
		t.Fatalf("expected streak 1, got %d", again.StreakCount)
	}
}

func TestDeletePastDayEntryKeepsTodayCelebration(t *testing.T) {
	f := newWaterFixture()
	today := noon(0)

	completed, err := f.service.AddWater(AddWaterInput{Amount: 2000, At: today})
	if err != nil {
		t.Fatalf("AddWater returned error: %v", err)
	}
	if !completed.GoalCompleted {
		t.Fatal("expected goal completion")
	}

	// 昨天一条未达标的补录记录
	backfill, err := f.service.AddWater(AddWaterInput{Amount: 500, At: noon(1)})
	if err != nil {
		t.Fatalf("AddWater returned error: %v", err)
	}

	if err := f.service.DeleteEntry(backfill.Entry.ID, today); err != nil {
		t.Fatalf("DeleteEntry returned error: %v", err)
	}

	// 删除历史记录不得清掉今天已记录的庆祝水平
	if f.celebrations.ShouldCelebrate(today, completed.IntakeAfter) {
		t.Fatal("deleting a past-day entry must not reset today's celebration")
	}
}

func TestDeleteEntryNotFound(t *testing.T) {
	f := newWaterFixture()
	if err := f.service.DeleteEntry("missing", noon(0)); !errors.Is(err, store.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestUpdateEntryValidatesAndResetsCelebration(t *testing.T) {
	f := newWaterFixture()
	at := noon(0)

	result, err := f.service.AddWater(AddWaterInput{Amount: 2000, At: at})
	if err != nil {
		t.Fatalf("AddWater returned error: %v", err)
	}

	entry := result.Entry
	entry.Amount = 6000
	if err := f.service.UpdateEntry(entry); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	// 改小到目标以下后，再次越线应重新庆祝
	entry.Amount = 500
	if err := f.service.UpdateEntry(entry); err != nil {
		t.Fatalf("UpdateEntry returned error: %v", err)
	}

	again, err := f.service.AddWater(AddWaterInput{Amount: 1500, At: at})
	if err != nil {
		t.Fatalf("AddWater returned error: %v", err)
	}
	if !again.GoalCompleted {
		t.Fatal("expected celebration after shrinking below goal and re-crossing")
	}
}

func TestRelateToDay(t *testing.T) {
	today := noon(0)
	yesterday := noon(1)
	lastWeek := noon(7)

	if got := relateToDay(nil, today); got != relationNone {
		t.Fatalf("expected relationNone, got %d", got)
	}
	if got := relateToDay(&today, today); got != relationToday {
		t.Fatalf("expected relationToday, got %d", got)
	}
	if got := relateToDay(&yesterday, today); got != relationYesterday {
		t.Fatalf("expected relationYesterday, got %d", got)
	}
	if got := relateToDay(&lastWeek, today); got != relationEarlier {
		t.Fatalf("expected relationEarlier, got %d", got)
	}
}
