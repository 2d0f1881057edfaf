package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/waterbuddy/internal/db"
	"github.com/waterbuddy/internal/store"
)

var (
	// ErrInvalidAmount 在单次录入量超出 (0, 5000ml] 区间时返回
	ErrInvalidAmount = errors.New("amount must be between 1 and 5000 ml")
	// ErrInvalidUnit 在单位不受支持时返回
	ErrInvalidUnit = errors.New("unsupported water unit")
	// ErrInvalidContainer 在容器类别不受支持时返回
	ErrInvalidContainer = errors.New("unsupported container type")
	// ErrProfileUnavailable 在档案存储不可用时返回
	ErrProfileUnavailable = errors.New("user profile unavailable")
)

// WaterService 是加水/连续打卡状态机：校验 → 落盘 → 重算当日总量 →
// 越线检测 → 连续打卡推进。所有写路径经由同一把单写锁串行化，
// 避免档案的读-改-写相互交错。
type WaterService struct {
	mu           *sync.Mutex
	entries      store.EntryStore
	profiles     store.ProfileStore
	celebrations store.CelebrationTracker
	bus          *EventBus
}

// NewWaterService 构造 WaterService。mu 为与档案设值器共享的单写锁。
func NewWaterService(mu *sync.Mutex, entries store.EntryStore, profiles store.ProfileStore, celebrations store.CelebrationTracker, bus *EventBus) *WaterService {
	return &WaterService{
		mu:           mu,
		entries:      entries,
		profiles:     profiles,
		celebrations: celebrations,
		bus:          bus,
	}
}

// AddWaterInput 定义一次加水操作的输入。Unit 为空时沿用档案偏好单位；
// At 为零值时取当前时间。
type AddWaterInput struct {
	Amount    float64
	Unit      db.WaterUnit
	Container db.ContainerType
	At        time.Time
}

// AddWaterResult 返回新建记录及越线信息。
type AddWaterResult struct {
	Entry         db.WaterEntry
	IntakeBefore  float64
	IntakeAfter   float64
	GoalCompleted bool
	StreakCount   int
}

// AddWater 执行加水操作并推进连续打卡状态。
func (s *WaterService) AddWater(input AddWaterInput) (*AddWaterResult, error) {
	unit := input.Unit
	if unit == "" {
		unit = db.UnitMilliliters
	}
	if !unit.Valid() {
		return nil, ErrInvalidUnit
	}

	container := input.Container
	if container == "" {
		container = db.ContainerGlass
	}
	if !container.Valid() {
		return nil, ErrInvalidContainer
	}

	// 非毫升单位先换算再做边界校验
	amountML := db.Convert(input.Amount, unit, db.UnitMilliliters)
	if amountML <= 0 || amountML > db.MaxEntryAmountML {
		return nil, ErrInvalidAmount
	}

	now := input.At
	if now.IsZero() {
		now = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.profiles.Get()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}

	intakeBefore, err := s.entries.TotalForDay(now)
	if err != nil {
		return nil, fmt.Errorf("sum today's intake: %w", err)
	}

	displayUnit := unit
	if input.Unit == "" {
		displayUnit = profile.PreferredUnit
	}

	entry := db.WaterEntry{
		ID:            uuid.NewString(),
		Amount:        amountML,
		Unit:          displayUnit,
		ContainerType: container,
		Timestamp:     now,
	}

	// 写失败必须向调用方传播：记录可能并未持久化
	if err := s.entries.Add(&entry); err != nil {
		return nil, err
	}

	intakeAfter := intakeBefore + amountML
	profile.LastActiveDate = now

	goalCompleted := false
	if intakeBefore < profile.DailyGoal && profile.DailyGoal <= intakeAfter {
		if s.celebrations.ShouldCelebrate(now, intakeAfter) {
			goalCompleted = true
			if err := s.celebrations.MarkCelebrated(now, intakeAfter); err != nil {
				return nil, err
			}
		}
	}

	if intakeAfter >= profile.DailyGoal {
		advanceStreak(profile, now)
	}

	if err := s.profiles.Save(profile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}

	s.bus.Publish(Event{Type: EventEntryAdded, Entry: &entry, Intake: intakeAfter, At: now})
	if goalCompleted {
		s.bus.Publish(Event{Type: EventGoalCompleted, Intake: intakeAfter, At: now})
	}

	return &AddWaterResult{
		Entry:         entry,
		IntakeBefore:  intakeBefore,
		IntakeAfter:   intakeAfter,
		GoalCompleted: goalCompleted,
		StreakCount:   profile.StreakCount,
	}, nil
}

// DeleteEntry 删除一条记录。若今天的总量因此跌破目标，则清零庆祝水平，
// 使之后的再次越线重新触发庆祝；删除历史日期的记录不影响今天的庆祝状态，
// 连续打卡也不做追溯回退。
func (s *WaterService) DeleteEntry(id string, at time.Time) error {
	now := at
	if now.IsZero() {
		now = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.entries.Get(id)
	if err != nil {
		return err
	}

	if err := s.entries.Delete(id); err != nil {
		return err
	}

	total, err := s.entries.TotalForDay(entry.Timestamp)
	if err != nil {
		return err
	}

	profile, err := s.profiles.Get()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}

	if sameCalendarDay(entry.Timestamp, now) && total < profile.DailyGoal {
		if err := s.celebrations.ResetLevel(now); err != nil {
			return err
		}
	}

	s.bus.Publish(Event{Type: EventEntryDeleted, Entry: entry, Intake: total, At: now})
	return nil
}

// UpdateEntry 修正一条已存在记录的数量、容器或时间。Amount 为规范毫升值。
func (s *WaterService) UpdateEntry(entry db.WaterEntry) error {
	if entry.Amount <= 0 || entry.Amount > db.MaxEntryAmountML {
		return ErrInvalidAmount
	}
	if entry.Unit != "" && !entry.Unit.Valid() {
		return ErrInvalidUnit
	}
	if entry.ContainerType != "" && !entry.ContainerType.Valid() {
		return ErrInvalidContainer
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.entries.Update(entry); err != nil {
		return err
	}

	total, err := s.entries.TotalForDay(entry.Timestamp)
	if err != nil {
		return err
	}

	profile, err := s.profiles.Get()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}

	// 同删除：只有今天的记录被改小才会清零庆祝水平
	if now := time.Now(); sameCalendarDay(entry.Timestamp, now) && total < profile.DailyGoal {
		if err := s.celebrations.ResetLevel(now); err != nil {
			return err
		}
	}
	return nil
}

// Clear 清空全部饮水记录。
func (s *WaterService) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.Clear()
}

// dayRelation 表示上次连续打卡日期相对今天的位置，显式三向比较
// 让状态机分支穷尽可测。
type dayRelation int

const (
	relationNone dayRelation = iota
	relationToday
	relationYesterday
	relationEarlier
)

func relateToDay(last *time.Time, today time.Time) dayRelation {
	if last == nil {
		return relationNone
	}
	switch {
	case sameCalendarDay(*last, today):
		return relationToday
	case sameCalendarDay(*last, today.AddDate(0, 0, -1)):
		return relationYesterday
	default:
		return relationEarlier
	}
}

func sameCalendarDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// advanceStreak 在当日目标达成后推进连续打卡：当天已计入则幂等，
// 昨天计入则 +1，更早或从未计入则重置为 1。
func advanceStreak(profile *db.Profile, now time.Time) {
	switch relateToDay(profile.LastStreakUpdateDate, now) {
	case relationToday:
		return
	case relationYesterday:
		profile.StreakCount++
	default:
		profile.StreakCount = 1
	}
	today := now
	profile.LastStreakUpdateDate = &today
}
