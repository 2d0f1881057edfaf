package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/waterbuddy/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const celebrationDateFormat = "2006-01-02"

// celebrationState 记录最近一次庆祝的日期与当时的摄入水平。
type celebrationState struct {
	Date  string  `json:"date"`
	Level float64 `json:"level"`
}

// SettingCelebrationTracker 将庆祝去重状态存放在 settings 表中。
type SettingCelebrationTracker struct {
	db *gorm.DB
}

// NewCelebrationTracker 构造 SettingCelebrationTracker。
func NewCelebrationTracker(gdb *gorm.DB) *SettingCelebrationTracker {
	return &SettingCelebrationTracker{db: gdb}
}

// ShouldCelebrate 在新的一天、或同一天摄入量超过上次庆祝水平时返回 true。
func (t *SettingCelebrationTracker) ShouldCelebrate(now time.Time, intake float64) bool {
	state, ok := t.load()
	if !ok {
		return true
	}

	today := now.Format(celebrationDateFormat)
	if state.Date != today {
		return true
	}
	return intake > state.Level
}

// MarkCelebrated 记录本次庆祝。
func (t *SettingCelebrationTracker) MarkCelebrated(now time.Time, intake float64) error {
	return t.save(celebrationState{Date: now.Format(celebrationDateFormat), Level: intake})
}

// ResetLevel 摄入量跌破目标后清零水平，保留日期。
func (t *SettingCelebrationTracker) ResetLevel(now time.Time) error {
	return t.save(celebrationState{Date: now.Format(celebrationDateFormat), Level: 0})
}

func (t *SettingCelebrationTracker) load() (celebrationState, bool) {
	var setting db.Setting
	if err := t.db.Where("key = ?", db.SettingKeyCelebration).First(&setting).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("load celebration state failed, treating as unset: %v", err)
		}
		return celebrationState{}, false
	}

	var state celebrationState
	if err := json.Unmarshal([]byte(setting.Value), &state); err != nil {
		log.Printf("celebration state unreadable, treating as unset: %v", err)
		return celebrationState{}, false
	}
	return state, true
}

func (t *SettingCelebrationTracker) save(state celebrationState) error {
	encoded, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode celebration state: %w", err)
	}

	setting := db.Setting{Key: db.SettingKeyCelebration, Value: string(encoded)}
	if err := t.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      string(encoded),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("save celebration state: %w", err)
	}
	return nil
}
