package store

import (
	"errors"
	"time"

	"github.com/waterbuddy/internal/db"
)

var (
	// ErrEntryNotFound 在删除/更新不存在的记录时返回
	ErrEntryNotFound = errors.New("water entry not found")
)

// EntryStore 抽象饮水记录的持久化。读取失败一律降级为空结果，
// 写入失败则向调用方传播。
type EntryStore interface {
	Add(entry *db.WaterEntry) error
	Get(id string) (*db.WaterEntry, error)
	Update(entry db.WaterEntry) error
	Delete(id string) error
	ListForDay(day time.Time) ([]db.WaterEntry, error)
	ListForRange(start, end time.Time) ([]db.WaterEntry, error)
	ListAll() ([]db.WaterEntry, error)
	TotalForDay(day time.Time) (float64, error)
	Clear() error
}

// ProfileStore 抽象单用户档案的持久化。Get 在档案缺失或损坏时
// 自愈为默认档案，不向上抛错。
type ProfileStore interface {
	Get() (*db.Profile, error)
	Save(profile *db.Profile) error
	Reset() (*db.Profile, error)
}

// CelebrationTracker 记录目标达成庆祝的去重状态。
type CelebrationTracker interface {
	// ShouldCelebrate 判断当前摄入量是否需要庆祝：新的一天，
	// 或同一天内摄入量超过上次庆祝时的水平。
	ShouldCelebrate(now time.Time, intake float64) bool
	// MarkCelebrated 记录本次庆祝的日期与摄入水平。
	MarkCelebrated(now time.Time, intake float64) error
	// ResetLevel 在摄入量跌破目标后清零记录水平，令再次越线时重新庆祝。
	ResetLevel(now time.Time) error
}

// normalizeToDate 截断到当地日历日零点。
func normalizeToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
