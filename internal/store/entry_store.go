package store

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/waterbuddy/internal/db"
	"gorm.io/gorm"
)

// GormEntryStore 基于 sqlite 的饮水记录存储。
type GormEntryStore struct {
	db *gorm.DB
}

// NewEntryStore 构造 GormEntryStore。
func NewEntryStore(gdb *gorm.DB) *GormEntryStore {
	return &GormEntryStore{db: gdb}
}

// Add 追加一条记录。
func (s *GormEntryStore) Add(entry *db.WaterEntry) error {
	if err := s.db.Create(entry).Error; err != nil {
		return fmt.Errorf("add water entry: %w", err)
	}
	return nil
}

// Get 按 ID 读取记录。
func (s *GormEntryStore) Get(id string) (*db.WaterEntry, error) {
	var entry db.WaterEntry
	if err := s.db.Where("id = ?", id).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("get water entry: %w", err)
	}
	return &entry, nil
}

// Update 整体覆盖一条已存在的记录。
func (s *GormEntryStore) Update(entry db.WaterEntry) error {
	result := s.db.Model(&db.WaterEntry{}).Where("id = ?", entry.ID).Updates(map[string]interface{}{
		"amount":         entry.Amount,
		"unit":           entry.Unit,
		"container_type": entry.ContainerType,
		"timestamp":      entry.Timestamp,
	})
	if result.Error != nil {
		return fmt.Errorf("update water entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// Delete 删除记录，不存在时返回 ErrEntryNotFound。
func (s *GormEntryStore) Delete(id string) error {
	result := s.db.Where("id = ?", id).Delete(&db.WaterEntry{})
	if result.Error != nil {
		return fmt.Errorf("delete water entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// ListForDay 返回指定日历日内的记录，按时间倒序。
func (s *GormEntryStore) ListForDay(day time.Time) ([]db.WaterEntry, error) {
	start := normalizeToDate(day)
	return s.listBetween(start, start.AddDate(0, 0, 1))
}

// ListForRange 返回闭区间 [start, end] 覆盖的日历日内的记录，按时间倒序。
func (s *GormEntryStore) ListForRange(start, end time.Time) ([]db.WaterEntry, error) {
	return s.listBetween(normalizeToDate(start), normalizeToDate(end).AddDate(0, 0, 1))
}

func (s *GormEntryStore) listBetween(start, end time.Time) ([]db.WaterEntry, error) {
	var entries []db.WaterEntry
	if err := s.db.Where("timestamp >= ? AND timestamp < ?", start, end).
		Order("timestamp DESC").
		Find(&entries).Error; err != nil {
		// 读路径容错：本地数据不可读时按空处理，不让应用崩溃
		log.Printf("list water entries failed, treating as empty: %v", err)
		return []db.WaterEntry{}, nil
	}
	return entries, nil
}

// ListAll 返回全部记录，按时间倒序。
func (s *GormEntryStore) ListAll() ([]db.WaterEntry, error) {
	var entries []db.WaterEntry
	if err := s.db.Order("timestamp DESC").Find(&entries).Error; err != nil {
		log.Printf("list all water entries failed, treating as empty: %v", err)
		return []db.WaterEntry{}, nil
	}
	return entries, nil
}

// TotalForDay 汇总指定日历日的摄入量（毫升）。
func (s *GormEntryStore) TotalForDay(day time.Time) (float64, error) {
	entries, err := s.ListForDay(day)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, entry := range entries {
		total += entry.Amount
	}
	return total, nil
}

// Clear 清空全部记录。
func (s *GormEntryStore) Clear() error {
	if err := s.db.Where("1 = 1").Delete(&db.WaterEntry{}).Error; err != nil {
		return fmt.Errorf("clear water entries: %w", err)
	}
	return nil
}
