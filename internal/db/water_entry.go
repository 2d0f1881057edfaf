package db

import "time"

// WaterEntry 记录一次饮水。Amount 一律存储规范毫升值，
// Unit 仅保留录入时的单位用于展示。Timestamp 带索引以支持按天查询。
type WaterEntry struct {
	ID            string        `gorm:"primaryKey;size:36" json:"id"`
	Amount        float64       `gorm:"not null" json:"amount"`
	Unit          WaterUnit     `gorm:"size:8;not null" json:"unit"`
	ContainerType ContainerType `gorm:"size:16;not null" json:"container_type"`
	Timestamp     time.Time     `gorm:"index;not null" json:"timestamp"`
	CreatedAt     time.Time     `json:"-"`
	UpdatedAt     time.Time     `json:"-"`
}

// TableName 重写表名保持命名一致。
func (WaterEntry) TableName() string {
	return "water_entries"
}
