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

// SettingProfileStore 将档案整体序列化为 JSON 存放在 settings 表中，
// 版本不符或数据损坏时丢弃旧记录并回退默认档案。
type SettingProfileStore struct {
	db *gorm.DB
}

// NewProfileStore 构造 SettingProfileStore。
func NewProfileStore(gdb *gorm.DB) *SettingProfileStore {
	return &SettingProfileStore{db: gdb}
}

// Get 返回已有档案；缺失或损坏时创建并持久化默认档案。
func (s *SettingProfileStore) Get() (*db.Profile, error) {
	var setting db.Setting
	err := s.db.Where("key = ?", db.SettingKeyUserProfile).First(&setting).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("load profile failed, falling back to defaults: %v", err)
		}
		return s.Reset()
	}

	var profile db.Profile
	if err := json.Unmarshal([]byte(setting.Value), &profile); err != nil {
		log.Printf("profile record unreadable, discarding: %v", err)
		return s.Reset()
	}
	if profile.DataVersion != db.ProfileDataVersion {
		log.Printf("profile data version %q unsupported, discarding", profile.DataVersion)
		return s.Reset()
	}

	return &profile, nil
}

// Save 持久化档案。写入失败向调用方传播。
func (s *SettingProfileStore) Save(profile *db.Profile) error {
	profile.DataVersion = db.ProfileDataVersion

	encoded, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	setting := db.Setting{Key: db.SettingKeyUserProfile, Value: string(encoded)}
	if err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      string(encoded),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Reset 以默认档案整体替换现有记录。
func (s *SettingProfileStore) Reset() (*db.Profile, error) {
	profile := db.DefaultProfile(time.Now())
	if err := s.Save(profile); err != nil {
		return nil, err
	}
	return profile, nil
}
