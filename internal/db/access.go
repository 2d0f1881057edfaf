package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnsureAccessPassword 配置可选的访问锁：口令非空时写入其 bcrypt 哈希，
// 为空时保持现状（不会清除已配置的锁）。
func EnsureAccessPassword(gdb *gorm.DB, password string) error {
	trimmed := strings.TrimSpace(password)
	if trimmed == "" {
		return nil
	}

	if gdb == nil {
		return errors.New("database not initialized")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(trimmed), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	setting := Setting{Key: SettingKeyAccessPassword, Value: string(hashed)}
	return gdb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"value": string(hashed)}),
	}).Create(&setting).Error
}

// AccessPasswordHash 返回已配置的访问锁哈希，未配置时返回空字符串。
func AccessPasswordHash(gdb *gorm.DB) (string, error) {
	var setting Setting
	if err := gdb.Where("key = ?", SettingKeyAccessPassword).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return setting.Value, nil
}
