package db

import "gorm.io/gorm"

// Setting 存储应用级键值对：用户档案文档、庆祝状态、访问锁口令哈希等。
type Setting struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

// TableName 自定义表名以保持命名一致。
func (Setting) TableName() string {
	return "settings"
}

const (
	// SettingKeyUserProfile 存放序列化后的用户档案。
	SettingKeyUserProfile = "user_profile"
	// SettingKeyCelebration 存放目标达成庆祝的去重状态。
	SettingKeyCelebration = "celebration_state"
	// SettingKeyAccessPassword 存放可选访问锁的 bcrypt 哈希。
	SettingKeyAccessPassword = "access_password"
)
