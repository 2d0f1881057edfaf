package db

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAccessTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := gdb.AutoMigrate(&Setting{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func TestEnsureAccessPassword(t *testing.T) {
	gdb := setupAccessTestDB(t)

	// 空口令不配置访问锁
	if err := EnsureAccessPassword(gdb, "  "); err != nil {
		t.Fatalf("EnsureAccessPassword returned error: %v", err)
	}
	hash, err := AccessPasswordHash(gdb)
	if err != nil {
		t.Fatalf("AccessPasswordHash returned error: %v", err)
	}
	if hash != "" {
		t.Fatal("blank password must not configure a lock")
	}

	if err := EnsureAccessPassword(gdb, "hydrate123"); err != nil {
		t.Fatalf("EnsureAccessPassword returned error: %v", err)
	}
	hash, err = AccessPasswordHash(gdb)
	if err != nil {
		t.Fatalf("AccessPasswordHash returned error: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("hydrate123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	// 重复配置覆盖旧口令
	if err := EnsureAccessPassword(gdb, "newpass"); err != nil {
		t.Fatalf("EnsureAccessPassword returned error: %v", err)
	}
	hash, _ = AccessPasswordHash(gdb)
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("newpass")); err != nil {
		t.Fatalf("updated hash does not match new password: %v", err)
	}
}
