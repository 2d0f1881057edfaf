package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/waterbuddy/internal/config"
	"github.com/waterbuddy/internal/db"
	"gorm.io/gorm"
)

// 测试数据生成器：写入最近 14 天的饮水记录与一份示例档案。
func main() {
	cfg := config.Load()
	gdb, err := db.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成测试数据...")

	seedEntries(gdb)
	seedProfile(gdb)

	fmt.Println("测试数据生成完成！")
}

var seedContainers = []db.ContainerType{
	db.ContainerGlass,
	db.ContainerBottle,
	db.ContainerCup,
	db.ContainerMug,
}

// 生成最近 14 天的记录，每天 4-8 条，时间落在 8-22 点之间。
func seedEntries(gdb *gorm.DB) {
	var count int64
	gdb.Model(&db.WaterEntry{}).Count(&count)
	if count > 0 {
		fmt.Println("饮水记录已存在，跳过创建")
		return
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()
	total := 0

	for dayOffset := 13; dayOffset >= 0; dayOffset-- {
		day := now.AddDate(0, 0, -dayOffset)
		entries := 4 + rng.Intn(5)
		for i := 0; i < entries; i++ {
			container := seedContainers[rng.Intn(len(seedContainers))]
			amount := container.DefaultAmount()
			hour := 8 + rng.Intn(14)
			minute := rng.Intn(60)
			entry := db.WaterEntry{
				ID:            uuid.NewString(),
				Amount:        amount,
				Unit:          db.UnitMilliliters,
				ContainerType: container,
				Timestamp:     time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()),
			}
			if err := gdb.Create(&entry).Error; err != nil {
				log.Fatal("写入饮水记录失败:", err)
			}
			total++
		}
	}

	fmt.Printf("✅ 饮水记录创建完成（%d 条）\n", total)
}

func seedProfile(gdb *gorm.DB) {
	var count int64
	gdb.Model(&db.Setting{}).Where("key = ?", db.SettingKeyUserProfile).Count(&count)
	if count > 0 {
		fmt.Println("档案已存在，跳过创建")
		return
	}

	profile := db.DefaultProfile(time.Now())
	profile.Name = "Demo"
	profile.StreakCount = 3

	payload, err := json.Marshal(profile)
	if err != nil {
		log.Fatal("编码档案失败:", err)
	}
	setting := db.Setting{Key: db.SettingKeyUserProfile, Value: string(payload)}
	if err := gdb.Create(&setting).Error; err != nil {
		log.Fatal("写入档案失败:", err)
	}

	fmt.Println("✅ 示例档案创建完成")
}
