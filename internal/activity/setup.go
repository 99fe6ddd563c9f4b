package activity

import (
	"fmt"

	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/database"
)

// migrateDB 负责自动迁移数据库表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&Activity{}); err != nil {
		return fmt.Errorf("无法迁移activity表: %w", err)
	}
	fmt.Println("Activity数据库表迁移成功。")
	return nil
}

// WarmupCache 将全站活动总数预热到Redis计数器中。
func WarmupCache() error {
	var count int64
	if err := database.DB.Model(&Activity{}).Count(&count).Error; err != nil {
		return fmt.Errorf("无法统计活动总数: %w", err)
	}

	if err := database.RDB.Set(database.Ctx, TotalActivitiesKey, count, 0).Err(); err != nil {
		return fmt.Errorf("预热活动计数到Redis失败: %w", err)
	}

	fmt.Printf("成功预热活动计数到Redis (共 %d 条)。\n", count)
	return nil
}

// PrimeCachedDB 是activity模块的初始化总入口
func PrimeCachedDB() error {
	if err := migrateDB(); err != nil {
		return err
	}
	if err := WarmupCache(); err != nil {
		return err
	}
	return nil
}
