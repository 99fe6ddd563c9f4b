package report

import (
	"fmt"

	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/database"
)

// migrateDB 负责自动迁移举报表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&Report{}); err != nil {
		return fmt.Errorf("无法迁移report表: %w", err)
	}
	fmt.Println("Report数据库表迁移成功。")
	return nil
}

// PrimeCachedDB 是report模块的初始化总入口。
// 举报数据没有对应的Redis缓存，初始化只包含表迁移。
func PrimeCachedDB() error {
	return migrateDB()
}
