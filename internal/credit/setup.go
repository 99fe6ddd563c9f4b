package credit

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/database"
)

// migrateDB 负责自动迁移积分流水表结构。
// users表本身由user模块迁移，这里只管理流水表。
func migrateDB() error {
	if err := database.DB.AutoMigrate(&Transaction{}); err != nil {
		return fmt.Errorf("无法迁移credit流水表: %w", err)
	}
	fmt.Println("Credit数据库表迁移成功。")
	return nil
}

// WarmupCache 从SQLite重建Redis中的积分排行榜。
// 先清空旧榜再批量写入，保证排行榜与余额的权威数据一致。
func WarmupCache() error {
	var accounts []account
	if err := database.DB.Find(&accounts).Error; err != nil {
		return fmt.Errorf("无法从SQLite读取账户余额: %w", err)
	}

	pipe := database.RDB.TxPipeline()
	pipe.Del(database.Ctx, LeaderboardKey)
	if len(accounts) > 0 {
		members := make([]redis.Z, 0, len(accounts))
		for _, acc := range accounts {
			members = append(members, redis.Z{
				Score:  float64(acc.Credits),
				Member: acc.UUID,
			})
		}
		pipe.ZAdd(database.Ctx, LeaderboardKey, members...)
	}

	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("预热积分排行榜到Redis失败: %w", err)
	}

	fmt.Printf("成功预热积分排行榜到Redis (共 %d 个账户)。\n", len(accounts))
	return nil
}

// PrimeCachedDB 是credit模块的初始化总入口
func PrimeCachedDB() error {
	if err := migrateDB(); err != nil {
		return err
	}
	if err := WarmupCache(); err != nil {
		return err
	}
	return nil
}
