package credit

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/database"
)

const (
	// LeaderboardKey 是一个 Redis Sorted Set 的键，用于存储积分排行。
	// Score: 账户当前余额
	// Member: 用户的UUID
	LeaderboardKey = "credit:leaderboard"
)

// updateLeaderboard 在记账提交后，将账户的最新余额同步到排行榜。
// 排行榜只是缓存，失败只记录日志；重启或健康检查的预热会修复偏差。
func updateLeaderboard(userUUID string, newBalance int) {
	if !database.IsRedisHealthy() {
		return
	}
	err := database.RDB.ZAdd(database.Ctx, LeaderboardKey, redis.Z{
		Score:  float64(newBalance),
		Member: userUUID,
	}).Err()
	if err != nil {
		fmt.Printf("警告: 更新积分排行榜失败 (用户 %s): %v\n", userUUID, err)
	}
}

// RemoveFromLeaderboard 在账号注销时将用户移出排行榜，由user模块调用。
func RemoveFromLeaderboard(userUUID string) {
	if !database.IsRedisHealthy() {
		return
	}
	if err := database.RDB.ZRem(database.Ctx, LeaderboardKey, userUUID).Err(); err != nil {
		fmt.Printf("警告: 从积分排行榜移除用户 %s 失败: %v\n", userUUID, err)
	}
}

// topBalances 从Redis读取余额最高的若干账户。
func topBalances(limit int) ([]redis.Z, error) {
	return database.RDB.ZRevRangeWithScores(database.Ctx, LeaderboardKey, 0, int64(limit)-1).Result()
}
