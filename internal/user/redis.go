package user

import (
	"fmt"

	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/database"
)

// 定义与用户相关的Redis键名
const (
	// KnownUsersKey 是一个Set，用于快速判断一个UUID是否对应已注册的用户。
	// Key: known_users
	// Member: User UUID
	KnownUsersKey = "known_users"
)

// IsKnownUser 检查一个UUID是否属于已注册用户。
// Redis可用时只查缓存；Redis不可用时回退到SQLite。
func IsKnownUser(uuidStr string) (bool, error) {
	if uuidStr == "" {
		return false, nil
	}

	if database.IsRedisHealthy() {
		exists, err := database.RDB.SIsMember(database.Ctx, KnownUsersKey, uuidStr).Result()
		if err == nil {
			return exists, nil
		}
		// 缓存查询失败时降级到数据库，不直接向调用方报错
		fmt.Printf("检查Redis用户缓存时出错，回退到SQLite: %v\n", err)
	}

	var count int64
	if err := database.DB.Model(&User{}).Where("uuid = ?", uuidStr).Count(&count).Error; err != nil {
		return false, fmt.Errorf("无法从SQLite查询用户: %w", err)
	}
	return count > 0, nil
}

// cacheKnownUser 将新注册用户的UUID加入Redis缓存。
// 缓存失败只记录日志；SQLite中的注册记录是权威数据。
func cacheKnownUser(uuidStr string) {
	if !database.IsRedisHealthy() {
		return
	}
	if err := database.RDB.SAdd(database.Ctx, KnownUsersKey, uuidStr).Err(); err != nil {
		fmt.Printf("无法将新用户 %s 添加到Redis缓存: %v\n", uuidStr, err)
	}
}

// uncacheKnownUser 在注销账号时将UUID从Redis缓存移除。
func uncacheKnownUser(uuidStr string) {
	if !database.IsRedisHealthy() {
		return
	}
	if err := database.RDB.SRem(database.Ctx, KnownUsersKey, uuidStr).Err(); err != nil {
		fmt.Printf("无法将用户 %s 从Redis缓存移除: %v\n", uuidStr, err)
	}
}
