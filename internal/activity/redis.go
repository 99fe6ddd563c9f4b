package activity

import (
	"encoding/json"
	"time"

	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/database"
)

const (
	// CacheKey 是一个 Redis Hash 的键，用于缓存每个用户渲染好的最近活动列表。
	// Field: 用户的UUID
	// Value: []Entry 的JSON序列化字符串
	CacheKey = "activity:cache"

	// TotalActivitiesKey 是一个 Redis String 计数器，记录全站活动总数。
	TotalActivitiesKey = "meta:total_activities"

	// cacheTTL 是单个用户活动缓存的有效期
	cacheTTL = 1 * time.Minute
)

// getRecentCache 从Redis缓存中获取用户的最近活动列表。
func getRecentCache(userUUID string) ([]Entry, error) {
	result, err := database.RDB.HGet(database.Ctx, CacheKey, userUUID).Result()
	if err != nil {
		// 缓存未命中或Redis错误都按未命中处理，由调用方回源
		return nil, err
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(result), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// setRecentCache 将渲染好的活动列表写入Redis缓存。
func setRecentCache(userUUID string, entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	// 使用Pipeline来原子地设置值和过期时间
	pipe := database.RDB.Pipeline()
	pipe.HSet(database.Ctx, CacheKey, userUUID, data)
	pipe.HExpire(database.Ctx, CacheKey, cacheTTL, userUUID)
	_, err = pipe.Exec(database.Ctx)
	return err
}
