package post

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/database"
)

const (
	// FeedCacheKeyPrefix 是信息流缓存的键前缀，完整键形如 posts:feed:twitter。
	// Value: 该来源的信息流JSON（不带个人收藏标记）
	FeedCacheKeyPrefix = "posts:feed:"

	// feedCacheTTL 是信息流缓存的过期时间。
	// 示例数据虽然不变，但保留TTL使接入真实API后无需改动缓存逻辑。
	feedCacheTTL = 5 * time.Minute
)

// getFeedCache 尝试从Redis读取一个来源的信息流。
// 缓存未命中或反序列化失败都当作未命中处理。
func getFeedCache(source Source) ([]FeedItem, bool) {
	raw, err := database.RDB.Get(database.Ctx, FeedCacheKeyPrefix+string(source)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		fmt.Printf("警告: 读取信息流缓存失败 (来源 %s): %v\n", source, err)
		return nil, false
	}

	var items []FeedItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		fmt.Printf("警告: 信息流缓存内容损坏 (来源 %s): %v\n", source, err)
		return nil, false
	}
	return items, true
}

// setFeedCache 将一个来源的信息流写入Redis，失败只记录日志。
func setFeedCache(source Source, items []FeedItem) {
	raw, err := json.Marshal(items)
	if err != nil {
		fmt.Printf("警告: 序列化信息流缓存失败 (来源 %s): %v\n", source, err)
		return
	}
	err = database.RDB.Set(database.Ctx, FeedCacheKeyPrefix+string(source), raw, feedCacheTTL).Err()
	if err != nil {
		fmt.Printf("警告: 写入信息流缓存失败 (来源 %s): %v\n", source, err)
	}
}
