package activity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/database"
)

// Record 追加一条活动记录。
// 活动日志是纯附加的：写入失败只记录日志，永远不会让调用方的主操作失败，
// 也绝不会回滚已经提交的积分变更。
func Record(userUUID string, activityType ActivityType, data map[string]interface{}) {
	var dataJSON string
	if len(data) > 0 {
		raw, err := json.Marshal(data)
		if err != nil {
			fmt.Printf("警告: 无法序列化活动数据 (用户 %s, 类型 %s): %v\n", userUUID, activityType, err)
		} else {
			dataJSON = string(raw)
		}
	}

	entry := Activity{
		UserUUID: userUUID,
		Type:     activityType,
		Data:     dataJSON,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		fmt.Printf("警告: 无法写入活动记录 (用户 %s, 类型 %s): %v\n", userUUID, activityType, err)
		return
	}

	// 异步维护Redis缓存
	submitEvent(cacheEvent{UserUUID: userUUID})
}

// GetRecent 返回一个用户最近的活动，按时间倒序，带渲染好的描述。
// Redis可用时优先读缓存，未命中则回源SQLite并异步写回缓存。
func GetRecent(userUUID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	useCache := database.IsRedisHealthy()
	if useCache {
		if cached, err := getRecentCache(userUUID); err == nil && cached != nil {
			if len(cached) > limit {
				cached = cached[:limit]
			}
			return cached, nil
		}
	}

	var activities []Activity
	err := database.DB.Where("user_uuid = ?", userUUID).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("无法从SQLite读取活动记录: %w", err)
	}

	entries := make([]Entry, 0, len(activities))
	for i := range activities {
		a := &activities[i]
		entries = append(entries, Entry{
			ID:          a.ID,
			Type:        a.Type,
			Description: describe(a),
			CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		})
	}

	// 同步写回缓存。如果放到goroutine里，写回可能落在并发Record的
	// 失效操作之后，把旧列表留在缓存里直到TTL过期。
	if useCache {
		_ = setRecentCache(userUUID, entries)
	}

	return entries, nil
}
