package post

import (
	"fmt"

	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/database"
)

// migrateDB 负责自动迁移内容和收藏表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&Post{}, &SavedPost{}); err != nil {
		return fmt.Errorf("无法迁移post相关表: %w", err)
	}
	fmt.Println("Post数据库表迁移成功。")
	return nil
}

// WarmupCache 预热各来源的信息流缓存，让首个请求不必现场组装。
func WarmupCache() error {
	setFeedCache(SourceTwitter, fetchTwitterItems())
	setFeedCache(SourceReddit, fetchRedditItems())
	fmt.Println("成功预热信息流缓存到Redis。")
	return nil
}

// PrimeCachedDB 是post模块的初始化总入口
func PrimeCachedDB() error {
	if err := migrateDB(); err != nil {
		return err
	}
	if err := WarmupCache(); err != nil {
		return err
	}
	return nil
}
