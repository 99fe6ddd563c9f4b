package startup

import (
	"fmt"

	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/activity"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/credit"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/metadata"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/post"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/report"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/user"
)

// InitializeApplication 是应用首次启动时执行的总入口
func InitializeApplication() error {
	fmt.Println("开始应用首次初始化...")

	if err := metadata.PrimeDB(); err != nil {
		return err
	}
	if err := user.PrimeCachedDB(); err != nil {
		return err
	}
	if err := credit.PrimeCachedDB(); err != nil {
		return err
	}
	if err := activity.PrimeCachedDB(); err != nil {
		return err
	}
	if err := post.PrimeCachedDB(); err != nil {
		return err
	}
	if err := report.PrimeCachedDB(); err != nil {
		return err
	}

	fmt.Println("应用初始化完成！")
	return nil
}

// RebuildCache 是一个专门用于在运行时热重建Redis缓存的函数。
// SQLite始终是权威数据，重建只是把缓存恢复到与SQLite一致的状态。
func RebuildCache() error {
	fmt.Println("开始缓存热重建...")

	if err := user.WarmupCache(); err != nil {
		return err
	}
	if err := credit.WarmupCache(); err != nil {
		return err
	}
	if err := activity.WarmupCache(); err != nil {
		return err
	}
	if err := post.WarmupCache(); err != nil {
		return err
	}

	fmt.Println("缓存热重建完成。")
	return nil
}
