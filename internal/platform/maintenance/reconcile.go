package maintenance

import (
	"fmt"
	"sync"
	"time"

	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/database"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/startup"
	"github.com/vishnuu5/vertxai--CreatorDashboard/pkg/lifecycle"
)

const reconcileInterval = 10 * time.Minute // 定时校准频率

var reconcileMutex sync.Mutex // 避免与健康检查触发的重建竞态

// StartCacheReconciler 启动一个后台Goroutine来定期校准Redis缓存。
// 余额权威数据在SQLite里，缓存偏差（比如异步事件被丢弃后的排行榜漂移）
// 不会影响记账正确性，这个任务只是定期把缓存拉回与SQLite一致的状态。
// 它接收一个lifecycle.Handle来管理其生命周期。
func StartCacheReconciler(handle *lifecycle.Handle) {
	defer handle.Close() // 确保在退出时通知管理器
	fmt.Println("缓存校准调度器已启动。")

	for {
		// 使用可中断的休眠来代替ticker。
		// 这使得整个循环可以在收到停机信号时立刻从休眠中唤醒并退出。
		if err := handle.Sleep(reconcileInterval); err != nil {
			fmt.Printf("缓存校准调度器: 休眠被中断，正在关闭...\n")
			return
		}

		if !database.IsRedisHealthy() {
			fmt.Println("缓存校准调度器: 检测到Redis不可用，跳过本次校准。")
			continue
		}

		fmt.Println("缓存校准调度器: 正在执行定时校准...")
		if err := ReconcileCache(); err != nil {
			fmt.Printf("缓存校准调度器错误: 校准失败: %v\n", err)
		} else {
			fmt.Println("缓存校准调度器: 校准成功。")
		}
	}
}

// ReconcileCache 执行一次完整的缓存校准。
func ReconcileCache() error {
	reconcileMutex.Lock()
	defer reconcileMutex.Unlock()

	return startup.RebuildCache()
}
