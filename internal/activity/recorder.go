package activity

import (
	"fmt"
	"sync"

	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/database"
	"github.com/vishnuu5/vertxai--CreatorDashboard/pkg/lifecycle"
)

// cacheEvent 表示一次需要同步到Redis的活动写入。
type cacheEvent struct {
	UserUUID string
}

// cacheRecorder 是一个单一写入者，负责按顺序消费活动事件并维护Redis缓存。
// SQLite中的活动行在请求路径中同步写入，是权威数据；
// 这里只做缓存失效和计数器维护，慢或失败都不影响请求。
type cacheRecorder struct {
	eventChan     chan cacheEvent
	isShutdown    bool
	shutdownMutex sync.Mutex
}

// globalRecorder 是私有的、全局的cacheRecorder实例
var globalRecorder = cacheRecorder{
	eventChan: make(chan cacheEvent, 10000),
}

// StartRecorder 启动活动缓存维护器的主处理循环。
func StartRecorder(gracefulHandle, forcefulHandle *lifecycle.Handle) {
	go globalRecorder.run(gracefulHandle, forcefulHandle)
}

// submitEvent 供Record调用，提交一个缓存维护事件。
// 队列满或已停机时直接丢弃：缓存自带TTL，丢失一次失效无伤大雅。
func submitEvent(e cacheEvent) {
	globalRecorder.shutdownMutex.Lock()
	defer globalRecorder.shutdownMutex.Unlock()
	if globalRecorder.isShutdown {
		return
	}
	select {
	case globalRecorder.eventChan <- e:
	default:
		fmt.Printf("警告: 活动缓存队列已满，放弃维护用户 %s 的缓存\n", e.UserUUID)
	}
}

// run 是维护器的主事件循环，响应两阶段停机。
func (r *cacheRecorder) run(gracefulHandle, forcefulHandle *lifecycle.Handle) {
	defer gracefulHandle.Close()
	defer forcefulHandle.Close()
	fmt.Println("活动缓存维护器已启动。")

	for {
		select {
		case <-gracefulHandle.Done():
			// 收到第一停机信号，进入排空队列模式
			fmt.Println("活动缓存维护器: 收到优雅停机信号，正在处理剩余事件...")
			r.drainQueue(forcefulHandle)
			fmt.Println("活动缓存维护器: 优雅停机完成，主循环退出。")
			return
		case e := <-r.eventChan:
			r.applyEvent(e)
		}
	}
}

// drainQueue 在收到优雅停机信号后，尽力处理完channel中的剩余事件。
func (r *cacheRecorder) drainQueue(forcefulHandle *lifecycle.Handle) {
	// 先关闭channel，不再接收新事件
	r.shutdownMutex.Lock()
	r.isShutdown = true
	close(r.eventChan)
	r.shutdownMutex.Unlock()

	for e := range r.eventChan {
		select {
		case <-forcefulHandle.Done():
			fmt.Println("活动缓存维护器: 收到强制停机信号，排空队列被中断。")
			return
		default:
		}
		r.applyEvent(e)
	}
}

// applyEvent 将单个事件应用到Redis：让该用户的渲染缓存失效，并递增全站计数。
func (r *cacheRecorder) applyEvent(e cacheEvent) {
	if !database.IsRedisHealthy() {
		return
	}

	pipe := database.RDB.TxPipeline()
	pipe.HDel(database.Ctx, CacheKey, e.UserUUID)
	pipe.Incr(database.Ctx, TotalActivitiesKey)
	if _, err := pipe.Exec(database.Ctx); err != nil {
		fmt.Printf("警告: 维护用户 %s 的活动缓存失败: %v\n", e.UserUUID, err)
	}
}
