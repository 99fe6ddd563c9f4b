package credit

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/config"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/database"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/metadata"
	"github.com/vishnuu5/vertxai--CreatorDashboard/pkg/lifecycle"
)

// StartDailyResetScheduler 启动每日奖励标志的重置任务。
// 任务在配置的时区内按cron表达式（默认每天零点）触发，
// 进程停机时随生命周期句柄一起优雅退出。
// 单次重置失败只记录日志，等待下一个调度周期重试，不会使进程退出。
func StartDailyResetScheduler(handle *lifecycle.Handle, cfg config.SchedulerConfig) error {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("无法加载调度时区 %q: %w", cfg.Timezone, err)
	}

	// 进程可能恰好在零点前后重启。启动时对照metadata里的检查点，
	// 如果上一次重置发生在今天零点之前，立刻补一次。
	if err := catchUpMissedReset(loc); err != nil {
		fmt.Printf("每日重置任务警告: 启动补偿检查失败: %v\n", err)
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.DailyResetSpec, runDailyReset)
	if err != nil {
		return fmt.Errorf("无法注册每日重置任务 %q: %w", cfg.DailyResetSpec, err)
	}

	c.Start()
	fmt.Printf("每日重置调度器已启动 (表达式 %q, 时区 %s)。\n", cfg.DailyResetSpec, loc)

	go func() {
		defer handle.Close()
		<-handle.Done()
		// Stop返回的context在运行中的任务结束后完成
		<-c.Stop().Done()
		fmt.Println("每日重置调度器已关闭。")
	}()

	return nil
}

// catchUpMissedReset 检查是否错过了最近一个零点的重置，错过了就立刻执行。
func catchUpMissedReset(loc *time.Location) error {
	lastReset, err := metadata.GetLastDailyReset(database.DB)
	if err != nil {
		return err
	}

	now := time.Now().In(loc)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if lastReset.Before(midnight) {
		fmt.Println("每日重置任务: 检测到错过的零点重置，立即补偿执行...")
		runDailyReset()
	}
	return nil
}

// runDailyReset 执行一次重置并在成功后更新metadata检查点。
func runDailyReset() {
	fmt.Println("每日重置任务: 正在清除所有账户的每日奖励标志...")
	if err := ResetDailyLoginFlags(); err != nil {
		fmt.Printf("每日重置任务错误: %v (将在下一个调度周期重试)\n", err)
		return
	}
	if err := metadata.SetLastDailyReset(database.DB, time.Now()); err != nil {
		fmt.Printf("每日重置任务警告: 无法记录重置检查点: %v\n", err)
	}
}

// ResetDailyLoginFlags 无条件清除所有账户的每日奖励标志。
// 整个重置是一条UPDATE语句，与并发领取之间不存在逐行的读-改-写竞态：
// 恰好落在边界上的领取要么看到旧标志要么看到新标志，但标志永远不会损坏。
func ResetDailyLoginFlags() error {
	result := database.DB.Model(&account{}).
		Where("daily_login_credited = ?", true).
		Update("daily_login_credited", false)
	if result.Error != nil {
		return fmt.Errorf("无法重置每日奖励标志: %w", result.Error)
	}

	fmt.Printf("每日重置任务: 已重置 %d 个账户的每日奖励标志。\n", result.RowsAffected)
	return nil
}
