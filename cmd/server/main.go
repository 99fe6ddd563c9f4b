package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/vishnuu5/vertxai--CreatorDashboard/api"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/activity"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/credit"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/config"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/database"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/health"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/maintenance"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/shutdown"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/startup"
	"github.com/vishnuu5/vertxai--CreatorDashboard/pkg/lifecycle"
	"github.com/vishnuu5/vertxai--CreatorDashboard/pkg/token"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("无法加载配置: %v", err))
	}

	token.GenerateSecretKey()
	database.InitDB(cfg.Database.Sqlite)
	database.InitRedis(cfg.Database.Redis)

	// 1. 阻塞式获取初始Run ID
	health.InitializeRunID()

	// 2. 执行应用首次启动初始化流程
	if err := startup.InitializeApplication(); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// 3. 阻塞式执行一次启动后健康检查
	fmt.Println("正在执行启动后健康检查...")
	health.PerformCheck()

	// 4. 异步启动后台的持续健康检查器
	go health.StartRedisHealthCheck()

	// 5. 创建生命周期管理器并启动后台服务
	gracefulMgr := lifecycle.NewManager()
	forcefulMgr := lifecycle.NewManager()

	recorderGraceful, err := gracefulMgr.NewServiceHandle("activity-recorder")
	if err != nil {
		panic(err)
	}
	recorderForceful, err := forcefulMgr.NewServiceHandle("activity-recorder")
	if err != nil {
		panic(err)
	}
	activity.StartRecorder(recorderGraceful, recorderForceful)

	resetHandle, err := gracefulMgr.NewServiceHandle("daily-reset")
	if err != nil {
		panic(err)
	}
	if err := credit.StartDailyResetScheduler(resetHandle, cfg.Scheduler); err != nil {
		panic(fmt.Sprintf("无法启动每日重置调度器: %v", err))
	}

	reconcileHandle, err := gracefulMgr.NewServiceHandle("cache-reconciler")
	if err != nil {
		panic(err)
	}
	go maintenance.StartCacheReconciler(reconcileHandle)

	// 6. 组装Gin引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r)

	// 7. 启动HTTP服务器并等待停机信号
	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic("Failed to start server: " + err.Error())
		}
	}()

	coordinator := shutdown.NewCoordinator(gracefulMgr, forcefulMgr)
	coordinator.ListenForSignalsAndShutdown(server)
}
