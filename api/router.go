package api

import (
	"github.com/gin-gonic/gin"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/activity"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/admin"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/credit"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/post"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/user"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// 认证相关的路由，不需要令牌
		auth := api.Group("/auth")
		{
			auth.POST("/register", user.RegisterHandler)
			auth.POST("/login", user.LoginHandler)
		}

		// 用户相关的路由
		users := api.Group("/users", user.RequireAuth())
		{
			users.GET("/me", user.GetMe)
			users.PUT("/profile", user.UpdateProfileHandler)
			users.PUT("/password", user.ChangePasswordHandler)
			users.DELETE("/me", user.DeleteAccountHandler)
		}

		// 内容相关的路由
		posts := api.Group("/posts", user.RequireAuth())
		{
			posts.GET("/feed", post.GetFeedHandler)
			posts.POST("/save", post.SaveHandler)
			posts.GET("/saved", post.GetSavedHandler)
			posts.POST("/share", post.ShareHandler)
			posts.POST("/report", post.ReportHandler)
		}

		// 积分相关的路由
		credits := api.Group("/credits", user.RequireAuth())
		{
			credits.GET("/balance", credit.GetBalanceHandler)
			credits.POST("/add", credit.AddCredits)
			credits.POST("/daily-login", credit.DailyLogin)
			credits.GET("/history", credit.GetCreditHistory)
			credits.GET("/leaderboard", credit.GetLeaderboard)
		}

		// 活动相关的路由
		activities := api.Group("/activity", user.RequireAuth())
		{
			activities.GET("/recent", activity.GetRecentActivity)
		}

		// 管理端路由，需要管理员角色
		adminRoutes := api.Group("/admin", user.RequireAuth(), user.RequireAdmin())
		{
			adminRoutes.GET("/stats", admin.GetStatsHandler)
			adminRoutes.GET("/users", admin.GetUsersHandler)
			adminRoutes.POST("/credits", admin.AdjustCreditsHandler)
			adminRoutes.GET("/reports", admin.GetReportsHandler)
			adminRoutes.PUT("/reports/:id/resolve", admin.ResolveReportHandler)
			adminRoutes.PUT("/reports/:id/dismiss", admin.DismissReportHandler)
		}
	}
}
