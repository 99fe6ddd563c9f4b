package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/credit"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/report"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/user"
)

// AdjustCreditsRequestBody 定义了管理员调整积分接口的请求体。
// Amount使用指针以区分"未提供"和字面量0（0本身也是无效数额）。
type AdjustCreditsRequestBody struct {
	UserID string `json:"userId" binding:"required"`
	Amount *int   `json:"amount" binding:"required"`
	Reason string `json:"reason"`
}

// GetStatsHandler 处理 GET /api/admin/stats
func GetStatsHandler(c *gin.Context) {
	stats, err := GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法获取统计数据"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetUsersHandler 处理 GET /api/admin/users
func GetUsersHandler(c *gin.Context) {
	profiles, err := user.ListProfiles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法获取用户列表"})
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// AdjustCreditsHandler 处理 POST /api/admin/credits
func AdjustCreditsHandler(c *gin.Context) {
	var body AdjustCreditsRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	result, err := AdjustCredits(body.UserID, *body.Amount, body.Reason)
	if err != nil {
		switch {
		case errors.Is(err, credit.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "用户不存在"})
		case errors.Is(err, credit.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的积分数额"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "无法调整积分"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Credits updated successfully",
		"credits": result.NewBalance,
	})
}

// GetReportsHandler 处理 GET /api/admin/reports
func GetReportsHandler(c *gin.Context) {
	views, err := ListPendingReports()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法获取举报列表"})
		return
	}
	c.JSON(http.StatusOK, views)
}

// ResolveReportHandler 处理 PUT /api/admin/reports/:id/resolve
func ResolveReportHandler(c *gin.Context) {
	handleReportTransition(c, report.Resolve, "Report resolved")
}

// DismissReportHandler 处理 PUT /api/admin/reports/:id/dismiss
func DismissReportHandler(c *gin.Context) {
	handleReportTransition(c, report.Dismiss, "Report dismissed")
}

// handleReportTransition 是两个举报处理接口的公共实现
func handleReportTransition(c *gin.Context, transition func(uint) (*report.Report, error), message string) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的举报ID"})
		return
	}

	r, err := transition(uint(id))
	if err != nil {
		switch {
		case errors.Is(err, report.ErrReportNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "举报不存在"})
		case errors.Is(err, report.ErrAlreadyHandled):
			c.JSON(http.StatusConflict, gin.H{"error": "举报已被处理"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "无法更新举报状态"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"report":  r,
	})
}
