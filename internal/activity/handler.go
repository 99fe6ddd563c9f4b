package activity

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vishnuu5/vertxai--CreatorDashboard/pkg/token"
)

// recentLimit 是 /activity/recent 返回的最大条数
const recentLimit = 10

// GetRecentActivity 处理 GET /api/activity/recent
func GetRecentActivity(c *gin.Context) {
	userID := c.GetString(token.UserIDKey)

	entries, err := GetRecent(userID, recentLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取活动记录失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}
