package credit

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/config"
	"github.com/vishnuu5/vertxai--CreatorDashboard/pkg/token"
)

// AddCreditsRequestBody 定义了自助加分接口的请求体
type AddCreditsRequestBody struct {
	Amount int    `json:"amount" binding:"required"`
	Reason string `json:"reason"`
}

// AddCredits 处理 POST /api/credits/add
// 数额由服务端校验：必须为正数且不超过配置的单次上限，
// 防止客户端利用该接口给自己发放任意额度的积分。
func AddCredits(c *gin.Context) {
	var body AddCreditsRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	ceiling := config.Cfg.Rewards.SelfServeCeiling
	if body.Amount <= 0 || body.Amount > ceiling {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的积分数额"})
		return
	}

	reason := body.Reason
	if reason == "" {
		reason = "Interaction reward"
	}

	userUUID := c.GetString(token.UserIDKey)
	result, err := ApplyReward(userUUID, body.Amount, reason, TypeInteraction)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "用户不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法增加积分"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Credits added successfully",
		"credits": result.NewBalance,
	})
}

// DailyLogin 处理 POST /api/credits/daily-login
// 同一自然日内重复调用是幂等的：只有第一次会发放奖励。
func DailyLogin(c *gin.Context) {
	userUUID := c.GetString(token.UserIDKey)

	result, err := ClaimDailyBonus(userUUID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "用户不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法发放每日登录奖励"})
		return
	}

	if !result.Granted {
		c.JSON(http.StatusOK, gin.H{
			"message":  "Daily login credit already awarded today",
			"credited": false,
			"credits":  result.NewBalance,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Daily login credit awarded",
		"credited": true,
		"amount":   result.Amount,
		"credits":  result.NewBalance,
	})
}

// GetCreditHistory 处理 GET /api/credits/history
// 返回最近的积分流水（最多30条），按时间倒序排列。
func GetCreditHistory(c *gin.Context) {
	userUUID := c.GetString(token.UserIDKey)

	history, err := GetHistory(userUUID, historyLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法获取积分历史"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

// GetBalanceHandler 处理 GET /api/credits/balance
func GetBalanceHandler(c *gin.Context) {
	userUUID := c.GetString(token.UserIDKey)

	balance, err := GetBalance(userUUID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "用户不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法获取积分余额"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"credits": balance})
}

// GetLeaderboard 处理 GET /api/credits/leaderboard
// 优先从Redis的有序集合读取排名，Redis不可用时回退到SQLite。
func GetLeaderboard(c *gin.Context) {
	entries, err := TopEarners(leaderboardSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法获取积分排行榜"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
