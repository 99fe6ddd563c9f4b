package post

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/report"
	"github.com/vishnuu5/vertxai--CreatorDashboard/pkg/token"
)

// PostActionRequestBody 是收藏和分享接口共用的请求体
type PostActionRequestBody struct {
	Post PostInput `json:"post" binding:"required"`
}

// ReportRequestBody 是举报接口的请求体
type ReportRequestBody struct {
	Post        PostInput     `json:"post" binding:"required"`
	Reason      report.Reason `json:"reason"`
	Description string        `json:"description"`
}

// GetFeedHandler 处理 GET /api/posts/feed?source=all|twitter|reddit
func GetFeedHandler(c *gin.Context) {
	userUUID := c.GetString(token.UserIDKey)
	source := c.DefaultQuery("source", "all")

	items, err := GetFeed(userUUID, source)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法获取信息流"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// SaveHandler 处理 POST /api/posts/save
func SaveHandler(c *gin.Context) {
	var body PostActionRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	userUUID := c.GetString(token.UserIDKey)
	if _, err := Save(userUUID, body.Post); err != nil {
		switch {
		case errors.Is(err, ErrAlreadySaved):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Post already saved"})
		case errors.Is(err, ErrInvalidPost):
			c.JSON(http.StatusBadRequest, gin.H{"error": "内容数据不完整"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "无法收藏内容"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Post saved successfully"})
}

// GetSavedHandler 处理 GET /api/posts/saved
func GetSavedHandler(c *gin.Context) {
	userUUID := c.GetString(token.UserIDKey)

	views, err := GetSaved(userUUID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法获取收藏列表"})
		return
	}

	c.JSON(http.StatusOK, views)
}

// ShareHandler 处理 POST /api/posts/share
func ShareHandler(c *gin.Context) {
	var body PostActionRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	userUUID := c.GetString(token.UserIDKey)
	if _, err := Share(userUUID, body.Post); err != nil {
		if errors.Is(err, ErrInvalidPost) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "内容数据不完整"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法分享内容"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post shared successfully"})
}

// ReportHandler 处理 POST /api/posts/report
func ReportHandler(c *gin.Context) {
	var body ReportRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	userUUID := c.GetString(token.UserIDKey)
	if _, err := Report(userUUID, body.Post, body.Reason, body.Description); err != nil {
		switch {
		case errors.Is(err, ErrInvalidPost):
			c.JSON(http.StatusBadRequest, gin.H{"error": "内容数据不完整"})
		case errors.Is(err, report.ErrInvalidReason):
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的举报原因"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "无法提交举报"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Post reported successfully"})
}
