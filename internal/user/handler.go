package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vishnuu5/vertxai--CreatorDashboard/pkg/token"
)

// RegisterRequestBody 定义了注册接口的请求体
type RegisterRequestBody struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequestBody 定义了登录接口的请求体
type LoginRequestBody struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequestBody 定义了修改密码接口的请求体
type ChangePasswordRequestBody struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// RegisterHandler 处理 POST /api/auth/register
func RegisterHandler(c *gin.Context) {
	var body RegisterRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	profile, err := Register(body.Name, body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "该邮箱已被注册"})
		case errors.Is(err, ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "注册失败"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    profile,
	})
}

// LoginHandler 处理 POST /api/auth/login
func LoginHandler(c *gin.Context) {
	var body LoginRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	signed, profile, err := Login(body.Email, body.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "邮箱或密码错误"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "登录失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": signed,
		"user":  profile,
	})
}

// GetMe 处理 GET /api/users/me
func GetMe(c *gin.Context) {
	profile, err := GetProfile(c.GetString(token.UserIDKey))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "用户不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法获取用户资料"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfileHandler 处理 PUT /api/users/profile
// 首次同时填写bio和location会触发一次性的完善资料奖励。
func UpdateProfileHandler(c *gin.Context) {
	var update ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	profile, err := UpdateProfile(c.GetString(token.UserIDKey), update)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "用户不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法更新用户资料"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    profile,
	})
}

// ChangePasswordHandler 处理 PUT /api/users/password
func ChangePasswordHandler(c *gin.Context) {
	var body ChangePasswordRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	err := ChangePassword(c.GetString(token.UserIDKey), body.CurrentPassword, body.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "当前密码错误"})
		case errors.Is(err, ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "用户不存在"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "无法修改密码"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// DeleteAccountHandler 处理 DELETE /api/users/me
// 账号软删除后，积分流水和活动记录仍然保留以备审计。
func DeleteAccountHandler(c *gin.Context) {
	err := DeleteAccount(c.GetString(token.UserIDKey))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "用户不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法注销账号"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
