package activity

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// ActivityType 定义了活动类型的枚举。
// 新增类型时必须同步更新 describe 中的渲染表。
type ActivityType string

const (
	// TypeLogin 表示用户登录
	TypeLogin ActivityType = "login"
	// TypePostSave 表示用户收藏了一条内容
	TypePostSave ActivityType = "post_save"
	// TypePostShare 表示用户分享了一条内容
	TypePostShare ActivityType = "post_share"
	// TypePostReport 表示用户举报了一条内容
	TypePostReport ActivityType = "post_report"
	// TypeCreditEarned 表示用户获得了积分
	TypeCreditEarned ActivityType = "credit_earned"
	// TypeProfileUpdate 表示用户更新了个人资料
	TypeProfileUpdate ActivityType = "profile_update"
)

// Activity 定义了单条活动记录的数据结构。
// 活动日志只允许追加，永远不会被更新或删除。
type Activity struct {
	gorm.Model

	// UserUUID 是活动所属用户
	UserUUID string `gorm:"index;type:varchar(36);not null" json:"user"`

	// Type 是活动类型
	Type ActivityType `gorm:"type:varchar(32);not null" json:"type"`

	// Data 以JSON文本形式存储与类型相关的附加数据
	Data string `gorm:"type:text" json:"-"`
}

// Entry 是返回给前端的活动视图，带有渲染好的描述文本。
type Entry struct {
	ID          uint         `json:"id"`
	Type        ActivityType `json:"type"`
	Description string       `json:"description"`
	CreatedAt   string       `json:"createdAt"`
}

// payload 解析活动的附加数据；数据为空或损坏时返回空map。
func (a *Activity) payload() map[string]interface{} {
	data := make(map[string]interface{})
	if a.Data == "" {
		return data
	}
	_ = json.Unmarshal([]byte(a.Data), &data)
	return data
}

// describe 将一条活动渲染为人类可读的描述。
// 渲染是type+data上的纯函数；未知类型渲染为通用文本。
func describe(a *Activity) string {
	data := a.payload()

	switch a.Type {
	case TypeLogin:
		return "You logged in"
	case TypePostSave:
		title, _ := data["title"].(string)
		if title == "" {
			title = "Untitled"
		}
		return fmt.Sprintf("You saved a post: %s", title)
	case TypePostShare:
		return "You shared a post"
	case TypePostReport:
		return "You reported a post"
	case TypeCreditEarned:
		amount, ok := data["amount"]
		if !ok {
			amount = 0
		}
		reason, _ := data["reason"].(string)
		return fmt.Sprintf("You earned %v credits: %s", amount, reason)
	case TypeProfileUpdate:
		return "You updated your profile"
	default:
		return "Activity recorded"
	}
}
