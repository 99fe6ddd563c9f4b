package user

import (
	"time"

	"gorm.io/gorm"
)

// Role 定义了用户的角色枚举类型
type Role string

const (
	// RoleUser 是普通用户，只能操作自己的数据
	RoleUser Role = "user"
	// RoleAdmin 是管理员，可以调整任意用户的积分并处理举报
	RoleAdmin Role = "admin"
)

// User 定义了用户在SQLite数据库中的持久化模型。
// 积分余额(Credits)只能通过credit模块的记账入口修改；
// DailyLoginCredited只能由credit模块的领取和重置流程翻转。
type User struct {
	// UUID 是用户的主键，注册时生成
	UUID string `gorm:"primarykey;type:varchar(36)"`

	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	// Role 决定用户能否访问管理员接口
	Role Role `gorm:"type:varchar(16);not null;default:user"`

	// Credits 是当前积分余额，永远不会小于0
	Credits int `gorm:"not null;default:0"`

	// DailyLoginCredited 标记今天是否已经领取过每日登录奖励
	DailyLoginCredited bool `gorm:"not null;default:false"`

	// ProfileCompleted 标记是否已经发放过一次性的完善资料奖励
	ProfileCompleted bool `gorm:"not null;default:false"`

	Bio      string
	Location string

	// SocialLinks 以JSON文本形式存储用户的社交链接集合
	SocialLinks string `gorm:"type:text"`

	// 部分gorm.Model，由GORM自动管理
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Profile 是返回给前端的用户资料视图，不包含任何凭据字段。
type Profile struct {
	UUID             string            `json:"id"`
	Name             string            `json:"name"`
	Email            string            `json:"email"`
	Role             Role              `json:"role"`
	Credits          int               `json:"credits"`
	Bio              string            `json:"bio"`
	Location         string            `json:"location"`
	SocialLinks      map[string]string `json:"socialLinks"`
	ProfileCompleted bool              `json:"profileCompleted"`
	CreatedAt        time.Time         `json:"createdAt"`
}
