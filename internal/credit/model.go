package credit

import (
	"gorm.io/gorm"
)

// TransactionType 定义了积分流水的业务类别枚举
type TransactionType string

const (
	// TypeDailyLogin 表示每日登录奖励
	TypeDailyLogin TransactionType = "daily_login"
	// TypeProfileCompletion 表示一次性的完善资料奖励
	TypeProfileCompletion TransactionType = "profile_completion"
	// TypeInteraction 表示内容互动奖励（收藏、分享等）
	TypeInteraction TransactionType = "interaction"
	// TypeAdminAdjustment 表示管理员的手工调整，金额可以为负
	TypeAdminAdjustment TransactionType = "admin_adjustment"
	// TypeOther 表示其他来源
	TypeOther TransactionType = "other"
)

// Transaction 定义了单条积分流水的数据结构。
// 流水只由记账入口创建，永远不会被更新或删除；
// 按创建顺序重放所有Amount并逐步截断到0，必须能精确还原账户当前余额。
type Transaction struct {
	gorm.Model

	// UserUUID 是流水所属用户
	UserUUID string `gorm:"index;type:varchar(36);not null" json:"user"`

	// Amount 是本次变更的有符号数额
	Amount int `gorm:"not null" json:"amount"`

	// Balance 是本次变更落库之后的余额快照。
	// 它存的是实际持久化的（可能被截断到0的）值，而不是简单的旧余额+Amount。
	Balance int `gorm:"not null" json:"balance"`

	// Type 是流水的业务类别
	Type TransactionType `gorm:"type:varchar(32);not null" json:"type"`

	// Reason 是人类可读的变更原因
	Reason string `gorm:"not null" json:"reason"`
}

// account 是users表的最小投影，只包含记账需要的列。
// credit模块通过它读写余额和每日奖励标志，避免依赖user模块本身。
type account struct {
	UUID               string `gorm:"primarykey;type:varchar(36)"`
	Name               string
	Credits            int
	DailyLoginCredited bool
	DeletedAt          gorm.DeletedAt
}

// TableName 将投影映射到user模块管理的users表
func (account) TableName() string {
	return "users"
}
