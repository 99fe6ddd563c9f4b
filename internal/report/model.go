package report

import (
	"gorm.io/gorm"
)

// Reason 定义了举报原因的枚举
type Reason string

const (
	ReasonSpam           Reason = "spam"
	ReasonInappropriate  Reason = "inappropriate"
	ReasonOffensive      Reason = "offensive"
	ReasonMisinformation Reason = "misinformation"
	ReasonOther          Reason = "other"
)

// Status 定义了举报处理状态的枚举
type Status string

const (
	StatusPending   Status = "pending"
	StatusResolved  Status = "resolved"
	StatusDismissed Status = "dismissed"
)

// Report 定义了一条内容举报。
// 举报的创建与处理都不触碰积分账本。
type Report struct {
	gorm.Model

	// PostID 是被举报的内容（posts表的主键）
	PostID uint `gorm:"index;not null" json:"postId"`

	// ReportedBy 是举报者的用户UUID
	ReportedBy string `gorm:"type:varchar(36);not null" json:"reportedBy"`

	Reason      Reason `gorm:"type:varchar(32);not null" json:"reason"`
	Description string `json:"description"`

	// Status 的流转只能是 pending -> resolved 或 pending -> dismissed
	Status Status `gorm:"type:varchar(16);not null;default:pending" json:"status"`
}

// validReason 校验举报原因是否在枚举之内
func validReason(r Reason) bool {
	switch r {
	case ReasonSpam, ReasonInappropriate, ReasonOffensive, ReasonMisinformation, ReasonOther:
		return true
	}
	return false
}
