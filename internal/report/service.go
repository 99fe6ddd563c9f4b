package report

import (
	"errors"
	"fmt"

	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/database"
	"gorm.io/gorm"
)

// 举报模块的错误类型
var (
	// ErrInvalidReason 表示举报原因不在允许的枚举内
	ErrInvalidReason = errors.New("无效的举报原因")
	// ErrReportNotFound 表示目标举报不存在
	ErrReportNotFound = errors.New("举报不存在")
	// ErrAlreadyHandled 表示举报已经被处理过，状态不能再变更
	ErrAlreadyHandled = errors.New("举报已被处理")
)

// Create 创建一条待处理的举报。
// 空的原因回退到inappropriate，与前端的默认选项保持一致。
func Create(postID uint, reporterUUID string, reason Reason, description string) (*Report, error) {
	if reason == "" {
		reason = ReasonInappropriate
	}
	if !validReason(reason) {
		return nil, ErrInvalidReason
	}

	r := Report{
		PostID:      postID,
		ReportedBy:  reporterUUID,
		Reason:      reason,
		Description: description,
		Status:      StatusPending,
	}
	if err := database.DB.Create(&r).Error; err != nil {
		return nil, fmt.Errorf("无法在SQLite中创建举报: %w", err)
	}
	return &r, nil
}

// List 返回指定状态的举报，按创建时间倒序。
// status为空时返回全部。
func List(status Status) ([]Report, error) {
	query := database.DB.Order("created_at desc, id desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var reports []Report
	if err := query.Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("无法从SQLite读取举报列表: %w", err)
	}
	return reports, nil
}

// CountPending 返回待处理举报的数量，用于管理端的统计面板。
func CountPending() (int64, error) {
	var count int64
	err := database.DB.Model(&Report{}).Where("status = ?", StatusPending).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("无法统计待处理举报数: %w", err)
	}
	return count, nil
}

// Resolve 将一条待处理的举报标记为已处理。
func Resolve(reportID uint) (*Report, error) {
	return transition(reportID, StatusResolved)
}

// Dismiss 驳回一条待处理的举报。
func Dismiss(reportID uint) (*Report, error) {
	return transition(reportID, StatusDismissed)
}

// transition 在事务内完成状态流转，只有pending状态的举报可以被变更。
func transition(reportID uint, target Status) (*Report, error) {
	var r Report
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&r, reportID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReportNotFound
		}
		if err != nil {
			return fmt.Errorf("无法从SQLite读取举报: %w", err)
		}

		if r.Status != StatusPending {
			return ErrAlreadyHandled
		}

		r.Status = target
		if err := tx.Model(&r).Update("status", target).Error; err != nil {
			return fmt.Errorf("无法更新举报状态: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}
