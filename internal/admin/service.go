package admin

import (
	"fmt"
	"time"

	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/credit"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/database"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/post"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/report"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/user"
)

// Stats 是管理端统计面板的数据
type Stats struct {
	UserCount     int64 `json:"userCount"`
	TotalCredits  int64 `json:"totalCredits"`
	ReportedPosts int64 `json:"reportedPosts"`
}

// GetStats 汇总管理端统计面板所需的全站数据。
func GetStats() (*Stats, error) {
	userCount, err := user.CountUsers()
	if err != nil {
		return nil, err
	}
	totalCredits, err := user.SumCredits()
	if err != nil {
		return nil, err
	}
	pending, err := report.CountPending()
	if err != nil {
		return nil, err
	}

	return &Stats{
		UserCount:     userCount,
		TotalCredits:  totalCredits,
		ReportedPosts: pending,
	}, nil
}

// AdjustCredits 以管理员身份调整一个账户的余额。
// 数额可以为负；扣减超过余额时账户会被截断到0，流水仍然记录请求的数额。
func AdjustCredits(userUUID string, amount int, reason string) (*credit.ApplyResult, error) {
	if reason == "" {
		reason = "Admin adjustment"
	}
	return credit.ApplyCredit(userUUID, amount, reason, credit.TypeAdminAdjustment)
}

// ReportView 是管理端举报列表的条目，带上被举报的内容和举报者信息。
type ReportView struct {
	ID          uint          `json:"id"`
	Reason      report.Reason `json:"reason"`
	Description string        `json:"description"`
	Status      report.Status `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`

	Post     *post.Post    `json:"post,omitempty"`
	Reporter *ReporterInfo `json:"reportedBy,omitempty"`
}

// ReporterInfo 是举报者的最小信息
type ReporterInfo struct {
	UUID  string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ListPendingReports 返回待处理的举报，并补全内容与举报者信息。
// 内容或举报者已被删除的举报仍然会返回，只是对应字段为空。
func ListPendingReports() ([]ReportView, error) {
	reports, err := report.List(report.StatusPending)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return []ReportView{}, nil
	}

	postIDs := make([]uint, 0, len(reports))
	reporterUUIDs := make([]string, 0, len(reports))
	for _, r := range reports {
		postIDs = append(postIDs, r.PostID)
		reporterUUIDs = append(reporterUUIDs, r.ReportedBy)
	}

	var posts []post.Post
	if err := database.DB.Where("id IN ?", postIDs).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("无法从SQLite读取被举报的内容: %w", err)
	}
	postByID := make(map[uint]post.Post, len(posts))
	for _, p := range posts {
		postByID[p.ID] = p
	}

	var reporters []user.User
	err = database.DB.Where("uuid IN ?", reporterUUIDs).Find(&reporters).Error
	if err != nil {
		return nil, fmt.Errorf("无法从SQLite读取举报者信息: %w", err)
	}
	reporterByUUID := make(map[string]user.User, len(reporters))
	for _, u := range reporters {
		reporterByUUID[u.UUID] = u
	}

	views := make([]ReportView, 0, len(reports))
	for _, r := range reports {
		view := ReportView{
			ID:          r.ID,
			Reason:      r.Reason,
			Description: r.Description,
			Status:      r.Status,
			CreatedAt:   r.CreatedAt,
		}
		if p, ok := postByID[r.PostID]; ok {
			postCopy := p
			view.Post = &postCopy
		}
		if u, ok := reporterByUUID[r.ReportedBy]; ok {
			view.Reporter = &ReporterInfo{UUID: u.UUID, Name: u.Name, Email: u.Email}
		}
		views = append(views, view)
	}
	return views, nil
}
