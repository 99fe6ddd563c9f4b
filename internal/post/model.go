package post

import (
	"time"

	"gorm.io/gorm"
)

// Source 定义了内容的来源平台枚举
type Source string

const (
	SourceTwitter Source = "twitter"
	SourceReddit  Source = "reddit"
	SourceOther   Source = "other"
)

// Post 定义了被持久化的内容条目。
// 信息流里的内容只有在用户第一次收藏、分享或举报它时才会落库，
// 之后通过(source, original_id)去重，同一条外部内容只存一份。
type Post struct {
	gorm.Model

	Title   string `gorm:"not null" json:"title"`
	Content string `gorm:"not null" json:"content"`

	// Source 是内容的来源平台
	Source Source `gorm:"type:varchar(16);not null;uniqueIndex:idx_source_original" json:"source"`

	// OriginalID 是内容在来源平台上的标识
	OriginalID string `gorm:"not null;uniqueIndex:idx_source_original" json:"originalId"`

	Author   string `gorm:"not null" json:"author"`
	ImageURL string `json:"imageUrl,omitempty"`
	Likes    int    `gorm:"default:0" json:"likes"`
	Comments int    `gorm:"default:0" json:"comments"`
}

// SavedPost 定义了用户的收藏记录。
// (user_uuid, post_id)上的唯一索引在数据库层面阻止重复收藏。
type SavedPost struct {
	ID        uint      `gorm:"primarykey"`
	UserUUID  string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_post" json:"user"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_user_post" json:"postId"`
	CreatedAt time.Time `json:"savedAt"`
}

// FeedItem 是信息流中的一条内容，尚未落库时以来源平台的ID标识。
type FeedItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Source    Source    `json:"source"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Likes     int       `json:"likes"`
	Comments  int       `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
	Saved     bool      `json:"saved"`
}

// SavedPostView 是收藏列表返回给前端的视图
type SavedPostView struct {
	ID      uint      `json:"id"`
	Title   string    `json:"title"`
	Source  Source    `json:"source"`
	Author  string    `json:"author"`
	SavedAt time.Time `json:"savedAt"`
}
