package post

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/activity"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/credit"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/config"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/database"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/report"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// post模块的错误类型
var (
	// ErrInvalidPost 表示客户端提交的内容数据不完整
	ErrInvalidPost = errors.New("内容数据不完整")
	// ErrAlreadySaved 表示该内容已经被当前用户收藏过
	ErrAlreadySaved = errors.New("内容已收藏")
)

// PostInput 是客户端在收藏、分享、举报时提交的内容数据。
// 信息流内容不会预先落库，所以这些操作需要带上完整的内容。
type PostInput struct {
	ID       string `json:"id" binding:"required"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Source   Source `json:"source"`
	Author   string `json:"author"`
	ImageURL string `json:"imageUrl"`
	Likes    int    `json:"likes"`
	Comments int    `json:"comments"`
}

// GetFeed 组装信息流并标记当前用户已收藏的条目。
// source可以是all、twitter或reddit；其他取值按all处理。
// 单个来源的内容（不含个人标记）在Redis中短暂缓存。
func GetFeed(userUUID, source string) ([]FeedItem, error) {
	source = strings.ToLower(source)

	var items []FeedItem
	if source == string(SourceTwitter) || source == string(SourceReddit) {
		items = feedFromSource(Source(source))
	} else {
		items = append(feedFromSource(SourceTwitter), feedFromSource(SourceReddit)...)
	}

	if err := markSaved(userUUID, items); err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// feedFromSource 返回单个来源的信息流，优先走Redis缓存。
func feedFromSource(source Source) []FeedItem {
	if database.IsRedisHealthy() {
		if items, ok := getFeedCache(source); ok {
			return items
		}
	}

	var items []FeedItem
	switch source {
	case SourceTwitter:
		items = fetchTwitterItems()
	case SourceReddit:
		items = fetchRedditItems()
	default:
		return nil
	}

	if database.IsRedisHealthy() {
		setFeedCache(source, items)
	}
	return items
}

// markSaved 为信息流条目回填当前用户的收藏标记。
// 只有已经落库的内容才可能被收藏过。
func markSaved(userUUID string, items []FeedItem) error {
	if len(items) == 0 {
		return nil
	}

	originalIDs := make([]string, 0, len(items))
	for _, item := range items {
		originalIDs = append(originalIDs, item.ID)
	}

	var posts []Post
	err := database.DB.Where("original_id IN ?", originalIDs).Find(&posts).Error
	if err != nil {
		return fmt.Errorf("无法从SQLite查询已落库的内容: %w", err)
	}
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]uint, 0, len(posts))
	// key: source + "\x00" + originalID -> posts表主键
	byOriginal := make(map[string]uint, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		byOriginal[string(p.Source)+"\x00"+p.OriginalID] = p.ID
	}

	var saves []SavedPost
	err = database.DB.Where("user_uuid = ? AND post_id IN ?", userUUID, postIDs).Find(&saves).Error
	if err != nil {
		return fmt.Errorf("无法从SQLite查询收藏记录: %w", err)
	}
	savedIDs := make(map[uint]bool, len(saves))
	for _, s := range saves {
		savedIDs[s.PostID] = true
	}

	for i := range items {
		if postID, ok := byOriginal[string(items[i].Source)+"\x00"+items[i].ID]; ok {
			items[i].Saved = savedIDs[postID]
		}
	}
	return nil
}

// upsertPost 按(source, original_id)查找或创建内容记录。
func upsertPost(tx *gorm.DB, input PostInput) (*Post, error) {
	if input.ID == "" || input.Title == "" {
		return nil, ErrInvalidPost
	}
	source := input.Source
	if source != SourceTwitter && source != SourceReddit {
		source = SourceOther
	}

	p := Post{
		Title:      input.Title,
		Content:    input.Content,
		Source:     source,
		OriginalID: input.ID,
		Author:     input.Author,
		ImageURL:   input.ImageURL,
		Likes:      input.Likes,
		Comments:   input.Comments,
	}
	err := tx.Where("source = ? AND original_id = ?", source, input.ID).
		FirstOrCreate(&p).Error
	if err != nil {
		return nil, fmt.Errorf("无法在SQLite中查找或创建内容: %w", err)
	}
	return &p, nil
}

// Save 收藏一条内容。
// 内容首次被收藏时落库；(user, post)唯一索引保证重复收藏不会产生第二条记录，
// 也不会重复发放奖励。收藏成功后记录活动并发放互动奖励。
func Save(userUUID string, input PostInput) (*Post, error) {
	var p *Post
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		p, err = upsertPost(tx, input)
		if err != nil {
			return err
		}

		var existing SavedPost
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_uuid = ? AND post_id = ?", userUUID, p.ID).
			First(&existing).Error
		if err == nil {
			return ErrAlreadySaved
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("无法查询收藏记录: %w", err)
		}

		if err := tx.Create(&SavedPost{UserUUID: userUUID, PostID: p.ID}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadySaved
			}
			return fmt.Errorf("无法创建收藏记录: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 活动与奖励在事务提交后执行，失败不回滚收藏本身
	activity.Record(userUUID, activity.TypePostSave, map[string]interface{}{
		"postId": p.ID,
		"title":  p.Title,
	})
	_, err = credit.ApplyReward(userUUID, config.Cfg.Rewards.SavePost, "Saved content", credit.TypeInteraction)
	if err != nil {
		fmt.Printf("警告: 发放收藏奖励失败 (用户 %s): %v\n", userUUID, err)
	}

	return p, nil
}

// GetSaved 返回用户的收藏列表，按收藏时间倒序。
func GetSaved(userUUID string) ([]SavedPostView, error) {
	var saves []SavedPost
	err := database.DB.Where("user_uuid = ?", userUUID).
		Order("created_at desc, id desc").
		Find(&saves).Error
	if err != nil {
		return nil, fmt.Errorf("无法从SQLite读取收藏记录: %w", err)
	}
	if len(saves) == 0 {
		return []SavedPostView{}, nil
	}

	postIDs := make([]uint, 0, len(saves))
	for _, s := range saves {
		postIDs = append(postIDs, s.PostID)
	}
	var posts []Post
	if err := database.DB.Where("id IN ?", postIDs).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("无法从SQLite读取收藏的内容: %w", err)
	}
	byID := make(map[uint]Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}

	views := make([]SavedPostView, 0, len(saves))
	for _, s := range saves {
		p, ok := byID[s.PostID]
		if !ok {
			continue
		}
		views = append(views, SavedPostView{
			ID:      p.ID,
			Title:   p.Title,
			Source:  p.Source,
			Author:  p.Author,
			SavedAt: s.CreatedAt,
		})
	}
	return views, nil
}

// Share 分享一条内容。
// 分享不要求内容已被收藏；内容未落库时先落库。
// 分享是可重复的动作，每次都记录活动并发放奖励。
func Share(userUUID string, input PostInput) (*Post, error) {
	var p *Post
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		p, err = upsertPost(tx, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	activity.Record(userUUID, activity.TypePostShare, map[string]interface{}{
		"postId": p.ID,
	})
	_, err = credit.ApplyReward(userUUID, config.Cfg.Rewards.SharePost, "Shared content", credit.TypeInteraction)
	if err != nil {
		fmt.Printf("警告: 发放分享奖励失败 (用户 %s): %v\n", userUUID, err)
	}

	return p, nil
}

// Report 举报一条内容。
// 举报会记录活动，但不发放任何积分奖励。
func Report(userUUID string, input PostInput, reason report.Reason, description string) (*report.Report, error) {
	var p *Post
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		p, err = upsertPost(tx, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	r, err := report.Create(p.ID, userUUID, reason, description)
	if err != nil {
		return nil, err
	}

	activity.Record(userUUID, activity.TypePostReport, map[string]interface{}{
		"postId": p.ID,
		"reason": string(r.Reason),
	})

	return r, nil
}
