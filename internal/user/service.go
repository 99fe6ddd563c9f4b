package user

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/activity"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/credit"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/config"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/database"
	"github.com/vishnuu5/vertxai--CreatorDashboard/pkg/token"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 用户模块的错误类型，handler层负责将它们映射到HTTP状态码
var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailTaken         = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrInvalidInput       = errors.New("请求参数无效")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validateRegistration 校验注册输入的完整性与格式。
func validateRegistration(name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return fmt.Errorf("%w: 缺少必填字段", ErrInvalidInput)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: 邮箱格式不正确", ErrInvalidInput)
	}
	if len(password) < 6 {
		return fmt.Errorf("%w: 密码长度至少为6位", ErrInvalidInput)
	}
	return nil
}

// Register 创建一个新用户。
// 新用户的积分为0，每日奖励标志和资料完善标志均为false。
func Register(name, email, password string) (*Profile, error) {
	if err := validateRegistration(name, email, password); err != nil {
		return nil, err
	}

	var count int64
	if err := database.DB.Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("无法查询邮箱占用情况: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	newUUID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("无法生成UUID v7: %w", err)
	}

	newUser := User{
		UUID:         newUUID.String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         RoleUser,
	}
	if err := database.DB.Create(&newUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("无法在SQLite中创建新用户: %w", err)
	}

	cacheKnownUser(newUser.UUID)

	return profileOf(&newUser), nil
}

// Login 校验凭据并签发Bearer令牌，同时记录一条login活动。
func Login(email, password string) (string, *Profile, error) {
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: 请提供邮箱和密码", ErrInvalidInput)
	}

	var u User
	err := database.DB.Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("无法从SQLite查询用户: %w", err)
	}

	if !checkPassword(password, u.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	// 登录活动只用于展示，记录失败不阻止登录
	activity.Record(u.UUID, activity.TypeLogin, nil)

	ttl := time.Duration(config.Cfg.Auth.TokenTTLHours) * time.Hour
	signed, err := token.Generate(u.UUID, ttl)
	if err != nil {
		return "", nil, err
	}
	return signed, profileOf(&u), nil
}

// GetByUUID 返回一个用户的完整持久化记录。
func GetByUUID(uuidStr string) (*User, error) {
	var u User
	err := database.DB.Where("uuid = ?", uuidStr).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("无法从SQLite查询用户: %w", err)
	}
	return &u, nil
}

// GetProfile 返回一个用户的资料视图。
func GetProfile(uuidStr string) (*Profile, error) {
	u, err := GetByUUID(uuidStr)
	if err != nil {
		return nil, err
	}
	return profileOf(u), nil
}

// ProfileUpdate 是资料更新入口接受的字段集合。
// 指针字段区分“未提供”和“清空”。
type ProfileUpdate struct {
	Name        *string           `json:"name"`
	Bio         *string           `json:"bio"`
	Location    *string           `json:"location"`
	SocialLinks map[string]string `json:"socialLinks"`
}

// UpdateProfile 更新用户资料。
// 当bio和location首次同时非空时，资料被视为完善，
// 在同一事务内翻转ProfileCompleted标志（保证奖励只发一次），
// 事务提交后发放一次性的完善资料奖励并记录活动。
func UpdateProfile(uuidStr string, update ProfileUpdate) (*Profile, error) {
	firstCompletion := false

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var u User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("uuid = ?", uuidStr).First(&u).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("无法从SQLite查询用户: %w", err)
		}

		if update.Name != nil && *update.Name != "" {
			u.Name = *update.Name
		}
		if update.Bio != nil {
			u.Bio = *update.Bio
		}
		if update.Location != nil {
			u.Location = *update.Location
		}
		if update.SocialLinks != nil {
			merged := parseSocialLinks(u.SocialLinks)
			for k, v := range update.SocialLinks {
				merged[k] = v
			}
			data, _ := json.Marshal(merged)
			u.SocialLinks = string(data)
		}

		// 只有第一次同时填写了bio和location才算完善资料
		if !u.ProfileCompleted && u.Bio != "" && u.Location != "" {
			u.ProfileCompleted = true
			firstCompletion = true
		}

		return tx.Save(&u).Error
	})
	if err != nil {
		return nil, err
	}

	if firstCompletion {
		// 完善资料的奖励额度由服务端配置决定
		_, creditErr := credit.ApplyCredit(uuidStr, config.Cfg.Rewards.ProfileCompletion, "Profile completion", credit.TypeProfileCompletion)
		if creditErr != nil {
			// 标志已经翻转，奖励失败只记录日志，避免重复发放
			fmt.Printf("警告: 完善资料奖励发放失败 (用户 %s): %v\n", uuidStr, creditErr)
		}
	}
	activity.Record(uuidStr, activity.TypeProfileUpdate, nil)

	return GetProfile(uuidStr)
}

// ChangePassword 校验旧密码后更新为新密码。
func ChangePassword(uuidStr, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: 密码长度至少为6位", ErrInvalidInput)
	}

	u, err := GetByUUID(uuidStr)
	if err != nil {
		return err
	}

	if !checkPassword(currentPassword, u.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	return database.DB.Model(&User{}).Where("uuid = ?", uuidStr).Update("password_hash", hash).Error
}

// DeleteAccount 注销一个账号（软删除）。
// 用户的积分流水和活动记录保留在库中用于审计，但账号本身不再可登录。
func DeleteAccount(uuidStr string) error {
	result := database.DB.Where("uuid = ?", uuidStr).Delete(&User{})
	if result.Error != nil {
		return fmt.Errorf("无法删除用户: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	uncacheKnownUser(uuidStr)
	credit.RemoveFromLeaderboard(uuidStr)
	return nil
}

// ListProfiles 返回全部用户的资料视图，按注册时间倒序，供管理端使用。
func ListProfiles() ([]Profile, error) {
	var users []User
	if err := database.DB.Order("created_at desc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("无法从SQLite读取用户列表: %w", err)
	}

	profiles := make([]Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, *profileOf(&users[i]))
	}
	return profiles, nil
}

// CountUsers 返回注册用户总数。
func CountUsers() (int64, error) {
	var count int64
	if err := database.DB.Model(&User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("无法统计用户总数: %w", err)
	}
	return count, nil
}

// SumCredits 返回全站账户余额之和。
func SumCredits() (int64, error) {
	var total int64
	err := database.DB.Model(&User{}).
		Select("COALESCE(SUM(credits), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("无法统计积分总量: %w", err)
	}
	return total, nil
}

// parseSocialLinks 解析存储的社交链接JSON；空值或损坏时返回空map。
func parseSocialLinks(raw string) map[string]string {
	links := make(map[string]string)
	if raw == "" {
		return links
	}
	_ = json.Unmarshal([]byte(raw), &links)
	return links
}

// profileOf 将持久化模型转换为对外的资料视图。
func profileOf(u *User) *Profile {
	return &Profile{
		UUID:             u.UUID,
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role,
		Credits:          u.Credits,
		Bio:              u.Bio,
		Location:         u.Location,
		SocialLinks:      parseSocialLinks(u.SocialLinks),
		ProfileCompleted: u.ProfileCompleted,
		CreatedAt:        u.CreatedAt,
	}
}
