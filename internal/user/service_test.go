package user

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/activity"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/credit"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/config"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/database"
	"github.com/vishnuu5/vertxai--CreatorDashboard/pkg/token"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// setupTestDB 为每个测试创建一个独立的内存SQLite数据库，
// 并准备好令牌密钥与配置。Redis保持未初始化。
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:user_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&User{}, &credit.Transaction{}, &activity.Activity{}))
	database.DB = db

	token.GenerateSecretKey()

	cfg := &config.Config{}
	cfg.Auth.TokenTTLHours = 24
	cfg.Rewards.DailyLogin = 5
	cfg.Rewards.SavePost = 2
	cfg.Rewards.SharePost = 3
	cfg.Rewards.ProfileCompletion = 10
	cfg.Rewards.SelfServeCeiling = 10
	config.Cfg = cfg
}

func registerTestUser(t *testing.T) *Profile {
	t.Helper()
	profile, err := Register("Alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	return profile
}

func TestRegisterValidation(t *testing.T) {
	setupTestDB(t)

	cases := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"missing name", "", "a@b.com", "secret123"},
		{"missing email", "Alice", "", "secret123"},
		{"bad email", "Alice", "not-an-email", "secret123"},
		{"short password", "Alice", "a@b.com", "12345"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Register(tc.userName, tc.email, tc.password)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRegisterNewUserDefaults(t *testing.T) {
	setupTestDB(t)

	profile := registerTestUser(t)
	assert.NotEmpty(t, profile.UUID)
	assert.Equal(t, "Alice", profile.Name)
	assert.Equal(t, RoleUser, profile.Role)
	assert.Zero(t, profile.Credits)
	assert.False(t, profile.ProfileCompleted)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setupTestDB(t)
	registerTestUser(t)

	_, err := Register("Bob", "alice@example.com", "secret456")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginIssuesValidToken(t *testing.T) {
	setupTestDB(t)
	profile := registerTestUser(t)

	signed, loggedIn, err := Login("alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, profile.UUID, loggedIn.UUID)

	uuid, err := token.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, profile.UUID, uuid)

	// 登录会追加一条login活动
	var count int64
	require.NoError(t, database.DB.Model(&activity.Activity{}).
		Where("user_uuid = ? AND type = ?", profile.UUID, activity.TypeLogin).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	setupTestDB(t)
	registerTestUser(t)

	_, _, err := Login("alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = Login("nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfileCompletionAwardedOnce(t *testing.T) {
	setupTestDB(t)
	profile := registerTestUser(t)

	bio := "Indie creator"
	location := "Berlin"
	updated, err := UpdateProfile(profile.UUID, ProfileUpdate{Bio: &bio, Location: &location})
	require.NoError(t, err)
	assert.True(t, updated.ProfileCompleted)
	assert.Equal(t, 10, updated.Credits)

	// 再次更新资料不会再发奖励
	newBio := "Indie creator and writer"
	updated, err = UpdateProfile(profile.UUID, ProfileUpdate{Bio: &newBio})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Credits)

	var count int64
	require.NoError(t, database.DB.Model(&credit.Transaction{}).
		Where("type = ?", credit.TypeProfileCompletion).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateProfilePartialDoesNotComplete(t *testing.T) {
	setupTestDB(t)
	profile := registerTestUser(t)

	bio := "Only a bio"
	updated, err := UpdateProfile(profile.UUID, ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.False(t, updated.ProfileCompleted)
	assert.Zero(t, updated.Credits)
}

func TestUpdateProfileMergesSocialLinks(t *testing.T) {
	setupTestDB(t)
	profile := registerTestUser(t)

	_, err := UpdateProfile(profile.UUID, ProfileUpdate{
		SocialLinks: map[string]string{"twitter": "https://twitter.com/alice"},
	})
	require.NoError(t, err)

	updated, err := UpdateProfile(profile.UUID, ProfileUpdate{
		SocialLinks: map[string]string{"github": "https://github.com/alice"},
	})
	require.NoError(t, err)

	assert.Equal(t, "https://twitter.com/alice", updated.SocialLinks["twitter"])
	assert.Equal(t, "https://github.com/alice", updated.SocialLinks["github"])
}

func TestChangePassword(t *testing.T) {
	setupTestDB(t)
	profile := registerTestUser(t)

	err := ChangePassword(profile.UUID, "wrong", "newsecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = ChangePassword(profile.UUID, "secret123", "short")
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, ChangePassword(profile.UUID, "secret123", "newsecret"))

	_, _, err = Login("alice@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = Login("alice@example.com", "newsecret")
	assert.NoError(t, err)
}

func TestDeleteAccountKeepsLedger(t *testing.T) {
	setupTestDB(t)
	profile := registerTestUser(t)

	_, err := credit.ApplyCredit(profile.UUID, 5, "Seed credit", credit.TypeOther)
	require.NoError(t, err)

	require.NoError(t, DeleteAccount(profile.UUID))

	_, err = GetByUUID(profile.UUID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// 流水保留用于审计
	var count int64
	require.NoError(t, database.DB.Model(&credit.Transaction{}).
		Where("user_uuid = ?", profile.UUID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	assert.ErrorIs(t, DeleteAccount(profile.UUID), ErrUserNotFound)
}
