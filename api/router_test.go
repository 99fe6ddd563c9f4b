package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/activity"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/credit"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/config"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/database"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/user"
	"github.com/vishnuu5/vertxai--CreatorDashboard/pkg/token"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// setupTestRouter 为每个测试创建独立的内存SQLite数据库和完整路由表。
// Redis客户端保持未初始化，鉴权与记账全部走SQLite路径。
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:api_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&user.User{}, &credit.Transaction{}, &activity.Activity{}))
	database.DB = db

	cfg := &config.Config{}
	cfg.Rewards.DailyLogin = 5
	cfg.Rewards.SavePost = 2
	cfg.Rewards.SharePost = 3
	cfg.Rewards.ProfileCompletion = 10
	cfg.Rewards.SelfServeCeiling = 10
	config.Cfg = cfg

	token.GenerateSecretKey()

	r := gin.New()
	SetupRoutes(r)
	return r
}

// seedUser 直接写入一个用户并返回其Bearer令牌。
func seedUser(t *testing.T, uuid string, role user.Role, credits int) string {
	t.Helper()

	u := user.User{
		UUID:         uuid,
		Name:         "User " + uuid,
		Email:        uuid + "@example.com",
		PasswordHash: "x",
		Role:         role,
		Credits:      credits,
	}
	require.NoError(t, database.DB.Create(&u).Error)

	signed, err := token.Generate(uuid, time.Hour)
	require.NoError(t, err)
	return signed
}

func doJSON(r *gin.Engine, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminCreditsRequiresAdminRole(t *testing.T) {
	r := setupTestRouter(t)

	adminToken := seedUser(t, "admin-1", user.RoleAdmin, 0)
	userToken := seedUser(t, "user-1", user.RoleUser, 0)
	seedUser(t, "target-1", user.RoleUser, 100)

	body := gin.H{"userId": "target-1", "amount": 25, "reason": "Bonus"}

	// 普通用户调用管理端接口必须被拒绝，且不能产生任何记账
	w := doJSON(r, http.MethodPost, "/api/admin/credits", userToken, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	balance, err := credit.GetBalance("target-1")
	require.NoError(t, err)
	assert.Equal(t, 100, balance)

	history, err := credit.GetHistory("target-1", 30)
	require.NoError(t, err)
	assert.Empty(t, history)

	// 管理员调用同一接口成功，返回新余额并落一条调整流水
	w = doJSON(r, http.MethodPost, "/api/admin/credits", adminToken, body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message string `json:"message"`
		Credits int    `json:"credits"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Credits updated successfully", resp.Message)
	assert.Equal(t, 125, resp.Credits)

	history, err = credit.GetHistory("target-1", 30)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, credit.TypeAdminAdjustment, history[0].Type)
	assert.Equal(t, 25, history[0].Amount)
	assert.Equal(t, 125, history[0].Balance)
}

func TestAdminRoutesForbiddenForRegularUser(t *testing.T) {
	r := setupTestRouter(t)
	userToken := seedUser(t, "user-2", user.RoleUser, 0)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/admin/stats"},
		{http.MethodGet, "/api/admin/users"},
		{http.MethodGet, "/api/admin/reports"},
		{http.MethodPut, "/api/admin/reports/1/resolve"},
		{http.MethodPut, "/api/admin/reports/1/dismiss"},
	}
	for _, route := range routes {
		w := doJSON(r, route.method, route.path, userToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", route.method, route.path)
	}
}

func TestAdminCreditsRejectsAnonymous(t *testing.T) {
	r := setupTestRouter(t)
	seedUser(t, "target-2", user.RoleUser, 100)

	body := gin.H{"userId": "target-2", "amount": 25}

	w := doJSON(r, http.MethodPost, "/api/admin/credits", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/api/admin/credits", "not-a-token", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	balance, err := credit.GetBalance("target-2")
	require.NoError(t, err)
	assert.Equal(t, 100, balance)
}
