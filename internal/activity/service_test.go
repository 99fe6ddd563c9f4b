package activity

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// setupTestDB 为每个测试创建一个独立的内存SQLite数据库。
// Redis客户端保持未初始化，缓存路径自动降级到SQLite。
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:activity_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&Activity{}))
	database.DB = db
}

func TestRecordAppendsRow(t *testing.T) {
	setupTestDB(t)

	Record("u1", TypeLogin, nil)
	Record("u1", TypePostSave, map[string]interface{}{"postId": 1, "title": "Hello"})

	var rows []Activity
	require.NoError(t, database.DB.Order("id asc").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, TypeLogin, rows[0].Type)
	assert.Empty(t, rows[0].Data)
	assert.Equal(t, TypePostSave, rows[1].Type)
	assert.Contains(t, rows[1].Data, "Hello")
}

func TestDescribeRendersKnownTypes(t *testing.T) {
	cases := []struct {
		name     string
		activity Activity
		want     string
	}{
		{"login", Activity{Type: TypeLogin}, "You logged in"},
		{"save with title", Activity{Type: TypePostSave, Data: `{"title":"Go tips"}`}, "You saved a post: Go tips"},
		{"save without title", Activity{Type: TypePostSave}, "You saved a post: Untitled"},
		{"share", Activity{Type: TypePostShare}, "You shared a post"},
		{"report", Activity{Type: TypePostReport, Data: `{"reason":"spam"}`}, "You reported a post"},
		{"credit earned", Activity{Type: TypeCreditEarned, Data: `{"amount":5,"reason":"Daily login"}`}, "You earned 5 credits: Daily login"},
		{"profile update", Activity{Type: TypeProfileUpdate}, "You updated your profile"},
		{"unknown type", Activity{Type: ActivityType("mystery")}, "Activity recorded"},
		{"corrupt data", Activity{Type: TypePostSave, Data: `{not json`}, "You saved a post: Untitled"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, describe(&tc.activity))
		})
	}
}

func TestGetRecentNewestFirstWithLimit(t *testing.T) {
	setupTestDB(t)

	for i := 0; i < 15; i++ {
		Record("u1", TypeLogin, nil)
	}
	Record("u2", TypePostShare, nil)

	entries, err := GetRecent("u1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 10)

	// 只包含u1自己的记录，且最新的排最前
	for i := 1; i < len(entries); i++ {
		assert.GreaterOrEqual(t, entries[i-1].ID, entries[i].ID)
	}
	for _, e := range entries {
		assert.Equal(t, "You logged in", e.Description)
	}
}

func TestGetRecentEmpty(t *testing.T) {
	setupTestDB(t)

	entries, err := GetRecent("nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
