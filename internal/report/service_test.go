package report

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

func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:report_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&Report{}))
	database.DB = db
}

func TestCreateDefaultsToPending(t *testing.T) {
	setupTestDB(t)

	r, err := Create(1, "u1", ReasonSpam, "spam everywhere")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, r.Status)
	assert.Equal(t, ReasonSpam, r.Reason)

	// 空原因回退到inappropriate
	r, err = Create(2, "u1", "", "")
	require.NoError(t, err)
	assert.Equal(t, ReasonInappropriate, r.Reason)
}

func TestCreateRejectsUnknownReason(t *testing.T) {
	setupTestDB(t)

	_, err := Create(1, "u1", Reason("made-up"), "")
	assert.ErrorIs(t, err, ErrInvalidReason)
}

func TestResolveAndDismissTransitions(t *testing.T) {
	setupTestDB(t)

	r1, err := Create(1, "u1", ReasonOffensive, "")
	require.NoError(t, err)
	r2, err := Create(2, "u1", ReasonOther, "")
	require.NoError(t, err)

	resolved, err := Resolve(r1.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, resolved.Status)

	dismissed, err := Dismiss(r2.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDismissed, dismissed.Status)

	// 已处理的举报不能再次流转
	_, err = Resolve(r1.ID)
	assert.ErrorIs(t, err, ErrAlreadyHandled)
	_, err = Dismiss(r1.ID)
	assert.ErrorIs(t, err, ErrAlreadyHandled)

	_, err = Resolve(9999)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestListFiltersByStatus(t *testing.T) {
	setupTestDB(t)

	r1, err := Create(1, "u1", ReasonSpam, "")
	require.NoError(t, err)
	_, err = Create(2, "u2", ReasonSpam, "")
	require.NoError(t, err)

	_, err = Resolve(r1.ID)
	require.NoError(t, err)

	pending, err := List(StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, uint(2), pending[0].PostID)

	all, err := List("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	count, err := CountPending()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
