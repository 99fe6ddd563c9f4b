package credit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/activity"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/config"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// setupTestDB 为每个测试创建一个独立的内存SQLite数据库。
// Redis客户端保持未初始化，所有缓存路径自动降级。
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:credit_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&account{}, &Transaction{}, &activity.Activity{}))
	database.DB = db

	cfg := &config.Config{}
	cfg.Rewards.DailyLogin = 5
	cfg.Rewards.SavePost = 2
	cfg.Rewards.SharePost = 3
	cfg.Rewards.ProfileCompletion = 10
	cfg.Rewards.SelfServeCeiling = 10
	config.Cfg = cfg
}

func seedAccount(t *testing.T, uuid string, credits int) {
	t.Helper()
	require.NoError(t, database.DB.Create(&account{UUID: uuid, Name: "u-" + uuid, Credits: credits}).Error)
}

func TestApplyCreditRecordsBalanceSnapshot(t *testing.T) {
	setupTestDB(t)
	seedAccount(t, "u1", 10)

	result, err := ApplyCredit("u1", 5, "Test credit", TypeOther)
	require.NoError(t, err)
	assert.Equal(t, 15, result.NewBalance)

	var acc account
	require.NoError(t, database.DB.First(&acc, "uuid = ?", "u1").Error)
	assert.Equal(t, 15, acc.Credits)

	var tx Transaction
	require.NoError(t, database.DB.First(&tx, result.TransactionID).Error)
	assert.Equal(t, 5, tx.Amount)
	assert.Equal(t, 15, tx.Balance)
	assert.Equal(t, TypeOther, tx.Type)
	assert.Equal(t, "Test credit", tx.Reason)
}

func TestApplyCreditClampsAtZero(t *testing.T) {
	setupTestDB(t)
	seedAccount(t, "u1", 3)

	result, err := ApplyCredit("u1", -10, "Penalty", TypeAdminAdjustment)
	require.NoError(t, err)
	assert.Equal(t, 0, result.NewBalance)

	var tx Transaction
	require.NoError(t, database.DB.First(&tx, result.TransactionID).Error)
	// 流水记录请求的数额，但余额快照是截断后的持久化值
	assert.Equal(t, -10, tx.Amount)
	assert.Equal(t, 0, tx.Balance)
}

func TestApplyCreditRejectsZeroAmount(t *testing.T) {
	setupTestDB(t)
	seedAccount(t, "u1", 10)

	_, err := ApplyCredit("u1", 0, "", TypeOther)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	var count int64
	require.NoError(t, database.DB.Model(&Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestApplyCreditUnknownUser(t *testing.T) {
	setupTestDB(t)

	_, err := ApplyCredit("ghost", 5, "", TypeOther)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestApplyCreditDefaultReason(t *testing.T) {
	setupTestDB(t)
	seedAccount(t, "u1", 0)

	result, err := ApplyCredit("u1", 1, "", TypeOther)
	require.NoError(t, err)

	var tx Transaction
	require.NoError(t, database.DB.First(&tx, result.TransactionID).Error)
	assert.Equal(t, "Credit adjustment", tx.Reason)
}

func TestApplyRewardRejectsNonPositive(t *testing.T) {
	setupTestDB(t)
	seedAccount(t, "u1", 10)

	_, err := ApplyReward("u1", -5, "Bad reward", TypeInteraction)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ApplyReward("u1", 0, "Bad reward", TypeInteraction)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestConcurrentApplyCreditLosesNoUpdates(t *testing.T) {
	setupTestDB(t)
	seedAccount(t, "u1", 100)

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := ApplyCredit("u1", 1, "Concurrent credit", TypeOther)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var acc account
	require.NoError(t, database.DB.First(&acc, "uuid = ?", "u1").Error)
	assert.Equal(t, 100+workers, acc.Credits)

	// 每笔流水的余额快照必须各不相同且覆盖101..120
	var txs []Transaction
	require.NoError(t, database.DB.Order("balance asc").Find(&txs).Error)
	require.Len(t, txs, workers)
	for i, tx := range txs {
		assert.Equal(t, 101+i, tx.Balance)
	}
}

func TestLedgerReplayReconstructsBalance(t *testing.T) {
	setupTestDB(t)
	seedAccount(t, "u1", 0)

	amounts := []int{5, -3, 10, -20, 7}
	for _, amount := range amounts {
		_, err := ApplyCredit("u1", amount, "Replay step", TypeOther)
		require.NoError(t, err)
	}

	var txs []Transaction
	require.NoError(t, database.DB.Where("user_uuid = ?", "u1").Order("id asc").Find(&txs).Error)
	require.Len(t, txs, len(amounts))

	// 重放所有流水并逐步截断到0，应还原当前余额，且与每步快照一致
	replayed := 0
	for _, tx := range txs {
		replayed += tx.Amount
		if replayed < 0 {
			replayed = 0
		}
		assert.Equal(t, replayed, tx.Balance)
	}

	var acc account
	require.NoError(t, database.DB.First(&acc, "uuid = ?", "u1").Error)
	assert.Equal(t, replayed, acc.Credits)
}

func TestClaimDailyBonusIsIdempotent(t *testing.T) {
	setupTestDB(t)
	seedAccount(t, "u1", 10)

	first, err := ClaimDailyBonus("u1")
	require.NoError(t, err)
	assert.True(t, first.Granted)
	assert.Equal(t, 5, first.Amount)
	assert.Equal(t, 15, first.NewBalance)

	second, err := ClaimDailyBonus("u1")
	require.NoError(t, err)
	assert.False(t, second.Granted)
	assert.Zero(t, second.Amount)
	assert.Equal(t, 15, second.NewBalance)

	var count int64
	require.NoError(t, database.DB.Model(&Transaction{}).Where("type = ?", TypeDailyLogin).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestClaimDailyBonusUnknownUser(t *testing.T) {
	setupTestDB(t)

	_, err := ClaimDailyBonus("ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestClaimDailyBonusConcurrentSingleGrant(t *testing.T) {
	setupTestDB(t)
	seedAccount(t, "u1", 0)

	const workers = 10
	var granted int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			result, err := ClaimDailyBonus("u1")
			if assert.NoError(t, err) && result.Granted {
				atomic.AddInt64(&granted, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), granted)

	var acc account
	require.NoError(t, database.DB.First(&acc, "uuid = ?", "u1").Error)
	assert.Equal(t, 5, acc.Credits)
}

func TestResetDailyLoginFlagsAllowsNewClaim(t *testing.T) {
	setupTestDB(t)
	seedAccount(t, "u1", 0)
	seedAccount(t, "u2", 0)

	_, err := ClaimDailyBonus("u1")
	require.NoError(t, err)
	_, err = ClaimDailyBonus("u2")
	require.NoError(t, err)

	require.NoError(t, ResetDailyLoginFlags())

	result, err := ClaimDailyBonus("u1")
	require.NoError(t, err)
	assert.True(t, result.Granted)
	assert.Equal(t, 10, result.NewBalance)
}

func TestGetHistoryNewestFirstCappedAtThirty(t *testing.T) {
	setupTestDB(t)
	seedAccount(t, "u1", 0)

	for i := 0; i < 35; i++ {
		_, err := ApplyCredit("u1", 1, fmt.Sprintf("Step %d", i), TypeOther)
		require.NoError(t, err)
	}

	history, err := GetHistory("u1", 100)
	require.NoError(t, err)
	require.Len(t, history, 30)

	// 最新的流水排在最前：余额快照从35递减
	for i, tx := range history {
		assert.Equal(t, 35-i, tx.Balance)
	}
}

func TestGetBalance(t *testing.T) {
	setupTestDB(t)
	seedAccount(t, "u1", 42)

	balance, err := GetBalance("u1")
	require.NoError(t, err)
	assert.Equal(t, 42, balance)

	_, err = GetBalance("ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestTopEarnersFallsBackToSQLite(t *testing.T) {
	setupTestDB(t)
	seedAccount(t, "u1", 30)
	seedAccount(t, "u2", 50)
	seedAccount(t, "u3", 10)

	entries, err := TopEarners(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "u2", entries[0].UserUUID)
	assert.Equal(t, 50, entries[0].Credits)
	assert.Equal(t, "u1", entries[1].UserUUID)
}
