package credit

import (
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/activity"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/config"
	"github.com/vishnuu5/vertxai--CreatorDashboard/internal/platform/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// credit模块的错误类型，handler层负责将它们映射到HTTP状态码
var (
	// ErrInvalidAmount 表示数额为0，或在只允许奖励的入口出现了非正数
	ErrInvalidAmount = errors.New("无效的积分数额")
	// ErrUserNotFound 表示目标账户不存在
	ErrUserNotFound = errors.New("用户不存在")
)

// ledgerMutex 是模块内部的全局写锁。
// 所有余额变更（记账、每日领取）都必须持有它，
// 保证同一账户上的读-改-写序列化，并发请求不会丢失更新。
var ledgerMutex sync.Mutex

// ApplyResult 是一次记账的结果。
type ApplyResult struct {
	// NewBalance 是落库后的余额（可能被截断到0）
	NewBalance int
	// TransactionID 是新建流水的主键
	TransactionID uint
}

// ApplyCredit 是积分变更的唯一入口。
// 它在一个事务内原子地完成：读取并锁定账户行、计算并截断新余额、
// 持久化余额、追加一条余额快照一致的流水。
// 事务提交后追加credit_earned活动并更新排行榜缓存，二者失败都不回滚积分。
func ApplyCredit(userUUID string, amount int, reason string, txType TransactionType) (*ApplyResult, error) {
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	if reason == "" {
		reason = "Credit adjustment"
	}

	ledgerMutex.Lock()
	defer ledgerMutex.Unlock()

	var result ApplyResult
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		r, err := applyCreditTx(tx, userUUID, amount, reason, txType)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	afterApply(userUUID, amount, reason, result.NewBalance)
	return &result, nil
}

// ApplyReward 是只发奖励的记账入口，供各交互场景使用。
// 与ApplyCredit的区别只在于数额必须严格为正。
func ApplyReward(userUUID string, amount int, reason string, txType TransactionType) (*ApplyResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return ApplyCredit(userUUID, amount, reason, txType)
}

// applyCreditTx 在给定事务内执行一次记账。
// 调用方必须持有ledgerMutex。
func applyCreditTx(tx *gorm.DB, userUUID string, amount int, reason string, txType TransactionType) (ApplyResult, error) {
	var acc account
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("uuid = ?", userUUID).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ApplyResult{}, ErrUserNotFound
	}
	if err != nil {
		return ApplyResult{}, fmt.Errorf("无法从SQLite读取账户: %w", err)
	}

	// 余额永远不会为负：超出余额的扣减会停在0
	newBalance := acc.Credits + amount
	if newBalance < 0 {
		newBalance = 0
	}

	if err := tx.Model(&account{}).Where("uuid = ?", userUUID).Update("credits", newBalance).Error; err != nil {
		return ApplyResult{}, fmt.Errorf("无法更新账户余额: %w", err)
	}

	// 流水中的Balance存实际落库的值，而不是acc.Credits+amount
	record := Transaction{
		UserUUID: userUUID,
		Amount:   amount,
		Balance:  newBalance,
		Type:     txType,
		Reason:   reason,
	}
	if err := tx.Create(&record).Error; err != nil {
		return ApplyResult{}, fmt.Errorf("无法追加积分流水: %w", err)
	}

	return ApplyResult{NewBalance: newBalance, TransactionID: record.ID}, nil
}

// afterApply 执行记账提交后的副作用。
// 活动记录和排行榜缓存都不属于记账事务，失败只记录日志。
func afterApply(userUUID string, amount int, reason string, newBalance int) {
	activity.Record(userUUID, activity.TypeCreditEarned, map[string]interface{}{
		"amount":     amount,
		"reason":     reason,
		"newBalance": newBalance,
	})
	updateLeaderboard(userUUID, newBalance)
}

// DailyBonusResult 是一次每日奖励领取的结果。
type DailyBonusResult struct {
	// Granted 表示本次调用是否真的发放了奖励
	Granted bool
	// Amount 是发放的数额；未发放时为0
	Amount int
	// NewBalance 是当前余额
	NewBalance int
}

// ClaimDailyBonus 领取每日登录奖励。
// 领取动作本身是一条条件UPDATE：只有标志位还是false的那一次调用能翻转它，
// 因此同一天内的重复调用是幂等的无副作用操作。
func ClaimDailyBonus(userUUID string) (*DailyBonusResult, error) {
	bonus := config.Cfg.Rewards.DailyLogin

	ledgerMutex.Lock()
	defer ledgerMutex.Unlock()

	var result DailyBonusResult
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// 单条原子的CAS：标志位已置位时RowsAffected为0
		claim := tx.Model(&account{}).
			Where("uuid = ? AND daily_login_credited = ?", userUUID, false).
			Update("daily_login_credited", true)
		if claim.Error != nil {
			return fmt.Errorf("无法更新每日奖励标志: %w", claim.Error)
		}

		if claim.RowsAffected == 0 {
			// 要么今天已经领过，要么账户不存在
			var acc account
			err := tx.Where("uuid = ?", userUUID).First(&acc).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			if err != nil {
				return fmt.Errorf("无法从SQLite读取账户: %w", err)
			}
			result = DailyBonusResult{Granted: false, NewBalance: acc.Credits}
			return nil
		}

		r, err := applyCreditTx(tx, userUUID, bonus, "Daily login reward", TypeDailyLogin)
		if err != nil {
			return err
		}
		result = DailyBonusResult{Granted: true, Amount: bonus, NewBalance: r.NewBalance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Granted {
		afterApply(userUUID, bonus, "Daily login", result.NewBalance)
	}
	return &result, nil
}

// historyLimit 是积分流水查询的最大条数
const historyLimit = 30

// GetHistory 返回一个用户最近的积分流水，按时间倒序，最多30条。
func GetHistory(userUUID string, limit int) ([]Transaction, error) {
	if limit <= 0 || limit > historyLimit {
		limit = historyLimit
	}

	var transactions []Transaction
	err := database.DB.Where("user_uuid = ?", userUUID).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("无法从SQLite读取积分流水: %w", err)
	}
	return transactions, nil
}

// GetBalance 返回一个账户的当前余额。
func GetBalance(userUUID string) (int, error) {
	var acc account
	err := database.DB.Where("uuid = ?", userUUID).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("无法从SQLite读取账户: %w", err)
	}
	return acc.Credits, nil
}

// leaderboardSize 是积分排行榜返回的名次数
const leaderboardSize = 10

// LeaderboardEntry 是排行榜上的一个名次
type LeaderboardEntry struct {
	UserUUID string `json:"user"`
	Name     string `json:"name"`
	Credits  int    `json:"credits"`
}

// TopEarners 返回余额最高的若干账户。
// Redis可用时从排行榜缓存读取名次，再回SQLite补齐用户名；
// Redis不可用时直接对users表排序，结果完全一致只是更慢。
func TopEarners(limit int) ([]LeaderboardEntry, error) {
	if database.IsRedisHealthy() {
		zs, err := topBalances(limit)
		if err == nil {
			return hydrateEntries(zs)
		}
		fmt.Printf("警告: 从Redis读取排行榜失败, 回退到SQLite: %v\n", err)
	}

	var accounts []account
	err := database.DB.Order("credits desc, uuid asc").Limit(limit).Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("无法从SQLite读取排行榜: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(accounts))
	for _, acc := range accounts {
		entries = append(entries, LeaderboardEntry{UserUUID: acc.UUID, Name: acc.Name, Credits: acc.Credits})
	}
	return entries, nil
}

// hydrateEntries 用SQLite里的用户名补全Redis排行榜的名次。
// 排行榜里可能残留刚注销的用户，找不到对应账户的名次会被直接跳过。
func hydrateEntries(zs []redis.Z) ([]LeaderboardEntry, error) {
	uuids := make([]string, 0, len(zs))
	for _, z := range zs {
		if member, ok := z.Member.(string); ok {
			uuids = append(uuids, member)
		}
	}

	var accounts []account
	if err := database.DB.Where("uuid IN ?", uuids).Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("无法从SQLite补全排行榜用户名: %w", err)
	}
	names := make(map[string]string, len(accounts))
	for _, acc := range accounts {
		names[acc.UUID] = acc.Name
	}

	entries := make([]LeaderboardEntry, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		name, ok := names[member]
		if !ok {
			continue
		}
		entries = append(entries, LeaderboardEntry{UserUUID: member, Name: name, Credits: int(z.Score)})
	}
	return entries, nil
}
