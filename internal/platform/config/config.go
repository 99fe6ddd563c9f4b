package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 是一个全局变量，用于存储所有应用程序的配置
var Cfg *Config

// Config 结构体定义了应用程序的所有配置项
// 它与 config.yaml 文件的结构完全对应
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Rewards   RewardsConfig   `mapstructure:"rewards"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// ServerConfig 定义了服务器相关的配置
type ServerConfig struct {
	Mode    string     `mapstructure:"mode"`
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了数据库和缓存相关的配置
type DatabaseConfig struct {
	Redis  RedisConfig  `mapstructure:"redis"`
	Sqlite SqliteConfig `mapstructure:"sqlite"`
}

// RedisConfig 定义了Redis的配置
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SqliteConfig 定义了SQLite的配置
type SqliteConfig struct {
	Path string `mapstructure:"path"`
}

// AuthConfig 定义了登录令牌相关的配置
type AuthConfig struct {
	// TokenTTLHours 是签发的Bearer令牌的有效期（小时）
	TokenTTLHours int `mapstructure:"tokenTTLHours"`
}

// RewardsConfig 定义了所有积分奖励的额度。
// 奖励额度全部由服务端决定，客户端永远无法指定自己的奖励数额。
type RewardsConfig struct {
	DailyLogin        int `mapstructure:"dailyLogin"`
	SavePost          int `mapstructure:"savePost"`
	SharePost         int `mapstructure:"sharePost"`
	ProfileCompletion int `mapstructure:"profileCompletion"`

	// SelfServeCeiling 是自助加分接口单次允许的最大数额，
	// 用于封顶客户端提交的amount字段。
	SelfServeCeiling int `mapstructure:"selfServeCeiling"`
}

// SchedulerConfig 定义了后台定时任务的配置
type SchedulerConfig struct {
	// Timezone 是每日重置任务参照的时区，例如 "Asia/Shanghai"
	Timezone string `mapstructure:"timezone"`

	// DailyResetSpec 是每日登录奖励标志重置任务的cron表达式
	DailyResetSpec string `mapstructure:"dailyResetSpec"`
}

// setDefaults 为所有配置项设置默认值，
// 使得在没有config.yaml的环境（例如本地开发和测试）中也能直接启动。
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.cors.allowedOrigins", []string{"http://localhost:3000"})

	v.SetDefault("database.sqlite.path", "dashboard.db")
	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)

	v.SetDefault("auth.tokenTTLHours", 24*30)

	v.SetDefault("rewards.dailyLogin", 5)
	v.SetDefault("rewards.savePost", 2)
	v.SetDefault("rewards.sharePost", 3)
	v.SetDefault("rewards.profileCompletion", 10)
	v.SetDefault("rewards.selfServeCeiling", 10)

	v.SetDefault("scheduler.timezone", "Local")
	v.SetDefault("scheduler.dailyResetSpec", "0 0 * * *")
}

// LoadConfig 函数负责查找、加载和解析配置文件
// 它会在指定的路径中查找名为 config.yaml 的文件
func LoadConfig() (*Config, error) {
	v := viper.New()

	// 1. 设置配置文件名和类型
	v.SetConfigName("config") // 文件名 (不带扩展名)
	v.SetConfigType("yaml")   // 文件类型

	// 2. 添加配置文件搜索路径
	// 可以添加多个路径，Viper会按顺序查找
	v.AddConfigPath("./config") // `config/config.yaml`
	v.AddConfigPath(".")        // `./config.yaml` (如果在根目录)

	// 3. 设置环境变量支持
	// 允许通过环境变量覆盖配置，例如 SERVER_ADDRESS=:8888
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// 4. 读取配置文件；文件缺失时使用默认值，其他错误仍然上抛
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// 5. 将配置反序列化到结构体中
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// 6. 将加载的配置赋值给全局变量
	Cfg = &cfg

	return Cfg, nil
}
