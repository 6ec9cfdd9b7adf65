package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// 默认值
const (
	defaultHost           = "0.0.0.0"
	defaultPort           = 1780
	defaultMaxConnections = 10000
	defaultRedisAddr      = "localhost:6379"

	defaultRulesPath       = "configs/rules.yaml"
	defaultRoundSeconds    = 20
	defaultRounds          = 5
	defaultTrailBonus      = 10
	defaultInterRoundPause = 7
	defaultMinTeamPlayers  = 2

	defaultRoomTimeout           = 10 // 分钟
	defaultShutdownTimeout       = 30 // 分钟
	defaultShutdownCheckInterval = 10 // 秒
	defaultRoomCleanupDelay      = 30 // 秒

	defaultRateMaxPerSecond = 10
	defaultRateMaxPerMinute = 100
	defaultBanDuration      = 300 // 秒
	defaultMsgMaxPerSecond  = 30
	defaultChatMaxPerSecond = 2
	defaultChatMaxPerMinute = 30
	defaultChatCooldown     = 10 // 秒
)

// Config 服务端配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Game     GameConfig     `yaml:"game"`
	Security SecurityConfig `yaml:"security"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 游戏配置
type GameConfig struct {
	RulesPath       string `yaml:"rules_path"`        // 技能/情境规则文件
	RoundSeconds    int    `yaml:"round_seconds"`     // 每轮选择时限（秒）
	Rounds          int    `yaml:"rounds"`            // 总轮数
	TrailBonus      int    `yaml:"trail_bonus"`       // 终局结算时每格路径加分
	InterRoundPause int    `yaml:"inter_round_pause"` // 轮间停顿（秒）
	MinTeamPlayers  int    `yaml:"min_team_players"`  // 团队模式最少人数

	RoomTimeout           int `yaml:"room_timeout"`            // 房间等待超时（分钟）
	ShutdownTimeout       int `yaml:"shutdown_timeout"`        // 优雅停机最长等待（分钟）
	ShutdownCheckInterval int `yaml:"shutdown_check_interval"` // 停机检查间隔（秒）
	RoomCleanupDelay      int `yaml:"room_cleanup_delay"`      // 结束后房间保留时长（秒）
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AllowedOrigins []string           `yaml:"allowed_origins"`
	RateLimit      RateLimitConfig    `yaml:"rate_limit"`
	MessageLimit   MessageLimitConfig `yaml:"message_limit"`
	ChatLimit      ChatLimitConfig    `yaml:"chat_limit"`
}

// RateLimitConfig 连接速率限制
type RateLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
	MaxPerMinute int `yaml:"max_per_minute"`
	BanDuration  int `yaml:"ban_duration"` // 秒
}

// MessageLimitConfig 消息速率限制
type MessageLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
}

// ChatLimitConfig 聊天速率限制
type ChatLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
	MaxPerMinute int `yaml:"max_per_minute"`
	Cooldown     int `yaml:"cooldown"` // 秒
}

// RoundDuration 返回每轮选择时长
func (c *GameConfig) RoundDuration() time.Duration {
	return time.Duration(c.RoundSeconds) * time.Second
}

// InterRoundPauseDuration 返回轮间停顿时长
func (c *GameConfig) InterRoundPauseDuration() time.Duration {
	return time.Duration(c.InterRoundPause) * time.Second
}

// RoomTimeoutDuration 返回房间等待超时时长
func (c *GameConfig) RoomTimeoutDuration() time.Duration {
	return time.Duration(c.RoomTimeout) * time.Minute
}

// ShutdownTimeoutDuration 返回优雅停机最长等待时长
func (c *GameConfig) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Minute
}

// ShutdownCheckIntervalDuration 返回停机检查间隔
func (c *GameConfig) ShutdownCheckIntervalDuration() time.Duration {
	return time.Duration(c.ShutdownCheckInterval) * time.Second
}

// RoomCleanupDelayDuration 返回结束后房间保留时长
func (c *GameConfig) RoomCleanupDelayDuration() time.Duration {
	return time.Duration(c.RoomCleanupDelay) * time.Second
}

// BanDurationTime 返回封禁时长
func (c *RateLimitConfig) BanDurationTime() time.Duration {
	return time.Duration(c.BanDuration) * time.Second
}

// CooldownDuration 返回聊天冷却时长
func (c *ChatLimitConfig) CooldownDuration() time.Duration {
	return time.Duration(c.Cooldown) * time.Second
}

// Load 加载配置文件，再用环境变量覆盖
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	loadFromEnv(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = defaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}
	if cfg.Server.MaxConnections == 0 {
		cfg.Server.MaxConnections = defaultMaxConnections
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = defaultRedisAddr
	}
	if cfg.Game.RulesPath == "" {
		cfg.Game.RulesPath = defaultRulesPath
	}
	if cfg.Game.RoundSeconds == 0 {
		cfg.Game.RoundSeconds = defaultRoundSeconds
	}
	if cfg.Game.Rounds == 0 {
		cfg.Game.Rounds = defaultRounds
	}
	if cfg.Game.TrailBonus == 0 {
		cfg.Game.TrailBonus = defaultTrailBonus
	}
	if cfg.Game.InterRoundPause == 0 {
		cfg.Game.InterRoundPause = defaultInterRoundPause
	}
	if cfg.Game.MinTeamPlayers == 0 {
		cfg.Game.MinTeamPlayers = defaultMinTeamPlayers
	}
	if cfg.Game.RoomTimeout == 0 {
		cfg.Game.RoomTimeout = defaultRoomTimeout
	}
	if cfg.Game.ShutdownTimeout == 0 {
		cfg.Game.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.Game.ShutdownCheckInterval == 0 {
		cfg.Game.ShutdownCheckInterval = defaultShutdownCheckInterval
	}
	if cfg.Game.RoomCleanupDelay == 0 {
		cfg.Game.RoomCleanupDelay = defaultRoomCleanupDelay
	}
	if len(cfg.Security.AllowedOrigins) == 0 {
		cfg.Security.AllowedOrigins = []string{"*"}
	}
	if cfg.Security.RateLimit.MaxPerSecond == 0 {
		cfg.Security.RateLimit.MaxPerSecond = defaultRateMaxPerSecond
	}
	if cfg.Security.RateLimit.MaxPerMinute == 0 {
		cfg.Security.RateLimit.MaxPerMinute = defaultRateMaxPerMinute
	}
	if cfg.Security.RateLimit.BanDuration == 0 {
		cfg.Security.RateLimit.BanDuration = defaultBanDuration
	}
	if cfg.Security.MessageLimit.MaxPerSecond == 0 {
		cfg.Security.MessageLimit.MaxPerSecond = defaultMsgMaxPerSecond
	}
	if cfg.Security.ChatLimit.MaxPerSecond == 0 {
		cfg.Security.ChatLimit.MaxPerSecond = defaultChatMaxPerSecond
	}
	if cfg.Security.ChatLimit.MaxPerMinute == 0 {
		cfg.Security.ChatLimit.MaxPerMinute = defaultChatMaxPerMinute
	}
	if cfg.Security.ChatLimit.Cooldown == 0 {
		cfg.Security.ChatLimit.Cooldown = defaultChatCooldown
	}
}

// loadFromEnv 环境变量覆盖（容器部署用）
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("GAME_RULES_PATH"); v != "" {
		cfg.Game.RulesPath = v
	}
	if v := os.Getenv("GAME_ROUND_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Game.RoundSeconds = n
		}
	}
	if v := os.Getenv("GAME_ROUNDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Game.Rounds = n
		}
	}
	if v := os.Getenv("SECURITY_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.Security.AllowedOrigins = origins
	}
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	loadFromEnv(cfg)
	return cfg
}
