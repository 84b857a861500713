package config

import (
	"fmt"
	"time"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis_service"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Auth     AuthConfig     `mapstructure:"auth"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Seed     SeedConfig     `mapstructure:"seed"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ProductionMode  bool          `mapstructure:"production_mode"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// GetAddress 获取服务器地址
func (s *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig 数据库配置
// SQLite 只允许单写者，连接池默认只开一个连接
type DatabaseConfig struct {
	Path          string `mapstructure:"path"`
	MaxOpenConns  int    `mapstructure:"max_open_conns"`
	MaxIdleConns  int    `mapstructure:"max_idle_conns"`
	BusyTimeoutMS int    `mapstructure:"busy_timeout_ms"`
}

// DSN 构造 SQLite 连接串
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL", d.Path, d.BusyTimeoutMS)
}

// RedisConfig Redis配置，Host 为空时不启用登录限流
type RedisConfig struct {
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	DB               int           `mapstructure:"db"`
	Password         string        `mapstructure:"password"`
	LoginMaxAttempts int           `mapstructure:"login_max_attempts"`
	LoginWindow      time.Duration `mapstructure:"login_window"`
}

// Enabled 是否配置了Redis
func (r *RedisConfig) Enabled() bool {
	return r.Host != ""
}

// GetAddress 获取Redis地址
func (r *RedisConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig JWT配置
type JWTConfig struct {
	SecretKey     string `mapstructure:"secret_key"`
	Algorithm     string `mapstructure:"algorithm"`
	ExpireMinutes int    `mapstructure:"expire_minutes"`
}

// GetExpireDuration 获取过期时间
func (j *JWTConfig) GetExpireDuration() time.Duration {
	return time.Duration(j.ExpireMinutes) * time.Minute
}

// AuthConfig 认证配置
type AuthConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
	// AllowInactiveLogin 为 true 时停用账户仍可登录
	AllowInactiveLogin bool `mapstructure:"allow_inactive_login"`
}

// CORSConfig CORS配置
type CORSConfig struct {
	Origins          []string `mapstructure:"origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
}

// SeedConfig 启动时保证存在的账户
type SeedConfig struct {
	Accounts []SeedAccount `mapstructure:"accounts"`
}

// SeedAccount 预置账户，密码可以是明文或 bcrypt 哈希
type SeedAccount struct {
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	FullName string   `mapstructure:"full_name"`
	Roles    []string `mapstructure:"roles"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultSeedAccounts 默认预置账户
func DefaultSeedAccounts() []SeedAccount {
	return []SeedAccount{
		{Username: "admin", Password: "admin123", FullName: "Administrator", Roles: []string{"admin"}},
		{Username: "moderator", Password: "mod123", FullName: "Moderator", Roles: []string{"moderator"}},
	}
}

// UsesDefaultPasswords 预置账户是否仍在使用默认密码
func (s *SeedConfig) UsesDefaultPasswords() bool {
	defaults := make(map[string]string)
	for _, a := range DefaultSeedAccounts() {
		defaults[a.Username] = a.Password
	}
	for _, a := range s.Accounts {
		if pw, ok := defaults[a.Username]; ok && pw == a.Password {
			return true
		}
	}
	return false
}
