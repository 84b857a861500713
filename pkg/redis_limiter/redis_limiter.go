package redis_limiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// ErrLimitExceeded 失败次数达到上限
var ErrLimitExceeded = errors.New("失败次数已达到上限")

// 固定窗口计数：首次计数时设置过期时间
var hitScript = redis.NewScript(
	`local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('EXPIRE', KEYS[1], tonumber(ARGV[1]))
	end
	return count`,
)

// RedisLimiter 基于Redis的失败计数限制器
// Redis不可用时放行，只记录日志
type RedisLimiter struct {
	client      *redis.Client
	maxAttempts int
	keyPrefix   string
	window      time.Duration
	logger      logrus.FieldLogger
}

// NewRedisLimiter 创建基于Redis的失败计数限制器
func NewRedisLimiter(client *redis.Client, maxAttempts int, keyPrefix string, window time.Duration, logger logrus.FieldLogger) *RedisLimiter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RedisLimiter{
		client:      client,
		maxAttempts: maxAttempts,
		keyPrefix:   keyPrefix,
		window:      window,
		logger:      logger.WithField("component", "redis_limiter"),
	}
}

func (rl *RedisLimiter) enabled() bool {
	return rl != nil && rl.client != nil && rl.maxAttempts > 0
}

// Check 当前窗口内失败次数达到上限时返回 ErrLimitExceeded
func (rl *RedisLimiter) Check(ctx context.Context, key string) error {
	if !rl.enabled() {
		return nil
	}

	current, err := rl.GetCurrent(ctx, key)
	if err != nil {
		rl.logger.WithError(err).WithField("key", key).Warn("读取失败计数出错，放行请求")
		return nil
	}
	if current >= rl.maxAttempts {
		rl.logger.WithFields(logrus.Fields{
			"key":     key,
			"current": current,
			"max":     rl.maxAttempts,
		}).Warn("失败次数已达上限")
		return fmt.Errorf("%w: %d", ErrLimitExceeded, rl.maxAttempts)
	}
	return nil
}

// Hit 记录一次失败
func (rl *RedisLimiter) Hit(ctx context.Context, key string) {
	if !rl.enabled() {
		return
	}

	seconds := int(rl.window.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	result, err := hitScript.Run(ctx, rl.client, []string{rl.keyPrefix + key}, seconds).Int()
	if err != nil {
		rl.logger.WithError(err).WithField("key", key).Warn("执行Lua脚本失败")
		return
	}
	rl.logger.WithFields(logrus.Fields{"key": key, "count": result}).Debug("记录失败次数")
}

// Reset 清除计数
func (rl *RedisLimiter) Reset(ctx context.Context, key string) {
	if !rl.enabled() {
		return
	}
	if err := rl.client.Del(ctx, rl.keyPrefix+key).Err(); err != nil {
		rl.logger.WithError(err).WithField("key", key).Warn("清除失败计数出错")
	}
}

// GetCurrent 获取当前窗口内的失败次数
func (rl *RedisLimiter) GetCurrent(ctx context.Context, key string) (int, error) {
	if !rl.enabled() {
		return 0, nil
	}
	current, err := rl.client.Get(ctx, rl.keyPrefix+key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("获取失败计数失败: %w", err)
	}
	return current, nil
}

// GetMaxAttempts 获取窗口内允许的最大失败次数
func (rl *RedisLimiter) GetMaxAttempts() int {
	return rl.maxAttempts
}
