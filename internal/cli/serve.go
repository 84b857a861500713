package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"radio-go/internal/config"
	"radio-go/internal/repository"
	"radio-go/internal/router"
	"radio-go/internal/service"
	"radio-go/internal/utils"
	"radio-go/pkg/redis_limiter"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动HTTP服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg, newLogger(cfg))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// 初始化数据库
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(db, logger)

	// 预置账户失败时不启动
	if _, err := service.NewSeeder(repository.NewUserRepository(db), cfg, logger).Seed(ctx); err != nil {
		return fmt.Errorf("初始化预置账户失败: %w", err)
	}
	if cfg.Server.ProductionMode && cfg.Seed.UsesDefaultPasswords() {
		logger.Warn("生产模式下预置账户仍在使用默认密码，请通过配置修改")
	}

	// 初始化Redis登录限制，未配置时关闭
	limiter, redisClient := newLoginLimiter(ctx, cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// 初始化工具
	jwtManager := utils.NewJWTManager(
		cfg.JWT.SecretKey,
		cfg.JWT.Algorithm,
		cfg.JWT.GetExpireDuration(),
	)

	// 设置路由
	r := router.SetupRouter(cfg, jwtManager, logger, db, limiter)

	srv := &http.Server{
		Addr:              cfg.Server.GetAddress(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.RequestTimeout,
		WriteTimeout:      cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":       srv.Addr,
			"production": cfg.Server.ProductionMode,
		}).Info("服务器启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("启动服务器失败: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("正在关闭服务器")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("关闭服务器失败: %w", err)
	}
	logger.Info("服务器已关闭")
	return nil
}

// newLoginLimiter Redis不可用时返回 nil，登录不做限制
func newLoginLimiter(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (service.LoginLimiter, *redis.Client) {
	if !cfg.Redis.Enabled() {
		logger.Info("未配置Redis，登录失败限制已关闭")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddress(),
		DB:       cfg.Redis.DB,
		Password: cfg.Redis.Password,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.WithError(err).WithField("addr", cfg.Redis.GetAddress()).Warn("Redis连接失败，登录失败限制已关闭")
		_ = client.Close()
		return nil, nil
	}

	limiter := redis_limiter.NewRedisLimiter(client, cfg.Redis.LoginMaxAttempts, "radio:login:", cfg.Redis.LoginWindow, logger)
	logger.WithFields(logrus.Fields{
		"addr":         cfg.Redis.GetAddress(),
		"max_attempts": limiter.GetMaxAttempts(),
		"window":       cfg.Redis.LoginWindow.String(),
	}).Info("已启用登录失败限制")

	return limiter, client
}
