package cli

import (
	"fmt"

	"radio-go/internal/models"
	"radio-go/internal/repository"
	"radio-go/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "创建缺失的预置账户",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		db, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer closeDatabase(db, logger)

		userRepo := repository.NewUserRepository(db)
		created, err := service.NewSeeder(userRepo, cfg, logger).Seed(cmd.Context())
		if err != nil {
			return err
		}
		total, err := userRepo.Count(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "新建预置账户 %d 个，当前用户共 %d 个\n", created, total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func closeDatabase(db *gorm.DB, logger logrus.FieldLogger) {
	if err := models.Close(db); err != nil {
		logger.WithError(err).Warn("关闭数据库失败")
	}
}
