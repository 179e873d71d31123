package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"workdesk/config"
	"workdesk/internal/repository"
	"workdesk/internal/seed"
	"workdesk/pkg/database"
	applogger "workdesk/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径，默认查找 ./config/config.yaml")
	code := flag.String("code", "88888888", "管理员工号")
	name := flag.String("name", "管理员", "管理员姓名")
	role := flag.String("role", "admin", "管理员角色")
	flag.Parse()

	// 密码只从环境变量读取，避免出现在进程参数中
	password := os.Getenv("WORKDESK_SEED_ADMIN_PASSWORD")
	if password == "" {
		fmt.Fprintln(os.Stderr, "请设置 WORKDESK_SEED_ADMIN_PASSWORD")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin := seed.Admin{Code: *code, Name: *name, Password: password, Role: *role}
	if err := seed.Run(ctx, repository.NewRepository(db), admin, logger); err != nil {
		logger.Fatal("初始化数据失败", zap.Error(err))
	}
	logger.Info("初始化数据完成")
}
