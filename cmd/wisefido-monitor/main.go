package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"wisefido-monitor/internal/config"
	"wisefido-monitor/internal/logger"
	"wisefido-monitor/internal/models"
	"wisefido-monitor/internal/service"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. 初始化日志
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "wisefido-monitor")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	// 3. 获取租户ID和会话角色（从环境变量）
	tenantID := os.Getenv("TENANT_ID")
	if tenantID == "" {
		log.Fatal("TENANT_ID environment variable is required")
	}

	role := models.Role(getEnv("MONITOR_ROLE", string(models.RoleManager)))
	if !role.IsValid() {
		log.Fatal("Unknown MONITOR_ROLE",
			zap.String("role", string(role)),
		)
	}

	// 4. 创建服务
	monitorService, err := service.NewMonitorService(cfg, log, tenantID)
	if err != nil {
		log.Fatal("Failed to create monitor service",
			zap.Error(err),
		)
	}

	// 5. 启动监控（平台运维角色不轮询，Start 为无效操作）
	monitorService.Start(role)
	defer monitorService.Stop()

	// 6. 等待信号（优雅关闭）
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info("Received signal, shutting down",
		zap.String("signal", sig.String()),
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
