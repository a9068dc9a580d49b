package service

import (
	"context"
	"database/sql"
	"fmt"

	"wisefido-monitor/internal/config"
	"wisefido-monitor/internal/models"
	"wisefido-monitor/internal/monitor"
	mqttclient "wisefido-monitor/internal/mqtt"
	"wisefido-monitor/internal/repository"
	"wisefido-monitor/internal/source"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// MonitorService 监控服务（整合各层）
// 按配置选择卡片数据源（redis / http / postgres）和声音通道（MQTT / 空播放器），
// 持有底层客户端的生命周期
type MonitorService struct {
	config   *config.Config
	logger   *zap.Logger
	tenantID string

	db          *sql.DB
	redisClient *redis.Client
	mqttClient  *mqttclient.Client

	monitor *monitor.Monitor
}

// NewMonitorService 创建监控服务
func NewMonitorService(cfg *config.Config, logger *zap.Logger, tenantID string) (*MonitorService, error) {
	s := &MonitorService{
		config:   cfg,
		logger:   logger,
		tenantID: tenantID,
	}

	// 1. 按配置创建卡片数据源
	src, err := s.buildCardSource()
	if err != nil {
		s.closeClients()
		return nil, err
	}

	// 2. 创建声音播放器
	player, err := s.buildPlayer()
	if err != nil {
		s.closeClients()
		return nil, err
	}

	// 3. 创建监控
	s.monitor = monitor.NewMonitor(cfg, src, player, logger)

	return s, nil
}

// Monitor 监控实例
func (s *MonitorService) Monitor() *monitor.Monitor {
	return s.monitor
}

// Start 以指定会话角色启动监控
func (s *MonitorService) Start(role models.Role) {
	s.monitor.Start(role)
}

// Stop 停止监控并关闭底层连接
func (s *MonitorService) Stop() {
	s.monitor.Stop()
	s.closeClients()
}

// buildCardSource 按 Monitor.Source 配置创建数据源
func (s *MonitorService) buildCardSource() (source.CardSource, error) {
	switch s.config.Monitor.Source {
	case "redis":
		redisClient := redis.NewClient(&redis.Options{
			Addr:     s.config.Redis.Addr,
			Password: s.config.Redis.Password,
			DB:       s.config.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		s.redisClient = redisClient
		kv := source.NewRedisKVStore(redisClient)
		return source.NewRedisCardSource(s.config, kv, s.logger, s.tenantID), nil

	case "http":
		return source.NewHTTPCardSource(s.config, s.logger, s.tenantID), nil

	case "postgres":
		db, err := sql.Open("postgres", s.config.Database.GetDSN())
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		s.db = db
		return repository.NewCardRepository(db, s.logger, s.tenantID), nil

	default:
		return nil, fmt.Errorf("unknown card source: %s", s.config.Monitor.Source)
	}
}

// buildPlayer 创建声音播放器
// 未配置 MQTT broker 时使用空播放器（声音层是尽力而为的）
func (s *MonitorService) buildPlayer() (monitor.Player, error) {
	if s.config.MQTT.Broker == "" {
		s.logger.Warn("MQTT broker not configured, sound playback disabled")
		return monitor.NewNopPlayer(s.logger), nil
	}

	client, err := mqttclient.NewClient(&s.config.MQTT, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create mqtt client: %w", err)
	}
	s.mqttClient = client

	return monitor.NewMQTTPlayer(s.config, client, s.logger, s.tenantID), nil
}

// closeClients 关闭底层连接
func (s *MonitorService) closeClients() {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database",
				zap.Error(err),
			)
		}
		s.db = nil
	}
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Error("Failed to close redis",
				zap.Error(err),
			)
		}
		s.redisClient = nil
	}
	if s.mqttClient != nil {
		s.mqttClient.Disconnect()
		s.mqttClient = nil
	}
}
