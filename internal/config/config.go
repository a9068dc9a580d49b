package config

import (
	"fmt"
	"os"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MQTTConfig MQTT配置
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      byte
}

// Config 监控通知服务配置
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	MQTT     MQTTConfig

	// 监控服务特定配置
	Monitor struct {
		// 卡片数据源："redis"（直接读 vital-focus full cache）、
		// "http"（调用 wisefido-data vital-focus API）、"postgres"（直连数据库）
		Source string

		// 轮询间隔（秒），默认 10秒
		PollInterval int

		// Redis 数据源配置
		Cache struct {
			CardKeyPattern string // full 卡片缓存键模式，如 "vital-focus:card:*:full"
		}

		// HTTP 数据源配置
		API struct {
			BaseURL  string // wisefido-data 服务地址
			PageSize int    // 单次拉取的卡片数量上限
		}

		// 声音通知配置
		Sound struct {
			TopicPrefix string // MQTT 主题前缀，如 "wisefido"
		}
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 加载配置
func Load() (*Config, error) {
	cfg := &Config{}

	// 从环境变量加载（默认值）
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = 5432
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "owlrd")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.QoS = 1

	// 监控服务配置
	cfg.Monitor.Source = getEnv("MONITOR_SOURCE", "redis")
	cfg.Monitor.PollInterval = 10 // 10秒轮询一次
	cfg.Monitor.Cache.CardKeyPattern = getEnv("CACHE_CARD_PATTERN", "vital-focus:card:*:full")
	cfg.Monitor.API.BaseURL = getEnv("MONITOR_API_BASE_URL", "http://localhost:8080")
	cfg.Monitor.API.PageSize = 200
	cfg.Monitor.Sound.TopicPrefix = getEnv("SOUND_TOPIC_PREFIX", "wisefido")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
