package monitor

import (
	"context"
	"encoding/json"
	"fmt"

	"wisefido-monitor/internal/config"

	"go.uber.org/zap"
)

// Player 声音播放协作方
// 任意时刻最多只有一条声音流；切换声音前 Monitor 总是先调用 Stop
// 播放失败不允许向上传播为崩溃（调用方只记日志）
type Player interface {
	PlayEmergency(ctx context.Context) error
	PlayAlert(ctx context.Context) error
	Stop(ctx context.Context) error
}

// 声音指令
const (
	soundActionPlay = "play"
	soundActionStop = "stop"

	soundEmergency = "emergency"
	soundAlert     = "alert"
)

// Publisher MQTT 发布接口（由 mqtt.Client 实现，测试中可替换）
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// soundCommand 发布到声音主题的指令
type soundCommand struct {
	Action string `json:"action"`          // "play" | "stop"
	Sound  string `json:"sound,omitempty"` // "emergency" | "alert"
}

// MQTTPlayer 通过 MQTT 驱动设施端声音播放
// 主题：{prefix}/{tenant_id}/monitor/sound
type MQTTPlayer struct {
	publisher Publisher
	topic     string
	qos       byte
	logger    *zap.Logger
}

// NewMQTTPlayer 创建 MQTT 播放器
func NewMQTTPlayer(cfg *config.Config, publisher Publisher, logger *zap.Logger, tenantID string) *MQTTPlayer {
	return &MQTTPlayer{
		publisher: publisher,
		topic:     fmt.Sprintf("%s/%s/monitor/sound", cfg.Monitor.Sound.TopicPrefix, tenantID),
		qos:       cfg.MQTT.QoS,
		logger:    logger,
	}
}

func (p *MQTTPlayer) PlayEmergency(ctx context.Context) error {
	return p.publish(soundCommand{Action: soundActionPlay, Sound: soundEmergency})
}

func (p *MQTTPlayer) PlayAlert(ctx context.Context) error {
	return p.publish(soundCommand{Action: soundActionPlay, Sound: soundAlert})
}

func (p *MQTTPlayer) Stop(ctx context.Context) error {
	return p.publish(soundCommand{Action: soundActionStop})
}

func (p *MQTTPlayer) publish(cmd soundCommand) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to marshal sound command: %w", err)
	}

	if err := p.publisher.Publish(p.topic, p.qos, false, payload); err != nil {
		return fmt.Errorf("failed to publish sound command: %w", err)
	}

	p.logger.Debug("Published sound command",
		zap.String("topic", p.topic),
		zap.String("action", cmd.Action),
		zap.String("sound", cmd.Sound),
	)

	return nil
}

// NopPlayer 空播放器（未配置 MQTT broker 时使用，只记日志）
type NopPlayer struct {
	logger *zap.Logger
}

func NewNopPlayer(logger *zap.Logger) *NopPlayer {
	return &NopPlayer{logger: logger}
}

func (p *NopPlayer) PlayEmergency(ctx context.Context) error {
	p.logger.Info("Sound playback skipped (no player configured)",
		zap.String("sound", soundEmergency),
	)
	return nil
}

func (p *NopPlayer) PlayAlert(ctx context.Context) error {
	p.logger.Info("Sound playback skipped (no player configured)",
		zap.String("sound", soundAlert),
	)
	return nil
}

func (p *NopPlayer) Stop(ctx context.Context) error {
	return nil
}
