// Package monitor 实现全局报警声音通知
// 固定间隔轮询卡片数据源，归约出最高优先级的未处理报警，驱动声音播放状态机。
// 每个会话最多持有一个 Monitor；Start/Stop 是仅有的两个状态变更入口。
package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"wisefido-monitor/internal/config"
	"wisefido-monitor/internal/models"
	"wisefido-monitor/internal/policy"
	"wisefido-monitor/internal/source"

	"go.uber.org/zap"
)

// SoundState 声音播放状态
type SoundState int

const (
	SoundSilent SoundState = iota
	SoundPlayingEmergency
	SoundPlayingAlert
)

func (s SoundState) String() string {
	switch s {
	case SoundPlayingEmergency:
		return "playing_emergency"
	case SoundPlayingAlert:
		return "playing_alert"
	default:
		return "silent"
	}
}

// Monitor 报警声音监控
// 轮询周期：fetch → reduce → 状态机转移 → 重建设备索引
// 所有可预见的失败都在本层吸收（记日志后继续），不向调用方抛出
type Monitor struct {
	config *config.Config
	src    source.CardSource
	player Player
	logger *zap.Logger
	index  *DeviceIndex

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	state   SoundState
	prev    *Snapshot

	// inFlight 轮询重入保护：上一周期未结束时跳过本次 tick，
	// 保证"同一时刻最多一条声音流"在 fetch 超过轮询间隔时依然成立
	inFlight atomic.Bool
}

// NewMonitor 创建监控实例（不启动轮询）
func NewMonitor(cfg *config.Config, src source.CardSource, player Player, logger *zap.Logger) *Monitor {
	return &Monitor{
		config: cfg,
		src:    src,
		player: player,
		logger: logger,
		index:  NewDeviceIndex(),
	}
}

// Index 设备反查索引（供 policy.CanHandleAlarm 使用）
func (m *Monitor) Index() *DeviceIndex {
	return m.index
}

// Running 是否在轮询中
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// State 当前声音状态
func (m *Monitor) State() SoundState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start 以指定会话角色启动轮询
// 平台运维角色（policy.CanRunMonitor = false）没有监控界面：
// 对它们 Start 是无效操作，不轮询也不报错
// 已在运行时重复 Start 是无效操作（不会产生第二个定时器）
// 角色在会话期间不变；角色变更需要 Stop 后重新 Start
func (m *Monitor) Start(role models.Role) {
	if !policy.CanRunMonitor(role) {
		m.logger.Info("Alarm sound monitor disabled for role",
			zap.String("role", string(role)),
		)
		return
	}

	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.running = true
	m.cancel = cancel
	m.mu.Unlock()

	m.logger.Info("Alarm sound monitor started",
		zap.String("role", string(role)),
		zap.Int("poll_interval", m.pollInterval()),
	)

	go m.run(ctx)
}

// Stop 停止轮询并立即停止声音播放
// 会话结束（登出、离开监控页）时必须调用，避免定时器和声音泄漏
// 可以在任意时刻调用（包括周期进行中）；进行中周期的结果会被丢弃
// 重复 Stop 是无效操作
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	m.running = false
	m.cancel()
	m.cancel = nil

	// 立即停止播放；停止失败只记日志（尽力而为）
	if err := m.player.Stop(context.Background()); err != nil {
		m.logger.Warn("Failed to stop sound playback",
			zap.Error(err),
		)
	}
	m.state = SoundSilent
	m.prev = nil
	m.index.Clear()

	m.logger.Info("Alarm sound monitor stopped")
}

// run 轮询主循环：启动时立即执行一次，之后按固定间隔执行
func (m *Monitor) run(ctx context.Context) {
	m.pollOnce(ctx)

	ticker := time.NewTicker(time.Duration(m.pollInterval()) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.pollOnce(ctx)
		}
	}
}

// pollOnce 执行一个轮询周期
// fetch 失败视为瞬时故障：记日志、保持上一周期的声音状态、下个 tick 重试
func (m *Monitor) pollOnce(ctx context.Context) {
	if !m.inFlight.CompareAndSwap(false, true) {
		// 上一周期还没结束（fetch 延迟超过轮询间隔），跳过本次 tick
		m.logger.Warn("Skipping poll tick, previous cycle still in flight")
		return
	}
	defer m.inFlight.Store(false)

	cards, err := m.src.FetchCards(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.logger.Error("Failed to fetch cards, keeping previous sound state",
			zap.Error(err),
		)
		return
	}

	// Stop 之后返回的进行中结果整体丢弃（索引也不更新）
	if ctx.Err() != nil {
		return
	}

	m.index.Update(cards)
	m.apply(ctx, Reduce(cards))
}

// apply 把快照应用到声音状态机
func (m *Monitor) apply(ctx context.Context, snap *Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Stop 之后到达的进行中周期结果直接丢弃，不能复活声音
	if !m.running || ctx.Err() != nil {
		return
	}

	for _, key := range snap.NewlyAlarming(m.prev) {
		m.logger.Info("New alarm detected",
			zap.String("card_type", key.CardType),
			zap.String("card_id", key.CardID),
			zap.Int("severity", int(snap.Severity)),
		)
	}
	m.prev = snap

	// 目标状态：无报警强制静音；只有最高的两档播放声音，
	// TierWarning 及无法识别的级别仅界面显示
	target := SoundSilent
	if len(snap.Alarming) > 0 {
		switch snap.Severity {
		case models.TierEmergency:
			target = SoundPlayingEmergency
		case models.TierAlert:
			target = SoundPlayingAlert
		}
	}

	// 同一级别继续播放，不重播
	if target == m.state {
		return
	}

	// 切换或静音都先完全停止上一条声音流
	if err := m.player.Stop(ctx); err != nil {
		m.logger.Warn("Failed to stop sound playback",
			zap.Error(err),
		)
	}
	m.state = SoundSilent

	// 播放失败（如平台禁止自动播放）：记日志、内部保持静音，
	// 报警持续时下个周期重试
	switch target {
	case SoundPlayingEmergency:
		if err := m.player.PlayEmergency(ctx); err != nil {
			m.logger.Warn("Sound playback failed",
				zap.String("sound", soundEmergency),
				zap.Error(err),
			)
			return
		}
	case SoundPlayingAlert:
		if err := m.player.PlayAlert(ctx); err != nil {
			m.logger.Warn("Sound playback failed",
				zap.String("sound", soundAlert),
				zap.Error(err),
			)
			return
		}
	default:
		return
	}

	m.state = target
	m.logger.Debug("Sound state changed",
		zap.String("state", m.state.String()),
	)
}

// pollInterval 轮询间隔（秒），配置缺失时回退默认 10秒
func (m *Monitor) pollInterval() int {
	if m.config.Monitor.PollInterval <= 0 {
		return 10
	}
	return m.config.Monitor.PollInterval
}
