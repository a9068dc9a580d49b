package monitor

import (
	"sync"

	"wisefido-monitor/internal/models"
)

// DeviceIndex 设备到卡片的反查索引
// 每个轮询周期用最新快照整体重建；供 policy.CanHandleAlarm 解析报警归属
// 实现 policy.CardIndex
type DeviceIndex struct {
	mu       sync.RWMutex
	byDevice map[string]*models.MonitorCard
}

// NewDeviceIndex 创建空索引
func NewDeviceIndex() *DeviceIndex {
	return &DeviceIndex{
		byDevice: make(map[string]*models.MonitorCard),
	}
}

// Update 用卡片列表整体重建索引
func (i *DeviceIndex) Update(cards []models.MonitorCard) {
	byDevice := make(map[string]*models.MonitorCard, len(cards))
	for idx := range cards {
		card := &cards[idx]
		for _, device := range card.Devices {
			if device.DeviceID == "" {
				continue
			}
			byDevice[device.DeviceID] = card
		}
	}

	i.mu.Lock()
	i.byDevice = byDevice
	i.mu.Unlock()
}

// Clear 清空索引（Stop 时调用）
// 清空后所有反查都走 policy 的 fail-open 分支
func (i *DeviceIndex) Clear() {
	i.mu.Lock()
	i.byDevice = make(map[string]*models.MonitorCard)
	i.mu.Unlock()
}

// CardByDevice 按设备ID反查卡片
func (i *DeviceIndex) CardByDevice(deviceID string) (*models.MonitorCard, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	card, ok := i.byDevice[deviceID]
	return card, ok
}
