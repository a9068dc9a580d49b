package models

// 卡片类型
const (
	CardTypeActiveBed = "ActiveBed"
	CardTypeLocation  = "Location"
)

// 单元类型（用于报警处理权限判断）
const (
	UnitTypeFacility = "Facility"
	UnitTypeHome     = "Home"
)

// 报警状态
const (
	AlarmStatusActive       = "active"
	AlarmStatusAcknowledged = "acknowledged"
)

// MonitorCard 监控使用的卡片投影
// 来自 vital-focus full cache（wisefido-card-aggregator 聚合产物）
// 或 wisefido-data 的 vital-focus API；监控只读，不回写
type MonitorCard struct {
	CardID      string `json:"card_id"`
	TenantID    string `json:"tenant_id"`
	CardType    string `json:"card_type"` // "ActiveBed" 或 "Location"
	CardName    string `json:"card_name"`
	CardAddress string `json:"card_address"`

	// 所属单元类型："Home" | "Facility"
	UnitType string `json:"unit_type,omitempty"`

	// 卡片关联的设备（用于 device_id → 卡片 反查）
	Devices []CardDevice `json:"devices,omitempty"`

	// 当前报警列表（active + acknowledged）
	Alarms []CardAlarm `json:"alarms,omitempty"`
}

// CardDevice 卡片关联的设备
type CardDevice struct {
	DeviceID   string `json:"device_id"`
	DeviceName string `json:"device_name"`
	DeviceType string `json:"device_type"`
	UnitID     string `json:"unit_id,omitempty"`
}

// CardAlarm 卡片上的一条报警
type CardAlarm struct {
	EventID     string     `json:"event_id"`
	EventType   string     `json:"event_type"`
	AlarmLevel  AlarmLevel `json:"alarm_level"`
	AlarmStatus string     `json:"alarm_status"` // active, acknowledged
	TriggeredAt int64      `json:"triggered_at"`
	DeviceID    string     `json:"device_id,omitempty"`
}

// IsActive 是否为未处理报警
// 只有 active 状态的报警参与声音通知；acknowledged 仅界面显示
func (a CardAlarm) IsActive() bool {
	return a.AlarmStatus == AlarmStatusActive
}

// HasActiveAlarm 卡片是否存在未处理报警
func (c *MonitorCard) HasActiveAlarm() bool {
	for _, alarm := range c.Alarms {
		if alarm.IsActive() {
			return true
		}
	}
	return false
}
