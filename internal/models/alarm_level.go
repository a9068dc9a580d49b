package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Tier 报警声音优先级（序号越小越紧急）
type Tier int

const (
	TierEmergency Tier = 0 // EMERG/ALERT 级别，播放 emergency 声音
	TierAlert     Tier = 1 // CRIT/ERR 级别，播放 alert 声音
	TierWarning   Tier = 2 // WARNING 及以下，仅界面显示，不播放声音

	// TierNone 无法识别的编码：不参与最小值比较（永远不会赢）
	TierNone Tier = 999
)

// 后端 alarm_level 的数字级别（与 alarm_events 表一致）
// 0=EMERG, 1=ALERT, 2=CRIT, 3=ERR, 4=WARNING
var alarmLevelNames = map[string]int{
	"EMERG":   0,
	"ALERT":   1,
	"CRIT":    2,
	"ERR":     3,
	"WARNING": 4,
}

// AlarmLevel 报警级别
// 后端对 alarm_level 使用多种等价编码：小整数（1, 2, 4）、
// 数字字符串（"0".."4"）、"L<数字>" 形式（"L1", "L2"）、
// 以及大写级别名（"EMERG", "ALERT", "CRIT", "ERR", "WARNING"）。
// 在 JSON 反序列化边界统一归一化为数字级别，之后不再区分原始形态。
type AlarmLevel struct {
	level      int
	recognized bool
}

// NewAlarmLevel 按数字级别构造（用于测试和 DB 读取路径）
func NewAlarmLevel(level int) AlarmLevel {
	if level < 0 {
		return AlarmLevel{}
	}
	return AlarmLevel{level: level, recognized: true}
}

// ParseAlarmLevel 从字符串编码归一化
// 无法识别的编码不报错，返回 recognized=false 的级别（优先级比较时永远不会赢）
func ParseAlarmLevel(s string) AlarmLevel {
	s = strings.TrimSpace(s)
	if s == "" {
		return AlarmLevel{}
	}

	// "L1" / "L2" / "L4" 形式
	if len(s) >= 2 && (s[0] == 'L' || s[0] == 'l') {
		if n, err := strconv.Atoi(s[1:]); err == nil && n >= 0 {
			return AlarmLevel{level: n, recognized: true}
		}
		return AlarmLevel{}
	}

	// 纯数字字符串："0".."4"
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return AlarmLevel{}
		}
		return AlarmLevel{level: n, recognized: true}
	}

	// 级别名："EMERG" 等
	if n, ok := alarmLevelNames[strings.ToUpper(s)]; ok {
		return AlarmLevel{level: n, recognized: true}
	}

	return AlarmLevel{}
}

// UnmarshalJSON 接受数字和字符串两种 JSON 形态
// 注意：无法识别的编码不返回错误——畸形输入降级为"不参与优先级比较"，
// 不能因为单条报警的编码问题导致整个快照解析失败
func (l *AlarmLevel) UnmarshalJSON(data []byte) error {
	// 数字形态
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*l = NewAlarmLevel(n)
		return nil
	}

	// 字符串形态
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = ParseAlarmLevel(s)
		return nil
	}

	*l = AlarmLevel{}
	return nil
}

// MarshalJSON 输出归一化后的数字字符串（与后端 '0'/'EMERG' 双编码中的数字形态一致）
func (l AlarmLevel) MarshalJSON() ([]byte, error) {
	if !l.recognized {
		return json.Marshal("")
	}
	return json.Marshal(strconv.Itoa(l.level))
}

// Recognized 编码是否可识别
func (l AlarmLevel) Recognized() bool {
	return l.recognized
}

// Level 归一化后的数字级别（仅在 Recognized 时有意义）
func (l AlarmLevel) Level() int {
	return l.level
}

// Tier 映射到声音优先级
// 级别 0-1 → TierEmergency，2-3 → TierAlert，4及以上 → TierWarning
func (l AlarmLevel) Tier() Tier {
	if !l.recognized {
		return TierNone
	}
	switch {
	case l.level <= 1:
		return TierEmergency
	case l.level <= 3:
		return TierAlert
	default:
		return TierWarning
	}
}
