package monitor

import (
	"wisefido-monitor/internal/models"
)

// CardKey 报警卡片标识（card_type + card_id 二元组）
type CardKey struct {
	CardType string
	CardID   string
}

// Snapshot 一次轮询周期的归约结果
// 每个周期整体替换，不做增量合并；只用于与上一周期做差集检测新出现的报警
type Snapshot struct {
	// Alarming 当前存在未处理报警的卡片集合
	Alarming map[CardKey]struct{}

	// Severity 所有未处理报警中的最高优先级（最小 Tier）
	// 没有未处理报警时为 TierNone
	Severity models.Tier
}

// Reduce 把卡片列表归约为快照
// 归约规则：
//  1. 只有 alarm_status = active 的报警参与计算
//  2. 卡片有 ≥1 条参与报警即进入 Alarming 集合
//  3. Severity 取所有参与报警的最小 Tier；无法识别的级别（TierNone）永远不会赢
func Reduce(cards []models.MonitorCard) *Snapshot {
	snap := &Snapshot{
		Alarming: make(map[CardKey]struct{}),
		Severity: models.TierNone,
	}

	for _, card := range cards {
		alarming := false
		for _, alarm := range card.Alarms {
			if !alarm.IsActive() {
				continue
			}
			alarming = true
			if tier := alarm.AlarmLevel.Tier(); tier < snap.Severity {
				snap.Severity = tier
			}
		}
		if alarming {
			snap.Alarming[CardKey{CardType: card.CardType, CardID: card.CardID}] = struct{}{}
		}
	}

	return snap
}

// NewlyAlarming 返回本快照相对 prev 新出现的报警卡片（用于日志）
func (s *Snapshot) NewlyAlarming(prev *Snapshot) []CardKey {
	var added []CardKey
	for key := range s.Alarming {
		if prev == nil {
			added = append(added, key)
			continue
		}
		if _, ok := prev.Alarming[key]; !ok {
			added = append(added, key)
		}
	}
	return added
}
