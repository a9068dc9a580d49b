package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlarmLevel_EquivalentEncodings(t *testing.T) {
	// 同一级别的数字/符号编码必须归一化到同一个 Tier
	cases := []struct {
		name string
		a    AlarmLevel
		b    AlarmLevel
		tier Tier
	}{
		{"numeric 1 vs L1", NewAlarmLevel(1), ParseAlarmLevel("L1"), TierEmergency},
		{"numeric 0 vs EMERG", NewAlarmLevel(0), ParseAlarmLevel("EMERG"), TierEmergency},
		{"numeric 1 vs ALERT", NewAlarmLevel(1), ParseAlarmLevel("ALERT"), TierEmergency},
		{"numeric 2 vs L2", NewAlarmLevel(2), ParseAlarmLevel("L2"), TierAlert},
		{"numeric 2 vs CRIT", NewAlarmLevel(2), ParseAlarmLevel("CRIT"), TierAlert},
		{"numeric 3 vs ERR", NewAlarmLevel(3), ParseAlarmLevel("ERR"), TierAlert},
		{"numeric 4 vs L4", NewAlarmLevel(4), ParseAlarmLevel("L4"), TierWarning},
		{"numeric 4 vs WARNING", NewAlarmLevel(4), ParseAlarmLevel("WARNING"), TierWarning},
		{"digit string vs name", ParseAlarmLevel("0"), ParseAlarmLevel("EMERG"), TierEmergency},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.tier, tc.a.Tier())
			assert.Equal(t, tc.a.Tier(), tc.b.Tier())
		})
	}
}

func TestAlarmLevel_UnrecognizedNeverWins(t *testing.T) {
	// 无法识别的编码映射到哨兵值，不参与最小值比较
	for _, raw := range []string{"", "bogus", "Lx", "-1", "critical!"} {
		level := ParseAlarmLevel(raw)
		assert.False(t, level.Recognized(), "input %q", raw)
		assert.Equal(t, TierNone, level.Tier(), "input %q", raw)
	}

	assert.True(t, ParseAlarmLevel("WARNING").Tier() < TierNone)
}

func TestAlarmLevel_UnmarshalJSON_NumberAndString(t *testing.T) {
	// alarm_level 在 JSON 中既可能是数字也可能是字符串
	var alarm CardAlarm
	require.NoError(t, json.Unmarshal([]byte(`{"alarm_level": 2, "alarm_status": "active"}`), &alarm))
	assert.Equal(t, TierAlert, alarm.AlarmLevel.Tier())

	require.NoError(t, json.Unmarshal([]byte(`{"alarm_level": "L1", "alarm_status": "active"}`), &alarm))
	assert.Equal(t, TierEmergency, alarm.AlarmLevel.Tier())

	require.NoError(t, json.Unmarshal([]byte(`{"alarm_level": "WARNING", "alarm_status": "active"}`), &alarm))
	assert.Equal(t, TierWarning, alarm.AlarmLevel.Tier())

	// 畸形编码不让整条记录解析失败
	require.NoError(t, json.Unmarshal([]byte(`{"alarm_level": "??", "alarm_status": "active"}`), &alarm))
	assert.Equal(t, TierNone, alarm.AlarmLevel.Tier())
}

func TestAlarmLevel_CaseInsensitiveNames(t *testing.T) {
	assert.Equal(t, TierEmergency, ParseAlarmLevel("emerg").Tier())
	assert.Equal(t, TierEmergency, ParseAlarmLevel("l1").Tier())
}
