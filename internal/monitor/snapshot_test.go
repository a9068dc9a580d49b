package monitor

import (
	"testing"

	"wisefido-monitor/internal/models"

	"github.com/stretchr/testify/assert"
)

func bedCard(cardID string, alarms ...models.CardAlarm) models.MonitorCard {
	return models.MonitorCard{
		CardID:   cardID,
		CardType: models.CardTypeActiveBed,
		UnitType: models.UnitTypeFacility,
		Alarms:   alarms,
	}
}

func TestReduce_PrioritySelection(t *testing.T) {
	// 不同卡片上的报警取最小 Tier：L1（tier 0）赢过数字 2（tier 1）
	cards := []models.MonitorCard{
		bedCard("card-a", models.CardAlarm{
			EventID:     "e1",
			AlarmLevel:  models.ParseAlarmLevel("L1"),
			AlarmStatus: models.AlarmStatusActive,
		}),
		bedCard("card-b", models.CardAlarm{
			EventID:     "e2",
			AlarmLevel:  models.NewAlarmLevel(2),
			AlarmStatus: models.AlarmStatusActive,
		}),
	}

	snap := Reduce(cards)
	assert.Equal(t, models.TierEmergency, snap.Severity)
	assert.Len(t, snap.Alarming, 2)
	assert.Contains(t, snap.Alarming, CardKey{CardType: models.CardTypeActiveBed, CardID: "card-a"})
}

func TestReduce_AcknowledgedDoesNotContribute(t *testing.T) {
	// acknowledged 报警对声音通知是惰性的
	cards := []models.MonitorCard{
		bedCard("card-a", models.CardAlarm{
			EventID:     "e1",
			AlarmLevel:  models.ParseAlarmLevel("EMERG"),
			AlarmStatus: models.AlarmStatusAcknowledged,
		}),
	}

	snap := Reduce(cards)
	assert.Empty(t, snap.Alarming)
	assert.Equal(t, models.TierNone, snap.Severity)
}

func TestReduce_UnrecognizedLevelNeverWins(t *testing.T) {
	cards := []models.MonitorCard{
		bedCard("card-a",
			models.CardAlarm{
				EventID:     "e1",
				AlarmLevel:  models.ParseAlarmLevel("bogus"),
				AlarmStatus: models.AlarmStatusActive,
			},
			models.CardAlarm{
				EventID:     "e2",
				AlarmLevel:  models.ParseAlarmLevel("WARNING"),
				AlarmStatus: models.AlarmStatusActive,
			},
		),
	}

	snap := Reduce(cards)
	// 畸形级别的卡片仍计入报警集合，但优先级由可识别的级别决定
	assert.Len(t, snap.Alarming, 1)
	assert.Equal(t, models.TierWarning, snap.Severity)
}

func TestReduce_EmptyCards(t *testing.T) {
	snap := Reduce(nil)
	assert.Empty(t, snap.Alarming)
	assert.Equal(t, models.TierNone, snap.Severity)
}

func TestSnapshot_NewlyAlarming(t *testing.T) {
	prev := Reduce([]models.MonitorCard{
		bedCard("card-a", models.CardAlarm{
			EventID:     "e1",
			AlarmLevel:  models.NewAlarmLevel(1),
			AlarmStatus: models.AlarmStatusActive,
		}),
	})

	next := Reduce([]models.MonitorCard{
		bedCard("card-a", models.CardAlarm{
			EventID:     "e1",
			AlarmLevel:  models.NewAlarmLevel(1),
			AlarmStatus: models.AlarmStatusActive,
		}),
		bedCard("card-b", models.CardAlarm{
			EventID:     "e2",
			AlarmLevel:  models.NewAlarmLevel(2),
			AlarmStatus: models.AlarmStatusActive,
		}),
	})

	added := next.NewlyAlarming(prev)
	assert.Equal(t, []CardKey{{CardType: models.CardTypeActiveBed, CardID: "card-b"}}, added)

	// 没有上一快照时全部算新增
	first := next.NewlyAlarming(nil)
	assert.Len(t, first, 2)
}
