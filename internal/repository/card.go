package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"wisefido-monitor/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// CardRepository 卡片仓库（直连 PostgreSQL 的数据源）
// 用于与后端数据库同机部署的场景；实现 source.CardSource
type CardRepository struct {
	db       *sql.DB
	logger   *zap.Logger
	tenantID string
}

// NewCardRepository 创建卡片仓库
func NewCardRepository(db *sql.DB, logger *zap.Logger, tenantID string) *CardRepository {
	return &CardRepository{
		db:       db,
		logger:   logger,
		tenantID: tenantID,
	}
}

// FetchCards 获取租户全部卡片及其报警列表
func (r *CardRepository) FetchCards(ctx context.Context) ([]models.MonitorCard, error) {
	cards, err := r.getAllCards(ctx)
	if err != nil {
		return nil, err
	}

	for i := range cards {
		deviceIDs := make([]string, 0, len(cards[i].Devices))
		for _, d := range cards[i].Devices {
			deviceIDs = append(deviceIDs, d.DeviceID)
		}
		if len(deviceIDs) == 0 {
			continue
		}

		alarms, err := r.getAlarmsByDevices(ctx, deviceIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load alarms for card %s: %w", cards[i].CardID, err)
		}
		cards[i].Alarms = alarms
	}

	return cards, nil
}

// getAllCards 查询租户全部卡片（含单元类型和设备 JSONB）
func (r *CardRepository) getAllCards(ctx context.Context) ([]models.MonitorCard, error) {
	query := `
		SELECT
			c.card_id,
			c.tenant_id,
			c.card_type,
			c.card_name,
			COALESCE(c.card_address, '') as card_address,
			u.unit_type,
			c.devices
		FROM cards c
		LEFT JOIN units u ON u.unit_id = c.unit_id AND u.tenant_id = c.tenant_id
		WHERE c.tenant_id = $1
		ORDER BY c.card_id
	`

	rows, err := r.db.QueryContext(ctx, query, r.tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	var cards []models.MonitorCard
	for rows.Next() {
		var card models.MonitorCard
		var unitType sql.NullString
		var devicesJSON []byte

		if err := rows.Scan(
			&card.CardID,
			&card.TenantID,
			&card.CardType,
			&card.CardName,
			&card.CardAddress,
			&unitType,
			&devicesJSON,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}

		if unitType.Valid {
			card.UnitType = unitType.String
		}

		if len(devicesJSON) > 0 {
			if err := json.Unmarshal(devicesJSON, &card.Devices); err != nil {
				// devices JSONB 损坏只影响权限反查，不影响报警归约
				r.logger.Warn("Skipping malformed devices JSONB",
					zap.String("card_id", card.CardID),
					zap.Error(err),
				)
			}
		}

		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}

	return cards, nil
}

// getAlarmsByDevices 查询设备列表上的未结束报警（active + acknowledged）
func (r *CardRepository) getAlarmsByDevices(ctx context.Context, deviceIDs []string) ([]models.CardAlarm, error) {
	query := `
		SELECT
			event_id,
			event_type,
			alarm_level,
			alarm_status,
			EXTRACT(EPOCH FROM triggered_at)::bigint as triggered_at,
			device_id
		FROM alarm_events
		WHERE tenant_id = $1
		  AND device_id = ANY($2)
		  AND alarm_status IN ('active', 'acknowledged')
		ORDER BY triggered_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, r.tenantID, pq.Array(deviceIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query alarm events: %w", err)
	}
	defer rows.Close()

	var alarms []models.CardAlarm
	for rows.Next() {
		var alarm models.CardAlarm
		var level string

		if err := rows.Scan(
			&alarm.EventID,
			&alarm.EventType,
			&level,
			&alarm.AlarmStatus,
			&alarm.TriggeredAt,
			&alarm.DeviceID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alarm event: %w", err)
		}

		// alarm_level 列是 '0'..'4' 或级别名的双编码
		alarm.AlarmLevel = models.ParseAlarmLevel(level)
		alarms = append(alarms, alarm)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alarm events: %w", err)
	}

	return alarms, nil
}
