package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"wisefido-monitor/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *CardRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger := zap.NewNop()
	repo := NewCardRepository(db, logger, "tenant-123")

	return db, mock, repo
}

func TestFetchCards_Success(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	devicesJSON, _ := json.Marshal([]map[string]any{
		{"device_id": "device-1", "device_name": "Radar01", "device_type": "Radar", "unit_id": "unit-1"},
	})

	cardRows := sqlmock.NewRows([]string{
		"card_id", "tenant_id", "card_type", "card_name", "card_address", "unit_type", "devices",
	}).AddRow(
		"card-456", "tenant-123", "ActiveBed", "Bed 1", "Building A / 1F", "Facility", devicesJSON,
	)

	mock.ExpectQuery(`SELECT`).
		WithArgs("tenant-123").
		WillReturnRows(cardRows)

	alarmRows := sqlmock.NewRows([]string{
		"event_id", "event_type", "alarm_level", "alarm_status", "triggered_at", "device_id",
	}).AddRow(
		"event-1", "Fall", "ALERT", "active", int64(1700000000), "device-1",
	).AddRow(
		"event-2", "HR", "4", "acknowledged", int64(1700000001), "device-1",
	)

	mock.ExpectQuery(`SELECT`).
		WithArgs("tenant-123", sqlmock.AnyArg()).
		WillReturnRows(alarmRows)

	cards, err := repo.FetchCards(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 1)

	card := cards[0]
	assert.Equal(t, "card-456", card.CardID)
	assert.Equal(t, models.UnitTypeFacility, card.UnitType)
	require.Len(t, card.Devices, 1)
	assert.Equal(t, "device-1", card.Devices[0].DeviceID)

	require.Len(t, card.Alarms, 2)
	assert.Equal(t, models.TierEmergency, card.Alarms[0].AlarmLevel.Tier())
	assert.True(t, card.Alarms[0].IsActive())
	assert.Equal(t, models.TierWarning, card.Alarms[1].AlarmLevel.Tier())
	assert.False(t, card.Alarms[1].IsActive())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchCards_CardWithoutDevices(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	// devices JSONB 为空：不发起报警查询
	cardRows := sqlmock.NewRows([]string{
		"card_id", "tenant_id", "card_type", "card_name", "card_address", "unit_type", "devices",
	}).AddRow(
		"card-789", "tenant-123", "Location", "Lobby", "", "Home", []byte(`[]`),
	)

	mock.ExpectQuery(`SELECT`).
		WithArgs("tenant-123").
		WillReturnRows(cardRows)

	cards, err := repo.FetchCards(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Empty(t, cards[0].Alarms)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchCards_NullUnitType(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	// 单元类型缺失：保持空串，由 policy 层走 fail-open 分支
	cardRows := sqlmock.NewRows([]string{
		"card_id", "tenant_id", "card_type", "card_name", "card_address", "unit_type", "devices",
	}).AddRow(
		"card-1", "tenant-123", "ActiveBed", "Bed 2", "", nil, nil,
	)

	mock.ExpectQuery(`SELECT`).
		WithArgs("tenant-123").
		WillReturnRows(cardRows)

	cards, err := repo.FetchCards(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Empty(t, cards[0].UnitType)
}

func TestFetchCards_QueryError(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).
		WithArgs("tenant-123").
		WillReturnError(sql.ErrConnDone)

	_, err := repo.FetchCards(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query cards")
}
