package storage

import (
	"path/filepath"
	"testing"
	"time"

	"RentalNegotiator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, InitDB(filepath.Join(t.TempDir(), "test.db")))
	t.Cleanup(func() { CloseDB() })
}

func TestSessionValues(t *testing.T) {
	openTestDB(t)

	v, ok, err := GetValue("jwtToken")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)

	require.NoError(t, SetValues(map[string]string{"jwtToken": "abc", "userDong": "역삼동"}))
	require.NoError(t, SetValues(map[string]string{"jwtToken": "def"}))

	v, ok, err = GetValue("jwtToken")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "def", v)

	all, err := GetAllValues()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"jwtToken": "def", "userDong": "역삼동"}, all)

	require.NoError(t, DeleteValues("jwtToken"))
	_, ok, err = GetValue("jwtToken")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, ClearValues())
	all, err = GetAllValues()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestNotInitialized(t *testing.T) {
	require.NoError(t, CloseDB())
	_, _, err := GetValue("x")
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.ErrorIs(t, SetValues(map[string]string{"x": "y"}), ErrNotInitialized)
	_, err = GetMeasurements(1)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestMeasurements(t *testing.T) {
	openTestDB(t)

	base := time.Now().Add(-time.Minute)
	_, err := CreateMeasurement(models.MeasurementRecord{
		SessionID: "s1", Kind: models.KindNoise, Average: 42.5, Min: 30, Max: 55, CreatedAt: base,
	})
	require.NoError(t, err)
	_, err = CreateMeasurement(models.MeasurementRecord{
		SessionID: "s1", Kind: models.KindLevel, Average: 1.2, Min: 1.2, Max: 1.2, Detail: "beta=1.0", CreatedAt: base.Add(time.Second),
	})
	require.NoError(t, err)

	records, err := GetMeasurements(0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.KindLevel, records[0].Kind)
	assert.Equal(t, "beta=1.0", records[0].Detail)
	assert.Equal(t, models.KindNoise, records[1].Kind)
	assert.InDelta(t, 42.5, records[1].Average, 1e-9)

	records, err = GetMeasurements(1)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
