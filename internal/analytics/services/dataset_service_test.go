package services

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canalcerto/canalcerto-backend/internal/analytics/models"
	apperrors "github.com/canalcerto/canalcerto-backend/pkg/errors"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func newTestDataset(t *testing.T, count int, seed int64) *DatasetService {
	t.Helper()
	svc, err := NewDatasetService(count, seed, newTestLogger())
	require.NoError(t, err)
	return svc
}

func TestGenerate_ExactCount(t *testing.T) {
	svc := newTestDataset(t, 0, 1)

	for _, n := range []int{0, 1, 500} {
		records, err := svc.Generate(n, 42)
		require.NoError(t, err)
		assert.Len(t, records, n)
	}
}

func TestGenerate_ChannelsWithinFixedSet(t *testing.T) {
	svc := newTestDataset(t, 0, 1)

	records, err := svc.Generate(1000, 7)
	require.NoError(t, err)

	valid := map[models.Channel]bool{}
	for _, ch := range models.Channels {
		valid[ch] = true
	}
	for _, r := range records {
		assert.True(t, valid[r.Channel], "unexpected channel %q", r.Channel)
	}
}

func TestGenerate_DeterministicForSameSeed(t *testing.T) {
	svc := newTestDataset(t, 0, 1)

	first, err := svc.Generate(1000, 42)
	require.NoError(t, err)
	second, err := svc.Generate(1000, 42)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerate_DifferentSeedsDiffer(t *testing.T) {
	svc := newTestDataset(t, 0, 1)

	first, err := svc.Generate(1000, 42)
	require.NoError(t, err)
	second, err := svc.Generate(1000, 43)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestGenerate_NegativeCount(t *testing.T) {
	svc := newTestDataset(t, 0, 1)

	_, err := svc.Generate(-1, 42)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidParameter))
}

func TestGenerate_FinancialConsistency(t *testing.T) {
	svc := newTestDataset(t, 0, 1)

	records, err := svc.Generate(2000, 42)
	require.NoError(t, err)

	for _, r := range records {
		if r.Status == models.StatusCompleted {
			assert.Greater(t, r.GrossValue, 0.0)
			assert.Greater(t, r.OperatingCost, 0.0)
			assert.Less(t, r.OperatingCost, r.GrossValue)
		} else {
			// Cancelled and no-show slots bill nothing but still cost.
			assert.Zero(t, r.GrossValue)
			assert.Greater(t, r.OperatingCost, 0.0)
		}
		assert.InDelta(t, r.GrossValue-r.OperatingCost, r.NetProfit, 0.011)
		assert.GreaterOrEqual(t, r.PatientAge, 1)
		assert.LessOrEqual(t, r.PatientAge, 95)
	}
}

func TestRegenerate_SwapsDataset(t *testing.T) {
	svc := newTestDataset(t, 100, 1)

	require.NoError(t, svc.Regenerate(250, 9))

	count, seed := svc.Params()
	assert.Equal(t, 250, count)
	assert.Equal(t, int64(9), seed)
	assert.Len(t, svc.Records(), 250)
}

func TestRegenerate_NegativeCountKeepsDataset(t *testing.T) {
	svc := newTestDataset(t, 100, 1)

	err := svc.Regenerate(-5, 9)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidParameter))

	count, seed := svc.Params()
	assert.Equal(t, 100, count)
	assert.Equal(t, int64(1), seed)
	assert.Len(t, svc.Records(), 100)
}

func TestRecords_ReturnsCopy(t *testing.T) {
	svc := newTestDataset(t, 10, 1)

	records := svc.Records()
	require.NotEmpty(t, records)
	original := records[0]
	records[0].PatientAge = -999

	assert.Equal(t, original.PatientAge, svc.Records()[0].PatientAge)
}
