package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canalcerto/canalcerto-backend/internal/analytics/models"
)

func record(ch models.Channel, st models.Status, age int, sex models.Sex, gross, cost float64) models.AppointmentRecord {
	return models.AppointmentRecord{
		Channel:       ch,
		Status:        st,
		PatientAge:    age,
		PatientSex:    sex,
		GrossValue:    gross,
		OperatingCost: cost,
		NetProfit:     gross - cost,
	}
}

func TestChannelMetrics_RateInvariant(t *testing.T) {
	svc := newTestDataset(t, 0, 1)
	records, err := svc.Generate(1000, 42)
	require.NoError(t, err)

	for _, m := range NewMetricsService(newTestLogger()).ChannelMetrics(records) {
		if m.TotalVolume == 0 {
			assert.Zero(t, m.CompletionRate)
			assert.Zero(t, m.CancellationRate)
			assert.Zero(t, m.NoShowRate)
			continue
		}
		sum := m.CompletionRate + m.CancellationRate + m.NoShowRate
		assert.InDelta(t, 1.0, sum, 1e-9, "channel %s", m.Channel)
	}
}

func TestChannelMetrics_EmptyInputZeroFilled(t *testing.T) {
	metrics := NewMetricsService(newTestLogger()).ChannelMetrics(nil)

	require.Len(t, metrics, len(models.Channels))
	seen := map[models.Channel]bool{}
	for _, m := range metrics {
		seen[m.Channel] = true
		assert.Zero(t, m.TotalVolume)
		assert.Zero(t, m.CompletionRate)
		assert.Zero(t, m.TotalRevenue)
		assert.Zero(t, m.EstimatedProfit)
		assert.Zero(t, m.AverageTicket)
	}
	for _, ch := range models.Channels {
		assert.True(t, seen[ch], "channel %s missing from output", ch)
	}
}

func TestChannelMetrics_AbsentChannelZeroFilled(t *testing.T) {
	// Only SMS records; the other four channels must still appear.
	records := []models.AppointmentRecord{
		record(models.ChannelSMS, models.StatusCompleted, 30, models.SexFemale, 100, 40),
	}

	metrics := NewMetricsService(newTestLogger()).ChannelMetrics(records)
	require.Len(t, metrics, len(models.Channels))

	for _, m := range metrics {
		if m.Channel == models.ChannelSMS {
			assert.Equal(t, 1, m.TotalVolume)
			continue
		}
		assert.Zero(t, m.TotalVolume, "channel %s should be zero-filled", m.Channel)
	}
}

func TestChannelMetrics_Reduction(t *testing.T) {
	records := []models.AppointmentRecord{
		record(models.ChannelWhatsApp, models.StatusCompleted, 30, models.SexFemale, 100, 40),
		record(models.ChannelWhatsApp, models.StatusCompleted, 64, models.SexMale, 200, 80),
		record(models.ChannelWhatsApp, models.StatusCancelled, 22, models.SexFemale, 0, 10),
	}

	metrics := NewMetricsService(newTestLogger()).ChannelMetrics(records)
	wa := metrics[0] // highest revenue row
	require.Equal(t, models.ChannelWhatsApp, wa.Channel)

	assert.Equal(t, 3, wa.TotalVolume)
	assert.Equal(t, 2, wa.Completed)
	assert.Equal(t, 1, wa.Cancelled)
	assert.Equal(t, 0, wa.NoShow)
	assert.InDelta(t, 2.0/3.0, wa.CompletionRate, 1e-9)
	assert.InDelta(t, 1.0/3.0, wa.CancellationRate, 1e-9)
	assert.Zero(t, wa.NoShowRate)
	assert.InDelta(t, 300, wa.TotalRevenue, 1e-9)
	assert.InDelta(t, 130, wa.TotalCost, 1e-9)
	assert.InDelta(t, 170, wa.EstimatedProfit, 1e-9)
	assert.InDelta(t, 150, wa.AverageTicket, 1e-9)
	assert.Equal(t, 1, wa.AgeDistribution["26-35"])
	assert.Equal(t, 1, wa.AgeDistribution["60+"])
	assert.Equal(t, 1, wa.AgeDistribution["18-25"])
	assert.Equal(t, 2, wa.SexDistribution[models.SexFemale])
	assert.Equal(t, 1, wa.SexDistribution[models.SexMale])
}

func TestChannelMetrics_SortedByRevenue(t *testing.T) {
	records := []models.AppointmentRecord{
		record(models.ChannelEmail, models.StatusCompleted, 30, models.SexFemale, 500, 100),
		record(models.ChannelPhone, models.StatusCompleted, 30, models.SexFemale, 300, 100),
		record(models.ChannelApp, models.StatusCompleted, 30, models.SexFemale, 400, 100),
	}

	metrics := NewMetricsService(newTestLogger()).ChannelMetrics(records)
	for i := 1; i < len(metrics); i++ {
		assert.GreaterOrEqual(t, metrics[i-1].TotalRevenue, metrics[i].TotalRevenue)
	}
	assert.Equal(t, models.ChannelEmail, metrics[0].Channel)
}

func TestChannelMetrics_ByteStableAcrossRuns(t *testing.T) {
	dataset := newTestDataset(t, 0, 1)
	metricsService := NewMetricsService(newTestLogger())

	first, err := dataset.Generate(1000, 42)
	require.NoError(t, err)
	second, err := dataset.Generate(1000, 42)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(metricsService.ChannelMetrics(first))
	require.NoError(t, err)
	secondJSON, err := json.Marshal(metricsService.ChannelMetrics(second))
	require.NoError(t, err)

	assert.Equal(t, firstJSON, secondJSON)
}

func TestOverview(t *testing.T) {
	records := []models.AppointmentRecord{
		record(models.ChannelWhatsApp, models.StatusCompleted, 30, models.SexFemale, 100, 40),
		record(models.ChannelSMS, models.StatusCancelled, 40, models.SexMale, 0, 10),
		record(models.ChannelApp, models.StatusNoShow, 50, models.SexFemale, 0, 12),
		record(models.ChannelPhone, models.StatusCompleted, 60, models.SexMale, 300, 100),
	}

	kpi := NewMetricsService(newTestLogger()).Overview(records)

	assert.Equal(t, 4, kpi.TotalAppointments)
	assert.Equal(t, 2, kpi.Completed)
	assert.Equal(t, 1, kpi.Cancelled)
	assert.Equal(t, 1, kpi.NoShow)
	assert.InDelta(t, 0.5, kpi.CompletionRate, 1e-9)
	assert.InDelta(t, 0.25, kpi.CancellationRate, 1e-9)
	assert.InDelta(t, 400, kpi.TotalRevenue, 1e-9)
	assert.InDelta(t, 238, kpi.EstimatedProfit, 1e-9)
	assert.InDelta(t, 200, kpi.AverageTicket, 1e-9)
}

func TestOverview_Empty(t *testing.T) {
	kpi := NewMetricsService(newTestLogger()).Overview(nil)

	assert.Zero(t, kpi.TotalAppointments)
	assert.Zero(t, kpi.CompletionRate)
	assert.Zero(t, kpi.CancellationRate)
	assert.Zero(t, kpi.AverageTicket)
	assert.Zero(t, kpi.TotalRevenue)
}

func TestDemographics(t *testing.T) {
	records := []models.AppointmentRecord{
		record(models.ChannelWhatsApp, models.StatusCompleted, 12, models.SexFemale, 100, 40),
		record(models.ChannelApp, models.StatusCancelled, 16, models.SexMale, 0, 10),
		record(models.ChannelPhone, models.StatusCompleted, 70, models.SexFemale, 200, 80),
	}

	demo := NewMetricsService(newTestLogger()).Demographics(records)

	require.Len(t, demo.AgeBands, len(models.AgeBands))
	byBand := map[string]models.AgeBandMetrics{}
	for _, b := range demo.AgeBands {
		byBand[b.Band] = b
	}

	minors := byBand["0-17"]
	assert.Equal(t, 2, minors.TotalVolume)
	assert.Equal(t, 1, minors.Completed)
	assert.InDelta(t, 0.5, minors.CompletionRate, 1e-9)
	assert.Equal(t, 1, minors.ChannelUsage[models.ChannelWhatsApp])
	assert.Equal(t, 1, minors.ChannelUsage[models.ChannelApp])

	seniors := byBand["60+"]
	assert.Equal(t, 1, seniors.TotalVolume)
	assert.InDelta(t, 1.0, seniors.CompletionRate, 1e-9)

	// Untouched bands stay zero-filled.
	assert.Zero(t, byBand["36-45"].TotalVolume)

	assert.Equal(t, 2, demo.SexDistribution[models.SexFemale])
	assert.Equal(t, 1, demo.SexDistribution[models.SexMale])
}
