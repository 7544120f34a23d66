package services

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/canalcerto/canalcerto-backend/internal/analytics/models"
)

// MetricsService aggregates appointment records into the dashboard views.
// Pure functions of their input; no hidden state.
type MetricsService struct {
	logger *logrus.Logger
}

func NewMetricsService(logger *logrus.Logger) *MetricsService {
	return &MetricsService{logger: logger}
}

// ChannelMetrics groups records by channel and computes per-channel
// performance. Every one of the five channels is always present; channels
// with no records report zero volume and zero rates. Rows are ordered by
// total revenue descending.
func (svc *MetricsService) ChannelMetrics(records []models.AppointmentRecord) []models.ChannelMetrics {
	byChannel := make(map[models.Channel]*models.ChannelMetrics, len(models.Channels))
	out := make([]models.ChannelMetrics, 0, len(models.Channels))
	for _, ch := range models.Channels {
		byChannel[ch] = &models.ChannelMetrics{
			Channel:         ch,
			AgeDistribution: zeroAgeDistribution(),
			SexDistribution: map[models.Sex]int{models.SexMale: 0, models.SexFemale: 0},
		}
	}

	for _, r := range records {
		m, ok := byChannel[r.Channel]
		if !ok {
			// Unknown channel in input; skip rather than fail.
			continue
		}
		m.TotalVolume++
		switch r.Status {
		case models.StatusCompleted:
			m.Completed++
		case models.StatusCancelled:
			m.Cancelled++
		case models.StatusNoShow:
			m.NoShow++
		}
		m.TotalRevenue = roundCents(m.TotalRevenue + r.GrossValue)
		m.TotalCost = roundCents(m.TotalCost + r.OperatingCost)
		m.AgeDistribution[models.AgeBand(r.PatientAge)]++
		m.SexDistribution[r.PatientSex]++
	}

	for _, ch := range models.Channels {
		m := byChannel[ch]
		m.EstimatedProfit = roundCents(m.TotalRevenue - m.TotalCost)
		if m.TotalVolume > 0 {
			m.CompletionRate = float64(m.Completed) / float64(m.TotalVolume)
			m.CancellationRate = float64(m.Cancelled) / float64(m.TotalVolume)
			m.NoShowRate = float64(m.NoShow) / float64(m.TotalVolume)
		}
		if m.Completed > 0 {
			m.AverageTicket = roundCents(m.TotalRevenue / float64(m.Completed))
		}
		out = append(out, *m)
	}

	// Revenue-descending; stable keeps presentation order on ties so the
	// same input always serializes identically.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalRevenue > out[j].TotalRevenue
	})
	return out
}

// Overview computes the headline KPIs across all records.
func (svc *MetricsService) Overview(records []models.AppointmentRecord) models.OverviewKPI {
	var kpi models.OverviewKPI
	for _, r := range records {
		kpi.TotalAppointments++
		switch r.Status {
		case models.StatusCompleted:
			kpi.Completed++
		case models.StatusCancelled:
			kpi.Cancelled++
		case models.StatusNoShow:
			kpi.NoShow++
		}
		kpi.TotalRevenue = roundCents(kpi.TotalRevenue + r.GrossValue)
		kpi.EstimatedProfit = roundCents(kpi.EstimatedProfit + r.NetProfit)
	}
	if kpi.TotalAppointments > 0 {
		kpi.CompletionRate = float64(kpi.Completed) / float64(kpi.TotalAppointments)
		kpi.CancellationRate = float64(kpi.Cancelled) / float64(kpi.TotalAppointments)
	}
	if kpi.Completed > 0 {
		// Average ticket over completed appointments only.
		kpi.AverageTicket = roundCents(kpi.TotalRevenue / float64(kpi.Completed))
	}
	return kpi
}

// Demographics computes the patient-profile breakdowns: volume and
// completion rate per age band, channel usage per age band, and the sex
// split. Every age band is always present, zero-filled when empty.
func (svc *MetricsService) Demographics(records []models.AppointmentRecord) models.Demographics {
	byBand := make(map[string]*models.AgeBandMetrics, len(models.AgeBands))
	for _, band := range models.AgeBands {
		usage := make(map[models.Channel]int, len(models.Channels))
		for _, ch := range models.Channels {
			usage[ch] = 0
		}
		byBand[band] = &models.AgeBandMetrics{Band: band, ChannelUsage: usage}
	}
	sexDist := map[models.Sex]int{models.SexMale: 0, models.SexFemale: 0}

	for _, r := range records {
		band := byBand[models.AgeBand(r.PatientAge)]
		band.TotalVolume++
		if r.Status == models.StatusCompleted {
			band.Completed++
		}
		band.ChannelUsage[r.Channel]++
		sexDist[r.PatientSex]++
	}

	bands := make([]models.AgeBandMetrics, 0, len(models.AgeBands))
	for _, name := range models.AgeBands {
		b := byBand[name]
		if b.TotalVolume > 0 {
			b.CompletionRate = float64(b.Completed) / float64(b.TotalVolume)
		}
		bands = append(bands, *b)
	}

	return models.Demographics{
		AgeBands:        bands,
		SexDistribution: sexDist,
	}
}

func zeroAgeDistribution() map[string]int {
	m := make(map[string]int, len(models.AgeBands))
	for _, b := range models.AgeBands {
		m[b] = 0
	}
	return m
}
