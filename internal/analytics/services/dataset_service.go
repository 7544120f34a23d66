package services

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/canalcerto/canalcerto-backend/internal/analytics/models"
	apperrors "github.com/canalcerto/canalcerto-backend/pkg/errors"
	"github.com/canalcerto/canalcerto-backend/pkg/metrics"
)

// datasetAnchor pins generated visit dates so the same seed always yields
// the same byte-identical dataset regardless of wall-clock time.
var datasetAnchor = time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)

// recordNamespace seeds the deterministic per-record UUIDs.
var recordNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// channelWeight drives how often each channel shows up in the simulation.
// Ordered slice, not a map: selection order must be deterministic.
var channelWeights = []struct {
	channel models.Channel
	weight  float64
}{
	{models.ChannelWhatsApp, 0.34},
	{models.ChannelApp, 0.24},
	{models.ChannelPhone, 0.18},
	{models.ChannelSMS, 0.13},
	{models.ChannelEmail, 0.11},
}

// statusOdds gives each channel its own completion and cancellation
// propensity; the remainder is the no-show probability.
var statusOdds = map[models.Channel]struct{ completed, cancelled float64 }{
	models.ChannelWhatsApp: {0.78, 0.12},
	models.ChannelApp:      {0.74, 0.15},
	models.ChannelPhone:    {0.70, 0.18},
	models.ChannelSMS:      {0.61, 0.24},
	models.ChannelEmail:    {0.55, 0.28},
}

// typeBaseValue is the gross value center per appointment type.
var typeBaseValue = map[models.AppointmentType]float64{
	models.TypeConsultation: 180,
	models.TypeFollowUp:     120,
	models.TypeExam:         260,
}

// DatasetService generates the synthetic appointment dataset and holds the
// current one in memory for the lifetime of the process. No persistence.
type DatasetService struct {
	mu      sync.RWMutex
	records []models.AppointmentRecord
	count   int
	seed    int64
	logger  *logrus.Logger
}

// NewDatasetService builds the service and generates the initial dataset.
func NewDatasetService(count int, seed int64, logger *logrus.Logger) (*DatasetService, error) {
	svc := &DatasetService{logger: logger}
	if err := svc.Regenerate(count, seed); err != nil {
		return nil, err
	}
	return svc, nil
}

// Generate produces exactly count appointment records, reproducible for a
// given seed. count < 0 fails with ErrInvalidParameter.
func (svc *DatasetService) Generate(count int, seed int64) ([]models.AppointmentRecord, error) {
	if count < 0 {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidParameter, "record count must be >= 0, got %d", count)
	}

	rng := rand.New(rand.NewSource(seed))
	records := make([]models.AppointmentRecord, 0, count)
	for i := 0; i < count; i++ {
		records = append(records, generateRecord(rng, seed, i))
	}
	return records, nil
}

// Regenerate replaces the current dataset atomically.
func (svc *DatasetService) Regenerate(count int, seed int64) error {
	records, err := svc.Generate(count, seed)
	if err != nil {
		return err
	}

	svc.mu.Lock()
	svc.records = records
	svc.count = count
	svc.seed = seed
	svc.mu.Unlock()

	metrics.DatasetGenerations.Inc()
	metrics.DatasetRecords.Set(float64(count))

	if svc.logger != nil {
		svc.logger.WithFields(logrus.Fields{
			"count": count,
			"seed":  seed,
		}).Info("Synthetic dataset generated")
	}
	return nil
}

// Records returns a copy of the current dataset.
func (svc *DatasetService) Records() []models.AppointmentRecord {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	out := make([]models.AppointmentRecord, len(svc.records))
	copy(out, svc.records)
	return out
}

// Params returns the count and seed of the current dataset.
func (svc *DatasetService) Params() (count int, seed int64) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.count, svc.seed
}

func generateRecord(rng *rand.Rand, seed int64, index int) models.AppointmentRecord {
	channel := pickChannel(rng)
	status := pickStatus(rng, channel)
	visitDate := datasetAnchor.AddDate(0, 0, -rng.Intn(365))

	// Age skews toward middle-aged patients, clamped to a plausible range.
	age := int(rng.NormFloat64()*16 + 38)
	if age < 1 {
		age = 1
	}
	if age > 95 {
		age = 95
	}

	sex := models.SexFemale
	if rng.Float64() >= 0.54 {
		sex = models.SexMale
	}

	apptType := pickType(rng)
	specialty := models.Specialties[rng.Intn(len(models.Specialties))]

	gross, cost := pickFinancials(rng, apptType, status)

	return models.AppointmentRecord{
		ID:            uuid.NewSHA1(recordNamespace, []byte(fmt.Sprintf("canalcerto-%d-%d", seed, index))),
		VisitDate:     visitDate,
		PatientID:     fmt.Sprintf("PAT-%05d", 1+rng.Intn(9000)),
		PatientAge:    age,
		PatientSex:    sex,
		Channel:       channel,
		Type:          apptType,
		Specialty:     specialty,
		Status:        status,
		GrossValue:    gross,
		OperatingCost: cost,
		NetProfit:     roundCents(gross - cost),
	}
}

func pickChannel(rng *rand.Rand) models.Channel {
	roll := rng.Float64()
	acc := 0.0
	for _, cw := range channelWeights {
		acc += cw.weight
		if roll < acc {
			return cw.channel
		}
	}
	return channelWeights[len(channelWeights)-1].channel
}

func pickStatus(rng *rand.Rand, channel models.Channel) models.Status {
	odds := statusOdds[channel]
	roll := rng.Float64()
	switch {
	case roll < odds.completed:
		return models.StatusCompleted
	case roll < odds.completed+odds.cancelled:
		return models.StatusCancelled
	default:
		return models.StatusNoShow
	}
}

func pickType(rng *rand.Rand) models.AppointmentType {
	roll := rng.Float64()
	switch {
	case roll < 0.60:
		return models.TypeConsultation
	case roll < 0.85:
		return models.TypeFollowUp
	default:
		return models.TypeExam
	}
}

// pickFinancials returns gross value and operating cost. Cancelled and
// no-show slots bill nothing but still carry a small handling cost, so a
// high-cancellation channel can show negative estimated profit.
func pickFinancials(rng *rand.Rand, t models.AppointmentType, status models.Status) (gross, cost float64) {
	base := typeBaseValue[t]
	value := base + rng.NormFloat64()*25
	if value < 40 {
		value = 40
	}
	costShare := 0.35 + 0.15*rng.Float64()
	handling := 8 + rng.Float64()*10

	if status != models.StatusCompleted {
		return 0, roundCents(handling)
	}
	return roundCents(value), roundCents(value * costShare)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
