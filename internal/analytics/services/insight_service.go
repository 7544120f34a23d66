package services

import (
	"fmt"

	"github.com/canalcerto/canalcerto-backend/internal/analytics/models"
)

// minSampleForWorstConversion avoids flagging low-volume channels as the
// worst converter on statistical noise.
const minSampleForWorstConversion = 50

// InsightService derives automatic observations from aggregated metrics.
type InsightService struct{}

func NewInsightService() *InsightService {
	return &InsightService{}
}

// FromMetrics builds the insight list for the dashboard. Channels with zero
// volume never win a ranking. Returns an empty slice for an empty dataset.
func (svc *InsightService) FromMetrics(channels []models.ChannelMetrics, demo models.Demographics) []models.Insight {
	insights := make([]models.Insight, 0, 8)

	active := make([]models.ChannelMetrics, 0, len(channels))
	for _, m := range channels {
		if m.TotalVolume > 0 {
			active = append(active, m)
		}
	}
	if len(active) == 0 {
		return insights
	}

	if best := maxBy(active, func(m models.ChannelMetrics) float64 { return m.CompletionRate }); best != nil {
		insights = append(insights, models.Insight{
			Code:     "best_conversion_channel",
			Severity: "info",
			Message: fmt.Sprintf("Best converting channel: %s with a completion rate of %.1f%%.",
				best.Channel, best.CompletionRate*100),
		})
	}

	if top := maxBy(active, func(m models.ChannelMetrics) float64 { return m.TotalRevenue }); top != nil {
		insights = append(insights, models.Insight{
			Code:     "top_revenue_channel",
			Severity: "info",
			Message: fmt.Sprintf("Highest revenue channel: %s with a total of %.2f.",
				top.Channel, top.TotalRevenue),
		})
	}

	if top := maxBy(active, func(m models.ChannelMetrics) float64 { return m.EstimatedProfit }); top != nil {
		insights = append(insights, models.Insight{
			Code:     "top_profit_channel",
			Severity: "info",
			Message: fmt.Sprintf("Highest estimated profit: %s at %.2f.",
				top.Channel, top.EstimatedProfit),
		})
	}

	if worst := maxBy(active, func(m models.ChannelMetrics) float64 { return m.CancellationRate }); worst != nil {
		insights = append(insights, models.Insight{
			Code:     "highest_cancellation_channel",
			Severity: "warning",
			Message: fmt.Sprintf("Highest cancellation rate: %s cancels %.1f%% of its appointments.",
				worst.Channel, worst.CancellationRate*100),
		})
	}

	sampled := make([]models.ChannelMetrics, 0, len(active))
	for _, m := range active {
		if m.TotalVolume >= minSampleForWorstConversion {
			sampled = append(sampled, m)
		}
	}
	if worst := minBy(sampled, func(m models.ChannelMetrics) float64 { return m.CompletionRate }); worst != nil {
		insights = append(insights, models.Insight{
			Code:     "worst_conversion_channel",
			Severity: "warning",
			Message: fmt.Sprintf("Worst converting channel (sample >= %d): %s at only %.1f%%.",
				minSampleForWorstConversion, worst.Channel, worst.CompletionRate*100),
		})
	}

	if band := bestAgeBand(demo.AgeBands); band != nil {
		insights = append(insights, models.Insight{
			Code:     "best_conversion_age_band",
			Severity: "info",
			Message: fmt.Sprintf("Age band with the best completion rate: %s at %.1f%%.",
				band.Band, band.CompletionRate*100),
		})
	}

	for _, band := range demo.AgeBands {
		if band.TotalVolume == 0 {
			continue
		}
		top, count := topChannelUsage(band)
		insights = append(insights, models.Insight{
			Code:     "top_channel_age_band",
			Severity: "info",
			Message: fmt.Sprintf("Age band %s books mostly through %s (%d appointments).",
				band.Band, top, count),
		})
	}

	return insights
}

func maxBy(ms []models.ChannelMetrics, key func(models.ChannelMetrics) float64) *models.ChannelMetrics {
	if len(ms) == 0 {
		return nil
	}
	best := ms[0]
	for _, m := range ms[1:] {
		if key(m) > key(best) {
			best = m
		}
	}
	return &best
}

func minBy(ms []models.ChannelMetrics, key func(models.ChannelMetrics) float64) *models.ChannelMetrics {
	if len(ms) == 0 {
		return nil
	}
	best := ms[0]
	for _, m := range ms[1:] {
		if key(m) < key(best) {
			best = m
		}
	}
	return &best
}

func bestAgeBand(bands []models.AgeBandMetrics) *models.AgeBandMetrics {
	var best *models.AgeBandMetrics
	for i := range bands {
		b := bands[i]
		if b.TotalVolume == 0 {
			continue
		}
		if best == nil || b.CompletionRate > best.CompletionRate {
			best = &bands[i]
		}
	}
	return best
}

// topChannelUsage returns the most used channel in the band, breaking ties
// by presentation order for stable output.
func topChannelUsage(band models.AgeBandMetrics) (models.Channel, int) {
	top := models.Channels[0]
	count := band.ChannelUsage[top]
	for _, ch := range models.Channels[1:] {
		if band.ChannelUsage[ch] > count {
			top = ch
			count = band.ChannelUsage[ch]
		}
	}
	return top, count
}
