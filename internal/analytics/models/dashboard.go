package models

// ChannelMetrics is the aggregated performance of one scheduling channel.
// Recomputed on every request; no identity beyond the channel key.
type ChannelMetrics struct {
	Channel          Channel        `json:"channel"`
	TotalVolume      int            `json:"total_volume"`
	Completed        int            `json:"completed"`
	Cancelled        int            `json:"cancelled"`
	NoShow           int            `json:"no_show"`
	CompletionRate   float64        `json:"completion_rate"`
	CancellationRate float64        `json:"cancellation_rate"`
	NoShowRate       float64        `json:"no_show_rate"`
	TotalRevenue     float64        `json:"total_revenue"`
	TotalCost        float64        `json:"total_cost"`
	EstimatedProfit  float64        `json:"estimated_profit"`
	AverageTicket    float64        `json:"average_ticket"`
	AgeDistribution  map[string]int `json:"age_distribution"`
	SexDistribution  map[Sex]int    `json:"sex_distribution"`
}

// OverviewKPI is the headline numbers across the whole filtered dataset.
type OverviewKPI struct {
	TotalAppointments int     `json:"total_appointments"`
	Completed         int     `json:"completed"`
	Cancelled         int     `json:"cancelled"`
	NoShow            int     `json:"no_show"`
	CompletionRate    float64 `json:"completion_rate"`
	CancellationRate  float64 `json:"cancellation_rate"`
	AverageTicket     float64 `json:"average_ticket"`
	TotalRevenue      float64 `json:"total_revenue"`
	EstimatedProfit   float64 `json:"estimated_profit"`
}

// AgeBandMetrics is the per-age-band patient profile breakdown.
type AgeBandMetrics struct {
	Band           string          `json:"band"`
	TotalVolume    int             `json:"total_volume"`
	Completed      int             `json:"completed"`
	CompletionRate float64         `json:"completion_rate"`
	ChannelUsage   map[Channel]int `json:"channel_usage"`
}

// Demographics groups the patient-profile views.
type Demographics struct {
	AgeBands        []AgeBandMetrics `json:"age_bands"`
	SexDistribution map[Sex]int      `json:"sex_distribution"`
}

// Insight is one automatically derived observation about the filtered data.
type Insight struct {
	Code     string `json:"code"`
	Severity string `json:"severity"` // "info" or "warning"
	Message  string `json:"message"`
}

// DashboardData is the full aggregated payload for the dashboard.
type DashboardData struct {
	Overview     OverviewKPI      `json:"overview"`
	Channels     []ChannelMetrics `json:"channels"`
	Demographics Demographics     `json:"demographics"`
	Insights     []Insight        `json:"insights"`
}
