package dto

import "time"

// DashboardMetricsResponse aggregates platform-wide counters for the
// admin dashboard.
type DashboardMetricsResponse struct {
	TotalUsers          int64     `json:"total_users"`
	ActiveUsers         int64     `json:"active_users"`
	BannedUsers         int64     `json:"banned_users"`
	TotalCommunities    int64     `json:"total_communities"`
	PublicCommunities   int64     `json:"public_communities"`
	PrivateCommunities  int64     `json:"private_communities"`
	PostsLast24Hours    int64     `json:"posts_last_24_hours"`
	PendingJoinRequests int64     `json:"pending_join_requests"`
	ReportCount         int64     `json:"report_count"`
	GeneratedAt         time.Time `json:"generated_at"`
	CacheHit            bool      `json:"cache_hit"`
}

// TimeSeriesPoint is one day bucket of an aggregation series.
type TimeSeriesPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// TimeSeriesResponse carries a day-bucketed series in ascending date order.
type TimeSeriesResponse struct {
	Points      []TimeSeriesPoint `json:"points"`
	GeneratedAt time.Time         `json:"generated_at"`
	CacheHit    bool              `json:"cache_hit"`
}
