package models

// DashboardStats backs the admin dashboard cards.
type DashboardStats struct {
	TotalUsers          int     `json:"total_users"`
	ActiveUsers         int     `json:"active_users"`
	SuspendedUsers      int     `json:"suspended_users"`
	TotalRuns           int     `json:"total_runs"`
	UpcomingRuns        int     `json:"upcoming_runs"`
	TotalParticipants   int     `json:"total_participants"`
	AverageParticipants float64 `json:"average_participants"`
	TotalDistance       float64 `json:"total_distance"`
	TotalPosts          int64   `json:"total_posts"`
}
