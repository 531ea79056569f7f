package stats

// Query selects the leads to aggregate. StartDate's literal length picks the
// granularity: 10 chars ("2026-01-12") is a day range (EndDate defaults to
// StartDate), 7 chars ("2026-01") is a calendar-month prefix match. Callers
// depend on this length dispatch; there is no separate granularity flag.
type Query struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`

	// Platform filters to one ad channel; empty or "ALL" means every channel.
	Platform string `json:"platform"`
}

// PlatformStats is one per-channel sub-row inside an agent bucket.
// Field names are consumed by the presentation layer as-is.
type PlatformStats struct {
	Name             string  `json:"name"`
	DB               int     `json:"db"`
	AdTargetDB       int     `json:"adTargetDb"`
	Accepted         int     `json:"accepted"`
	Installed        int     `json:"installed"`
	Canceled         int     `json:"canceled"`
	AcceptedRevenue  int64   `json:"acceptedRevenue"`
	InstalledRevenue int64   `json:"installedRevenue"`
	AdSpend          int64   `json:"adSpend"`
	NetProfit        int64   `json:"netProfit"`
	AvgMargin        int64   `json:"avgMargin"`
	AcceptRate       float64 `json:"acceptRate"`
	CancelRate       float64 `json:"cancelRate"`
	NetInstallRate   float64 `json:"netInstallRate"`
	NetProfitMargin  float64 `json:"netProfitMargin"`
}

// AgentStats is one agent bucket (or the "unassigned" pool bucket).
type AgentStats struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	DB               int     `json:"db"`
	AdTargetDB       int     `json:"adTargetDb"`
	Accepted         int     `json:"accepted"`
	Installed        int     `json:"installed"`
	Canceled         int     `json:"canceled"`
	AcceptedRevenue  int64   `json:"acceptedRevenue"`
	InstalledRevenue int64   `json:"installedRevenue"`
	AdSpend          int64   `json:"adSpend"`
	NetProfit        int64   `json:"netProfit"`
	AvgMargin        int64   `json:"avgMargin"`
	AcceptRate       float64 `json:"acceptRate"`
	CancelRate       float64 `json:"cancelRate"`
	NetInstallRate   float64 `json:"netInstallRate"`
	NetProfitMargin  float64 `json:"netProfitMargin"`

	PlatformDetails []PlatformStats `json:"platformDetails"`
}

// ReasonCount tallies one free-text reason.
type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// MyStats is an agent's self-service view of the current month.
type MyStats struct {
	Month            string        `json:"month"`
	TotalDB          int           `json:"totalDb"`
	AcceptRate       float64       `json:"acceptRate"`
	TotalAdCost      int64         `json:"totalAdCost"`
	AcceptRevenue    int64         `json:"acceptRevenue"`
	InstalledRevenue int64         `json:"installedRevenue"`
	FinalProfit      int64         `json:"finalProfit"`
	FailReasons      []ReasonCount `json:"failReasons"`
	CancelReasons    []ReasonCount `json:"cancelReasons"`
}

// AgentRank is one row of the dashboard's agent leaderboard.
type AgentRank struct {
	Name    string  `json:"name"`
	Total   int     `json:"total"`
	Count   int     `json:"count"`
	Revenue int64   `json:"revenue"`
	Rate    float64 `json:"rate"`
}

// DashboardDetail is one per-lead line of the dashboard's detail table.
type DashboardDetail struct {
	ID         string `json:"id"`
	UploadDate string `json:"uploadDate"`
	Agent      string `json:"agent"`
	Name       string `json:"name"`
	Platform   string `json:"platform"`
	Status     string `json:"status"`
	AdCost     int    `json:"adCost"`
	Policy     int    `json:"policy"`
	Support    int    `json:"support"`
	Revenue    int64  `json:"revenue"`
	NetProfit  int64  `json:"netProfit"`
}

// Dashboard is the admin overview for the current calendar month.
type Dashboard struct {
	Month        string            `json:"month"`
	TotalDB      int               `json:"totalDb"`
	SuccessCount int               `json:"successCount"`
	SuccessRate  float64           `json:"successRate"`
	TotalAdCost  int64             `json:"totalAdCost"`
	TotalRevenue int64             `json:"totalRevenue"`
	NetProfit    int64             `json:"netProfit"`
	AgentRanking []AgentRank       `json:"agentRanking"`
	Details      []DashboardDetail `json:"details"`
}
