package twitch

// TimePeriod is the aggregation window for leaderboard style endpoints.
type TimePeriod string

const (
	TimePeriodAll   TimePeriod = "all"
	TimePeriodDay   TimePeriod = "day"
	TimePeriodWeek  TimePeriod = "week"
	TimePeriodMonth TimePeriod = "month"
	TimePeriodYear  TimePeriod = "year"
)

// AnalyticsReportType selects the analytics report version.
type AnalyticsReportType string

const (
	AnalyticsReportV1 AnalyticsReportType = "overview_v1"
	AnalyticsReportV2 AnalyticsReportType = "overview_v2"
)

// Pagination carries the cursor for forward pagination. An empty cursor
// means there are no further pages.
type Pagination struct {
	Cursor string `json:"cursor"`
}
