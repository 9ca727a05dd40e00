package models

// AnalysisRequest represents a single analyze call.
type AnalysisRequest struct {
	Text    string
	Options map[string]any
}

// BatchItem is one slot of a batch analysis. Exactly one of Result and
// Error is set.
type BatchItem struct {
	Result *AnalysisResult
	Error  error
}

// ListAnalysesRequest captures filters for the analysis history.
type ListAnalysesRequest struct {
	Classification Label
	Limit          int
}

// ListAnalysesResponse contains history records plus the unfiltered total.
type ListAnalysesResponse struct {
	Analyses []AnalysisRecord
	Total    int
}

// StatsRange selects the trend window for the stats endpoint.
type StatsRange string

const (
	RangeToday   StatsRange = "today"
	RangeWeek    StatsRange = "week"
	RangeMonth   StatsRange = "month"
	RangeQuarter StatsRange = "quarter"
)

// Days returns the number of trend days covered by the range.
func (r StatsRange) Days() int {
	switch r {
	case RangeToday:
		return 1
	case RangeMonth:
		return 30
	case RangeQuarter:
		return 90
	default:
		return 7
	}
}
