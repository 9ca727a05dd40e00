package models

import "time"

// Label is one of the fixed classification outcomes used throughout the pipeline.
type Label string

const (
	LabelSafe         Label = "safe"
	LabelSpam         Label = "spam"
	LabelPhishing     Label = "phishing"
	LabelMalware      Label = "malware"
	LabelSuspicious   Label = "suspicious"
	LabelNotification Label = "notification"
	LabelInvoice      Label = "invoice"
	LabelPromotion    Label = "promotion"
	LabelNeedsReview  Label = "needs_review"
)

// IsThreat reports whether the label belongs to a threat category.
func (l Label) IsThreat() bool {
	return l == LabelSpam || l == LabelPhishing || l == LabelMalware
}

// FeatureVector holds signals derived purely from the email text.
type FeatureVector struct {
	Length               int  `json:"length"`
	WordCount            int  `json:"word_count"`
	HasLinks             bool `json:"has_links"`
	HasAttachments       bool `json:"has_attachments"`
	HasUrgentWords       bool `json:"has_urgent_words"`
	HasMoneyWords        bool `json:"has_money_words"`
	HasActionWords       bool `json:"has_action_words"`
	SpamKeywordCount     int  `json:"spam_keyword_count"`
	PhishingKeywordCount int  `json:"phishing_keyword_count"`
	MalwareKeywordCount  int  `json:"malware_keyword_count"`
	HasSuspiciousSender  bool `json:"has_suspicious_sender"`
}

// AnalysisResult summarises a completed email analysis. It is constructed once
// per request and never mutated afterwards.
type AnalysisResult struct {
	AnalysisID      string        `json:"analysis_id"`
	Classification  Label         `json:"classification"`
	Confidence      float64       `json:"confidence"`
	RiskScore       int           `json:"risk_score"`
	Explanation     string        `json:"explanation"`
	Features        FeatureVector `json:"features"`
	Recommendations []string      `json:"recommendations"`
	AIUsed          bool          `json:"ai_used"`
	CreatedAt       time.Time     `json:"created_at"`
}

// AnalysisRecord is the persisted form of an AnalysisResult, with the email
// text truncated to a preview and the measured processing time attached.
type AnalysisRecord struct {
	ID               string        `json:"id"`
	TextPreview      string        `json:"text"`
	Classification   Label         `json:"classification"`
	Confidence       float64       `json:"confidence"`
	RiskScore        int           `json:"risk_score"`
	Explanation      string        `json:"explanation"`
	Features         FeatureVector `json:"features"`
	Recommendations  []string      `json:"recommendations"`
	ProcessingTimeMs int64         `json:"processing_time"`
	AIUsed           bool          `json:"ai_used"`
	CreatedAt        time.Time     `json:"created_at"`
}

// TrendPoint aggregates per-label counts for one calendar day.
type TrendPoint struct {
	Date       string `json:"date"`
	Safe       int    `json:"safe"`
	Spam       int    `json:"spam"`
	Phishing   int    `json:"phishing"`
	Suspicious int    `json:"suspicious"`
	Other      int    `json:"other"`
	Total      int    `json:"total"`
}

// Stats captures the aggregate counters served by the stats endpoint.
type Stats struct {
	TotalAnalyzed    int            `json:"totalAnalyzed"`
	SpamDetected     int            `json:"spamDetected"`
	PhishingBlocked  int            `json:"phishingBlocked"`
	AvgConfidence    float64        `json:"avgConfidence"`
	ProcessingTimeMs int64          `json:"processingTime"`
	SuccessRate      float64        `json:"successRate"`
	WeeklyTrend      []TrendPoint   `json:"weeklyTrend"`
	Distribution     map[Label]int  `json:"distribution"`
	Timestamp        time.Time      `json:"timestamp"`
}
